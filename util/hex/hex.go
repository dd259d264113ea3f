/*
 * Z80 - Hex formatting and image loading.
 *
 * Copyright 2025, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package hex

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

var hexMap = "0123456789ABCDEF"

// Format a 16-bit word followed by a space.
func FormatWord(str *strings.Builder, word uint16) {
	shift := 12
	for i := 0; i < 4; i++ {
		str.WriteByte(hexMap[(word>>shift)&0xf])
		shift -= 4
	}
	str.WriteByte(' ')
}

// Format bytes separated by spaces.
func FormatBytes(str *strings.Builder, data []uint8) {
	for _, b := range data {
		str.WriteByte(hexMap[(b>>4)&0xf])
		str.WriteByte(hexMap[b&0xf])
		str.WriteByte(' ')
	}
}

// Format one memory dump line: address, up to 16 bytes of hex and the
// printable characters.
func FormatLine(addr uint16, data []uint8) string {
	var str strings.Builder
	FormatWord(&str, addr)
	str.WriteByte(' ')
	FormatBytes(&str, data)
	for i := len(data); i < 16; i++ {
		str.WriteString("   ")
	}
	str.WriteByte(' ')
	for _, b := range data {
		if b >= 0x20 && b < 0x7f {
			str.WriteByte(b)
		} else {
			str.WriteByte('.')
		}
	}
	return str.String()
}

// Intel HEX record types.
const (
	recData = 0
	recEOF  = 1
)

// Load Intel HEX records, handing each data byte and its address to
// store. Returns the entry address of the first data byte.
func LoadHex(r io.Reader, store func(addr uint16, data uint8)) (uint16, error) {
	scanner := bufio.NewScanner(r)
	first := -1
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text[0] != ':' {
			return 0, fmt.Errorf("line %d: missing start of record", line)
		}
		data, err := decodeRecord(text[1:])
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", line, err)
		}
		count := int(data[0])
		addr := (uint16(data[1]) << 8) | uint16(data[2])
		switch data[3] {
		case recData:
			if len(data) != count+5 {
				return 0, fmt.Errorf("line %d: record length mismatch", line)
			}
			if first < 0 {
				first = int(addr)
			}
			for i := 0; i < count; i++ {
				store(addr+uint16(i), data[4+i])
			}
		case recEOF:
			if first < 0 {
				first = 0
			}
			return uint16(first), nil
		default:
			return 0, fmt.Errorf("line %d: unsupported record type %d", line, data[3])
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	if first < 0 {
		first = 0
	}
	return uint16(first), nil
}

// Decode the hex digits of one record and verify its checksum.
func decodeRecord(text string) ([]uint8, error) {
	if (len(text) & 1) != 0 {
		return nil, fmt.Errorf("odd number of digits")
	}
	data := make([]uint8, 0, len(text)/2)
	var sum uint8
	for i := 0; i < len(text); i += 2 {
		hi := strings.IndexByte(hexMap, upper(text[i]))
		lo := strings.IndexByte(hexMap, upper(text[i+1]))
		if hi < 0 || lo < 0 {
			return nil, fmt.Errorf("bad hex digit")
		}
		b := uint8((hi << 4) | lo)
		data = append(data, b)
		sum += b
	}
	if len(data) < 5 {
		return nil, fmt.Errorf("record too short")
	}
	if sum != 0 {
		return nil, fmt.Errorf("checksum error")
	}
	return data, nil
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'f' {
		return b - 'a' + 'A'
	}
	return b
}
