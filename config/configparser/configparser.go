/*
 * Z80 - Machine configuration file parser.
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

package configparser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rcornwell/Z80/emu/memory"
	"github.com/rcornwell/Z80/util/hex"
)

/*
   The configuration file is line oriented; # starts a comment. The
   statements are:

       memory <kb>                 RAM size in K, up to 64
       rom <file> [addr]           load an image; .hex files are Intel
                                   HEX, anything else raw at addr
                                   (default 0). ROM pages are write
                                   protected.
       device <name> <port> [...]  attach a registered device type
       pc <addr>                   initial program counter

   Device types register a creation hook at package init time.
*/

type deviceCreator = func(port uint8, options []string) error

var deviceTypes = map[string]deviceCreator{}

var lineNumber int

// Register a device type creation hook.
func RegisterDevice(name string, create deviceCreator) {
	deviceTypes[strings.ToLower(name)] = create
}

// Initial PC from the config file, if any.
var StartPC uint16

// Parse a configuration file and build the machine it describes.
func LoadConfigFile(name string) error {
	buf, err := os.ReadFile(name)
	if err != nil {
		return err
	}

	memory.SetSize(64)
	dir := filepath.Dir(name)
	lineNumber = 0
	for _, text := range strings.Split(string(buf), "\n") {
		lineNumber++
		if err := parseLine(dir, text); err != nil {
			return fmt.Errorf("line %d: %w", lineNumber, err)
		}
	}
	return nil
}

// Parse one statement.
func parseLine(dir string, text string) error {
	if i := strings.IndexByte(text, '#'); i >= 0 {
		text = text[:i]
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}

	switch strings.ToLower(fields[0]) {
	case "memory":
		if len(fields) != 2 {
			return errors.New("memory takes one size argument")
		}
		k, err := strconv.Atoi(fields[1])
		if err != nil || k < 1 || k > 64 {
			return errors.New("memory size must be 1 to 64")
		}
		memory.SetSize(k)
		return nil
	case "rom":
		if len(fields) < 2 || len(fields) > 3 {
			return errors.New("rom takes a file and optional address")
		}
		addr := uint16(0)
		if len(fields) == 3 {
			v, err := parseNumber(fields[2])
			if err != nil {
				return err
			}
			addr = v
		}
		return loadROM(dir, fields[1], addr)
	case "device":
		if len(fields) < 3 {
			return errors.New("device takes a type and port")
		}
		create, ok := deviceTypes[strings.ToLower(fields[1])]
		if !ok {
			return errors.New("unknown device type: " + fields[1])
		}
		port, err := parseNumber(fields[2])
		if err != nil || port > 0xff {
			return errors.New("bad port number: " + fields[2])
		}
		return create(uint8(port), fields[3:])
	case "pc":
		if len(fields) != 2 {
			return errors.New("pc takes one address argument")
		}
		v, err := parseNumber(fields[1])
		if err != nil {
			return err
		}
		StartPC = v
		return nil
	}
	return errors.New("unknown statement: " + fields[0])
}

// Numbers are decimal, or hex with an 0x prefix.
func parseNumber(text string) (uint16, error) {
	v, err := strconv.ParseUint(text, 0, 16)
	if err != nil {
		return 0, errors.New("bad number: " + text)
	}
	return uint16(v), nil
}

// Load a ROM image and write protect its pages.
func loadROM(dir string, name string, addr uint16) error {
	if !filepath.IsAbs(name) {
		name = filepath.Join(dir, name)
	}

	low := addr
	high := addr
	if strings.EqualFold(filepath.Ext(name), ".hex") {
		file, err := os.Open(name)
		if err != nil {
			return err
		}
		defer file.Close()
		first := true
		_, err = hex.LoadHex(file, func(a uint16, data uint8) {
			memory.PutMemory(a, data)
			if first || a < low {
				low = a
			}
			if first || a > high {
				high = a
			}
			first = false
		})
		if err != nil {
			return err
		}
		if first {
			return nil
		}
	} else {
		buf, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		if len(buf) == 0 {
			return nil
		}
		memory.LoadMemory(addr, buf)
		high = addr + uint16(len(buf)-1)
	}
	memory.SetROM(low, high, true)
	return nil
}
