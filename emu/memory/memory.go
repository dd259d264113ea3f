package memory

/*
 * Z80  - Low level memory
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

// The Z80 address bus is 16 bits; the array always spans the full 64KB.
// Size limits the RAM the machine exposes; writes above it or into a
// write protected page are dropped.
type mem struct {
	mem  [64 * 1024]uint8
	rom  [256]bool // write protect per 256 byte page
	size uint32
}

var memory mem

// Set size in K.
func SetSize(k int) {
	if k > 64 {
		k = 64
	}
	memory.size = uint32(k * 1024)
}

// Return size of memory in bytes.
func GetSize() uint32 {
	return memory.size
}

// Get memory value without range check.
func GetMemory(addr uint16) uint8 {
	return memory.mem[addr]
}

// Set memory to a value. Writes to ROM pages or beyond the configured
// size are dropped.
func SetMemory(addr uint16, data uint8) {
	if uint32(addr) >= memory.size || memory.rom[addr>>8] {
		return
	}
	memory.mem[addr] = data
}

// Put a value in memory ignoring write protection, for loaders and tests.
func PutMemory(addr uint16, data uint8) {
	memory.mem[addr] = data
}

// Get a 16-bit word stored little endian.
func GetWord(addr uint16) uint16 {
	return uint16(memory.mem[addr]) | (uint16(memory.mem[addr+1]) << 8)
}

// Store a 16-bit word little endian.
func SetWord(addr uint16, data uint16) {
	SetMemory(addr, uint8(data&0xff))
	SetMemory(addr+1, uint8(data>>8))
}

// Check if address inside configured memory.
func CheckAddr(addr uint16) bool {
	return uint32(addr) < memory.size
}

// Mark an address range read only. Start and end round to 256 byte pages.
func SetROM(start, end uint16, protect bool) {
	for page := start >> 8; page <= end>>8; page++ {
		memory.rom[page] = protect
	}
}

// Copy an image into memory ignoring write protection.
func LoadMemory(addr uint16, data []byte) {
	for i, b := range data {
		memory.mem[addr+uint16(i)] = b
	}
}

// Clear memory and write protection.
func ClearMemory() {
	for i := range memory.mem {
		memory.mem[i] = 0
	}
	for i := range memory.rom {
		memory.rom[i] = false
	}
}
