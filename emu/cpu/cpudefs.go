/* Z80 CPU simulator definitions

   Copyright (c) 2025, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

package cpu

import (
	"github.com/rcornwell/Z80/emu/decoder"
)

type cpu struct {
	BC     uint16 // Main register file
	DE     uint16
	HL     uint16
	AF     uint16
	altBC  uint16 // Alternate register file
	altDE  uint16
	altHL  uint16
	altAF  uint16
	IX     uint16 // Index registers
	IY     uint16
	PC     uint16 // Program counter
	SP     uint16 // Stack pointer
	IR     uint16 // Interrupt page and refresh counter
	MEMPTR uint16 // Internal address latch, also known as WZ

	iff1       bool  // Interrupt enable flip flops
	iff2       bool  //
	intMode    uint8 // Interrupt mode 0, 1 or 2
	disableInt bool  // Block interrupt acceptance for one instruction
	halted     bool  // CPU stopped on HALT

	intPending bool  // Maskable interrupt line raised
	intVector  uint8 // Data bus value during interrupt acknowledge
	nmiPending bool  // Non maskable interrupt line raised

	lastReadAddr uint16 // Address of most recent memory read
	addrBus      uint16 // Current address bus value
	ticks        uint64 // Clock tick counter

	state decoder.State // Prefix and index redirection state
}

const (
	// Flag register bits. X and Y are the undocumented copies of
	// result bits 3 and 5.
	flagC uint8 = 0x01 // Carry
	flagN uint8 = 0x02 // Add/subtract
	flagP uint8 = 0x04 // Parity/overflow
	flagX uint8 = 0x08 // Copy of result bit 3
	flagH uint8 = 0x10 // Half carry
	flagY uint8 = 0x20 // Copy of result bit 5
	flagZ uint8 = 0x40 // Zero
	flagS uint8 = 0x80 // Sign

	// Interrupt and reset entry points.
	intVectorIM1 uint16 = 0x0038
	nmiVector    uint16 = 0x0066
)

// S, Z, X and Y flags for every 8-bit value, and the same with the
// parity flag folded in. Built once at startup.
var (
	flagsSZXY  [256]uint8
	flagsSZXYP [256]uint8
	parity     [256]uint8

	// Half carry and overflow selected by bits 3 (or 11) and 7 (or 15)
	// of operand a, operand b and result packed into a 3-bit index.
	halfcarryAdd = [8]uint8{0, flagH, flagH, flagH, 0, 0, 0, flagH}
	halfcarrySub = [8]uint8{0, 0, flagH, 0, flagH, 0, flagH, flagH}
	overflowAdd  = [8]uint8{0, 0, 0, flagP, flagP, 0, 0, 0}
	overflowSub  = [8]uint8{0, flagP, 0, 0, 0, 0, flagP, 0}
)

func init() {
	for i := 0; i < 256; i++ {
		flagsSZXY[i] = uint8(i) & (flagS | flagY | flagX)
		p := uint8(i)
		p ^= p >> 4
		p ^= p >> 2
		p ^= p >> 1
		if (p & 1) == 0 {
			parity[i] = flagP
		}
		flagsSZXYP[i] = flagsSZXY[i] | parity[i]
	}
	flagsSZXY[0] |= flagZ
	flagsSZXYP[0] |= flagZ
}

// Split and join 16-bit values.
func high8(v uint16) uint8 {
	return uint8(v >> 8)
}

func low8(v uint16) uint8 {
	return uint8(v & 0xff)
}

func make16(hi, lo uint8) uint16 {
	return (uint16(hi) << 8) | uint16(lo)
}

// Target address of an indexed operand: base plus sign extended
// displacement.
func dispTarget(base uint16, d uint8) uint16 {
	return base + uint16(int16(int8(d)))
}
