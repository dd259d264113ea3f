/* Z80 CB table instruction execution

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

// Under an index prefix every CB operation works on (i+d) regardless
// of the register field; a register field other than 6 additionally
// receives a copy of the result.
func (cpu *cpu) bitAccessReg(r decoder.Reg) decoder.Reg {
	if cpu.state.IndexReg() != decoder.IndexHL {
		return decoder.RegM
	}
	return r
}

// One shift or rotate step. Returns the new value; flags are S, Z,
// X, Y and parity of the result plus the shifted-out carry.
func (cpu *cpu) doRotate(op decoder.Rotate, v uint8) (uint8, uint8) {
	var carry uint8
	switch op {
	case decoder.RotRLC:
		carry = v >> 7
		v = (v << 1) | carry
	case decoder.RotRRC:
		carry = v & 1
		v = (v >> 1) | (carry << 7)
	case decoder.RotRL:
		carry = v >> 7
		v = (v << 1) | (low8(cpu.AF) & flagC)
	case decoder.RotRR:
		carry = v & 1
		v = (v >> 1) | (low8(cpu.AF) << 7)
	case decoder.RotSLA:
		carry = v >> 7
		v <<= 1
	case decoder.RotSRA:
		carry = v & 1
		v = (v & 0x80) | (v >> 1)
	case decoder.RotSLL:
		// Undocumented: shifts a one into bit 0.
		carry = v >> 7
		v = (v << 1) | 1
	case decoder.RotSRL:
		carry = v & 1
		v >>= 1
	}
	return v, flagsSZXYP[v] | carry
}

func (cpu *cpu) Rot(op decoder.Rotate, r decoder.Reg, d uint8) {
	access := cpu.bitAccessReg(r)
	v, f := cpu.doRotate(op, cpu.getReg(access, d, true))
	cpu.setReg(access, d, v)
	if access != r && r != decoder.RegM {
		cpu.setReg(r, 0, v)
	}
	cpu.AF = make16(high8(cpu.AF), f)
}

// BIT never writes back. Z, and P/V as its copy, report the tested
// bit being zero; S is only set when bit 7 is tested and set. X and
// Y come from the operand, except for memory operands where they
// leak from the high byte of MEMPTR.
func (cpu *cpu) Bit(b uint8, r decoder.Reg, d uint8) {
	access := cpu.bitAccessReg(r)
	v := cpu.getReg(access, d, true)
	m := v & (1 << b)
	f := (low8(cpu.AF) & flagC) | flagH
	if m != 0 {
		f |= m & flagS
	} else {
		f |= flagZ | flagP
	}
	if access == decoder.RegM {
		v = high8(cpu.MEMPTR)
	}
	f |= v & (flagY | flagX)
	cpu.AF = make16(high8(cpu.AF), f)
}

func (cpu *cpu) Res(b uint8, r decoder.Reg, d uint8) {
	access := cpu.bitAccessReg(r)
	v := cpu.getReg(access, d, true) &^ (1 << b)
	cpu.setReg(access, d, v)
	if access != r && r != decoder.RegM {
		cpu.setReg(r, 0, v)
	}
}

func (cpu *cpu) Set(b uint8, r decoder.Reg, d uint8) {
	access := cpu.bitAccessReg(r)
	v := cpu.getReg(access, d, true) | (1 << b)
	cpu.setReg(access, d, v)
	if access != r && r != decoder.RegM {
		cpu.setReg(r, 0, v)
	}
}
