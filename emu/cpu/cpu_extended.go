/* Z80 ED table instruction execution

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

// IN r, (C). The register field 6 only sets flags. C is preserved,
// the rest come from the value read.
func (cpu *cpu) InRC(r decoder.Reg) {
	port := cpu.BC
	v := cpu.inputCycle(port)
	cpu.MEMPTR = port + 1
	if r != decoder.RegM {
		cpu.setReg(r, 0, v)
	}
	f := (low8(cpu.AF) & flagC) | flagsSZXYP[v]
	cpu.AF = make16(high8(cpu.AF), f)
}

// OUT (C), r. The register field 6 outputs zero.
func (cpu *cpu) OutCR(r decoder.Reg) {
	var v uint8
	if r != decoder.RegM {
		v = cpu.getReg(r, 0, false)
	}
	cpu.outputCycle(cpu.BC, v)
	cpu.MEMPTR = cpu.BC + 1
}

// 16-bit subtract with carry from HL. All flags computed; H and
// overflow come from bits 11 and 15.
func (cpu *cpu) SbcHlRp(rp decoder.RegPair) {
	hl := cpu.HL
	n := cpu.getRp(rp)
	borrow := uint32(low8(cpu.AF) & flagC)
	cpu.Exec(4)
	cpu.Exec(3)

	diff := uint32(hl) - uint32(n) - borrow
	r := uint16(diff)
	lookup := uint8(((hl & 0x8800) >> 11) | ((n & 0x8800) >> 10) | ((r & 0x8800) >> 9))
	f := (high8(r) & (flagS | flagY | flagX)) |
		halfcarrySub[lookup&7] | overflowSub[lookup>>4] | flagN
	if r == 0 {
		f |= flagZ
	}
	if diff > 0xffff {
		f |= flagC
	}

	cpu.MEMPTR = hl + 1
	cpu.HL = r
	cpu.AF = make16(high8(cpu.AF), f)
}

// 16-bit add with carry into HL.
func (cpu *cpu) AdcHlRp(rp decoder.RegPair) {
	hl := cpu.HL
	n := cpu.getRp(rp)
	carry := uint32(low8(cpu.AF) & flagC)
	cpu.Exec(4)
	cpu.Exec(3)

	sum := uint32(hl) + uint32(n) + carry
	r := uint16(sum)
	lookup := uint8(((hl & 0x8800) >> 11) | ((n & 0x8800) >> 10) | ((r & 0x8800) >> 9))
	f := (high8(r) & (flagS | flagY | flagX)) |
		halfcarryAdd[lookup&7] | overflowAdd[lookup>>4]
	if r == 0 {
		f |= flagZ
	}
	if sum > 0xffff {
		f |= flagC
	}

	cpu.MEMPTR = hl + 1
	cpu.HL = r
	cpu.AF = make16(high8(cpu.AF), f)
}

func (cpu *cpu) LdAtNnRp(nn uint16, rp decoder.RegPair) {
	v := cpu.getRp(rp)
	cpu.write3(nn, low8(v))
	nn++
	cpu.MEMPTR = nn
	cpu.write3(nn, high8(v))
}

func (cpu *cpu) LdRpAtNn(rp decoder.RegPair, nn uint16) {
	lo := cpu.read3(nn)
	nn++
	cpu.MEMPTR = nn
	hi := cpu.read3(nn)
	cpu.setRp(rp, make16(hi, lo))
}

// NEG subtracts A from zero.
func (cpu *cpu) Neg() {
	n := high8(cpu.AF)
	cpu.AF = make16(0, low8(cpu.AF))
	cpu.doAlu(decoder.AluSub, n)
}

// RETN restores IFF1 from IFF2 on the way out of the NMI handler.
func (cpu *cpu) Retn() {
	cpu.iff1 = cpu.iff2
	cpu.returnTo()
}

// RETI behaves like RETN; peripherals watch the opcode on the bus to
// end their interrupt state.
func (cpu *cpu) Reti() {
	cpu.iff1 = cpu.iff2
	cpu.returnTo()
}

func (cpu *cpu) Im(mode uint8) {
	cpu.intMode = mode
}

func (cpu *cpu) LdIA() {
	cpu.IR = make16(high8(cpu.AF), low8(cpu.IR))
}

func (cpu *cpu) LdRA() {
	cpu.IR = make16(high8(cpu.IR), high8(cpu.AF))
}

// LD A,I and LD A,R set P/V from IFF2, which is how software reads
// the interrupt enable state back.
func (cpu *cpu) LdAI() {
	v := high8(cpu.IR)
	f := (low8(cpu.AF) & flagC) | flagsSZXY[v]
	if cpu.iff2 {
		f |= flagP
	}
	cpu.AF = make16(v, f)
}

func (cpu *cpu) LdAR() {
	v := low8(cpu.IR)
	f := (low8(cpu.AF) & flagC) | flagsSZXY[v]
	if cpu.iff2 {
		f |= flagP
	}
	cpu.AF = make16(v, f)
}

// RRD rotates the low accumulator nibble through the two nibbles of
// the byte at (HL).
func (cpu *cpu) Rrd() {
	a := high8(cpu.AF)
	v := cpu.read3(cpu.HL)
	cpu.Exec(4)
	newV := (a << 4) | (v >> 4)
	a = (a & 0xf0) | (v & 0x0f)
	cpu.write3(cpu.HL, newV)
	cpu.MEMPTR = cpu.HL + 1
	cpu.AF = make16(a, (low8(cpu.AF)&flagC)|flagsSZXYP[a])
}

func (cpu *cpu) Rld() {
	a := high8(cpu.AF)
	v := cpu.read3(cpu.HL)
	cpu.Exec(4)
	newV := (v << 4) | (a & 0x0f)
	a = (a & 0xf0) | (v >> 4)
	cpu.write3(cpu.HL, newV)
	cpu.MEMPTR = cpu.HL + 1
	cpu.AF = make16(a, (low8(cpu.AF)&flagC)|flagsSZXYP[a])
}

// Block transfer. S, Z and C survive; X and Y come from bits 3 and 1
// of the transferred byte plus A; P/V reports BC nonzero. The repeat
// forms rewind PC while BC remains nonzero, so interrupts can be
// taken between iterations.
func (cpu *cpu) BlockLd(op decoder.Block) {
	v := cpu.read3(cpu.HL)
	cpu.write5(cpu.DE, v)

	cpu.BC--
	t := v + high8(cpu.AF)
	f := (low8(cpu.AF) & (flagS | flagZ | flagC)) |
		((t << 4) & flagY) | (t & flagX)
	if cpu.BC != 0 {
		f |= flagP
	}
	if (op & decoder.BlockD) != 0 {
		cpu.HL--
		cpu.DE--
	} else {
		cpu.HL++
		cpu.DE++
	}
	cpu.AF = make16(high8(cpu.AF), f)

	if (op&decoder.BlockIR) != 0 && cpu.BC != 0 {
		cpu.Exec(5)
		cpu.PC -= 2
		cpu.MEMPTR = cpu.PC + 1
	}
}

// Block compare. Like CP but C is preserved, P/V reports BC nonzero,
// and X/Y come from A minus the operand minus half borrow.
func (cpu *cpu) BlockCp(op decoder.Block) {
	a := high8(cpu.AF)
	v := cpu.read3(cpu.HL)
	cpu.Exec(5)

	t := a - v
	hf := (a ^ v ^ t) & flagH
	f := (low8(cpu.AF) & flagC) | flagN | (t & flagS) | hf
	if t == 0 {
		f |= flagZ
	}
	n2 := t - (hf >> 4)
	f |= ((n2 << 4) & flagY) | (n2 & flagX)

	cpu.BC--
	if cpu.BC != 0 {
		f |= flagP
	}
	if (op & decoder.BlockD) != 0 {
		cpu.HL--
		cpu.MEMPTR--
	} else {
		cpu.HL++
		cpu.MEMPTR++
	}
	cpu.AF = make16(high8(cpu.AF), f)

	if (op&decoder.BlockIR) != 0 && cpu.BC != 0 && t != 0 {
		cpu.Exec(5)
		cpu.PC -= 2
		cpu.MEMPTR = cpu.PC + 1
	}
}

// Block input. MEMPTR takes BC before B decrements, plus or minus
// one; the undocumented flags mix the transferred byte with the
// incremented or decremented C register.
func (cpu *cpu) BlockIn(op decoder.Block) {
	t := cpu.inputCycle(cpu.BC)
	if (op & decoder.BlockD) != 0 {
		cpu.MEMPTR = cpu.BC - 1
	} else {
		cpu.MEMPTR = cpu.BC + 1
	}

	b := high8(cpu.BC) - 1
	cpu.BC = make16(b, low8(cpu.BC))
	cpu.write3(cpu.HL, t)

	var c uint8
	if (op & decoder.BlockD) != 0 {
		cpu.HL--
		c = low8(cpu.BC) - 1
	} else {
		cpu.HL++
		c = low8(cpu.BC) + 1
	}

	f := flagsSZXY[b]
	if (t & 0x80) != 0 {
		f |= flagN
	}
	k := uint16(t) + uint16(c)
	if k > 0xff {
		f |= flagH | flagC
	}
	f |= parity[(uint8(k)&7)^b]
	cpu.AF = make16(high8(cpu.AF), f)

	if (op&decoder.BlockIR) != 0 && b != 0 {
		cpu.Exec(5)
		cpu.PC -= 2
	}
}

// Block output. B decrements before the port cycle; MEMPTR follows
// the decremented BC, and the undocumented flags mix the byte with
// the updated L register.
func (cpu *cpu) BlockOut(op decoder.Block) {
	t := cpu.read3(cpu.HL)
	b := high8(cpu.BC) - 1
	cpu.BC = make16(b, low8(cpu.BC))
	cpu.outputCycle(cpu.BC, t)

	if (op & decoder.BlockD) != 0 {
		cpu.HL--
		cpu.MEMPTR = cpu.BC - 1
	} else {
		cpu.HL++
		cpu.MEMPTR = cpu.BC + 1
	}

	f := flagsSZXY[b]
	if (t & 0x80) != 0 {
		f |= flagN
	}
	k := uint16(t) + uint16(low8(cpu.HL))
	if k > 0xff {
		f |= flagH | flagC
	}
	f |= parity[(uint8(k)&7)^b]
	cpu.AF = make16(high8(cpu.AF), f)

	if (op&decoder.BlockIR) != 0 && b != 0 {
		cpu.Exec(5)
		cpu.PC -= 2
	}
}

// NONI: an unassigned ED position. Executes as a no-op that inhibits
// interrupt acceptance for one instruction.
func (cpu *cpu) NoniEd(_ uint8) {
	cpu.disableInt = true
}
