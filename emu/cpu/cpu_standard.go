/* Z80 base table instruction execution

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

// 8-bit accumulator operation. CP takes its X and Y flags from the
// operand rather than the result; everything else comes from the
// result.
func (cpu *cpu) doAlu(op decoder.ALU, n uint8) {
	a := high8(cpu.AF)
	var f uint8
	switch op {
	case decoder.AluAdd, decoder.AluAdc:
		carry := uint16(0)
		if op == decoder.AluAdc {
			carry = uint16(low8(cpu.AF) & flagC)
		}
		sum := uint16(a) + uint16(n) + carry
		r := uint8(sum)
		lookup := ((a & 0x88) >> 3) | ((n & 0x88) >> 2) | ((r & 0x88) >> 1)
		f = flagsSZXY[r] | halfcarryAdd[lookup&7] | overflowAdd[lookup>>4]
		if sum > 0xff {
			f |= flagC
		}
		a = r
	case decoder.AluSub, decoder.AluSbc, decoder.AluCp:
		borrow := uint16(0)
		if op == decoder.AluSbc {
			borrow = uint16(low8(cpu.AF) & flagC)
		}
		diff := uint16(a) - uint16(n) - borrow
		r := uint8(diff)
		lookup := ((a & 0x88) >> 3) | ((n & 0x88) >> 2) | ((r & 0x88) >> 1)
		f = flagsSZXY[r] | halfcarrySub[lookup&7] | overflowSub[lookup>>4] | flagN
		if diff > 0xff {
			f |= flagC
		}
		if op == decoder.AluCp {
			f = (f &^ (flagY | flagX)) | (n & (flagY | flagX))
		} else {
			a = r
		}
	case decoder.AluAnd:
		a &= n
		f = flagsSZXYP[a] | flagH
	case decoder.AluXor:
		a ^= n
		f = flagsSZXYP[a]
	case decoder.AluOr:
		a |= n
		f = flagsSZXYP[a]
	}
	cpu.AF = make16(a, f)
}

func (cpu *cpu) Nop() {
}

// HALT leaves PC past the opcode; the CPU then runs refresh cycles
// until an interrupt is accepted.
func (cpu *cpu) Halt() {
	cpu.halted = true
}

func (cpu *cpu) ExAfAf() {
	cpu.AF, cpu.altAF = cpu.altAF, cpu.AF
}

func (cpu *cpu) Djnz(d uint8) {
	b := high8(cpu.BC) - 1
	cpu.BC = make16(b, low8(cpu.BC))
	if b != 0 {
		cpu.relativeJump(d)
	}
}

func (cpu *cpu) Jr(d uint8) {
	cpu.relativeJump(d)
}

func (cpu *cpu) JrCc(cc decoder.Condition, d uint8) {
	if cpu.testCond(cc) {
		cpu.relativeJump(d)
	}
}

func (cpu *cpu) LdRpNn(rp decoder.RegPair, nn uint16) {
	cpu.setRp(rp, nn)
}

// 16-bit add into HL or the active index pair. S, Z and P/V are
// preserved; H and C come from the high byte add, X and Y from the
// result high byte.
func (cpu *cpu) AddIrpRp(rp decoder.RegPair) {
	i := cpu.indexVal()
	n := cpu.getRp(rp)
	cpu.Exec(4)
	cpu.Exec(3)

	sum := uint32(i) + uint32(n)
	r := uint16(sum)
	lookup := uint8(((i & 0x0800) >> 11) | ((n & 0x0800) >> 10) | ((r & 0x0800) >> 9))
	f := (low8(cpu.AF) & (flagS | flagZ | flagP)) |
		(high8(r) & (flagY | flagX)) | halfcarryAdd[lookup]
	if sum > 0xffff {
		f |= flagC
	}

	cpu.MEMPTR = i + 1
	cpu.setIndexVal(r)
	cpu.AF = make16(high8(cpu.AF), f)
}

func (cpu *cpu) LdAtRpA(rp decoder.RegPair) {
	addr := cpu.getRp(rp)
	a := high8(cpu.AF)
	cpu.MEMPTR = make16(a, low8(addr+1))
	cpu.write3(addr, a)
}

func (cpu *cpu) LdAAtRp(rp decoder.RegPair) {
	addr := cpu.getRp(rp)
	cpu.MEMPTR = addr + 1
	cpu.AF = make16(cpu.read3(addr), low8(cpu.AF))
}

func (cpu *cpu) LdAtNnIrp(nn uint16) {
	irp := cpu.indexVal()
	cpu.write3(nn, low8(irp))
	nn++
	cpu.MEMPTR = nn
	cpu.write3(nn, high8(irp))
}

func (cpu *cpu) LdIrpAtNn(nn uint16) {
	lo := cpu.read3(nn)
	nn++
	cpu.MEMPTR = nn
	hi := cpu.read3(nn)
	cpu.setIndexVal(make16(hi, lo))
}

// MEMPTR gets A in the high byte and the incremented low address
// byte, which the FUSE test set checks.
func (cpu *cpu) LdAtNnA(nn uint16) {
	a := high8(cpu.AF)
	cpu.MEMPTR = make16(a, low8(nn)+1)
	cpu.write3(nn, a)
}

func (cpu *cpu) LdAAtNn(nn uint16) {
	cpu.MEMPTR = nn + 1
	cpu.AF = make16(cpu.read3(nn), low8(cpu.AF))
}

func (cpu *cpu) IncRp(rp decoder.RegPair) {
	cpu.setRp(rp, cpu.getRp(rp)+1)
}

func (cpu *cpu) DecRp(rp decoder.RegPair) {
	cpu.setRp(rp, cpu.getRp(rp)-1)
}

// 8-bit increment. Carry is preserved; overflow fires on 7f->80.
func (cpu *cpu) IncR(r decoder.Reg, d uint8) {
	v := cpu.getReg(r, d, true) + 1
	f := (low8(cpu.AF) & flagC) | flagsSZXY[v]
	if (v & 0x0f) == 0 {
		f |= flagH
	}
	if v == 0x80 {
		f |= flagP
	}
	cpu.setReg(r, d, v)
	cpu.AF = make16(high8(cpu.AF), f)
}

// 8-bit decrement. Carry is preserved; overflow fires on 80->7f.
func (cpu *cpu) DecR(r decoder.Reg, d uint8) {
	v := cpu.getReg(r, d, true) - 1
	f := (low8(cpu.AF) & flagC) | flagsSZXY[v] | flagN
	if (v & 0x0f) == 0x0f {
		f |= flagH
	}
	if v == 0x7f {
		f |= flagP
	}
	cpu.setReg(r, d, v)
	cpu.AF = make16(high8(cpu.AF), f)
}

func (cpu *cpu) LdRN(r decoder.Reg, d uint8, n uint8) {
	cpu.setReg(r, d, n)
}

// Accumulator rotates preserve S, Z and P/V; X and Y come from the
// rotated accumulator.
func (cpu *cpu) Rlca() {
	a := high8(cpu.AF)
	a = (a << 1) | (a >> 7)
	f := (low8(cpu.AF) & (flagS | flagZ | flagP)) | (a & (flagY | flagX)) | (a & flagC)
	cpu.AF = make16(a, f)
}

func (cpu *cpu) Rrca() {
	a := high8(cpu.AF)
	a = (a >> 1) | (a << 7)
	f := (low8(cpu.AF) & (flagS | flagZ | flagP)) | (a & (flagY | flagX))
	if (a & 0x80) != 0 {
		f |= flagC
	}
	cpu.AF = make16(a, f)
}

func (cpu *cpu) Rla() {
	a := high8(cpu.AF)
	old := a
	a = (a << 1) | (low8(cpu.AF) & flagC)
	f := (low8(cpu.AF) & (flagS | flagZ | flagP)) | (a & (flagY | flagX)) | (old >> 7)
	cpu.AF = make16(a, f)
}

func (cpu *cpu) Rra() {
	a := high8(cpu.AF)
	old := a
	a = (a >> 1) | (low8(cpu.AF) << 7)
	f := (low8(cpu.AF) & (flagS | flagZ | flagP)) | (a & (flagY | flagX)) | (old & flagC)
	cpu.AF = make16(a, f)
}

// Decimal adjust after a BCD add or subtract.
func (cpu *cpu) Daa() {
	a := high8(cpu.AF)
	f := low8(cpu.AF)
	var adjust uint8
	carry := f & flagC
	if (f&flagH) != 0 || (a&0x0f) > 9 {
		adjust = 0x06
	}
	if carry != 0 || a > 0x99 {
		adjust |= 0x60
	}
	if a > 0x99 {
		carry = flagC
	}
	if (f & flagN) != 0 {
		cpu.doAlu(decoder.AluSub, adjust)
	} else {
		cpu.doAlu(decoder.AluAdd, adjust)
	}
	a = high8(cpu.AF)
	f = (low8(cpu.AF) &^ (flagC | flagP)) | carry | parity[a]
	cpu.AF = make16(a, f)
}

func (cpu *cpu) Cpl() {
	a := ^high8(cpu.AF)
	f := (low8(cpu.AF) & (flagS | flagZ | flagP | flagC)) |
		(a & (flagY | flagX)) | flagH | flagN
	cpu.AF = make16(a, f)
}

func (cpu *cpu) Scf() {
	a := high8(cpu.AF)
	f := (low8(cpu.AF) & (flagS | flagZ | flagP)) | (a & (flagY | flagX)) | flagC
	cpu.AF = make16(a, f)
}

// CCF flips carry; the old carry lands in H.
func (cpu *cpu) Ccf() {
	a := high8(cpu.AF)
	f := low8(cpu.AF)
	carry := f & flagC
	f = (f & (flagS | flagZ | flagP)) | (a & (flagY | flagX))
	if carry != 0 {
		f |= flagH
	} else {
		f |= flagC
	}
	cpu.AF = make16(a, f)
}

func (cpu *cpu) LdRR(rd decoder.Reg, rs decoder.Reg, d uint8) {
	cpu.setReg(rd, d, cpu.getReg(rs, d, false))
}

func (cpu *cpu) AluR(op decoder.ALU, r decoder.Reg, d uint8) {
	cpu.doAlu(op, cpu.getReg(r, d, false))
}

func (cpu *cpu) AluN(op decoder.ALU, n uint8) {
	cpu.doAlu(op, n)
}

func (cpu *cpu) RetCc(cc decoder.Condition) {
	if cpu.testCond(cc) {
		cpu.returnTo()
	}
}

func (cpu *cpu) PopRp(rp decoder.RegPair2) {
	cpu.setRp2(rp, cpu.pop())
}

func (cpu *cpu) Ret() {
	cpu.returnTo()
}

func (cpu *cpu) Exx() {
	cpu.BC, cpu.altBC = cpu.altBC, cpu.BC
	cpu.DE, cpu.altDE = cpu.altDE, cpu.DE
	cpu.HL, cpu.altHL = cpu.altHL, cpu.HL
}

func (cpu *cpu) JpIrp() {
	cpu.PC = cpu.indexVal()
}

func (cpu *cpu) LdSpIrp() {
	cpu.SP = cpu.indexVal()
}

func (cpu *cpu) JpCcNn(cc decoder.Condition, nn uint16) {
	cpu.MEMPTR = nn
	if cpu.testCond(cc) {
		cpu.PC = nn
	}
}

func (cpu *cpu) JpNn(nn uint16) {
	cpu.MEMPTR = nn
	cpu.PC = nn
}

func (cpu *cpu) OutNA(n uint8) {
	a := high8(cpu.AF)
	cpu.outputCycle(make16(a, n), a)
	cpu.MEMPTR = make16(a, n+1)
}

func (cpu *cpu) InAN(n uint8) {
	a := high8(cpu.AF)
	port := make16(a, n)
	cpu.MEMPTR = port + 1
	cpu.AF = make16(cpu.inputCycle(port), low8(cpu.AF))
}

// Exchange HL or the active index pair with the stack top. The new
// value lands in MEMPTR.
func (cpu *cpu) ExAtSpIrp() {
	lo := cpu.read3(cpu.SP)
	hi := cpu.read4(cpu.SP + 1)
	old := cpu.indexVal()
	cpu.write3(cpu.SP+1, high8(old))
	cpu.write5(cpu.SP, low8(old))
	v := make16(hi, lo)
	cpu.MEMPTR = v
	cpu.setIndexVal(v)
}

func (cpu *cpu) ExDeHl() {
	cpu.DE, cpu.HL = cpu.HL, cpu.DE
}

func (cpu *cpu) Di() {
	cpu.iff1 = false
	cpu.iff2 = false
}

// EI enables interrupts but blocks acceptance until after the next
// instruction.
func (cpu *cpu) Ei() {
	cpu.iff1 = true
	cpu.iff2 = true
	cpu.disableInt = true
}

func (cpu *cpu) CallCcNn(cc decoder.Condition, nn uint16) {
	cpu.MEMPTR = nn
	if cpu.testCond(cc) {
		cpu.Exec(1)
		cpu.callTo(nn)
	}
}

func (cpu *cpu) PushRp(rp decoder.RegPair2) {
	cpu.push(cpu.getRp2(rp))
}

func (cpu *cpu) CallNn(nn uint16) {
	cpu.callTo(nn)
}

func (cpu *cpu) Rst(addr uint16) {
	cpu.callTo(addr)
}
