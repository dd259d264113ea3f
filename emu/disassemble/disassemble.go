/*
	   Z80 Disassembler

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
package disassembler

import (
	"fmt"

	"github.com/rcornwell/Z80/emu/decoder"
)

// The disassembler is the second implementation of the decoder's
// Handler interface. Fetches advance a cursor over the supplied byte
// stream, the timing adjustments do nothing, and every instruction
// handler formats the canonical lowercase mnemonic. Relative branches
// print their target displacement relative to the instruction start.
type disasm struct {
	data  []byte
	pos   int
	out   string
	state decoder.State
}

// Disassemble one instruction, including prefixes, from the start of
// data. Returns the mnemonic and the number of bytes consumed.
func Disassemble(data []byte) (string, int) {
	if len(data) == 0 {
		return "", 0
	}
	d := disasm{data: data}
	for {
		if err := decoder.Decode(&d.state, &d); err != nil {
			return fmt.Sprintf("db 0x%02x", data[0]), 1
		}
		if !d.state.Pending() {
			break
		}
		if d.pos >= len(data) {
			break
		}
	}
	return d.out, d.pos
}

func (d *disasm) format(f string, args ...interface{}) {
	d.out = fmt.Sprintf(f, args...)
}

// Displacement of a relative branch, printed relative to the start
// of the instruction.
func target(dsp uint8) int {
	return int(int8(dsp)) + 2
}

func (d *disasm) irp() decoder.IndexReg {
	return d.state.IndexReg()
}

// Fetch-source methods. Reads past the end of the stream return 0.

func (d *disasm) Fetch() uint8 {
	if d.pos >= len(d.data) {
		return 0
	}
	b := d.data[d.pos]
	d.pos++
	return b
}

func (d *disasm) Fetch5()         {}
func (d *disasm) Fetch6()         {}
func (d *disasm) Imm8() uint8     { return d.Fetch() }
func (d *disasm) Imm8Slow() uint8 { return d.Fetch() }
func (d *disasm) Disp() uint8     { return d.Fetch() }
func (d *disasm) Exec(_ int)      {}

func (d *disasm) Imm16() uint16 {
	lo := d.Fetch()
	hi := d.Fetch()
	return (uint16(hi) << 8) | uint16(lo)
}

func (d *disasm) Imm16Call() uint16 {
	return d.Imm16()
}

func (d *disasm) IndexPrefix(_ decoder.IndexReg) {}

func (d *disasm) Nop() {
	d.format("nop")
}

func (d *disasm) Halt() {
	d.format("halt")
}

func (d *disasm) ExAfAf() {
	d.format("ex af, af'")
}

func (d *disasm) Djnz(dsp uint8) {
	d.format("djnz %d", target(dsp))
}

func (d *disasm) Jr(dsp uint8) {
	d.format("jr %d", target(dsp))
}

func (d *disasm) JrCc(cc decoder.Condition, dsp uint8) {
	d.format("jr %s, %d", decoder.CondName(cc), target(dsp))
}

func (d *disasm) LdRpNn(rp decoder.RegPair, nn uint16) {
	d.format("ld %s, 0x%04x", decoder.RegPairName(rp, d.irp()), nn)
}

func (d *disasm) AddIrpRp(rp decoder.RegPair) {
	d.format("add %s, %s", decoder.IndexName(d.irp()), decoder.RegPairName(rp, d.irp()))
}

func (d *disasm) LdAtRpA(rp decoder.RegPair) {
	d.format("ld (%s), a", decoder.RegPairName(rp, decoder.IndexHL))
}

func (d *disasm) LdAAtRp(rp decoder.RegPair) {
	d.format("ld a, (%s)", decoder.RegPairName(rp, decoder.IndexHL))
}

func (d *disasm) LdAtNnIrp(nn uint16) {
	d.format("ld (0x%04x), %s", nn, decoder.IndexName(d.irp()))
}

func (d *disasm) LdIrpAtNn(nn uint16) {
	d.format("ld %s, (0x%04x)", decoder.IndexName(d.irp()), nn)
}

func (d *disasm) LdAtNnA(nn uint16) {
	d.format("ld (0x%04x), a", nn)
}

func (d *disasm) LdAAtNn(nn uint16) {
	d.format("ld a, (0x%04x)", nn)
}

func (d *disasm) IncRp(rp decoder.RegPair) {
	d.format("inc %s", decoder.RegPairName(rp, d.irp()))
}

func (d *disasm) DecRp(rp decoder.RegPair) {
	d.format("dec %s", decoder.RegPairName(rp, d.irp()))
}

func (d *disasm) IncR(r decoder.Reg, dsp uint8) {
	d.format("inc %s", decoder.RegName(r, d.irp(), dsp))
}

func (d *disasm) DecR(r decoder.Reg, dsp uint8) {
	d.format("dec %s", decoder.RegName(r, d.irp(), dsp))
}

func (d *disasm) LdRN(r decoder.Reg, dsp uint8, n uint8) {
	d.format("ld %s, 0x%02x", decoder.RegName(r, d.irp(), dsp), n)
}

func (d *disasm) Rlca() { d.format("rlca") }
func (d *disasm) Rrca() { d.format("rrca") }
func (d *disasm) Rla()  { d.format("rla") }
func (d *disasm) Rra()  { d.format("rra") }
func (d *disasm) Daa()  { d.format("daa") }
func (d *disasm) Cpl()  { d.format("cpl") }
func (d *disasm) Scf()  { d.format("scf") }
func (d *disasm) Ccf()  { d.format("ccf") }

func (d *disasm) LdRR(rd decoder.Reg, rs decoder.Reg, dsp uint8) {
	d.format("ld %s, %s", decoder.RegName(rd, d.irp(), dsp),
		decoder.RegName(rs, d.irp(), dsp))
}

func (d *disasm) aluMnemonic(op decoder.ALU, operand string) {
	if decoder.AluTwoOperand(op) {
		d.format("%s a, %s", decoder.AluName(op), operand)
	} else {
		d.format("%s %s", decoder.AluName(op), operand)
	}
}

func (d *disasm) AluR(op decoder.ALU, r decoder.Reg, dsp uint8) {
	d.aluMnemonic(op, decoder.RegName(r, d.irp(), dsp))
}

func (d *disasm) AluN(op decoder.ALU, n uint8) {
	d.aluMnemonic(op, fmt.Sprintf("0x%02x", n))
}

func (d *disasm) RetCc(cc decoder.Condition) {
	d.format("ret %s", decoder.CondName(cc))
}

func (d *disasm) PopRp(rp decoder.RegPair2) {
	d.format("pop %s", decoder.RegPair2Name(rp, d.irp()))
}

func (d *disasm) Ret() {
	d.format("ret")
}

func (d *disasm) Exx() {
	d.format("exx")
}

func (d *disasm) JpIrp() {
	d.format("jp (%s)", decoder.IndexName(d.irp()))
}

func (d *disasm) LdSpIrp() {
	d.format("ld sp, %s", decoder.IndexName(d.irp()))
}

func (d *disasm) JpCcNn(cc decoder.Condition, nn uint16) {
	d.format("jp %s, 0x%04x", decoder.CondName(cc), nn)
}

func (d *disasm) JpNn(nn uint16) {
	d.format("jp 0x%04x", nn)
}

func (d *disasm) OutNA(n uint8) {
	d.format("out (0x%02x), a", n)
}

func (d *disasm) InAN(n uint8) {
	d.format("in a, (0x%02x)", n)
}

func (d *disasm) ExAtSpIrp() {
	d.format("ex (sp), %s", decoder.IndexName(d.irp()))
}

func (d *disasm) ExDeHl() {
	d.format("ex de, hl")
}

func (d *disasm) Di() { d.format("di") }
func (d *disasm) Ei() { d.format("ei") }

func (d *disasm) CallCcNn(cc decoder.Condition, nn uint16) {
	d.format("call %s, 0x%04x", decoder.CondName(cc), nn)
}

func (d *disasm) PushRp(rp decoder.RegPair2) {
	d.format("push %s", decoder.RegPair2Name(rp, d.irp()))
}

func (d *disasm) CallNn(nn uint16) {
	d.format("call 0x%04x", nn)
}

func (d *disasm) Rst(addr uint16) {
	d.format("rst 0x%02x", addr)
}

// The indexed CB forms with a register field other than 6 show the
// undocumented copy target as a second operand.

func (d *disasm) Rot(op decoder.Rotate, r decoder.Reg, dsp uint8) {
	if d.irp() != decoder.IndexHL && r != decoder.RegM {
		d.format("%s %s, %s", decoder.RotName(op),
			decoder.RegName(decoder.RegM, d.irp(), dsp),
			decoder.RegName(r, decoder.IndexHL, 0))
		return
	}
	d.format("%s %s", decoder.RotName(op), decoder.RegName(r, d.irp(), dsp))
}

func (d *disasm) Bit(b uint8, r decoder.Reg, dsp uint8) {
	if d.irp() != decoder.IndexHL {
		r = decoder.RegM
	}
	d.format("bit %d, %s", b, decoder.RegName(r, d.irp(), dsp))
}

func (d *disasm) Res(b uint8, r decoder.Reg, dsp uint8) {
	if d.irp() != decoder.IndexHL && r != decoder.RegM {
		d.format("res %d, %s, %s", b,
			decoder.RegName(decoder.RegM, d.irp(), dsp),
			decoder.RegName(r, decoder.IndexHL, 0))
		return
	}
	d.format("res %d, %s", b, decoder.RegName(r, d.irp(), dsp))
}

func (d *disasm) Set(b uint8, r decoder.Reg, dsp uint8) {
	if d.irp() != decoder.IndexHL && r != decoder.RegM {
		d.format("set %d, %s, %s", b,
			decoder.RegName(decoder.RegM, d.irp(), dsp),
			decoder.RegName(r, decoder.IndexHL, 0))
		return
	}
	d.format("set %d, %s", b, decoder.RegName(r, d.irp(), dsp))
}

func (d *disasm) InRC(r decoder.Reg) {
	if r == decoder.RegM {
		d.format("in (c)")
		return
	}
	d.format("in %s, (c)", decoder.RegName(r, decoder.IndexHL, 0))
}

func (d *disasm) OutCR(r decoder.Reg) {
	if r == decoder.RegM {
		d.format("out (c), 0")
		return
	}
	d.format("out (c), %s", decoder.RegName(r, decoder.IndexHL, 0))
}

func (d *disasm) SbcHlRp(rp decoder.RegPair) {
	d.format("sbc hl, %s", decoder.RegPairName(rp, decoder.IndexHL))
}

func (d *disasm) AdcHlRp(rp decoder.RegPair) {
	d.format("adc hl, %s", decoder.RegPairName(rp, decoder.IndexHL))
}

func (d *disasm) LdAtNnRp(nn uint16, rp decoder.RegPair) {
	d.format("ld (0x%04x), %s", nn, decoder.RegPairName(rp, decoder.IndexHL))
}

func (d *disasm) LdRpAtNn(rp decoder.RegPair, nn uint16) {
	d.format("ld %s, (0x%04x)", decoder.RegPairName(rp, decoder.IndexHL), nn)
}

func (d *disasm) Neg()  { d.format("neg") }
func (d *disasm) Retn() { d.format("retn") }
func (d *disasm) Reti() { d.format("reti") }

func (d *disasm) Im(mode uint8) {
	d.format("im %d", mode)
}

func (d *disasm) LdIA() { d.format("ld i, a") }
func (d *disasm) LdRA() { d.format("ld r, a") }
func (d *disasm) LdAI() { d.format("ld a, i") }
func (d *disasm) LdAR() { d.format("ld a, r") }
func (d *disasm) Rrd()  { d.format("rrd") }
func (d *disasm) Rld()  { d.format("rld") }

func (d *disasm) BlockLd(op decoder.Block) {
	d.format("%s", decoder.BlockLdName(op))
}

func (d *disasm) BlockCp(op decoder.Block) {
	d.format("%s", decoder.BlockCpName(op))
}

func (d *disasm) BlockIn(op decoder.Block) {
	d.format("%s", decoder.BlockInName(op))
}

func (d *disasm) BlockOut(op decoder.Block) {
	d.format("%s", decoder.BlockOutName(op))
}

func (d *disasm) NoniEd(op uint8) {
	d.format("noni 0xed, 0x%02x", op)
}
