/* Z80 instruction decoder.

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

package decoder

import "fmt"

/*
   Every Z80 opcode byte decomposes into bit fields:

       7 6 5 4 3 2 1 0
      +---+-----+-----+
      | x |  y  |  z  |
      +---+-----+-----+
            p  q

   where p is the top two bits of y and q its low bit. Whole instruction
   families are selected by x and z, with y/p/q picking the register,
   register pair or condition inside the family. The decoder classifies
   one instruction per call and hands it to a Handler; the two handler
   implementations are the execution engine and the disassembler.

   The CB and ED prefixes switch to their extended tables for the next
   decode. The DD and FD prefixes redirect HL to IX or IY for the next
   instruction and insert a displacement byte into memory operands.
*/

// 8-bit register selector. RegM (index 6) is the memory operand:
// (HL), or (IX+d)/(IY+d) under an index prefix.
type Reg uint8

const (
	RegB Reg = iota
	RegC
	RegD
	RegE
	RegH
	RegL
	RegM
	RegA
)

// Register pair selector for the p field. RPHL is replaced by the
// active index pair under a DD/FD prefix.
type RegPair uint8

const (
	RPBC RegPair = iota
	RPDE
	RPHL
	RPSP
)

// Register pair selector for PUSH and POP.
type RegPair2 uint8

const (
	RP2BC RegPair2 = iota
	RP2DE
	RP2HL
	RP2AF
)

// Index register pair selected by a DD/FD prefix.
type IndexReg uint8

const (
	IndexHL IndexReg = iota
	IndexIX
	IndexIY
)

// ALU operation from the y field of an x=2 opcode.
type ALU uint8

const (
	AluAdd ALU = iota
	AluAdc
	AluSub
	AluSbc
	AluAnd
	AluXor
	AluOr
	AluCp
)

// Shift/rotate operation from the y field of a CB x=0 opcode.
type Rotate uint8

const (
	RotRLC Rotate = iota
	RotRRC
	RotRL
	RotRR
	RotSLA
	RotSRA
	RotSLL
	RotSRL
)

// Block operation variant. Bit 0 selects the decrementing form,
// bit 1 the self-repeating form.
type Block uint8

const (
	BlockI  Block = 0 // LDI, CPI, INI, OUTI
	BlockD  Block = 1 // LDD, CPD, IND, OUTD
	BlockIR Block = 2 // LDIR, CPIR, INIR, OTIR
	BlockDR Block = 3 // LDDR, CPDR, INDR, OTDR
)

// Branch condition from the y field. cc/2 selects the flag,
// cc&1 the expected value.
type Condition uint8

const (
	CondNZ Condition = iota
	CondZ
	CondNC
	CondC
	CondPO
	CondPE
	CondP
	CondM
)

// Extended-table prefix in effect for the next decode.
type Prefix uint8

const (
	PrefixNone Prefix = iota
	PrefixCB
	PrefixED
)

// Decoder state. Kept apart from the CPU registers so the
// disassembler can share the decode tables.
type State struct {
	prefix    Prefix
	indexReg  IndexReg // index pair for the current instruction
	nextIndex IndexReg // index pair for the next instruction
}

// Index register pair the current instruction substitutes for HL.
func (st *State) IndexReg() IndexReg {
	return st.indexReg
}

// Prefix in effect for the next decode.
func (st *State) Prefix() Prefix {
	return st.prefix
}

// True while a prefix byte has been decoded but its target
// instruction has not.
func (st *State) Pending() bool {
	return st.prefix != PrefixNone || st.nextIndex != IndexHL
}

// Reset decoder to power-on state.
func (st *State) Reset() {
	st.prefix = PrefixNone
	st.indexReg = IndexHL
	st.nextIndex = IndexHL
}

// Handler receives the decoded instructions. The fetch-source methods let
// the execution engine issue real bus cycles while the disassembler just
// consumes bytes; the Fetch5/Fetch6/Exec adjustments are no-ops there.
type Handler interface {
	Fetch() uint8      // M1 opcode fetch, 4 ticks
	Fetch5()           // stretch current fetch to 5 ticks
	Fetch6()           // stretch current fetch to 6 ticks
	Imm8() uint8       // immediate byte, 3 tick read
	Imm8Slow() uint8   // immediate byte, 5 tick read
	Imm16() uint16     // immediate word, 3+3 tick reads
	Imm16Call() uint16 // immediate word, 3+4 tick reads
	Disp() uint8       // displacement byte, 3 tick read
	Exec(n int)        // internal execute cycle, n ticks

	// Notification that a DD/FD prefix was decoded. The execution
	// engine blocks interrupt acceptance for one instruction here.
	IndexPrefix(irp IndexReg)

	Nop()
	Halt()
	ExAfAf()
	Djnz(d uint8)
	Jr(d uint8)
	JrCc(cc Condition, d uint8)
	LdRpNn(rp RegPair, nn uint16)
	AddIrpRp(rp RegPair)
	LdAtRpA(rp RegPair)
	LdAAtRp(rp RegPair)
	LdAtNnIrp(nn uint16)
	LdIrpAtNn(nn uint16)
	LdAtNnA(nn uint16)
	LdAAtNn(nn uint16)
	IncRp(rp RegPair)
	DecRp(rp RegPair)
	IncR(r Reg, d uint8)
	DecR(r Reg, d uint8)
	LdRN(r Reg, d uint8, n uint8)
	Rlca()
	Rrca()
	Rla()
	Rra()
	Daa()
	Cpl()
	Scf()
	Ccf()
	LdRR(rd Reg, rs Reg, d uint8)
	AluR(op ALU, r Reg, d uint8)
	AluN(op ALU, n uint8)
	RetCc(cc Condition)
	PopRp(rp RegPair2)
	Ret()
	Exx()
	JpIrp()
	LdSpIrp()
	JpCcNn(cc Condition, nn uint16)
	JpNn(nn uint16)
	OutNA(n uint8)
	InAN(n uint8)
	ExAtSpIrp()
	ExDeHl()
	Di()
	Ei()
	CallCcNn(cc Condition, nn uint16)
	PushRp(rp RegPair2)
	CallNn(nn uint16)
	Rst(addr uint16)

	// CB table
	Rot(op Rotate, r Reg, d uint8)
	Bit(b uint8, r Reg, d uint8)
	Res(b uint8, r Reg, d uint8)
	Set(b uint8, r Reg, d uint8)

	// ED table
	InRC(r Reg)
	OutCR(r Reg)
	SbcHlRp(rp RegPair)
	AdcHlRp(rp RegPair)
	LdAtNnRp(nn uint16, rp RegPair)
	LdRpAtNn(rp RegPair, nn uint16)
	Neg()
	Retn()
	Reti()
	Im(mode uint8)
	LdIA()
	LdRA()
	LdAI()
	LdAR()
	Rrd()
	Rld()
	BlockLd(op Block)
	BlockCp(op Block)
	BlockIn(op Block)
	BlockOut(op Block)
	NoniEd(op uint8)
}

// Opcode bit field accessors.
func xPart(op uint8) uint8 { return (op >> 6) & 3 }
func yPart(op uint8) uint8 { return (op >> 3) & 7 }
func zPart(op uint8) uint8 { return op & 7 }
func pPart(op uint8) uint8 { return (op >> 4) & 3 }
func qPart(op uint8) uint8 { return (op >> 3) & 1 }

// Read the displacement byte when an indexed memory operand needs one.
// The displacement costs a 3 tick read plus a 5 tick internal cycle.
func readDisp(st *State, h Handler, need bool) uint8 {
	if st.indexReg == IndexHL || !need {
		return 0
	}
	d := h.Disp()
	h.Exec(5)
	return d
}

// Decode one instruction or prefix byte. At the start of every decode the
// pending index selection becomes current and the next selection reverts
// to HL; DD/FD set it again for the following instruction.
func Decode(st *State, h Handler) error {
	st.indexReg = st.nextIndex
	st.nextIndex = IndexHL

	switch st.prefix {
	case PrefixNone:
		return decodeUnprefixed(st, h)
	case PrefixCB:
		return decodeCB(st, h)
	case PrefixED:
		return decodeED(st, h)
	}
	return fmt.Errorf("impossible prefix state %d", st.prefix)
}

// Base table. Cycle patterns are noted per family; f(n) is an opcode
// fetch, r/w(n) memory cycles, e(n) internal cycles, io(4) a port cycle.
func decodeUnprefixed(st *State, h Handler) error {
	op := h.Fetch()
	x := xPart(op)
	y := yPart(op)
	z := zPart(op)
	p := pPart(op)
	q := qPart(op)

	switch x {
	case 1:
		// LD r[y], r[z], or HALT in place of LD (HL), (HL)
		// LD r, r              f(4)
		// LD r, (HL)           f(4)           r(3)
		// LD r, (i+d)     f(4) f(4) r(3) e(5) r(3)
		// LD (HL), r           f(4)           w(3)
		// LD (i+d), r     f(4) f(4) r(3) e(5) w(3)
		if y == 6 && z == 6 {
			h.Halt()
			return nil
		}
		rd := Reg(y)
		rs := Reg(z)
		h.LdRR(rd, rs, readDisp(st, h, rd == RegM || rs == RegM))
		return nil
	case 2:
		// alu[y] r[z]
		// alu r            f(4)
		// alu (HL)         f(4)           r(3)
		// alu (i+d)   f(4) f(4) r(3) e(5) r(3)
		r := Reg(z)
		h.AluR(ALU(y), r, readDisp(st, h, r == RegM))
		return nil
	}

	switch z {
	case 0:
		if x == 3 {
			// RET cc[y]  f(5) + r(3) r(3)
			h.Fetch5()
			h.RetCc(Condition(y))
			return nil
		}
		switch y {
		case 0:
			h.Nop()
		case 1:
			// EX AF, AF'  f(4)
			h.ExAfAf()
		case 2:
			// DJNZ d  f(5) r(3) + e(5)
			h.Fetch5()
			h.Djnz(h.Disp())
		case 3:
			// JR d  f(4) r(3) e(5)
			h.Jr(h.Disp())
		default:
			// JR cc[y-4], d  f(4) r(3) + e(5)
			h.JrCc(Condition(y-4), h.Disp())
		}
		return nil
	case 1:
		if q == 0 {
			if x == 0 {
				// LD rp[p], nn
				// LD rr, nn        f(4) r(3) r(3)
				// LD i, nn    f(4) f(4) r(3) r(3)
				h.LdRpNn(RegPair(p), h.Imm16())
			} else {
				// POP rp2[p]
				// POP rr           f(4) r(3) r(3)
				// POP i       f(4) f(4) r(3) r(3)
				h.PopRp(RegPair2(p))
			}
			return nil
		}
		if x == 0 {
			// ADD HL, rp[p]
			// ADD HL, rr           f(4) e(4) e(3)
			// ADD i, rr       f(4) f(4) e(4) e(3)
			h.AddIrpRp(RegPair(p))
			return nil
		}
		switch p {
		case 0:
			// RET  f(4) r(3) r(3)
			h.Ret()
		case 1:
			// EXX  f(4)
			h.Exx()
		case 2:
			// JP (HL)          f(4)
			// JP (i)      f(4) f(4)
			h.JpIrp()
		case 3:
			// LD SP, HL        f(6)
			// LD SP, i    f(4) f(6)
			h.Fetch6()
			h.LdSpIrp()
		}
		return nil
	case 2:
		if x == 3 {
			// JP cc[y], nn  f(4) r(3) r(3)
			h.JpCcNn(Condition(y), h.Imm16())
			return nil
		}
		switch y {
		case 0:
			// LD (BC), A  f(4) w(3)
			h.LdAtRpA(RPBC)
		case 1:
			// LD A, (BC)  f(4) r(3)
			h.LdAAtRp(RPBC)
		case 2:
			// LD (DE), A  f(4) w(3)
			h.LdAtRpA(RPDE)
		case 3:
			// LD A, (DE)  f(4) r(3)
			h.LdAAtRp(RPDE)
		case 4:
			// LD (nn), HL          f(4) r(3) r(3) w(3) w(3)
			// LD (nn), i      f(4) f(4) r(3) r(3) w(3) w(3)
			h.LdAtNnIrp(h.Imm16())
		case 5:
			// LD HL, (nn)          f(4) r(3) r(3) r(3) r(3)
			// LD i, (nn)      f(4) f(4) r(3) r(3) r(3) r(3)
			h.LdIrpAtNn(h.Imm16())
		case 6:
			// LD (nn), A  f(4) r(3) r(3) w(3)
			h.LdAtNnA(h.Imm16())
		case 7:
			// LD A, (nn)  f(4) r(3) r(3) r(3)
			h.LdAAtNn(h.Imm16())
		}
		return nil
	case 3:
		if x == 0 {
			// INC rp[p] / DEC rp[p]
			// INC rr           f(6)
			// INC i       f(4) f(6)
			h.Fetch6()
			if q == 0 {
				h.IncRp(RegPair(p))
			} else {
				h.DecRp(RegPair(p))
			}
			return nil
		}
		switch y {
		case 0:
			// JP nn  f(4) r(3) r(3)
			h.JpNn(h.Imm16())
		case 1:
			// CB prefix
			st.prefix = PrefixCB
			st.nextIndex = st.indexReg
		case 2:
			// OUT (n), A  f(4) r(3) io(4)
			h.OutNA(h.Imm8())
		case 3:
			// IN A, (n)  f(4) r(3) io(4)
			h.InAN(h.Imm8())
		case 4:
			// EX (SP), HL          f(4) r(3) r(4) w(3) w(5)
			// EX (SP), i      f(4) f(4) r(3) r(4) w(3) w(5)
			h.ExAtSpIrp()
		case 5:
			// EX DE, HL  f(4)
			h.ExDeHl()
		case 6:
			// DI  f(4)
			h.Di()
		case 7:
			// EI  f(4)
			h.Ei()
		}
		return nil
	case 4:
		if x == 3 {
			// CALL cc[y], nn  f(4) r(3) r(3) + e(1) w(3) w(3)
			h.CallCcNn(Condition(y), h.Imm16())
			return nil
		}
		// INC r[y]
		// INC r            f(4)
		// INC (HL)         f(4)           r(4) w(3)
		// INC (i+d)   f(4) f(4) r(3) e(5) r(4) w(3)
		r := Reg(y)
		h.IncR(r, readDisp(st, h, r == RegM))
		return nil
	case 5:
		if x == 0 {
			// DEC r[y], timing as INC r[y]
			r := Reg(y)
			h.DecR(r, readDisp(st, h, r == RegM))
			return nil
		}
		if q == 0 {
			// PUSH rp2[p]
			// PUSH rr          f(5) w(3) w(3)
			// PUSH i      f(4) f(5) w(3) w(3)
			h.Fetch5()
			h.PushRp(RegPair2(p))
			return nil
		}
		switch p {
		case 0:
			// CALL nn  f(4) r(3) r(4) w(3) w(3)
			h.CallNn(h.Imm16Call())
		case 1:
			// DD prefix (IX-indexed instructions)
			st.nextIndex = IndexIX
			h.IndexPrefix(IndexIX)
		case 2:
			// ED prefix
			st.prefix = PrefixED
		case 3:
			// FD prefix (IY-indexed instructions)
			st.nextIndex = IndexIY
			h.IndexPrefix(IndexIY)
		}
		return nil
	case 6:
		if x == 3 {
			// alu[y] n  f(4) r(3)
			h.AluN(ALU(y), h.Imm8())
			return nil
		}
		// LD r[y], n
		// LD r, n              f(4)      r(3)
		// LD (HL), n           f(4)      r(3) w(3)
		// LD (i+d), n     f(4) f(4) r(3) r(5) w(3)
		r := Reg(y)
		var d, n uint8
		if r != RegM || st.indexReg == IndexHL {
			n = h.Imm8()
		} else {
			d = h.Disp()
			n = h.Imm8Slow()
		}
		h.LdRN(r, d, n)
		return nil
	case 7:
		if x == 3 {
			// RST y*8  f(5) w(3) w(3)
			h.Fetch5()
			h.Rst(uint16(y) * 8)
			return nil
		}
		switch y {
		case 0:
			h.Rlca()
		case 1:
			h.Rrca()
		case 2:
			h.Rla()
		case 3:
			h.Rra()
		case 4:
			h.Daa()
		case 5:
			h.Cpl()
		case 6:
			h.Scf()
		case 7:
			h.Ccf()
		}
		return nil
	}
	return fmt.Errorf("unknown opcode %#02x", op)
}

// CB table. Under an index prefix the displacement byte comes before the
// opcode (DD CB d op) and the opcode fetch costs an extra tick.
func decodeCB(st *State, h Handler) error {
	defer func() { st.prefix = PrefixNone }()

	var d uint8
	if st.indexReg != IndexHL {
		d = h.Disp()
	}

	op := h.Fetch()
	if st.indexReg != IndexHL {
		h.Fetch5()
	}

	y := yPart(op)
	r := Reg(zPart(op))

	switch xPart(op) {
	case 0:
		// rot[y] r[z]
		// rot r                f(4)      f(4)
		// rot (HL)             f(4)      f(4) r(4) w(3)
		// rot (i+d)       f(4) f(4) r(3) f(5) r(4) w(3)
		h.Rot(Rotate(y), r, d)
	case 1:
		// BIT y, r[z]
		// BIT b, r             f(4)      f(4)
		// BIT b, (HL)          f(4)      f(4) r(4)
		// BIT b, (i+d)    f(4) f(4) r(3) f(5) r(4)
		h.Bit(y, r, d)
	case 2:
		// RES y, r[z], timing as rot
		h.Res(y, r, d)
	case 3:
		// SET y, r[z], timing as rot
		h.Set(y, r, d)
	}
	return nil
}

// ED table. Positions the Z80 leaves unassigned execute as NONI: a
// no-op that also inhibits interrupt acceptance for one instruction.
func decodeED(st *State, h Handler) error {
	defer func() { st.prefix = PrefixNone }()

	op := h.Fetch()
	x := xPart(op)
	y := yPart(op)
	z := zPart(op)
	p := pPart(op)
	q := qPart(op)

	switch x {
	case 1:
		switch z {
		case 0:
			// IN r[y], (C)  f(4) f(4) io(4); y=6 sets flags only
			h.InRC(Reg(y))
		case 1:
			// OUT (C), r[y]  f(4) f(4) io(4); y=6 outputs zero
			h.OutCR(Reg(y))
		case 2:
			// SBC HL, rp[p]  f(4) f(4) e(4) e(3)
			// ADC HL, rp[p]  f(4) f(4) e(4) e(3)
			if q == 0 {
				h.SbcHlRp(RegPair(p))
			} else {
				h.AdcHlRp(RegPair(p))
			}
		case 3:
			// LD (nn), rp[p]  f(4) f(4) r(3) r(3) w(3) w(3)
			// LD rp[p], (nn)  f(4) f(4) r(3) r(3) r(3) r(3)
			nn := h.Imm16()
			if q == 0 {
				h.LdAtNnRp(nn, RegPair(p))
			} else {
				h.LdRpAtNn(RegPair(p), nn)
			}
		case 4:
			// NEG  f(4) f(4), aliased at every y
			h.Neg()
		case 5:
			// RETN  f(4) f(4) r(3) r(3); the y=1 alias is RETI
			if y == 1 {
				h.Reti()
			} else {
				h.Retn()
			}
		case 6:
			// IM im[y]  f(4) f(4)
			h.Im(decodeIntMode(y))
		case 7:
			switch y {
			case 0:
				// LD I, A  f(4) f(5)
				h.Fetch5()
				h.LdIA()
			case 1:
				// LD R, A  f(4) f(5)
				h.Fetch5()
				h.LdRA()
			case 2:
				// LD A, I  f(4) f(5)
				h.Fetch5()
				h.LdAI()
			case 3:
				// LD A, R  f(4) f(5)
				h.Fetch5()
				h.LdAR()
			case 4:
				// RRD  f(4) f(4) r(3) e(4) w(3)
				h.Rrd()
			case 5:
				// RLD  f(4) f(4) r(3) e(4) w(3)
				h.Rld()
			default:
				h.NoniEd(op)
			}
		}
		return nil
	case 2:
		if y < 4 || z > 3 {
			h.NoniEd(op)
			return nil
		}
		k := Block(y - 4)
		switch z {
		case 0:
			// LDI/LDD/LDIR/LDDR  f(4) f(4) r(3) w(5) + e(5)
			h.BlockLd(k)
		case 1:
			// CPI/CPD/CPIR/CPDR  f(4) f(4) r(3) e(5) + e(5)
			h.BlockCp(k)
		case 2:
			// INI/IND/INIR/INDR  f(4) f(5) io(4) w(3) + e(5)
			h.Fetch5()
			h.BlockIn(k)
		case 3:
			// OUTI/OUTD/OTIR/OTDR  f(4) f(5) r(3) io(4) + e(5)
			h.Fetch5()
			h.BlockOut(k)
		}
		return nil
	}
	h.NoniEd(op)
	return nil
}

// Interrupt mode from the y field: 0, 0, 1, 2, repeated.
func decodeIntMode(y uint8) uint8 {
	y &= 3
	if y < 2 {
		return 0
	}
	return y - 1
}
