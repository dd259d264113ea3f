/*
 * Z80 CPU test cases.
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

package cpu

import (
	"testing"

	"github.com/rcornwell/Z80/emu/decoder"
	"github.com/rcornwell/Z80/emu/memory"
)

func setup() {
	memory.SetSize(64)
	memory.ClearMemory()
	InitializeCPU()
}

// Place code at 0x100 and execute whole instructions.
func testInst(code ...uint8) int {
	memory.LoadMemory(0x100, code)
	cpuState.PC = 0x100
	ticks, ok := CycleCPU()
	if !ok {
		return -1
	}
	return ticks
}

// Test register accessors round trip.
func TestRegisterAccess(t *testing.T) {
	setup()
	SetAF(0x1234)
	if GetAF() != 0x1234 {
		t.Errorf("AF was incorrect got: %04x wanted: %04x", GetAF(), 0x1234)
	}
	if GetA() != 0x12 || GetF() != 0x34 {
		t.Errorf("AF halves incorrect got: %02x %02x wanted: 12 34", GetA(), GetF())
	}
	SetA(0x56)
	if GetAF() != 0x5634 {
		t.Errorf("setting A kept F got: %04x wanted: %04x", GetAF(), 0x5634)
	}
	SetF(0x78)
	if GetAF() != 0x5678 {
		t.Errorf("setting F kept A got: %04x wanted: %04x", GetAF(), 0x5678)
	}
	SetBC(0xfedc)
	SetDE(0xba98)
	SetHL(0x7654)
	SetIX(0x3210)
	SetIY(0x0123)
	SetSP(0x4567)
	SetPC(0x89ab)
	SetIR(0xcdef)
	SetMemptr(0x1357)
	if GetBC() != 0xfedc || GetDE() != 0xba98 || GetHL() != 0x7654 {
		t.Errorf("main pairs incorrect got: %04x %04x %04x", GetBC(), GetDE(), GetHL())
	}
	if GetIX() != 0x3210 || GetIY() != 0x0123 {
		t.Errorf("index registers incorrect got: %04x %04x", GetIX(), GetIY())
	}
	if GetSP() != 0x4567 || GetPC() != 0x89ab || GetIR() != 0xcdef {
		t.Errorf("SP/PC/IR incorrect got: %04x %04x %04x", GetSP(), GetPC(), GetIR())
	}
	if GetMemptr() != 0x1357 {
		t.Errorf("MEMPTR incorrect got: %04x wanted: %04x", GetMemptr(), 0x1357)
	}
}

// Test NOP instruction.
func TestCycleNop(t *testing.T) {
	setup()
	SetF(0xa5)
	ticks := testInst(0x00)
	if ticks != 4 {
		t.Errorf("NOP ticks got: %d wanted: %d", ticks, 4)
	}
	if cpuState.PC != 0x101 {
		t.Errorf("NOP PC got: %04x wanted: %04x", cpuState.PC, 0x101)
	}
	if GetF() != 0xa5 {
		t.Errorf("NOP changed flags got: %02x wanted: %02x", GetF(), 0xa5)
	}
}

// Test fetch refresh advances R.
func TestCycleRefresh(t *testing.T) {
	setup()
	SetIR(0x4000)
	testInst(0x00)
	if GetIR() != 0x4001 {
		t.Errorf("R after NOP got: %04x wanted: %04x", GetIR(), 0x4001)
	}
	SetIR(0x407f)
	testInst(0x00)
	if GetIR() != 0x4000 {
		t.Errorf("R wraps low 7 bits got: %04x wanted: %04x", GetIR(), 0x4000)
	}
}

// Test LD A,n instruction.
func TestCycleLdAN(t *testing.T) {
	setup()
	ticks := testInst(0x3e, 0x42)
	if ticks != 7 {
		t.Errorf("LD A,n ticks got: %d wanted: %d", ticks, 7)
	}
	if GetA() != 0x42 {
		t.Errorf("LD A,n result got: %02x wanted: %02x", GetA(), 0x42)
	}
	if cpuState.PC != 0x102 {
		t.Errorf("LD A,n PC got: %04x wanted: %04x", cpuState.PC, 0x102)
	}
}

// Test LD r,r instructions.
func TestCycleLdRR(t *testing.T) {
	setup()
	SetBC(0x1234)
	ticks := testInst(0x48) // LD C,B
	if ticks != 4 {
		t.Errorf("LD C,B ticks got: %d wanted: %d", ticks, 4)
	}
	if GetBC() != 0x1212 {
		t.Errorf("LD C,B result got: %04x wanted: %04x", GetBC(), 0x1212)
	}

	setup()
	SetHL(0x2000)
	memory.SetMemory(0x2000, 0x77)
	ticks = testInst(0x7e) // LD A,(HL)
	if ticks != 7 {
		t.Errorf("LD A,(HL) ticks got: %d wanted: %d", ticks, 7)
	}
	if GetA() != 0x77 {
		t.Errorf("LD A,(HL) result got: %02x wanted: %02x", GetA(), 0x77)
	}

	setup()
	SetA(0x55)
	SetHL(0x2000)
	ticks = testInst(0x77) // LD (HL),A
	if ticks != 7 {
		t.Errorf("LD (HL),A ticks got: %d wanted: %d", ticks, 7)
	}
	if memory.GetMemory(0x2000) != 0x55 {
		t.Errorf("LD (HL),A result got: %02x wanted: %02x", memory.GetMemory(0x2000), 0x55)
	}
}

// Test indexed loads with displacement.
func TestCycleLdIndexed(t *testing.T) {
	setup()
	SetIX(0x2000)
	memory.SetMemory(0x2005, 0x99)
	ticks := testInst(0xdd, 0x7e, 0x05) // LD A,(IX+5)
	if ticks != 19 {
		t.Errorf("LD A,(IX+5) ticks got: %d wanted: %d", ticks, 19)
	}
	if GetA() != 0x99 {
		t.Errorf("LD A,(IX+5) result got: %02x wanted: %02x", GetA(), 0x99)
	}
	if GetMemptr() != 0x2005 {
		t.Errorf("LD A,(IX+5) MEMPTR got: %04x wanted: %04x", GetMemptr(), 0x2005)
	}

	setup()
	SetIY(0x2010)
	SetA(0x33)
	ticks = testInst(0xfd, 0x77, 0xfe) // LD (IY-2),A
	if ticks != 19 {
		t.Errorf("LD (IY-2),A ticks got: %d wanted: %d", ticks, 19)
	}
	if memory.GetMemory(0x200e) != 0x33 {
		t.Errorf("LD (IY-2),A result got: %02x wanted: %02x", memory.GetMemory(0x200e), 0x33)
	}

	// The H register is untouched by the indexed form.
	setup()
	SetIX(0x2000)
	SetHL(0x5a5a)
	memory.SetMemory(0x2001, 0x12)
	testInst(0xdd, 0x66, 0x01) // LD H,(IX+1)
	if GetHL() != 0x125a {
		t.Errorf("LD H,(IX+1) result got: %04x wanted: %04x", GetHL(), 0x125a)
	}
}

// Test LD (IX+d),n timing.
func TestCycleLdIndexedImm(t *testing.T) {
	setup()
	SetIX(0x3000)
	ticks := testInst(0xdd, 0x36, 0x03, 0xab) // LD (IX+3),0xab
	if ticks != 19 {
		t.Errorf("LD (IX+3),n ticks got: %d wanted: %d", ticks, 19)
	}
	if memory.GetMemory(0x3003) != 0xab {
		t.Errorf("LD (IX+3),n result got: %02x wanted: %02x", memory.GetMemory(0x3003), 0xab)
	}
	if cpuState.PC != 0x104 {
		t.Errorf("LD (IX+3),n PC got: %04x wanted: %04x", cpuState.PC, 0x104)
	}
}

// Test prefix state commits and clears around an FD prefix.
func TestPrefixState(t *testing.T) {
	setup()
	SetIY(0x4000)
	memory.LoadMemory(0x100, []uint8{0xfd, 0x21, 0x00, 0x40})
	cpuState.PC = 0x100

	// Decoder-level: the prefix byte sets the pending index and
	// blocks interrupts at the transition.
	if err := decoder.Decode(&cpuState.state, &cpuState); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !cpuState.state.Pending() {
		t.Errorf("FD prefix did not leave decode pending")
	}
	if !cpuState.disableInt {
		t.Errorf("FD prefix did not block interrupts")
	}
	if err := decoder.Decode(&cpuState.state, &cpuState); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cpuState.state.Pending() {
		t.Errorf("prefix state not cleared after target instruction")
	}
	if GetIY() != 0x4000 {
		t.Errorf("LD IY,nn result got: %04x wanted: %04x", GetIY(), 0x4000)
	}
}

// Scenario: FD 21 00 40 executes as one cycle of 14 ticks.
func TestCycleLdIYNn(t *testing.T) {
	setup()
	ticks := testInst(0xfd, 0x21, 0x00, 0x40)
	if ticks != 14 {
		t.Errorf("LD IY,nn ticks got: %d wanted: %d", ticks, 14)
	}
	if GetIY() != 0x4000 {
		t.Errorf("LD IY,nn result got: %04x wanted: %04x", GetIY(), 0x4000)
	}
	if cpuState.PC != 0x104 {
		t.Errorf("LD IY,nn PC got: %04x wanted: %04x", cpuState.PC, 0x104)
	}
	if cpuState.state.Pending() {
		t.Errorf("index prefix still pending after instruction")
	}
	if cpuState.disableInt {
		t.Errorf("interrupt block survived the prefixed instruction")
	}
}

// Test JP instruction, which latches MEMPTR.
func TestCycleJp(t *testing.T) {
	setup()
	ticks := testInst(0xc3, 0x34, 0x12)
	if ticks != 10 {
		t.Errorf("JP ticks got: %d wanted: %d", ticks, 10)
	}
	if cpuState.PC != 0x1234 {
		t.Errorf("JP PC got: %04x wanted: %04x", cpuState.PC, 0x1234)
	}
	if GetMemptr() != 0x1234 {
		t.Errorf("JP MEMPTR got: %04x wanted: %04x", GetMemptr(), 0x1234)
	}
}

// Test conditional jumps.
func TestCycleJpCc(t *testing.T) {
	setup()
	SetF(flagZ)
	ticks := testInst(0xca, 0x00, 0x20) // JP Z,0x2000
	if ticks != 10 {
		t.Errorf("JP Z ticks got: %d wanted: %d", ticks, 10)
	}
	if cpuState.PC != 0x2000 {
		t.Errorf("JP Z taken PC got: %04x wanted: %04x", cpuState.PC, 0x2000)
	}

	setup()
	SetF(0)
	testInst(0xca, 0x00, 0x20)
	if cpuState.PC != 0x103 {
		t.Errorf("JP Z untaken PC got: %04x wanted: %04x", cpuState.PC, 0x103)
	}
	if GetMemptr() != 0x2000 {
		t.Errorf("JP Z untaken MEMPTR got: %04x wanted: %04x", GetMemptr(), 0x2000)
	}
}

// Test CALL and RET, with the stack byte order.
func TestCycleCallRet(t *testing.T) {
	setup()
	SetSP(0xfffe)
	ticks := testInst(0xcd, 0x00, 0x20) // CALL 0x2000
	if ticks != 17 {
		t.Errorf("CALL ticks got: %d wanted: %d", ticks, 17)
	}
	if cpuState.PC != 0x2000 {
		t.Errorf("CALL PC got: %04x wanted: %04x", cpuState.PC, 0x2000)
	}
	if GetSP() != 0xfffc {
		t.Errorf("CALL SP got: %04x wanted: %04x", GetSP(), 0xfffc)
	}
	// Return address stored little endian: low at SP, high at SP+1.
	if memory.GetMemory(0xfffc) != 0x03 || memory.GetMemory(0xfffd) != 0x01 {
		t.Errorf("CALL stack got: %02x %02x wanted: 03 01",
			memory.GetMemory(0xfffc), memory.GetMemory(0xfffd))
	}

	memory.SetMemory(0x2000, 0xc9) // RET
	ticks, _ = CycleCPU()
	if ticks != 10 {
		t.Errorf("RET ticks got: %d wanted: %d", ticks, 10)
	}
	if cpuState.PC != 0x103 {
		t.Errorf("RET PC got: %04x wanted: %04x", cpuState.PC, 0x103)
	}
	if GetMemptr() != 0x103 {
		t.Errorf("RET MEMPTR got: %04x wanted: %04x", GetMemptr(), 0x103)
	}
}

// Test conditional call and return timing.
func TestCycleCallCc(t *testing.T) {
	setup()
	SetSP(0xfffe)
	SetF(flagC)
	ticks := testInst(0xdc, 0x00, 0x20) // CALL C,0x2000
	if ticks != 17 {
		t.Errorf("CALL C taken ticks got: %d wanted: %d", ticks, 17)
	}
	if cpuState.PC != 0x2000 {
		t.Errorf("CALL C taken PC got: %04x wanted: %04x", cpuState.PC, 0x2000)
	}

	setup()
	SetF(0)
	ticks = testInst(0xdc, 0x00, 0x20)
	if ticks != 10 {
		t.Errorf("CALL C untaken ticks got: %d wanted: %d", ticks, 10)
	}
	if cpuState.PC != 0x103 {
		t.Errorf("CALL C untaken PC got: %04x wanted: %04x", cpuState.PC, 0x103)
	}

	setup()
	SetSP(0xfff0)
	memory.SetWord(0xfff0, 0x2345)
	SetF(flagZ)
	ticks = testInst(0xc8) // RET Z
	if ticks != 11 {
		t.Errorf("RET Z taken ticks got: %d wanted: %d", ticks, 11)
	}
	if cpuState.PC != 0x2345 || GetSP() != 0xfff2 {
		t.Errorf("RET Z taken got: PC %04x SP %04x wanted: 2345 fff2", cpuState.PC, GetSP())
	}

	setup()
	SetF(0)
	ticks = testInst(0xc8)
	if ticks != 5 {
		t.Errorf("RET Z untaken ticks got: %d wanted: %d", ticks, 5)
	}
}

// Test RST instruction.
func TestCycleRst(t *testing.T) {
	setup()
	SetSP(0xfffe)
	ticks := testInst(0xff) // RST 38
	if ticks != 11 {
		t.Errorf("RST ticks got: %d wanted: %d", ticks, 11)
	}
	if cpuState.PC != 0x38 {
		t.Errorf("RST PC got: %04x wanted: %04x", cpuState.PC, 0x38)
	}
	if memory.GetWord(0xfffc) != 0x101 {
		t.Errorf("RST return addr got: %04x wanted: %04x", memory.GetWord(0xfffc), 0x101)
	}
}

// Test relative jumps.
func TestCycleJr(t *testing.T) {
	setup()
	ticks := testInst(0x18, 0x05) // JR +5
	if ticks != 12 {
		t.Errorf("JR ticks got: %d wanted: %d", ticks, 12)
	}
	if cpuState.PC != 0x107 {
		t.Errorf("JR PC got: %04x wanted: %04x", cpuState.PC, 0x107)
	}
	if GetMemptr() != 0x107 {
		t.Errorf("JR MEMPTR got: %04x wanted: %04x", GetMemptr(), 0x107)
	}

	setup()
	ticks = testInst(0x18, 0xfe) // JR -2, to itself
	if cpuState.PC != 0x100 {
		t.Errorf("JR -2 PC got: %04x wanted: %04x", cpuState.PC, 0x100)
	}

	setup()
	SetF(0)
	ticks = testInst(0x28, 0x05) // JR Z,+5 untaken
	if ticks != 7 {
		t.Errorf("JR Z untaken ticks got: %d wanted: %d", ticks, 7)
	}
	if cpuState.PC != 0x102 {
		t.Errorf("JR Z untaken PC got: %04x wanted: %04x", cpuState.PC, 0x102)
	}
}

// Test DJNZ instruction.
func TestCycleDjnz(t *testing.T) {
	setup()
	SetBC(0x0200)
	ticks := testInst(0x10, 0x03) // DJNZ +3
	if ticks != 13 {
		t.Errorf("DJNZ taken ticks got: %d wanted: %d", ticks, 13)
	}
	if cpuState.PC != 0x105 {
		t.Errorf("DJNZ taken PC got: %04x wanted: %04x", cpuState.PC, 0x105)
	}
	if GetBC() != 0x0100 {
		t.Errorf("DJNZ B got: %04x wanted: %04x", GetBC(), 0x0100)
	}

	setup()
	SetBC(0x0100)
	ticks = testInst(0x10, 0x03)
	if ticks != 8 {
		t.Errorf("DJNZ untaken ticks got: %d wanted: %d", ticks, 8)
	}
	if cpuState.PC != 0x102 {
		t.Errorf("DJNZ untaken PC got: %04x wanted: %04x", cpuState.PC, 0x102)
	}
}

// Test 8-bit add and carry chains.
func TestCycleAdd(t *testing.T) {
	setup()
	SetA(0x42)
	SetBC(0x1300)
	ticks := testInst(0x80) // ADD A,B
	if ticks != 4 {
		t.Errorf("ADD A,B ticks got: %d wanted: %d", ticks, 4)
	}
	if GetA() != 0x55 {
		t.Errorf("ADD A,B result got: %02x wanted: %02x", GetA(), 0x55)
	}
	if GetF() != 0 {
		t.Errorf("ADD A,B flags got: %02x wanted: %02x", GetF(), 0)
	}

	// Carry and zero out.
	setup()
	SetA(0xff)
	testInst(0xc6, 0x01) // ADD A,1
	if GetA() != 0 {
		t.Errorf("ADD A,1 result got: %02x wanted: %02x", GetA(), 0)
	}
	if GetF() != (flagZ | flagH | flagC) {
		t.Errorf("ADD A,1 flags got: %02x wanted: %02x", GetF(), flagZ|flagH|flagC)
	}

	// Signed overflow 0x7f + 1.
	setup()
	SetA(0x7f)
	testInst(0xc6, 0x01)
	if GetF() != (flagS | flagH | flagP) {
		t.Errorf("ADD overflow flags got: %02x wanted: %02x", GetF(), flagS|flagH|flagP)
	}
}

// Test ADC with carry in.
func TestCycleAdc(t *testing.T) {
	setup()
	SetA(0x10)
	SetF(flagC)
	testInst(0xce, 0x01) // ADC A,1
	if GetA() != 0x12 {
		t.Errorf("ADC result got: %02x wanted: %02x", GetA(), 0x12)
	}

	setup()
	SetA(0xff)
	SetF(flagC)
	testInst(0xce, 0x00)
	if GetA() != 0 || (GetF()&flagC) == 0 || (GetF()&flagZ) == 0 {
		t.Errorf("ADC 0xff+0+C got: A %02x F %02x wanted: 00 with Z and C", GetA(), GetF())
	}
}

// Test SUB, SBC and CP.
func TestCycleSub(t *testing.T) {
	setup()
	SetA(0x10)
	testInst(0xd6, 0x20) // SUB 0x20
	if GetA() != 0xf0 {
		t.Errorf("SUB result got: %02x wanted: %02x", GetA(), 0xf0)
	}
	if GetF() != (flagS | flagY | flagN | flagC) {
		t.Errorf("SUB flags got: %02x wanted: %02x", GetF(), flagS|flagY|flagN|flagC)
	}

	setup()
	SetA(0x10)
	SetF(flagC)
	testInst(0xde, 0x01) // SBC A,1
	if GetA() != 0x0e {
		t.Errorf("SBC result got: %02x wanted: %02x", GetA(), 0x0e)
	}

	// CP only sets flags; X and Y come from the operand.
	setup()
	SetA(0x10)
	SetBC(0x2800)
	testInst(0xb8) // CP B
	if GetA() != 0x10 {
		t.Errorf("CP changed A got: %02x wanted: %02x", GetA(), 0x10)
	}
	if (GetF() & (flagY | flagX)) != (0x28 & (flagY | flagX)) {
		t.Errorf("CP X/Y from operand got: %02x wanted: %02x",
			GetF()&(flagY|flagX), 0x28&(flagY|flagX))
	}
	if (GetF() & flagN) == 0 {
		t.Errorf("CP did not set N")
	}
}

// Test logical operations and parity.
func TestCycleLogic(t *testing.T) {
	setup()
	SetA(0x0f)
	SetBC(0xf000)
	testInst(0xa0) // AND B
	if GetA() != 0 {
		t.Errorf("AND result got: %02x wanted: %02x", GetA(), 0)
	}
	if GetF() != (flagZ | flagH | flagP) {
		t.Errorf("AND flags got: %02x wanted: %02x", GetF(), flagZ|flagH|flagP)
	}

	setup()
	SetA(0x0f)
	testInst(0xf6, 0xf0) // OR 0xf0
	if GetA() != 0xff {
		t.Errorf("OR result got: %02x wanted: %02x", GetA(), 0xff)
	}
	if GetF() != (flagS | flagY | flagX | flagP) {
		t.Errorf("OR flags got: %02x wanted: %02x", GetF(), flagS|flagY|flagX|flagP)
	}

	setup()
	SetA(0xff)
	testInst(0xee, 0xff) // XOR 0xff
	if GetA() != 0 || GetF() != (flagZ|flagP) {
		t.Errorf("XOR got: A %02x F %02x wanted: 00 %02x", GetA(), GetF(), flagZ|flagP)
	}
}

// Test INC and DEC leave carry alone.
func TestCycleIncDec(t *testing.T) {
	setup()
	SetA(0x7f)
	SetF(flagC)
	ticks := testInst(0x3c) // INC A
	if ticks != 4 {
		t.Errorf("INC A ticks got: %d wanted: %d", ticks, 4)
	}
	if GetA() != 0x80 {
		t.Errorf("INC A result got: %02x wanted: %02x", GetA(), 0x80)
	}
	if GetF() != (flagS | flagH | flagP | flagC) {
		t.Errorf("INC A flags got: %02x wanted: %02x", GetF(), flagS|flagH|flagP|flagC)
	}

	setup()
	SetA(0x80)
	testInst(0x3d) // DEC A
	if GetA() != 0x7f {
		t.Errorf("DEC A result got: %02x wanted: %02x", GetA(), 0x7f)
	}
	if GetF() != (flagY | flagX | flagH | flagP | flagN) {
		t.Errorf("DEC A flags got: %02x wanted: %02x", GetF(), flagY|flagX|flagH|flagP|flagN)
	}

	setup()
	SetHL(0x2000)
	memory.SetMemory(0x2000, 0x10)
	ticks = testInst(0x34) // INC (HL)
	if ticks != 11 {
		t.Errorf("INC (HL) ticks got: %d wanted: %d", ticks, 11)
	}
	if memory.GetMemory(0x2000) != 0x11 {
		t.Errorf("INC (HL) result got: %02x wanted: %02x", memory.GetMemory(0x2000), 0x11)
	}

	setup()
	SetIX(0x2000)
	memory.SetMemory(0x2002, 0x2f)
	ticks = testInst(0xdd, 0x34, 0x02) // INC (IX+2)
	if ticks != 23 {
		t.Errorf("INC (IX+2) ticks got: %d wanted: %d", ticks, 23)
	}
	if memory.GetMemory(0x2002) != 0x30 {
		t.Errorf("INC (IX+2) result got: %02x wanted: %02x", memory.GetMemory(0x2002), 0x30)
	}
}

// Test 16-bit INC and DEC.
func TestCycleIncDecRp(t *testing.T) {
	setup()
	SetBC(0xffff)
	ticks := testInst(0x03) // INC BC
	if ticks != 6 {
		t.Errorf("INC BC ticks got: %d wanted: %d", ticks, 6)
	}
	if GetBC() != 0 {
		t.Errorf("INC BC result got: %04x wanted: %04x", GetBC(), 0)
	}

	setup()
	SetIX(0x1000)
	ticks = testInst(0xdd, 0x2b) // DEC IX
	if ticks != 10 {
		t.Errorf("DEC IX ticks got: %d wanted: %d", ticks, 10)
	}
	if GetIX() != 0x0fff {
		t.Errorf("DEC IX result got: %04x wanted: %04x", GetIX(), 0x0fff)
	}
}

// Test ADD HL,rp preserves S, Z and P/V.
func TestCycleAddHl(t *testing.T) {
	setup()
	SetHL(0x0fff)
	SetBC(0x0001)
	SetF(flagS | flagZ | flagP)
	ticks := testInst(0x09) // ADD HL,BC
	if ticks != 11 {
		t.Errorf("ADD HL,BC ticks got: %d wanted: %d", ticks, 11)
	}
	if GetHL() != 0x1000 {
		t.Errorf("ADD HL,BC result got: %04x wanted: %04x", GetHL(), 0x1000)
	}
	if GetF() != (flagS | flagZ | flagP | flagH) {
		t.Errorf("ADD HL,BC flags got: %02x wanted: %02x", GetF(), flagS|flagZ|flagP|flagH)
	}
	if GetMemptr() != 0x1000 {
		t.Errorf("ADD HL,BC MEMPTR got: %04x wanted: %04x", GetMemptr(), 0x1000)
	}

	// ADD IX,HL means ADD IX,IX under the prefix.
	setup()
	SetIX(0x4000)
	SetHL(0x1234)
	ticks = testInst(0xdd, 0x29) // ADD IX,IX
	if ticks != 15 {
		t.Errorf("ADD IX,IX ticks got: %d wanted: %d", ticks, 15)
	}
	if GetIX() != 0x8000 {
		t.Errorf("ADD IX,IX result got: %04x wanted: %04x", GetIX(), 0x8000)
	}

	// Carry out of bit 15.
	setup()
	SetHL(0x8000)
	SetDE(0x8000)
	testInst(0x19) // ADD HL,DE
	if GetHL() != 0 || (GetF()&flagC) == 0 {
		t.Errorf("ADD HL,DE carry got: HL %04x F %02x wanted: 0000 with C", GetHL(), GetF())
	}
}

// Test ADC HL and SBC HL compute every flag.
func TestCycleAdcSbcHl(t *testing.T) {
	setup()
	SetHL(0x7fff)
	SetBC(0x0000)
	SetF(flagC)
	ticks := testInst(0xed, 0x4a) // ADC HL,BC
	if ticks != 15 {
		t.Errorf("ADC HL,BC ticks got: %d wanted: %d", ticks, 15)
	}
	if GetHL() != 0x8000 {
		t.Errorf("ADC HL,BC result got: %04x wanted: %04x", GetHL(), 0x8000)
	}
	if (GetF() & (flagS | flagP)) != (flagS | flagP) {
		t.Errorf("ADC HL,BC overflow flags got: %02x wanted S and P set", GetF())
	}

	setup()
	SetHL(0x0000)
	SetDE(0x0001)
	SetF(0)
	testInst(0xed, 0x52) // SBC HL,DE
	if GetHL() != 0xffff {
		t.Errorf("SBC HL,DE result got: %04x wanted: %04x", GetHL(), 0xffff)
	}
	if (GetF() & (flagC | flagN | flagS)) != (flagC | flagN | flagS) {
		t.Errorf("SBC HL,DE flags got: %02x wanted C, N, S set", GetF())
	}

	// Zero result sets Z.
	setup()
	SetHL(0x0001)
	SetDE(0x0000)
	SetF(flagC)
	testInst(0xed, 0x52) // SBC HL,DE with carry
	if GetHL() != 0 || (GetF()&flagZ) == 0 {
		t.Errorf("SBC HL zero got: HL %04x F %02x wanted Z set", GetHL(), GetF())
	}
}

// Test 16-bit memory loads.
func TestCycleLd16Mem(t *testing.T) {
	setup()
	SetHL(0x1234)
	ticks := testInst(0x22, 0x00, 0x30) // LD (0x3000),HL
	if ticks != 16 {
		t.Errorf("LD (nn),HL ticks got: %d wanted: %d", ticks, 16)
	}
	if memory.GetWord(0x3000) != 0x1234 {
		t.Errorf("LD (nn),HL result got: %04x wanted: %04x", memory.GetWord(0x3000), 0x1234)
	}
	if GetMemptr() != 0x3001 {
		t.Errorf("LD (nn),HL MEMPTR got: %04x wanted: %04x", GetMemptr(), 0x3001)
	}

	setup()
	memory.SetWord(0x3000, 0x5678)
	ticks = testInst(0x2a, 0x00, 0x30) // LD HL,(0x3000)
	if ticks != 16 {
		t.Errorf("LD HL,(nn) ticks got: %d wanted: %d", ticks, 16)
	}
	if GetHL() != 0x5678 {
		t.Errorf("LD HL,(nn) result got: %04x wanted: %04x", GetHL(), 0x5678)
	}

	setup()
	SetDE(0x9abc)
	ticks = testInst(0xed, 0x53, 0x00, 0x30) // LD (0x3000),DE
	if ticks != 20 {
		t.Errorf("LD (nn),DE ticks got: %d wanted: %d", ticks, 20)
	}
	if memory.GetWord(0x3000) != 0x9abc {
		t.Errorf("LD (nn),DE result got: %04x wanted: %04x", memory.GetWord(0x3000), 0x9abc)
	}

	setup()
	memory.SetWord(0x3000, 0x4321)
	ticks = testInst(0xed, 0x7b, 0x00, 0x30) // LD SP,(0x3000)
	if ticks != 20 {
		t.Errorf("LD SP,(nn) ticks got: %d wanted: %d", ticks, 20)
	}
	if GetSP() != 0x4321 {
		t.Errorf("LD SP,(nn) result got: %04x wanted: %04x", GetSP(), 0x4321)
	}
}

// Test accumulator memory loads and the MEMPTR rule for LD (nn),A.
func TestCycleLdANn(t *testing.T) {
	setup()
	SetA(0x13)
	ticks := testInst(0x32, 0x41, 0x30) // LD (0x3041),A
	if ticks != 13 {
		t.Errorf("LD (nn),A ticks got: %d wanted: %d", ticks, 13)
	}
	if memory.GetMemory(0x3041) != 0x13 {
		t.Errorf("LD (nn),A result got: %02x wanted: %02x", memory.GetMemory(0x3041), 0x13)
	}
	if GetMemptr() != 0x1342 {
		t.Errorf("LD (nn),A MEMPTR got: %04x wanted: %04x", GetMemptr(), 0x1342)
	}

	setup()
	memory.SetMemory(0x3041, 0x27)
	ticks = testInst(0x3a, 0x41, 0x30) // LD A,(0x3041)
	if ticks != 13 {
		t.Errorf("LD A,(nn) ticks got: %d wanted: %d", ticks, 13)
	}
	if GetA() != 0x27 {
		t.Errorf("LD A,(nn) result got: %02x wanted: %02x", GetA(), 0x27)
	}
	if GetMemptr() != 0x3042 {
		t.Errorf("LD A,(nn) MEMPTR got: %04x wanted: %04x", GetMemptr(), 0x3042)
	}

	setup()
	SetA(0x31)
	SetBC(0x2005)
	testInst(0x02) // LD (BC),A
	if memory.GetMemory(0x2005) != 0x31 {
		t.Errorf("LD (BC),A result got: %02x wanted: %02x", memory.GetMemory(0x2005), 0x31)
	}
	if GetMemptr() != 0x3106 {
		t.Errorf("LD (BC),A MEMPTR got: %04x wanted: %04x", GetMemptr(), 0x3106)
	}

	setup()
	SetDE(0x2006)
	memory.SetMemory(0x2006, 0x44)
	testInst(0x1a) // LD A,(DE)
	if GetA() != 0x44 {
		t.Errorf("LD A,(DE) result got: %02x wanted: %02x", GetA(), 0x44)
	}
	if GetMemptr() != 0x2007 {
		t.Errorf("LD A,(DE) MEMPTR got: %04x wanted: %04x", GetMemptr(), 0x2007)
	}
}

// Test PUSH and POP round trip and SP discipline.
func TestCyclePushPop(t *testing.T) {
	setup()
	SetSP(0xfffe)
	SetDE(0xbeef)
	ticks := testInst(0xd5) // PUSH DE
	if ticks != 11 {
		t.Errorf("PUSH DE ticks got: %d wanted: %d", ticks, 11)
	}
	if GetSP() != 0xfffc {
		t.Errorf("PUSH DE SP got: %04x wanted: %04x", GetSP(), 0xfffc)
	}

	memory.SetMemory(0x101, 0xc1) // POP BC
	ticks, _ = CycleCPU()
	if ticks != 10 {
		t.Errorf("POP BC ticks got: %d wanted: %d", ticks, 10)
	}
	if GetBC() != 0xbeef {
		t.Errorf("POP BC result got: %04x wanted: %04x", GetBC(), 0xbeef)
	}
	if GetSP() != 0xfffe {
		t.Errorf("POP BC SP got: %04x wanted: %04x", GetSP(), 0xfffe)
	}

	// PUSH AF / POP AF round trips the flag byte.
	setup()
	SetSP(0xfffe)
	SetAF(0x12a5)
	testInst(0xf5) // PUSH AF
	memory.SetMemory(0x101, 0xf1)
	SetAF(0)
	CycleCPU()
	if GetAF() != 0x12a5 {
		t.Errorf("POP AF result got: %04x wanted: %04x", GetAF(), 0x12a5)
	}

	setup()
	SetSP(0xfffe)
	SetIX(0xcafe)
	ticks = testInst(0xdd, 0xe5) // PUSH IX
	if ticks != 15 {
		t.Errorf("PUSH IX ticks got: %d wanted: %d", ticks, 15)
	}
	memory.SetMemory(0x102, 0xdd)
	memory.SetMemory(0x103, 0xe1) // POP IX
	SetIX(0)
	CycleCPU()
	if GetIX() != 0xcafe {
		t.Errorf("POP IX result got: %04x wanted: %04x", GetIX(), 0xcafe)
	}
}

// Test exchange instructions are involutions.
func TestCycleExchange(t *testing.T) {
	setup()
	SetDE(0x1111)
	SetHL(0x2222)
	testInst(0xeb) // EX DE,HL
	if GetDE() != 0x2222 || GetHL() != 0x1111 {
		t.Errorf("EX DE,HL got: %04x %04x wanted: 2222 1111", GetDE(), GetHL())
	}
	memory.SetMemory(0x101, 0xeb)
	CycleCPU()
	if GetDE() != 0x1111 || GetHL() != 0x2222 {
		t.Errorf("EX DE,HL twice got: %04x %04x wanted: 1111 2222", GetDE(), GetHL())
	}

	setup()
	SetBC(0x1111)
	SetDE(0x2222)
	SetHL(0x3333)
	testInst(0xd9) // EXX
	if GetBC() != 0 || GetDE() != 0 || GetHL() != 0 {
		t.Errorf("EXX got: %04x %04x %04x wanted zeros", GetBC(), GetDE(), GetHL())
	}
	memory.SetMemory(0x101, 0xd9)
	CycleCPU()
	if GetBC() != 0x1111 || GetDE() != 0x2222 || GetHL() != 0x3333 {
		t.Errorf("EXX twice got: %04x %04x %04x wanted originals", GetBC(), GetDE(), GetHL())
	}

	setup()
	SetAF(0x1234)
	testInst(0x08) // EX AF,AF'
	if GetAF() != 0 {
		t.Errorf("EX AF,AF' got: %04x wanted: 0000", GetAF())
	}
	memory.SetMemory(0x101, 0x08)
	CycleCPU()
	if GetAF() != 0x1234 {
		t.Errorf("EX AF,AF' twice got: %04x wanted: 1234", GetAF())
	}

	setup()
	SetSP(0xfff0)
	memory.SetWord(0xfff0, 0x3344)
	SetHL(0x1122)
	ticks := testInst(0xe3) // EX (SP),HL
	if ticks != 19 {
		t.Errorf("EX (SP),HL ticks got: %d wanted: %d", ticks, 19)
	}
	if GetHL() != 0x3344 || memory.GetWord(0xfff0) != 0x1122 {
		t.Errorf("EX (SP),HL got: HL %04x mem %04x wanted: 3344 1122",
			GetHL(), memory.GetWord(0xfff0))
	}
	if GetMemptr() != 0x3344 {
		t.Errorf("EX (SP),HL MEMPTR got: %04x wanted: %04x", GetMemptr(), 0x3344)
	}
}

// Test JP (HL), LD SP,HL and index forms.
func TestCycleJpHl(t *testing.T) {
	setup()
	SetHL(0x2000)
	ticks := testInst(0xe9) // JP (HL)
	if ticks != 4 {
		t.Errorf("JP (HL) ticks got: %d wanted: %d", ticks, 4)
	}
	if cpuState.PC != 0x2000 {
		t.Errorf("JP (HL) PC got: %04x wanted: %04x", cpuState.PC, 0x2000)
	}

	setup()
	SetIY(0x3000)
	ticks = testInst(0xfd, 0xe9) // JP (IY)
	if ticks != 8 {
		t.Errorf("JP (IY) ticks got: %d wanted: %d", ticks, 8)
	}
	if cpuState.PC != 0x3000 {
		t.Errorf("JP (IY) PC got: %04x wanted: %04x", cpuState.PC, 0x3000)
	}

	setup()
	SetHL(0x8000)
	ticks = testInst(0xf9) // LD SP,HL
	if ticks != 6 {
		t.Errorf("LD SP,HL ticks got: %d wanted: %d", ticks, 6)
	}
	if GetSP() != 0x8000 {
		t.Errorf("LD SP,HL result got: %04x wanted: %04x", GetSP(), 0x8000)
	}
}

// Test accumulator rotates.
func TestCycleRotateA(t *testing.T) {
	setup()
	SetA(0x81)
	testInst(0x07) // RLCA
	if GetA() != 0x03 || (GetF()&flagC) == 0 {
		t.Errorf("RLCA got: A %02x F %02x wanted: 03 with C", GetA(), GetF())
	}

	setup()
	SetA(0x01)
	testInst(0x0f) // RRCA
	if GetA() != 0x80 || (GetF()&flagC) == 0 {
		t.Errorf("RRCA got: A %02x F %02x wanted: 80 with C", GetA(), GetF())
	}

	setup()
	SetA(0x80)
	SetF(flagC)
	testInst(0x17) // RLA
	if GetA() != 0x01 || (GetF()&flagC) == 0 {
		t.Errorf("RLA got: A %02x F %02x wanted: 01 with C", GetA(), GetF())
	}

	setup()
	SetA(0x01)
	SetF(0)
	testInst(0x1f) // RRA
	if GetA() != 0x00 || (GetF()&flagC) == 0 {
		t.Errorf("RRA got: A %02x F %02x wanted: 00 with C", GetA(), GetF())
	}
}

// Test DAA after add and subtract.
func TestCycleDaa(t *testing.T) {
	setup()
	SetA(0x15)
	testInst(0xc6, 0x27)          // ADD A,0x27 = 0x3c
	memory.SetMemory(0x102, 0x27) // DAA
	CycleCPU()
	if GetA() != 0x42 {
		t.Errorf("DAA after add got: %02x wanted: %02x", GetA(), 0x42)
	}

	setup()
	SetA(0x99)
	testInst(0xc6, 0x01) // ADD A,1 = 0x9a
	memory.SetMemory(0x102, 0x27)
	CycleCPU()
	if GetA() != 0x00 || (GetF()&flagC) == 0 {
		t.Errorf("DAA 99+01 got: A %02x F %02x wanted: 00 with C", GetA(), GetF())
	}

	setup()
	SetA(0x42)
	testInst(0xd6, 0x13) // SUB 0x13 = 0x2f
	memory.SetMemory(0x102, 0x27)
	CycleCPU()
	if GetA() != 0x29 {
		t.Errorf("DAA after sub got: %02x wanted: %02x", GetA(), 0x29)
	}
}

// Test CPL, SCF and CCF.
func TestCycleCplScfCcf(t *testing.T) {
	setup()
	SetA(0x55)
	testInst(0x2f) // CPL
	if GetA() != 0xaa {
		t.Errorf("CPL result got: %02x wanted: %02x", GetA(), 0xaa)
	}
	if (GetF() & (flagH | flagN)) != (flagH | flagN) {
		t.Errorf("CPL flags got: %02x wanted H and N set", GetF())
	}

	setup()
	SetA(0)
	SetF(0)
	testInst(0x37) // SCF
	if GetF() != flagC {
		t.Errorf("SCF flags got: %02x wanted: %02x", GetF(), flagC)
	}

	setup()
	SetA(0)
	SetF(flagC)
	testInst(0x3f) // CCF
	if GetF() != flagH {
		t.Errorf("CCF flags got: %02x wanted: %02x", GetF(), flagH)
	}
	memory.SetMemory(0x101, 0x3f)
	CycleCPU()
	if GetF() != flagC {
		t.Errorf("CCF twice flags got: %02x wanted: %02x", GetF(), flagC)
	}
}

// Test CB shifts and rotates.
func TestCycleShift(t *testing.T) {
	setup()
	SetBC(0x8100)
	ticks := testInst(0xcb, 0x00) // RLC B
	if ticks != 8 {
		t.Errorf("RLC B ticks got: %d wanted: %d", ticks, 8)
	}
	if GetBC() != 0x0300 || (GetF()&flagC) == 0 {
		t.Errorf("RLC B got: %04x F %02x wanted: 0300 with C", GetBC(), GetF())
	}

	setup()
	SetHL(0x2000)
	memory.SetMemory(0x2000, 0x01)
	ticks = testInst(0xcb, 0x3e) // SRL (HL)
	if ticks != 15 {
		t.Errorf("SRL (HL) ticks got: %d wanted: %d", ticks, 15)
	}
	if memory.GetMemory(0x2000) != 0 || (GetF()&flagZ) == 0 || (GetF()&flagC) == 0 {
		t.Errorf("SRL (HL) got: %02x F %02x wanted: 00 with Z and C",
			memory.GetMemory(0x2000), GetF())
	}

	setup()
	SetA(0x80)
	testInst(0xcb, 0x2f) // SRA A
	if GetA() != 0xc0 {
		t.Errorf("SRA A result got: %02x wanted: %02x", GetA(), 0xc0)
	}

	// Undocumented SLL shifts in a one.
	setup()
	SetA(0x01)
	testInst(0xcb, 0x37) // SLL A
	if GetA() != 0x03 {
		t.Errorf("SLL A result got: %02x wanted: %02x", GetA(), 0x03)
	}
}

// Test the indexed CB form with the undocumented dual write.
func TestCycleShiftIndexed(t *testing.T) {
	setup()
	SetIX(0x2000)
	memory.SetMemory(0x2004, 0x80)
	ticks := testInst(0xdd, 0xcb, 0x04, 0x06) // RLC (IX+4)
	if ticks != 23 {
		t.Errorf("RLC (IX+4) ticks got: %d wanted: %d", ticks, 23)
	}
	if memory.GetMemory(0x2004) != 0x01 {
		t.Errorf("RLC (IX+4) result got: %02x wanted: %02x", memory.GetMemory(0x2004), 0x01)
	}

	// Register field other than 6 copies the result.
	setup()
	SetIX(0x2000)
	memory.SetMemory(0x2004, 0x80)
	testInst(0xdd, 0xcb, 0x04, 0x00) // RLC (IX+4),B
	if memory.GetMemory(0x2004) != 0x01 {
		t.Errorf("RLC (IX+4),B memory got: %02x wanted: %02x", memory.GetMemory(0x2004), 0x01)
	}
	if GetBC() != 0x0100 {
		t.Errorf("RLC (IX+4),B register copy got: %04x wanted: %04x", GetBC(), 0x0100)
	}
}

// Test BIT, RES and SET.
func TestCycleBit(t *testing.T) {
	setup()
	SetA(0x01)
	ticks := testInst(0xcb, 0x47) // BIT 0,A
	if ticks != 8 {
		t.Errorf("BIT 0,A ticks got: %d wanted: %d", ticks, 8)
	}
	if (GetF() & flagZ) != 0 {
		t.Errorf("BIT 0,A set Z for a one bit")
	}
	if (GetF() & flagH) == 0 {
		t.Errorf("BIT 0,A did not set H")
	}

	setup()
	SetA(0x00)
	testInst(0xcb, 0x47)
	if (GetF()&flagZ) == 0 || (GetF()&flagP) == 0 {
		t.Errorf("BIT 0,A zero flags got: %02x wanted Z and P set", GetF())
	}

	// BIT 7 reports sign.
	setup()
	SetA(0x80)
	testInst(0xcb, 0x7f) // BIT 7,A
	if (GetF() & flagS) == 0 {
		t.Errorf("BIT 7,A did not set S")
	}

	// Memory operand takes X and Y from MEMPTR high.
	setup()
	SetIX(0x2000)
	memory.SetMemory(0x2a05, 0xff)
	SetIX(0x2a00)
	ticks = testInst(0xdd, 0xcb, 0x05, 0x46) // BIT 0,(IX+5)
	if ticks != 20 {
		t.Errorf("BIT 0,(IX+5) ticks got: %d wanted: %d", ticks, 20)
	}
	if (GetF() & (flagY | flagX)) != (0x2a & (flagY | flagX)) {
		t.Errorf("BIT (IX+5) X/Y got: %02x wanted from MEMPTR high 2a",
			GetF()&(flagY|flagX))
	}

	setup()
	SetA(0xff)
	testInst(0xcb, 0x87) // RES 0,A
	if GetA() != 0xfe {
		t.Errorf("RES 0,A result got: %02x wanted: %02x", GetA(), 0xfe)
	}

	setup()
	SetA(0x00)
	testInst(0xcb, 0xff) // SET 7,A
	if GetA() != 0x80 {
		t.Errorf("SET 7,A result got: %02x wanted: %02x", GetA(), 0x80)
	}

	// Indexed RES with dual write.
	setup()
	SetIX(0x2000)
	memory.SetMemory(0x2001, 0xff)
	ticks = testInst(0xdd, 0xcb, 0x01, 0x86) // RES 0,(IX+1)
	if ticks != 23 {
		t.Errorf("RES 0,(IX+1) ticks got: %d wanted: %d", ticks, 23)
	}
	if memory.GetMemory(0x2001) != 0xfe {
		t.Errorf("RES 0,(IX+1) result got: %02x wanted: %02x", memory.GetMemory(0x2001), 0xfe)
	}

	setup()
	SetIX(0x2000)
	memory.SetMemory(0x2001, 0x00)
	testInst(0xdd, 0xcb, 0x01, 0xc7) // SET 0,(IX+1),A
	if memory.GetMemory(0x2001) != 0x01 {
		t.Errorf("SET 0,(IX+1),A memory got: %02x wanted: %02x", memory.GetMemory(0x2001), 0x01)
	}
	if GetA() != 0x01 {
		t.Errorf("SET 0,(IX+1),A register copy got: %02x wanted: %02x", GetA(), 0x01)
	}
}

// Scenario: single LDIR step with BC=1 terminates.
func TestCycleBlockLd(t *testing.T) {
	setup()
	SetBC(1)
	SetHL(0x1000)
	SetDE(0x2000)
	SetA(0)
	memory.SetMemory(0x1000, 0xaa)
	ticks := testInst(0xed, 0xb0) // LDIR
	if ticks != 16 {
		t.Errorf("LDIR final ticks got: %d wanted: %d", ticks, 16)
	}
	if memory.GetMemory(0x2000) != 0xaa {
		t.Errorf("LDIR copy got: %02x wanted: %02x", memory.GetMemory(0x2000), 0xaa)
	}
	if GetBC() != 0 || GetHL() != 0x1001 || GetDE() != 0x2001 {
		t.Errorf("LDIR registers got: BC %04x HL %04x DE %04x wanted: 0 1001 2001",
			GetBC(), GetHL(), GetDE())
	}
	if (GetF() & flagP) != 0 {
		t.Errorf("LDIR P/V got set with BC zero")
	}
	if cpuState.PC != 0x102 {
		t.Errorf("LDIR PC got: %04x wanted: %04x", cpuState.PC, 0x102)
	}

	// With BC=2 the first execution repeats.
	setup()
	SetBC(2)
	SetHL(0x1000)
	SetDE(0x2000)
	memory.SetMemory(0x1000, 0x11)
	memory.SetMemory(0x1001, 0x22)
	ticks = testInst(0xed, 0xb0)
	if ticks != 21 {
		t.Errorf("LDIR repeat ticks got: %d wanted: %d", ticks, 21)
	}
	if cpuState.PC != 0x100 {
		t.Errorf("LDIR repeat PC got: %04x wanted: %04x", cpuState.PC, 0x100)
	}
	if (GetF() & flagP) == 0 {
		t.Errorf("LDIR P/V clear with BC nonzero")
	}
	if GetMemptr() != 0x101 {
		t.Errorf("LDIR repeat MEMPTR got: %04x wanted: %04x", GetMemptr(), 0x101)
	}
	// Run the second iteration.
	ticks, _ = CycleCPU()
	if ticks != 16 {
		t.Errorf("LDIR second ticks got: %d wanted: %d", ticks, 16)
	}
	if GetBC() != 0 || memory.GetMemory(0x2001) != 0x22 {
		t.Errorf("LDIR finished got: BC %04x mem %02x wanted: 0 22",
			GetBC(), memory.GetMemory(0x2001))
	}

	// LDD moves the pointers down.
	setup()
	SetBC(1)
	SetHL(0x1000)
	SetDE(0x2000)
	memory.SetMemory(0x1000, 0x5a)
	testInst(0xed, 0xa8) // LDD
	if GetHL() != 0x0fff || GetDE() != 0x1fff {
		t.Errorf("LDD pointers got: HL %04x DE %04x wanted: 0fff 1fff", GetHL(), GetDE())
	}
	if memory.GetMemory(0x2000) != 0x5a {
		t.Errorf("LDD copy got: %02x wanted: %02x", memory.GetMemory(0x2000), 0x5a)
	}
}

// Test block compare.
func TestCycleBlockCp(t *testing.T) {
	setup()
	SetA(0x22)
	SetBC(3)
	SetHL(0x1000)
	memory.SetMemory(0x1000, 0x11)
	memory.SetMemory(0x1001, 0x22)
	ticks := testInst(0xed, 0xb1) // CPIR, no match on first byte
	if ticks != 21 {
		t.Errorf("CPIR repeat ticks got: %d wanted: %d", ticks, 21)
	}
	if cpuState.PC != 0x100 {
		t.Errorf("CPIR repeat PC got: %04x wanted: %04x", cpuState.PC, 0x100)
	}
	ticks, _ = CycleCPU() // match on second byte
	if ticks != 16 {
		t.Errorf("CPIR match ticks got: %d wanted: %d", ticks, 16)
	}
	if (GetF() & flagZ) == 0 {
		t.Errorf("CPIR match did not set Z")
	}
	if GetHL() != 0x1002 || GetBC() != 1 {
		t.Errorf("CPIR match got: HL %04x BC %04x wanted: 1002 0001", GetHL(), GetBC())
	}
	if (GetF() & flagP) == 0 {
		t.Errorf("CPIR P/V clear with BC nonzero")
	}
	if GetA() != 0x22 {
		t.Errorf("CPIR changed A got: %02x wanted: %02x", GetA(), 0x22)
	}

	setup()
	SetA(0x10)
	SetBC(1)
	SetHL(0x1000)
	memory.SetMemory(0x1000, 0x20)
	testInst(0xed, 0xa9) // CPD
	if GetHL() != 0x0fff || GetBC() != 0 {
		t.Errorf("CPD got: HL %04x BC %04x wanted: 0fff 0000", GetHL(), GetBC())
	}
	if (GetF() & flagN) == 0 {
		t.Errorf("CPD did not set N")
	}
}

// Test HALT stops instruction flow.
func TestCycleHalt(t *testing.T) {
	setup()
	ticks := testInst(0x76)
	if ticks != 4 {
		t.Errorf("HALT ticks got: %d wanted: %d", ticks, 4)
	}
	if !Halted() {
		t.Errorf("HALT did not halt")
	}
	if cpuState.PC != 0x101 {
		t.Errorf("HALT PC got: %04x wanted: %04x", cpuState.PC, 0x101)
	}
	// Further cycles burn refresh time without moving PC.
	ticks, _ = CycleCPU()
	if ticks != 4 || cpuState.PC != 0x101 {
		t.Errorf("halted cycle got: %d ticks PC %04x wanted: 4 0101", ticks, cpuState.PC)
	}
}

// Test DI and EI.
func TestCycleDiEi(t *testing.T) {
	setup()
	cpuState.iff1 = true
	cpuState.iff2 = true
	testInst(0xf3) // DI
	if cpuState.iff1 || cpuState.iff2 {
		t.Errorf("DI left interrupts enabled")
	}

	setup()
	testInst(0xfb) // EI
	if !cpuState.iff1 || !cpuState.iff2 {
		t.Errorf("EI did not enable interrupts")
	}
	if !cpuState.disableInt {
		t.Errorf("EI did not block the next acceptance window")
	}
}

// Test IM instruction.
func TestCycleIm(t *testing.T) {
	setup()
	ticks := testInst(0xed, 0x56) // IM 1
	if ticks != 8 {
		t.Errorf("IM 1 ticks got: %d wanted: %d", ticks, 8)
	}
	if cpuState.intMode != 1 {
		t.Errorf("IM 1 mode got: %d wanted: %d", cpuState.intMode, 1)
	}
	testInst(0xed, 0x5e) // IM 2
	if cpuState.intMode != 2 {
		t.Errorf("IM 2 mode got: %d wanted: %d", cpuState.intMode, 2)
	}
	testInst(0xed, 0x46) // IM 0
	if cpuState.intMode != 0 {
		t.Errorf("IM 0 mode got: %d wanted: %d", cpuState.intMode, 0)
	}
}

// Test LD I,A and the LD A,I flag rule.
func TestCycleLdIR(t *testing.T) {
	setup()
	SetA(0x55)
	ticks := testInst(0xed, 0x47) // LD I,A
	if ticks != 9 {
		t.Errorf("LD I,A ticks got: %d wanted: %d", ticks, 9)
	}
	if high8(GetIR()) != 0x55 {
		t.Errorf("LD I,A result got: %02x wanted: %02x", high8(GetIR()), 0x55)
	}

	setup()
	SetA(0x7f)
	testInst(0xed, 0x4f) // LD R,A
	if low8(GetIR()) != 0x7f {
		t.Errorf("LD R,A result got: %02x wanted: %02x", low8(GetIR()), 0x7f)
	}

	setup()
	SetIR(0x8000)
	cpuState.iff2 = true
	testInst(0xed, 0x57) // LD A,I
	if GetA() != 0x80 {
		t.Errorf("LD A,I result got: %02x wanted: %02x", GetA(), 0x80)
	}
	if (GetF()&flagP) == 0 || (GetF()&flagS) == 0 {
		t.Errorf("LD A,I flags got: %02x wanted S and P set", GetF())
	}

	setup()
	SetIR(0x0000)
	// R advances with each fetch; ED 5F fetches twice.
	testInst(0xed, 0x5f) // LD A,R
	if GetA() != 0x02 {
		t.Errorf("LD A,R result got: %02x wanted: %02x", GetA(), 0x02)
	}
}

// Test NEG instruction.
func TestCycleNeg(t *testing.T) {
	setup()
	SetA(0x01)
	ticks := testInst(0xed, 0x44)
	if ticks != 8 {
		t.Errorf("NEG ticks got: %d wanted: %d", ticks, 8)
	}
	if GetA() != 0xff {
		t.Errorf("NEG result got: %02x wanted: %02x", GetA(), 0xff)
	}
	if (GetF()&flagN) == 0 || (GetF()&flagC) == 0 {
		t.Errorf("NEG flags got: %02x wanted N and C set", GetF())
	}

	setup()
	SetA(0x80)
	testInst(0xed, 0x44)
	if GetA() != 0x80 || (GetF()&flagP) == 0 {
		t.Errorf("NEG 0x80 got: A %02x F %02x wanted overflow", GetA(), GetF())
	}
}

// Test RRD and RLD nibble rotates.
func TestCycleRrdRld(t *testing.T) {
	setup()
	SetA(0x84)
	SetHL(0x2000)
	memory.SetMemory(0x2000, 0x20)
	ticks := testInst(0xed, 0x67) // RRD
	if ticks != 18 {
		t.Errorf("RRD ticks got: %d wanted: %d", ticks, 18)
	}
	if GetA() != 0x80 || memory.GetMemory(0x2000) != 0x42 {
		t.Errorf("RRD got: A %02x mem %02x wanted: 80 42", GetA(), memory.GetMemory(0x2000))
	}
	if GetMemptr() != 0x2001 {
		t.Errorf("RRD MEMPTR got: %04x wanted: %04x", GetMemptr(), 0x2001)
	}

	setup()
	SetA(0x13)
	SetHL(0x2000)
	memory.SetMemory(0x2000, 0x57)
	testInst(0xed, 0x6f) // RLD
	if GetA() != 0x15 || memory.GetMemory(0x2000) != 0x73 {
		t.Errorf("RLD got: A %02x mem %02x wanted: 15 73", GetA(), memory.GetMemory(0x2000))
	}
}

// Test NONI executes as a no-op with interrupts held off.
func TestCycleNoni(t *testing.T) {
	setup()
	ticks := testInst(0xed, 0x00)
	if ticks != 8 {
		t.Errorf("NONI ticks got: %d wanted: %d", ticks, 8)
	}
	if cpuState.PC != 0x102 {
		t.Errorf("NONI PC got: %04x wanted: %04x", cpuState.PC, 0x102)
	}
	if !cpuState.disableInt {
		t.Errorf("NONI did not block interrupts")
	}
}

// Per-instruction tick deltas for a spread of the table.
func TestCycleTiming(t *testing.T) {
	cases := []struct {
		name  string
		code  []uint8
		ticks int
	}{
		{"LD B,n", []uint8{0x06, 0x12}, 7},
		{"LD B,C", []uint8{0x41}, 4},
		{"LD BC,nn", []uint8{0x01, 0x34, 0x12}, 10},
		{"ADD A,(HL)", []uint8{0x86}, 7},
		{"ADD A,n", []uint8{0xc6, 0x01}, 7},
		{"INC B", []uint8{0x04}, 4},
		{"INC HL", []uint8{0x23}, 6},
		{"RLCA", []uint8{0x07}, 4},
		{"DAA", []uint8{0x27}, 4},
		{"SCF", []uint8{0x37}, 4},
		{"EX DE,HL", []uint8{0xeb}, 4},
		{"EXX", []uint8{0xd9}, 4},
		{"EX AF,AF'", []uint8{0x08}, 4},
		{"DI", []uint8{0xf3}, 4},
		{"EI", []uint8{0xfb}, 4},
		{"OUT (n),A", []uint8{0xd3, 0x10}, 11},
		{"IN A,(n)", []uint8{0xdb, 0x10}, 11},
		{"IN B,(C)", []uint8{0xed, 0x40}, 12},
		{"OUT (C),B", []uint8{0xed, 0x41}, 12},
		{"RETN", []uint8{0xed, 0x45}, 14},
		{"RETI", []uint8{0xed, 0x4d}, 14},
		{"LD A,(BC)", []uint8{0x0a}, 7},
		{"LD (BC),A", []uint8{0x02}, 7},
		{"ADD IX,BC", []uint8{0xdd, 0x09}, 15},
		{"LD IX,nn", []uint8{0xdd, 0x21, 0x00, 0x40}, 14},
		{"LD SP,IX", []uint8{0xdd, 0xf9}, 10},
		{"ALU (IX+d)", []uint8{0xdd, 0x86, 0x01}, 19},
		{"BIT 0,B", []uint8{0xcb, 0x40}, 8},
		{"SET 0,(HL)", []uint8{0xcb, 0xc6}, 15},
		{"RRD", []uint8{0xed, 0x67}, 18},
		{"LDI", []uint8{0xed, 0xa0}, 16},
		{"CPI", []uint8{0xed, 0xa1}, 16},
		{"INI", []uint8{0xed, 0xa2}, 16},
		{"OUTI", []uint8{0xed, 0xa3}, 16},
	}
	for _, c := range cases {
		setup()
		SetSP(0xfffe)
		ticks := testInst(c.code...)
		if ticks != c.ticks {
			t.Errorf("%s ticks got: %d wanted: %d", c.name, ticks, c.ticks)
		}
	}
}
