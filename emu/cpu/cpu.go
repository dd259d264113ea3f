/* Z80 CPU simulator

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
	"fmt"
	"log/slog"

	"github.com/rcornwell/Z80/emu/decoder"
	"github.com/rcornwell/Z80/emu/device"
	"github.com/rcornwell/Z80/emu/memory"
)

/*
   Introduced by Zilog in 1976, the Z80 extended the Intel 8080 with a
   second register file, two index registers, a refresh counter and the
   CB/ED/DD/FD prefixed instruction pages. Every instruction is built
   from fixed-length machine cycles: an opcode fetch takes 4 clock ticks
   (2 on the program counter, 2 refreshing DRAM from the IR pair),
   memory reads and writes take 3, and several instructions stretch a
   cycle or insert internal ticks. The simulator issues those cycles in
   hardware order and counts every tick.

   The decoder lives in emu/decoder and is shared with the disassembler;
   this package implements the execution side of its Handler interface.
*/

var cpuState cpu

// Initialize CPU to power-on state.
func InitializeCPU() {
	cpuState = cpu{}
	cpuState.state.Reset()
}

// Execute one instruction, including any prefix chain, or accept a
// pending interrupt. Returns the number of clock ticks consumed and
// false if the simulator must stop.
func CycleCPU() (int, bool) {
	start := cpuState.ticks

	// Interrupts are only accepted between instructions, and not in
	// the shadow of an EI, a DD/FD prefix or a NONI.
	if !cpuState.disableInt {
		if cpuState.nmiPending {
			cpuState.acceptNMI()
			return int(cpuState.ticks - start), true
		}
		if cpuState.intPending && cpuState.iff1 {
			cpuState.acceptInt()
			return int(cpuState.ticks - start), true
		}
	}
	cpuState.disableInt = false

	// A halted CPU just runs refresh cycles until an interrupt.
	if cpuState.halted {
		cpuState.fetchCycle(cpuState.PC)
		return int(cpuState.ticks - start), true
	}

	for {
		if err := decoder.Decode(&cpuState.state, &cpuState); err != nil {
			slog.Error(fmt.Sprintf("decode failed: %v at %04x", err, cpuState.lastReadAddr))
			return int(cpuState.ticks - start), false
		}
		if !cpuState.state.Pending() {
			break
		}
		// The prefix byte inhibited interrupts; the rest of the
		// chain executes in this same cycle, so the inhibit is
		// already satisfied.
		cpuState.disableInt = false
	}
	return int(cpuState.ticks - start), true
}

// Raise the maskable interrupt line. The vector is the value the
// device would place on the data bus during the acknowledge cycle;
// it selects the table entry in mode 2.
func PostIRQ(vector uint8) {
	cpuState.intPending = true
	cpuState.intVector = vector
}

// Drop the maskable interrupt line.
func ClearIRQ() {
	cpuState.intPending = false
}

// Raise the non maskable interrupt line.
func PostNMI() {
	cpuState.nmiPending = true
}

// Accept a maskable interrupt.
func (cpu *cpu) acceptInt() {
	cpu.halted = false
	cpu.intPending = false
	cpu.iff1 = false
	cpu.iff2 = false
	cpu.refresh()

	switch cpu.intMode {
	case 2:
		// Mode 2: 7 tick acknowledge, push return address, then
		// fetch the handler address from the vector table at
		// (I << 8) | vector.
		cpu.tick(7)
		cpu.push(cpu.PC)
		addr := make16(high8(cpu.IR), cpu.intVector)
		lo := cpu.read3(addr)
		hi := cpu.read3(addr + 1)
		cpu.PC = make16(hi, lo)
	default:
		// Mode 1 restarts at 0038. Mode 0 executes whatever the
		// device jams on the bus; an RST opcode picks its own
		// target, anything else is treated as RST 38.
		target := intVectorIM1
		if cpu.intMode == 0 && (cpu.intVector&0xc7) == 0xc7 {
			target = uint16(cpu.intVector & 0x38)
		}
		cpu.tick(7)
		cpu.push(cpu.PC)
		cpu.PC = target
	}
	cpu.MEMPTR = cpu.PC
}

// Accept the non maskable interrupt. IFF2 keeps the pre-interrupt
// enable state for RETN.
func (cpu *cpu) acceptNMI() {
	cpu.halted = false
	cpu.nmiPending = false
	cpu.iff1 = false
	cpu.refresh()
	cpu.tick(5)
	cpu.push(cpu.PC)
	cpu.PC = nmiVector
	cpu.MEMPTR = cpu.PC
}

// Advance the clock.
func (cpu *cpu) tick(n int) {
	cpu.ticks += uint64(n)
}

// Bump the refresh counter, low 7 bits only.
func (cpu *cpu) refresh() {
	cpu.IR = (cpu.IR & 0xff80) | ((cpu.IR + 1) & 0x7f)
}

// M1 opcode fetch: 2 ticks addressing the program counter, 2 more
// refreshing from IR.
func (cpu *cpu) fetchCycle(addr uint16) uint8 {
	cpu.addrBus = addr
	op := memory.GetMemory(addr)
	cpu.tick(2)
	cpu.addrBus = cpu.IR
	cpu.refresh()
	cpu.tick(2)
	cpu.lastReadAddr = addr
	return op
}

func (cpu *cpu) read3(addr uint16) uint8 {
	cpu.addrBus = addr
	v := memory.GetMemory(addr)
	cpu.tick(3)
	cpu.lastReadAddr = addr
	return v
}

func (cpu *cpu) read4(addr uint16) uint8 {
	cpu.addrBus = addr
	v := memory.GetMemory(addr)
	cpu.tick(4)
	cpu.lastReadAddr = addr
	return v
}

func (cpu *cpu) read5(addr uint16) uint8 {
	cpu.addrBus = addr
	v := memory.GetMemory(addr)
	cpu.tick(5)
	cpu.lastReadAddr = addr
	return v
}

func (cpu *cpu) write3(addr uint16, v uint8) {
	cpu.addrBus = addr
	memory.SetMemory(addr, v)
	cpu.tick(3)
}

func (cpu *cpu) write5(addr uint16, v uint8) {
	cpu.addrBus = addr
	memory.SetMemory(addr, v)
	cpu.tick(5)
}

// I/O cycles put the full 16-bit port address on the bus and take
// 4 ticks.
func (cpu *cpu) inputCycle(addr uint16) uint8 {
	cpu.addrBus = addr
	v := device.In(low8(addr))
	cpu.tick(4)
	return v
}

func (cpu *cpu) outputCycle(addr uint16, v uint8) {
	cpu.addrBus = addr
	device.Out(low8(addr), v)
	cpu.tick(4)
}

// Fetch-source methods for the decoder.

func (cpu *cpu) Fetch() uint8 {
	op := cpu.fetchCycle(cpu.PC)
	cpu.PC++
	return op
}

func (cpu *cpu) Fetch5() {
	cpu.tick(1)
}

func (cpu *cpu) Fetch6() {
	cpu.tick(2)
}

func (cpu *cpu) Imm8() uint8 {
	v := cpu.read3(cpu.PC)
	cpu.PC++
	return v
}

func (cpu *cpu) Imm8Slow() uint8 {
	v := cpu.read5(cpu.PC)
	cpu.PC++
	return v
}

func (cpu *cpu) Imm16() uint16 {
	lo := cpu.read3(cpu.PC)
	cpu.PC++
	hi := cpu.read3(cpu.PC)
	cpu.PC++
	return make16(hi, lo)
}

func (cpu *cpu) Imm16Call() uint16 {
	lo := cpu.read3(cpu.PC)
	cpu.PC++
	hi := cpu.read4(cpu.PC)
	cpu.PC++
	return make16(hi, lo)
}

func (cpu *cpu) Disp() uint8 {
	v := cpu.read3(cpu.PC)
	cpu.PC++
	return v
}

func (cpu *cpu) Exec(n int) {
	cpu.tick(n)
}

// A DD/FD prefix blocks interrupt acceptance until its target
// instruction has executed.
func (cpu *cpu) IndexPrefix(_ decoder.IndexReg) {
	cpu.disableInt = true
}

// Value of the index pair the current instruction uses for HL.
func (cpu *cpu) indexVal() uint16 {
	switch cpu.state.IndexReg() {
	case decoder.IndexIX:
		return cpu.IX
	case decoder.IndexIY:
		return cpu.IY
	}
	return cpu.HL
}

func (cpu *cpu) setIndexVal(v uint16) {
	switch cpu.state.IndexReg() {
	case decoder.IndexIX:
		cpu.IX = v
	case decoder.IndexIY:
		cpu.IY = v
	default:
		cpu.HL = v
	}
}

// Read an 8-bit operand. The memory operand addresses (HL), or the
// index pair plus displacement under a prefix; indexed access latches
// the effective address in MEMPTR. INC, DEC and the CB family use a
// stretched 4 tick read.
func (cpu *cpu) getReg(r decoder.Reg, d uint8, long bool) uint8 {
	switch r {
	case decoder.RegB:
		return high8(cpu.BC)
	case decoder.RegC:
		return low8(cpu.BC)
	case decoder.RegD:
		return high8(cpu.DE)
	case decoder.RegE:
		return low8(cpu.DE)
	case decoder.RegH:
		return high8(cpu.HL)
	case decoder.RegL:
		return low8(cpu.HL)
	case decoder.RegA:
		return high8(cpu.AF)
	}
	addr := dispTarget(cpu.indexVal(), d)
	if cpu.state.IndexReg() != decoder.IndexHL {
		cpu.MEMPTR = addr
	}
	if long {
		return cpu.read4(addr)
	}
	return cpu.read3(addr)
}

// Write an 8-bit operand.
func (cpu *cpu) setReg(r decoder.Reg, d uint8, v uint8) {
	switch r {
	case decoder.RegB:
		cpu.BC = make16(v, low8(cpu.BC))
	case decoder.RegC:
		cpu.BC = make16(high8(cpu.BC), v)
	case decoder.RegD:
		cpu.DE = make16(v, low8(cpu.DE))
	case decoder.RegE:
		cpu.DE = make16(high8(cpu.DE), v)
	case decoder.RegH:
		cpu.HL = make16(v, low8(cpu.HL))
	case decoder.RegL:
		cpu.HL = make16(high8(cpu.HL), v)
	case decoder.RegA:
		cpu.AF = make16(v, low8(cpu.AF))
	case decoder.RegM:
		addr := dispTarget(cpu.indexVal(), d)
		if cpu.state.IndexReg() != decoder.IndexHL {
			cpu.MEMPTR = addr
		}
		cpu.write3(addr, v)
	}
}

// Read a register pair; HL maps to the active index pair.
func (cpu *cpu) getRp(rp decoder.RegPair) uint16 {
	switch rp {
	case decoder.RPBC:
		return cpu.BC
	case decoder.RPDE:
		return cpu.DE
	case decoder.RPHL:
		return cpu.indexVal()
	}
	return cpu.SP
}

func (cpu *cpu) setRp(rp decoder.RegPair, v uint16) {
	switch rp {
	case decoder.RPBC:
		cpu.BC = v
	case decoder.RPDE:
		cpu.DE = v
	case decoder.RPHL:
		cpu.setIndexVal(v)
	case decoder.RPSP:
		cpu.SP = v
	}
}

// Push/pop register pair selector.
func (cpu *cpu) getRp2(rp decoder.RegPair2) uint16 {
	switch rp {
	case decoder.RP2BC:
		return cpu.BC
	case decoder.RP2DE:
		return cpu.DE
	case decoder.RP2HL:
		return cpu.indexVal()
	}
	return cpu.AF
}

func (cpu *cpu) setRp2(rp decoder.RegPair2, v uint16) {
	switch rp {
	case decoder.RP2BC:
		cpu.BC = v
	case decoder.RP2DE:
		cpu.DE = v
	case decoder.RP2HL:
		cpu.setIndexVal(v)
	case decoder.RP2AF:
		cpu.AF = v
	}
}

// Test a branch condition against the flag register.
func (cpu *cpu) testCond(cc decoder.Condition) bool {
	var mask uint8
	switch cc >> 1 {
	case 0:
		mask = flagZ
	case 1:
		mask = flagC
	case 2:
		mask = flagP
	case 3:
		mask = flagS
	}
	return ((low8(cpu.AF) & mask) != 0) == ((cc & 1) != 0)
}

// Push a word; high byte goes to SP-1, low byte to SP-2.
func (cpu *cpu) push(v uint16) {
	sp := cpu.SP - 1
	cpu.write3(sp, high8(v))
	sp--
	cpu.write3(sp, low8(v))
	cpu.SP = sp
}

// Pop a word, low byte first.
func (cpu *cpu) pop() uint16 {
	lo := cpu.read3(cpu.SP)
	hi := cpu.read3(cpu.SP + 1)
	cpu.SP += 2
	return make16(hi, lo)
}

// Call and return both latch the target in MEMPTR.
func (cpu *cpu) callTo(addr uint16) {
	cpu.push(cpu.PC)
	cpu.MEMPTR = addr
	cpu.PC = addr
}

func (cpu *cpu) returnTo() {
	pc := cpu.pop()
	cpu.MEMPTR = pc
	cpu.PC = pc
}

// Taken relative branch: 5 internal ticks, PC and MEMPTR get the
// target.
func (cpu *cpu) relativeJump(d uint8) {
	cpu.Exec(5)
	target := dispTarget(cpu.PC, d)
	cpu.MEMPTR = target
	cpu.PC = target
}

// Register accessors for the host, the console and tests.

func GetAF() uint16      { return cpuState.AF }
func SetAF(v uint16)     { cpuState.AF = v }
func GetBC() uint16      { return cpuState.BC }
func SetBC(v uint16)     { cpuState.BC = v }
func GetDE() uint16      { return cpuState.DE }
func SetDE(v uint16)     { cpuState.DE = v }
func GetHL() uint16      { return cpuState.HL }
func SetHL(v uint16)     { cpuState.HL = v }
func GetIX() uint16      { return cpuState.IX }
func SetIX(v uint16)     { cpuState.IX = v }
func GetIY() uint16      { return cpuState.IY }
func SetIY(v uint16)     { cpuState.IY = v }
func GetSP() uint16      { return cpuState.SP }
func SetSP(v uint16)     { cpuState.SP = v }
func GetPC() uint16      { return cpuState.PC }
func SetPC(v uint16)     { cpuState.PC = v }
func GetIR() uint16      { return cpuState.IR }
func SetIR(v uint16)     { cpuState.IR = v }
func GetMemptr() uint16  { return cpuState.MEMPTR }
func SetMemptr(v uint16) { cpuState.MEMPTR = v }

func GetA() uint8  { return high8(cpuState.AF) }
func SetA(v uint8) { cpuState.AF = make16(v, low8(cpuState.AF)) }
func GetF() uint8  { return low8(cpuState.AF) }
func SetF(v uint8) { cpuState.AF = make16(high8(cpuState.AF), v) }

func GetIFF1() bool      { return cpuState.iff1 }
func SetIFF1(v bool)     { cpuState.iff1 = v }
func GetIFF2() bool      { return cpuState.iff2 }
func SetIFF2(v bool)     { cpuState.iff2 = v }
func GetIntMode() uint8  { return cpuState.intMode }
func SetIntMode(v uint8) { cpuState.intMode = v % 3 }

// Clock ticks since initialization.
func Ticks() uint64 {
	return cpuState.ticks
}

// True when the CPU executed HALT and waits for an interrupt.
func Halted() bool {
	return cpuState.halted
}

// Address of the most recent memory read.
func LastReadAddr() uint16 {
	return cpuState.lastReadAddr
}
