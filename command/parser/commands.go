/*
 * Z80 - Console commands.
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

package parser

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rcornwell/Z80/emu/core"
	"github.com/rcornwell/Z80/emu/cpu"
	disassembler "github.com/rcornwell/Z80/emu/disassemble"
	"github.com/rcornwell/Z80/emu/memory"
	"github.com/rcornwell/Z80/util/hex"
)

var cmdList []cmd

func init() {
	cmdList = []cmd{
		{Name: "continue", Min: 1, Help: "continue            resume execution", Process: cmdGo},
		{Name: "deposit", Min: 3, Help: "deposit addr b ...  store bytes in memory", Process: cmdDeposit},
		{Name: "disassemble", Min: 3, Help: "disassemble [addr] [count]", Process: cmdDisassemble},
		{Name: "examine", Min: 1, Help: "examine [addr] [count]", Process: cmdExamine},
		{Name: "go", Min: 2, Help: "go [addr]           start execution", Process: cmdGo},
		{Name: "help", Min: 1, Help: "help                this list", Process: cmdHelp},
		{Name: "irq", Min: 3, Help: "irq [vector]        raise maskable interrupt", Process: cmdIRQ},
		{Name: "load", Min: 2, Help: "load file [addr]    load binary or hex image", Process: cmdLoad},
		{Name: "nmi", Min: 3, Help: "nmi                 raise non maskable interrupt", Process: cmdNMI},
		{Name: "quit", Min: 1, Help: "quit                leave the simulator", Process: cmdQuit},
		{Name: "registers", Min: 1, Help: "registers           show CPU registers", Process: cmdRegisters},
		{Name: "reset", Min: 5, Help: "reset               reset CPU and devices", Process: cmdReset},
		{Name: "step", Min: 2, Help: "step [count]        execute instructions", Process: cmdStep},
		{Name: "stop", Min: 3, Help: "stop                pause execution", Process: cmdStop},
		{Name: "ticks", Min: 1, Help: "ticks               show clock tick counter", Process: cmdTicks},
	}
}

func cmdGo(line *cmdLine, core *core.Core) (bool, error) {
	addr, present, err := line.getNumber()
	if err != nil {
		return false, err
	}
	if present {
		cpu.SetPC(addr)
	}
	core.SendStart()
	return false, nil
}

func cmdStop(_ *cmdLine, core *core.Core) (bool, error) {
	core.SendStop()
	return false, nil
}

func cmdStep(line *cmdLine, core *core.Core) (bool, error) {
	count, present, err := line.getNumber()
	if err != nil {
		return false, err
	}
	if !present {
		count = 1
	}
	for i := uint16(0); i < count; i++ {
		core.SendStep()
	}
	fmt.Println(registerDump())
	return false, nil
}

func cmdReset(_ *cmdLine, core *core.Core) (bool, error) {
	core.SendReset()
	return false, nil
}

func cmdQuit(_ *cmdLine, _ *core.Core) (bool, error) {
	return true, nil
}

func cmdHelp(_ *cmdLine, _ *core.Core) (bool, error) {
	for _, c := range cmdList {
		fmt.Println("  " + c.Help)
	}
	return false, nil
}

func cmdRegisters(_ *cmdLine, _ *core.Core) (bool, error) {
	fmt.Println(registerDump())
	return false, nil
}

func cmdTicks(_ *cmdLine, _ *core.Core) (bool, error) {
	fmt.Println(cpu.Ticks())
	return false, nil
}

func cmdIRQ(line *cmdLine, core *core.Core) (bool, error) {
	vector, present, err := line.getNumber()
	if err != nil {
		return false, err
	}
	if !present {
		vector = 0xff
	}
	if vector > 0xff {
		return false, errors.New("vector must be a byte")
	}
	core.SendIRQ(uint8(vector))
	return false, nil
}

func cmdNMI(_ *cmdLine, core *core.Core) (bool, error) {
	core.SendNMI()
	return false, nil
}

// Remember the last examine address so a bare examine continues.
var examineAddr uint16

func cmdExamine(line *cmdLine, _ *core.Core) (bool, error) {
	addr, present, err := line.getNumber()
	if err != nil {
		return false, err
	}
	if present {
		examineAddr = addr
	}
	count, present, err := line.getNumber()
	if err != nil {
		return false, err
	}
	if !present {
		count = 64
	}
	for count > 0 {
		n := uint16(16)
		if count < n {
			n = count
		}
		data := make([]uint8, n)
		for i := range data {
			data[i] = memory.GetMemory(examineAddr + uint16(i))
		}
		fmt.Println(hex.FormatLine(examineAddr, data))
		examineAddr += n
		count -= n
	}
	return false, nil
}

func cmdDeposit(line *cmdLine, _ *core.Core) (bool, error) {
	addr, present, err := line.getNumber()
	if err != nil {
		return false, err
	}
	if !present {
		return false, errors.New("deposit needs an address")
	}
	stored := false
	for {
		v, present, err := line.getNumber()
		if err != nil {
			return false, err
		}
		if !present {
			break
		}
		if v > 0xff {
			return false, errors.New("deposit values are bytes")
		}
		memory.PutMemory(addr, uint8(v))
		addr++
		stored = true
	}
	if !stored {
		return false, errors.New("deposit needs at least one byte")
	}
	return false, nil
}

var disasmAddr uint16

func cmdDisassemble(line *cmdLine, _ *core.Core) (bool, error) {
	addr, present, err := line.getNumber()
	if err != nil {
		return false, err
	}
	if present {
		disasmAddr = addr
	} else {
		disasmAddr = cpu.GetPC()
	}
	count, present, err := line.getNumber()
	if err != nil {
		return false, err
	}
	if !present {
		count = 8
	}
	for i := uint16(0); i < count; i++ {
		data := make([]uint8, 6)
		for i := range data {
			data[i] = memory.GetMemory(disasmAddr + uint16(i))
		}
		text, length := disassembler.Disassemble(data)
		var str strings.Builder
		hex.FormatWord(&str, disasmAddr)
		str.WriteByte(' ')
		hex.FormatBytes(&str, data[:length])
		for i := length; i < 4; i++ {
			str.WriteString("   ")
		}
		str.WriteByte(' ')
		str.WriteString(text)
		fmt.Println(str.String())
		disasmAddr += uint16(length)
	}
	return false, nil
}

func cmdLoad(line *cmdLine, _ *core.Core) (bool, error) {
	name := line.getWord()
	if name == "" {
		return false, errors.New("load needs a file name")
	}
	addr, _, err := line.getNumber()
	if err != nil {
		return false, err
	}
	if strings.HasSuffix(strings.ToLower(name), ".hex") {
		file, err := os.Open(name)
		if err != nil {
			return false, err
		}
		defer file.Close()
		_, err = hex.LoadHex(file, memory.PutMemory)
		return false, err
	}
	buf, err := os.ReadFile(name)
	if err != nil {
		return false, err
	}
	memory.LoadMemory(addr, buf)
	return false, nil
}

// Format the register state on one line.
func registerDump() string {
	var str strings.Builder
	names := []string{"AF", "BC", "DE", "HL", "IX", "IY", "SP", "PC"}
	values := []uint16{
		cpu.GetAF(), cpu.GetBC(), cpu.GetDE(), cpu.GetHL(),
		cpu.GetIX(), cpu.GetIY(), cpu.GetSP(), cpu.GetPC(),
	}
	for i, name := range names {
		str.WriteString(name)
		str.WriteByte('=')
		hex.FormatWord(&str, values[i])
	}
	fmt.Fprintf(&str, "IM=%d", cpu.GetIntMode())
	if cpu.GetIFF1() {
		str.WriteString(" EI")
	}
	if cpu.Halted() {
		str.WriteString(" HALT")
	}
	return str.String()
}
