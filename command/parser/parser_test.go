/*
 * Z80 command parser test cases.
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
	"testing"

	"github.com/rcornwell/Z80/emu/memory"
)

// Test command abbreviation matching.
func TestCommandMatch(t *testing.T) {
	if m := matchList("reg"); len(m) != 1 || m[0].Name != "registers" {
		t.Errorf("reg match got: %v", m)
	}
	if m := matchList("s"); len(m) != 0 {
		t.Errorf("ambiguous s matched: %v", m)
	}
	if m := matchList("st"); len(m) != 1 || m[0].Name != "step" {
		t.Errorf("st match got: %v", m)
	}
	if m := matchList("sto"); len(m) != 1 || m[0].Name != "stop" {
		t.Errorf("sto match got: %v", m)
	}
	if m := matchList("zzz"); len(m) != 0 {
		t.Errorf("zzz matched: %v", m)
	}
}

// Test number scanning.
func TestGetNumber(t *testing.T) {
	line := cmdLine{line: " 0x1234 99 zz"}
	v, present, err := line.getNumber()
	if err != nil || !present || v != 0x1234 {
		t.Errorf("hex number got: %04x %v %v", v, present, err)
	}
	v, present, err = line.getNumber()
	if err != nil || !present || v != 99 {
		t.Errorf("decimal number got: %d %v %v", v, present, err)
	}
	if _, _, err = line.getNumber(); err == nil {
		t.Errorf("bad number accepted")
	}
	if _, present, _ = line.getNumber(); present {
		t.Errorf("number found past end of line")
	}
}

// Test completion offers command names.
func TestComplete(t *testing.T) {
	out := CompleteCmd("di")
	if len(out) != 1 || out[0] != "disassemble " {
		t.Errorf("completion got: %v wanted: [disassemble ]", out)
	}
	if out = CompleteCmd("q"); len(out) != 1 || out[0] != "quit " {
		t.Errorf("completion got: %v wanted: [quit ]", out)
	}
}

// Test deposit and examine through ProcessCommand.
func TestDeposit(t *testing.T) {
	memory.SetSize(64)
	memory.ClearMemory()
	quit, err := ProcessCommand("deposit 0x2000 0x41 0x42", nil)
	if err != nil || quit {
		t.Fatalf("deposit failed: %v", err)
	}
	if memory.GetMemory(0x2000) != 0x41 || memory.GetMemory(0x2001) != 0x42 {
		t.Errorf("deposit got: %02x %02x wanted: 41 42",
			memory.GetMemory(0x2000), memory.GetMemory(0x2001))
	}
	if _, err := ProcessCommand("deposit", nil); err == nil {
		t.Errorf("empty deposit accepted")
	}
}
