/* Z80 operand and mnemonic names.

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

var regNames = [8]string{"b", "c", "d", "e", "h", "l", "(hl)", "a"}
var rpNames = [4]string{"bc", "de", "hl", "sp"}
var rp2Names = [4]string{"bc", "de", "hl", "af"}
var indexNames = [3]string{"hl", "ix", "iy"}
var condNames = [8]string{"nz", "z", "nc", "c", "po", "pe", "p", "m"}
var aluNames = [8]string{"add", "adc", "sub", "sbc", "and", "xor", "or", "cp"}
var rotNames = [8]string{"rlc", "rrc", "rl", "rr", "sla", "sra", "sll", "srl"}
var blockLdNames = [4]string{"ldi", "ldd", "ldir", "lddr"}
var blockCpNames = [4]string{"cpi", "cpd", "cpir", "cpdr"}
var blockInNames = [4]string{"ini", "ind", "inir", "indr"}
var blockOutNames = [4]string{"outi", "outd", "otir", "otdr"}

// Name of an 8-bit operand. The memory operand prints as (hl), or as
// (ix+d)/(iy-d) with a signed decimal displacement under an index prefix.
func RegName(r Reg, irp IndexReg, d uint8) string {
	if r == RegM && irp != IndexHL {
		disp := int(int8(d))
		if disp < 0 {
			return fmt.Sprintf("(%s%d)", indexNames[irp], disp)
		}
		return fmt.Sprintf("(%s+%d)", indexNames[irp], disp)
	}
	return regNames[r]
}

// Name of a register pair, with HL replaced by the active index pair.
func RegPairName(rp RegPair, irp IndexReg) string {
	if rp == RPHL && irp != IndexHL {
		return indexNames[irp]
	}
	return rpNames[rp]
}

// Name of a push/pop register pair.
func RegPair2Name(rp RegPair2, irp IndexReg) string {
	if rp == RP2HL && irp != IndexHL {
		return indexNames[irp]
	}
	return rp2Names[rp]
}

// Name of an index register pair.
func IndexName(irp IndexReg) string {
	return indexNames[irp]
}

// Name of a branch condition.
func CondName(cc Condition) string {
	return condNames[cc]
}

// ALU mnemonic. Add, adc and sbc name the accumulator explicitly.
func AluName(op ALU) string {
	return aluNames[op]
}

// True for the ALU operations written with an explicit "a," operand.
func AluTwoOperand(op ALU) bool {
	return op == AluAdd || op == AluAdc || op == AluSbc
}

// Shift/rotate mnemonic.
func RotName(op Rotate) string {
	return rotNames[op]
}

// Block instruction mnemonics per family.
func BlockLdName(op Block) string  { return blockLdNames[op] }
func BlockCpName(op Block) string  { return blockCpNames[op] }
func BlockInName(op Block) string  { return blockInNames[op] }
func BlockOutName(op Block) string { return blockOutNames[op] }
