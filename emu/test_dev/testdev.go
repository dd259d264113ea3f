/*
 * Z80  - Test I/O device
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

package testdev

// Scriptable port device for tests. Reads drain the Data buffer in
// order; writes append to it. Every access is counted.
type TestDev struct {
	Port   uint8   // First port the device answers on
	Data   []uint8 // Bytes to supply on reads; written bytes append
	count  int     // Read position
	Reads  int     // Number of In calls seen
	Writes int     // Number of Out calls seen
}

func (d *TestDev) In(_ uint8) uint8 {
	d.Reads++
	if d.count >= len(d.Data) {
		return 0xff
	}
	v := d.Data[d.count]
	d.count++
	return v
}

func (d *TestDev) Out(_ uint8, data uint8) {
	d.Writes++
	d.Data = append(d.Data, data)
}

func (d *TestDev) Reset() {
	d.count = 0
	d.Reads = 0
	d.Writes = 0
	d.Data = d.Data[:0]
}
