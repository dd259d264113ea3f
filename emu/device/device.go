package device

/*
 * Z80  - I/O port devices
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

// Interface for devices mapped on the Z80 I/O port space. The CPU hands
// devices only the low 8 bits of the port address; the high byte of the
// 16-bit address bus (A or B) is not passed on.
type Device interface {
	In(port uint8) uint8
	Out(port uint8, data uint8)
	Reset()
}

var ports [256]Device

// Attach a device to count consecutive ports starting at port.
func AddDevice(dev Device, port uint8, count int) {
	for i := 0; i < count; i++ {
		ports[port+uint8(i)] = dev
	}
}

// Detach whatever device is at the given ports.
func DelDevice(port uint8, count int) {
	for i := 0; i < count; i++ {
		ports[port+uint8(i)] = nil
	}
}

// Device attached to a port, nil if none.
func GetDevice(port uint8) Device {
	return ports[port]
}

// Read a port. Unattached ports float to 0xff.
func In(port uint8) uint8 {
	if dev := ports[port]; dev != nil {
		return dev.In(port)
	}
	return 0xff
}

// Write a port. Writes to unattached ports are dropped.
func Out(port uint8, data uint8) {
	if dev := ports[port]; dev != nil {
		dev.Out(port, data)
	}
}

// Reset every attached device once.
func ResetAll() {
	seen := map[Device]bool{}
	for _, dev := range ports {
		if dev != nil && !seen[dev] {
			seen[dev] = true
			dev.Reset()
		}
	}
}
