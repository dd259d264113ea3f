/*
 * Z80  - Interval timer device
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

package timer

import (
	"errors"

	"github.com/rcornwell/Z80/config/configparser"
	"github.com/rcornwell/Z80/emu/cpu"
	"github.com/rcornwell/Z80/emu/device"
	"github.com/rcornwell/Z80/emu/event"
)

func init() {
	configparser.RegisterDevice("timer", create)
}

// Create a timer from a configuration line.
func create(port uint8, options []string) error {
	if len(options) != 0 {
		return errors.New("timer takes no options")
	}
	device.AddDevice(&Timer{}, port, 2)
	return nil
}

/*
   Simple interval timer on two ports. Writing the period port sets the
   interrupt interval in units of 256 clock ticks; writing zero stops
   the timer. The vector port holds the value placed on the data bus
   during the interrupt acknowledge, which mode 2 uses as the table
   index. Reading the period port returns the programmed period.

       port+0   period, in 256 tick units
       port+1   interrupt vector
*/

type Timer struct {
	period uint8 // Programmed period, 0 is stopped
	vector uint8 // Interrupt vector for mode 2
}

func (t *Timer) In(port uint8) uint8 {
	if (port & 1) == 0 {
		return t.period
	}
	return t.vector
}

func (t *Timer) Out(port uint8, data uint8) {
	if (port & 1) != 0 {
		t.vector = data
		return
	}
	event.CancelEvent(t, 0)
	t.period = data
	if data != 0 {
		event.AddEvent(t, t.fire, int(data)*256, 0)
	}
}

func (t *Timer) Reset() {
	event.CancelEvent(t, 0)
	t.period = 0
	t.vector = 0
}

// Timer expired, raise the interrupt and rearm.
func (t *Timer) fire(_ int) {
	cpu.PostIRQ(t.vector)
	if t.period != 0 {
		event.AddEvent(t, t.fire, int(t.period)*256, 0)
	}
}
