/*
 * Z80 - Core simulation loop.
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

package core

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rcornwell/Z80/emu/cpu"
	"github.com/rcornwell/Z80/emu/device"
	"github.com/rcornwell/Z80/emu/event"
)

// Control messages for the simulation loop.
type msgType int

const (
	msgStart msgType = iota
	msgStop
	msgStep
	msgReset
	msgIRQ
	msgNMI
)

type Packet struct {
	Msg    msgType
	Vector uint8
}

type Core struct {
	wg      sync.WaitGroup
	done    chan struct{} // Signal to shutdown simulator.
	running bool          // Indicate when simulator should run or not.
	Control chan Packet
}

// Create instance of simulation core.
func NewCPU() *Core {
	return &Core{
		Control: make(chan Packet),
		done:    make(chan struct{}),
	}
}

// Run the simulation until stopped. The event clock advances by the
// tick count of each executed instruction.
func (core *Core) Start() {
	core.wg.Add(1)
	defer core.wg.Done()
	for {
		if core.running {
			var ticks int
			ticks, core.running = cpu.CycleCPU()
			event.Advance(ticks)
		} else if event.AnyEvent() {
			event.Advance(1)
		}
		select {
		case <-core.done:
			return
		case packet := <-core.Control:
			core.processPacket(packet)
		default:
		}
	}
}

// Stop a running simulator.
func (core *Core) Stop() {
	slog.Info("Shutting down CPU")
	close(core.done)
	done := make(chan struct{})
	go func() {
		core.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-time.After(time.Second):
		slog.Warn("Timed out waiting for CPU to finish.")
		return
	}
}

// Resume execution.
func (core *Core) SendStart() {
	core.Control <- Packet{Msg: msgStart}
}

// Pause execution.
func (core *Core) SendStop() {
	core.Control <- Packet{Msg: msgStop}
}

// Execute a single instruction.
func (core *Core) SendStep() {
	core.Control <- Packet{Msg: msgStep}
}

// Reset CPU and devices.
func (core *Core) SendReset() {
	core.Control <- Packet{Msg: msgReset}
}

// Raise the maskable interrupt line with the given vector.
func (core *Core) SendIRQ(vector uint8) {
	core.Control <- Packet{Msg: msgIRQ, Vector: vector}
}

// Raise the non maskable interrupt line.
func (core *Core) SendNMI() {
	core.Control <- Packet{Msg: msgNMI}
}

// True while instructions are being executed.
func (core *Core) Running() bool {
	return core.running
}

// Process a control packet sent to the simulation.
func (core *Core) processPacket(packet Packet) {
	switch packet.Msg {
	case msgStart:
		core.running = true
	case msgStop:
		core.running = false
	case msgStep:
		if !core.running {
			ticks, _ := cpu.CycleCPU()
			event.Advance(ticks)
		}
	case msgReset:
		core.running = false
		cpu.InitializeCPU()
		event.Clear()
		device.ResetAll()
	case msgIRQ:
		cpu.PostIRQ(packet.Vector)
	case msgNMI:
		cpu.PostNMI()
	}
}
