/*
 * mscp11 - Polling thread and shared controller state
 *
 * Copyright 2024, Richard Cornwell
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

// Package server implements the MSCP/TMSCP controller core (§4.1, §4.2):
// a single polling-thread dispatch loop driving a table of opcode handlers
// over a port.Port and a set of drive.Drive units. Base carries the
// behaviour shared by the disk (MSCP) and tape (TMSCP) variants; Disk and
// Tape narrow it with their class/model identity and command tables.
package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rcornwell/mscp11/mscp"
	"github.com/rcornwell/mscp11/mscp/drive"
	"github.com/rcornwell/mscp11/mscp/port"
)

// pollState is the polling thread's Wait/InitRun/Run/InitRestart state
// (§4.1).
type pollState int

const (
	stateWait pollState = iota
	stateInitRun
	stateRun
	stateInitRestart
)

// handlerFunc executes one opcode against b and the given drive (nil if
// the unit lookup failed). It returns the packed {status, subcode, flags}
// triple consumed by the dispatch loop.
type handlerFunc func(b *Base, d *drive.Drive, msg *mscp.Message) (status uint8, subcode uint16, flags uint8)

// Base is the controller core shared by the disk and tape server variants.
// Its polling thread is a dedicated goroutine launched by Start, mirroring
// the teacher's Core.Start/Stop and Timer.Start/Shutdown lifecycle
// (emu/core.go, emu/timer.go): a sync.WaitGroup plus a done channel for the
// outer start/stop handshake, and a sync.Mutex+sync.Cond pair for the
// inner Wait/InitRun/Run/InitRestart rendezvous (§4.1, §5, §9).
type Base struct {
	port     port.Port
	dispatch map[uint8]handlerFunc

	mu    sync.Mutex
	cond  *sync.Cond
	state pollState

	credits         uint8
	hostTimeout     uint16
	controllerFlags uint16
	classModel      uint16
	controllerID    [8]byte

	abort bool
	done  chan struct{}
	wg    sync.WaitGroup

	restartDone chan struct{}
}

// newBase wires a Base over the given port and dispatch table.
func newBase(p port.Port, classModel uint16, controllerID [8]byte, dispatch map[uint8]handlerFunc) *Base {
	b := &Base{
		port:         p,
		dispatch:     dispatch,
		state:        stateWait,
		credits:      mscp.InitCredits,
		classModel:   classModel,
		controllerID: controllerID,
	}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Start launches the polling goroutine.
func (b *Base) Start() {
	b.mu.Lock()
	b.done = make(chan struct{})
	b.abort = false
	b.mu.Unlock()

	b.wg.Add(1)
	go b.pollLoop()
}

// Stop tears down the polling goroutine, mirroring the teacher's
// close(done)+wg.Wait()-with-timeout shutdown idiom (emu/core.go Stop).
func (b *Base) Stop() {
	b.mu.Lock()
	b.abort = true
	close(b.done)
	b.cond.Broadcast()
	b.mu.Unlock()

	waited := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(waited)
	}()

	select {
	case <-waited:
	case <-time.After(5 * time.Second):
		slog.Warn("server: polling goroutine did not exit in time")
	}
}

// InitPolling is the host doorbell: it wakes the polling thread to drain
// the command ring (§4.1 transitions).
func (b *Base) InitPolling() {
	b.mu.Lock()
	if b.state == stateWait || b.state == stateRun {
		b.state = stateInitRun
	}
	b.cond.Broadcast()
	b.mu.Unlock()
}

// Reset forces every drive offline and resets the credit bank, blocking
// until the polling thread has abandoned any in-flight queue and parked
// back at Wait (§4.1 Reset semantics, §8 invariant 3). It behaves
// identically for the disk and tape variants: Reset never special-cases
// media type.
func (b *Base) Reset() {
	b.mu.Lock()
	if b.state == stateRun || b.state == stateInitRun {
		b.state = stateInitRestart
		b.restartDone = make(chan struct{})
		done := b.restartDone
		b.cond.Broadcast()
		b.mu.Unlock()
		<-done
		b.mu.Lock()
	}
	b.credits = mscp.InitCredits
	b.mu.Unlock()

	for _, d := range b.port.Drives() {
		d.Reset()
	}
}

// pollLoop is the dedicated goroutine body (§4.1 algorithm).
func (b *Base) pollLoop() {
	defer b.wg.Done()

	for {
		b.mu.Lock()
		for b.state == stateWait && !b.abort {
			b.cond.Wait()
		}
		if b.abort {
			b.mu.Unlock()
			return
		}
		if b.state != stateInitRestart {
			b.state = stateRun
		}
		b.mu.Unlock()

		b.drainRing()

		b.mu.Lock()
		if b.state == stateInitRestart {
			b.state = stateWait
			if b.restartDone != nil {
				close(b.restartDone)
				b.restartDone = nil
			}
		} else if b.state == stateRun {
			b.state = stateWait
		}
		b.mu.Unlock()
	}
}

// drainRing implements §4.1 steps 2-6: pull every queued command, execute
// it, post the response, and bail out early on abort or a pending reset.
func (b *Base) drainRing() {
	for {
		b.mu.Lock()
		restarting := b.state == stateInitRestart
		aborting := b.abort
		b.mu.Unlock()
		if restarting || aborting {
			return
		}

		msg, err := b.port.GetNextCommand()
		if err != nil {
			slog.Error("server: command ring error, abandoning queue", "error", err)
			return
		}
		if msg == nil {
			return
		}
		tracef(TraceRing, "command ref=%d opcode=%#x unit=%d", msg.ReferenceNumber(), msg.Opcode(), msg.UnitNumber())

		b.execute(msg)

		if err := b.port.PostResponse(msg); err != nil {
			slog.Error("server: response ring full, contract violation")
			panic("server: response ring post failed")
		}
	}
}

// execute runs one command through the dispatch table and writes its
// end-form Word3 plus credit grant into msg (§4.1 step 3-4).
func (b *Base) execute(msg *mscp.Message) {
	opcode := msg.Opcode()

	handler, ok := b.dispatch[opcode]

	var status uint8
	var subcode uint16
	var flags uint8
	var endcode uint8

	if !ok {
		// Unrecognised opcode: a protocol error, so the endcode carries no
		// opcode bits (§4.1 step 3). The subcode reports Word3's offset
		// within the full wire message, header-offset-adjusted.
		status = mscp.StatusInvalidCommand
		subcode = mscp.Word3Offset + mscp.HeaderOffset
		endcode = mscp.End
	} else {
		d := b.findDrive(msg.UnitNumber())
		status, subcode, flags = handler(b, d, msg)
		endcode = mscp.End | opcode
	}

	result := mscp.PackStatus(flags, subcode, status)
	msg.SetEnd(endcode, result)
	tracef(TraceDispatch, "endcode=%#x status=%#x subcode=%#x flags=%#x", endcode, status, subcode, flags)

	b.grantCredits(msg)
}

// grantCredits implements §4.1 step 4 / §6's credit bank rule.
func (b *Base) grantCredits(msg *mscp.Message) {
	if msg.MessageType != mscp.MsgTypeSequential || msg.Endcode()&mscp.End == 0 {
		msg.Credits = 0
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	c := b.credits
	if c > mscp.MaxCredits {
		c = mscp.MaxCredits
	}
	msg.Credits = c + 1
	b.credits -= c
	tracef(TraceCredit, "granted=%d remaining=%d", msg.Credits, b.credits)
}

// findDrive looks up a unit by its protocol-visible Number.
func (b *Base) findDrive(unit uint16) *drive.Drive {
	for _, d := range b.port.Drives() {
		if d.Number == unit {
			return d
		}
	}
	return nil
}
