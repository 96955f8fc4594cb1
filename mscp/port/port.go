/*
 * mscp11 - Host port abstraction
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

// Package port defines the Port interface the server core polls for command
// traffic and host-memory access (§6), plus MemPort, an in-memory reference
// implementation used by tests, the demo CLI and cmd/mscpctl in place of a
// real Qbus/Unibus DMA window.
package port

import (
	"errors"
	"sync"

	"github.com/rcornwell/mscp11/mscp"
	"github.com/rcornwell/mscp11/mscp/drive"
)

// Port is the external collaborator standing in for the host bus adapter:
// command/response ring access, host-memory DMA, and the attached unit set
// (§6).
type Port interface {
	// GetNextCommand dequeues the next command-ring entry, or returns a nil
	// message with a nil error once the ring is empty (§4.1 step 2).
	GetNextCommand() (*mscp.Message, error)

	// PostResponse enqueues msg on the response ring.
	PostResponse(msg *mscp.Message) error

	// DMARead copies n bytes from host memory at hostAddr.
	DMARead(hostAddr uint32, n int) ([]byte, error)

	// DMAWrite copies data into host memory at hostAddr.
	DMAWrite(hostAddr uint32, data []byte) error

	// Drives returns the controller's configured units, indexed by
	// position (not necessarily by Drive.Number).
	Drives() []*drive.Drive

	// ControllerID returns the class/model word and 8-byte identifier
	// reported by SET CONTROLLER CHARACTERISTICS / GET UNIT STATUS.
	ControllerID() (classModel uint16, id [8]byte)
}

// ErrNXM is returned by DMARead/DMAWrite when addr falls outside host
// memory (analogous to a "non-existent memory" bus error). Handlers map
// this to StatusHostBufferAccessError/SubcodeNXM (§4.2).
var ErrNXM = errors.New("port: non-existent host memory")

// MemPort is an in-memory reference Port backed by a flat byte slice
// standing in for host RAM, with simple slice-based command/response
// rings. It has no bearing on real bus timing; it exists purely so the
// server core, drive package, and command-line tools can be driven and
// tested without a real Qbus/Unibus adapter.
type MemPort struct {
	mu sync.Mutex

	memory     []byte
	classModel uint16
	id         [8]byte
	drives     []*drive.Drive

	commands  []*mscp.Message
	responses []*mscp.Message
}

// NewMemPort allocates an in-memory port with memSize bytes of host memory,
// the given drive set, and controller identification.
func NewMemPort(memSize int, drives []*drive.Drive, classModel uint16, id [8]byte) *MemPort {
	return &MemPort{memory: make([]byte, memSize), drives: drives, classModel: classModel, id: id}
}

// Drives implements Port.
func (p *MemPort) Drives() []*drive.Drive { return p.drives }

// ControllerID implements Port.
func (p *MemPort) ControllerID() (uint16, [8]byte) { return p.classModel, p.id }

// Submit enqueues msg on the command ring, as a host driver would.
func (p *MemPort) Submit(msg *mscp.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.commands = append(p.commands, msg)
}

// GetNextCommand implements Port.
func (p *MemPort) GetNextCommand() (*mscp.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.commands) == 0 {
		return nil, nil
	}
	msg := p.commands[0]
	p.commands = p.commands[1:]
	return msg, nil
}

// PostResponse implements Port.
func (p *MemPort) PostResponse(msg *mscp.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = append(p.responses, msg)
	return nil
}

// NextResponse dequeues the next posted response, as a host driver would.
func (p *MemPort) NextResponse() (*mscp.Message, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.responses) == 0 {
		return nil, false
	}
	msg := p.responses[0]
	p.responses = p.responses[1:]
	return msg, true
}

// DMARead implements Port.
func (p *MemPort) DMARead(addr uint32, n int) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if int(addr)+n > len(p.memory) || n < 0 {
		return nil, ErrNXM
	}
	out := make([]byte, n)
	copy(out, p.memory[addr:int(addr)+n])
	return out, nil
}

// DMAWrite implements Port.
func (p *MemPort) DMAWrite(addr uint32, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if int(addr)+len(data) > len(p.memory) {
		return ErrNXM
	}
	copy(p.memory[addr:], data)
	return nil
}

// WriteMemory seeds host memory directly, for test setup.
func (p *MemPort) WriteMemory(addr uint32, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	copy(p.memory[addr:], data)
}

// ReadMemory inspects host memory directly, for test assertions.
func (p *MemPort) ReadMemory(addr uint32, n int) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]byte, n)
	copy(out, p.memory[addr:int(addr)+n])
	return out
}
