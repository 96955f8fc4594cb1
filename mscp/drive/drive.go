/*
 * mscp11 - Unit state machine and geometry
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

// Package drive implements the per-unit state machine (§3, §4.2): the
// Absent/Available/Online lifecycle, geometry reporting, and the
// block-addressed read/write path onto a backing image.Image.
package drive

import (
	"errors"
	"sync"

	"github.com/rcornwell/mscp11/storage/image"
)

// State is a unit's position in the Absent -> Available -> Online lifecycle.
type State int

const (
	// Absent units have no backing image attached; every unit-addressed
	// command, GET UNIT STATUS and ONLINE included, reports unit-offline.
	Absent State = iota
	// Available units have an image attached but have not been brought
	// online by a host ONLINE command.
	Available
	// Online units accept READ/WRITE/COMPARE/ERASE/REPLACE traffic.
	Online
)

// BlockSize is the fixed sector size for both MSCP disk units and the
// RT-11 filesystem overlay.
const BlockSize = 512

// ErrOffline is returned by the data-transfer helpers when the unit is not
// Online.
var ErrOffline = errors.New("drive: unit offline")

// ErrNotAttached is returned by Detach when a unit has no image attached.
var ErrNotAttached = errors.New("drive: unit not attached")

// Geometry describes a unit's reported capacity, drawn from the drive-type
// layout table (SPEC_FULL.md §3) or computed from an attached image's size.
type Geometry struct {
	MediaID    uint32 // GET UNIT STATUS media type identifier.
	BlockCount uint32 // Total addressable blocks.
	RCTSize    uint32 // Replacement Control Table block count.
	RCTCopies  uint8
	IsTape     bool
}

// Drive is one MSCP/TMSCP unit: its lifecycle state, geometry, backing
// image, and the RCT/bad-block-replacement bookkeeping layered over it.
type Drive struct {
	mu sync.Mutex

	Number   uint16
	state    State
	online   bool // set by Online, cleared by Detach and Reset; Online's already-online answer comes from state
	geometry Geometry
	img      image.Image

	// replacement maps a logical block to its RCT-relocated replacement
	// block, populated by REPLACE (§4.2).
	replacement map[uint32]uint32
}

// New creates a unit in the Absent state.
func New(number uint16) *Drive {
	return &Drive{Number: number, state: Absent, replacement: make(map[uint32]uint32)}
}

// Attach binds a backing image and geometry, moving the unit to Available.
// Re-attaching an already-attached unit is rejected; Detach first.
func (d *Drive) Attach(img image.Image, geom Geometry) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != Absent {
		return errors.New("drive: already attached")
	}
	d.img = img
	d.geometry = geom
	d.state = Available
	d.tracef(TraceState, "attached, media=%#x blocks=%d", geom.MediaID, geom.BlockCount)
	return nil
}

// Detach removes the backing image, returning the unit to Absent. Any
// in-progress online session is torn down: a later ONLINE must rebuild
// unit state from scratch, so replacement and online-history state reset.
func (d *Drive) Detach() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Absent {
		return ErrNotAttached
	}
	if d.img != nil {
		_ = d.img.Close()
	}
	d.img = nil
	d.state = Absent
	d.online = false
	d.replacement = make(map[uint32]uint32)
	d.tracef(TraceState, "detached")
	return nil
}

// State returns the unit's current lifecycle state.
func (d *Drive) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Geometry returns the unit's reported geometry.
func (d *Drive) Geometry() Geometry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.geometry
}

// Image returns the unit's backing image, or nil if Absent. Console tools
// (command/reader) use this to parse/render the volume in place rather
// than reopening the backing file.
func (d *Drive) Image() image.Image {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.img
}

// Online transitions an Available unit to Online. already reports whether
// the unit was already Online (ONLINE's SubcodeAlreadyOnline case, §4.2);
// it is not an error to bring an already-Online unit online again.
func (d *Drive) Online() (already bool, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.state {
	case Absent:
		return false, ErrOffline
	case Online:
		return true, nil
	default:
		d.state = Online
		d.online = true
		d.tracef(TraceState, "online")
		return false, nil
	}
}

// Available demotes an Online unit back to Available without detaching its
// image, mirroring the AVAILABLE command (§4.2).
func (d *Drive) Available() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Absent {
		return ErrOffline
	}
	d.state = Available
	return nil
}

// Reset forces the unit offline and clears replacement/online-history
// state, matching TMSCP controller Reset semantics for every drive,
// disk or tape alike (§8 scenario 7): the image stays attached (a
// physical reset does not eject media) but the unit must be re-ONLINEd.
func (d *Drive) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Online {
		d.state = Available
	}
	d.online = false
	d.replacement = make(map[uint32]uint32)
	d.tracef(TraceState, "reset")
}

// resolve maps a logical block through the replacement table.
func (d *Drive) resolve(block uint32) uint32 {
	if r, ok := d.replacement[block]; ok {
		return r
	}
	return block
}

// ReadBlocks reads count blocks starting at lbn, replacement-resolved.
func (d *Drive) ReadBlocks(lbn uint32, count int) ([]byte, error) {
	d.mu.Lock()
	img := d.img
	online := d.state == Online
	d.mu.Unlock()
	if !online {
		return nil, ErrOffline
	}

	out := make([]byte, 0, count*BlockSize)
	for i := 0; i < count; i++ {
		phys := d.resolve(lbn + uint32(i))
		b, err := img.GetBytes(int64(phys)*BlockSize, BlockSize)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	d.tracef(TraceIO, "read lbn=%d count=%d", lbn, count)
	return out, nil
}

// WriteBlocks writes data (a multiple of BlockSize) starting at lbn,
// replacement-resolved.
func (d *Drive) WriteBlocks(lbn uint32, data []byte) error {
	d.mu.Lock()
	img := d.img
	online := d.state == Online
	d.mu.Unlock()
	if !online {
		return ErrOffline
	}
	if len(data)%BlockSize != 0 {
		return errors.New("drive: write not block-aligned")
	}

	count := len(data) / BlockSize
	for i := 0; i < count; i++ {
		phys := d.resolve(lbn + uint32(i))
		chunk := data[i*BlockSize : (i+1)*BlockSize]
		if err := img.SetBytes(int64(phys)*BlockSize, chunk); err != nil {
			return err
		}
	}
	d.tracef(TraceIO, "write lbn=%d count=%d", lbn, count)
	return nil
}

// Erase zero-fills count blocks starting at lbn, replacement-resolved.
func (d *Drive) Erase(lbn uint32, count int) error {
	d.mu.Lock()
	img := d.img
	online := d.state == Online
	d.mu.Unlock()
	if !online {
		return ErrOffline
	}
	for i := 0; i < count; i++ {
		phys := d.resolve(lbn + uint32(i))
		if err := img.SetZero(int64(phys)*BlockSize, BlockSize); err != nil {
			return err
		}
	}
	return nil
}

// Replace installs a replacement block mapping for a bad logical block,
// implementing the REPLACE command's RCT relocation (§4.2).
func (d *Drive) Replace(badBlock, replacementBlock uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.replacement[badBlock] = replacementBlock
}
