/*
 * mscp11 - Disk (MSCP) controller variant
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

// DiskClassModel is the class/model word an MSCP disk controller reports
// in SET CONTROLLER CHARACTERISTICS / GET UNIT STATUS.
const DiskClassModel uint16 = 0x0101

// Disk is the MSCP disk controller variant of Base: it adds REPLACE to the
// shared opcode table (§4.2).
type Disk struct {
	*Base
}

// NewDisk builds an MSCP disk server over p, identified by controllerID.
func NewDisk(p port.Port, controllerID [8]byte) *Disk {
	dispatch := coreHandlers()
	dispatch[mscp.OpReplace] = handleReplace
	return &Disk{Base: newBase(p, DiskClassModel, controllerID, dispatch)}
}

// handleReplace validates the unit and reports success without performing
// real sector sparing (§4.2): the RCT bookkeeping is exercised by
// drive.Drive.Replace directly in tests, but the wire command itself is a
// validate-only acknowledgement, matching the original's behaviour.
func handleReplace(_ *Base, d *drive.Drive, msg *mscp.Message) (uint8, uint16, uint8) {
	if d == nil || d.State() == drive.Absent {
		return mscp.StatusUnitOffline, mscp.SubcodeUnitUnknown, 0
	}
	if d.State() == drive.Available {
		return mscp.StatusUnitAvailable, mscp.SubcodeNormal, 0
	}

	params := msg.Parameters()
	if len(params) < offReplacementBlock+4 {
		return mscp.StatusInvalidCommand, uint16(len(params)) + mscp.HeaderOffset, 0
	}

	bad := getLBNAt(params, offBadBlock)
	replacement := getLBNAt(params, offReplacementBlock)
	geom := d.Geometry()
	if bad >= geom.BlockCount+geom.RCTSize {
		return mscp.StatusInvalidCommand, offBadBlock + mscp.HeaderOffset, 0
	}

	d.Replace(bad, replacement)
	return mscp.StatusSuccess, mscp.SubcodeNone, 0
}
