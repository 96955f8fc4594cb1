/*
 * mscp11 - MSCP/TMSCP core command handlers
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
	"bytes"

	"github.com/rcornwell/mscp11/mscp"
	"github.com/rcornwell/mscp11/mscp/drive"
)

// coreHandlers is the opcode table shared verbatim by the disk and tape
// variants (§4.2's MSCP core subset, plus REPLACE/tape opcodes added by
// the caller).
func coreHandlers() map[uint8]handlerFunc {
	return map[uint8]handlerFunc{
		mscp.OpAbort:                handleAbort,
		mscp.OpAccess:                handleAccess,
		mscp.OpAvailable:             handleAvailable,
		mscp.OpCompareHostData:       handleCompareHostData,
		mscp.OpDetermineAccessPaths:  handleDetermineAccessPaths,
		mscp.OpErase:                 handleErase,
		mscp.OpGetCommandStatus:      handleGetCommandStatus,
		mscp.OpGetUnitStatus:         handleGetUnitStatus,
		mscp.OpOnline:                handleOnline,
		mscp.OpRead:                  handleRead,
		mscp.OpSetControllerChar:     handleSetControllerChar,
		mscp.OpSetUnitChar:           handleSetUnitChar,
		mscp.OpWrite:                 handleWrite,
	}
}

func handleAbort(_ *Base, _ *drive.Drive, _ *mscp.Message) (uint8, uint16, uint8) {
	return mscp.StatusSuccess, mscp.SubcodeNone, 0
}

// unitUnknown reports the status/subcode pair for a command that found no
// matching drive.
func unitUnknown() (uint8, uint16) {
	return mscp.StatusUnitOffline, mscp.SubcodeUnitUnknown
}

// validateTransfer implements §4.2's "Transfer validation, common to
// R/W/E/A/C": it resolves whether the access targets the data area or the
// RCT, checks bounds, and reports the correct INVALID_COMMAND subcode
// (the byte offset of the offending field) on violation.
func validateTransfer(d *drive.Drive, msg *mscp.Message, requireExactBlock bool) (rctAccess bool, rctBlock uint32, ok bool, status uint8, subcode uint16) {
	if d == nil {
		status, subcode = unitUnknown()
		return false, 0, false, status, subcode
	}
	switch d.State() {
	case drive.Absent:
		return false, 0, false, mscp.StatusUnitOffline, mscp.SubcodeUnitUnknown
	case drive.Available:
		return false, 0, false, mscp.StatusUnitAvailable, mscp.SubcodeNormal
	}

	geom := d.Geometry()
	params := msg.Parameters()
	if len(params) < transferParamSize {
		return false, 0, false, mscp.StatusInvalidCommand, uint16(len(params)) + mscp.HeaderOffset
	}

	lbn := getLBN(params)
	byteCount := getByteCount(params)

	rctAccess = lbn >= geom.BlockCount
	if rctAccess {
		rctBlock = lbn - geom.BlockCount
	}

	if lbn >= geom.BlockCount+geom.RCTSize {
		return rctAccess, rctBlock, false, mscp.StatusInvalidCommand, offLBN + mscp.HeaderOffset
	}

	if rctAccess {
		if requireExactBlock && byteCount != drive.BlockSize {
			return rctAccess, rctBlock, false, mscp.StatusInvalidCommand, offByteCount + mscp.HeaderOffset
		}
	} else {
		remainingBlocks := geom.BlockCount - lbn
		if uint64(byteCount) > uint64(remainingBlocks)*drive.BlockSize {
			return rctAccess, rctBlock, false, mscp.StatusInvalidCommand, offByteCount + mscp.HeaderOffset
		}
	}

	return rctAccess, rctBlock, true, mscp.StatusSuccess, mscp.SubcodeNone
}

func handleAccess(_ *Base, d *drive.Drive, msg *mscp.Message) (uint8, uint16, uint8) {
	_, _, ok, status, subcode := validateTransfer(d, msg, true)
	if !ok {
		return status, subcode, 0
	}
	return mscp.StatusSuccess, mscp.SubcodeNone, 0
}

func handleAvailable(_ *Base, d *drive.Drive, _ *mscp.Message) (uint8, uint16, uint8) {
	if d == nil || d.State() == drive.Absent {
		return mscp.StatusUnitOffline, mscp.SubcodeUnitUnknown, 0
	}
	_ = d.Available()
	return mscp.StatusSuccess, mscp.SubcodeNone, mscp.FlagStillConnected
}

func handleCompareHostData(b *Base, d *drive.Drive, msg *mscp.Message) (uint8, uint16, uint8) {
	_, rctBlock, ok, status, subcode := validateTransfer(d, msg, true)
	if !ok {
		return status, subcode, 0
	}

	params := msg.Parameters()
	byteCount := getByteCount(params)
	lbn := getLBN(params)
	addr := getBufferAddr(params)

	var imgBytes []byte
	var err error
	if lbn >= d.Geometry().BlockCount {
		imgBytes, err = d.ReadBlocks(rctBlock, 1)
	} else {
		blocks := int((uint64(byteCount) + drive.BlockSize - 1) / drive.BlockSize)
		imgBytes, err = d.ReadBlocks(lbn, blocks)
	}
	if err != nil {
		return mscp.StatusUnitOffline, mscp.SubcodeUnitUnknown, 0
	}
	imgBytes = imgBytes[:byteCount]

	hostBytes, err := b.port.DMARead(addr, int(byteCount))
	if err != nil {
		return mscp.StatusHostBufferAccessError, mscp.SubcodeNXM, 0
	}

	// Corrected semantics (§9 Open Question (a)): mismatch is an error,
	// equality is success — never the inverted fallthrough of the
	// original.
	if !bytes.Equal(imgBytes, hostBytes) {
		return mscp.StatusCompareError, mscp.SubcodeNone, 0
	}
	return mscp.StatusSuccess, mscp.SubcodeNone, 0
}

func handleDetermineAccessPaths(_ *Base, d *drive.Drive, _ *mscp.Message) (uint8, uint16, uint8) {
	if d == nil || d.State() == drive.Absent {
		return mscp.StatusUnitOffline, mscp.SubcodeUnitUnknown, 0
	}
	return mscp.StatusSuccess, mscp.SubcodeNone, 0
}

func handleErase(_ *Base, d *drive.Drive, msg *mscp.Message) (uint8, uint16, uint8) {
	rctAccess, rctBlock, ok, status, subcode := validateTransfer(d, msg, true)
	if !ok {
		return status, subcode, 0
	}
	params := msg.Parameters()
	lbn := getLBN(params)
	byteCount := getByteCount(params)
	blocks := int((uint64(byteCount) + drive.BlockSize - 1) / drive.BlockSize)

	target := lbn
	if rctAccess {
		target = rctBlock
	}
	if err := d.Erase(target, blocks); err != nil {
		return mscp.StatusUnitOffline, mscp.SubcodeUnitUnknown, 0
	}
	return mscp.StatusSuccess, mscp.SubcodeNone, 0
}

func handleGetCommandStatus(_ *Base, _ *drive.Drive, msg *mscp.Message) (uint8, uint16, uint8) {
	msg.SetParameters(make([]byte, commandStatusParamSize))
	putCommandStatus(msg.Parameters(), 0, 0)
	return mscp.StatusSuccess, mscp.SubcodeNone, 0
}

func handleGetUnitStatus(b *Base, d *drive.Drive, msg *mscp.Message) (uint8, uint16, uint8) {
	if msg.Modifiers()&NextUnitModifier != 0 {
		// Preserved simplification (§9 Open Question (b)): an
		// out-of-range "next unit" sweep coerces to unit 0 rather than
		// walking the real unit list.
		unit := msg.UnitNumber() + 1
		if int(unit) >= len(b.port.Drives()) {
			unit = 0
		}
		msg.SetUnitNumber(unit)
		d = b.findDrive(unit)
	}

	msg.SetParameters(make([]byte, unitStatusParamSize))
	if d == nil || d.State() == drive.Absent {
		return mscp.StatusUnitOffline, mscp.SubcodeUnitUnknown, 0
	}

	geom := d.Geometry()
	putUnitStatus(msg.Parameters(), 0, geom.RCTSize, geom.MediaID, geom.BlockCount)

	if d.State() == drive.Online {
		return mscp.StatusSuccess, mscp.SubcodeNone, 0
	}
	return mscp.StatusUnitAvailable, mscp.SubcodeNormal, 0
}

func handleOnline(_ *Base, d *drive.Drive, msg *mscp.Message) (uint8, uint16, uint8) {
	if d == nil || d.State() == drive.Absent {
		return mscp.StatusUnitOffline, mscp.SubcodeUnitUnknown, 0
	}

	status, subcode, flags := setUnitChar(d, msg)
	if status != mscp.StatusSuccess {
		return status, subcode, flags
	}

	already, err := d.Online()
	if err != nil {
		return mscp.StatusUnitOffline, mscp.SubcodeUnitUnknown, 0
	}
	if already {
		return mscp.StatusSuccess, mscp.SubcodeAlreadyOnline, flags
	}
	return mscp.StatusSuccess, mscp.SubcodeNormal, flags
}

func handleRead(b *Base, d *drive.Drive, msg *mscp.Message) (uint8, uint16, uint8) {
	rctAccess, rctBlock, ok, status, subcode := validateTransfer(d, msg, true)
	if !ok {
		return status, subcode, 0
	}

	params := msg.Parameters()
	lbn := getLBN(params)
	byteCount := getByteCount(params)
	addr := getBufferAddr(params)

	blocks := int((uint64(byteCount) + drive.BlockSize - 1) / drive.BlockSize)
	target := lbn
	if rctAccess {
		target = rctBlock
	}

	data, err := d.ReadBlocks(target, blocks)
	if err != nil {
		return mscp.StatusUnitOffline, mscp.SubcodeUnitUnknown, 0
	}
	data = data[:byteCount]

	if err := b.port.DMAWrite(addr, data); err != nil {
		return mscp.StatusHostBufferAccessError, mscp.SubcodeNXM, 0
	}
	return mscp.StatusSuccess, mscp.SubcodeNone, 0
}

func handleSetControllerChar(b *Base, _ *drive.Drive, msg *mscp.Message) (uint8, uint16, uint8) {
	params := msg.Parameters()
	if len(params) < setControllerParamSize {
		return mscp.StatusInvalidCommand, uint16(len(params)), 0
	}
	if getMSCPVersion(params) != 0 {
		return mscp.StatusInvalidCommand, offMSCPVersion, 0
	}

	b.mu.Lock()
	b.hostTimeout = getHostTimeout(params)
	b.controllerFlags = getControllerFlags(params) &^ ReadOnlySectorFlag
	classModel, id := b.classModel, b.controllerID
	b.mu.Unlock()

	msg.SetParameters(make([]byte, controllerStatusParamSize))
	putControllerStatus(msg.Parameters(), id, classModel, 0xFF)
	return mscp.StatusSuccess, mscp.SubcodeNone, 0
}

func setUnitChar(d *drive.Drive, msg *mscp.Message) (uint8, uint16, uint8) {
	msg.SetParameters(make([]byte, unitStatusParamSize))
	geom := d.Geometry()
	putUnitStatus(msg.Parameters(), 0, geom.RCTSize, geom.MediaID, geom.BlockCount)
	return mscp.StatusSuccess, mscp.SubcodeNone, 0
}

func handleSetUnitChar(_ *Base, d *drive.Drive, msg *mscp.Message) (uint8, uint16, uint8) {
	if d == nil || d.State() == drive.Absent {
		return mscp.StatusUnitOffline, mscp.SubcodeUnitUnknown, 0
	}
	return setUnitChar(d, msg)
}

func handleWrite(b *Base, d *drive.Drive, msg *mscp.Message) (uint8, uint16, uint8) {
	rctAccess, rctBlock, ok, status, subcode := validateTransfer(d, msg, true)
	if !ok {
		return status, subcode, 0
	}

	params := msg.Parameters()
	lbn := getLBN(params)
	byteCount := getByteCount(params)
	addr := getBufferAddr(params)

	data, err := b.port.DMARead(addr, int(byteCount))
	if err != nil {
		return mscp.StatusHostBufferAccessError, mscp.SubcodeNXM, 0
	}

	blocks := int((uint64(byteCount) + drive.BlockSize - 1) / drive.BlockSize)
	padded := make([]byte, blocks*drive.BlockSize)
	copy(padded, data)

	target := lbn
	if rctAccess {
		target = rctBlock
	}
	if err := d.WriteBlocks(target, padded); err != nil {
		return mscp.StatusUnitOffline, mscp.SubcodeUnitUnknown, 0
	}
	return mscp.StatusSuccess, mscp.SubcodeNone, 0
}
