/*
 * mscp11 - Command parameter layouts
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

import "encoding/binary"

// Parameter-area byte offsets for the transfer commands (READ, WRITE,
// ERASE, ACCESS, COMPARE HOST DATA, REPLACE): a byte count, a host DMA
// address, and the logical block number (§4.2 transfer validation).
const (
	offByteCount  = 0
	offBufferAddr = 4
	offLBN        = 8

	transferParamSize = 12
)

func getByteCount(p []byte) uint32  { return binary.LittleEndian.Uint32(p[offByteCount:]) }
func getBufferAddr(p []byte) uint32 { return binary.LittleEndian.Uint32(p[offBufferAddr:]) }
func getLBN(p []byte) uint32        { return binary.LittleEndian.Uint32(p[offLBN:]) }

// getLBNAt reads a little-endian u32 block number at an arbitrary offset,
// used by REPLACE's bad/replacement block pair.
func getLBNAt(p []byte, off int) uint32 { return binary.LittleEndian.Uint32(p[off:]) }

// REPLACE carries the bad and replacement block numbers in place of
// ByteCount/BufferAddr.
const (
	offBadBlock         = 0
	offReplacementBlock = 4
)

// GET UNIT STATUS / SET UNIT CHARACTERISTICS response layout.
const (
	offUnitFlags = 0
	offRBNs      = 4
	offMediaID   = 8
	offUnitSize  = 12

	unitStatusParamSize = 16
)

func putUnitStatus(p []byte, flags uint16, rbns, mediaID, unitSize uint32) {
	binary.LittleEndian.PutUint16(p[offUnitFlags:], flags)
	binary.LittleEndian.PutUint32(p[offRBNs:], rbns)
	binary.LittleEndian.PutUint32(p[offMediaID:], mediaID)
	binary.LittleEndian.PutUint32(p[offUnitSize:], unitSize)
}

// SET CONTROLLER CHARACTERISTICS request layout: version word, controller
// flags, host timeout — carried in the parameter area rather than the
// header's Modifiers field, per classic MSCP practice.
const (
	offMSCPVersion    = 0
	offControllerFlag = 2
	offHostTimeout    = 4

	setControllerParamSize = 6
)

func getMSCPVersion(p []byte) uint16    { return binary.LittleEndian.Uint16(p[offMSCPVersion:]) }
func getControllerFlags(p []byte) uint16 { return binary.LittleEndian.Uint16(p[offControllerFlag:]) }
func getHostTimeout(p []byte) uint16    { return binary.LittleEndian.Uint16(p[offHostTimeout:]) }

// SET CONTROLLER CHARACTERISTICS response layout: 8-byte controller ID,
// class/model word, controller timeout (the handler always sends 0xFF).
const (
	offControllerID = 0
	offClassModel   = 8
	offRespTimeout  = 10

	controllerStatusParamSize = 12
)

func putControllerStatus(p []byte, id [8]byte, classModel, timeout uint16) {
	copy(p[offControllerID:], id[:])
	binary.LittleEndian.PutUint16(p[offClassModel:], classModel)
	binary.LittleEndian.PutUint16(p[offRespTimeout:], timeout)
}

// GET COMMAND STATUS response layout.
const (
	offOutstandingRef = 0
	offCommandStatus  = 4

	commandStatusParamSize = 8
)

func putCommandStatus(p []byte, ref uint32, status uint32) {
	binary.LittleEndian.PutUint32(p[offOutstandingRef:], ref)
	binary.LittleEndian.PutUint32(p[offCommandStatus:], status)
}

// ReadOnlySectorFlag is the controller-flags bit classic MSCP controllers
// reserve to describe 576-byte sectors; this controller never operates in
// that mode, so SET CONTROLLER CHARACTERISTICS always masks it out of the
// latched flags (§4.2).
const ReadOnlySectorFlag uint16 = 0x0010

// NextUnitModifier marks a GET UNIT STATUS request as a "next unit" sweep
// rather than a query of a specific unit.
const NextUnitModifier uint16 = 0x0001
