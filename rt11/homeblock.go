/*
 * mscp11 - RT-11 home block codec
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

package rt11

import (
	"encoding/binary"
	"log/slog"
	"strings"
)

// Home block field offsets, fixed octal positions per §4.3 step 2 / §4.4.
const (
	homeBlockNr = 1

	offBadBlockTable  = 0
	offReserved700    = 0o700
	offPackClusterSz  = 0o722
	offFirstDirBlock  = 0o724
	offSystemVersion  = 0o726
	offVolumeID       = 0o730
	offOwnerName      = 0o744
	offSystemID       = 0o760
	offChecksum       = 0o776

	asciiFieldLen = 12
)

func le16(b []byte, off int) uint16          { return binary.LittleEndian.Uint16(b[off:]) }
func putLE16(b []byte, off int, v uint16)    { binary.LittleEndian.PutUint16(b[off:], v) }

func readASCIIField(b []byte, off, n int) string {
	return strings.TrimRight(string(b[off:off+n]), " \x00")
}

func writeASCIIField(b []byte, off, n int, s string) {
	field := make([]byte, n)
	for i := range field {
		field[i] = ' '
	}
	copy(field, s)
	copy(b[off:off+n], field)
}

// parseHomeBlock reads the home block fields per §4.3 step 2. Checksum
// mismatch is tolerated: logged at slog.Warn, never an error (§7).
func parseHomeBlock(block []byte, vol *Volume) *Error {
	vol.PackClusterSize = le16(block, offPackClusterSz)

	firstDirBlock := int(le16(block, offFirstDirBlock))
	if firstDirBlock != 6 {
		return newError(Structural, "first directory block is %d, must be 6", firstDirBlock)
	}
	vol.FirstDirBlockNr = firstDirBlock

	vol.SystemVersion = strings.TrimRight(DecodeRad50(le16(block, offSystemVersion)), " ")
	vol.VolumeID = readASCIIField(block, offVolumeID, asciiFieldLen)
	vol.OwnerName = readASCIIField(block, offOwnerName, asciiFieldLen)
	vol.SystemID = readASCIIField(block, offSystemID, asciiFieldLen)
	vol.HomeblockChecksum = le16(block, offChecksum)

	computed := homeBlockChecksum(block)
	if computed != vol.HomeblockChecksum {
		slog.Warn("rt11: home block checksum mismatch, tolerated", "stored", vol.HomeblockChecksum, "computed", computed)
	}

	return nil
}

// homeBlockChecksum is the unsigned 16-bit sum of the first 254 words of
// the home block (§3, §4.4).
func homeBlockChecksum(block []byte) uint16 {
	var sum uint16
	for i := 0; i < 254; i++ {
		sum += le16(block, i*2)
	}
	return sum
}

// renderHomeBlock writes a fresh home block per §4.4's home block writer.
func renderHomeBlock(vol *Volume) []byte {
	block := make([]byte, BlockSize)

	putLE16(block, offBadBlockTable, 0)
	putLE16(block, offBadBlockTable+2, 0o170000)
	putLE16(block, offBadBlockTable+4, 0o007777)
	putLE16(block, offReserved700, 0o177777)

	putLE16(block, offPackClusterSz, vol.PackClusterSize)
	putLE16(block, offFirstDirBlock, uint16(vol.FirstDirBlockNr))
	putLE16(block, offSystemVersion, EncodeRad50(vol.SystemVersion))
	writeASCIIField(block, offVolumeID, asciiFieldLen, vol.VolumeID)
	writeASCIIField(block, offOwnerName, asciiFieldLen, vol.OwnerName)
	writeASCIIField(block, offSystemID, asciiFieldLen, vol.SystemID)

	checksum := homeBlockChecksum(block)
	putLE16(block, offChecksum, checksum)
	vol.HomeblockChecksum = checksum

	return block
}
