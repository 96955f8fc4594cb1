/*
 * mscp11 - RT-11 directory segment codec
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

// Directory segment header layout: 5 words (§4.3 step 3, §4.4).
const (
	segHeaderWords = 5
	segHeaderBytes = segHeaderWords * 2
	segBlocks      = 2

	hdrTotalSegments = 0
	hdrNextSegment   = 2
	hdrMaxSegment    = 4
	hdrExtraBytes    = 6
	hdrDataStartBlk  = 8
)

// Directory entry fixed layout: status, 3 RAD50 words, block count,
// job/channel, date — 14 bytes plus dir_entry_extra_bytes (§4.3 step 3).
const (
	entryFixedBytes = 14

	entStatus     = 0
	entName0      = 2
	entName1      = 4
	entName2      = 6
	entBlockCount = 8
	entJobChannel = 10
	entDate       = 12
)

// encodeDate packs a modification date per §6:
// (year-72) | (day<<5) | (month+1)<<10 | (age<<14).
func encodeDate(year, month, day int) uint16 {
	y := year - 72
	if y < 0 {
		y = 0
	}
	return uint16(y&0x1F) | uint16(day&0x1F)<<5 | uint16((month+1)&0xF)<<10
}

// decodeDate unpacks a directory entry date word.
func decodeDate(word uint16) (year, month, day int) {
	year = int(word&0x1F) + 72
	day = int((word >> 5) & 0x1F)
	month = int((word>>10)&0xF) - 1
	return year, month, day
}

// segmentEntryCount returns how many entry slots the directory writer fills
// per segment with the given dir_entry_extra_bytes: the EntriesPerSegment
// limit, which holds back room for the free-chain entry and the
// end-of-segment marker (§8 invariant 6).
func segmentEntryCount(extra int) int {
	return EntriesPerSegment(extra)
}
