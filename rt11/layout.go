/*
 * mscp11 - RT-11 drive-type layout table and layout planner
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

// LayoutInfo documents the default geometry the original RT-11 toolchain
// assumes for a given media type, supplemented from
// original_source/.../filesystem_rt11.cpp's get_documented_layout_info
// table (§3, §4.4).
type LayoutInfo struct {
	Name                string
	BlockCount          int
	DirSegCount         int
	ReplacableBadBlocks int
}

// DocumentedLayouts is keyed by the classic media-type name. GenericLayout
// is returned by LookupLayout for anything not in this table.
var DocumentedLayouts = map[string]LayoutInfo{
	"RX01": {Name: "RX01", BlockCount: 494, DirSegCount: 1, ReplacableBadBlocks: 0},
	"RX02": {Name: "RX02", BlockCount: 988, DirSegCount: 2, ReplacableBadBlocks: 0},
	"RL01": {Name: "RL01", BlockCount: 5204, DirSegCount: 16, ReplacableBadBlocks: 0},
	"RL02": {Name: "RL02", BlockCount: 10400, DirSegCount: 31, ReplacableBadBlocks: 0},
	"RK05": {Name: "RK05", BlockCount: 4800, DirSegCount: 16, ReplacableBadBlocks: 0},
}

// GenericLayout is the fallback for media types absent from
// DocumentedLayouts: a conservative single-segment default.
var GenericLayout = LayoutInfo{Name: "GENERIC", BlockCount: 0, DirSegCount: 1, ReplacableBadBlocks: 0}

// LookupLayout returns the documented layout for name, or GenericLayout
// (with BlockCount overridden to blockCount) if name is unrecognised.
func LookupLayout(name string, blockCount int) LayoutInfo {
	if l, ok := DocumentedLayouts[name]; ok {
		return l
	}
	g := GenericLayout
	g.BlockCount = blockCount
	return g
}

// MaxDirSegments is the highest legal RT-11 directory segment number
// (§4.4's "without exceeding 31 segments").
const MaxDirSegments = 31

// PlanLayout computes dir_total_seg_num for a volume given its current
// file set, following §4.4's layout planner: cover existing files plus a
// 1.5x-average-file forward-looking allowance, clamped to at least the
// drive type's documented default, never exceeding MaxDirSegments.
func PlanLayout(existingFiles int, avgFileBlocks float64, docDefault int, availableBlocks int) (segments int, err *Error) {
	entriesPerSeg := EntriesPerSegment(0)

	filesToCover := existingFiles + int(1.5*float64(existingFiles))
	if existingFiles == 0 {
		filesToCover = docDefault * entriesPerSeg
	}

	segments = (filesToCover + entriesPerSeg - 1) / entriesPerSeg
	if segments < docDefault {
		segments = docDefault
	}
	if segments > MaxDirSegments {
		segments = MaxDirSegments
	}
	if segments < 1 {
		segments = 1
	}

	usedFileBlocks := int(float64(existingFiles) * avgFileBlocks)
	if usedFileBlocks+2*segments > availableBlocks {
		return 0, newError(Capacity, "filesystem overflow: %d file blocks + %d directory blocks exceeds %d available", usedFileBlocks, 2*segments, availableBlocks)
	}

	return segments, nil
}

// EntriesPerSegment is the maximum count of regular entries a directory
// segment can hold with extra dir-entry-extra-bytes, per §8 invariant 6:
// (2*512-10)/(14+extra) - 3 (reserving room for the free-chain entry and
// the terminating EEOS word).
func EntriesPerSegment(extra int) int {
	n := (2*512 - 10) / (14 + extra)
	n -= 3
	if n < 1 {
		n = 1
	}
	return n
}
