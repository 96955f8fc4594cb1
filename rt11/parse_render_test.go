/*
 * mscp11 - RT-11 parse/render round-trip tests
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcornwell/mscp11/storage/image"
)

// newBlankVolume builds a minimal, valid empty volume of n blocks, ready
// to be rendered.
func newBlankVolume(n int) *FileSystem {
	return &FileSystem{
		Volume: &Volume{
			BlockCount:      n,
			FirstDirBlockNr: 6,
			VolumeID:        "TESTVOL",
			OwnerName:       "TESTER",
			SystemID:        "DECRT11A",
			SystemVersion:   "V05",
			Dirty:           NewBoolArray(n),
		},
	}
}

func addTestFile(fs *FileSystem, basename, ext string, data []byte) {
	fs.Files = append(fs.Files, &File{
		Basename: basename, Ext: ext,
		ModYear: 85, ModMonth: 5, ModDay: 12,
		Data: &Stream{Size: len(data), Data: data},
	})
}

func TestRenderThenParseRoundTrip(t *testing.T) {
	fs := newBlankVolume(200)
	addTestFile(fs, "HELLO", "TXT", []byte("hello, rt-11"))
	addTestFile(fs, "DATA", "DAT", make([]byte, 1200))

	buf, perr := Render(fs, GenericLayout.DirSegCount)
	require.Nil(t, perr)
	require.Len(t, buf, 200*BlockSize)

	img := image.NewMemImage(int64(len(buf)))
	require.NoError(t, img.SetBytes(0, buf))

	parsed, perr2 := Parse(img)
	require.Nil(t, perr2)

	var names []string
	for _, f := range parsed.Files {
		if !f.Internal {
			names = append(names, f.Name())
		}
	}
	assert.ElementsMatch(t, []string{"HELLO.TXT", "DATA.DAT"}, names)

	for _, f := range parsed.Files {
		switch f.Name() {
		case "HELLO.TXT":
			assert.Equal(t, []byte("hello, rt-11"), f.Data.Data[:len("hello, rt-11")])
		case "DATA.DAT":
			assert.Equal(t, 1200, len(f.Data.Data[:1200]))
		}
	}
}

func TestRenderOverflowReportsCapacityError(t *testing.T) {
	fs := newBlankVolume(10)
	addTestFile(fs, "BIG", "DAT", make([]byte, 100*BlockSize))

	_, perr := Render(fs, GenericLayout.DirSegCount)
	require.NotNil(t, perr)
	assert.Equal(t, Capacity, perr.Kind)
}

// TestRenderPlannedSegmentsBeyondMaxSegNrStayEmpty covers §4.4 Scenario 8:
// a freshly initialised RX02-style volume plans 2 directory segments
// (DocumentedLayouts["RX02"].DirSegCount) but has zero files, so only
// segment 1 actually holds an entry (the free-chain marker). dir_max_seg_nr
// must report 1, not the planned total of 2, and FreeBlocks must survive a
// round trip unchanged instead of being counted once per planned segment.
func TestRenderPlannedSegmentsBeyondMaxSegNrStayEmpty(t *testing.T) {
	rx02 := DocumentedLayouts["RX02"]
	fs := newBlankVolume(rx02.BlockCount)

	buf, perr := Render(fs, rx02.DirSegCount)
	require.Nil(t, perr)
	require.Equal(t, 2, fs.Volume.DirTotalSegNum)
	wantFree := fs.Volume.FreeBlocks

	require.Equal(t, 1, fs.Volume.DirMaxSegNr)

	// Segment 1's header terminates the chain immediately.
	seg1 := buf[fs.Volume.FirstDirBlockNr*BlockSize:]
	assert.Equal(t, uint16(0), le16(seg1, hdrNextSegment))
	assert.Equal(t, uint16(1), le16(seg1, hdrMaxSegment))

	// Segment 2 was planned but never touched.
	seg2Block := fs.Volume.FirstDirBlockNr + 2
	seg2 := buf[seg2Block*BlockSize : seg2Block*BlockSize+segBlocks*BlockSize]
	assert.Equal(t, make([]byte, segBlocks*BlockSize), seg2)

	img := image.NewMemImage(int64(len(buf)))
	require.NoError(t, img.SetBytes(0, buf))
	parsed, perr2 := Parse(img)
	require.Nil(t, perr2)

	assert.Equal(t, 1, parsed.Volume.DirMaxSegNr)
	assert.Equal(t, wantFree, parsed.Volume.FreeBlocks)
}

func TestSortFilesForDirectoryPrioritisesSystemFiles(t *testing.T) {
	fs := newBlankVolume(500)
	addTestFile(fs, "USER", "DAT", []byte("x"))
	addTestFile(fs, "DUP", "SAV", []byte("x"))
	addTestFile(fs, "RT11XM", "SYS", []byte("x"))

	files := nonInternalFiles(fs)
	SortFilesForDirectory(files)

	assert.Equal(t, "RT11XM.SYS", files[0].Name())
	assert.Equal(t, "DUP.SAV", files[1].Name())
	assert.Equal(t, "USER.DAT", files[2].Name())
}
