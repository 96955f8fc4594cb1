/*
 * mscp11 - RT-11 image renderer
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
	"github.com/rcornwell/mscp11/storage/image"
)

// nonInternalFiles returns fs.Files excluding the synthetic entries,
// i.e. the files the layout planner and directory writer place (§4.4).
func nonInternalFiles(fs *FileSystem) []*File {
	out := make([]*File, 0, len(fs.Files))
	for _, f := range fs.Files {
		if !f.Internal {
			out = append(out, f)
		}
	}
	return out
}

// Render produces a new block image bit-for-bit consistent with what a
// native RT-11 would read, given fs (§4.4). docSegDefault is the
// drive-type layout table's DirSegCount floor (§3); pass
// rt11.GenericLayout.DirSegCount when unknown.
func Render(fs *FileSystem, docSegDefault int) ([]byte, *Error) {
	vol := fs.Volume
	files := nonInternalFiles(fs)
	SortFilesForDirectory(files)

	avg := averageFileBlocks(files)
	available := vol.BlockCount - vol.FirstDirBlockNr
	segments, perr := PlanLayout(len(files), avg, docSegDefault, available)
	if perr != nil {
		return nil, perr
	}

	fileSpaceBlockNr := vol.FirstDirBlockNr + 2*segments
	cursor := fileSpaceBlockNr
	for _, f := range files {
		if f.Prefix != nil {
			prefixBlocks := (f.Prefix.Size + 2 + BlockSize - 1) / BlockSize
			f.BlockNr = cursor
			f.Prefix.BlockNr = cursor
			f.Prefix.ByteOffset = 2
			cursor += prefixBlocks
			f.Data.BlockNr = cursor
			dataBlocks := (f.Data.Size + BlockSize - 1) / BlockSize
			cursor += dataBlocks
			f.BlockCount = prefixBlocks + dataBlocks
			f.Status |= EPRE
		} else {
			f.BlockNr = cursor
			f.Data.BlockNr = cursor
			dataBlocks := (f.Data.Size + BlockSize - 1) / BlockSize
			cursor += dataBlocks
			f.BlockCount = dataBlocks
		}
		f.Status |= EPERM
		if f.ReadOnly {
			f.Status |= EPROT
		}
	}

	if cursor > vol.BlockCount {
		return nil, newError(Capacity, "filesystem overflow: files need %d blocks past file space start %d, volume has %d", cursor-fileSpaceBlockNr, fileSpaceBlockNr, vol.BlockCount)
	}

	vol.DirTotalSegNum = segments
	vol.FileSpaceBlockNr = fileSpaceBlockNr
	vol.UsedFileBlocks = cursor - fileSpaceBlockNr
	vol.FreeBlocks = vol.BlockCount - cursor

	buf := make([]byte, vol.BlockCount*BlockSize)

	home := renderHomeBlock(vol)
	copy(buf[homeBlockNr*BlockSize:], home)

	renderDirectory(buf, vol, files, segments)

	for _, f := range files {
		if f.Prefix != nil {
			off := f.Prefix.BlockNr * BlockSize
			prefixBlocks := (f.Prefix.Size + 2 + BlockSize - 1) / BlockSize
			buf[off] = byte(prefixBlocks)
			copy(buf[off+2:], f.Prefix.Data)
		}
		copy(buf[f.Data.BlockNr*BlockSize:], f.Data.Data)
	}

	renderInternalFiles(buf, fs)

	tracef(TraceRender, "rendered volume %q: %d segments, %d files, %d free blocks", vol.VolumeID, segments, len(files), vol.FreeBlocks)
	return buf, nil
}

// RenderToImage renders fs and writes the result into img in one shot.
func RenderToImage(fs *FileSystem, docSegDefault int, img image.Image) *Error {
	buf, perr := Render(fs, docSegDefault)
	if perr != nil {
		return perr
	}
	if err := img.SetBytes(0, buf); err != nil {
		return newError(Structural, "writing rendered image: %v", err)
	}
	return nil
}

func averageFileBlocks(files []*File) float64 {
	if len(files) == 0 {
		return 1
	}
	total := 0
	for _, f := range files {
		blocks := (f.Data.Size + BlockSize - 1) / BlockSize
		if f.Prefix != nil {
			blocks += (f.Prefix.Size + 2 + BlockSize - 1) / BlockSize
		}
		total += blocks
	}
	return float64(total) / float64(len(files))
}

// renderDirectory writes the segment chain per §4.4's directory writer.
// dir_max_seg_nr (hdrMaxSegment) is the highest segment actually holding an
// entry, distinct from dir_total_seg_num (segments, the forward-looking
// planned total): entries are placed by a running index across the whole
// chain, exactly as the original render_directory/render_directory_entry
// do, so the free-chain entry lands exactly once, in the slot immediately
// after the last real file, and dir_max_seg_nr/next terminate there. Any
// further pre-planned segments are left zeroed.
func renderDirectory(buf []byte, vol *Volume, files []*File, segments int) {
	extra := vol.DirEntryExtraBytes
	entrySize := entryFixedBytes + extra
	perSeg := segmentEntryCount(extra)

	total := len(files) + 1 // real files plus the mandatory free-chain entry
	usedSegments := (total + perSeg - 1) / perSeg
	if usedSegments < 1 {
		usedSegments = 1
	}
	if usedSegments > segments {
		usedSegments = segments
	}
	vol.DirMaxSegNr = usedSegments

	dataBlockCursor := vol.FirstDirBlockNr + 2*segments

	// writeHeader writes the 5-word segment header for segment s (the
	// original writes this only for a segment's first entry, de_nr==0).
	writeHeader := func(s int) []byte {
		segBlockNr := vol.FirstDirBlockNr + 2*s
		segBuf := buf[segBlockNr*BlockSize : segBlockNr*BlockSize+segBlocks*BlockSize]

		next := 0
		if s < usedSegments-1 {
			next = s + 2
		}
		putLE16(segBuf, hdrTotalSegments, uint16(segments))
		putLE16(segBuf, hdrNextSegment, uint16(next))
		putLE16(segBuf, hdrMaxSegment, uint16(usedSegments))
		putLE16(segBuf, hdrExtraBytes, uint16(extra))
		putLE16(segBuf, hdrDataStartBlk, uint16(dataBlockCursor))
		return segBuf
	}

	var segBuf []byte
	curSeg := -1

	for i, f := range files {
		s := i / perSeg
		de := i % perSeg
		if s != curSeg {
			segBuf = writeHeader(s)
			curSeg = s
		}

		off := segHeaderBytes + de*entrySize
		entry := segBuf[off : off+entrySize]

		putLE16(entry, entStatus, f.Status)
		words := EncodeRad50Name(f.Basename, f.Ext)
		putLE16(entry, entName0, words[0])
		putLE16(entry, entName1, words[1])
		putLE16(entry, entName2, words[2])
		putLE16(entry, entBlockCount, uint16(f.BlockCount))
		putLE16(entry, entJobChannel, 0)
		putLE16(entry, entDate, encodeDate(f.ModYear, f.ModMonth, f.ModDay))
		if extra > 0 && f.DirExt != nil {
			copy(entry[entryFixedBytes:], f.DirExt.Data)
		}

		dataBlockCursor += f.BlockCount

		// Terminating marker behind this entry: overwritten by the next
		// entry, and left standing if this is the last one in the segment.
		eeos := segBuf[off+entrySize : off+2*entrySize]
		putLE16(eeos, entStatus, EEOS)
	}

	// Free-chain entry, named per §4.4's " EMPTY.FIL" convention, occupies
	// the slot immediately after the last real file.
	s := len(files) / perSeg
	de := len(files) % perSeg
	if s != curSeg {
		segBuf = writeHeader(s)
	}

	off := segHeaderBytes + de*entrySize
	entry := segBuf[off : off+entrySize]
	putLE16(entry, entStatus, EMPTY)
	nameWords := EncodeRad50Name(" EMPTY", "FIL")
	putLE16(entry, entName0, nameWords[0])
	putLE16(entry, entName1, nameWords[1])
	putLE16(entry, entName2, nameWords[2])
	putLE16(entry, entBlockCount, uint16(vol.FreeBlocks))
	putLE16(entry, entJobChannel, 0)
	putLE16(entry, entDate, 0)

	eeos := segBuf[off+entrySize : off+2*entrySize]
	putLE16(eeos, entStatus, EEOS)
}

// renderInternalFiles writes $BOOT.BLK and $MONITOR.TOR into their fixed
// blocks if the caller supplied content for them; otherwise those areas
// stay zero (§4.4). $VOLUM.INF is never rendered to the image.
func renderInternalFiles(buf []byte, fs *FileSystem) {
	for _, f := range fs.Files {
		if !f.Internal {
			continue
		}
		switch f.Name() {
		case BootFileName:
			copy(buf[0:], f.Data.Data)
		case MonitorFileName:
			copy(buf[MonitorStartBlock*BlockSize:], f.Data.Data)
		}
	}
}
