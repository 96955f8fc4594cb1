/*
 * mscp11 - RT-11 image parser
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

// Parse reads img as an RT-11 volume, following §4.3's steps in order.
// Any structural problem returns a *Error and discards partial state; the
// caller gets either a fully consistent FileSystem or nothing.
func Parse(img image.Image) (*FileSystem, *Error) {
	size := img.Size()
	if size%BlockSize != 0 {
		return nil, newError(Structural, "image size %d is not a multiple of %d", size, BlockSize)
	}
	blockCount := int(size / BlockSize)

	fs := &FileSystem{Volume: &Volume{BlockCount: blockCount, Dirty: NewBoolArray(blockCount)}}

	// Step 1: synthetic files.
	bootData, err := img.GetBytes(0, BootBlockCount*BlockSize)
	if err != nil {
		return nil, newError(Structural, "reading boot block: %v", err)
	}
	monitorData, err := img.GetBytes(MonitorStartBlock*BlockSize, MonitorBlockCount*BlockSize)
	if err != nil {
		return nil, newError(Structural, "reading monitor blocks: %v", err)
	}
	fs.Files = append(fs.Files,
		&File{Basename: "$BOOT", Ext: "BLK", Internal: true, ReadOnly: true,
			BlockNr: 0, BlockCount: BootBlockCount,
			Data: &Stream{BlockNr: 0, Size: BootBlockCount * BlockSize, Data: bootData}},
		&File{Basename: "$MONITOR", Ext: "TOR", Internal: true, ReadOnly: true,
			BlockNr: MonitorStartBlock, BlockCount: MonitorBlockCount,
			Data: &Stream{BlockNr: MonitorStartBlock, Size: MonitorBlockCount * BlockSize, Data: monitorData}},
	)

	// Step 2: home block.
	homeRaw, err := img.GetBytes(homeBlockNr*BlockSize, BlockSize)
	if err != nil {
		return nil, newError(Structural, "reading home block: %v", err)
	}
	if perr := parseHomeBlock(homeRaw, fs.Volume); perr != nil {
		return nil, perr
	}

	// Step 3: directory segments.
	if perr := parseDirectory(img, fs); perr != nil {
		return nil, perr
	}

	// Step 4: file data and prefix streams.
	if perr := parseFileStreams(img, fs); perr != nil {
		return nil, perr
	}

	// Step 5: change flags.
	markChangeFlags(fs)

	// Step 6: volume info file.
	fs.Files = append(fs.Files, buildVolumeInfoFile(fs))

	tracef(TraceParse, "parsed volume %q: %d blocks, %d files", fs.Volume.VolumeID, blockCount, len(fs.Files)-1)
	return fs, nil
}

// parseDirectory walks the linked directory segments starting at block 6
// (§4.3 step 3).
func parseDirectory(img image.Image, fs *FileSystem) *Error {
	vol := fs.Volume
	seg := vol.FirstDirBlockNr
	maxExtra := 0
	segNum := 0

	for seg != 0 {
		segNum++
		if segNum > MaxDirSegments {
			return newError(Structural, "directory segment chain exceeds %d segments", MaxDirSegments)
		}

		raw, err := img.GetBytes(int64(seg)*BlockSize, segBlocks*BlockSize)
		if err != nil {
			return newError(Structural, "reading directory segment at block %d: %v", seg, err)
		}

		totalSegments := int(le16(raw, hdrTotalSegments))
		nextSegment := int(le16(raw, hdrNextSegment))
		maxSegment := int(le16(raw, hdrMaxSegment))
		extra := int(le16(raw, hdrExtraBytes))
		dataStart := int(le16(raw, hdrDataStartBlk))

		if extra > 16 {
			return newError(Structural, "directory extra bytes %d exceeds 16", extra)
		}
		if nextSegment != 0 && nextSegment > maxSegment {
			return newError(Structural, "segment link %d exceeds max segment %d", nextSegment, maxSegment)
		}

		vol.DirTotalSegNum = totalSegments
		vol.DirMaxSegNr = maxSegment
		vol.DirEntryExtraBytes = extra
		if extra > maxExtra {
			maxExtra = extra
		}

		entrySize := entryFixedBytes + extra
		off := segHeaderBytes
		blockCursor := dataStart
		terminated := false
		for off+2 <= len(raw) {
			status := le16(raw, off+entStatus)
			if status&EEOS != 0 {
				terminated = true
				break
			}
			if off+entrySize > len(raw) {
				break
			}
			entry := raw[off : off+entrySize]

			blockLen := int(le16(entry, entBlockCount))

			switch {
			case status&EMPTY != 0 && status&EPERM == 0:
				vol.FreeBlocks += blockLen

			case status&EPERM != 0:
				basename, ext := DecodeRad50Name([3]uint16{
					le16(entry, entName0), le16(entry, entName1), le16(entry, entName2),
				})
				year, month, day := decodeDate(le16(entry, entDate))

				f := &File{
					Basename:   basename,
					Ext:        ext,
					Status:     status,
					BlockNr:    blockCursor,
					BlockCount: blockLen,
					ModYear:    year,
					ModMonth:   month,
					ModDay:     day,
					ReadOnly:   status&(EREAD|EPROT) != 0,
				}

				if extra > 0 {
					extraBytes := entry[entryFixedBytes:]
					nonZero := false
					for _, b := range extraBytes {
						if b != 0 {
							nonZero = true
							break
						}
					}
					if nonZero {
						f.DirExt = &Stream{Size: len(extraBytes), Data: append([]byte(nil), extraBytes...)}
					}
				}

				vol.UsedFileBlocks += blockLen
				fs.Files = append(fs.Files, f)
			}

			blockCursor += blockLen
			off += entrySize
		}
		if !terminated {
			return newError(Structural, "directory segment at block %d has no end-of-segment marker within its %d blocks", seg, segBlocks)
		}

		tracef(TraceParse, "segment %d at block %d: next=%d entries scanned", segNum, seg, nextSegment)
		seg = 0
		if nextSegment != 0 {
			seg = vol.FirstDirBlockNr + 2*(nextSegment-1)
		}
	}

	vol.FileSpaceBlockNr = vol.FirstDirBlockNr + 2*vol.DirTotalSegNum
	if vol.DirEntryExtraBytes < maxExtra {
		vol.DirEntryExtraBytes = maxExtra
	}
	return nil
}

// parseFileStreams populates prefix and data streams for every
// non-internal file (§4.3 step 4).
func parseFileStreams(img image.Image, fs *FileSystem) *Error {
	for _, f := range fs.Files {
		if f.Internal || f.Data != nil {
			continue
		}

		blockNr := f.BlockNr
		blockCount := f.BlockCount

		if f.Status&EPRE != 0 {
			first, err := img.GetBytes(int64(blockNr)*BlockSize, BlockSize)
			if err != nil {
				return newError(Structural, "reading prefix block for %s: %v", f.Name(), err)
			}
			prefixBlocks := int(first[0])
			if prefixBlocks > blockCount {
				return newError(Structural, "file %s prefix block count %d exceeds file span %d", f.Name(), prefixBlocks, blockCount)
			}

			prefixSize := prefixBlocks*BlockSize - 2
			if prefixSize < 0 {
				prefixSize = 0
			}
			prefixData, err := img.GetBytes(int64(blockNr)*BlockSize+2, int64(prefixSize))
			if err != nil {
				return newError(Structural, "reading prefix stream for %s: %v", f.Name(), err)
			}
			f.Prefix = &Stream{BlockNr: blockNr, ByteOffset: 2, Size: prefixSize, Data: prefixData}

			blockNr += prefixBlocks
			blockCount -= prefixBlocks
		}

		dataSize := blockCount * BlockSize
		data, err := img.GetBytes(int64(blockNr)*BlockSize, int64(dataSize))
		if err != nil {
			return newError(Structural, "reading data stream for %s: %v", f.Name(), err)
		}
		f.Data = &Stream{BlockNr: blockNr, Size: dataSize, Data: data}
	}
	return nil
}

// markChangeFlags runs §4.3 step 5: OR-reduce the dirty bitmap over each
// stream's block range.
func markChangeFlags(fs *FileSystem) {
	vol := fs.Volume
	if vol.Dirty.AnySet(homeBlockNr, 1) || vol.Dirty.AnySet(vol.FirstDirBlockNr, 2*vol.DirTotalSegNum) {
		vol.StructChanged = true
	}

	for _, f := range fs.Files {
		for _, s := range []*Stream{f.Data, f.DirExt, f.Prefix} {
			if s == nil || s.Size == 0 {
				continue
			}
			blocks := (s.Size + BlockSize - 1) / BlockSize
			if vol.Dirty.AnySet(s.BlockNr, blocks) {
				s.Changed = true
			}
		}
	}
}
