/*
 * mscp11 - RT-11 volume, file, and stream data model
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

// Package rt11 implements the RT-11 on-disk filesystem codec (§4.3-§4.6):
// parse, render, RAD50 name encoding, the layout planner, and host import
// and export.
package rt11

// BlockSize is the fixed RT-11 sector size.
const BlockSize = 512

// Status bits on a directory entry (§3, §4.3 step 3).
const (
	EPRE  uint16 = 1 << 4 // Prefix block(s) present.
	ETENT uint16 = 1 << 8 // Tentative file (being written).
	EMPTY uint16 = 1 << 9 // Free-space chain entry.
	EPERM uint16 = 1 << 10 // Permanent file.
	EEOS  uint16 = 1 << 11 // End of segment.
	EREAD uint16 = 1 << 14 // Protected from read.
	EPROT uint16 = 1 << 15 // Protected from write/delete.
)

// Volume holds the filesystem-wide parameters parsed from the home block
// and directory segment headers (§3).
type Volume struct {
	BlockCount         int
	PackClusterSize    uint16
	FirstDirBlockNr    int
	SystemVersion      string
	VolumeID           string
	OwnerName          string
	SystemID           string
	HomeblockChecksum  uint16
	DirEntryExtraBytes int
	DirTotalSegNum     int
	DirMaxSegNr        int
	FileSpaceBlockNr   int
	UsedFileBlocks     int
	FreeBlocks         int

	StructChanged bool
	Dirty         *BoolArray
}

// Stream is a contiguous byte range attached to a File (§3): BlockNr is
// the image block the stream begins at, ByteOffset is a sub-block start
// (used by the prefix stream's reserved count word), Size is the stream's
// length in bytes, Changed is set by the parser when any of the stream's
// blocks is marked dirty, and HostPath is the host path the importer last
// read a data stream from.
type Stream struct {
	BlockNr    int
	ByteOffset int
	Size       int
	Changed    bool
	HostPath   string
	Data       []byte
}

// File is one RT-11 directory entry plus its up-to-three streams (§3).
type File struct {
	Basename string
	Ext      string
	Status   uint16
	BlockNr  int
	BlockCount int

	// ModYear is the two-digit RT-11 year, 72-99 (1972-1999).
	ModYear  int
	ModMonth int
	ModDay   int

	ReadOnly bool
	Internal bool

	Data    *Stream
	DirExt  *Stream
	Prefix  *Stream
}

// Name returns the canonical "BASENAME.EXT" form.
func (f *File) Name() string {
	if f.Ext == "" {
		return f.Basename
	}
	return f.Basename + "." + f.Ext
}

// FileSystem is the in-memory parse tree: a Volume plus its Files, in
// directory order.
type FileSystem struct {
	Volume *Volume
	Files  []*File
}

// Internal synthetic file names (§4.3 step 1, step 6).
const (
	BootFileName    = "$BOOT.BLK"
	MonitorFileName = "$MONITOR.TOR"
	VolumeInfoName  = "$VOLUM.INF"
)

// BootBlockCount is $BOOT.BLK's fixed span (block 0).
const BootBlockCount = 1

// MonitorBlockCount is $MONITOR.TOR's fixed span (blocks 2..5).
const MonitorBlockCount = 4

// MonitorStartBlock is where $MONITOR.TOR begins.
const MonitorStartBlock = 2
