/*
 * mscp11 - Host-to-RT-11 import/export
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
	"path/filepath"
	"strings"
	"sync"
)

// StreamKind selects which of a file's three streams a host path targets.
type StreamKind int

const (
	StreamData StreamKind = iota
	StreamDirExt
	StreamPrefix
)

// reservedStreamExt maps a host filename's outer extension to the stream
// it selects (§4.5): "LOGGER.DAT.prefix" contributes LOGGER.DAT's prefix
// stream.
var reservedStreamExt = map[string]StreamKind{
	"dirext": StreamDirExt,
	"prefix": StreamPrefix,
}

// MungeName converts a host filename into its RT-11 basename/extension
// and target stream, following §4.5's munging rules: uppercase;
// underscore becomes space; anything outside {A-Z,0-9,$,.,space} becomes
// '%'; basename truncates to 6 and extension to 3, trimmed of spaces.
func MungeName(hostPath string) (basename, ext string, stream StreamKind) {
	name := filepath.Base(hostPath)
	stream = StreamData

	if dot := strings.LastIndex(name, "."); dot >= 0 {
		if kind, ok := reservedStreamExt[name[dot+1:]]; ok {
			stream = kind
			name = name[:dot]
		}
	}

	base := name
	innerExt := ""
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		base = name[:dot]
		innerExt = name[dot+1:]
	}

	return mungeComponent(base, 6), mungeComponent(innerExt, 3), stream
}

func mungeComponent(s string, maxLen int) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		switch {
		case r == '_':
			b.WriteRune(' ')
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '$' || r == '.' || r == ' ':
			b.WriteRune(r)
		default:
			b.WriteRune('%')
		}
	}
	out := strings.TrimRight(b.String(), " ")
	if len(out) > maxLen {
		out = out[:maxLen]
	}
	return out
}

// Importer builds or amends a FileSystem from host-supplied files,
// applying the validations in §4.5 before any mutation, and debounces
// host-originated change notifications it itself triggers so that its own
// writes don't reappear as spurious incoming change events (the
// "ack-event filter").
type Importer struct {
	fs *FileSystem

	mu    sync.Mutex
	acked map[string]struct{}
}

// NewImporter wraps fs for incremental import operations.
func NewImporter(fs *FileSystem) *Importer {
	return &Importer{fs: fs, acked: make(map[string]struct{})}
}

// ImportBootBlock validates and installs $BOOT.BLK's content (§4.5: must
// be exactly 512 bytes).
func (im *Importer) ImportBootBlock(data []byte) *Error {
	if len(data) != BlockSize {
		return newError(Validation, "boot block must be exactly %d bytes, got %d", BlockSize, len(data))
	}
	im.replaceInternal(BootFileName, data)
	return nil
}

// ImportMonitor validates and installs $MONITOR.TOR's content (§4.5: at
// most 2048 bytes).
func (im *Importer) ImportMonitor(data []byte) *Error {
	const maxMonitorSize = 2048
	if len(data) > maxMonitorSize {
		return newError(Validation, "monitor must be at most %d bytes, got %d", maxMonitorSize, len(data))
	}
	im.replaceInternal(MonitorFileName, data)
	return nil
}

func (im *Importer) replaceInternal(name string, data []byte) {
	for _, f := range im.fs.Files {
		if f.Internal && f.Name() == name {
			f.Data = &Stream{Size: len(data), Data: data}
			im.ack(name)
			return
		}
	}
	base, ext, _ := strings.Cut(name, ".")
	im.fs.Files = append(im.fs.Files, &File{Basename: base, Ext: ext, Internal: true, ReadOnly: true,
		Data: &Stream{Size: len(data), Data: data}})
	im.ack(name)
}

// ImportFile imports a host file at hostPath with contents data into the
// RT-11 tree, munging the name per §4.5, routing to the selected stream,
// clamping the modification year to [72, 99], growing
// dir_entry_extra_bytes when a dirext stream demands it, and pre-checking
// capacity via the layout planner before committing.
func (im *Importer) ImportFile(hostPath string, data []byte, modYear, modMonth, modDay int, readOnly bool, docSegDefault int) *Error {
	basename, ext, stream := MungeName(hostPath)
	if modYear < 72 {
		modYear = 72
	}
	if modYear > 99 {
		modYear = 99
	}

	if stream == StreamDirExt && len(data) > 16 {
		return newError(Validation, "dir_ext stream for %s.%s is %d bytes, exceeds 16", basename, ext, len(data))
	}

	f := im.findOrCreate(basename, ext, modYear, modMonth, modDay, readOnly)

	switch stream {
	case StreamDirExt:
		f.DirExt = &Stream{Size: len(data), Data: data}
		if len(data) > im.fs.Volume.DirEntryExtraBytes {
			im.fs.Volume.DirEntryExtraBytes = len(data)
		}
	case StreamPrefix:
		f.Prefix = &Stream{Size: len(data), Data: data}
	default:
		f.Data = &Stream{Size: len(data), Data: data, HostPath: hostPath}
	}

	if perr := im.checkCapacity(docSegDefault); perr != nil {
		return perr
	}

	im.ack(hostPath)
	tracef(TraceImport, "imported %s as %s (%d bytes)", hostPath, f.Name(), len(data))
	return nil
}

func (im *Importer) findOrCreate(basename, ext string, year, month, day int, readOnly bool) *File {
	for _, f := range im.fs.Files {
		if !f.Internal && f.Basename == basename && f.Ext == ext {
			f.ModYear, f.ModMonth, f.ModDay = year, month, day
			f.ReadOnly = readOnly
			return f
		}
	}
	f := &File{Basename: basename, Ext: ext, ModYear: year, ModMonth: month, ModDay: day, ReadOnly: readOnly}
	im.fs.Files = append(im.fs.Files, f)
	return f
}

// checkCapacity pre-checks the layout planner's overflow test (§4.5)
// before the caller commits a new file, without mutating block
// assignments — a dry run of Render's planning phase.
func (im *Importer) checkCapacity(docSegDefault int) *Error {
	files := nonInternalFiles(im.fs)
	avg := averageFileBlocks(files)
	available := im.fs.Volume.BlockCount - im.fs.Volume.FirstDirBlockNr
	_, perr := PlanLayout(len(files), avg, docSegDefault, available)
	return perr
}

// ack records that hostPath's change was importer-originated, so a
// caller polling host-filesystem notifications can suppress the event it
// would otherwise see for its own write (the "ack-event filter", §4.5).
func (im *Importer) ack(hostPath string) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.acked[hostPath] = struct{}{}
}

// IsAcked reports and clears whether hostPath's last change was
// importer-originated. It always reports true for the synthetic
// $VOLUM.INF, so re-entry of that file is suppressed.
func (im *Importer) IsAcked(hostPath string) bool {
	im.mu.Lock()
	defer im.mu.Unlock()
	_, ok := im.acked[hostPath]
	if ok {
		delete(im.acked, hostPath)
	}
	return ok || hostPath == VolumeInfoName
}
