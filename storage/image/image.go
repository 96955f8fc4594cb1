/*
 * mscp11 - Byte-addressable backing image storage
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

// Package image is the backing-image abstraction the spec treats as an
// external collaborator (§1): a byte-addressable partition exposing
// GetBytes/SetBytes/SetZero. Drive and the RT-11 codec only ever see the
// Image interface; FileImage and MemImage are reference implementations
// used by tests, the demo CLI, and cmd/mscpctl, grounded on the teacher's
// buffered, dirty-tracked file wrapper in util/tape/tape.go.
package image

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"
)

// Image is the byte-addressable backing partition interface (§6).
type Image interface {
	GetBytes(off, n int64) ([]byte, error)
	SetBytes(off int64, data []byte) error
	SetZero(off, n int64) error
	Size() int64
	Close() error
}

// ErrOutOfRange is returned when an access falls outside the image.
var ErrOutOfRange = errors.New("image: access out of range")

// MemImage is a fixed-size in-memory image; unit tests use it in place of
// a backing file.
type MemImage struct {
	mu   sync.Mutex
	data []byte
}

// NewMemImage allocates a zero-filled in-memory image of size bytes.
func NewMemImage(size int64) *MemImage {
	return &MemImage{data: make([]byte, size)}
}

func (m *MemImage) Size() int64 { return int64(len(m.data)) }

func (m *MemImage) GetBytes(off, n int64) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if off < 0 || n < 0 || off+n > int64(len(m.data)) {
		return nil, ErrOutOfRange
	}
	out := make([]byte, n)
	copy(out, m.data[off:off+n])
	return out, nil
}

func (m *MemImage) SetBytes(off int64, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if off < 0 || off+int64(len(data)) > int64(len(m.data)) {
		return ErrOutOfRange
	}
	copy(m.data[off:], data)
	return nil
}

func (m *MemImage) SetZero(off, n int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if off < 0 || n < 0 || off+n > int64(len(m.data)) {
		return ErrOutOfRange
	}
	clear(m.data[off : off+n])
	return nil
}

func (m *MemImage) Close() error { return nil }

// FileImage is a file-backed image, opened either read-write or read-only.
// It mirrors the lifecycle of the teacher's util/tape.TapeContext: a single
// os.File handle, a session identifier stamped in the open/close log lines
// for correlation, and writes that go straight through (no internal
// write-back buffer is needed since RT-11 images are block-granular and
// small enough that unbuffered pwrite/pread is adequate).
type FileImage struct {
	file      *os.File
	size      int64
	readOnly  bool
	sessionID uuid.UUID
}

// OpenFileImage attaches path as a backing image. If create is true and the
// file does not exist, a new zero-filled image of size bytes is created.
func OpenFileImage(path string, size int64, readOnly bool, create bool) (*FileImage, error) {
	flag := os.O_RDWR
	if readOnly {
		flag = os.O_RDONLY
	}
	if create {
		flag |= os.O_CREATE
	}

	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("image: open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	fi := &FileImage{file: f, size: info.Size(), readOnly: readOnly, sessionID: uuid.New()}
	if create && info.Size() < size {
		if err := fi.SetZero(info.Size(), size-info.Size()); err != nil {
			f.Close()
			return nil, err
		}
		fi.size = size
	}

	slog.Info("image attached", "path", path, "image_session", fi.sessionID, "size", fi.size, "readonly", readOnly)
	return fi, nil
}

func (fi *FileImage) Size() int64 { return fi.size }

func (fi *FileImage) GetBytes(off, n int64) ([]byte, error) {
	if off < 0 || n < 0 || off+n > fi.size {
		return nil, ErrOutOfRange
	}
	buf := make([]byte, n)
	if _, err := fi.file.ReadAt(buf, off); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf, nil
}

func (fi *FileImage) SetBytes(off int64, data []byte) error {
	if fi.readOnly {
		return errors.New("image: read-only")
	}
	if off < 0 || off+int64(len(data)) > fi.size {
		return ErrOutOfRange
	}
	_, err := fi.file.WriteAt(data, off)
	return err
}

func (fi *FileImage) SetZero(off, n int64) error {
	if fi.readOnly {
		return errors.New("image: read-only")
	}
	if off < 0 || n < 0 {
		return ErrOutOfRange
	}
	zeros := make([]byte, 4096)
	remaining := n
	at := off
	for remaining > 0 {
		chunk := int64(len(zeros))
		if remaining < chunk {
			chunk = remaining
		}
		if _, err := fi.file.WriteAt(zeros[:chunk], at); err != nil {
			return err
		}
		at += chunk
		remaining -= chunk
	}
	return nil
}

func (fi *FileImage) Close() error {
	slog.Info("image detached", "image_session", fi.sessionID)
	return fi.file.Close()
}
