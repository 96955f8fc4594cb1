/*
 * mscp11 - Backing image tests
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

package image

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemImageReadWriteRoundTrip(t *testing.T) {
	img := NewMemImage(512)

	require.NoError(t, img.SetBytes(10, []byte("hello")))
	got, err := img.GetBytes(10, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestMemImageOutOfRangeAccess(t *testing.T) {
	img := NewMemImage(16)

	_, err := img.GetBytes(10, 10)
	assert.ErrorIs(t, err, ErrOutOfRange)

	err = img.SetBytes(10, make([]byte, 10))
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestMemImageSetZero(t *testing.T) {
	img := NewMemImage(16)
	require.NoError(t, img.SetBytes(0, []byte("deadbeefdeadbeef")))

	require.NoError(t, img.SetZero(4, 8))
	got, err := img.GetBytes(0, 16)
	require.NoError(t, err)
	assert.Equal(t, []byte("dead\x00\x00\x00\x00\x00\x00\x00\x00beef"), got)
}

func TestFileImageCreateAndPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vol.dsk")

	img, err := OpenFileImage(path, 1024, false, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1024), img.Size())

	require.NoError(t, img.SetBytes(0, []byte("RT11 HOME")))
	require.NoError(t, img.Close())

	reopened, err := OpenFileImage(path, 1024, true, false)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetBytes(0, 9)
	require.NoError(t, err)
	assert.Equal(t, []byte("RT11 HOME"), got)
}

func TestFileImageReadOnlyRejectsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vol.dsk")
	img, err := OpenFileImage(path, 512, false, true)
	require.NoError(t, err)
	require.NoError(t, img.Close())

	ro, err := OpenFileImage(path, 512, true, false)
	require.NoError(t, err)
	defer ro.Close()

	assert.Error(t, ro.SetBytes(0, []byte("x")))
	assert.Error(t, ro.SetZero(0, 4))
}

func TestOpenFileImageMissingWithoutCreateFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.dsk")
	_, err := OpenFileImage(path, 512, false, false)
	assert.Error(t, err)
}
