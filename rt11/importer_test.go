/*
 * mscp11 - Host import/export tests
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
)

func TestMungeNameRules(t *testing.T) {
	basename, ext, stream := MungeName("my_file.dat")
	assert.Equal(t, "MY FIL", basename)
	assert.Equal(t, "DAT", ext)
	assert.Equal(t, StreamData, stream)
}

func TestMungeNameReservedStreamSuffix(t *testing.T) {
	basename, ext, stream := MungeName("LOGGER.DAT.prefix")
	assert.Equal(t, "LOGGER", basename)
	assert.Equal(t, "DAT", ext)
	assert.Equal(t, StreamPrefix, stream)
}

func TestMungeNameIllegalCharacters(t *testing.T) {
	basename, _, _ := MungeName("bad@name!.txt")
	assert.Equal(t, "BAD%NA", basename)
}

func TestImportBootBlockSizeValidation(t *testing.T) {
	fs := newBlankVolume(200)
	im := NewImporter(fs)

	err := im.ImportBootBlock(make([]byte, 256))
	require.NotNil(t, err)
	assert.Equal(t, Validation, err.Kind)
}

func TestImportFileClampsYear(t *testing.T) {
	fs := newBlankVolume(200)
	im := NewImporter(fs)

	require.Nil(t, im.ImportFile("OLD.DAT", []byte("x"), 50, 0, 1, false, GenericLayout.DirSegCount))

	for _, f := range fs.Files {
		if f.Name() == "OLD.DAT" {
			assert.Equal(t, 72, f.ModYear)
			return
		}
	}
	t.Fatal("imported file not found")
}

func TestImportFileAckDebounce(t *testing.T) {
	fs := newBlankVolume(200)
	im := NewImporter(fs)

	require.Nil(t, im.ImportFile("DATA.DAT", []byte("x"), 85, 0, 1, false, GenericLayout.DirSegCount))
	assert.True(t, im.IsAcked("DATA.DAT"))
	assert.False(t, im.IsAcked("DATA.DAT"))
	assert.True(t, im.IsAcked(VolumeInfoName))
}
