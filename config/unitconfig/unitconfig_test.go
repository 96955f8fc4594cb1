/*
 * mscp11 - DISK/TAPE directive tests
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

package unitconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	config "github.com/rcornwell/mscp11/config/configparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.cfg")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDiskDirectiveAttachesCreatedImage(t *testing.T) {
	Reset()
	defer Reset()

	dir := t.TempDir()
	imgPath := filepath.Join(dir, "disk0.dsk")
	cfg := writeConfig(t, fmt.Sprintf("DISK 0 FILE=%s SIZE=10 CREATE\n", imgPath))

	require.NoError(t, config.LoadConfigFile(cfg))

	disks := Disks()
	require.Len(t, disks, 1)
	assert.Equal(t, uint16(0), disks[0].Drive.Number)
	assert.Empty(t, Tapes())

	_, err := os.Stat(imgPath)
	assert.NoError(t, err)
}

func TestTapeDirectiveRegistersSeparatelyFromDisks(t *testing.T) {
	Reset()
	defer Reset()

	dir := t.TempDir()
	imgPath := filepath.Join(dir, "tape0.tap")
	cfg := writeConfig(t, fmt.Sprintf("TAPE 0 FILE=%s SIZE=4 CREATE\n", imgPath))

	require.NoError(t, config.LoadConfigFile(cfg))

	assert.Empty(t, Disks())
	tapes := Tapes()
	require.Len(t, tapes, 1)
	assert.Equal(t, uint16(0), tapes[0].Drive.Number)
}

func TestDiskDirectiveRequiresFile(t *testing.T) {
	Reset()
	defer Reset()

	cfg := writeConfig(t, "DISK 0 SIZE=10 CREATE\n")
	assert.Error(t, config.LoadConfigFile(cfg))
	assert.Empty(t, Disks())
}

func TestDiskDirectiveRejectsMissingFileWithoutCreate(t *testing.T) {
	Reset()
	defer Reset()

	dir := t.TempDir()
	imgPath := filepath.Join(dir, "nope.dsk")
	cfg := writeConfig(t, fmt.Sprintf("DISK 0 FILE=%s SIZE=10\n", imgPath))

	assert.Error(t, config.LoadConfigFile(cfg))
	assert.Empty(t, Disks())
}

func TestResetClearsBothRegistries(t *testing.T) {
	Reset()
	defer Reset()

	dir := t.TempDir()
	cfg := writeConfig(t, fmt.Sprintf("DISK 0 FILE=%s SIZE=10 CREATE\n", filepath.Join(dir, "d.dsk")))
	require.NoError(t, config.LoadConfigFile(cfg))
	require.Len(t, Disks(), 1)

	Reset()
	assert.Empty(t, Disks())
	assert.Empty(t, Tapes())
}
