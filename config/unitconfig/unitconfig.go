/*
 * mscp11 - DISK/TAPE unit configuration directives
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

// Package unitconfig registers the DISK and TAPE config-file directives
// (§3): "DISK <unit> FILE=<path> [SIZE=<blocks>] [CREATE] [READONLY]"
// builds a drive.Drive, attaches its backing image, and records it in the
// package registry cmd/mscpctl reads back after config/configparser has
// loaded a file.
package unitconfig

import (
	"errors"
	"strconv"
	"sync"

	"github.com/rcornwell/mscp11/command/drivecmd"
	config "github.com/rcornwell/mscp11/config/configparser"
	"github.com/rcornwell/mscp11/mscp/drive"
	"github.com/rcornwell/mscp11/storage/image"
)

var (
	mu    sync.Mutex
	disks []*drivecmd.DriveCommand
	tapes []*drivecmd.DriveCommand
)

func init() {
	config.RegisterModel("DISK", config.TypeOptions, makeUnit(&disks, false))
	config.RegisterModel("TAPE", config.TypeOptions, makeUnit(&tapes, true))
}

// Disks returns every DISK unit configured so far, in config-file order.
func Disks() []*drivecmd.DriveCommand {
	mu.Lock()
	defer mu.Unlock()
	return append([]*drivecmd.DriveCommand(nil), disks...)
}

// Tapes returns every TAPE unit configured so far, in config-file order.
func Tapes() []*drivecmd.DriveCommand {
	mu.Lock()
	defer mu.Unlock()
	return append([]*drivecmd.DriveCommand(nil), tapes...)
}

// Reset clears the registry; tests use this to isolate config loads.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	disks = nil
	tapes = nil
}

func makeUnit(registry *[]*drivecmd.DriveCommand, isTape bool) func(uint16, string, []config.Option) error {
	return func(devNum uint16, _ string, options []config.Option) error {
		if devNum == config.NoDev {
			return errors.New("unitconfig: unit requires a unit number")
		}

		d := drive.New(devNum)
		dc := drivecmd.New(d)

		var path string
		var blocks int
		create := false
		readOnly := false

		for _, opt := range options {
			switch opt.Name {
			case "FILE":
				path = opt.EqualOpt
			case "SIZE":
				n, err := strconv.Atoi(opt.EqualOpt)
				if err != nil {
					return errors.New("unitconfig: SIZE must be numeric: " + opt.EqualOpt)
				}
				blocks = n
			case "CREATE":
				create = true
			case "READONLY":
				readOnly = true
			}
		}
		if path == "" {
			return errors.New("unitconfig: unit requires FILE=path")
		}

		size := int64(blocks) * drive.BlockSize
		img, err := image.OpenFileImage(path, size, readOnly, create)
		if err != nil {
			return err
		}
		blockCount := uint32(img.Size() / drive.BlockSize)
		geom := drive.Geometry{MediaID: blockCount, BlockCount: blockCount, IsTape: isTape}
		if err := d.Attach(img, geom); err != nil {
			_ = img.Close()
			return err
		}

		mu.Lock()
		*registry = append(*registry, dc)
		mu.Unlock()
		return nil
	}
}
