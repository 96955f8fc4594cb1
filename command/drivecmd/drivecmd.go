/*
 * mscp11 - Drive attach/detach/set/show command surface
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

// Package drivecmd adapts an mscp/drive.Drive to the command.Command
// interface, the console-visible surface a SHOW/SET/ATTACH/DETACH
// directive operates on.
package drivecmd

import (
	"errors"
	"fmt"

	cmd "github.com/rcornwell/mscp11/command/command"
	"github.com/rcornwell/mscp11/mscp/drive"
	"github.com/rcornwell/mscp11/storage/image"
)

// DriveCommand wraps a drive.Drive so it can be driven from the console
// reader or a config file directive.
type DriveCommand struct {
	Drive    *drive.Drive
	readOnly bool
}

// New wraps d for console/config use.
func New(d *drive.Drive) *DriveCommand {
	return &DriveCommand{Drive: d}
}

// Options reports the attach/set/show surface for a drive unit.
func (c *DriveCommand) Options(opt string) []cmd.Options {
	switch opt {
	case "attach":
		return []cmd.Options{
			{Name: "FILE", OptionType: cmd.OptionFile, OptionValid: cmd.ValidAttach},
			{Name: "SIZE", OptionType: cmd.OptionNumber, OptionValid: cmd.ValidAttach},
			{Name: "CREATE", OptionType: cmd.OptionSwitch, OptionValid: cmd.ValidAttach},
			{Name: "READONLY", OptionType: cmd.OptionSwitch, OptionValid: cmd.ValidAttach | cmd.ValidSet},
		}
	default:
		return []cmd.Options{
			{Name: "READONLY", OptionType: cmd.OptionSwitch, OptionValid: cmd.ValidSet | cmd.ValidShow},
			{Name: "STATE", OptionType: cmd.OptionName, OptionValid: cmd.ValidShow},
		}
	}
}

// Attach binds a backing file image to the unit. The geometry comes from the
// image size alone: BlockCount is the image's whole-block count, MediaID is
// set to that same count, and no RCT area is configured.
func (c *DriveCommand) Attach(options []*cmd.CmdOption) error {
	var path string
	var size int64
	create := false
	readOnly := false

	for _, opt := range options {
		switch opt.Name {
		case "FILE":
			path = opt.EqualOpt
		case "SIZE":
			size = int64(opt.Value) * drive.BlockSize
		case "CREATE":
			create = true
		case "READONLY":
			readOnly = true
		}
	}
	if path == "" {
		return errors.New("drivecmd: attach requires FILE=path")
	}

	img, err := image.OpenFileImage(path, size, readOnly, create)
	if err != nil {
		return fmt.Errorf("drivecmd: attach %s: %w", path, err)
	}

	blockCount := uint32(img.Size() / drive.BlockSize)
	geom := drive.Geometry{MediaID: blockCount, BlockCount: blockCount}
	if err := c.Drive.Attach(img, geom); err != nil {
		_ = img.Close()
		return err
	}
	c.readOnly = readOnly
	return nil
}

// Detach removes the unit's backing image.
func (c *DriveCommand) Detach() error {
	return c.Drive.Detach()
}

// Set toggles the READONLY switch; no other attribute is settable on a
// live unit (geometry is fixed at attach time, §3).
func (c *DriveCommand) Set(set bool, options []*cmd.CmdOption) error {
	for _, opt := range options {
		if opt.Name == "READONLY" {
			c.readOnly = set
		}
	}
	return nil
}

// Show formats the unit's current state.
func (c *DriveCommand) Show([]*cmd.CmdOption) (string, error) {
	geom := c.Drive.Geometry()
	state := "absent"
	switch c.Drive.State() {
	case drive.Available:
		state = "available"
	case drive.Online:
		state = "online"
	}
	ro := ""
	if c.readOnly {
		ro = " readonly"
	}
	return fmt.Sprintf("unit %d: %s, %d blocks%s", c.Drive.Number, state, geom.BlockCount, ro), nil
}
