/*
 * mscp11 - Debug options configuration.
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

// Package debugconfig wires the DEBUG config directive to the controller
// core's and drive layer's trace axes: SERVER (ring/dispatch/credit trace),
// DRIVE (per-unit state-machine and I/O trace), and RT11 (filesystem codec
// trace). It replaces the teacher's CHANNEL/CPU/TAPE axes with the ones
// this subsystem actually has.
package debugconfig

import (
	"errors"
	"strconv"
	"strings"

	config "github.com/rcornwell/mscp11/config/configparser"
	"github.com/rcornwell/mscp11/mscp/drive"
	"github.com/rcornwell/mscp11/mscp/server"
	"github.com/rcornwell/mscp11/rt11"
)

// register a device on initialize.
func init() {
	config.RegisterModel("DEBUG", config.TypeOptions, setDebug)
}

// setDebug applies a DEBUG directive to the SERVER, RT11 or DRIVE trace axis.
func setDebug(devNum uint16, device string, options []config.Option) error {
	switch strings.ToUpper(device) {
	case "SERVER":
		// Process controller core debug options (ring, dispatch, credits).
		return applyOptions(options, server.Debug)

	case "RT11":
		// Process filesystem codec debug options.
		return applyOptions(options, rt11.Debug)

	case "DRIVE":
		// Process per-unit debug options; the first option is the unit number.
		if len(options) < 1 {
			return errors.New("debug drive requires a unit number first")
		}
		number := uint64(0)
		for i, opt := range options {
			if i == 0 {
				if options[0].EqualOpt != "" || len(options[0].Value) != 0 {
					return errors.New("debug drive unit can't have equals or values")
				}
				var err error
				number, err = strconv.ParseUint(options[0].Name, 10, 4)
				if err != nil {
					return errors.New("unit number must be a number: " + options[0].Name)
				}
				continue
			}
			if err := drive.Debug(uint16(number), strings.ToUpper(opt.Name)); err != nil {
				return err
			}
			for _, value := range opt.Value {
				if err := drive.Debug(uint16(number), strings.ToUpper(*value)); err != nil {
					return err
				}
			}
		}
		return nil

	default:
		return errors.New("debug option invalid: " + device)
	}
}

// applyOptions walks a flat options list (no leading unit address),
// applying set to each option name and each of its comma-joined values.
func applyOptions(options []config.Option, set func(string) error) error {
	for _, opt := range options {
		if err := set(strings.ToUpper(opt.Name)); err != nil {
			return err
		}
		for _, value := range opt.Value {
			if err := set(strings.ToUpper(*value)); err != nil {
				return err
			}
		}
	}
	return nil
}
