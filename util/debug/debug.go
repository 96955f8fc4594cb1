/*
 * mscp11 - Log debug trace data to a file
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

// Package debug implements the bitmask-gated protocol trace helpers used by
// the server core and drive packages, a second axis of logging alongside
// util/logger's slog wrapper: this one is for high-volume opcode/byte-level
// tracing that would drown out normal operational logs.
package debug

import (
	"fmt"
	"os"
	"strconv"

	config "github.com/rcornwell/mscp11/config/configparser"
)

var logFile *os.File

// Debugf emits a subsystem-tagged trace line gated by mask&level.
func Debugf(subsystem string, mask int, level int, format string, a ...interface{}) {
	if (mask & level) != 0 {
		fmt.Fprintf(logFile, subsystem+": "+format+"\n", a...)
	}
}

// DebugUnitf emits a unit-tagged trace line gated by mask&level.
func DebugUnitf(unit uint16, mask int, level int, format string, a ...interface{}) {
	if (mask & level) != 0 {
		u := strconv.FormatUint(uint64(unit), 10)
		fmt.Fprintf(logFile, "unit "+u+": "+format+"\n", a...)
	}
}

// register a DEBUGFILE directive on initialize.
func init() {
	config.RegisterFile("DEBUGFILE", create)
}

// create opens the trace destination named by a DEBUGFILE config directive.
func create(_ uint16, fileName string, _ []config.Option) error {
	if logFile != nil {
		return fmt.Errorf("can't have more than one debug file, previous: %s", logFile.Name())
	}

	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("unable to create debug file: %s", fileName)
	}

	logFile = file
	return nil
}
