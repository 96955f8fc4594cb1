/*
 * mscp11 - Per-unit trace flags
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

package drive

import (
	"errors"
	"sync"

	"github.com/rcornwell/mscp11/util/debug"
)

// Trace levels for the DRIVE debug axis (config/debugconfig), one per unit.
const (
	TraceState = 1 << iota
	TraceIO
)

var (
	traceMu    sync.Mutex
	traceLevel = map[uint16]int32{}
)

// Debug enables a named DRIVE trace flag for unit, or "*" for all of them.
func Debug(unit uint16, name string) error {
	var bit int32
	switch name {
	case "STATE":
		bit = TraceState
	case "IO":
		bit = TraceIO
	case "*", "ALL":
		bit = TraceState | TraceIO
	default:
		return errors.New("drive: unknown debug option: " + name)
	}
	traceMu.Lock()
	traceLevel[unit] |= bit
	traceMu.Unlock()
	return nil
}

func (d *Drive) tracef(level int32, format string, a ...interface{}) {
	traceMu.Lock()
	mask := traceLevel[d.Number]
	traceMu.Unlock()
	debug.DebugUnitf(d.Number, int(mask), int(level), format, a...)
}
