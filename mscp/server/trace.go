/*
 * mscp11 - Controller core trace flags
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

package server

import (
	"errors"
	"sync/atomic"

	"github.com/rcornwell/mscp11/util/debug"
)

// Trace levels for the SERVER debug axis (config/debugconfig), following
// the teacher's util/debug mask-per-subsystem convention.
const (
	TraceRing = 1 << iota
	TraceDispatch
	TraceCredit
)

var traceLevel int32

// Debug enables a named SERVER trace flag, or "*" for all of them.
func Debug(name string) error {
	var bit int32
	switch name {
	case "RING":
		bit = TraceRing
	case "DISPATCH":
		bit = TraceDispatch
	case "CREDIT":
		bit = TraceCredit
	case "*", "ALL":
		bit = TraceRing | TraceDispatch | TraceCredit
	default:
		return errors.New("server: unknown debug option: " + name)
	}
	for old := atomic.LoadInt32(&traceLevel); !atomic.CompareAndSwapInt32(&traceLevel, old, old|bit); old = atomic.LoadInt32(&traceLevel) {
	}
	return nil
}

func tracef(level int, format string, a ...interface{}) {
	debug.Debugf("server", int(atomic.LoadInt32(&traceLevel)), level, format, a...)
}
