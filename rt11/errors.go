/*
 * mscp11 - RT-11 codec error taxonomy
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

import "fmt"

// Kind classifies a codec error (§7).
type Kind int

const (
	// Structural errors indicate the image does not hold a well-formed
	// RT-11 filesystem (bad first-dir-block, a segment link past
	// max-segment, an entry list overrunning its two blocks, dir-extra
	// bytes above 16).
	Structural Kind = iota
	// Capacity errors indicate the requested file set cannot fit the
	// volume, detected before any mutation.
	Capacity
	// Validation errors indicate an import request violates a host-side
	// constraint (wrong-size boot/monitor, a dir_ext stream over 16 bytes).
	// A host extension other than dirext/prefix is not rejected: it becomes
	// the RT-11 file's extension.
	Validation
)

func (k Kind) String() string {
	switch k {
	case Structural:
		return "structural"
	case Capacity:
		return "capacity"
	case Validation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is the typed error the codec returns for every parse/render/import
// failure, inspectable via errors.As (§7).
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("rt11: %s: %s", e.Kind, e.Message)
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
