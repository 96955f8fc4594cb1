/*
 * mscp11 - Dirty-block bitset
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

// BoolArray is a plain, non-concurrent per-block dirty bitset (§5, §9):
// callers serialise access themselves, the same way the original's
// single-threaded filesystem code does.
type BoolArray struct {
	bits []bool
}

// NewBoolArray allocates a bitset of n clear bits.
func NewBoolArray(n int) *BoolArray {
	return &BoolArray{bits: make([]bool, n)}
}

// Set marks block i dirty.
func (b *BoolArray) Set(i int) {
	if i >= 0 && i < len(b.bits) {
		b.bits[i] = true
	}
}

// Get reports whether block i is marked dirty.
func (b *BoolArray) Get(i int) bool {
	if i < 0 || i >= len(b.bits) {
		return false
	}
	return b.bits[i]
}

// Clear resets every bit.
func (b *BoolArray) Clear() {
	for i := range b.bits {
		b.bits[i] = false
	}
}

// AnySet OR-reduces the dirty bit over [start, start+count), the
// operation §4.3 step 5 runs per stream to decide whether it changed.
func (b *BoolArray) AnySet(start, count int) bool {
	for i := start; i < start+count; i++ {
		if b.Get(i) {
			return true
		}
	}
	return false
}

// Len returns the bitset's block count.
func (b *BoolArray) Len() int { return len(b.bits) }
