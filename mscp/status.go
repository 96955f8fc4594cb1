/*
 * mscp11 - MSCP/TMSCP status and subcode table
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

package mscp

// Status codes (5 bits, §6).
const (
	StatusSuccess               uint8 = 0
	StatusInvalidCommand        uint8 = 1
	StatusUnitOffline           uint8 = 2
	StatusUnitAvailable         uint8 = 3
	StatusHostBufferAccessError uint8 = 4
	StatusCompareError          uint8 = 5
)

// Subcodes (11 bits). The transfer-validation path additionally uses the
// raw byte offset of the offending parameter field as its subcode (§4.2),
// so these named values are kept clear of the low parameter-area offsets
// (well under HeaderOffset+HeaderSize) to stay unambiguous in traces.
const (
	SubcodeNone        uint16 = 0
	SubcodeUnitUnknown uint16 = 1
	SubcodeNXM         uint16 = 2

	// SubcodeAlreadyOnline distinguishes a first-time Online transition from one
	// issued against an already-Online unit, per §4.2's ONLINE behaviour.
	SubcodeAlreadyOnline uint16 = 1
	SubcodeNormal        uint16 = 0
)
