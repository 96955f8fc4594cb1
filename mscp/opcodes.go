/*
 * mscp11 - MSCP/TMSCP opcode table
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

// Opcodes shared by the disk (MSCP) and tape (TMSCP) dispatch tables (§4.2).
const (
	OpAbort                 uint8 = 0x01
	OpGetCommandStatus      uint8 = 0x02
	OpGetUnitStatus         uint8 = 0x03
	OpSetControllerChar     uint8 = 0x04
	OpAvailable             uint8 = 0x05
	OpOnline                uint8 = 0x06
	OpSetUnitChar           uint8 = 0x07
	OpAccess                uint8 = 0x08
	OpCompareHostData       uint8 = 0x09
	OpErase                 uint8 = 0x0A
	OpRead                  uint8 = 0x0B
	OpWrite                 uint8 = 0x0C
	OpDetermineAccessPaths  uint8 = 0x0D
)

// Disk-only opcode.
const OpReplace uint8 = 0x0E

// Tape-only opcodes.
const (
	OpEraseGap       uint8 = 0x0F
	OpReposition     uint8 = 0x10
	OpWriteTapeMark  uint8 = 0x11
)
