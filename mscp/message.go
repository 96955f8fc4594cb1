/*
 * mscp11 - MSCP/TMSCP wire message layout
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

// Package mscp defines the on-wire MSCP/TMSCP packet layout: the Message
// envelope, ControlMessageHeader, opcode/status constants, and the packed
// STATUS word. Fields are read and written with explicit offset-and-width
// helpers (encoding/binary) rather than cast over typed memory, so the
// layout stays portable regardless of host struct alignment.
package mscp

import "encoding/binary"

// Wire offsets, all little-endian, no padding.
const (
	// HeaderOffset is the size of the Message envelope (MessageLength,
	// MessageType, Credits) preceding the ControlMessageHeader.
	HeaderOffset = 4

	// HeaderSize is the size of ControlMessageHeader:
	// Reserved(4) + UnitNumber(2) + Reserved2(2) + ReferenceNumber(4) + Word3(4).
	HeaderSize = 16

	offUnitNumber      = 4
	offReferenceNumber = 8
	offParameters      = HeaderSize

	// Word3Offset is ControlMessageHeader.Word3's offset within Body.
	// Exported so the dispatch loop can report it, header-offset-adjusted,
	// as the subcode for an unrecognized opcode (§4.1 step 3).
	Word3Offset = 12
)

// MessageType values.
const (
	MsgTypeSequential uint8 = 0x01 // Command/response ring traffic; carries credits.
	MsgTypeDatagram   uint8 = 0x02 // Unsolicited/asynchronous traffic; no credits.
)

// End is OR-ed with the original opcode to form Endcode on success/error
// responses (and stands alone, with no opcode bits, for protocol errors).
const End uint8 = 0x80

// Flags used in Word3's end form.
const (
	FlagStillConnected uint8 = 0x40 // AVAILABLE: unit still physically connected.
)

// Credit bank defaults (§6).
const (
	InitCredits uint8 = 16
	MaxCredits  uint8 = 14
)

// Message is one command/response slot: the 4-byte envelope plus the
// variable-length Body (ControlMessageHeader followed by the opcode-specific
// parameter area). Ownership transfers by value: the port surrenders it on
// GetNextCommand and reclaims it on PostResponse (§9).
type Message struct {
	MessageType uint8
	Credits     uint8
	Body        []byte
}

// MessageLength is the wire length of Body, recomputed from its current
// size — handlers shrink or grow Body directly rather than tracking a
// separate length field.
func (m *Message) MessageLength() uint16 {
	return uint16(len(m.Body))
}

// UnitNumber returns the header's UnitNumber field.
func (m *Message) UnitNumber() uint16 {
	return binary.LittleEndian.Uint16(m.Body[offUnitNumber:])
}

// SetUnitNumber sets the header's UnitNumber field.
func (m *Message) SetUnitNumber(unit uint16) {
	binary.LittleEndian.PutUint16(m.Body[offUnitNumber:], unit)
}

// ReferenceNumber returns the header's ReferenceNumber field.
func (m *Message) ReferenceNumber() uint32 {
	return binary.LittleEndian.Uint32(m.Body[offReferenceNumber:])
}

// Word3 returns the raw 32-bit discriminated command/end word.
func (m *Message) Word3() uint32 {
	return binary.LittleEndian.Uint32(m.Body[Word3Offset:])
}

// SetWord3 sets the raw 32-bit discriminated command/end word.
func (m *Message) SetWord3(w uint32) {
	binary.LittleEndian.PutUint32(m.Body[Word3Offset:], w)
}

// Opcode extracts the command form of Word3 (ingress).
func (m *Message) Opcode() uint8 {
	return byte(m.Word3())
}

// Modifiers extracts the command form of Word3 (ingress).
func (m *Message) Modifiers() uint16 {
	return uint16(m.Word3() >> 16)
}

// SetEnd writes the end form of Word3 (egress) given an endcode and a
// handler result packed by PackStatus: the wire Flags byte is the result's
// bits 16-23, and the wire Status u16 is the result's low 16 bits
// (subcode<<5 | status&0x1F), per §4.1 step 3 ("copy the low bits of the
// dispatch result into Status and Flags").
func (m *Message) SetEnd(endcode uint8, result uint32) {
	flags := uint8(result >> 16)
	status := uint16(result)
	w := uint32(endcode) | uint32(flags)<<8 | uint32(status)<<16
	m.SetWord3(w)
}

// Endcode extracts the end form of Word3 (egress).
func (m *Message) Endcode() uint8 {
	return byte(m.Word3())
}

// Flags extracts the end form of Word3 (egress).
func (m *Message) Flags() uint8 {
	return byte(m.Word3() >> 8)
}

// Status extracts the end form of Word3 (egress): the packed
// subcode<<5|status&0x1F field.
func (m *Message) Status() uint16 {
	return uint16(m.Word3() >> 16)
}

// StatusCode extracts the 5-bit status code from the wire Status field.
func (m *Message) StatusCode() uint8 {
	return uint8(m.Status()) & 0x1F
}

// Subcode extracts the 11-bit subcode from the wire Status field.
func (m *Message) Subcode() uint16 {
	return m.Status() >> 5
}

// Parameters returns the opcode-specific parameter area following the
// header. Handlers read and write through this slice directly.
func (m *Message) Parameters() []byte {
	if len(m.Body) < offParameters {
		return nil
	}
	return m.Body[offParameters:]
}

// SetParameters replaces the parameter area, growing or shrinking Body
// (and so MessageLength) to header size plus the new parameter size.
func (m *Message) SetParameters(p []byte) {
	body := make([]byte, offParameters+len(p))
	copy(body, m.Body[:offParameters])
	copy(body[offParameters:], p)
	m.Body = body
}

// NewCommandMessage builds a fresh command-form message with the given
// unit, reference number, opcode and raw parameter bytes. Used by test
// harnesses and the in-memory port adapter.
func NewCommandMessage(unit uint16, ref uint32, opcode uint8, modifiers uint16, params []byte) *Message {
	body := make([]byte, offParameters+len(params))
	binary.LittleEndian.PutUint16(body[offUnitNumber:], unit)
	binary.LittleEndian.PutUint32(body[offReferenceNumber:], ref)
	w3 := uint32(opcode) | uint32(modifiers)<<16
	binary.LittleEndian.PutUint32(body[Word3Offset:], w3)
	copy(body[offParameters:], params)
	return &Message{MessageType: MsgTypeSequential, Body: body}
}

// PackStatus packs flags/subcode/status into the 32-bit STATUS word layout
// used for the low 16 bits of Word3's end form plus the Flags byte (§6):
// (flags<<16)|(subcode<<5)|(status&0x1F).
func PackStatus(flags uint8, subcode uint16, status uint8) uint32 {
	return uint32(flags)<<16 | uint32(subcode)<<5 | uint32(status&0x1F)
}
