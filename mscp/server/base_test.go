/*
 * mscp11 - Controller core tests
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
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcornwell/mscp11/mscp"
	"github.com/rcornwell/mscp11/mscp/drive"
	"github.com/rcornwell/mscp11/mscp/port"
	"github.com/rcornwell/mscp11/storage/image"
)

const testBlocks = 100

func newTestDisk(t *testing.T) (*Disk, *port.MemPort, *drive.Drive) {
	t.Helper()

	d := drive.New(0)
	img := image.NewMemImage(testBlocks * drive.BlockSize)
	require.NoError(t, d.Attach(img, drive.Geometry{MediaID: 1, BlockCount: testBlocks, RCTSize: 2}))

	p := port.NewMemPort(4096, []*drive.Drive{d}, DiskClassModel, [8]byte{'T', 'E', 'S', 'T'})
	disk := NewDisk(p, [8]byte{'T', 'E', 'S', 'T'})
	return disk, p, d
}

// submitAndWait pushes msg, rings the doorbell, and polls for the matching
// response by reference number.
func submitAndWait(t *testing.T, b *Base, p *port.MemPort, msg *mscp.Message) *mscp.Message {
	t.Helper()
	ref := msg.ReferenceNumber()
	p.Submit(msg)
	b.InitPolling()

	deadline := time.After(time.Second)
	for {
		if resp, ok := p.NextResponse(); ok {
			if resp.ReferenceNumber() == ref {
				return resp
			}
			continue
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for response")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestAbortAlwaysSuccess(t *testing.T) {
	disk, p, _ := newTestDisk(t)
	disk.Start()
	defer disk.Stop()

	msg := mscp.NewCommandMessage(0, 1, mscp.OpAbort, 0, nil)
	resp := submitAndWait(t, disk.Base, p, msg)

	assert.Equal(t, mscp.End|mscp.OpAbort, resp.Endcode())
	assert.Equal(t, mscp.StatusSuccess, resp.StatusCode())
}

func TestEndcodeInvariant(t *testing.T) {
	disk, p, _ := newTestDisk(t)
	disk.Start()
	defer disk.Stop()

	// Unrecognised opcode: bare End, no opcode bits, and the subcode is
	// Word3's header-offset-adjusted byte offset (§4.1 step 3).
	msg := mscp.NewCommandMessage(0, 1, 0x7F, 0, nil)
	resp := submitAndWait(t, disk.Base, p, msg)
	assert.Equal(t, mscp.End, resp.Endcode())
	assert.Equal(t, mscp.StatusInvalidCommand, resp.StatusCode())
	assert.Equal(t, uint16(mscp.Word3Offset+mscp.HeaderOffset), resp.Subcode())

	// Recognised opcode: End | opcode always, regardless of status.
	msg2 := mscp.NewCommandMessage(99, 2, mscp.OpOnline, 0, make([]byte, unitStatusParamSize))
	resp2 := submitAndWait(t, disk.Base, p, msg2)
	assert.Equal(t, mscp.End|mscp.OpOnline, resp2.Endcode())
	assert.Equal(t, mscp.StatusUnitOffline, resp2.StatusCode())
}

func TestCreditConservation(t *testing.T) {
	disk, p, _ := newTestDisk(t)
	disk.Start()
	defer disk.Stop()

	var total uint8
	for i := uint32(0); i < 20; i++ {
		msg := mscp.NewCommandMessage(0, i, mscp.OpAbort, 0, nil)
		resp := submitAndWait(t, disk.Base, p, msg)
		total += resp.Credits - 1
		assert.LessOrEqual(t, total, mscp.InitCredits)
	}
}

func TestResetForcesOffline(t *testing.T) {
	for _, tc := range []struct {
		name string
		run  func(t *testing.T) (*Base, *drive.Drive)
	}{
		{"disk", func(t *testing.T) (*Base, *drive.Drive) {
			disk, _, d := newTestDisk(t)
			return disk.Base, d
		}},
		{"tape", func(t *testing.T) (*Base, *drive.Drive) {
			d := drive.New(0)
			img := image.NewMemImage(testBlocks * drive.BlockSize)
			require.NoError(t, d.Attach(img, drive.Geometry{MediaID: 1, BlockCount: testBlocks, IsTape: true}))
			p := port.NewMemPort(4096, []*drive.Drive{d}, TapeClassModel, [8]byte{})
			tape := NewTape(p, [8]byte{})
			return tape.Base, d
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b, d := tc.run(t)
			b.Start()
			defer b.Stop()

			_, err := d.Online()
			require.NoError(t, err)
			require.Equal(t, drive.Online, d.State())

			b.Reset()

			assert.Equal(t, drive.Available, d.State())
			b.mu.Lock()
			credits := b.credits
			b.mu.Unlock()
			assert.Equal(t, mscp.InitCredits, credits)
		})
	}
}

func TestCompareHostDataCorrectedSemantics(t *testing.T) {
	disk, p, d := newTestDisk(t)
	disk.Start()
	defer disk.Stop()

	_, err := d.Online()
	require.NoError(t, err)

	payload := make([]byte, drive.BlockSize)
	for i := range payload {
		payload[i] = byte(i)
	}
	require.NoError(t, d.WriteBlocks(0, payload))

	params := make([]byte, transferParamSize)
	binary.LittleEndian.PutUint32(params[offByteCount:], drive.BlockSize)
	binary.LittleEndian.PutUint32(params[offBufferAddr:], 0)
	binary.LittleEndian.PutUint32(params[offLBN:], 0)

	p.WriteMemory(0, payload)
	msg := mscp.NewCommandMessage(0, 1, mscp.OpCompareHostData, 0, params)
	resp := submitAndWait(t, disk.Base, p, msg)
	assert.Equal(t, mscp.StatusSuccess, resp.StatusCode())

	mismatched := make([]byte, drive.BlockSize)
	copy(mismatched, payload)
	mismatched[0] ^= 0xFF
	p.WriteMemory(0, mismatched)
	msg2 := mscp.NewCommandMessage(0, 2, mscp.OpCompareHostData, 0, params)
	resp2 := submitAndWait(t, disk.Base, p, msg2)
	assert.Equal(t, mscp.StatusCompareError, resp2.StatusCode())
}

func TestGetUnitStatusNextUnitCoercion(t *testing.T) {
	disk, p, _ := newTestDisk(t)
	disk.Start()
	defer disk.Stop()

	// Only unit 0 exists; requesting "next unit" after unit 0 must coerce
	// back to unit 0 rather than erroring (preserved simplification).
	msg := mscp.NewCommandMessage(0, 1, mscp.OpGetUnitStatus, NextUnitModifier, nil)
	resp := submitAndWait(t, disk.Base, p, msg)
	assert.Equal(t, uint16(0), resp.UnitNumber())
}

func TestReadWriteRoundTrip(t *testing.T) {
	disk, p, d := newTestDisk(t)
	disk.Start()
	defer disk.Stop()

	_, err := d.Online()
	require.NoError(t, err)

	data := []byte("hello rt11 world")
	padded := make([]byte, drive.BlockSize)
	copy(padded, data)
	p.WriteMemory(100, padded)

	params := make([]byte, transferParamSize)
	binary.LittleEndian.PutUint32(params[offByteCount:], drive.BlockSize)
	binary.LittleEndian.PutUint32(params[offBufferAddr:], 100)
	binary.LittleEndian.PutUint32(params[offLBN:], 5)

	writeMsg := mscp.NewCommandMessage(0, 1, mscp.OpWrite, 0, params)
	writeResp := submitAndWait(t, disk.Base, p, writeMsg)
	require.Equal(t, mscp.StatusSuccess, writeResp.StatusCode())

	readParams := make([]byte, transferParamSize)
	binary.LittleEndian.PutUint32(readParams[offByteCount:], drive.BlockSize)
	binary.LittleEndian.PutUint32(readParams[offBufferAddr:], 300)
	binary.LittleEndian.PutUint32(readParams[offLBN:], 5)

	readMsg := mscp.NewCommandMessage(0, 2, mscp.OpRead, 0, readParams)
	readResp := submitAndWait(t, disk.Base, p, readMsg)
	require.Equal(t, mscp.StatusSuccess, readResp.StatusCode())

	got := p.ReadMemory(300, drive.BlockSize)
	assert.Equal(t, padded, got)
}
