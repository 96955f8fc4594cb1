/*
 * mscp11 - MemPort tests
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

package port

import (
	"testing"

	"github.com/rcornwell/mscp11/mscp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemPortCommandRingIsFIFO(t *testing.T) {
	p := NewMemPort(4096, nil, 1, [8]byte{'M', 'S', 'C', 'P'})

	first := mscp.NewCommandMessage(0, 1, 1, 0, nil)
	second := mscp.NewCommandMessage(0, 2, 1, 0, nil)
	p.Submit(first)
	p.Submit(second)

	got, err := p.GetNextCommand()
	require.NoError(t, err)
	assert.Same(t, first, got)

	got, err = p.GetNextCommand()
	require.NoError(t, err)
	assert.Same(t, second, got)

	got, err = p.GetNextCommand()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemPortResponseRingIsFIFO(t *testing.T) {
	p := NewMemPort(4096, nil, 1, [8]byte{})

	msg := mscp.NewCommandMessage(0, 1, 1, 0, nil)
	require.NoError(t, p.PostResponse(msg))

	got, ok := p.NextResponse()
	require.True(t, ok)
	assert.Same(t, msg, got)

	_, ok = p.NextResponse()
	assert.False(t, ok)
}

func TestMemPortDMARoundTrip(t *testing.T) {
	p := NewMemPort(1024, nil, 1, [8]byte{})

	require.NoError(t, p.DMAWrite(100, []byte("payload")))
	got, err := p.DMARead(100, 7)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
}

func TestMemPortDMAOutOfRange(t *testing.T) {
	p := NewMemPort(16, nil, 1, [8]byte{})

	_, err := p.DMARead(10, 10)
	assert.ErrorIs(t, err, ErrNXM)

	err = p.DMAWrite(10, make([]byte, 10))
	assert.ErrorIs(t, err, ErrNXM)
}

func TestMemPortControllerID(t *testing.T) {
	id := [8]byte{'T', 'M', 'S', 'C', 'P'}
	p := NewMemPort(16, nil, 7, id)

	model, gotID := p.ControllerID()
	assert.Equal(t, uint16(7), model)
	assert.Equal(t, id, gotID)
}
