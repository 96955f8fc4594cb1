/*
 * mscp11 - RT11 trace axis tests
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

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetRt11Trace() {
	atomic.StoreInt32(&traceLevel, 0)
}

func TestDebugUnknownOption(t *testing.T) {
	resetRt11Trace()
	defer resetRt11Trace()

	err := Debug("BOGUS")
	require.Error(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&traceLevel))
}

func TestDebugAccumulatesBits(t *testing.T) {
	resetRt11Trace()
	defer resetRt11Trace()

	require.NoError(t, Debug("PARSE"))
	assert.Equal(t, int32(TraceParse), atomic.LoadInt32(&traceLevel))

	require.NoError(t, Debug("RENDER"))
	assert.Equal(t, int32(TraceParse|TraceRender), atomic.LoadInt32(&traceLevel))
}

func TestDebugAllSetsEverything(t *testing.T) {
	resetRt11Trace()
	defer resetRt11Trace()

	require.NoError(t, Debug("ALL"))
	assert.Equal(t, int32(TraceParse|TraceRender|TraceImport), atomic.LoadInt32(&traceLevel))
}

func TestTracefDoesNotPanicWithNoFlagsSet(t *testing.T) {
	resetRt11Trace()
	defer resetRt11Trace()

	assert.NotPanics(t, func() {
		tracef(TraceParse, "volume %q: %d blocks", "TEST", 10)
	})
}
