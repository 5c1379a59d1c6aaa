package cellmon

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/cellmon/pkg/host"
	"github.com/dkoosis/cellmon/pkg/render"
)

func newTestCapture() (*Capture, *host.Streams, *bytes.Buffer) {
	var out bytes.Buffer
	streams := host.NewStreams(&out, &out)
	return NewCapture(streams, render.MonoTheme()), streams, &out
}

func TestCapture_When_StartInstallsAndStopRestores(t *testing.T) {
	t.Parallel()

	c, streams, out := newTestCapture()

	assert.False(t, c.Active())
	c.Start()
	assert.True(t, c.Active())
	assert.Same(t, c, streams.Stdout().(*Capture))
	assert.Same(t, c, streams.Stderr().(*Capture))

	c.Stop()
	assert.False(t, c.Active())
	assert.Same(t, out, streams.Stdout().(*bytes.Buffer))
	assert.Same(t, out, streams.Stderr().(*bytes.Buffer))
}

func TestCapture_When_StartIsIdempotent(t *testing.T) {
	t.Parallel()

	c, streams, out := newTestCapture()

	c.Start()
	c.Start()

	text := c.Stop()
	assert.Equal(t, "", text)
	// The first snapshot survives the second Start: Stop restores the
	// real target, not the capture itself.
	assert.Same(t, out, streams.Stdout().(*bytes.Buffer))
}

func TestCapture_When_StopWithoutStart(t *testing.T) {
	t.Parallel()

	c, streams, out := newTestCapture()

	assert.Equal(t, "", c.Stop())
	assert.Same(t, out, streams.Stdout().(*bytes.Buffer))
	assert.False(t, c.Active())
}

func TestCapture_When_WhitespaceChunksDropped(t *testing.T) {
	t.Parallel()

	c, _, out := newTestCapture()

	c.Start()
	for _, chunk := range []string{"", "   ", "\n", "\t\n  "} {
		n, err := c.Write([]byte(chunk))
		require.NoError(t, err)
		assert.Equal(t, len(chunk), n)
	}

	assert.Equal(t, "", c.Stop())
	assert.Equal(t, "", out.String())
}

func TestCapture_When_WriteBuffersAndForwards(t *testing.T) {
	t.Parallel()

	c, _, out := newTestCapture()

	c.Start()
	n, err := c.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	assert.Equal(t, "hello", c.Stop())
	assert.Equal(t, "[REALTIME] hello\n", out.String())
}

func TestCapture_When_ChunksJoinInArrivalOrder(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestCapture()

	c.Start()
	_, _ = c.Write([]byte("one\n"))
	_, _ = c.Write([]byte("two\n"))
	_, _ = c.Write([]byte("three"))

	assert.Equal(t, "one\ntwo\nthree", c.Stop())
}

func TestCapture_When_SinkClearedBetweenSessions(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestCapture()

	c.Start()
	_, _ = c.Write([]byte("first"))
	assert.Equal(t, "first", c.Stop())

	c.Start()
	assert.Equal(t, "", c.Stop())
}

func TestCapture_When_LateWriteAfterStop(t *testing.T) {
	t.Parallel()

	c, _, out := newTestCapture()

	c.Start()
	c.Stop()
	out.Reset()

	// A goroutine holding a stale handle writes after the session ended:
	// the chunk still reaches the real target but is not captured.
	_, _ = c.Write([]byte("straggler"))
	assert.Equal(t, "[REALTIME] straggler\n", out.String())

	c.Start()
	assert.Equal(t, "", c.Stop())
}

func TestCapture_When_WritingThroughSessionStreams(t *testing.T) {
	t.Parallel()

	c, streams, out := newTestCapture()

	c.Start()
	_, err := streams.Out().Write([]byte("via stdout\n"))
	require.NoError(t, err)
	_, err = streams.ErrOut().Write([]byte("via stderr\n"))
	require.NoError(t, err)

	assert.Equal(t, "via stdout\nvia stderr\n", c.Stop())
	assert.Contains(t, out.String(), "[REALTIME] via stdout")
	assert.Contains(t, out.String(), "[REALTIME] via stderr")
}

func TestCapture_When_RunRestoresTargetsOnPanic(t *testing.T) {
	t.Parallel()

	c, streams, out := newTestCapture()

	func() {
		defer func() {
			require.NotNil(t, recover())
		}()
		c.Run(func() {
			_, _ = streams.Out().Write([]byte("before the crash\n"))
			panic("cell exploded")
		})
	}()

	assert.False(t, c.Active())
	assert.Same(t, out, streams.Stdout().(*bytes.Buffer))
}

func TestCapture_When_RunReturnsCapturedText(t *testing.T) {
	t.Parallel()

	c, streams, _ := newTestCapture()

	captured := c.Run(func() {
		_, _ = streams.Out().Write([]byte("scoped"))
	})

	assert.Equal(t, "scoped", captured)
	assert.False(t, c.Active())
}

func TestCapture_When_ConcurrentWriters(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestCapture()

	c.Start()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				_, _ = c.Write([]byte(fmt.Sprintf("w%d-%d\n", n, j)))
			}
		}(i)
	}
	wg.Wait()

	text := c.Stop()
	assert.Equal(t, 200, strings.Count(text, "\n"))
}

func TestCapture_When_ForwardTargetSupportsFlush(t *testing.T) {
	t.Parallel()

	var raw bytes.Buffer
	buffered := bufio.NewWriter(&raw)
	streams := host.NewStreams(buffered, buffered)
	c := NewCapture(streams, render.MonoTheme())

	c.Start()
	_, _ = c.Write([]byte("pushed through"))
	c.Stop()

	// The forward path flushes the displaced writer itself.
	assert.Contains(t, raw.String(), "[REALTIME] pushed through")
}

func TestCapture_When_FlushWithoutSnapshot(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestCapture()
	assert.NotPanics(t, func() { c.Flush() })
}
