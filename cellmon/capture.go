// Package cellmon monitors cell execution in an interactive session:
// it prints the cell source before a run, tees everything the cell
// writes while it runs, and prints a timing and result summary after.
// The monitor attaches to a host.Session through Install and owns no
// process-global state.
package cellmon

import (
	"io"
	"strings"
	"sync"

	"github.com/dkoosis/cellmon/pkg/host"
	"github.com/dkoosis/cellmon/pkg/render"
)

// realtimePrefix marks chunks forwarded to the displaced target while a
// capture is active.
const realtimePrefix = "[REALTIME] "

// Capture tees a session's output: while active it is installed as both
// output targets, buffering every chunk for retrieval at Stop and
// immediately forwarding a colorized copy to the target it displaced.
// Whitespace-only chunks are filtered out, so passthrough is not
// byte-exact.
//
// A single mutex covers Start, Stop, and Write: cells may spawn
// goroutines that are still writing while the main body runs.
type Capture struct {
	streams *host.Streams
	theme   render.Theme

	mu      sync.Mutex
	active  bool
	sink    []string
	prevOut io.Writer
	prevErr io.Writer
}

// NewCapture creates a capture bound to the given session streams.
func NewCapture(streams *host.Streams, theme render.Theme) *Capture {
	return &Capture{streams: streams, theme: theme}
}

// Start snapshots the current output targets, clears the sink, and
// installs the capture as both targets. Starting an active capture is a
// no-op; the earlier snapshot is kept.
func (c *Capture) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		return
	}
	c.sink = nil
	c.prevOut, c.prevErr = c.streams.Swap(c, c)
	c.active = true
}

// Stop restores the snapshotted targets and returns the buffered chunks
// joined in arrival order, clearing the sink. When no capture is active
// it returns "" and changes nothing.
func (c *Capture) Stop() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return ""
	}
	c.streams.Swap(c.prevOut, c.prevErr)
	c.active = false
	text := strings.Join(c.sink, "")
	c.sink = nil
	return text
}

// Active reports whether redirection is currently installed.
func (c *Capture) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Run captures everything fn writes to the session streams and returns
// it. Stop runs deferred, so the displaced targets come back even when
// fn panics.
func (c *Capture) Run(fn func()) (captured string) {
	c.Start()
	defer func() { captured = c.Stop() }()
	fn()
	return
}

// Write buffers p and forwards a prefixed, colorized copy to the
// displaced target, flushing it when it supports that. Whitespace-only
// chunks are dropped: the filter keeps reports quiet at the cost of
// byte-exact passthrough. Write never fails and always reports the full
// length.
//
// The snapshot outlives Stop, so a straggler goroutine writing through a
// stale handle still reaches the last real target; its chunks are not
// buffered because no capture is active.
func (c *Capture) Write(p []byte) (int, error) {
	chunk := string(p)
	if strings.TrimSpace(chunk) == "" {
		return len(p), nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		c.sink = append(c.sink, chunk)
	}
	if c.prevOut != nil {
		line := strings.TrimRight(chunk, "\n")
		_, _ = io.WriteString(c.prevOut, c.theme.Realtime.Render(realtimePrefix+line)+"\n")
		flushWriter(c.prevOut)
	}
	return len(p), nil
}

// Flush forwards a flush to the displaced target when one exists.
func (c *Capture) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.prevOut != nil {
		flushWriter(c.prevOut)
	}
}

func flushWriter(w io.Writer) {
	if f, ok := w.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
}
