package cellmon

import (
	"sync"
	"time"

	"github.com/dkoosis/cellmon/pkg/host"
)

// cellSourceFallback is reported when no cell source was stashed in the
// namespace before the pre-execute event fired.
const cellSourceFallback = "(no cell source available)"

// Hook wires the monitor's pre/post execution callbacks into a session's
// event registry. It is a two-state toggle: Activate and Deactivate are
// idempotent, and the callbacks never fire while inactive because
// deactivation removes them from the registry.
type Hook struct {
	session  *host.Session
	capture  *Capture
	reporter *Reporter
	clock    func() time.Time

	mu     sync.Mutex
	active bool
	preID  int
	postID int
}

// NewHook creates an inactive hook over the given session, capture, and
// reporter.
func NewHook(session *host.Session, capture *Capture, reporter *Reporter) *Hook {
	return &Hook{
		session:  session,
		capture:  capture,
		reporter: reporter,
		clock:    time.Now,
	}
}

// Activate registers the callbacks and prints the activation notice.
// No-op when already active: the callbacks are registered exactly once
// and the notice is not repeated.
func (h *Hook) Activate() {
	h.mu.Lock()
	if h.active {
		h.mu.Unlock()
		return
	}
	h.preID = h.session.Events.Register(host.EventPreExecute, h.preExecute)
	h.postID = h.session.Events.Register(host.EventPostExecute, h.postExecute)
	h.active = true
	h.mu.Unlock()

	h.reporter.Activated()
}

// Deactivate unregisters the callbacks and prints the deactivation
// notice. No-op when already inactive.
func (h *Hook) Deactivate() {
	h.mu.Lock()
	if !h.active {
		h.mu.Unlock()
		return
	}
	h.session.Events.Unregister(host.EventPreExecute, h.preID)
	h.session.Events.Unregister(host.EventPostExecute, h.postID)
	h.active = false
	h.mu.Unlock()

	h.reporter.Deactivated()
}

// Active reports whether the callbacks are registered.
func (h *Hook) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// Status prints the colorized status line.
func (h *Hook) Status() {
	h.reporter.Status(h.Active())
}

// preExecute prints the pre-run report, starts the capture, and records
// the start timestamp in the namespace.
func (h *Hook) preExecute() {
	if !h.Active() {
		return
	}
	h.reporter.PreRun(h.cellSource())
	h.capture.Start()
	h.session.Set(host.KeyStartTime, h.clock())
}

// postExecute stops the capture, computes the elapsed time from the
// recorded start, and prints the post-run report. The captured text is
// deliberately discarded: the tee's job here is realtime forwarding, not
// retention.
func (h *Hook) postExecute() {
	if !h.Active() {
		return
	}
	_ = h.capture.Stop()

	var elapsed time.Duration
	if v, ok := h.session.Lookup(host.KeyStartTime); ok {
		if start, ok := v.(time.Time); ok {
			elapsed = h.clock().Sub(start)
		}
	}

	h.reporter.PostRun(h.session.Get(host.KeyLastResult), elapsed, h.cellSource())
}

func (h *Hook) cellSource() string {
	if v, ok := h.session.Lookup(host.KeyCellSource); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return cellSourceFallback
}
