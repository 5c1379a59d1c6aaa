package cellmon

import (
	"sync"
	"time"

	"github.com/dkoosis/cellmon/pkg/host"
)

// DefaultHistorySize bounds the in-memory execution log.
const DefaultHistorySize = 200

// Record is one cell execution as seen by the history recorder.
type Record struct {
	Seq     int
	Source  string
	Started time.Time
	Elapsed time.Duration
	Result  string // rendered preview, "" when the cell returned nothing
	Type    string // result type name, "" when the cell returned nothing
	Failed  bool
}

// History records per-cell execution metadata through the same event
// pair the hook uses, independently of the hook's activation state. It
// reads namespace keys only; captured output is never retained.
type History struct {
	clock func() time.Time

	mu      sync.Mutex
	cap     int
	seq     int
	session *host.Session
	pending Record
	records []Record
	preID   int
	postID  int
}

// NewHistory creates a recorder keeping at most capacity records; zero or
// negative capacity means DefaultHistorySize.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{cap: capacity, clock: time.Now}
}

// Attach registers the recorder on the session's execution events.
// Attaching twice is a no-op.
func (h *History) Attach(s *host.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session != nil {
		return
	}
	h.session = s
	h.preID = s.Events.Register(host.EventPreExecute, h.preExecute)
	h.postID = s.Events.Register(host.EventPostExecute, h.postExecute)
}

// Detach unregisters the recorder. Recorded history is kept.
func (h *History) Detach() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session == nil {
		return
	}
	h.session.Events.Unregister(host.EventPreExecute, h.preID)
	h.session.Events.Unregister(host.EventPostExecute, h.postID)
	h.session = nil
}

// Records returns a copy of the recorded history, oldest first.
func (h *History) Records() []Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Record, len(h.records))
	copy(out, h.records)
	return out
}

// Len returns the number of recorded executions.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}

func (h *History) preExecute() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session == nil {
		return
	}
	h.seq++
	rec := Record{Seq: h.seq, Started: h.clock()}
	if v, ok := h.session.Lookup(host.KeyCellSource); ok {
		if s, ok := v.(string); ok {
			rec.Source = s
		}
	}
	h.pending = rec
}

func (h *History) postExecute() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session == nil || h.pending.Seq == 0 {
		return
	}
	rec := h.pending
	h.pending = Record{}
	rec.Elapsed = h.clock().Sub(rec.Started)
	if result := h.session.Get(host.KeyLastResult); result != nil {
		rec.Result = previewString(result)
		rec.Type = typeName(result)
	}
	if err, ok := h.session.Get(host.KeyLastError).(error); ok && err != nil {
		rec.Failed = true
	}
	if len(h.records) == h.cap {
		copy(h.records, h.records[1:])
		h.records[len(h.records)-1] = rec
		return
	}
	h.records = append(h.records, rec)
}
