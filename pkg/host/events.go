package host

import "sync"

// Event names dispatched by Session.RunCell.
const (
	EventPreExecute  = "pre-execute"
	EventPostExecute = "post-execute"
)

// Callback is an event handler. Callbacks run synchronously on the
// session's execution loop in registration order.
type Callback func()

type handler struct {
	id int
	fn Callback
}

// Events is a named-event registry. Go functions are not comparable, so
// Register hands back an integer token and Unregister takes that token.
type Events struct {
	mu       sync.Mutex
	nextID   int
	handlers map[string][]handler
}

// NewEvents creates an empty registry.
func NewEvents() *Events {
	return &Events{handlers: make(map[string][]handler)}
}

// Register appends fn to the handler list for event and returns the token
// that removes it.
func (e *Events) Register(event string, fn Callback) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	e.handlers[event] = append(e.handlers[event], handler{id: e.nextID, fn: fn})
	return e.nextID
}

// Unregister removes the handler registered under id. It reports whether
// a handler was found.
func (e *Events) Unregister(event string, id int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	hs := e.handlers[event]
	for i, h := range hs {
		if h.id == id {
			e.handlers[event] = append(hs[:i:i], hs[i+1:]...)
			return true
		}
	}
	return false
}

// Count returns the number of handlers registered for event.
func (e *Events) Count(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handlers[event])
}

// Emit invokes every handler for event in registration order. The handler
// list is snapshot under the lock and invoked outside it, so a handler may
// register or unregister without deadlocking.
func (e *Events) Emit(event string) {
	e.mu.Lock()
	hs := make([]handler, len(e.handlers[event]))
	copy(hs, e.handlers[event])
	e.mu.Unlock()
	for _, h := range hs {
		h.fn()
	}
}
