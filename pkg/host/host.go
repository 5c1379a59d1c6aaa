// Package host provides the interactive session object a cell monitor
// attaches to: named execution events, a mutable namespace, swappable
// output targets, argument-less commands, and the raw-cell transform
// chain. A Session is constructed by the application entry point and
// passed by reference; nothing in this package is process-global.
package host

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Well-known namespace keys.
const (
	// KeyCellSource holds the raw source of the cell about to execute.
	KeyCellSource = "_cell_source"

	// KeyStartTime holds the timestamp recorded before execution.
	KeyStartTime = "_cell_start_time"

	// KeyLastResult holds the most recent result value, notebook-style.
	KeyLastResult = "_"

	// KeyLastError holds the most recent evaluation error, nil after a
	// cell that evaluated cleanly.
	KeyLastError = "_err"
)

// Transform rewrites raw cell text before evaluation.
type Transform func(src string) string

// Evaluator executes transformed cell source and returns its result value.
// A non-nil error means evaluation could not run; an unsuccessful cell is
// still a successful evaluation.
type Evaluator interface {
	Eval(ctx context.Context, s *Session, src string) (any, error)
}

// Command is a named, argument-less session command.
type Command struct {
	Name string
	Help string
	Run  func(s *Session)
}

// Session is an interactive execution host. It owns the execution loop
// step (RunCell), event dispatch, the namespace, and the output targets.
type Session struct {
	Events  *Events
	Streams *Streams

	eval Evaluator

	mu        sync.RWMutex
	ns        map[string]any
	commands  map[string]Command
	transform Transform
}

// NewSession creates a session with the given output targets and
// evaluator. A nil streams gets discard targets; a nil evaluator is
// allowed until RunCell is called.
func NewSession(streams *Streams, eval Evaluator) *Session {
	if streams == nil {
		streams = NewStreams(nil, nil)
	}
	return &Session{
		Events:    NewEvents(),
		Streams:   streams,
		eval:      eval,
		ns:        make(map[string]any),
		commands:  make(map[string]Command),
		transform: func(src string) string { return src },
	}
}

// Set stores val under key in the session namespace.
func (s *Session) Set(key string, val any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ns[key] = val
}

// Get returns the value stored under key, or nil when absent.
func (s *Session) Get(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ns[key]
}

// Lookup returns the value stored under key and whether it was present.
func (s *Session) Lookup(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.ns[key]
	return v, ok
}

// RegisterCommand adds cmd to the session's command table. A later
// registration under the same name replaces the earlier one, so a
// reloaded extension rebinds its commands instead of erroring.
func (s *Session) RegisterCommand(cmd Command) error {
	if cmd.Name == "" {
		return errors.New("host: command name is empty")
	}
	if cmd.Run == nil {
		return fmt.Errorf("host: command %q has no handler", cmd.Name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands[cmd.Name] = cmd
	return nil
}

// Command returns the named command and whether it is registered.
func (s *Session) Command(name string) (Command, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cmd, ok := s.commands[name]
	return cmd, ok
}

// Commands returns the registered commands sorted by name.
func (s *Session) Commands() []Command {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Command, 0, len(s.commands))
	for _, cmd := range s.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Dispatch runs the named command. It reports whether the name was
// registered.
func (s *Session) Dispatch(name string) bool {
	cmd, ok := s.Command(name)
	if !ok {
		return false
	}
	cmd.Run(s)
	return true
}

// WrapTransform installs wrap as the new head of the transform chain. The
// wrapper receives the previous transform and decides whether to call it;
// there is no unwrap.
func (s *Session) WrapTransform(wrap func(next Transform) Transform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transform = wrap(s.transform)
}

// Transform applies the current transform chain to src.
func (s *Session) Transform(src string) string {
	s.mu.RLock()
	t := s.transform
	s.mu.RUnlock()
	return t(src)
}

// RunCell executes one cell: transform the raw source, emit pre-execute,
// evaluate, store the result under KeyLastResult and the error under
// KeyLastError, emit post-execute. The post event fires even when
// evaluation fails or panics, matching the finally semantics interactive
// hosts give their post-execution hooks.
func (s *Session) RunCell(ctx context.Context, raw string) (result any, err error) {
	if s.eval == nil {
		return nil, errors.New("host: session has no evaluator")
	}
	src := s.Transform(raw)
	s.Events.Emit(EventPreExecute)
	defer s.Events.Emit(EventPostExecute)
	result, err = s.eval.Eval(ctx, s, src)
	s.Set(KeyLastResult, result)
	s.Set(KeyLastError, err)
	return result, err
}
