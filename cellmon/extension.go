package cellmon

import (
	"errors"

	"github.com/dkoosis/cellmon/pkg/host"
	"github.com/dkoosis/cellmon/pkg/render"
)

// ErrHostUnavailable reports that the monitor was loaded without a usable
// host session. It is detected once at install time; the caller prints a
// notice and the monitor does nothing further.
var ErrHostUnavailable = errors.New("cellmon: host session unavailable")

// Command names the monitor registers on install.
const (
	CmdMonitorOn     = "monitor-on"
	CmdMonitorOff    = "monitor-off"
	CmdMonitorStatus = "monitor-status"
	CmdMonitorLog    = "monitor-log"
)

// Options configures Install.
type Options struct {
	// Theme styles all monitor output. The zero value means DefaultTheme.
	Theme render.Theme

	// HistorySize bounds the execution log; 0 means DefaultHistorySize.
	HistorySize int

	// LogViewer, when set, handles the monitor-log command instead of the
	// plain-text listing. The REPL installs the dashboard here.
	LogViewer func(records []Record)
}

// Monitor bundles the capture, reporter, hook, and history attached to
// one session.
type Monitor struct {
	session  *host.Session
	capture  *Capture
	reporter *Reporter
	hook     *Hook
	history  *History
	viewer   func(records []Record)
}

// Install attaches a monitor to session: the transform chain is wrapped
// so each cell's raw source lands in the namespace before any other
// transform runs, the monitor commands are registered, the history
// recorder is attached, and the hook is activated. Install returns
// ErrHostUnavailable when session is nil.
func Install(session *host.Session, opts Options) (*Monitor, error) {
	if session == nil {
		return nil, ErrHostUnavailable
	}

	theme := opts.Theme
	if theme.Name == "" {
		theme = render.DefaultTheme()
	}

	capture := NewCapture(session.Streams, theme)
	reporter := NewReporter(theme, session.Streams.Out())
	m := &Monitor{
		session:  session,
		capture:  capture,
		reporter: reporter,
		hook:     NewHook(session, capture, reporter),
		history:  NewHistory(opts.HistorySize),
		viewer:   opts.LogViewer,
	}

	// Stash the raw source before any other transform sees the cell.
	session.WrapTransform(func(next host.Transform) host.Transform {
		return func(src string) string {
			session.Set(host.KeyCellSource, src)
			return next(src)
		}
	})

	commands := []host.Command{
		{Name: CmdMonitorOn, Help: "activate cell execution monitoring", Run: func(*host.Session) { m.hook.Activate() }},
		{Name: CmdMonitorOff, Help: "deactivate cell execution monitoring", Run: func(*host.Session) { m.hook.Deactivate() }},
		{Name: CmdMonitorStatus, Help: "report whether monitoring is active", Run: func(*host.Session) { m.hook.Status() }},
		{Name: CmdMonitorLog, Help: "review the session's execution log", Run: func(*host.Session) { m.ShowLog() }},
	}
	for _, cmd := range commands {
		if err := session.RegisterCommand(cmd); err != nil {
			return nil, err
		}
	}

	m.history.Attach(session)
	m.hook.Activate()
	return m, nil
}

// Close deactivates the monitor and detaches the history recorder. The
// transform wrapper stays installed; it only records the cell source and
// is harmless while the monitor is inactive.
func (m *Monitor) Close() {
	m.hook.Deactivate()
	m.history.Detach()
}

// Hook exposes the activation toggle.
func (m *Monitor) Hook() *Hook {
	return m.hook
}

// History exposes the execution log.
func (m *Monitor) History() *History {
	return m.history
}

// ShowLog displays the execution log through the configured viewer, or
// as plain lines when none is set.
func (m *Monitor) ShowLog() {
	records := m.history.Records()
	if m.viewer != nil {
		m.viewer(records)
		return
	}
	m.reporter.Log(records)
}
