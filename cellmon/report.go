package cellmon

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dkoosis/cellmon/pkg/render"
)

const (
	// bannerWidth is the rule width of the pre-run and post-run banners.
	bannerWidth = 60

	// previewLimit is the maximum rune count of a result preview.
	previewLimit = 200
)

// Reporter prints the monitor's reports. The three cell reports (PreRun,
// Realtime, PostRun) are stateless formatters; output goes through the
// writer handed to NewReporter, so reports follow whatever redirection
// the session has in effect when they print.
type Reporter struct {
	theme render.Theme
	out   io.Writer
	now   func() time.Time
}

// NewReporter creates a reporter writing to out with theme.
func NewReporter(theme render.Theme, out io.Writer) *Reporter {
	if out == nil {
		out = io.Discard
	}
	return &Reporter{theme: theme, out: out, now: time.Now}
}

// PreRun prints the report emitted before a cell executes: a banner, the
// trimmed cell source with 1-based line numbers, and a starting note.
// Empty cells print a single numbered blank line rather than erroring.
func (r *Reporter) PreRun(cell string) {
	th := r.theme
	head := th.Source.Bold(true)

	r.println("")
	r.println(head.Render(rule()))
	r.println(head.Render(th.Icons.Run + " PRE-RUN: cell source"))
	r.println(head.Render(rule()))
	for i, line := range strings.Split(strings.TrimSpace(cell), "\n") {
		r.println(th.Source.Render(fmt.Sprintf("[%2d] %s", i+1, line)))
	}
	r.println(th.Source.Render(rule()))
	r.println(th.Source.Render(th.Icons.Timer + " Execution starting..."))
	r.println(th.Source.Render(rule()))
	r.println("")
}

// Realtime prints one line of output with a wall-clock HH:MM:SS
// timestamp. Blank lines are dropped. This is the manual companion to
// the capture's own forwarding path.
func (r *Reporter) Realtime(text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}
	stamp := r.now().Format("15:04:05")
	r.println(r.theme.Realtime.Render(fmt.Sprintf("[%s] %s", stamp, trimmed)))
}

// PostRun prints the report emitted after a cell executes: a banner, the
// elapsed time to millisecond precision, the executed line count, and
// either the result's type name with a truncated preview or an explicit
// no-return-value line. Any result value is tolerated, including nil.
func (r *Reporter) PostRun(result any, elapsed time.Duration, cell string) {
	th := r.theme
	head := th.Summary.Bold(true)

	r.println("")
	r.println(head.Render(rule()))
	r.println(head.Render(th.Icons.Done + " POST-RUN: execution complete"))
	r.println(head.Render(rule()))
	r.println(th.Summary.Render(fmt.Sprintf("%s Execution time: %.3f seconds", th.Icons.Timer, elapsed.Seconds())))
	lineCount := len(strings.Split(strings.TrimSpace(cell), "\n"))
	r.println(th.Summary.Render(fmt.Sprintf("%s Lines executed: %d", th.Icons.Lines, lineCount)))
	if result != nil {
		preview := previewString(result)
		r.println(th.Summary.Render(fmt.Sprintf("%s Result type: %s", th.Icons.Result, typeName(result))))
		if strings.TrimSpace(preview) != "" {
			r.println(th.Summary.Render(fmt.Sprintf("%s Result preview: %s", th.Icons.Result, preview)))
		}
	} else {
		r.println(th.Summary.Render(th.Icons.Result + " No return value"))
	}
	r.println(th.Summary.Render(rule()))
	r.println(th.Summary.Render(th.Icons.Done + " Cell execution completed"))
	r.println(th.Summary.Render(rule()))
	r.println("")
}

// Activated prints the monitor activation notice.
func (r *Reporter) Activated() {
	r.println(r.theme.Accent.Render(r.theme.Icons.Run + " Cell monitor activated; all cell executions will be reported"))
}

// Deactivated prints the monitor deactivation notice.
func (r *Reporter) Deactivated() {
	r.println(r.theme.Alert.Render(r.theme.Icons.Fail + " Cell monitor deactivated"))
}

// Status prints the colorized ACTIVE/INACTIVE status line.
func (r *Reporter) Status(active bool) {
	th := r.theme
	if active {
		r.println(th.Realtime.Render(th.Icons.Done + " Cell monitor status: ACTIVE"))
		return
	}
	r.println(th.Alert.Render(th.Icons.Fail + " Cell monitor status: INACTIVE"))
}

// Log prints the execution history as plain lines, newest last. The
// dashboard is the interactive alternative on TTY output.
func (r *Reporter) Log(records []Record) {
	th := r.theme
	if len(records) == 0 {
		r.println(th.Muted.Render("no cells executed yet"))
		return
	}
	for _, rec := range records {
		status := th.Icons.Done
		if rec.Failed {
			status = th.Icons.Fail
		}
		line := fmt.Sprintf("[%3d] %s %s %8.3fs  %s",
			rec.Seq,
			rec.Started.Format("15:04:05"),
			status,
			rec.Elapsed.Seconds(),
			firstLine(rec.Source))
		r.println(th.Muted.Render(line))
	}
}

func (r *Reporter) println(line string) {
	_, _ = io.WriteString(r.out, line+"\n")
}

func rule() string {
	return strings.Repeat("=", bannerWidth)
}

// previewString renders result for display, truncated to previewLimit
// runes with a trailing ellipsis marker when longer.
func previewString(result any) string {
	s := fmt.Sprintf("%v", result)
	if runes := []rune(s); len(runes) > previewLimit {
		return string(runes[:previewLimit]) + "..."
	}
	return s
}

// typeName reports result's runtime type name.
func typeName(result any) string {
	return fmt.Sprintf("%T", result)
}

// firstLine truncates src to its first line for one-line listings.
func firstLine(src string) string {
	src = strings.TrimSpace(src)
	if i := strings.IndexByte(src, '\n'); i >= 0 {
		return src[:i] + " ..."
	}
	return src
}
