package dashboard

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkoosis/cellmon/cellmon"
)

// caserWrapper wraps a cases.Caser to allow pointer storage in sync.Pool.
type caserWrapper struct {
	caser cases.Caser
}

// titleCaserPool provides a pool of cases.Title instances for concurrent use.
// cases.Title is not safe for concurrent use, so we pool instances to avoid
// creating a new one on every call while maintaining thread safety.
var titleCaserPool = sync.Pool{
	New: func() interface{} {
		return &caserWrapper{caser: cases.Title(language.English)}
	},
}

func threadSafeTitle(s string) string {
	wrapper, ok := titleCaserPool.Get().(*caserWrapper)
	if !ok || wrapper == nil {
		caser := cases.Title(language.English)
		return caser.String(s)
	}
	defer titleCaserPool.Put(wrapper)
	return wrapper.caser.String(s)
}

// visualWidth returns the display width of a string in terminal cells.
// Uses go-runewidth for accurate handling of East Asian Wide characters,
// emojis, and other Unicode characters that occupy multiple cells.
func visualWidth(s string) int {
	return runewidth.StringWidth(s)
}

// truncateLine fits s into width terminal cells, appending "..." when
// content was cut.
func truncateLine(s string, width int) string {
	if width <= 0 || visualWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// statusWord names a record's outcome in lowercase. Callers title-case it
// for display.
func statusWord(r cellmon.Record) string {
	if r.Failed {
		return "failed"
	}
	return "ok"
}

// summaryLine is the one-line list entry for a record: sequence number,
// first source line, duration.
func summaryLine(r cellmon.Record, width int) string {
	src := strings.TrimSpace(r.Source)
	if i := strings.IndexByte(src, '\n'); i >= 0 {
		src = src[:i]
	}
	if src == "" {
		src = "(empty cell)"
	}
	line := fmt.Sprintf("[%d] %s %s", r.Seq, src, formatDuration(r.Elapsed))
	return truncateLine(line, width)
}

// FormatDetail renders the full record for the detail pane: numbered source,
// outcome, result, and timing. Lines are truncated to width cells.
func FormatDetail(r cellmon.Record, width int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Cell %d  %s\n", r.Seq, threadSafeTitle(statusWord(r))))
	sb.WriteString(fmt.Sprintf("Started: %s  Elapsed: %.3f seconds\n", r.Started.Format("15:04:05"), r.Elapsed.Seconds()))
	sb.WriteString("\n")

	for i, line := range strings.Split(strings.TrimSpace(r.Source), "\n") {
		sb.WriteString(truncateLine(fmt.Sprintf("[%2d] %s", i+1, line), width))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	if r.Result == "" && r.Type == "" {
		sb.WriteString("No return value\n")
	} else {
		sb.WriteString(fmt.Sprintf("Result type: %s\n", r.Type))
		if r.Result != "" {
			sb.WriteString(truncateLine(fmt.Sprintf("Result preview: %s", r.Result), width))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// RenderLog writes a plain listing of records, newest last. It is the
// non-interactive fallback for the history browser.
func RenderLog(out io.Writer, records []cellmon.Record) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No cells executed yet.")
		return
	}
	for _, r := range records {
		fmt.Fprintln(out, summaryLine(r, 0))
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%d cell(s) recorded\n", len(records))
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	tenths := d.Round(100 * time.Millisecond)
	return fmt.Sprintf("%.1fs", tenths.Seconds())
}
