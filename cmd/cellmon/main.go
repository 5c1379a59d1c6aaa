// cellmon is an interactive shell whose cell executions are monitored:
// before a cell runs its source is echoed with line numbers, output
// produced while it runs is forwarded live with a [REALTIME] prefix, and
// a post-run summary reports timing and the cell's result value.
//
// Usage:
//
//	cellmon                    start the monitored REPL
//	cellmon -c 'make test'     run one cell and exit with its status
//	echo 'ls -l' | cellmon     run cells from a script on stdin
//
// Inside the session, %-prefixed commands drive the monitor:
//
//	%monitor-on       activate cell execution monitoring
//	%monitor-off      deactivate it
//	%monitor-status   report the current state
//	%monitor-log      browse the execution log
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/dkoosis/cellmon/cellmon"
	"github.com/dkoosis/cellmon/internal/config"
	"github.com/dkoosis/cellmon/internal/kernel"
	"github.com/dkoosis/cellmon/internal/version"
	"github.com/dkoosis/cellmon/pkg/dashboard"
	"github.com/dkoosis/cellmon/pkg/host"
	"github.com/dkoosis/cellmon/pkg/render"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cellmon", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var cli config.CliFlags
	var versionFlag bool
	var oneShot string
	fs.StringVar(&cli.Theme, "theme", "", "Theme: default, orca, mono")
	fs.StringVar(&cli.Shell, "shell", "", "Shell used to run cells")
	fs.StringVar(&cli.HistoryFile, "history-file", "", "Readline history file")
	fs.IntVar(&cli.HistorySize, "history-size", 0, "Execution log capacity")
	fs.BoolVar(&cli.NoColor, "no-color", false, "Disable ANSI color/styling output")
	fs.BoolVar(&cli.Debug, "debug", false, "Enable debug output")
	fs.BoolVar(&cli.PTY, "pty", false, "Run cells on a pseudo-terminal")
	fs.BoolVar(&versionFlag, "version", false, "Print cellmon version and exit")
	fs.BoolVar(&versionFlag, "v", false, "Print cellmon version and exit (shorthand)")
	fs.StringVar(&oneShot, "c", "", "Run a single cell and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "no-color":
			cli.NoColorSet = true
		case "debug":
			cli.DebugSet = true
		case "pty":
			cli.PTYSet = true
		}
	})

	if versionFlag {
		fmt.Fprintln(stdout, version.String())
		return 0
	}

	settings := config.Resolve(config.LoadConfig(), cli)
	if settings.Debug {
		fmt.Fprintf(stderr, "[DEBUG run] settings: %+v\n", settings)
	}
	theme := pickTheme(settings)

	streams := host.NewStreams(stdout, stderr)
	eval := kernel.New(kernel.Config{Shell: settings.Shell, PTY: settings.PTY, Debug: settings.Debug})
	session := host.NewSession(streams, eval)

	_, err := cellmon.Install(session, cellmon.Options{
		Theme:       theme,
		HistorySize: settings.HistorySize,
		LogViewer:   logViewer(session, theme, stdout),
	})
	if err != nil {
		fmt.Fprintf(stderr, "cellmon: %v; cells will run unmonitored\n", err)
	}

	if oneShot != "" {
		return runOnce(session, oneShot, stderr)
	}
	if isTTYReader(stdin) {
		return runREPL(session, settings, stdout, stderr)
	}
	return runScript(session, stdin, stderr)
}

// pickTheme maps resolved settings to a concrete theme. NoColor forces the
// monochrome theme regardless of the configured name.
func pickTheme(settings config.Settings) render.Theme {
	if settings.NoColor {
		return render.MonoTheme()
	}
	return render.ThemeByName(settings.Theme)
}

// logViewer routes the monitor-log command: the interactive browser on a
// terminal, a plain listing otherwise.
func logViewer(session *host.Session, theme render.Theme, stdout io.Writer) func([]cellmon.Record) {
	return func(records []cellmon.Record) {
		if isTTYWriter(stdout) {
			if err := dashboard.Browse(context.Background(), records, theme); err == nil {
				return
			}
		}
		dashboard.RenderLog(session.Streams.Out(), records)
	}
}

// isTTYReader reports whether r is a terminal.
func isTTYReader(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// runOnce executes a single -c cell. The cell's integer result becomes the
// process exit status.
func runOnce(session *host.Session, src string, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	result, err := session.RunCell(ctx, src)
	if err != nil {
		fmt.Fprintf(stderr, "cellmon: %v\n", err)
		return 1
	}
	if code, ok := result.(int); ok {
		return code
	}
	return 0
}

// runScript reads cells from a non-interactive stdin, one per line, with
// backslash continuation joining lines into multi-line cells.
func runScript(session *host.Session, stdin io.Reader, stderr io.Writer) int {
	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var cell strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasSuffix(line, "\\") {
			cell.WriteString(strings.TrimSuffix(line, "\\"))
			cell.WriteString("\n")
			continue
		}
		cell.WriteString(line)
		input := cell.String()
		cell.Reset()
		if submit(session, input, stderr) {
			return 0
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(stderr, "cellmon: reading stdin: %v\n", err)
		return 2
	}
	return 0
}

// runREPL is the interactive loop. Ctrl-C clears the current input,
// Ctrl-D or exit leaves the session.
func runREPL(session *host.Session, settings config.Settings, stdout, stderr io.Writer) int {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt(1),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistoryFile:       settings.HistoryFile,
		HistoryLimit:      historyLimit(settings),
		HistorySearchFold: true,
		AutoComplete:      commandCompleter{session: session},
		Stdout:            stdout,
		Stderr:            stderr,
	})
	if err != nil {
		fmt.Fprintf(stderr, "cellmon: initializing readline: %v\n", err)
		return 1
	}
	defer func() { _ = rl.Close() }()

	fmt.Fprintf(stdout, "cellmon %s (cells run via %s)\n", version.Version, shellName(settings))
	fmt.Fprintln(stdout, "Type %help for commands, exit to leave.")

	n := 1
	var cell strings.Builder
	for {
		if cell.Len() == 0 {
			rl.SetPrompt(prompt(n))
		} else {
			rl.SetPrompt("   ...: ")
		}
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				cell.Reset()
				continue
			}
			if errors.Is(err, io.EOF) {
				return 0
			}
			fmt.Fprintf(stderr, "cellmon: reading input: %v\n", err)
			return 1
		}
		if strings.HasSuffix(line, "\\") {
			cell.WriteString(strings.TrimSuffix(line, "\\"))
			cell.WriteString("\n")
			continue
		}
		cell.WriteString(line)
		input := cell.String()
		cell.Reset()
		if strings.TrimSpace(input) == "" {
			continue
		}
		n++
		if submit(session, input, stderr) {
			return 0
		}
	}
}

func prompt(n int) string {
	return fmt.Sprintf("In [%d]: ", n)
}

func historyLimit(settings config.Settings) int {
	if settings.HistorySize > 0 {
		return settings.HistorySize
	}
	return cellmon.DefaultHistorySize
}

func shellName(settings config.Settings) string {
	if settings.Shell != "" {
		return settings.Shell
	}
	return kernel.DefaultShell
}

// submit runs one assembled input: empty lines are skipped, exit/quit end
// the session, %-prefixed names dispatch session commands, anything else
// executes as a cell. It reports whether the session should end.
func submit(session *host.Session, input string, stderr io.Writer) bool {
	input = strings.TrimSpace(input)
	switch {
	case input == "":
		return false
	case input == "exit" || input == "quit":
		return true
	case strings.HasPrefix(input, "%"):
		dispatchCommand(session, strings.TrimPrefix(input, "%"), stderr)
		return false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	_, err := session.RunCell(ctx, input)
	stop()
	if err != nil {
		fmt.Fprintf(stderr, "cellmon: %v\n", err)
	}
	return false
}

func dispatchCommand(session *host.Session, name string, stderr io.Writer) {
	name = strings.TrimSpace(name)
	if name == "help" {
		printHelp(session)
		return
	}
	if !session.Dispatch(name) {
		fmt.Fprintf(stderr, "cellmon: unknown command %%%s (try %%help)\n", name)
	}
}

func printHelp(session *host.Session) {
	out := session.Streams.Out()
	fmt.Fprintln(out, "Session commands:")
	for _, cmd := range session.Commands() {
		fmt.Fprintf(out, "  %%%-16s %s\n", cmd.Name, cmd.Help)
	}
	fmt.Fprintln(out, "  exit, quit        leave the session")
}

// commandCompleter completes %-prefixed session commands at the prompt.
type commandCompleter struct {
	session *host.Session
}

// Do implements the readline.AutoCompleter interface. Completions carry
// only the suffix after what the user already typed.
func (c commandCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	if !strings.HasPrefix(text, "%") {
		return nil, 0
	}
	word := text[1:]
	names := make([]string, 0, 8)
	for _, cmd := range c.session.Commands() {
		names = append(names, cmd.Name)
	}
	names = append(names, "help")

	var out [][]rune
	for _, name := range names {
		if strings.HasPrefix(name, word) && name != word {
			out = append(out, []rune(name[len(word):]))
		}
	}
	return out, len(word)
}
