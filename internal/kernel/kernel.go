// Package kernel evaluates cells as shell commands. It implements
// host.Evaluator for the cellmon REPL: each cell body runs under the
// configured shell with its output wired to the session streams, so the
// monitor's capture sees everything the cell writes. The cell's result
// value is its exit status.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/dkoosis/cellmon/pkg/host"
)

// DefaultShell runs cells when no shell is configured.
const DefaultShell = "sh"

// ErrPTYUnsupported reports that PTY mode was requested on a platform
// without PTY support.
var ErrPTYUnsupported = errors.New("kernel: pty mode is not supported on this platform")

// Config controls how cells are executed.
type Config struct {
	// Shell is the command interpreter; DefaultShell when empty.
	Shell string

	// PTY runs cells under a pseudo-terminal with merged output, so
	// programs that sniff for a TTY keep their interactive behavior.
	PTY bool

	// Dir is the working directory for cells; inherited when empty.
	Dir string

	// Env entries are appended to the inherited environment.
	Env []string

	// Debug enables diagnostic prints to stderr.
	Debug bool
}

// Shell evaluates cells by handing them to a command interpreter.
type Shell struct {
	cfg Config
}

// New creates a shell evaluator from cfg.
func New(cfg Config) *Shell {
	if cfg.Shell == "" {
		cfg.Shell = DefaultShell
	}
	return &Shell{cfg: cfg}
}

// Eval runs src as a shell command line. Empty cells evaluate to nil
// without spawning anything. A cell that runs to completion evaluates to
// its exit status, whatever that status is; Eval only errors when the
// cell could not run at all or the context was canceled.
func (k *Shell) Eval(ctx context.Context, s *host.Session, src string) (any, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, nil
	}

	k.debugf("running cell via %s (pty=%v)", k.cfg.Shell, k.cfg.PTY)

	cmd := exec.CommandContext(ctx, k.cfg.Shell, "-c", src)
	cmd.Dir = k.cfg.Dir
	cmd.Env = append(os.Environ(), k.cfg.Env...)

	var err error
	if k.cfg.PTY {
		err = runPTY(cmd, s.Streams.Out())
	} else {
		cmd.Stdout = s.Streams.Out()
		cmd.Stderr = s.Streams.ErrOut()
		err = cmd.Run()
	}

	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return exitErr.ExitCode(), nil
	}
	return nil, fmt.Errorf("kernel: %s: %w", k.cfg.Shell, err)
}

func (k *Shell) debugf(format string, args ...any) {
	if !k.cfg.Debug {
		return
	}
	fmt.Fprintf(os.Stderr, "[DEBUG kernel] "+format+"\n", args...)
}
