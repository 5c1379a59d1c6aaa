package main

import (
	"bytes"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/cellmon/internal/config"
	"github.com/dkoosis/cellmon/pkg/host"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available on this system")
	}
}

// isolateConfig blanks every configuration source so runs only see flags.
func isolateConfig(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CELLMON_THEME", "CELLMON_SHELL", "CELLMON_HISTORY_FILE",
		"CELLMON_DEBUG", "CELLMON_PTY", "CELLMON_NO_COLOR", "NO_COLOR",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func runWith(t *testing.T, args []string, stdin string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_When_VersionFlag(t *testing.T) {
	isolateConfig(t)

	code, stdout, _ := runWith(t, []string{"-version"}, "")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "cellmon version")
}

func TestRun_When_UnknownFlag(t *testing.T) {
	isolateConfig(t)

	code, _, stderr := runWith(t, []string{"-definitely-not-a-flag"}, "")

	assert.Equal(t, 2, code)
	assert.NotEmpty(t, stderr)
}

func TestRun_When_OneShotCell(t *testing.T) {
	requireShell(t)
	isolateConfig(t)

	code, stdout, _ := runWith(t, []string{"-c", "printf hi"}, "")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "PRE-RUN: cell source")
	assert.Contains(t, stdout, "[REALTIME] hi")
	assert.Contains(t, stdout, "POST-RUN: execution complete")
}

func TestRun_When_OneShotPropagatesExitStatus(t *testing.T) {
	requireShell(t)
	isolateConfig(t)

	code, _, _ := runWith(t, []string{"-c", "exit 3"}, "")
	assert.Equal(t, 3, code)
}

func TestRun_When_OneShotEvaluationError(t *testing.T) {
	isolateConfig(t)

	code, _, stderr := runWith(t, []string{"-shell", "/definitely/missing/shell", "-c", "true"}, "")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "cellmon:")
}

func TestRun_When_ScriptExecutesCells(t *testing.T) {
	requireShell(t)
	isolateConfig(t)

	code, stdout, _ := runWith(t, nil, "printf one\nprintf two\n")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "[REALTIME] one")
	assert.Contains(t, stdout, "[REALTIME] two")
	assert.Equal(t, 2, strings.Count(stdout, "PRE-RUN: cell source"))
}

func TestRun_When_ScriptContinuationJoinsCell(t *testing.T) {
	requireShell(t)
	isolateConfig(t)

	code, stdout, _ := runWith(t, nil, "printf one\\\nprintf two\n")

	assert.Equal(t, 0, code)
	assert.Equal(t, 1, strings.Count(stdout, "PRE-RUN: cell source"))
	assert.Contains(t, stdout, "[ 1] printf one")
	assert.Contains(t, stdout, "[ 2] printf two")
	assert.Contains(t, stdout, "one")
	assert.Contains(t, stdout, "two")
}

func TestRun_When_MonitorOffSilencesReports(t *testing.T) {
	requireShell(t)
	isolateConfig(t)

	code, stdout, _ := runWith(t, nil, "%monitor-off\nprintf quiet\n")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Cell monitor deactivated")
	assert.Contains(t, stdout, "quiet")
	assert.NotContains(t, stdout, "[REALTIME]")
	assert.NotContains(t, stdout, "PRE-RUN")
}

func TestRun_When_ScriptExitStopsProcessing(t *testing.T) {
	requireShell(t)
	isolateConfig(t)

	code, stdout, _ := runWith(t, nil, "exit\nprintf after\n")

	assert.Equal(t, 0, code)
	assert.NotContains(t, stdout, "after")
}

func TestRun_When_UnknownPercentCommand(t *testing.T) {
	isolateConfig(t)

	_, _, stderr := runWith(t, nil, "%bogus\n")
	assert.Contains(t, stderr, "unknown command %bogus")
}

func TestRun_When_HelpListsCommands(t *testing.T) {
	isolateConfig(t)

	_, stdout, _ := runWith(t, nil, "%help\n")

	assert.Contains(t, stdout, "monitor-status")
	assert.Contains(t, stdout, "exit, quit")
}

func TestRun_When_MonitorLogListsCells(t *testing.T) {
	requireShell(t)
	isolateConfig(t)

	_, stdout, _ := runWith(t, nil, "printf hi\n%monitor-log\n")

	assert.Contains(t, stdout, "[1] printf hi")
	assert.Contains(t, stdout, "1 cell(s) recorded")
}

func TestRun_When_StatusCommand(t *testing.T) {
	isolateConfig(t)

	_, stdout, _ := runWith(t, nil, "%monitor-status\n")
	assert.Contains(t, stdout, "status: ACTIVE")
}

func TestPickTheme_When_NoColorForcesMono(t *testing.T) {
	t.Parallel()

	theme := pickTheme(config.Settings{Theme: "orca", NoColor: true})
	assert.Equal(t, "mono", theme.Name)
}

func TestPickTheme_When_NamedTheme(t *testing.T) {
	t.Parallel()

	theme := pickTheme(config.Settings{Theme: "orca"})
	assert.Equal(t, "orca", theme.Name)
}

func TestCommandCompleter_When_PercentPrefix(t *testing.T) {
	t.Parallel()

	session := host.NewSession(nil, nil)
	require.NoError(t, session.RegisterCommand(host.Command{
		Name: "monitor-on",
		Run:  func(*host.Session) {},
	}))

	c := commandCompleter{session: session}
	line := []rune("%mon")
	got, length := c.Do(line, len(line))

	require.Len(t, got, 1)
	assert.Equal(t, "itor-on", string(got[0]))
	assert.Equal(t, 3, length)
}

func TestCommandCompleter_When_NotACommandLine(t *testing.T) {
	t.Parallel()

	c := commandCompleter{session: host.NewSession(nil, nil)}
	got, length := c.Do([]rune("echo hi"), 7)

	assert.Nil(t, got)
	assert.Zero(t, length)
}
