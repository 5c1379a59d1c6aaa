// Package config handles configuration loading and merging for cellmon.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (-theme, -shell, -history-file, -history-size, -no-color, -debug, -pty)
//  2. Environment variables (CELLMON_THEME, CELLMON_NO_COLOR, NO_COLOR, etc.)
//  3. YAML config file (.cellmon.yaml in the working directory or the user config dir)
//  4. Hardcoded defaults
//
// When a higher-priority source sets a value, it overrides any lower-priority values.
//
// # Key Configuration Options
//
//   - Theme: selects the visual theme for monitor output
//   - Shell: the shell binary cells are run with
//   - HistoryFile: where the interactive session persists its input history
//   - HistorySize: how many executed cells the session log retains
//   - NoColor: disables all ANSI colors
//   - PTY: runs cells on a pseudo-terminal instead of pipes
//
// # Environment Variables
//
// The following environment variables are recognized:
//
//   - CELLMON_THEME: theme name, as for -theme
//   - CELLMON_SHELL: shell binary, as for -shell
//   - CELLMON_HISTORY_FILE: input history path, as for -history-file
//   - CELLMON_NO_COLOR: set to "true" or "1" to disable colors; wins over NO_COLOR
//   - NO_COLOR: any non-empty value disables colors
//   - CELLMON_DEBUG: set to "true" or "1" to enable debug traces on stderr
//   - CELLMON_PTY: set to "true" or "1" to run cells on a pseudo-terminal
package config
