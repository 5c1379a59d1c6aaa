package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultThemeName styles monitor output when nothing else is configured.
const DefaultThemeName = "default"

// CliFlags holds parsed command-line flag values. The *Set fields record
// whether the user passed the flag, so zero values do not clobber file
// or environment settings.
type CliFlags struct {
	Theme       string
	Shell       string
	HistoryFile string
	HistorySize int
	NoColor     bool
	Debug       bool
	PTY         bool

	NoColorSet bool
	DebugSet   bool
	PTYSet     bool
}

// AppConfig is the .cellmon.yaml file layout.
type AppConfig struct {
	Theme       string `yaml:"theme,omitempty"`
	Shell       string `yaml:"shell,omitempty"`
	HistoryFile string `yaml:"history_file,omitempty"`
	HistorySize int    `yaml:"history_size,omitempty"`
	NoColor     bool   `yaml:"no_color"`
	Debug       bool   `yaml:"debug"`
	PTY         bool   `yaml:"pty"`
}

// Settings is the fully resolved configuration the REPL runs with.
type Settings struct {
	Theme       string
	Shell       string
	HistoryFile string
	HistorySize int
	NoColor     bool
	Debug       bool
	PTY         bool
}

// LoadConfig loads .cellmon.yaml, preferring the working directory over
// the user config dir. A missing or unreadable file falls back to
// defaults with a warning rather than an error.
func LoadConfig() *AppConfig {
	path := configPath()
	if path == "" {
		debugf("no .cellmon.yaml found, using defaults")
		return defaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v. Using defaults.\n", path, err)
		}
		return defaultConfig()
	}

	appCfg, err := parseConfig(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error unmarshalling config file %s: %v. Using defaults.\n", path, err)
		return defaultConfig()
	}
	debugf("loaded config from %s (theme=%s)", path, appCfg.Theme)
	return appCfg
}

func defaultConfig() *AppConfig {
	return &AppConfig{Theme: DefaultThemeName}
}

// parseConfig unmarshals data over the default configuration.
func parseConfig(data []byte) (*AppConfig, error) {
	var fileCfg AppConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, err
	}

	appCfg := defaultConfig()
	if fileCfg.Theme != "" {
		appCfg.Theme = fileCfg.Theme
	}
	if fileCfg.Shell != "" {
		appCfg.Shell = fileCfg.Shell
	}
	if fileCfg.HistoryFile != "" {
		appCfg.HistoryFile = fileCfg.HistoryFile
	}
	if fileCfg.HistorySize > 0 {
		appCfg.HistorySize = fileCfg.HistorySize
	}
	appCfg.NoColor = fileCfg.NoColor
	appCfg.Debug = fileCfg.Debug
	appCfg.PTY = fileCfg.PTY
	return appCfg, nil
}

// configPath finds .cellmon.yaml: working directory first, then the user
// config dir under cellmon/.
func configPath() string {
	localPath := ".cellmon.yaml"
	if _, err := os.Stat(localPath); err == nil {
		debugf("using local config file: %s", localPath)
		return localPath
	}

	configHome, err := os.UserConfigDir()
	if err == nil && configHome != "" && configHome != "/" {
		xdgPath := filepath.Join(configHome, "cellmon", ".cellmon.yaml")
		if _, errStat := os.Stat(xdgPath); errStat == nil {
			debugf("using user config file: %s", xdgPath)
			return xdgPath
		}
	}
	return ""
}

// Resolve layers environment variables and then CLI flags over appCfg.
func Resolve(appCfg *AppConfig, flags CliFlags) Settings {
	if appCfg == nil {
		appCfg = defaultConfig()
	}
	s := Settings{
		Theme:       appCfg.Theme,
		Shell:       appCfg.Shell,
		HistoryFile: appCfg.HistoryFile,
		HistorySize: appCfg.HistorySize,
		NoColor:     appCfg.NoColor,
		Debug:       appCfg.Debug,
		PTY:         appCfg.PTY,
	}

	if v := os.Getenv("CELLMON_THEME"); v != "" {
		s.Theme = v
	}
	if v := os.Getenv("CELLMON_SHELL"); v != "" {
		s.Shell = v
	}
	if v := os.Getenv("CELLMON_HISTORY_FILE"); v != "" {
		s.HistoryFile = v
	}
	if b, ok := envBool("CELLMON_DEBUG"); ok {
		s.Debug = b
	}
	if b, ok := envBool("CELLMON_PTY"); ok {
		s.PTY = b
	}
	// NO_COLOR disables color by mere presence; CELLMON_NO_COLOR is an
	// explicit boolean that wins over it.
	if b, ok := envBool("CELLMON_NO_COLOR"); ok {
		s.NoColor = b
	} else if os.Getenv("NO_COLOR") != "" {
		s.NoColor = true
	}

	if flags.Theme != "" {
		s.Theme = flags.Theme
	}
	if flags.Shell != "" {
		s.Shell = flags.Shell
	}
	if flags.HistoryFile != "" {
		s.HistoryFile = flags.HistoryFile
	}
	if flags.HistorySize > 0 {
		s.HistorySize = flags.HistorySize
	}
	if flags.NoColorSet {
		s.NoColor = flags.NoColor
	}
	if flags.DebugSet {
		s.Debug = flags.Debug
	}
	if flags.PTYSet {
		s.PTY = flags.PTY
	}

	if s.Theme == "" {
		s.Theme = DefaultThemeName
	}

	debugf("resolved settings: theme=%s shell=%q pty=%t no_color=%t debug=%t",
		s.Theme, s.Shell, s.PTY, s.NoColor, s.Debug)
	return s
}

func envBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

func debugf(format string, args ...any) {
	if os.Getenv("CELLMON_DEBUG") == "" {
		return
	}
	fmt.Fprintf(os.Stderr, "[DEBUG config] "+format+"\n", args...)
}
