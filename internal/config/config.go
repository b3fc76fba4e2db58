package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

const (
	DefaultStore        = StoreJSON
	DefaultMemUURL      = "https://api.memu.so/api/v3"
	DefaultUserID       = "unsort_user_001"
	DefaultAgentID      = "unsort_agent_001"
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = time.Second
	DefaultPollAttempts = 10
	DefaultLogLevel     = "info"
)

// Source records where a setting came from
type Source string

const (
	SourceDefault Source = "default"
	SourceConfig  Source = "config"
	SourceEnv     Source = "env"
	SourceCLI     Source = "cli"
)

// Value is a resolved setting with its origin
type Value struct {
	Value  string `json:"value"`
	Source Source `json:"source"`
	From   string `json:"from,omitempty"`
}

func (v Value) String() string {
	return v.Value
}

// Options carries the command line overrides. Empty fields are ignored.
type Options struct {
	ConfigPath string
	DataDir    string
	Store      string
	MemUURL    string
	LogLevel   string
	LogFile    string
	Offline    bool
}

// Config is the resolved configuration: defaults, then the YAML file, then
// the environment, then command line flags.
type Config struct {
	Path string `json:"config_path"`

	DataDir      Value `json:"data_dir"`
	Store        Value `json:"store"`
	MemUURL      Value `json:"memu_url"`
	MemUToken    Value `json:"memu_token"`
	UserID       Value `json:"user_id"`
	AgentID      Value `json:"agent_id"`
	Timeout      Value `json:"timeout"`
	PollInterval Value `json:"poll_interval"`
	PollAttempts Value `json:"poll_attempts"`
	LogLevel     Value `json:"log_level"`
	LogFile      Value `json:"log_file"`
	Offline      Value `json:"offline"`
}

type fileConfig struct {
	DataDir string `yaml:"data_dir"`
	Store   string `yaml:"store"`
	MemU    struct {
		URL          string `yaml:"url"`
		Token        string `yaml:"token"`
		UserID       string `yaml:"user_id"`
		AgentID      string `yaml:"agent_id"`
		Timeout      string `yaml:"timeout"`
		PollInterval string `yaml:"poll_interval"`
		PollAttempts string `yaml:"poll_attempts"`
		Offline      string `yaml:"offline"`
	} `yaml:"memu"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

// DefaultConfigPath returns $UNSORT_CONFIG, or ~/.config/unsort/config.yaml
func DefaultConfigPath() string {
	if env := strings.TrimSpace(os.Getenv("UNSORT_CONFIG")); env != "" {
		return env
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "unsort", "config.yaml")
}

// DefaultDataDir returns the XDG data directory for unsort
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "unsort")
}

// Load resolves the configuration
func Load(opts Options) (*Config, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}
	path = expandUserPath(path)

	cfg := &Config{
		Path:         path,
		DataDir:      defaultValue(DefaultDataDir()),
		Store:        defaultValue(DefaultStore),
		MemUURL:      defaultValue(DefaultMemUURL),
		UserID:       defaultValue(DefaultUserID),
		AgentID:      defaultValue(DefaultAgentID),
		Timeout:      defaultValue(DefaultTimeout.String()),
		PollInterval: defaultValue(DefaultPollInterval.String()),
		PollAttempts: defaultValue(strconv.Itoa(DefaultPollAttempts)),
		LogLevel:     defaultValue(DefaultLogLevel),
		LogFile:      Value{Source: SourceDefault},
		MemUToken:    Value{Source: SourceDefault},
		Offline:      defaultValue("false"),
	}

	file, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	if file != nil {
		apply(&cfg.DataDir, file.DataDir, SourceConfig, path)
		apply(&cfg.Store, file.Store, SourceConfig, path)
		apply(&cfg.MemUURL, file.MemU.URL, SourceConfig, path)
		apply(&cfg.MemUToken, file.MemU.Token, SourceConfig, path)
		apply(&cfg.UserID, file.MemU.UserID, SourceConfig, path)
		apply(&cfg.AgentID, file.MemU.AgentID, SourceConfig, path)
		apply(&cfg.Timeout, file.MemU.Timeout, SourceConfig, path)
		apply(&cfg.PollInterval, file.MemU.PollInterval, SourceConfig, path)
		apply(&cfg.PollAttempts, file.MemU.PollAttempts, SourceConfig, path)
		apply(&cfg.Offline, file.MemU.Offline, SourceConfig, path)
		apply(&cfg.LogLevel, file.Log.Level, SourceConfig, path)
		apply(&cfg.LogFile, file.Log.File, SourceConfig, path)
	}

	applyEnv(&cfg.DataDir, "UNSORT_DATA_DIR")
	applyEnv(&cfg.Store, "UNSORT_STORE")
	applyEnv(&cfg.MemUURL, "UNSORT_MEMU_URL")
	applyEnv(&cfg.MemUToken, "UNSORT_MEMU_TOKEN")
	applyEnv(&cfg.UserID, "UNSORT_USER_ID")
	applyEnv(&cfg.AgentID, "UNSORT_AGENT_ID")
	applyEnv(&cfg.Timeout, "UNSORT_HTTP_TIMEOUT")
	applyEnv(&cfg.PollInterval, "UNSORT_POLL_INTERVAL")
	applyEnv(&cfg.PollAttempts, "UNSORT_POLL_ATTEMPTS")
	applyEnv(&cfg.Offline, "UNSORT_OFFLINE")
	applyEnv(&cfg.LogLevel, "UNSORT_LOG_LEVEL")
	applyEnv(&cfg.LogFile, "UNSORT_LOG_FILE")

	apply(&cfg.DataDir, opts.DataDir, SourceCLI, "--data-dir")
	apply(&cfg.Store, opts.Store, SourceCLI, "--store")
	apply(&cfg.MemUURL, opts.MemUURL, SourceCLI, "--memu-url")
	apply(&cfg.LogLevel, opts.LogLevel, SourceCLI, "--log-level")
	apply(&cfg.LogFile, opts.LogFile, SourceCLI, "--log-file")
	if opts.Offline {
		apply(&cfg.Offline, "true", SourceCLI, "--offline")
	}

	cfg.DataDir.Value = expandUserPath(cfg.DataDir.Value)
	cfg.LogFile.Value = expandUserPath(cfg.LogFile.Value)
	cfg.Store.Value = strings.ToLower(cfg.Store.Value)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the typed settings
func (c *Config) Validate() error {
	switch c.Store.Value {
	case StoreJSON, StoreSQLite:
	default:
		return fmt.Errorf("invalid store %q (from %s): must be %q or %q", c.Store.Value, c.Store.origin(), StoreJSON, StoreSQLite)
	}
	for _, v := range []Value{c.Timeout, c.PollInterval} {
		d, err := time.ParseDuration(v.Value)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid duration %q (from %s)", v.Value, v.origin())
		}
	}
	if n, err := strconv.Atoi(c.PollAttempts.Value); err != nil || n < 1 {
		return fmt.Errorf("invalid poll attempts %q (from %s)", c.PollAttempts.Value, c.PollAttempts.origin())
	}
	if _, err := strconv.ParseBool(c.Offline.Value); err != nil {
		return fmt.Errorf("invalid offline flag %q (from %s)", c.Offline.Value, c.Offline.origin())
	}
	return nil
}

// Online reports whether the memory service should be used
func (c *Config) Online() bool {
	offline, _ := strconv.ParseBool(c.Offline.Value)
	return !offline && c.MemUToken.Value != ""
}

// DBPath returns the SQLite database path inside the data directory
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir.Value, "unsort.db")
}

// HTTPTimeout returns the memory service request timeout
func (c *Config) HTTPTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Timeout.Value)
	return d
}

// Poll returns the status poll interval and attempt count
func (c *Config) Poll() (time.Duration, int) {
	d, _ := time.ParseDuration(c.PollInterval.Value)
	n, _ := strconv.Atoi(c.PollAttempts.Value)
	return d, n
}

func (v Value) origin() string {
	if v.From == "" {
		return string(v.Source)
	}
	return string(v.Source) + " " + v.From
}

func defaultValue(v string) Value {
	return Value{Value: v, Source: SourceDefault}
}

func apply(dst *Value, raw string, source Source, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = Value{Value: v, Source: source, From: from}
}

func applyEnv(dst *Value, envKey string) {
	apply(dst, os.Getenv(envKey), SourceEnv, envKey)
}

func loadFile(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func expandUserPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
