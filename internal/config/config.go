// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sadopc/blossom/internal/store"
)

const (
	appName           = "blossom"
	DefaultStorageKey = "tasks"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// Config holds the runtime configuration.
type Config struct {
	DBPath     string `toml:"db_path"`
	StorageKey string `toml:"storage_key"`
	LogFile    string `toml:"log_file"`
	LogLevel   string `toml:"log_level"`
	LogFormat  string `toml:"log_format"`

	// Path of the config file that was read, if any.
	Source string `toml:"-"`
}

// Load builds the configuration from, in increasing priority:
// defaults, the TOML config file, environment variables, and flags.
func Load(flags *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	if err := setDefaults(cfg); err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}

	var (
		configPath = flags.String("config", "", "path to config file")
		dbPath     = flags.String("db", "", "path to the SQLite database")
		logLevel   = flags.String("log-level", "", "log level (debug, info, warn, error)")
	)
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	path := *configPath
	if path == "" {
		path = os.Getenv("BLOSSOM_CONFIG")
	}
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}
	if path != "" {
		if err := loadFile(cfg, expandPath(path), explicit); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	loadFromEnv(cfg)

	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(cfg *Config) error {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return err
	}
	cfg.DBPath = dbPath
	cfg.StorageKey = DefaultStorageKey
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	return nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "config.toml")
}

// loadFile decodes a TOML file over cfg. A missing file is only an error
// when the path was given explicitly.
func loadFile(cfg *Config, path string, explicit bool) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	cfg.Source = path
	return nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("BLOSSOM_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("BLOSSOM_STORAGE_KEY"); v != "" {
		cfg.StorageKey = v
	}
	if v := os.Getenv("BLOSSOM_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("BLOSSOM_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func finalize(cfg *Config) error {
	cfg.DBPath = expandPath(cfg.DBPath)
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(filepath.Dir(cfg.DBPath), appName+".log")
	}
	cfg.LogFile = expandPath(cfg.LogFile)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	return cfg.Validate()
}

// Validate checks values that cannot be defaulted away.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.StorageKey) == "" {
		return fmt.Errorf("storage_key must not be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q, must be one of: debug, info, warn, error", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log_format %q, must be one of: text, json, logfmt", c.LogFormat)
	}
	return nil
}

// expandPath expands ~ and environment variables in paths.
func expandPath(p string) string {
	if p == "" || p == ":memory:" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") ||
		(runtime.GOOS == "windows" && strings.HasPrefix(expanded, "~\\")) {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		if expanded == "~" {
			return home
		}
		return filepath.Join(home, expanded[2:])
	}
	return expanded
}
