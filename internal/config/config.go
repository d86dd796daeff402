package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/wayfarer/internal/storage"
)

// Config is the resolved wayfarer configuration.
type Config struct {
	// Path is the config file that was consulted, whether or not it existed.
	Path     string
	DataDir  string
	Storage  string
	LogLevel string
	LogFile  string
	Enrich   Enrich
}

// Enrich configures the lookup services used by the UI.
type Enrich struct {
	Enabled           bool
	NominatimURL      string
	OpenMeteoURL      string
	UnsplashURL       string
	UnsplashAccessKey string
	UserAgent         string
}

const (
	defaultConfigPath = "~/.config/wayfarer/config.toml"
	defaultDataDir    = "~/.local/share/wayfarer"
	defaultLogLevel   = "info"
	logFileName       = "wayfarer.log"
)

// Environment variables that override the file.
const (
	EnvDataDir     = "WAYFARER_DATA_DIR"
	EnvStorage     = "WAYFARER_STORAGE"
	EnvLogLevel    = "WAYFARER_LOG_LEVEL"
	EnvUnsplashKey = "UNSPLASH_ACCESS_KEY"
)

type rawConfig struct {
	DataDir  string `toml:"data_dir"`
	Storage  string `toml:"storage"`
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
	Enrich   struct {
		Enabled      *bool  `toml:"enabled"`
		NominatimURL string `toml:"nominatim_url"`
		OpenMeteoURL string `toml:"open_meteo_url"`
		UnsplashURL  string `toml:"unsplash_url"`
		UserAgent    string `toml:"user_agent"`
	} `toml:"enrich"`
}

// Load locates and parses the wayfarer config, falling back to defaults when
// the file is missing. A .env file beside the config is loaded first; it never
// replaces variables already set in the environment.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	loadDotEnv(filepath.Join(filepath.Dir(resolved), ".env"))

	var raw rawConfig
	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg := fromRaw(raw)
	cfg.Path = resolved
	applyEnv(&cfg)

	if err := cfg.finalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func fromRaw(raw rawConfig) Config {
	cfg := Config{
		DataDir:  strings.TrimSpace(raw.DataDir),
		Storage:  strings.TrimSpace(raw.Storage),
		LogLevel: strings.TrimSpace(raw.LogLevel),
		LogFile:  strings.TrimSpace(raw.LogFile),
		Enrich: Enrich{
			Enabled:      true,
			NominatimURL: strings.TrimSpace(raw.Enrich.NominatimURL),
			OpenMeteoURL: strings.TrimSpace(raw.Enrich.OpenMeteoURL),
			UnsplashURL:  strings.TrimSpace(raw.Enrich.UnsplashURL),
			UserAgent:    strings.TrimSpace(raw.Enrich.UserAgent),
		},
	}
	if raw.Enrich.Enabled != nil {
		cfg.Enrich.Enabled = *raw.Enrich.Enabled
	}
	return cfg
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStorage)); v != "" {
		cfg.Storage = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvUnsplashKey)); v != "" {
		cfg.Enrich.UnsplashAccessKey = v
	}
}

// Override replaces the data directory and storage backend when non-empty,
// then re-validates. Used for command-line flags.
func (c *Config) Override(dataDir, backend string) error {
	if strings.TrimSpace(dataDir) != "" {
		c.DataDir = strings.TrimSpace(dataDir)
	}
	if strings.TrimSpace(backend) != "" {
		c.Storage = strings.TrimSpace(backend)
	}
	return c.finalize()
}

func (c *Config) finalize() error {
	if c.DataDir == "" {
		c.DataDir = defaultDataDir
	}
	dir, err := expandPath(c.DataDir)
	if err != nil {
		return fmt.Errorf("data dir: %w", err)
	}
	c.DataDir = dir

	c.Storage = strings.ToLower(c.Storage)
	if c.Storage == "" {
		c.Storage = storage.BackendFile
	}
	if c.Storage != storage.BackendFile && c.Storage != storage.BackendSQLite {
		return fmt.Errorf("unknown storage backend %q (want %q or %q)", c.Storage, storage.BackendFile, storage.BackendSQLite)
	}

	c.LogLevel = strings.ToLower(c.LogLevel)
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}

	if c.LogFile != "" {
		logFile, err := expandPath(c.LogFile)
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		c.LogFile = logFile
	}
	return nil
}

// LogPath returns the log file, defaulting to wayfarer.log in the data dir.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogFile) != "" {
		return c.LogFile
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir + "/" + logFileName)
	}
	return filepath.Join(c.DataDir, logFileName)
}

// Level returns the configured slog level, defaulting to info.
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func loadDotEnv(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	// godotenv.Load leaves variables that are already set untouched.
	_ = godotenv.Load(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
