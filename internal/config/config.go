package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/xhit/go-str2duration/v2"
)

// Config holds the runtime settings for kennel.
type Config struct {
	APIURL          string        `validate:"required,url"`
	PageSize        int           `validate:"min=1,max=100"`
	URLDebounce     time.Duration `validate:"min=0"`
	ScrollDebounce  time.Duration `validate:"min=0"`
	RequestTimeout  time.Duration `validate:"gt=0"`
	MetadataRefresh time.Duration `validate:"min=0"`
	LogLevel        string        `validate:"oneof=debug info warn error"`
	LogJSON         bool
	LogFile         string
	StartPath       string `validate:"startswith=/"`
}

const (
	defaultConfigPath      = "~/.config/kennel/config.toml"
	defaultLogFile         = "~/.local/state/kennel/kennel.log"
	defaultAPIURL          = "http://127.0.0.1:8087"
	defaultPageSize        = 20
	defaultURLDebounce     = 500 * time.Millisecond
	defaultScrollDebounce  = 300 * time.Millisecond
	defaultRequestTimeout  = 10 * time.Second
	defaultMetadataRefresh = 10 * time.Minute
	defaultLogLevel        = "info"
	defaultStartPath       = "/dogs"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:          defaultAPIURL,
		PageSize:        defaultPageSize,
		URLDebounce:     defaultURLDebounce,
		ScrollDebounce:  defaultScrollDebounce,
		RequestTimeout:  defaultRequestTimeout,
		MetadataRefresh: defaultMetadataRefresh,
		LogLevel:        defaultLogLevel,
		LogFile:         mustExpand(defaultLogFile),
		StartPath:       defaultStartPath,
	}
}

type rawConfig struct {
	APIURL          string `toml:"api_url"`
	PageSize        int    `toml:"page_size"`
	URLDebounce     string `toml:"url_debounce"`
	ScrollDebounce  string `toml:"scroll_debounce"`
	RequestTimeout  string `toml:"request_timeout"`
	MetadataRefresh string `toml:"metadata_refresh"`
	LogLevel        string `toml:"log_level"`
	LogJSON         bool   `toml:"log_json"`
	LogFile         string `toml:"log_file"`
	StartPath       string `toml:"start_path"`
}

// Load locates and parses the kennel config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if raw.PageSize != 0 {
		cfg.PageSize = raw.PageSize
	}
	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"url_debounce", raw.URLDebounce, &cfg.URLDebounce},
		{"scroll_debounce", raw.ScrollDebounce, &cfg.ScrollDebounce},
		{"request_timeout", raw.RequestTimeout, &cfg.RequestTimeout},
		{"metadata_refresh", raw.MetadataRefresh, &cfg.MetadataRefresh},
	}
	for _, d := range durations {
		if strings.TrimSpace(d.raw) == "" {
			continue
		}
		parsed, err := str2duration.ParseDuration(strings.TrimSpace(d.raw))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", d.key, err)
		}
		*d.dst = parsed
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	cfg.LogJSON = raw.LogJSON
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.StartPath); v != "" {
		cfg.StartPath = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
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
