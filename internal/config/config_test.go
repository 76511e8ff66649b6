package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.PageSize != 20 {
		t.Fatalf("PageSize = %d, want 20", cfg.PageSize)
	}
	if cfg.URLDebounce != 500*time.Millisecond || cfg.ScrollDebounce != 300*time.Millisecond {
		t.Fatalf("debounces = %v/%v, want 500ms/300ms", cfg.URLDebounce, cfg.ScrollDebounce)
	}

	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
api_url = "  https://api.example.org  "
page_size = 30
url_debounce = "250ms"
metadata_refresh = "1d"
log_level = " DEBUG "
log_json = true
log_file = "  ~/logs/kennel.log  "
start_path = "/dogs/puppies"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "https://api.example.org" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if cfg.PageSize != 30 {
		t.Fatalf("PageSize = %d, want 30", cfg.PageSize)
	}
	if cfg.URLDebounce != 250*time.Millisecond {
		t.Fatalf("URLDebounce = %v, want 250ms", cfg.URLDebounce)
	}
	if cfg.ScrollDebounce != defaultScrollDebounce {
		t.Fatalf("ScrollDebounce = %v, want default", cfg.ScrollDebounce)
	}
	if cfg.MetadataRefresh != 24*time.Hour {
		t.Fatalf("MetadataRefresh = %v, want 24h", cfg.MetadataRefresh)
	}
	if cfg.LogLevel != "debug" || !cfg.LogJSON {
		t.Fatalf("log settings = %q/%v", cfg.LogLevel, cfg.LogJSON)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.StartPath != "/dogs/puppies" {
		t.Fatalf("StartPath = %q", cfg.StartPath)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
api_url = "   "
log_level = ""
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, defaultLogLevel)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cases := map[string]string{
		"bad duration":  `url_debounce = "soon"`,
		"page size":     `page_size = 500`,
		"log level":     `log_level = "chatty"`,
		"relative path": `start_path = "dogs"`,
		"bad url":       `api_url = "not a url"`,
		"bad toml":      `api_url = `,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatalf("Load accepted %q", body)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/kennel")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "kennel") {
		t.Fatalf("expandPath = %q", got)
	}
	if _, err := expandPath("   "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
