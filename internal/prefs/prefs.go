// Package prefs persists what kennel remembers between runs: the colour
// theme and the listing location to resume. The file lives at
// ~/.config/kennel/prefs.toml unless a path is given.
//
// Reading never fails. A missing, unreadable or malformed file yields the
// defaults, so a bad prefs file cannot keep the browser from starting.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds what survives a restart.
type Prefs struct {
	Theme string `toml:"theme"`
	// LastLocation is the listing location open when the browser last quit,
	// e.g. "/dogs/puppies?size=Small&page=2". Empty means start fresh.
	LastLocation string `toml:"last_location,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/kennel/prefs.toml"
	defaultTheme     = "Nightfox"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Defaults returns the preferences used when nothing was saved.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme}
}

// Load reads preferences from path, or the default path when empty.
// The error is always nil; it is kept so callers treat Load like Save.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Defaults(), nil
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return Defaults(), nil
	}
	return decode(data), nil
}

// Save writes p to path, creating parent directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	data, err := toml.Marshal(p.normalized())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// Update loads the stored preferences, applies edit and saves the result,
// leaving fields edit does not touch as they were.
func Update(path string, edit func(*Prefs)) error {
	p, err := Load(path)
	if err != nil {
		return err
	}
	edit(&p)
	return Save(path, p)
}

// Remember records loc as the location to resume next run. A blank loc
// clears it.
func Remember(path, loc string) error {
	return Update(path, func(p *Prefs) { p.LastLocation = loc })
}

func decode(data []byte) Prefs {
	var p Prefs
	if err := toml.Unmarshal(data, &p); err != nil {
		return Defaults()
	}
	return p.normalized()
}

func (p Prefs) normalized() Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	p.LastLocation = strings.TrimSpace(p.LastLocation)
	return p
}

func resolvePath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = defaultPrefsPath
	}
	if rest, ok := strings.CutPrefix(trimmed, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, rest)
	}
	return filepath.Abs(trimmed)
}
