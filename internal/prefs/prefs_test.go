package prefs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func mustLoad(t *testing.T, path string) Prefs {
	t.Helper()
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	return p
}

func TestLoad_FallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"missing":     "",
		"empty theme": "theme = \"  \"\n",
		"invalid":     "not valid toml {{{\n",
		"directory":   "",
	}
	for name, body := range cases {
		path := filepath.Join(dir, strings.ReplaceAll(name, " ", "-"), "prefs.toml")
		switch name {
		case "missing":
		case "directory":
			if err := os.MkdirAll(path, 0o755); err != nil {
				t.Fatalf("MkdirAll: %v", err)
			}
		default:
			writeFile(t, path, body)
		}
		if got := mustLoad(t, path); got != Defaults() {
			t.Fatalf("%s: Load = %+v, want %+v", name, got, Defaults())
		}
	}
}

func TestLoad_DefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, filepath.Join(home, ".config", "kennel", "prefs.toml"),
		"theme = \"Slate\"\nlast_location = \"/dogs/puppies?sex=Male\"\n")

	p := mustLoad(t, "")
	if p.Theme != "Slate" || p.LastLocation != "/dogs/puppies?sex=Male" {
		t.Fatalf("Load = %+v", p)
	}
}

func TestLoad_LastLocationWithoutTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	writeFile(t, path, "last_location = \"  /dogs?page=3&size=Small \\n\"\n")

	p := mustLoad(t, path)
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.LastLocation != "/dogs?page=3&size=Small" {
		t.Fatalf("LastLocation = %q, want it trimmed", p.LastLocation)
	}
}

func TestSave_RoundTripsAndCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "prefs.toml")
	want := Prefs{Theme: "Slate", LastLocation: "/dogs/puppies?size=Small&page=2"}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if got := mustLoad(t, path); got != want {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}
}

func TestSave_OmitsBlankLastLocation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := Save(path, Prefs{Theme: "Slate", LastLocation: "   "}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.Contains(string(data), "last_location") {
		t.Fatalf("blank location was written:\n%s", data)
	}
}

func TestRemember_KeepsThemeAndClearsOnBlank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := Save(path, Prefs{Theme: "Slate"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if err := Remember(path, "/dogs?search=luna"); err != nil {
		t.Fatalf("Remember returned error: %v", err)
	}
	p := mustLoad(t, path)
	if p.Theme != "Slate" || p.LastLocation != "/dogs?search=luna" {
		t.Fatalf("after Remember: %+v", p)
	}

	if err := Update(path, func(p *Prefs) { p.Theme = "Dawn" }); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if got := mustLoad(t, path).LastLocation; got != "/dogs?search=luna" {
		t.Fatalf("theme change lost the location: %q", got)
	}

	if err := Remember(path, ""); err != nil {
		t.Fatalf("Remember returned error: %v", err)
	}
	if p := mustLoad(t, path); p.LastLocation != "" || p.Theme != "Dawn" {
		t.Fatalf("after clearing: %+v", p)
	}
}
