package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Write 10 lines of content
	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	lines, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil || lines != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", lines, err)
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  log.Level
		ok    bool
	}{
		{"text with timestamp", "21:01:05 WARN listing: duplicate dogs dropped ids=[16 17]", log.WarnLevel, true},
		{"text without timestamp", "ERRO listing: listing fetch failed op=append", log.ErrorLevel, true},
		{"json", `{"time":"21:01:05","level":"debug","msg":"api request"}`, log.DebugLevel, true},
		{"continuation", "    at line 3", 0, false},
		{"level word in message", "21:01:05 the INFO desk", 0, false},
		{"broken json", `{"level":`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Level(tt.input)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("Level(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	lines := []string{
		"21:01:05 DEBU api request status=200",
		"21:01:06 WARN filter counts unavailable",
		"  error=timeout",
		"21:01:07 INFO kennel started",
		"21:01:08 ERRO listing fetch failed",
	}
	want := []string{lines[1], lines[2], lines[4]}
	if got := Filter(lines, log.WarnLevel); !reflect.DeepEqual(got, want) {
		t.Errorf("Filter() = %v, want %v", got, want)
	}
	if got := Filter(lines, log.DebugLevel); !reflect.DeepEqual(got, lines) {
		t.Errorf("Filter(debug) dropped lines: %v", got)
	}
}

func TestColorizeLine(t *testing.T) {
	plain := []string{"", "   ", "    - detail", `{"level":"info","msg":"x"}`}
	for _, line := range plain {
		if got := ColorizeLine(line); got != line {
			t.Errorf("ColorizeLine(%q) = %q, want unchanged", line, got)
		}
	}

	line := "21:01:05 ERRO listing fetch failed"
	got := ColorizeLine(line)
	if !strings.HasPrefix(got, "21:01:05 ") || !strings.HasSuffix(got, " listing fetch failed") || !strings.Contains(got, "ERRO") {
		t.Errorf("ColorizeLine(%q) = %q", line, got)
	}
	if n := len(ColorizeLines([]string{line, line})); n != 2 {
		t.Errorf("ColorizeLines returned %d lines, want 2", n)
	}
}
