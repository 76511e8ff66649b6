package main

import (
	"testing"
	"time"
)

func TestCommandTree(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"browse", "list", "logs", "fixture"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("Find(%q) = %v, %v", name, cmd, err)
		}
	}
	for _, flag := range []string{"config", "prefs", "log-level"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Fatalf("missing persistent flag --%s", flag)
		}
	}
}

func TestParseLatency(t *testing.T) {
	if d, err := parseLatency(""); err != nil || d != 0 {
		t.Fatalf("parseLatency(\"\") = %v, %v", d, err)
	}
	if d, err := parseLatency("1s250ms"); err != nil || d != 1250*time.Millisecond {
		t.Fatalf("parseLatency(1s250ms) = %v, %v", d, err)
	}
	if _, err := parseLatency("soon"); err == nil {
		t.Fatal("expected error for invalid latency")
	}
}
