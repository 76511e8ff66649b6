package app

import (
	"fmt"
	"io"

	"github.com/five82/kennel/internal/logging"
	"github.com/five82/kennel/internal/logtail"
)

// LogsOptions configure Logs.
type LogsOptions struct {
	ConfigPath string
	Lines      int
	// MinLevel hides lines below it; blank shows everything.
	MinLevel string
	Color    bool
}

// Logs prints the tail of the browser's log file.
func Logs(opts LogsOptions, w io.Writer) error {
	cfg, err := loadConfig(Options{ConfigPath: opts.ConfigPath})
	if err != nil {
		return err
	}
	lines, err := logtail.Read(cfg.LogFile, opts.Lines)
	if err != nil {
		return err
	}
	if opts.MinLevel != "" {
		level, err := logging.ParseLevel(opts.MinLevel)
		if err != nil {
			return err
		}
		lines = logtail.Filter(lines, level)
	}
	if opts.Color {
		lines = logtail.ColorizeLines(lines)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
