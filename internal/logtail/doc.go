// Package logtail reads and highlights kennel's log file.
//
// The browser owns the terminal, so it logs to a file. Read extracts the
// last N lines with a ring buffer (one pass, O(N) memory), Filter drops
// lines below a level, and ColorizeLine highlights the level token of
// charm's text format for the logs command:
//
//	lines, err := logtail.Read(cfg.LogFile, 200)
//	if err != nil {
//		return err
//	}
//	for _, line := range logtail.ColorizeLines(logtail.Filter(lines, log.WarnLevel)) {
//		fmt.Println(line)
//	}
package logtail
