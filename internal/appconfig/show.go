package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	if cfg == nil {
		cfg = &fallback
	}

	fmt.Fprintf(out, "  Library URL:     %s\n", cfg.LibraryBaseURL())
	fmt.Fprintf(out, "  Archive URL:     %s\n", cfg.ArchiveBaseURL())
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  JSON Mode:       %v\n", cfg.JSONMode)
	fmt.Fprintf(out, "  Request Timeout: %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Poll Interval:   %s\n", cfg.PollInterval())
	fmt.Fprintf(out, "  Poll Attempts:   %d\n", cfg.PollAttempts())
	fmt.Fprintf(out, "  Result Count:    %d\n", cfg.ResultCount())
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Session File:    %s\n", cfg.SessionFilePath())
}
