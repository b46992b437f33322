package config

import "flag"

// flagFields maps CLI flag names to config field names for source tracking.
var flagFields = map[string]string{
	"title":          "title",
	"char-limit":     "char_limit",
	"loading-delay":  "loading_delay_ms",
	"log-dir":        "log_dir",
	"log-file":       "log_file",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines and parses CLI flags.
// If sources is non-nil, explicitly set flags are recorded as SourceFlag.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("taskpad", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.Title, "title", cfg.Title, "Title shown above the list")
	fs.IntVar(&cfg.CharLimit, "char-limit", cfg.CharLimit, "Maximum task text length in the input fields (0 for no limit)")
	fs.IntVar(&cfg.LoadingDelayMS, "loading-delay", cfg.LoadingDelayMS, "Simulated initial loading delay (milliseconds)")

	// Logging
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file (overrides the per-run file in the log directory)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log lines")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller location in log lines")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
