package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskpad configuration file
# Values can be overridden by TASKPAD_* environment variables or CLI flags

# Title shown above the list
title = "Tasks"

# Maximum task text length in the input fields (0 for no limit)
char_limit = 256

# Simulated initial loading delay in milliseconds (0 starts loaded)
loading_delay_ms = 1000

# Log directory (supports ~ expansion); one file per run
log_dir = "~/.taskpad"

# Explicit log file, overrides the per-run file in log_dir
# log_file = "/tmp/taskpad.log"

# Log level: debug, info, warn, error
log_level = "info"

# Log format: text, json, logfmt
log_format = "text"

log_timestamps = true
log_caller = false
`
}
