// Package cmd implements the CLI command structure for taskpad.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskpad/internal/config"
	"github.com/nibzard/taskpad/internal/logging"
	"github.com/nibzard/taskpad/internal/script"
	"github.com/nibzard/taskpad/internal/tasklist"
	"github.com/nibzard/taskpad/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the taskpad CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("taskpad", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(os.Stdout)
	}

	// No subcommand means the interactive list.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "replay":
		return replayCommand(ctx, cfg, remainingArgs, os.Stdout)
	case "config":
		return configCommand(cws, remainingArgs, os.Stdout)
	case "logs":
		return logsCommand(ctx, cfg, remainingArgs, os.Stdout)
	case "version":
		return versionCommand(os.Stdout)
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openLog opens the run log named by cfg and builds a logger writing to it.
func openLog(cfg *config.Config) (*log.Logger, *logging.RunLogger, error) {
	var (
		runLog *logging.RunLogger
		err    error
	)
	if cfg.LogFile != "" {
		runLog, err = logging.OpenFile(cfg.LogFile)
	} else {
		runLog, err = logging.NewRunLogger(cfg.LogDir)
	}
	if err != nil {
		return nil, nil, err
	}
	logger := logging.NewFromConfig(runLog.Writer(), cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	return logger, runLog, nil
}

func newController(cfg *config.Config, logger *log.Logger) *tasklist.Controller {
	return tasklist.New(
		tasklist.WithLoadingDelay(cfg.LoadingDelay()),
		tasklist.WithLogger(logger),
	)
}

// tuiCommand launches the interactive list.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskpad tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY; use 'taskpad replay <file>' for scripted runs")
	}

	logger, runLog, err := openLog(cfg)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer runLog.Close()

	ctrl := newController(cfg, logger)
	defer ctrl.Dispose()

	logger.Info("tui started", "run_id", runLog.RunID, "session", ctrl.SessionID())
	err = ui.RunTUI(ctx, cfg, ctrl)
	done, total := ctrl.View().Counts()
	logger.Info("tui stopped", "tasks", total, "completed", done)
	return err
}

// replayCommand applies a script to a fresh controller and prints the result.
func replayCommand(ctx context.Context, cfg *config.Config, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("taskpad replay", flag.ContinueOnError)
	steps := fs.Bool("steps", false, "Print each applied action")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("replay requires exactly one script file")
	}

	s, err := script.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	logger, runLog, err := openLog(cfg)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer runLog.Close()

	ctrl := newController(cfg, logger)
	defer ctrl.Dispose()

	logger.Info("replay started", "script", fs.Arg(0), "actions", len(s.Actions))
	result, err := script.Apply(ctx, ctrl, s)
	if *steps && result != nil {
		for _, step := range result.Steps {
			status := "ok"
			if !step.Changed {
				status = "no-op"
			}
			fmt.Fprintf(w, "%3d  %-12s %-6s %s\n", step.Index+1, step.Op, status, step.TaskID)
		}
		fmt.Fprintln(w)
	}
	if err != nil {
		logger.Error("replay failed", "err", err)
		return fmt.Errorf("replay: %w", err)
	}
	logger.Info("replay finished", "changed", result.Changed())

	// The list stays hidden while loading.
	if _, err := script.WaitLoaded(ctx, ctrl); err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	return ui.Render(w, cfg.Title, ctrl.View())
}

// configCommand prints the effective configuration and where each value came from.
func configCommand(cws *config.ConfigWithSources, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("taskpad config", flag.ContinueOnError)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		_, err := io.WriteString(w, config.ExampleConfig())
		return err
	}

	cfg := cws.Config
	if path := cws.GetConfigFile(); path != "" {
		fmt.Fprintf(w, "Config file: %s\n\n", path)
	} else {
		fmt.Fprintln(w, "Config file: (none)")
		fmt.Fprintln(w)
	}

	values := []struct {
		key   string
		value interface{}
	}{
		{"title", cfg.Title},
		{"char_limit", cfg.CharLimit},
		{"loading_delay_ms", cfg.LoadingDelayMS},
		{"log_dir", cfg.LogDir},
		{"log_file", cfg.LogFile},
		{"log_level", cfg.LogLevel},
		{"log_format", cfg.LogFormat},
		{"log_timestamps", cfg.LogTimestamps},
		{"log_caller", cfg.LogCaller},
	}
	for _, v := range values {
		source := cws.Sources[v.key]
		if source == "" {
			source = config.SourceDefault
		}
		fmt.Fprintf(w, "%-18s %-30v (%s)\n", v.key, v.value, source)
	}
	return nil
}

// logsCommand prints the latest run log.
func logsCommand(ctx context.Context, cfg *config.Config, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("taskpad logs", flag.ContinueOnError)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logPath := cfg.LogFile
	if logPath == "" {
		latest, err := logging.FindLatestLog(cfg.LogDir)
		if err != nil {
			return fmt.Errorf("finding latest log: %w", err)
		}
		logPath = latest
	}
	if logPath == "" {
		fmt.Fprintln(w, "No log files found.")
		return nil
	}

	fmt.Fprintf(w, "Log: %s\n", logPath)
	if *follow {
		fmt.Fprintln(w, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(w)

	return logging.TailLog(ctx, w, logPath, *n, *follow)
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "taskpad version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "taskpad - a small terminal to-do list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskpad [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui              Interactive task list (default command)")
	fmt.Fprintln(w, "  replay <file>    Apply a JSON action script and print the list")
	fmt.Fprintln(w, "  config           Show effective configuration and sources")
	fmt.Fprintln(w, "  logs             Show the latest run log")
	fmt.Fprintln(w, "  version          Show version information")
	fmt.Fprintln(w, "  help             Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Replay Options (use with 'replay' command):")
	fmt.Fprintln(w, "  -steps")
	fmt.Fprintln(w, "        Print each applied action")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options (use with 'config' command):")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example config file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logs Options (use with 'logs' command):")
	fmt.Fprintln(w, "  -f, -follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}
