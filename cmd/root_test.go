package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/taskpad/internal/config"
)

// isolate points config discovery and logging at temp directories.
func isolate(t *testing.T) *config.Config {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, key := range []string{
		"TASKPAD_TITLE", "TASKPAD_CHAR_LIMIT", "TASKPAD_LOADING_DELAY",
		"TASKPAD_LOG_FILE", "TASKPAD_LOG_LEVEL", "TASKPAD_LOG_FORMAT",
		"TASKPAD_LOG_TIMESTAMPS", "TASKPAD_LOG_CALLER",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("TASKPAD_LOG_DIR", filepath.Join(home, "logs"))
	chdirForTest(t, t.TempDir())

	cfg, err := config.Load(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-loading-delay", "5"})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

const groceries = `{
  "version": 1,
  "actions": [
    {"op": "wait_loaded"},
    {"op": "create", "text": "Buy milk"},
    {"op": "create", "text": "Walk dog"},
    {"op": "toggle", "task": 1},
    {"op": "toggle", "task": 5}
  ]
}`

// TestRun tests the main Run function.
func TestRun(t *testing.T) {
	isolate(t)

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"help flag", []string{"--help"}, false},
		{"short help flag", []string{"-h"}, false},
		{"version flag", []string{"--version"}, false},
		{"short version flag", []string{"-v"}, false},
		{"help command", []string{"help"}, false},
		{"version command", []string{"version"}, false},
		{"unknown command", []string{"frobnicate"}, true},
		{"unknown flag", []string{"-frobnicate"}, true},
		{"invalid config value", []string{"-log-format", "xml", "version"}, true},
		{"replay without file", []string{"replay"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Run(context.Background(), tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("Run(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestReplayCommand(t *testing.T) {
	cfg := isolate(t)
	path := writeScript(t, groceries)

	var out bytes.Buffer
	if err := replayCommand(context.Background(), cfg, []string{"-steps", path}, &out); err != nil {
		t.Fatalf("replay: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"wait_loaded",
		"  5  toggle       no-op",
		"  [x] Buy milk\n",
		"  [ ] Walk dog\n",
		"1 of 2 done",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestReplayCommandWaitsForLoading(t *testing.T) {
	cfg := isolate(t)
	cfg.LoadingDelayMS = config.DefaultLoadingDelayMS
	path := writeScript(t, `{"version": 1, "actions": [{"op": "create", "text": "Buy milk"}]}`)

	var out bytes.Buffer
	if err := replayCommand(context.Background(), cfg, []string{path}, &out); err != nil {
		t.Fatalf("replay: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "  [ ] Buy milk\n") {
		t.Errorf("output missing the created task:\n%s", got)
	}
	if strings.Contains(got, "Loading...") {
		t.Errorf("output rendered while loading:\n%s", got)
	}
}

func TestReplayCommandErrors(t *testing.T) {
	cfg := isolate(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no file", nil, "exactly one script file"},
		{"two files", []string{"a.json", "b.json"}, "exactly one script file"},
		{"missing file", []string{filepath.Join(t.TempDir(), "missing.json")}, "read script"},
		{"invalid script", []string{writeScript(t, `{"version": 1, "actions": [{"op": "shout"}]}`)}, "actions[0].op"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := replayCommand(context.Background(), cfg, tt.args, &out)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestReplayCommandCanceled(t *testing.T) {
	cfg := isolate(t)
	cfg.LoadingDelayMS = 60 * 60 * 1000
	path := writeScript(t, groceries)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	if err := replayCommand(ctx, cfg, []string{path}, &out); err == nil {
		t.Fatal("expected an error from a canceled replay")
	}
}

func TestConfigCommand(t *testing.T) {
	isolate(t)
	if err := os.WriteFile("taskpad.toml", []byte("char_limit = 80\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cws, err := config.LoadWithSources(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-title", "Groceries"})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	var out bytes.Buffer
	if err := configCommand(cws, nil, &out); err != nil {
		t.Fatalf("config: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Config file: taskpad.toml", "Groceries", "(flag)", "(project file)", "(environment)", "(default)"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestConfigCommandExample(t *testing.T) {
	var out bytes.Buffer
	if err := configCommand(&config.ConfigWithSources{Config: &config.Config{}}, []string{"-example"}, &out); err != nil {
		t.Fatalf("config -example: %v", err)
	}
	if out.String() != config.ExampleConfig() {
		t.Error("expected the example config verbatim")
	}
}

func TestLogsCommand(t *testing.T) {
	cfg := isolate(t)

	var out bytes.Buffer
	if err := logsCommand(context.Background(), cfg, nil, &out); err != nil {
		t.Fatalf("logs: %v", err)
	}
	if !strings.Contains(out.String(), "No log files found.") {
		t.Errorf("unexpected output: %s", out.String())
	}

	if err := replayCommand(context.Background(), cfg, []string{writeScript(t, groceries)}, &bytes.Buffer{}); err != nil {
		t.Fatalf("replay: %v", err)
	}

	out.Reset()
	if err := logsCommand(context.Background(), cfg, []string{"-n", "5"}, &out); err != nil {
		t.Fatalf("logs: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "replay finished") {
		t.Errorf("expected the replay log, got:\n%s", got)
	}
}

func TestVersionCommand(t *testing.T) {
	old := Version
	Version = "1.2.3"
	defer func() { Version = old }()

	var out bytes.Buffer
	if err := versionCommand(&out); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "taskpad version 1.2.3\n" {
		t.Errorf("got %q", got)
	}
}

// chdirForTest mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
