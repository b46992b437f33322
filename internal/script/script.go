// Package script parses and replays taskpad action scripts.
//
// A script drives a tasklist.Controller without a terminal:
//
//	{
//	  "version": 1,
//	  "actions": [
//	    {"op": "wait_loaded"},
//	    {"op": "create", "text": "Buy milk"},
//	    {"op": "type", "text": "Walk dog"},
//	    {"op": "create"},
//	    {"op": "toggle", "task": 1},
//	    {"op": "begin_edit", "task": 2},
//	    {"op": "draft", "text": "Walk the dog"},
//	    {"op": "commit", "task": 2},
//	    {"op": "delete", "task": 1}
//	  ]
//	}
//
// "task" is a 1-based position in the list at the time the action runs.
// "create" without "text" submits the pending text set by "type".
package script

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://taskpad.local/replay.schema.json"

// Op names a script action.
type Op string

const (
	OpCreate     Op = "create"
	OpType       Op = "type"
	OpBeginEdit  Op = "begin_edit"
	OpDraft      Op = "draft"
	OpCommit     Op = "commit"
	OpCancel     Op = "cancel"
	OpToggle     Op = "toggle"
	OpDelete     Op = "delete"
	OpWaitLoaded Op = "wait_loaded"
)

// Action is one step of a script.
type Action struct {
	Op   Op      `json:"op"`
	Text *string `json:"text,omitempty"`
	Task int     `json:"task,omitempty"`
}

// Script is a versioned list of actions.
type Script struct {
	Version int      `json:"version"`
	Actions []Action `json:"actions"`
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// Err joins the validation errors, or returns nil when valid.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return errors.Join(r.Errors...)
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func replaySchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(data)
}

// Parse validates data against the replay schema and decodes it.
func Parse(data []byte) (*Script, error) {
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}

	result := Validate(doc)
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}

	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if !result.UsedSchema {
		// The minimal checks run on the raw document; re-check typed fields.
		if err := s.validateActions(); err != nil {
			return nil, fmt.Errorf("invalid script: %w", err)
		}
	}
	return &s, nil
}

// Validate checks a decoded JSON document against the embedded schema,
// falling back to minimal structural checks if the schema cannot be compiled.
func Validate(doc interface{}) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	schema, err := replaySchema()
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("JSON Schema validation not available, using minimal checks: %v", err))
		validateMinimal(doc, result)
		return result
	}

	result.UsedSchema = true
	if err := schema.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}
	return result
}

// validateMinimal performs structural checks without JSON Schema.
func validateMinimal(doc interface{}, result *ValidationResult) {
	fail := func(path string, err error) {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Path: path, Err: err})
	}

	obj, ok := doc.(map[string]interface{})
	if !ok {
		fail("", fmt.Errorf("script must be a JSON object"))
		return
	}
	if v, ok := obj["version"].(json.Number); !ok || v.String() != "1" {
		fail("version", fmt.Errorf("expected 1"))
	}
	if _, ok := obj["actions"].([]interface{}); !ok {
		fail("actions", fmt.Errorf("missing required array"))
	}
}

func (s *Script) validateActions() error {
	var errs []error
	for i, a := range s.Actions {
		path := fmt.Sprintf("actions[%d]", i)
		switch a.Op {
		case OpType, OpDraft:
			if a.Text == nil {
				errs = append(errs, &ValidationError{Path: path + ".text", Err: fmt.Errorf("required for %s", a.Op)})
			}
		case OpBeginEdit, OpCommit, OpToggle, OpDelete:
			if a.Task < 1 {
				errs = append(errs, &ValidationError{Path: path + ".task", Err: fmt.Errorf("required for %s", a.Op)})
			}
		case OpCreate, OpCancel, OpWaitLoaded:
		default:
			errs = append(errs, &ValidationError{Path: path + ".op", Err: fmt.Errorf("unknown op %q", a.Op)})
		}
	}
	return errors.Join(errs...)
}

func appendSchemaErrors(result *ValidationResult, err error) {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// jsonPointerToPath converts "/actions/2/op" to "actions[2].op".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
