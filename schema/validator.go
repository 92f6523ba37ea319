// Package schema validates decoded documents against a JSON Schema.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Issue is one schema violation.
type Issue struct {
	// Path is the JSON pointer of the offending value, e.g. "/server/timeout".
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return i.Path + ": " + i.Message
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	lines := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		lines[i] = "- " + issue.String()
	}
	return "schema validation failed:\n" + strings.Join(lines, "\n")
}

// Validator checks values against one compiled schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schemaData, registered under name.
func NewValidator(name string, schemaData []byte) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(schemaData)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource %s: %w", name, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}
	return &Validator{schema: compiled}, nil
}

// Validate checks data, which may be any JSON-marshalable value. Violations
// are returned as *ValidationError.
func (v *Validator) Validate(data interface{}) error {
	// The compiled schema only understands generic JSON values
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal value to JSON for validation: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal JSON for validation: %w", err)
	}

	err = v.schema.Validate(doc)
	if err == nil {
		return nil
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	out := &ValidationError{}
	collectIssues(verr, &out.Issues)
	if len(out.Issues) == 0 {
		out.Issues = append(out.Issues, Issue{Path: "/", Message: verr.Message})
	}
	return out
}

// collectIssues flattens the cause tree, keeping only leaf violations.
func collectIssues(err *jsonschema.ValidationError, issues *[]Issue) {
	if len(err.Causes) == 0 {
		path := err.InstanceLocation
		if path == "" {
			path = "/"
		}
		*issues = append(*issues, Issue{Path: path, Message: err.Message})
		return
	}
	for _, cause := range err.Causes {
		collectIssues(cause, issues)
	}
}
