package persist

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sadopc/blossom/internal/todo"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var schemaJSON string

const schemaURL = "mem://blossom/tasks.schema.json"

var recordSchema = compileSchema()

func compileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("add task schema: %v", err))
	}
	return compiler.MustCompile(schemaURL)
}

// ValidationError reports a persisted record that cannot be hydrated.
type ValidationError struct {
	Path string // location within the stored array
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Encode serializes the list as a JSON array of task records.
func Encode(tasks []todo.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []todo.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return data, nil
}

// Decode parses a stored task array. It accepts the data only as a whole:
// malformed JSON, a record that fails the schema, or a repeated id rejects
// everything.
func Decode(data []byte) ([]todo.Task, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	if err := recordSchema.Validate(doc); err != nil {
		return nil, &ValidationError{Err: err}
	}

	var tasks []todo.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	seen := make(map[int64]bool, len(tasks))
	for i, t := range tasks {
		if seen[t.ID] {
			return nil, &ValidationError{
				Path: fmt.Sprintf("[%d].id", i),
				Err:  fmt.Errorf("duplicate id %d", t.ID),
			}
		}
		seen[t.ID] = true
	}
	return tasks, nil
}
