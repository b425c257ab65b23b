package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/blossom/internal/todo"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Tasks      []todo.Task `json:"tasks"`
}

// ToJSON writes the tasks in their persisted record shape, wrapped with
// export metadata.
func ToJSON(tasks []todo.Task, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(tasks),
		Tasks:      tasks,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
