package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/blossom/internal/todo"
)

func ToCSV(tasks []todo.Task, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	// Header
	if err := w.Write([]string{"ID", "Section", "Category", "Task", "Started", "In Progress", "Completed", "Created"}); err != nil {
		return err
	}

	for _, t := range tasks {
		d := todo.Present(t)
		row := []string{
			strconv.FormatInt(t.ID, 10),
			d.Section,
			d.Category,
			d.Text,
			strconv.FormatBool(t.Started),
			strconv.FormatBool(t.InProgress),
			strconv.FormatBool(t.Completed),
			createdAt(t.ID),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// createdAt recovers the creation time encoded in a task id.
func createdAt(id int64) string {
	return time.UnixMilli(id).Local().Format(time.RFC3339)
}
