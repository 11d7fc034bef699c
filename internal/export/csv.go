package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"
)

var csvHeader = []string{"completed_at", "type", "phase", "duration_minutes", "task_id", "task"}

// CSV writes one row per session, newest first.
func CSV(doc *Document) ([]byte, error) {
	taskNames := make(map[string]string, len(doc.Tasks))
	for _, t := range doc.Tasks {
		taskNames[t.ID] = t.Text
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range doc.Sessions {
		row := []string{
			r.CompletedAt.Format(time.RFC3339),
			string(r.Type),
			string(r.Phase),
			strconv.Itoa(r.DurationMinutes),
			r.TaskID,
			taskNames[r.TaskID],
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
