package export

import (
	"encoding/json"

	"tomato/internal/sessionlog"
	"tomato/internal/tasks"
)

// JSON formats doc as indented JSON. Empty lists are written as [] rather
// than null.
func JSON(doc *Document) ([]byte, error) {
	out := *doc
	if out.Sessions == nil {
		out.Sessions = []sessionlog.Record{}
	}
	if out.Tasks == nil {
		out.Tasks = []tasks.Task{}
	}
	return json.MarshalIndent(&out, "", "  ")
}
