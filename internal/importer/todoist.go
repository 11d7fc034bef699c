package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// TodoistParser reads Todoist CSV backups.
type TodoistParser struct{}

// Name returns "todoist".
func (p *TodoistParser) Name() string {
	return "todoist"
}

// Parse returns the task rows; notes and sections are skipped. Todoist
// backups contain open tasks only.
func (p *TodoistParser) Parse(r io.Reader) ([]Item, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int)
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff") // UTF-8 BOM
		}
		cols[strings.ToUpper(strings.TrimSpace(col))] = i
	}
	typeIdx, ok := cols["TYPE"]
	if !ok {
		return nil, fmt.Errorf("missing required column: TYPE")
	}
	contentIdx, ok := cols["CONTENT"]
	if !ok {
		return nil, fmt.Errorf("missing required column: CONTENT")
	}

	var items []Item
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if typeIdx >= len(record) || contentIdx >= len(record) {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(record[typeIdx]), "task") {
			continue
		}
		text := strings.TrimSpace(record[contentIdx])
		if text == "" {
			continue
		}
		items = append(items, Item{Text: text})
	}
	return items, nil
}
