package importer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// TaskwarriorParser reads the output of `task export`, either a JSON array
// or one JSON object per line.
type TaskwarriorParser struct{}

type taskwarriorTask struct {
	Description string `json:"description"`
	Status      string `json:"status"`
	UUID        string `json:"uuid"`
}

const maxNDJSONLineBytes = 4 << 20

// Name returns "taskwarrior".
func (p *TaskwarriorParser) Name() string {
	return "taskwarrior"
}

// Parse returns pending and completed tasks; deleted ones are skipped.
func (p *TaskwarriorParser) Parse(r io.Reader) ([]Item, error) {
	br := bufio.NewReader(r)
	prefix, first, err := readFirstNonSpace(br)
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty input")
		}
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	rest := io.MultiReader(bytes.NewReader(prefix), br)
	if first == '[' {
		return parseJSONArray(rest)
	}
	return parseNDJSON(rest)
}

func readFirstNonSpace(r *bufio.Reader) ([]byte, byte, error) {
	var prefix []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && len(prefix) == 0 {
				return nil, 0, io.EOF
			}
			return prefix, 0, err
		}
		prefix = append(prefix, b)
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return prefix, b, nil
	}
}

func parseJSONArray(r io.Reader) ([]Item, error) {
	dec := json.NewDecoder(r)
	if tok, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to parse JSON array: %w", err)
	} else if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("failed to parse JSON array: expected '['")
	}

	var items []Item
	for n := 1; dec.More(); n++ {
		var tw taskwarriorTask
		if err := dec.Decode(&tw); err != nil {
			return nil, fmt.Errorf("failed to decode task %d: %w", n, err)
		}
		if item, ok := itemFromTaskwarrior(tw); ok {
			items = append(items, item)
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to parse JSON array: %w", err)
	}
	return items, nil
}

func parseNDJSON(r io.Reader) ([]Item, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxNDJSONLineBytes)

	var items []Item
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var tw taskwarriorTask
		if err := json.Unmarshal(line, &tw); err != nil {
			return nil, fmt.Errorf("invalid JSON on line %d: %w", lineNo, err)
		}
		if item, ok := itemFromTaskwarrior(tw); ok {
			items = append(items, item)
		}
	}
	if err := scanner.Err(); err != nil {
		if err == bufio.ErrTooLong {
			return nil, fmt.Errorf("taskwarrior NDJSON line %d exceeds %d bytes", lineNo+1, maxNDJSONLineBytes)
		}
		return nil, fmt.Errorf("failed to read NDJSON: %w", err)
	}
	return items, nil
}

func itemFromTaskwarrior(tw taskwarriorTask) (Item, bool) {
	text := strings.TrimSpace(tw.Description)
	if tw.Status == "deleted" || text == "" {
		return Item{}, false
	}
	return Item{Text: text, Done: tw.Status == "completed"}, true
}
