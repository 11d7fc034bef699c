package importer

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"tomato/internal/app"
)

func TestTodoist_Parse(t *testing.T) {
	csv := `TYPE,CONTENT,PRIORITY,INDENT,AUTHOR,RESPONSIBLE,DATE,DATE_LANG,TIMEZONE
task,Buy groceries,4,1,,,2025-12-20,en,America/New_York
task,Review PR,1,1,,,,,
note,This is a note,4,1,,,,,
section,Someday,,,,,,,
task,  ,4,1,,,,,
task,Call mom,3,1,,,,,`

	items, err := (&TodoistParser{}).Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	want := []string{"Buy groceries", "Review PR", "Call mom"}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}
	for i, w := range want {
		if items[i].Text != w || items[i].Done {
			t.Errorf("items[%d] = %+v, want open %q", i, items[i], w)
		}
	}
}

func TestTodoist_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty", ""},
		{"missing TYPE", "CONTENT,PRIORITY\nBuy groceries,4"},
		{"missing CONTENT", "TYPE,PRIORITY\ntask,4"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := (&TodoistParser{}).Parse(strings.NewReader(tc.csv)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestTodoist_HeaderBOMAndRaggedRows(t *testing.T) {
	csv := "\ufeffTYPE,CONTENT,PRIORITY\n" +
		"task,With BOM,4,EXTRA,EXTRA2\n" +
		"task\n" +
		"task,Two,1\n"

	items, err := (&TodoistParser{}).Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(items) != 2 || items[0].Text != "With BOM" || items[1].Text != "Two" {
		t.Errorf("items = %+v", items)
	}
}

func TestTaskwarrior_Parse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Item
	}{
		{
			name: "array",
			input: `[
				{"description":"Buy milk","status":"pending","project":"Home","priority":"H"},
				{"description":"Review code","status":"completed","project":"Work"},
				{"description":"Deleted task","status":"deleted"}
			]`,
			want: []Item{{Text: "Buy milk"}, {Text: "Review code", Done: true}},
		},
		{
			name: "ndjson",
			input: `{"description":"Task 1","status":"pending"}

{"description":"  Task 2  ","status":"waiting"}
{"description":"Task 3","status":"completed"}`,
			want: []Item{{Text: "Task 1"}, {Text: "Task 2"}, {Text: "Task 3", Done: true}},
		},
		{
			name:  "leading whitespace before array",
			input: "\n\t [{\"description\":\"Only\",\"status\":\"pending\"}]",
			want:  []Item{{Text: "Only"}},
		},
		{
			name:  "blank descriptions skipped",
			input: `[{"description":"   ","status":"pending"}]`,
			want:  nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items, err := (&TaskwarriorParser{}).Parse(strings.NewReader(tc.input))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if len(items) != len(tc.want) {
				t.Fatalf("got %+v, want %+v", items, tc.want)
			}
			for i := range tc.want {
				if items[i] != tc.want[i] {
					t.Errorf("items[%d] = %+v, want %+v", i, items[i], tc.want[i])
				}
			}
		})
	}
}

func TestTaskwarrior_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "  \n "},
		{"invalid ndjson line", "{\"description\":\"Task 1\"}\n{invalid json}\n"},
		{"truncated array", `[{"description":"Task 1"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := (&TaskwarriorParser{}).Parse(strings.NewReader(tc.input)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestTaskwarrior_LongNDJSONLine(t *testing.T) {
	desc := strings.Repeat("a", 70_000)
	ndjson := fmt.Sprintf("{\"description\":%q,\"status\":\"pending\"}\n", desc)

	items, err := (&TaskwarriorParser{}).Parse(strings.NewReader(ndjson))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(items) != 1 || len(items[0].Text) != len(desc) {
		t.Fatalf("unexpected items for a long line")
	}
}

func TestGet(t *testing.T) {
	for _, format := range SupportedFormats() {
		p := Get(format)
		if p == nil {
			t.Fatalf("Get(%q) = nil", format)
		}
		if p.Name() != format {
			t.Errorf("Get(%q).Name() = %q", format, p.Name())
		}
	}
	if Get("Todoist") == nil {
		t.Error("format names should be case-insensitive")
	}
	if Get("unknown") != nil {
		t.Error("unknown format should return nil")
	}
}

func TestImport(t *testing.T) {
	ctrl := app.New(nil, app.Options{})
	if _, err := ctrl.AddTask("Already here"); err != nil {
		t.Fatal(err)
	}

	items := []Item{
		{Text: "First"},
		{Text: "already HERE"},
		{Text: "Second", Done: true},
		{Text: "First"},
		{Text: strings.Repeat("x", 1000)},
	}
	res := Import(items, ctrl)

	if res.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", res.Skipped)
	}

	list := ctrl.Tasks()
	var texts []string
	for _, task := range list {
		texts = append(texts, task.Text)
	}
	if res.Imported != 2 || len(res.Errors) != 1 {
		t.Errorf("Imported = %d, Errors = %v; want 2 imported and the overlong text rejected", res.Imported, res.Errors)
	}
	if len(list) != 1+res.Imported {
		t.Errorf("tasks = %q", texts)
	}

	// File order is kept at the top of the newest-first list
	first, second := -1, -1
	for i, text := range texts {
		switch text {
		case "First":
			first = i
		case "Second":
			second = i
			if !list[i].Completed {
				t.Error("completed item should be imported as completed")
			}
		}
	}
	if first < 0 || second < 0 || first > second {
		t.Errorf("order = %q", texts)
	}
}

func TestImport_FirstOccurrenceKeepsItsPlace(t *testing.T) {
	ctrl := app.New(nil, app.Options{})
	items := []Item{{Text: "Alpha"}, {Text: "Beta"}, {Text: "alpha"}, {Text: "Gamma"}}

	res := Import(items, ctrl)
	if res.Imported != 3 || res.Skipped != 1 {
		t.Fatalf("Imported = %d, Skipped = %d; want 3 and 1", res.Imported, res.Skipped)
	}

	var texts []string
	for _, task := range ctrl.Tasks() {
		texts = append(texts, task.Text)
	}
	want := []string{"Alpha", "Beta", "Gamma"}
	if !reflect.DeepEqual(texts, want) {
		t.Errorf("tasks = %q, want %q", texts, want)
	}
}
