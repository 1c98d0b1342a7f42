package tool

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Axon-Knowledge-Engine/deepagents/state"
)

func TestWriteTodos(t *testing.T) {
	st := state.New()
	tl := NewTodosTool(st)

	result, err := tl.Execute(context.Background(), map[string]interface{}{
		"todos": []interface{}{
			map[string]interface{}{"id": "1", "content": "research topic", "status": "in_progress"},
			map[string]interface{}{"content": "write report"},
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !strings.Contains(result.(string), "2") {
		t.Errorf("unexpected result: %v", result)
	}

	todos := st.Todos()
	if len(todos) != 2 {
		t.Fatalf("expected 2 todos, got %d", len(todos))
	}
	if todos[0].Status != state.TodoInProgress {
		t.Errorf("todos[0].Status = %q", todos[0].Status)
	}
	if todos[1].Status != state.TodoPending {
		t.Errorf("todos[1].Status = %q, want default pending", todos[1].Status)
	}
	if todos[1].ID == "" {
		t.Error("expected generated id for todos[1]")
	}
}

func TestWriteTodosRejectsInvalid(t *testing.T) {
	st := state.New()
	tl := NewTodosTool(st)

	if _, err := tl.Execute(context.Background(), map[string]interface{}{
		"todos": []interface{}{
			map[string]interface{}{"content": "task", "status": "done"},
		},
	}); err == nil {
		t.Error("expected error for invalid status")
	}

	if _, err := tl.Execute(context.Background(), map[string]interface{}{
		"todos": []interface{}{
			map[string]interface{}{"status": "pending"},
		},
	}); err == nil {
		t.Error("expected error for empty content")
	}
}

func TestLs(t *testing.T) {
	st := state.New()
	st.WriteFile("notes.md", "hi")
	st.WriteFile("a.txt", "x")

	result, err := NewLsTool(st).Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	files := result.([]string)
	if len(files) != 2 || files[0] != "a.txt" || files[1] != "notes.md" {
		t.Errorf("unexpected listing: %v", files)
	}
}

func TestReadFile(t *testing.T) {
	st := state.New()
	st.WriteFile("notes.md", "line one\nline two\nline three")
	tl := NewReadFileTool(st)

	result, err := tl.Execute(context.Background(), map[string]interface{}{"file_path": "notes.md"})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	out := result.(string)
	if !strings.Contains(out, "1\tline one") {
		t.Errorf("missing numbered first line:\n%s", out)
	}
	if !strings.Contains(out, "3\tline three") {
		t.Errorf("missing numbered last line:\n%s", out)
	}
}

func TestReadFileOffsetAndLimit(t *testing.T) {
	st := state.New()
	st.WriteFile("notes.md", "a\nb\nc\nd")
	tl := NewReadFileTool(st)

	result, err := tl.Execute(context.Background(), map[string]interface{}{
		"file_path": "notes.md",
		"offset":    1,
		"limit":     2,
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	out := result.(string)
	if strings.Contains(out, "\ta\n") || strings.Contains(out, "\td") {
		t.Errorf("offset/limit not applied:\n%s", out)
	}
	if !strings.Contains(out, "2\tb") || !strings.Contains(out, "3\tc") {
		t.Errorf("expected lines 2-3:\n%s", out)
	}
}

func TestReadFileMissing(t *testing.T) {
	st := state.New()
	result, err := NewReadFileTool(st).Execute(context.Background(), map[string]interface{}{"file_path": "ghost.txt"})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !strings.Contains(result.(string), "Error: File 'ghost.txt' not found") {
		t.Errorf("unexpected result: %v", result)
	}
}

func TestReadFileEmpty(t *testing.T) {
	st := state.New()
	st.WriteFile("empty.txt", "   ")
	result, err := NewReadFileTool(st).Execute(context.Background(), map[string]interface{}{"file_path": "empty.txt"})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !strings.Contains(result.(string), "empty contents") {
		t.Errorf("unexpected result: %v", result)
	}
}

func TestReadFileTruncatesOnRuneBoundary(t *testing.T) {
	st := state.New()
	// 3-byte runes that do not divide the width evenly, so a byte cut
	// would land mid-rune.
	st.WriteFile("wide.txt", strings.Repeat("世", 1000))

	result, err := NewReadFileTool(st).Execute(context.Background(), map[string]interface{}{"file_path": "wide.txt"})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	out := result.(string)
	if !utf8.ValidString(out) {
		t.Error("truncated output is not valid UTF-8")
	}
	if len(out) >= 3000 {
		t.Errorf("line not truncated, %d bytes", len(out))
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("hello", 10); got != "hello" {
		t.Errorf("short line changed: %q", got)
	}
	if got := truncateLine("hello", 3); got != "hel" {
		t.Errorf("ascii cut = %q", got)
	}
	// "é" is 2 bytes; cutting at 5 would split the third rune.
	if got := truncateLine("ééééé", 5); got != "éé" {
		t.Errorf("rune cut = %q", got)
	}
}

func TestWriteFile(t *testing.T) {
	st := state.New()
	result, err := NewWriteFileTool(st).Execute(context.Background(), map[string]interface{}{
		"file_path": "report.md",
		"content":   "# Findings",
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !strings.Contains(result.(string), "report.md") {
		t.Errorf("unexpected result: %v", result)
	}
	if got, _ := st.ReadFile("report.md"); got != "# Findings" {
		t.Errorf("file content = %q", got)
	}
}

func TestEditFile(t *testing.T) {
	st := state.New()
	st.WriteFile("doc.txt", "hello world")

	result, err := NewEditFileTool(st).Execute(context.Background(), map[string]interface{}{
		"file_path":  "doc.txt",
		"old_string": "world",
		"new_string": "there",
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !strings.Contains(result.(string), "Successfully replaced") {
		t.Errorf("unexpected result: %v", result)
	}
	if got, _ := st.ReadFile("doc.txt"); got != "hello there" {
		t.Errorf("file content = %q", got)
	}
}

func TestEditFileAmbiguous(t *testing.T) {
	st := state.New()
	st.WriteFile("doc.txt", "aa bb aa")

	result, err := NewEditFileTool(st).Execute(context.Background(), map[string]interface{}{
		"file_path":  "doc.txt",
		"old_string": "aa",
		"new_string": "cc",
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !strings.Contains(result.(string), "appears 2 times") {
		t.Errorf("expected ambiguity error, got: %v", result)
	}

	result, err = NewEditFileTool(st).Execute(context.Background(), map[string]interface{}{
		"file_path":   "doc.txt",
		"old_string":  "aa",
		"new_string":  "cc",
		"replace_all": true,
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !strings.Contains(result.(string), "2 instances") {
		t.Errorf("unexpected result: %v", result)
	}
	if got, _ := st.ReadFile("doc.txt"); got != "cc bb cc" {
		t.Errorf("file content = %q", got)
	}
}

func TestEditFileNotFoundStrings(t *testing.T) {
	st := state.New()
	st.WriteFile("doc.txt", "content")

	result, err := NewEditFileTool(st).Execute(context.Background(), map[string]interface{}{
		"file_path":  "doc.txt",
		"old_string": "missing",
		"new_string": "x",
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !strings.Contains(result.(string), "String not found") {
		t.Errorf("unexpected result: %v", result)
	}

	result, err = NewEditFileTool(st).Execute(context.Background(), map[string]interface{}{
		"file_path":  "nope.txt",
		"old_string": "a",
		"new_string": "b",
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !strings.Contains(result.(string), "not found") {
		t.Errorf("unexpected result: %v", result)
	}
}

func TestBuiltins(t *testing.T) {
	st := state.New()
	tools := Builtins(st)
	want := []string{"write_todos", "ls", "read_file", "write_file", "edit_file"}
	if len(tools) != len(want) {
		t.Fatalf("expected %d builtins, got %d", len(want), len(tools))
	}
	for i, name := range want {
		if tools[i].Name() != name {
			t.Errorf("builtins[%d] = %q, want %q", i, tools[i].Name(), name)
		}
	}
}
