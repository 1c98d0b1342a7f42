package tool

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Axon-Knowledge-Engine/deepagents/state"
)

const editFileDescription = `Performs exact string replacements in a file stored in the agent's virtual filesystem.

Usage:
- You must read the file with read_file before editing it. The edit FAILS if old_string does not exist in the file.
- When editing text from read_file output, preserve the text exactly as it appears after the line number prefix. The prefix (spaces + line number + tab) is display formatting, never part of the file content.
- ALWAYS prefer editing an existing file. NEVER write a new file unless explicitly required.
- The edit FAILS if old_string is not unique in the file. Either provide a larger string with more surrounding context to make it unique, or use replace_all to change every instance.
- Use replace_all for renaming a string across the whole file.`

const readFileDescription = `Reads a file from the agent's virtual filesystem.

Usage:
- By default reads up to 2000 lines starting from the beginning of the file
- Optionally specify a line offset and limit, useful for long files
- Lines longer than 2000 characters are truncated
- Results use cat -n format, with line numbers starting at 1
- If the file does not exist an error is returned`

// maxReadLines and maxLineWidth bound read_file output. Mirrors the cat -n
// presentation the model is told to expect.
const (
	maxReadLines = 2000
	maxLineWidth = 2000
)

// lsTool lists files in the virtual filesystem.
type lsTool struct {
	st *state.State
}

// NewLsTool returns the ls tool bound to st.
func NewLsTool(st *state.State) Tool {
	return &lsTool{st: st}
}

func (t *lsTool) Name() string { return "ls" }

func (t *lsTool) Description() string {
	return "List all files in the agent's virtual filesystem."
}

func (t *lsTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func (t *lsTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return t.st.ListFiles(), nil
}

// readFileArgs are the read_file arguments.
type readFileArgs struct {
	FilePath string `json:"file_path" jsonschema_description:"Path of the file to read."`
	Offset   int    `json:"offset,omitempty" jsonschema_description:"Line number to start reading from (0-based)."`
	Limit    int    `json:"limit,omitempty" jsonschema_description:"Maximum number of lines to read. Defaults to 2000."`
}

// readFileTool reads a file from the virtual filesystem with cat -n style
// line numbering.
type readFileTool struct {
	st *state.State
}

// NewReadFileTool returns the read_file tool bound to st.
func NewReadFileTool(st *state.State) Tool {
	return &readFileTool{st: st}
}

func (t *readFileTool) Name() string { return "read_file" }

func (t *readFileTool) Description() string { return readFileDescription }

func (t *readFileTool) Parameters() map[string]interface{} {
	return GenerateSchema[readFileArgs]()
}

func (t *readFileTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	var in readFileArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}

	content, ok := t.st.ReadFile(in.FilePath)
	if !ok {
		return fmt.Sprintf("Error: File '%s' not found", in.FilePath), nil
	}
	if strings.TrimSpace(content) == "" {
		return "System reminder: File exists but has empty contents", nil
	}

	limit := in.Limit
	if limit <= 0 {
		limit = maxReadLines
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}

	lines := strings.Split(content, "\n")
	if offset >= len(lines) {
		return fmt.Sprintf("Error: Line offset %d exceeds file length (%d lines)", offset, len(lines)), nil
	}

	end := offset + limit
	if end > len(lines) {
		end = len(lines)
	}

	var b strings.Builder
	for i := offset; i < end; i++ {
		line := truncateLine(lines[i], maxLineWidth)
		fmt.Fprintf(&b, "%6d\t%s\n", i+1, line)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// truncateLine cuts a line at width bytes without splitting a rune.
func truncateLine(line string, width int) string {
	if len(line) <= width {
		return line
	}
	for width > 0 && !utf8.RuneStart(line[width]) {
		width--
	}
	return line[:width]
}

// writeFileArgs are the write_file arguments.
type writeFileArgs struct {
	FilePath string `json:"file_path" jsonschema_description:"Path of the file to write."`
	Content  string `json:"content" jsonschema_description:"Full content to store at the path. Overwrites any existing file."`
}

// writeFileTool writes a file into the virtual filesystem.
type writeFileTool struct {
	st *state.State
}

// NewWriteFileTool returns the write_file tool bound to st.
func NewWriteFileTool(st *state.State) Tool {
	return &writeFileTool{st: st}
}

func (t *writeFileTool) Name() string { return "write_file" }

func (t *writeFileTool) Description() string {
	return "Write a file to the agent's virtual filesystem. Overwrites the file if it already exists."
}

func (t *writeFileTool) Parameters() map[string]interface{} {
	return GenerateSchema[writeFileArgs]()
}

func (t *writeFileTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	var in writeFileArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.FilePath == "" {
		return nil, fmt.Errorf("file_path must not be empty")
	}
	t.st.WriteFile(in.FilePath, in.Content)
	return fmt.Sprintf("Updated file %s", in.FilePath), nil
}

// editFileArgs are the edit_file arguments.
type editFileArgs struct {
	FilePath   string `json:"file_path" jsonschema_description:"Path of the file to modify."`
	OldString  string `json:"old_string" jsonschema_description:"Exact text to replace."`
	NewString  string `json:"new_string" jsonschema_description:"Replacement text. Must differ from old_string."`
	ReplaceAll bool   `json:"replace_all,omitempty" jsonschema_description:"Replace every occurrence of old_string. Defaults to false."`
}

// editFileTool performs exact string replacement in a virtual file.
type editFileTool struct {
	st *state.State
}

// NewEditFileTool returns the edit_file tool bound to st.
func NewEditFileTool(st *state.State) Tool {
	return &editFileTool{st: st}
}

func (t *editFileTool) Name() string { return "edit_file" }

func (t *editFileTool) Description() string { return editFileDescription }

func (t *editFileTool) Parameters() map[string]interface{} {
	return GenerateSchema[editFileArgs]()
}

func (t *editFileTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	var in editFileArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}

	content, ok := t.st.ReadFile(in.FilePath)
	if !ok {
		return fmt.Sprintf("Error: File '%s' not found", in.FilePath), nil
	}
	if in.OldString == in.NewString {
		return nil, fmt.Errorf("old_string and new_string must differ")
	}

	count := strings.Count(content, in.OldString)
	if count == 0 {
		return fmt.Sprintf("Error: String not found in file: '%s'", in.OldString), nil
	}

	if in.ReplaceAll {
		updated := strings.ReplaceAll(content, in.OldString, in.NewString)
		t.st.WriteFile(in.FilePath, updated)
		return fmt.Sprintf("Successfully replaced %d instances of the string in '%s'", count, in.FilePath), nil
	}

	if count > 1 {
		return fmt.Sprintf("Error: String '%s' appears %d times in file. Use replace_all=true to replace all instances, or provide a more specific string with surrounding context.", in.OldString, count), nil
	}
	updated := strings.Replace(content, in.OldString, in.NewString, 1)
	t.st.WriteFile(in.FilePath, updated)
	return fmt.Sprintf("Successfully replaced string in '%s'", in.FilePath), nil
}

// Builtins returns the standard tool set bound to st, in the order the
// agent advertises them.
func Builtins(st *state.State) []Tool {
	return []Tool{
		NewTodosTool(st),
		NewLsTool(st),
		NewReadFileTool(st),
		NewWriteFileTool(st),
		NewEditFileTool(st),
	}
}
