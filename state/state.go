// Package state holds the mutable agent state shared across a run: the todo
// list the agent plans with and the virtual filesystem it uses as scratch
// space. The state is what checkpointers persist between runs.
package state

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// TodoStatus is the lifecycle status of a todo item.
type TodoStatus string

const (
	TodoPending    TodoStatus = "pending"
	TodoInProgress TodoStatus = "in_progress"
	TodoCompleted  TodoStatus = "completed"
)

// ValidStatus reports whether s is a recognized todo status.
func ValidStatus(s TodoStatus) bool {
	switch s {
	case TodoPending, TodoInProgress, TodoCompleted:
		return true
	}
	return false
}

// Todo is a single planning item.
type Todo struct {
	ID      string     `json:"id"`
	Content string     `json:"content"`
	Status  TodoStatus `json:"status"`
}

// State is the deep agent state: todos plus a virtual file map. Files live
// in memory, not on the host filesystem; sub-agents spawned during a run
// share the same State so their file writes are visible to the parent.
// All methods are safe for concurrent use.
type State struct {
	mu    sync.RWMutex
	todos []Todo
	files map[string]string
}

// Schema is a state factory. The engine calls it when it needs a fresh
// state, e.g. when no checkpoint exists for a thread. Custom schemas
// pre-populate files or todos before the first turn.
type Schema func() *State

// New returns an empty State.
func New() *State {
	return &State{files: make(map[string]string)}
}

// DefaultSchema is the schema used when none is configured.
func DefaultSchema() Schema { return New }

// Todos returns a copy of the current todo list.
func (s *State) Todos() []Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Todo, len(s.todos))
	copy(out, s.todos)
	return out
}

// SetTodos replaces the todo list.
func (s *State) SetTodos(todos []Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = make([]Todo, len(todos))
	copy(s.todos, todos)
}

// ReadFile returns the content of a virtual file.
func (s *State) ReadFile(path string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.files[path]
	return content, ok
}

// WriteFile creates or replaces a virtual file.
func (s *State) WriteFile(path, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = content
}

// ListFiles returns the virtual file paths in sorted order.
func (s *State) ListFiles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Files returns a copy of the virtual file map.
func (s *State) Files() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.files))
	for p, c := range s.files {
		out[p] = c
	}
	return out
}

// snapshot is the serialized form of State.
type snapshot struct {
	Todos []Todo            `json:"todos"`
	Files map[string]string `json:"files"`
}

// MarshalJSON serializes the state for checkpointing.
func (s *State) MarshalJSON() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.Marshal(snapshot{Todos: s.todos, Files: s.files})
}

// UnmarshalJSON restores a checkpointed state.
func (s *State) UnmarshalJSON(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("restoring state: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = snap.Todos
	if snap.Files != nil {
		s.files = snap.Files
	} else {
		s.files = make(map[string]string)
	}
	return nil
}
