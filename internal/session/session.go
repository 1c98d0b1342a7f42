// Package session records a chronological event log for each agent run
// and persists it for later replay.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Status constants for sessions.
const (
	StatusRunning  = "running"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

// Event types for the session log.
const (
	EventSystem     = "system"      // System prompt sent to the LLM
	EventUser       = "user"        // User input
	EventAssistant  = "assistant"   // LLM reply
	EventToolCall   = "tool_call"   // Tool invocation started
	EventToolResult = "tool_result" // Tool completed
	EventRunStart   = "run_start"
	EventRunEnd     = "run_end"
)

// Event is a single entry in the session log. The replay command renders
// these in order.
type Event struct {
	SeqID     uint64    `json:"seq"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	// CorrelationID links a tool_result back to its tool_call.
	CorrelationID string `json:"corr_id,omitempty"`

	// Agent attributes the event to a delegate when non-empty.
	Agent string `json:"agent,omitempty"`

	Content string                 `json:"content,omitempty"`
	Tool    string                 `json:"tool,omitempty"`
	Args    map[string]interface{} `json:"args,omitempty"`

	Success    *bool  `json:"success,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"`
}

// Session is one agent run's forensic record.
type Session struct {
	ID        string    `json:"id"`
	AgentName string    `json:"agent_name"`
	ThreadID  string    `json:"thread_id,omitempty"`
	Input     string    `json:"input"`
	Output    string    `json:"output,omitempty"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Events    []Event   `json:"events"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	seqCounter uint64
	mu         sync.Mutex
}

// New creates a running session with a fresh ID.
func New(agentName, threadID, input string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		AgentName: agentName,
		ThreadID:  threadID,
		Input:     input,
		Status:    StatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Log appends an event, assigning it the next sequence number, and returns
// the assigned sequence.
func (s *Session) Log(ev Event) uint64 {
	seq := atomic.AddUint64(&s.seqCounter, 1)
	ev.SeqID = seq
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	s.mu.Lock()
	s.Events = append(s.Events, ev)
	s.UpdatedAt = time.Now()
	s.mu.Unlock()
	return seq
}

// LogToolCall records a tool invocation and returns a correlation ID that
// the matching result event should carry.
func (s *Session) LogToolCall(agent, tool string, args map[string]interface{}) string {
	corrID := uuid.NewString()
	s.Log(Event{
		Type:          EventToolCall,
		CorrelationID: corrID,
		Agent:         agent,
		Tool:          tool,
		Args:          args,
	})
	return corrID
}

// LogToolResult records a tool completion.
func (s *Session) LogToolResult(agent, tool, corrID, content string, err error, duration time.Duration) {
	ok := err == nil
	ev := Event{
		Type:          EventToolResult,
		CorrelationID: corrID,
		Agent:         agent,
		Tool:          tool,
		Content:       content,
		Success:       &ok,
		DurationMs:    duration.Milliseconds(),
	}
	if err != nil {
		ev.Error = err.Error()
	}
	s.Log(ev)
}

// Complete marks the session finished with its final output.
func (s *Session) Complete(output string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = StatusComplete
	s.Output = output
	s.UpdatedAt = time.Now()
}

// Fail marks the session failed.
func (s *Session) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = StatusFailed
	s.Error = err.Error()
	s.UpdatedAt = time.Now()
}

// FileManager persists sessions as JSON files under a directory.
type FileManager struct {
	dir string
	mu  sync.Mutex
}

// NewFileManager creates the session directory if needed.
func NewFileManager(dir string) (*FileManager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FileManager{dir: dir}, nil
}

// Save writes the session to <dir>/<id>.json.
func (m *FileManager) Save(s *Session) error {
	s.mu.Lock()
	data, err := json.MarshalIndent(s, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	path := filepath.Join(m.dir, s.ID+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads a session by ID.
func (m *FileManager) Load(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(m.dir, id+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", id, err)
	}
	s.seqCounter = uint64(len(s.Events))
	return &s, nil
}

// List returns session IDs sorted newest first by modification time.
func (m *FileManager) List() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, err
	}

	type stamped struct {
		id  string
		mod time.Time
	}
	var found []stamped
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, stamped{
			id:  entry.Name()[:len(entry.Name())-5],
			mod: info.ModTime(),
		})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].mod.After(found[j].mod) })

	ids := make([]string, 0, len(found))
	for _, f := range found {
		ids = append(ids, f.id)
	}
	return ids, nil
}

// Latest returns the most recently modified session ID.
func (m *FileManager) Latest() (string, error) {
	ids, err := m.List()
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("no sessions found")
	}
	return ids[0], nil
}
