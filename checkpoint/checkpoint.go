// Package checkpoint persists conversation snapshots so agent runs can
// resume across process restarts.
package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/vinayprograms/agentkit/llm"

	"github.com/Axon-Knowledge-Engine/deepagents/state"
)

// Snapshot captures the full resumable state of a thread: the message
// history and the agent state (todos and virtual files).
type Snapshot struct {
	ThreadID  string        `json:"thread_id"`
	Messages  []llm.Message `json:"messages"`
	State     *state.State  `json:"state"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Checkpointer saves and restores thread snapshots. Load returns nil with
// no error when the thread has no snapshot yet.
type Checkpointer interface {
	Save(ctx context.Context, snap *Snapshot) error
	Load(ctx context.Context, threadID string) (*Snapshot, error)
}

// threadIDPattern restricts thread IDs to filesystem-safe names.
var threadIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// FileSaver stores one JSON file per thread under a directory.
type FileSaver struct {
	dir string
	mu  sync.Mutex
}

// NewFileSaver creates the directory if needed and returns a saver.
func NewFileSaver(dir string) (*FileSaver, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoint directory: %w", err)
	}
	return &FileSaver{dir: dir}, nil
}

// Save writes the snapshot atomically via a temp file rename.
func (s *FileSaver) Save(ctx context.Context, snap *Snapshot) error {
	if err := validateThreadID(snap.ThreadID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	path := s.path(snap.ThreadID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads a thread snapshot from disk. A missing file is not an error.
func (s *FileSaver) Load(ctx context.Context, threadID string) (*Snapshot, error) {
	if err := validateThreadID(threadID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(threadID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("corrupt checkpoint for thread %s: %w", threadID, err)
	}
	return &snap, nil
}

// Threads lists the thread IDs that have snapshots on disk.
func (s *FileSaver) Threads() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		ids = append(ids, entry.Name()[:len(entry.Name())-5])
	}
	return ids, nil
}

func (s *FileSaver) path(threadID string) string {
	return filepath.Join(s.dir, threadID+".json")
}

func validateThreadID(id string) error {
	if id == "" {
		return fmt.Errorf("thread ID must not be empty")
	}
	if !threadIDPattern.MatchString(id) {
		return fmt.Errorf("invalid thread ID: %s", id)
	}
	return nil
}

// MemorySaver keeps snapshots in memory. Useful for tests and short-lived
// sessions that do not need durability.
type MemorySaver struct {
	mu        sync.RWMutex
	snapshots map[string]*Snapshot
}

// NewMemorySaver returns an empty in-memory checkpointer.
func NewMemorySaver() *MemorySaver {
	return &MemorySaver{snapshots: make(map[string]*Snapshot)}
}

func (s *MemorySaver) Save(ctx context.Context, snap *Snapshot) error {
	if err := validateThreadID(snap.ThreadID); err != nil {
		return err
	}

	// Deep copy through JSON so later mutations don't leak into the store.
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	var stored Snapshot
	if err := json.Unmarshal(data, &stored); err != nil {
		return err
	}
	stored.UpdatedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.ThreadID] = &stored
	return nil
}

func (s *MemorySaver) Load(ctx context.Context, threadID string) (*Snapshot, error) {
	if err := validateThreadID(threadID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	snap, ok := s.snapshots[threadID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	var out Snapshot
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
