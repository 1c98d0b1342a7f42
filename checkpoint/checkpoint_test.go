package checkpoint

import (
	"context"
	"testing"

	"github.com/vinayprograms/agentkit/llm"

	"github.com/Axon-Knowledge-Engine/deepagents/state"
)

func sampleSnapshot(threadID string) *Snapshot {
	st := state.New()
	st.WriteFile("notes.md", "observations")
	st.SetTodos([]state.Todo{{ID: "1", Content: "research", Status: state.TodoInProgress}})

	return &Snapshot{
		ThreadID: threadID,
		Messages: []llm.Message{
			{Role: "system", Content: "You are an assistant."},
			{Role: "user", Content: "hello"},
			{Role: "assistant", Content: "hi"},
		},
		State: st,
	}
}

func TestFileSaverRoundTrip(t *testing.T) {
	saver, err := NewFileSaver(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSaver failed: %v", err)
	}

	ctx := context.Background()
	if err := saver.Save(ctx, sampleSnapshot("thread-1")); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	snap, err := saver.Load(ctx, "thread-1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if snap == nil {
		t.Fatal("expected snapshot, got nil")
	}
	if len(snap.Messages) != 3 {
		t.Errorf("expected 3 messages, got %d", len(snap.Messages))
	}
	if snap.Messages[2].Content != "hi" {
		t.Errorf("messages[2].Content = %q", snap.Messages[2].Content)
	}
	if content, ok := snap.State.ReadFile("notes.md"); !ok || content != "observations" {
		t.Errorf("state file not restored: %q, %v", content, ok)
	}
	if todos := snap.State.Todos(); len(todos) != 1 || todos[0].Status != state.TodoInProgress {
		t.Errorf("todos not restored: %v", todos)
	}
	if snap.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not stamped on save")
	}
}

func TestFileSaverMissingThread(t *testing.T) {
	saver, err := NewFileSaver(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSaver failed: %v", err)
	}

	snap, err := saver.Load(context.Background(), "nope")
	if err != nil {
		t.Fatalf("load of missing thread errored: %v", err)
	}
	if snap != nil {
		t.Errorf("expected nil snapshot, got %+v", snap)
	}
}

func TestFileSaverRejectsBadThreadID(t *testing.T) {
	saver, err := NewFileSaver(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSaver failed: %v", err)
	}

	bad := []string{"", "../escape", "a/b", "a b"}
	for _, id := range bad {
		if err := saver.Save(context.Background(), &Snapshot{ThreadID: id, State: state.New()}); err == nil {
			t.Errorf("expected error for thread ID %q", id)
		}
	}
}

func TestFileSaverThreads(t *testing.T) {
	saver, err := NewFileSaver(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSaver failed: %v", err)
	}

	ctx := context.Background()
	for _, id := range []string{"alpha", "beta"} {
		if err := saver.Save(ctx, sampleSnapshot(id)); err != nil {
			t.Fatalf("save %s failed: %v", id, err)
		}
	}

	ids, err := saver.Threads()
	if err != nil {
		t.Fatalf("Threads failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 threads, got %v", ids)
	}
}

func TestMemorySaverIsolation(t *testing.T) {
	saver := NewMemorySaver()
	ctx := context.Background()

	snap := sampleSnapshot("t1")
	if err := saver.Save(ctx, snap); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// Mutate the original after save; stored copy must not change.
	snap.State.WriteFile("later.txt", "new")
	snap.Messages = append(snap.Messages, llm.Message{Role: "user", Content: "more"})

	loaded, err := saver.Load(ctx, "t1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded.Messages) != 3 {
		t.Errorf("stored messages mutated: got %d", len(loaded.Messages))
	}
	if _, ok := loaded.State.ReadFile("later.txt"); ok {
		t.Error("stored state mutated after save")
	}

	// Mutating the loaded copy must not affect the store either.
	loaded.State.WriteFile("x", "y")
	again, _ := saver.Load(ctx, "t1")
	if _, ok := again.State.ReadFile("x"); ok {
		t.Error("loaded snapshot shares storage with the store")
	}
}

func TestMemorySaverMissing(t *testing.T) {
	saver := NewMemorySaver()
	snap, err := saver.Load(context.Background(), "missing")
	if err != nil {
		t.Fatalf("load errored: %v", err)
	}
	if snap != nil {
		t.Error("expected nil snapshot for missing thread")
	}
}
