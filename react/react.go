// Package react runs a tool-calling agent loop over an LLM provider.
// The loop alternates model turns and tool execution until the model
// replies without requesting tools.
package react

import (
	"context"
	"fmt"
	"time"

	"github.com/vinayprograms/agentkit/llm"
	"github.com/vinayprograms/agentkit/logging"

	"github.com/Axon-Knowledge-Engine/deepagents/checkpoint"
	"github.com/Axon-Knowledge-Engine/deepagents/state"
	"github.com/Axon-Knowledge-Engine/deepagents/tool"
)

// Hook runs between the model reply and tool execution. It may rewrite the
// response (for example to edit tool call arguments) and may inject tool
// result messages directly. An injected message whose ToolCallID matches a
// requested tool call replaces execution of that call; injections naming no
// pending call are discarded.
type Hook func(ctx context.Context, st *state.State, resp *llm.ChatResponse) (*llm.ChatResponse, []llm.Message, error)

// Config assembles an agent.
type Config struct {
	// Name identifies the agent in logs and traces.
	Name string

	// Provider is the LLM backing the loop. Required.
	Provider llm.Provider

	// Prompt is the full system prompt.
	Prompt string

	// Registry holds the tools exposed to the model. Optional.
	Registry *tool.Registry

	// State is the shared agent state. A fresh one is created when nil.
	State *state.State

	// PostModelHook runs after each model turn, before tools execute.
	PostModelHook Hook

	// Checkpointer persists the thread after every turn. Optional.
	Checkpointer checkpoint.Checkpointer

	// ThreadID selects which checkpointed thread to resume. Required when
	// Checkpointer is set.
	ThreadID string

	// MaxIterations bounds the loop. Zero means no bound.
	MaxIterations int
}

// Agent is a runnable tool-calling loop.
type Agent struct {
	name          string
	provider      llm.Provider
	prompt        string
	registry      *tool.Registry
	state         *state.State
	hook          Hook
	checkpointer  checkpoint.Checkpointer
	threadID      string
	maxIterations int
	logger        *logging.Logger

	// OnToolCall fires after each executed tool, for UI surfaces.
	OnToolCall func(name string, args map[string]interface{}, result interface{}, err error)
}

// New validates the config and returns an agent.
func New(cfg Config) (*Agent, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if cfg.Prompt == "" {
		return nil, fmt.Errorf("prompt is required")
	}
	if cfg.Checkpointer != nil && cfg.ThreadID == "" {
		return nil, fmt.Errorf("thread ID is required when a checkpointer is set")
	}

	name := cfg.Name
	if name == "" {
		name = "agent"
	}
	registry := cfg.Registry
	if registry == nil {
		registry = tool.NewRegistry()
	}
	st := cfg.State
	if st == nil {
		st = state.New()
	}

	return &Agent{
		name:          name,
		provider:      cfg.Provider,
		prompt:        cfg.Prompt,
		registry:      registry,
		state:         st,
		hook:          cfg.PostModelHook,
		checkpointer:  cfg.Checkpointer,
		threadID:      cfg.ThreadID,
		maxIterations: cfg.MaxIterations,
		logger:        logging.New().WithComponent("react"),
	}, nil
}

// State returns the agent's shared state.
func (a *Agent) State() *state.State {
	return a.state
}

// Run executes the loop for one user input and returns the final assistant
// reply. With a checkpointer configured, the thread resumes from its last
// snapshot and is persisted after every turn.
func (a *Agent) Run(ctx context.Context, input string) (string, error) {
	start := time.Now()
	a.logger.ExecutionStart(a.name)

	ctx, span := a.startRunSpan(ctx)
	defer span.End()

	messages, err := a.initialMessages(ctx)
	if err != nil {
		a.logger.ExecutionComplete(a.name, time.Since(start), "failed")
		a.endRunSpan(span, "failed", err)
		return "", err
	}
	messages = append(messages, llm.Message{Role: "user", Content: input})

	toolDefs := a.toolDefinitions()
	a.logger.Debug("tools available", map[string]interface{}{
		"count": len(toolDefs),
	})

	for iteration := 0; ; iteration++ {
		if a.maxIterations > 0 && iteration >= a.maxIterations {
			err := fmt.Errorf("agent exceeded %d iterations without completing", a.maxIterations)
			a.logger.ExecutionComplete(a.name, time.Since(start), "failed")
			a.endRunSpan(span, "failed", err)
			return "", err
		}

		resp, err := a.provider.Chat(ctx, llm.ChatRequest{
			Messages: messages,
			Tools:    toolDefs,
		})
		if err != nil {
			a.logger.ExecutionComplete(a.name, time.Since(start), "failed")
			a.endRunSpan(span, "failed", err)
			return "", fmt.Errorf("LLM error: %w", err)
		}

		var injected []llm.Message
		if a.hook != nil {
			resp, injected, err = a.hook(ctx, a.state, resp)
			if err != nil {
				a.logger.ExecutionComplete(a.name, time.Since(start), "failed")
				a.endRunSpan(span, "failed", err)
				return "", fmt.Errorf("post-model hook: %w", err)
			}
			injected = a.matchedInjections(injected, resp.ToolCalls)
		}

		// No tool calls means the turn is final.
		if len(resp.ToolCalls) == 0 {
			messages = append(messages, llm.Message{Role: "assistant", Content: resp.Content})
			if err := a.saveCheckpoint(ctx, messages); err != nil {
				a.logger.Warn("checkpoint save failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
			a.logger.ExecutionComplete(a.name, time.Since(start), "complete")
			a.endRunSpan(span, "complete", nil)
			return resp.Content, nil
		}

		messages = append(messages, llm.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		toolMessages := a.executeTools(ctx, resp.ToolCalls, injected)
		messages = append(messages, toolMessages...)

		if err := a.saveCheckpoint(ctx, messages); err != nil {
			a.logger.Warn("checkpoint save failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

// matchedInjections keeps only the injected messages that name a pending
// tool call. Anything else has no call to replace and would stall the turn.
func (a *Agent) matchedInjections(injected []llm.Message, calls []llm.ToolCallResponse) []llm.Message {
	if len(injected) == 0 {
		return nil
	}
	pending := make(map[string]bool, len(calls))
	for _, tc := range calls {
		pending[tc.ID] = true
	}
	var kept []llm.Message
	for _, msg := range injected {
		if pending[msg.ToolCallID] {
			kept = append(kept, msg)
			continue
		}
		a.logger.Warn("hook injection names no pending tool call", map[string]interface{}{
			"tool_call_id": msg.ToolCallID,
		})
	}
	return kept
}

// initialMessages starts a fresh thread or resumes a checkpointed one.
func (a *Agent) initialMessages(ctx context.Context) ([]llm.Message, error) {
	if a.checkpointer == nil {
		return []llm.Message{{Role: "system", Content: a.prompt}}, nil
	}

	snap, err := a.checkpointer.Load(ctx, a.threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if snap == nil {
		return []llm.Message{{Role: "system", Content: a.prompt}}, nil
	}

	if snap.State != nil {
		a.state.SetTodos(snap.State.Todos())
		for path, content := range snap.State.Files() {
			a.state.WriteFile(path, content)
		}
	}
	a.logger.Info("resumed thread", map[string]interface{}{
		"thread":   a.threadID,
		"messages": len(snap.Messages),
	})
	return snap.Messages, nil
}

func (a *Agent) saveCheckpoint(ctx context.Context, messages []llm.Message) error {
	if a.checkpointer == nil {
		return nil
	}
	return a.checkpointer.Save(ctx, &checkpoint.Snapshot{
		ThreadID: a.threadID,
		Messages: messages,
		State:    a.state,
	})
}

func (a *Agent) toolDefinitions() []llm.ToolDef {
	var defs []llm.ToolDef
	for _, def := range a.registry.Definitions() {
		defs = append(defs, llm.ToolDef{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  def.Parameters,
		})
	}
	return defs
}
