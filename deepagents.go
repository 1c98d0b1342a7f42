// Package deepagents assembles planning, virtual filesystem, and
// delegation tooling around an LLM into a runnable agent.
package deepagents

import (
	"errors"
	"fmt"

	"github.com/vinayprograms/agentkit/llm"

	"github.com/Axon-Knowledge-Engine/deepagents/checkpoint"
	"github.com/Axon-Knowledge-Engine/deepagents/interrupt"
	"github.com/Axon-Knowledge-Engine/deepagents/model"
	"github.com/Axon-Knowledge-Engine/deepagents/react"
	"github.com/Axon-Knowledge-Engine/deepagents/state"
	"github.com/Axon-Knowledge-Engine/deepagents/subagent"
	"github.com/Axon-Knowledge-Engine/deepagents/tool"
)

// ErrHookConflict is returned when both a post-model hook and an interrupt
// config are supplied. The interrupt config is itself implemented as a
// post-model hook, so only one can be installed.
var ErrHookConflict = errors.New(
	"cannot specify both a post-model hook and an interrupt config: " +
		"use the interrupt config for tool review or the hook for custom post-processing")

// Options configures a deep agent.
type Options struct {
	// Tools are the caller's domain tools, added on top of the built-ins.
	Tools []tool.Tool

	// Instructions are appended to the base system prompt.
	Instructions string

	// Model backs the agent. When nil the default provider is used.
	Model llm.Provider

	// SubAgents are named delegates reachable through the task tool. The
	// general-purpose delegate is always available.
	SubAgents []subagent.SubAgent

	// StateSchema constructs the agent state. Defaults to state.New.
	StateSchema state.Schema

	// InterruptConfig routes the named tools through human review.
	// Requires an Approver. Mutually exclusive with PostModelHook.
	InterruptConfig interrupt.Config

	// Approver reviews interrupted tool calls.
	Approver interrupt.Approver

	// Checkpointer persists the conversation between runs.
	Checkpointer checkpoint.Checkpointer

	// ThreadID names the checkpointed thread. Required with Checkpointer.
	ThreadID string

	// PostModelHook runs after each model turn. Mutually exclusive with
	// InterruptConfig.
	PostModelHook react.Hook

	// Name identifies the agent in logs and traces.
	Name string

	// MaxIterations bounds each run of the agent and its delegates.
	// Zero means no bound.
	MaxIterations int
}

// CreateDeepAgent assembles the system prompt, tool set, delegation, and
// persistence described by opts and returns the runnable agent.
func CreateDeepAgent(opts Options) (*react.Agent, error) {
	if opts.PostModelHook != nil && opts.InterruptConfig != nil {
		return nil, ErrHookConflict
	}

	provider := opts.Model
	if provider == nil {
		var err error
		provider, err = model.Default()
		if err != nil {
			return nil, fmt.Errorf("default model: %w", err)
		}
	}

	schema := opts.StateSchema
	if schema == nil {
		schema = state.DefaultSchema()
	}
	st := schema()
	if st == nil {
		return nil, fmt.Errorf("state schema returned nil")
	}

	prompt := BasePrompt + opts.Instructions

	registry := tool.NewRegistry()
	for _, tl := range tool.Builtins(st) {
		registry.Register(tl)
	}
	for _, tl := range opts.Tools {
		registry.Register(tl)
	}

	taskTool, err := subagent.NewTaskTool(subagent.Options{
		Provider:      provider,
		SubAgents:     opts.SubAgents,
		GeneralPrompt: prompt,
		Registry:      registry,
		State:         st,
		MaxIterations: opts.MaxIterations,
	})
	if err != nil {
		return nil, fmt.Errorf("task tool: %w", err)
	}
	registry.Register(taskTool)

	hook := opts.PostModelHook
	if opts.InterruptConfig != nil {
		if opts.Approver == nil {
			return nil, fmt.Errorf("interrupt config requires an approver")
		}
		hook = interrupt.CreateHook(opts.InterruptConfig, opts.Approver)
	}

	return react.New(react.Config{
		Name:          opts.Name,
		Provider:      provider,
		Prompt:        prompt,
		Registry:      registry,
		State:         st,
		PostModelHook: hook,
		Checkpointer:  opts.Checkpointer,
		ThreadID:      opts.ThreadID,
		MaxIterations: opts.MaxIterations,
	})
}
