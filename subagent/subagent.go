// Package subagent exposes delegation to isolated worker agents through a
// "task" tool. Workers share the parent's state but start with a fresh
// message history, which keeps the parent's context window clean.
package subagent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vinayprograms/agentkit/llm"
	"github.com/vinayprograms/agentkit/logging"

	"github.com/Axon-Knowledge-Engine/deepagents/react"
	"github.com/Axon-Knowledge-Engine/deepagents/state"
	"github.com/Axon-Knowledge-Engine/deepagents/tool"
)

// GeneralPurposeName is the delegate that is always available. It runs
// with the parent's own instructions.
const GeneralPurposeName = "general-purpose"

// SubAgent describes a named delegate.
type SubAgent struct {
	// Name is how the model addresses the delegate.
	Name string `json:"name" yaml:"name"`

	// Description tells the model when this delegate is the right choice.
	Description string `json:"description" yaml:"description"`

	// Prompt is the delegate's system prompt.
	Prompt string `json:"prompt" yaml:"prompt"`

	// Tools restricts the delegate to a subset of the parent's tools.
	// Empty means the full set.
	Tools []string `json:"tools,omitempty" yaml:"tools,omitempty"`
}

// Options configures the task tool.
type Options struct {
	// Provider backs every spawned delegate.
	Provider llm.Provider

	// SubAgents are the named delegates beyond general-purpose.
	SubAgents []SubAgent

	// GeneralPrompt is the system prompt for the general-purpose delegate,
	// normally the parent's own prompt.
	GeneralPrompt string

	// Registry is the parent's tool registry. Delegates get it minus the
	// task tool itself, so they cannot spawn further delegates.
	Registry *tool.Registry

	// State is shared between parent and delegates.
	State *state.State

	// MaxIterations bounds each delegate run. Zero means no bound.
	MaxIterations int
}

const taskDescriptionHeader = `Launch an ephemeral subagent to handle complex, multi-step independent tasks with isolated context windows.

Available agent types and the tools they have access to:
%s

When using the task tool, you must specify a subagent_type parameter to select the agent type to use.

When to use the task tool:
- When a task is complex and multi-step, and can be fully delegated in isolation
- When a task is independent of other tasks and can run in parallel
- When a task requires focused reasoning or heavy context that would bloat the orchestrator thread
- When you only need the final result, not intermediate reasoning

When NOT to use the task tool:
- If you need to see the intermediate output to decide the next step
- If the task is trivial (a few tool calls or simple lookups)
- If delegating does not reduce token usage, complexity, or context switching

Usage notes:
1. Launch multiple agents concurrently whenever possible to maximize performance
2. Each agent invocation is stateless; the agent cannot ask follow-up questions, so the description must contain a complete, detailed task
3. The agent's final message is returned to you; it is not visible to the user. You should send a concise summary of its result to the user afterwards
4. Trust the agent's outputs. Tell it exactly what to return (report, code, file paths) in the description`

// taskArgs are the task tool arguments.
type taskArgs struct {
	Description  string `json:"description" jsonschema_description:"Complete, self-contained task for the subagent to perform."`
	SubAgentType string `json:"subagent_type" jsonschema_description:"The type of specialized agent to use for this task."`
}

// taskTool spawns delegate agents.
type taskTool struct {
	opts        Options
	agents      map[string]SubAgent
	description string
	logger      *logging.Logger
}

// NewTaskTool builds the task tool. It fails when delegate names collide
// or a delegate is incompletely described.
func NewTaskTool(opts Options) (tool.Tool, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if opts.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if opts.State == nil {
		return nil, fmt.Errorf("state is required")
	}

	agents := map[string]SubAgent{
		GeneralPurposeName: {
			Name:        GeneralPurposeName,
			Description: "General-purpose agent for researching complex questions and executing multi-step tasks. Runs with the same instructions and tools as the orchestrator.",
			Prompt:      opts.GeneralPrompt,
		},
	}
	for _, sa := range opts.SubAgents {
		if sa.Name == "" || sa.Description == "" || sa.Prompt == "" {
			return nil, fmt.Errorf("subagent needs name, description, and prompt: %+v", sa)
		}
		if _, exists := agents[sa.Name]; exists {
			return nil, fmt.Errorf("duplicate subagent name: %s", sa.Name)
		}
		agents[sa.Name] = sa
	}

	var listing strings.Builder
	fmt.Fprintf(&listing, "- %s: %s\n", GeneralPurposeName, agents[GeneralPurposeName].Description)
	for _, sa := range opts.SubAgents {
		tools := "all tools"
		if len(sa.Tools) > 0 {
			tools = strings.Join(sa.Tools, ", ")
		}
		fmt.Fprintf(&listing, "- %s: %s (tools: %s)\n", sa.Name, sa.Description, tools)
	}

	return &taskTool{
		opts:        opts,
		agents:      agents,
		description: fmt.Sprintf(taskDescriptionHeader, strings.TrimRight(listing.String(), "\n")),
		logger:      logging.New().WithComponent("subagent"),
	}, nil
}

func (t *taskTool) Name() string { return "task" }

func (t *taskTool) Description() string { return t.description }

func (t *taskTool) Parameters() map[string]interface{} {
	return tool.GenerateSchema[taskArgs]()
}

func (t *taskTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	var in taskArgs
	if err := decodeTaskArgs(args, &in); err != nil {
		return nil, err
	}
	if in.Description == "" {
		return nil, fmt.Errorf("description must not be empty")
	}

	sa, ok := t.agents[in.SubAgentType]
	if !ok {
		return fmt.Sprintf("Error: invoked agent of type %s, the only allowed types are [%s]",
			in.SubAgentType, strings.Join(t.agentNames(), ", ")), nil
	}

	registry := t.delegateRegistry(sa)
	agent, err := react.New(react.Config{
		Name:          sa.Name,
		Provider:      t.opts.Provider,
		Prompt:        sa.Prompt,
		Registry:      registry,
		State:         t.opts.State,
		MaxIterations: t.opts.MaxIterations,
	})
	if err != nil {
		return nil, fmt.Errorf("spawning %s: %w", sa.Name, err)
	}

	start := time.Now()
	t.logger.Info("subagent started", map[string]interface{}{
		"type": sa.Name,
	})
	output, err := agent.Run(ctx, in.Description)
	t.logger.Info("subagent finished", map[string]interface{}{
		"type":        sa.Name,
		"duration_ms": time.Since(start).Milliseconds(),
		"error":       err != nil,
	})
	if err != nil {
		return nil, fmt.Errorf("subagent %s: %w", sa.Name, err)
	}
	return output, nil
}

// delegateRegistry builds the tool set for a delegate: the named subset
// when restricted, otherwise everything except the task tool.
func (t *taskTool) delegateRegistry(sa SubAgent) *tool.Registry {
	if len(sa.Tools) > 0 {
		return t.opts.Registry.Subset(sa.Tools)
	}
	var names []string
	for _, name := range t.opts.Registry.Names() {
		if name == t.Name() {
			continue
		}
		names = append(names, name)
	}
	return t.opts.Registry.Subset(names)
}

func (t *taskTool) agentNames() []string {
	names := []string{GeneralPurposeName}
	for _, sa := range t.opts.SubAgents {
		names = append(names, sa.Name)
	}
	return names
}

func decodeTaskArgs(args map[string]interface{}, in *taskArgs) error {
	if v, ok := args["description"].(string); ok {
		in.Description = v
	}
	if v, ok := args["subagent_type"].(string); ok {
		in.SubAgentType = v
	}
	if in.SubAgentType == "" {
		return fmt.Errorf("subagent_type must not be empty")
	}
	return nil
}
