// Package interrupt pauses selected tool calls for human review before
// they execute. It plugs into the agent loop as a post-model hook.
package interrupt

import (
	"context"
	"fmt"

	"github.com/vinayprograms/agentkit/llm"
	"github.com/vinayprograms/agentkit/logging"

	"github.com/Axon-Knowledge-Engine/deepagents/react"
	"github.com/Axon-Knowledge-Engine/deepagents/state"
)

// ToolConfig declares which review decisions are permitted for one tool.
type ToolConfig struct {
	AllowAccept  bool `json:"allow_accept" yaml:"allow_accept"`
	AllowEdit    bool `json:"allow_edit" yaml:"allow_edit"`
	AllowRespond bool `json:"allow_respond" yaml:"allow_respond"`
	AllowIgnore  bool `json:"allow_ignore" yaml:"allow_ignore"`
}

// Config maps tool names to their review policy. Tools absent from the map
// execute without review.
type Config map[string]ToolConfig

// DecisionType is the reviewer's verdict on a pending tool call.
type DecisionType string

const (
	// DecisionAccept executes the call as requested.
	DecisionAccept DecisionType = "accept"
	// DecisionEdit executes the call with reviewer-supplied arguments.
	DecisionEdit DecisionType = "edit"
	// DecisionRespond skips execution and feeds the reviewer's message to
	// the model as the tool result.
	DecisionRespond DecisionType = "respond"
	// DecisionIgnore skips execution and tells the model the call was
	// declined.
	DecisionIgnore DecisionType = "ignore"
)

// Request is a pending tool call presented for review.
type Request struct {
	ToolName string
	Args     map[string]interface{}
	Policy   ToolConfig
}

// Decision is the reviewer's response to a Request.
type Decision struct {
	Type DecisionType

	// Args replaces the tool arguments for DecisionEdit.
	Args map[string]interface{}

	// Message is the synthetic tool result for DecisionRespond.
	Message string
}

// Approver reviews pending tool calls. Review blocks until a decision is
// available or the context is cancelled.
type Approver interface {
	Review(ctx context.Context, req Request) (Decision, error)
}

// ApproverFunc adapts a function to the Approver interface.
type ApproverFunc func(ctx context.Context, req Request) (Decision, error)

func (f ApproverFunc) Review(ctx context.Context, req Request) (Decision, error) {
	return f(ctx, req)
}

// CreateHook returns a post-model hook that routes matching tool calls
// through the approver. Calls for tools outside cfg pass through untouched.
func CreateHook(cfg Config, approver Approver) react.Hook {
	logger := logging.New().WithComponent("interrupt")

	return func(ctx context.Context, st *state.State, resp *llm.ChatResponse) (*llm.ChatResponse, []llm.Message, error) {
		if len(resp.ToolCalls) == 0 {
			return resp, nil, nil
		}

		var injected []llm.Message
		calls := make([]llm.ToolCallResponse, len(resp.ToolCalls))
		copy(calls, resp.ToolCalls)

		for i, tc := range calls {
			policy, gated := cfg[tc.Name]
			if !gated {
				continue
			}

			decision, err := approver.Review(ctx, Request{
				ToolName: tc.Name,
				Args:     tc.Args,
				Policy:   policy,
			})
			if err != nil {
				return nil, nil, fmt.Errorf("review of %s: %w", tc.Name, err)
			}
			if err := validateDecision(policy, decision); err != nil {
				return nil, nil, fmt.Errorf("review of %s: %w", tc.Name, err)
			}

			logger.Info("tool call reviewed", map[string]interface{}{
				"tool":     tc.Name,
				"decision": string(decision.Type),
			})

			switch decision.Type {
			case DecisionAccept:
				// Execute as requested.
			case DecisionEdit:
				calls[i].Args = decision.Args
			case DecisionRespond:
				injected = append(injected, llm.Message{
					Role:       "tool",
					ToolCallID: tc.ID,
					Content:    decision.Message,
				})
			case DecisionIgnore:
				injected = append(injected, llm.Message{
					Role:       "tool",
					ToolCallID: tc.ID,
					Content:    fmt.Sprintf("The user declined the %s call. Do not retry it; continue without it.", tc.Name),
				})
			}
		}

		out := *resp
		out.ToolCalls = calls
		return &out, injected, nil
	}
}

func validateDecision(policy ToolConfig, d Decision) error {
	switch d.Type {
	case DecisionAccept:
		if !policy.AllowAccept {
			return fmt.Errorf("accept is not permitted")
		}
	case DecisionEdit:
		if !policy.AllowEdit {
			return fmt.Errorf("edit is not permitted")
		}
		if d.Args == nil {
			return fmt.Errorf("edit decision requires replacement arguments")
		}
	case DecisionRespond:
		if !policy.AllowRespond {
			return fmt.Errorf("respond is not permitted")
		}
		if d.Message == "" {
			return fmt.Errorf("respond decision requires a message")
		}
	case DecisionIgnore:
		if !policy.AllowIgnore {
			return fmt.Errorf("ignore is not permitted")
		}
	default:
		return fmt.Errorf("unknown decision type %q", d.Type)
	}
	return nil
}
