// Tool execution for the agent loop.
package react

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/vinayprograms/agentkit/llm"
)

// concurrencyLimit caps parallel tool executions. Tools are largely
// I/O-bound so CPUs are oversubscribed, clamped to a sane range.
var concurrencyLimit = func() int {
	limit := runtime.NumCPU() * 4
	if limit < 4 {
		limit = 4
	}
	if limit > 32 {
		limit = 32
	}
	return limit
}()

// serializeTools mutate shared state or are expensive to run. They execute
// sequentially in the order the model requested them.
var serializeTools = map[string]bool{
	"write_todos": true,
	"write_file":  true,
	"edit_file":   true,
	"task":        true,
}

func isSerializeTool(name string) bool {
	return serializeTools[name]
}

// toolResult pairs a tool output with its position in the request.
type toolResult struct {
	index   int
	id      string
	content string
}

// executeTools runs the requested tool calls and returns their result
// messages in request order. Injected messages from the post-model hook
// replace execution for the tool calls they name.
func (a *Agent) executeTools(ctx context.Context, toolCalls []llm.ToolCallResponse, injected []llm.Message) []llm.Message {
	handled := make(map[string]llm.Message, len(injected))
	for _, msg := range injected {
		handled[msg.ToolCallID] = msg
	}

	messages := make([]llm.Message, len(toolCalls))

	var parallelCalls []int
	var serializeCalls []int
	for i, tc := range toolCalls {
		if msg, ok := handled[tc.ID]; ok {
			messages[i] = msg
			continue
		}
		if isSerializeTool(tc.Name) {
			serializeCalls = append(serializeCalls, i)
		} else {
			parallelCalls = append(parallelCalls, i)
		}
	}

	if len(parallelCalls) > 0 {
		sem := make(chan struct{}, concurrencyLimit)
		results := make(chan toolResult, len(parallelCalls))
		var wg sync.WaitGroup

		for _, idx := range parallelCalls {
			tc := toolCalls[idx]
			wg.Add(1)
			go func(idx int, tc llm.ToolCallResponse) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				results <- a.runTool(ctx, idx, tc)
			}(idx, tc)
		}

		go func() {
			wg.Wait()
			close(results)
		}()

		for r := range results {
			messages[r.index] = llm.Message{
				Role:       "tool",
				ToolCallID: r.id,
				Content:    r.content,
			}
		}
	}

	for _, idx := range serializeCalls {
		r := a.runTool(ctx, idx, toolCalls[idx])
		messages[r.index] = llm.Message{
			Role:       "tool",
			ToolCallID: r.id,
			Content:    r.content,
		}
	}

	return messages
}

// runTool executes a single tool call and renders the result as message
// content. Errors become content rather than failing the turn, so the model
// can see what went wrong and retry.
func (a *Agent) runTool(ctx context.Context, index int, tc llm.ToolCallResponse) toolResult {
	start := time.Now()
	ctx, span := a.startToolSpan(ctx, tc.Name)

	result, err := a.executeOne(ctx, tc)

	a.endToolSpan(span, err)
	a.logger.Debug("tool executed", map[string]interface{}{
		"tool":        tc.Name,
		"duration_ms": time.Since(start).Milliseconds(),
		"error":       err != nil,
	})
	if a.OnToolCall != nil {
		a.OnToolCall(tc.Name, tc.Args, result, err)
	}

	var content string
	if err != nil {
		content = fmt.Sprintf("Error: %v", err)
	} else {
		switch v := result.(type) {
		case string:
			content = v
		default:
			data, _ := json.Marshal(v)
			content = string(data)
		}
	}
	return toolResult{index: index, id: tc.ID, content: content}
}

func (a *Agent) executeOne(ctx context.Context, tc llm.ToolCallResponse) (interface{}, error) {
	t, ok := a.registry.Get(tc.Name)
	if !ok {
		return nil, fmt.Errorf("tool not found: %s", tc.Name)
	}
	return t.Execute(ctx, tc.Args)
}
