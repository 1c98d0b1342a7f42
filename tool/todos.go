package tool

import (
	"context"
	"fmt"

	"github.com/Axon-Knowledge-Engine/deepagents/state"
)

// writeTodosDescription is deliberately long: it teaches the model when and
// how to use the planner, which matters more than the schema itself.
const writeTodosDescription = `Use this tool to create and manage a structured task list for your current session. This helps you track progress, organize complex work, and demonstrate thoroughness.

## When to Use This Tool
Use this tool proactively in these scenarios:

1. Complex multi-step tasks - When a task requires 3 or more distinct steps or actions
2. Non-trivial and complex tasks - Tasks that require careful planning or multiple operations
3. User explicitly requests a todo list
4. User provides multiple tasks - numbered or comma-separated lists of things to do
5. After receiving new instructions - capture the requirements as todos immediately
6. After completing a task - mark it completed and add any new follow-up tasks discovered along the way
7. When you start working on a task - mark it as in_progress BEFORE beginning work. Ideally only one todo is in_progress at a time

## When NOT to Use This Tool
Skip this tool when:
1. There is only a single, straightforward task
2. The task is trivial and tracking it provides no organizational benefit
3. The task can be completed in less than 3 trivial steps
4. The task is purely conversational or informational

## Task States and Management
1. Task states: use these states to track progress:
   - pending: task not yet started
   - in_progress: currently working on (limit to ONE task at a time)
   - completed: task finished successfully

2. Task management:
   - Update task status in real time as you work
   - Mark tasks complete IMMEDIATELY after finishing (do not batch completions)
   - Only have ONE task in_progress at any time
   - Complete current tasks before starting new ones

3. Task completion requirements:
   - ONLY mark a task as completed when you have FULLY accomplished it
   - If you encounter errors, blockers, or cannot finish, keep the task as in_progress
   - Never mark a task as completed if tests are failing, implementation is partial, or you encountered unresolved errors

Each call replaces the entire todo list, so include every task you are still tracking, not just the one you changed.`

// todoArgs are the write_todos arguments.
type todoArgs struct {
	Todos []todoItem `json:"todos" jsonschema_description:"The full updated todo list. Replaces the previous list."`
}

type todoItem struct {
	ID      string `json:"id" jsonschema_description:"Stable identifier for the todo item."`
	Content string `json:"content" jsonschema_description:"What needs to be done."`
	Status  string `json:"status" jsonschema_description:"One of: pending, in_progress, completed."`
}

// todosTool implements write_todos over the agent state.
type todosTool struct {
	st *state.State
}

// NewTodosTool returns the write_todos tool bound to st.
func NewTodosTool(st *state.State) Tool {
	return &todosTool{st: st}
}

func (t *todosTool) Name() string { return "write_todos" }

func (t *todosTool) Description() string { return writeTodosDescription }

func (t *todosTool) Parameters() map[string]interface{} {
	return GenerateSchema[todoArgs]()
}

func (t *todosTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	var in todoArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}

	todos := make([]state.Todo, 0, len(in.Todos))
	for i, item := range in.Todos {
		if item.Content == "" {
			return nil, fmt.Errorf("todo %d is missing content", i)
		}
		status := state.TodoStatus(item.Status)
		if item.Status == "" {
			status = state.TodoPending
		} else if !state.ValidStatus(status) {
			return nil, fmt.Errorf("todo %d has invalid status %q (must be pending, in_progress, or completed)", i, item.Status)
		}
		id := item.ID
		if id == "" {
			id = fmt.Sprintf("%d", i+1)
		}
		todos = append(todos, state.Todo{ID: id, Content: item.Content, Status: status})
	}

	t.st.SetTodos(todos)
	return fmt.Sprintf("Updated todo list to %d items", len(todos)), nil
}
