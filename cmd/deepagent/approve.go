package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Axon-Knowledge-Engine/deepagents/interrupt"
)

// stdinApprover reviews gated tool calls interactively on the terminal.
type stdinApprover struct {
	in  *bufio.Scanner
	out io.Writer
}

func newStdinApprover(in io.Reader, out io.Writer) *stdinApprover {
	return &stdinApprover{in: bufio.NewScanner(in), out: out}
}

func (a *stdinApprover) Review(ctx context.Context, req interrupt.Request) (interrupt.Decision, error) {
	args, _ := json.MarshalIndent(req.Args, "", "  ")
	fmt.Fprintf(a.out, "\ntool call: %s\n%s\n", req.ToolName, args)

	choices := allowedChoices(req.Policy)
	for {
		select {
		case <-ctx.Done():
			return interrupt.Decision{}, ctx.Err()
		default:
		}

		fmt.Fprintf(a.out, "[%s]? ", strings.Join(choices, "/"))
		line, err := a.readLine()
		if err != nil {
			return interrupt.Decision{}, err
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "a", "accept":
			if req.Policy.AllowAccept {
				return interrupt.Decision{Type: interrupt.DecisionAccept}, nil
			}
		case "e", "edit":
			if req.Policy.AllowEdit {
				return a.readEdit()
			}
		case "r", "respond":
			if req.Policy.AllowRespond {
				return a.readRespond()
			}
		case "i", "ignore":
			if req.Policy.AllowIgnore {
				return interrupt.Decision{Type: interrupt.DecisionIgnore}, nil
			}
		}
		fmt.Fprintln(a.out, "invalid choice")
	}
}

func (a *stdinApprover) readEdit() (interrupt.Decision, error) {
	fmt.Fprint(a.out, "new args (JSON): ")
	line, err := a.readLine()
	if err != nil {
		return interrupt.Decision{}, err
	}
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(line), &args); err != nil {
		return interrupt.Decision{}, fmt.Errorf("parsing edited args: %w", err)
	}
	return interrupt.Decision{Type: interrupt.DecisionEdit, Args: args}, nil
}

func (a *stdinApprover) readRespond() (interrupt.Decision, error) {
	fmt.Fprint(a.out, "response: ")
	line, err := a.readLine()
	if err != nil {
		return interrupt.Decision{}, err
	}
	return interrupt.Decision{Type: interrupt.DecisionRespond, Message: line}, nil
}

func (a *stdinApprover) readLine() (string, error) {
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return a.in.Text(), nil
}

func allowedChoices(p interrupt.ToolConfig) []string {
	var choices []string
	if p.AllowAccept {
		choices = append(choices, "accept")
	}
	if p.AllowEdit {
		choices = append(choices, "edit")
	}
	if p.AllowRespond {
		choices = append(choices, "respond")
	}
	if p.AllowIgnore {
		choices = append(choices, "ignore")
	}
	return choices
}
