// Package replay renders session event logs as a readable transcript.
package replay

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Axon-Knowledge-Engine/deepagents/internal/session"
)

// Styles per event kind.
var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")) // Gray - timestamps, metadata

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")) // White bold - headers

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")) // Green

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")) // White

	toolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")) // Blue

	subagentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("13")) // Magenta

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")) // Red

	seqStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Width(5).
			Align(lipgloss.Right)
)

// Options controls the rendering.
type Options struct {
	// Width wraps content lines. Zero disables wrapping.
	Width int

	// Verbose includes full system prompts and tool arguments.
	Verbose bool
}

// Renderer writes a session transcript to an io.Writer.
type Renderer struct {
	out  io.Writer
	opts Options
}

// NewRenderer returns a transcript renderer.
func NewRenderer(out io.Writer, opts Options) *Renderer {
	return &Renderer{out: out, opts: opts}
}

// Render prints the whole session: a header, then every event in sequence
// order, then the outcome line.
func (r *Renderer) Render(s *session.Session) error {
	events := make([]session.Event, len(s.Events))
	copy(events, s.Events)
	sort.Slice(events, func(i, j int) bool { return events[i].SeqID < events[j].SeqID })

	r.printf("%s\n", titleStyle.Render(fmt.Sprintf("Session %s", s.ID)))
	r.printf("%s\n", dimStyle.Render(fmt.Sprintf("agent: %s  started: %s  status: %s",
		s.AgentName, s.CreatedAt.Format(time.RFC3339), s.Status)))
	r.printf("\n")

	for _, ev := range events {
		r.renderEvent(ev)
	}

	r.printf("\n")
	switch s.Status {
	case session.StatusComplete:
		r.printf("%s\n", titleStyle.Render("Result:"))
		r.printf("%s\n", r.wrap(s.Output))
	case session.StatusFailed:
		r.printf("%s %s\n", errorStyle.Render("Failed:"), s.Error)
	}
	return nil
}

func (r *Renderer) renderEvent(ev session.Event) {
	prefix := seqStyle.Render(fmt.Sprintf("%d", ev.SeqID)) + " " +
		dimStyle.Render(ev.Timestamp.Format("15:04:05")) + " "

	agent := ""
	if ev.Agent != "" {
		agent = subagentStyle.Render("["+ev.Agent+"] ")
	}

	switch ev.Type {
	case session.EventSystem:
		if !r.opts.Verbose {
			r.printf("%s%s\n", prefix, dimStyle.Render("system prompt ("+count(ev.Content)+")"))
			return
		}
		r.printf("%s%s\n%s\n", prefix, dimStyle.Render("system:"), r.wrap(ev.Content))

	case session.EventUser:
		r.printf("%s%s%s %s\n", prefix, agent, userStyle.Render("user:"), r.wrap(ev.Content))

	case session.EventAssistant:
		r.printf("%s%s%s %s\n", prefix, agent, assistantStyle.Render("assistant:"), r.wrap(ev.Content))

	case session.EventToolCall:
		line := toolStyle.Render("→ " + ev.Tool)
		if r.opts.Verbose && len(ev.Args) > 0 {
			line += dimStyle.Render(fmt.Sprintf(" %v", ev.Args))
		}
		r.printf("%s%s%s\n", prefix, agent, line)

	case session.EventToolResult:
		status := toolStyle.Render("← " + ev.Tool)
		if ev.Success != nil && !*ev.Success {
			status = errorStyle.Render("← " + ev.Tool + " failed: " + ev.Error)
		}
		duration := dimStyle.Render(fmt.Sprintf(" (%dms)", ev.DurationMs))
		r.printf("%s%s%s%s\n", prefix, agent, status, duration)
		if r.opts.Verbose && ev.Content != "" {
			r.printf("%s\n", dimStyle.Render(r.wrap(ev.Content)))
		}

	case session.EventRunStart:
		r.printf("%s%s\n", prefix, titleStyle.Render("run started"))

	case session.EventRunEnd:
		r.printf("%s%s%s\n", prefix, titleStyle.Render("run finished"),
			dimStyle.Render(fmt.Sprintf(" (%dms)", ev.DurationMs)))

	default:
		r.printf("%s%s %s\n", prefix, dimStyle.Render(ev.Type+":"), r.wrap(ev.Content))
	}
}

func (r *Renderer) wrap(s string) string {
	if r.opts.Width <= 0 {
		return s
	}
	return wordwrap.String(s, r.opts.Width)
}

func (r *Renderer) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format, args...)
}

func count(s string) string {
	n := len(strings.Fields(s))
	return fmt.Sprintf("%d words", n)
}
