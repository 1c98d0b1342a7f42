// Package setup provides an interactive wizard that writes deepagent.toml.
package setup

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Axon-Knowledge-Engine/deepagents/internal/config"
)

// Step identifies the wizard screen.
type Step int

const (
	StepWelcome Step = iota
	StepProvider
	StepModel
	StepStorage
	StepPersist
	StepConfirm
	StepComplete
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

// providerOption pairs a provider with its default model.
type providerOption struct {
	name         string
	defaultModel string
}

var providers = []providerOption{
	{"anthropic", "claude-sonnet-4-20250514"},
	{"openai", "gpt-4o"},
	{"google", "gemini-2.0-flash"},
}

// Model is the bubbletea model for the setup wizard.
type Model struct {
	step      Step
	cfg       *config.Config
	cursor    int
	textInput textinput.Model
	err       error

	// Model/provider pair from a pre-existing config file, if any. The
	// saved model is only offered again when the same provider is picked.
	loadedModel    string
	loadedProvider string

	// OutputPath is where the config is written on confirm.
	OutputPath string

	// Written is true once the config file exists.
	Written bool
}

// New creates the wizard, seeded with defaults or the existing config.
func New(outputPath string) Model {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	cfg := config.New()
	m := Model{
		step:       StepWelcome,
		textInput:  ti,
		OutputPath: outputPath,
	}
	if loaded, err := config.LoadFile(outputPath); err == nil {
		cfg = loaded
		m.loadedModel = loaded.LLM.Model
		m.loadedProvider = loaded.LLM.Provider
	}
	m.cfg = cfg
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if !m.isTextStep() && m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "j":
			if !m.isTextStep() && m.cursor < m.maxCursor() {
				m.cursor++
			}
			return m, nil
		case "enter":
			return m.handleEnter()
		}
	}

	if m.isTextStep() {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) isTextStep() bool {
	return m.step == StepModel || m.step == StepStorage
}

func (m Model) maxCursor() int {
	switch m.step {
	case StepProvider:
		return len(providers) - 1
	case StepPersist:
		return 1
	default:
		return 0
	}
}

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	switch m.step {
	case StepWelcome:
		m.step = StepProvider
		m.cursor = m.providerIndex()

	case StepProvider:
		m.cfg.LLM.Provider = providers[m.cursor].name
		m.step = StepModel
		m.textInput.SetValue(m.defaultModel())

	case StepModel:
		if v := m.textInput.Value(); v != "" {
			m.cfg.LLM.Model = v
		}
		m.step = StepStorage
		m.textInput.SetValue(m.cfg.Storage.Path)

	case StepStorage:
		if v := m.textInput.Value(); v != "" {
			m.cfg.Storage.Path = v
		}
		m.step = StepPersist
		m.cursor = 0
		if !m.cfg.Storage.Persist {
			m.cursor = 1
		}

	case StepPersist:
		m.cfg.Storage.Persist = m.cursor == 0
		m.step = StepConfirm

	case StepConfirm:
		if err := WriteConfig(m.OutputPath, m.cfg); err != nil {
			m.err = err
		} else {
			m.Written = true
		}
		m.step = StepComplete

	case StepComplete:
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) providerIndex() int {
	for i, p := range providers {
		if p.name == m.cfg.LLM.Provider {
			return i
		}
	}
	return 0
}

func (m Model) defaultModel() string {
	if m.loadedModel != "" && m.cfg.LLM.Provider == m.loadedProvider {
		return m.loadedModel
	}
	for _, p := range providers {
		if p.name == m.cfg.LLM.Provider {
			return p.defaultModel
		}
	}
	return providers[0].defaultModel
}

func (m Model) View() string {
	switch m.step {
	case StepWelcome:
		return titleStyle.Render("deepagent setup") + "\n\n" +
			"This wizard writes " + m.OutputPath + ".\n\n" +
			dimStyle.Render("enter to continue, esc to quit") + "\n"

	case StepProvider:
		s := titleStyle.Render("LLM provider") + "\n\n"
		for i, p := range providers {
			cursor := "  "
			if i == m.cursor {
				cursor = cursorStyle.Render("> ")
			}
			s += fmt.Sprintf("%s%s %s\n", cursor, p.name, dimStyle.Render("("+p.defaultModel+")"))
		}
		return s

	case StepModel:
		return titleStyle.Render("Model") + "\n\n" + m.textInput.View() + "\n"

	case StepStorage:
		return titleStyle.Render("Storage directory") + "\n\n" +
			dimStyle.Render("Checkpoints and session logs live here.") + "\n\n" +
			m.textInput.View() + "\n"

	case StepPersist:
		s := titleStyle.Render("Persist threads across runs?") + "\n\n"
		for i, opt := range []string{"yes, keep checkpoints on disk", "no, in-memory only"} {
			cursor := "  "
			if i == m.cursor {
				cursor = cursorStyle.Render("> ")
			}
			s += cursor + opt + "\n"
		}
		return s

	case StepConfirm:
		return titleStyle.Render("Review") + "\n\n" +
			fmt.Sprintf("  provider:  %s\n", m.cfg.LLM.Provider) +
			fmt.Sprintf("  model:     %s\n", m.cfg.LLM.Model) +
			fmt.Sprintf("  storage:   %s\n", m.cfg.Storage.Path) +
			fmt.Sprintf("  persist:   %t\n", m.cfg.Storage.Persist) +
			"\n" + dimStyle.Render("enter to write "+m.OutputPath) + "\n"

	case StepComplete:
		if m.err != nil {
			return errorStyle.Render("Failed: "+m.err.Error()) + "\n"
		}
		return successStyle.Render("Wrote "+m.OutputPath) + "\n\n" +
			dimStyle.Render("enter to exit") + "\n"
	}
	return ""
}

// WriteConfig serializes cfg as TOML to path.
func WriteConfig(path string, cfg *config.Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Run launches the wizard and blocks until it exits.
func Run(outputPath string) error {
	p := tea.NewProgram(New(outputPath))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}
	return nil
}
