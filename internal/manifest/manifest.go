// Package manifest loads YAML agent definitions: instructions, delegates,
// and tool review policies.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Axon-Knowledge-Engine/deepagents/interrupt"
	"github.com/Axon-Knowledge-Engine/deepagents/subagent"
)

// Manifest describes one agent.
type Manifest struct {
	// Name identifies the agent. Defaults to the config's agent name.
	Name string `yaml:"name"`

	// Instructions are appended to the base system prompt.
	Instructions string `yaml:"instructions"`

	// SubAgents are the named delegates.
	SubAgents []subagent.SubAgent `yaml:"subagents"`

	// Interrupts maps tool names to the review decisions a human may take.
	Interrupts interrupt.Config `yaml:"interrupts"`

	// MaxIterations overrides the configured run bound when positive.
	MaxIterations int `yaml:"max_iterations"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates manifest YAML.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest for structural problems.
func (m *Manifest) Validate() error {
	if m.Instructions == "" {
		return fmt.Errorf("manifest is missing instructions")
	}

	seen := map[string]bool{subagent.GeneralPurposeName: true}
	for i, sa := range m.SubAgents {
		if sa.Name == "" {
			return fmt.Errorf("subagent %d is missing a name", i)
		}
		if seen[sa.Name] {
			return fmt.Errorf("duplicate subagent name: %s", sa.Name)
		}
		seen[sa.Name] = true
		if sa.Description == "" {
			return fmt.Errorf("subagent %s is missing a description", sa.Name)
		}
		if sa.Prompt == "" {
			return fmt.Errorf("subagent %s is missing a prompt", sa.Name)
		}
	}

	for name, policy := range m.Interrupts {
		if name == "" {
			return fmt.Errorf("interrupt entry has an empty tool name")
		}
		if !policy.AllowAccept && !policy.AllowEdit && !policy.AllowRespond && !policy.AllowIgnore {
			return fmt.Errorf("interrupt for %s permits no decisions", name)
		}
	}

	if m.MaxIterations < 0 {
		return fmt.Errorf("max_iterations must not be negative")
	}
	return nil
}
