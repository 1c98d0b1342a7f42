// Package main defines the CLI structure using kong.
package main

// CLI defines the command-line interface.
type CLI struct {
	Run      RunCmd      `cmd:"" help:"Run an agent against an input"`
	Validate ValidateCmd `cmd:"" help:"Validate an agent manifest"`
	Replay   ReplayCmd   `cmd:"" help:"Replay a recorded session"`
	Setup    SetupCmd    `cmd:"" help:"Interactive setup wizard"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

// RunCmd runs an agent defined by a manifest.
type RunCmd struct {
	Input    string `arg:"" help:"The task for the agent"`
	Manifest string `short:"f" default:"agent.yaml" help:"Agent manifest path"`
	Config   string `help:"Config file path (default: ./deepagent.toml)"`
	Thread   string `short:"t" help:"Thread ID to resume or create (default: new)"`
	Approve  bool   `help:"Review gated tool calls interactively"`
}

// ValidateCmd validates an agent manifest.
type ValidateCmd struct {
	File  string `arg:"" optional:"" default:"agent.yaml" help:"Agent manifest path"`
	Watch bool   `short:"w" help:"Revalidate whenever the file changes"`
}

// ReplayCmd renders a recorded session transcript.
type ReplayCmd struct {
	Session string `arg:"" optional:"" help:"Session ID (default: most recent)"`
	Config  string `help:"Config file path (default: ./deepagent.toml)"`
	Verbose bool   `short:"v" help:"Include system prompts and tool arguments"`
	Width   int    `default:"100" help:"Wrap content at this column (0 disables)"`
}

// SetupCmd runs the interactive setup wizard.
type SetupCmd struct{}

// VersionCmd shows version information.
type VersionCmd struct{}
