package main

import (
	"github.com/Axon-Knowledge-Engine/deepagents/internal/config"
	"github.com/Axon-Knowledge-Engine/deepagents/internal/setup"
)

// Run starts the interactive configuration wizard.
func (c *SetupCmd) Run() error {
	return setup.Run(config.DefaultFileName)
}
