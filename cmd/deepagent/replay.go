package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Axon-Knowledge-Engine/deepagents/internal/replay"
	"github.com/Axon-Knowledge-Engine/deepagents/internal/session"
)

// Run renders a recorded session transcript.
func (c *ReplayCmd) Run() error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}

	mgr, err := session.NewFileManager(filepath.Join(cfg.StoragePath(), "sessions"))
	if err != nil {
		return err
	}

	id := c.Session
	if id == "" {
		latest, err := mgr.Latest()
		if err != nil {
			return fmt.Errorf("finding latest session: %w", err)
		}
		id = latest
	}

	sess, err := mgr.Load(id)
	if err != nil {
		return err
	}

	renderer := replay.NewRenderer(os.Stdout, replay.Options{
		Width:   c.Width,
		Verbose: c.Verbose,
	})
	return renderer.Render(sess)
}
