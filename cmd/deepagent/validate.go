package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"

	"github.com/Axon-Knowledge-Engine/deepagents/internal/manifest"
)

// Run validates a manifest, optionally re-running on file changes.
func (c *ValidateCmd) Run() error {
	if !c.Watch {
		return validateOnce(c.File)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so editors that replace the file are caught too.
	dir := filepath.Dir(c.File)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	target, err := filepath.Abs(c.File)
	if err != nil {
		return err
	}

	validateOnce(c.File)
	fmt.Fprintf(os.Stderr, "watching %s for changes, ctrl-c to stop\n", c.File)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || abs != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			validateOnce(c.File)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		case <-sig:
			return nil
		}
	}
}

func validateOnce(path string) error {
	man, err := manifest.Load(path)
	if err != nil {
		fmt.Printf("✗ %s: %v\n", path, err)
		return err
	}
	fmt.Printf("✓ %s is valid (%d sub-agents, %d interrupt rules)\n",
		path, len(man.SubAgents), len(man.Interrupts))
	return nil
}
