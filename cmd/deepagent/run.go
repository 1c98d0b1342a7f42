// Runtime wiring for the run command.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/vinayprograms/agentkit/llm"
	"github.com/vinayprograms/agentkit/telemetry"

	"github.com/Axon-Knowledge-Engine/deepagents"
	"github.com/Axon-Knowledge-Engine/deepagents/checkpoint"
	"github.com/Axon-Knowledge-Engine/deepagents/internal/config"
	"github.com/Axon-Knowledge-Engine/deepagents/internal/manifest"
	"github.com/Axon-Knowledge-Engine/deepagents/internal/session"
	"github.com/Axon-Knowledge-Engine/deepagents/interrupt"
	"github.com/Axon-Knowledge-Engine/deepagents/react"
)

// runtime assembles the components a run needs and tears them down after.
type runtime struct {
	cfg *config.Config
	man *manifest.Manifest

	threadID string

	provider     llm.Provider
	checkpointer checkpoint.Checkpointer
	sessions     *session.FileManager
	sess         *session.Session
	telem        telemetry.Exporter
	agent        *react.Agent

	closers []func()
}

// Run executes an agent manifest against the given input.
func (c *RunCmd) Run() error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	man, err := manifest.Load(c.Manifest)
	if err != nil {
		return err
	}

	threadID := c.Thread
	if threadID == "" {
		threadID = uuid.NewString()
	}

	rt := &runtime{cfg: cfg, man: man, threadID: threadID}
	if err := rt.setup(c.Approve); err != nil {
		return err
	}
	defer rt.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt.sess = session.New(rt.agentName(), threadID, c.Input)
	rt.sess.Log(session.Event{Type: session.EventRunStart})
	rt.sess.Log(session.Event{Type: session.EventUser, Content: c.Input})
	rt.telem.LogEvent("run_start", map[string]interface{}{
		"agent":  rt.agentName(),
		"thread": threadID,
	})

	start := time.Now()
	output, err := rt.agent.Run(ctx, c.Input)
	rt.sess.Log(session.Event{
		Type:       session.EventRunEnd,
		DurationMs: time.Since(start).Milliseconds(),
	})

	if err != nil {
		rt.sess.Fail(err)
		rt.saveSession()
		return err
	}

	rt.sess.Log(session.Event{Type: session.EventAssistant, Content: output})
	rt.sess.Complete(output)
	rt.saveSession()

	fmt.Println(output)
	fmt.Fprintf(os.Stderr, "\nthread: %s  session: %s\n", threadID, rt.sess.ID)
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.LoadDefault()
}

func (rt *runtime) agentName() string {
	if rt.man.Name != "" {
		return rt.man.Name
	}
	return rt.cfg.Agent.Name
}

// setup initializes all runtime components.
func (rt *runtime) setup(approve bool) error {
	if err := os.MkdirAll(rt.cfg.StoragePath(), 0755); err != nil {
		return fmt.Errorf("creating storage directory: %w", err)
	}
	if err := rt.createProvider(); err != nil {
		return err
	}
	if err := rt.setupTelemetry(); err != nil {
		return err
	}
	if err := rt.setupStorage(); err != nil {
		return err
	}
	return rt.createAgent(approve)
}

// createProvider builds the LLM provider from config.
func (rt *runtime) createProvider() error {
	providerName := rt.cfg.LLM.Provider
	if providerName == "" {
		providerName = llm.InferProviderFromModel(rt.cfg.LLM.Model)
	}
	if providerName == "" {
		return fmt.Errorf("LLM model not configured")
	}

	apiKey := rt.cfg.GetAPIKey(providerName)
	if apiKey == "" && globalCreds != nil {
		apiKey = globalCreds.GetAPIKey(providerName)
	}

	var err error
	rt.provider, err = llm.NewProvider(llm.ProviderConfig{
		Provider:    providerName,
		Model:       rt.cfg.LLM.Model,
		APIKey:      apiKey,
		MaxTokens:   rt.cfg.LLM.MaxTokens,
		BaseURL:     rt.cfg.LLM.BaseURL,
		Thinking:    llm.ThinkingConfig{Level: llm.ThinkingLevel(rt.cfg.LLM.Thinking)},
		RetryConfig: parseRetryConfig(rt.cfg.LLM.MaxRetries, rt.cfg.LLM.RetryBackoff),
	})
	if err != nil {
		return fmt.Errorf("creating LLM provider: %w", err)
	}
	return nil
}

// setupTelemetry creates the OTLP exporter, or a noop one.
func (rt *runtime) setupTelemetry() error {
	if rt.cfg.Telemetry.Enabled {
		telem, err := telemetry.NewExporter(rt.cfg.Telemetry.Protocol, rt.cfg.Telemetry.Endpoint)
		if err != nil {
			return fmt.Errorf("creating telemetry exporter: %w", err)
		}
		rt.telem = telem
	} else {
		rt.telem = telemetry.NewNoopExporter()
	}
	rt.closers = append(rt.closers, func() { rt.telem.Close() })
	return nil
}

// setupStorage creates the checkpointer and session store.
func (rt *runtime) setupStorage() error {
	if rt.cfg.Storage.Persist {
		saver, err := checkpoint.NewFileSaver(filepath.Join(rt.cfg.StoragePath(), "checkpoints"))
		if err != nil {
			return err
		}
		rt.checkpointer = saver
	} else {
		rt.checkpointer = checkpoint.NewMemorySaver()
	}

	sessions, err := session.NewFileManager(filepath.Join(rt.cfg.StoragePath(), "sessions"))
	if err != nil {
		return err
	}
	rt.sessions = sessions
	return nil
}

// createAgent assembles the deep agent from manifest and config.
func (rt *runtime) createAgent(approve bool) error {
	interrupts := rt.man.Interrupts
	if approve && len(interrupts) == 0 {
		// Gate the mutating built-ins when review is requested but the
		// manifest declares no policy of its own.
		interrupts = interrupt.Config{
			"write_file": {AllowAccept: true, AllowEdit: true, AllowRespond: true, AllowIgnore: true},
			"edit_file":  {AllowAccept: true, AllowEdit: true, AllowRespond: true, AllowIgnore: true},
			"task":       {AllowAccept: true, AllowRespond: true, AllowIgnore: true},
		}
	}

	maxIterations := rt.cfg.Limits.MaxIterations
	if rt.man.MaxIterations > 0 {
		maxIterations = rt.man.MaxIterations
	}

	opts := deepagents.Options{
		Instructions:  rt.man.Instructions,
		Model:         rt.provider,
		SubAgents:     rt.man.SubAgents,
		Checkpointer:  rt.checkpointer,
		ThreadID:      rt.threadID,
		Name:          rt.agentName(),
		MaxIterations: maxIterations,
	}
	if len(interrupts) > 0 {
		opts.InterruptConfig = interrupts
		opts.Approver = newStdinApprover(os.Stdin, os.Stderr)
	}

	agent, err := deepagents.CreateDeepAgent(opts)
	if err != nil {
		return err
	}
	rt.agent = agent

	// Mirror tool activity into the session log.
	rt.agent.OnToolCall = func(name string, args map[string]interface{}, result interface{}, err error) {
		if rt.sess == nil {
			return
		}
		corrID := rt.sess.LogToolCall("", name, args)
		content := ""
		if s, ok := result.(string); ok {
			content = s
		}
		rt.sess.LogToolResult("", name, corrID, content, err, 0)
	}
	return nil
}

func (rt *runtime) saveSession() {
	if rt.sess == nil || rt.sessions == nil {
		return
	}
	if err := rt.sessions.Save(rt.sess); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to save session: %v\n", err)
	}
}

func (rt *runtime) close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}

// parseRetryConfig converts config retry settings to the provider's form.
func parseRetryConfig(maxRetries int, backoff string) llm.RetryConfig {
	rc := llm.RetryConfig{MaxRetries: maxRetries}
	if backoff != "" {
		if d, err := time.ParseDuration(backoff); err == nil {
			rc.MaxBackoff = d
		}
	}
	return rc
}
