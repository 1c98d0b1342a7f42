// Package model provides the default LLM provider used when a caller does
// not supply one.
package model

import (
	"fmt"
	"os"

	"github.com/vinayprograms/agentkit/credentials"
	"github.com/vinayprograms/agentkit/llm"
)

// Default model configuration. Claude Sonnet with a high output ceiling,
// since agent runs produce long tool-heavy transcripts.
const (
	DefaultModel     = "claude-sonnet-4-20250514"
	DefaultMaxTokens = 64000
)

// Default returns the default provider. The API key comes from saved
// credentials, falling back to ANTHROPIC_API_KEY in the environment.
func Default() (llm.Provider, error) {
	return NewNamed(DefaultModel, DefaultMaxTokens)
}

// NewNamed builds a provider for the given model, inferring the provider
// from the model name.
func NewNamed(modelName string, maxTokens int) (llm.Provider, error) {
	providerName := llm.InferProviderFromModel(modelName)
	if providerName == "" {
		return nil, fmt.Errorf("cannot infer provider for model %q", modelName)
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	provider, err := llm.NewProvider(llm.ProviderConfig{
		Provider:  providerName,
		Model:     modelName,
		APIKey:    apiKey(providerName),
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}
	return provider, nil
}

// apiKey resolves the key for a provider from saved credentials, then the
// conventional environment variable.
func apiKey(providerName string) string {
	if creds, _, err := credentials.Load(); err == nil {
		if key := creds.GetAPIKey(providerName); key != "" {
			return key
		}
	}
	switch providerName {
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "google":
		return os.Getenv("GEMINI_API_KEY")
	}
	return ""
}
