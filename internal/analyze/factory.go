package analyze

import (
	"fmt"
	"strings"

	"github.com/infoshield/infoshield/internal/model"
)

// NewAnalyzer creates an analyzer for the configured provider
func NewAnalyzer(cfg model.LLMConfig) (Analyzer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "rules":
		return NewRulesAnalyzer(), nil

	case "openai":
		return NewOpenAIAnalyzer(cfg)

	case "ollama":
		// Ollama exposes an OpenAI-compatible endpoint; no API key needed
		if cfg.BaseURL == "" {
			cfg.BaseURL = "http://localhost:11434/v1"
		}
		if cfg.APIKey == "" {
			cfg.APIKey = "ollama"
		}
		return NewOpenAIAnalyzer(cfg)

	default:
		return nil, fmt.Errorf("unknown analyzer provider: %s (supported: rules, openai, ollama)", cfg.Provider)
	}
}
