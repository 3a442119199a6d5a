package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/infoshield/infoshield/internal/model"
)

const analyzeSystemPrompt = `You analyze disaster-related queries. Respond with a single JSON object:
{
  "sentiment": "panic|urgent|concerned|neutral|curious",
  "urgency": <integer 1-10, life-safety time-criticality>,
  "location": "<place name or empty string>",
  "disaster_type": "<flood|earthquake|tsunami|cyclone|fire|landslide or empty>",
  "is_emergency": <bool>,
  "keywords": ["<disaster keywords found>"]
}
Return ONLY the JSON object, no prose.`

// OpenAIAnalyzer backs the analysis capability with an OpenAI-compatible
// chat completion endpoint (OpenAI itself, or Ollama via BaseURL).
type OpenAIAnalyzer struct {
	client *openai.Client
	cfg    model.LLMConfig
}

// NewOpenAIAnalyzer creates an LLM-backed analyzer
func NewOpenAIAnalyzer(cfg model.LLMConfig) (*OpenAIAnalyzer, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("openai analyzer: API key or base URL required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIAnalyzer{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

func (a *OpenAIAnalyzer) Name() string { return "openai" }

// Analyze extracts structured signal via a JSON-mode chat completion.
// Any transport or parse failure is reported as ErrUnavailable so the
// orchestrator can degrade instead of aborting.
func (a *OpenAIAnalyzer) Analyze(ctx context.Context, text string) (model.AnalysisResult, error) {
	timeout := time.Duration(a.cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	m := a.cfg.Model
	if m == "" {
		m = openai.GPT4oMini
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analyzeSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: 0.1,
	})
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return model.AnalysisResult{}, fmt.Errorf("%w: empty completion", ErrUnavailable)
	}

	var parsed struct {
		Sentiment    string   `json:"sentiment"`
		Urgency      int      `json:"urgency"`
		Location     string   `json:"location"`
		DisasterType string   `json:"disaster_type"`
		IsEmergency  bool     `json:"is_emergency"`
		Keywords     []string `json:"keywords"`
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: parse completion: %v", ErrUnavailable, err)
	}

	// Models occasionally wander outside the declared domain; clamp here
	// so the decision engine never sees invalid urgency from this path.
	if parsed.Urgency < 1 {
		parsed.Urgency = 1
	}
	if parsed.Urgency > 10 {
		parsed.Urgency = 10
	}
	if strings.EqualFold(parsed.Location, "unknown") {
		parsed.Location = ""
	}

	return model.AnalysisResult{
		Sentiment:    model.Sentiment(parsed.Sentiment),
		Urgency:      parsed.Urgency,
		Location:     parsed.Location,
		DisasterType: parsed.DisasterType,
		IsEmergency:  parsed.IsEmergency,
		Keywords:     parsed.Keywords,
	}, nil
}

// stripCodeFence removes a ```json ... ``` wrapper some models add
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
