package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/infoshield/infoshield/internal/model"
)

const searchSystemPrompt = `You verify disaster reports against your knowledge of news sources and official agencies. Given an analyzed query, list candidate evidence as a JSON array:
[
  {
    "source": "<publisher or domain, e.g. reuters.com or National Weather Service>",
    "url": "<source URL if known, else empty>",
    "summary": "<one sentence: what this source reports>",
    "relevant": <bool: does it address this specific event>,
    "published_at": "<date if known, else empty>"
  }
]
Only list sources you have genuine reason to believe reported on this kind of event. If you know of none, return [].
Return ONLY the JSON array.`

// OpenAISearcher backs the verification search capability with an
// OpenAI-compatible chat endpoint. Returned items are graded by the trust
// classifier before they reach the scorer.
type OpenAISearcher struct {
	client  *openai.Client
	cfg     model.LLMConfig
	grading *TrustClassifier
}

// NewOpenAISearcher creates an LLM-backed searcher
func NewOpenAISearcher(cfg model.LLMConfig, trust *model.TrustConfig) (*OpenAISearcher, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("openai searcher: API key or base URL required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAISearcher{
		client:  openai.NewClientWithConfig(clientConfig),
		cfg:     cfg,
		grading: NewTrustClassifier(trust),
	}, nil
}

func (s *OpenAISearcher) Name() string { return "openai" }

func (s *OpenAISearcher) Search(ctx context.Context, signal model.AnalysisResult, sctx *model.SituationContext) ([]model.EvidenceItem, error) {
	timeout := time.Duration(s.cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	m := s.cfg.Model
	if m == "" {
		m = openai.GPT4oMini
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: searchSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildSearchPrompt(signal, sctx)},
		},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrUnavailable)
	}

	var parsed []struct {
		Source      string `json:"source"`
		URL         string `json:"url"`
		Summary     string `json:"summary"`
		Relevant    bool   `json:"relevant"`
		PublishedAt string `json:"published_at"`
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &parsed); err != nil {
		return nil, fmt.Errorf("%w: parse completion: %v", ErrUnavailable, err)
	}

	items := make([]model.EvidenceItem, 0, len(parsed))
	for _, p := range parsed {
		if p.Source == "" {
			continue
		}
		items = append(items, s.grading.Grade(model.EvidenceItem{
			Source:      p.Source,
			URL:         p.URL,
			Summary:     p.Summary,
			Relevant:    p.Relevant,
			PublishedAt: p.PublishedAt,
		}))
	}

	return items, nil
}

func buildSearchPrompt(signal model.AnalysisResult, sctx *model.SituationContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Disaster type: %s\n", orUnknown(signal.DisasterType))
	fmt.Fprintf(&b, "Location: %s\n", orUnknown(signal.Location))
	fmt.Fprintf(&b, "Urgency: %d/10\n", signal.Urgency)
	if len(signal.Keywords) > 0 {
		fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(signal.Keywords, ", "))
	}
	if sctx != nil {
		fmt.Fprintf(&b, "Current conditions at location: %s", sctx.Conditions)
		if len(sctx.Alerts) > 0 {
			fmt.Fprintf(&b, " (alerts: %s)", strings.Join(sctx.Alerts, "; "))
		}
		b.WriteString("\n")
	}
	b.WriteString("\nList evidence sources for or against this report.")

	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
