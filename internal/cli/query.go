package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/infoshield/infoshield/internal/guard"
	"github.com/infoshield/infoshield/internal/model"
	"github.com/infoshield/infoshield/internal/pipeline"
	"github.com/infoshield/infoshield/internal/queue"
)

var (
	outJSON      bool
	timeout      time.Duration
	noCache      bool
	enableVerify bool
	queuePath    string
	llmProvider  string
	llmModel     string
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Verify a single disaster query",
	Long: `Query runs one disaster-related question through the verification
pipeline:
- Validate that the query is in scope
- Analyze sentiment, urgency, location and disaster type
- Enrich with current conditions for the mentioned location
- Gather and score corroborating evidence
- Decide: immediate alert, automated response, or human review

Example:
  infoshield query "Is there a flood in Mumbai right now?"
  infoshield query "Wildfire near Lake Tahoe??" --json
  infoshield query "earthquake in Tokyo" --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	// Output flags
	queryCmd.Flags().BoolVar(&outJSON, "json", false, "emit the response payload as JSON on stdout")

	// Pipeline flags
	queryCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall pipeline timeout")
	queryCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the enrichment cache (force fresh lookups)")
	queryCmd.Flags().BoolVar(&enableVerify, "verify-sources", false, "probe evidence URLs for reachability")
	queryCmd.Flags().StringVar(&queuePath, "queue", "", "review queue file (default from config)")

	// LLM flags
	queryCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (rules, openai, ollama)")
	queryCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runQuery(cmd *cobra.Command, args []string) error {
	text := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyQueryFlags(cfg); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Query: %s\n", text)
		fmt.Fprintf(os.Stderr, "Provider: %s\n", cfg.LLM.Provider)
		fmt.Fprintf(os.Stderr, "Queue: %s\n", cfg.Queue.Path)
		fmt.Fprintln(os.Stderr)
	}

	reviews, err := queue.NewFileQueue(cfg.Queue.Path)
	if err != nil {
		return fmt.Errorf("open review queue: %w", err)
	}
	defer func() { _ = reviews.Close() }()

	p, err := pipeline.New(cfg, reviews)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	q := model.Query{
		ID:         uuid.NewString(),
		Text:       text,
		ReceivedAt: time.Now().UTC(),
	}

	_, resp, err := p.Process(ctx, q)
	if err != nil {
		var invalid *guard.InvalidQueryError
		if errors.As(err, &invalid) {
			fmt.Fprintf(os.Stderr, "✗ Query rejected (%s): %s\n", invalid.Category, invalid.Reason)
			fmt.Fprintf(os.Stderr, "\nInfoShield only verifies disaster and emergency queries.\n")
			return nil
		}
		return fmt.Errorf("verification failed: %w", err)
	}

	if outJSON || cfg.Output.JSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	pipeline.WriteText(os.Stdout, resp)
	return nil
}

// applyQueryFlags layers the query command's flags over the loaded config
// and resolves provider credentials from the environment.
func applyQueryFlags(cfg *model.Config) error {
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if enableVerify {
		cfg.Verify.Enabled = true
	}
	if queuePath != "" {
		cfg.Queue.Path = queuePath
	}

	switch cfg.LLM.Provider {
	case "openai":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return nil
}
