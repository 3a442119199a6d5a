package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/infoshield/infoshield/internal/model"
	"github.com/infoshield/infoshield/internal/pipeline"
	"github.com/infoshield/infoshield/internal/queue"
	"github.com/infoshield/infoshield/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify multiple queries from a file in parallel",
	Long: `Batch processes multiple disaster queries concurrently:
- Read queries from input file (one per line, # for comments)
- Run the full verification pipeline for each query
- Process queries in parallel with configurable worker count
- Write one response payload per query to the output directory

Example:
  infoshield batch queries.txt
  infoshield batch queries.txt --concurrency 10 --output-dir ./responses
  infoshield batch queries.txt --concurrency 5 --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./infoshield-responses", "output directory for response payloads")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Inherit flags from the query command
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the enrichment cache (force fresh lookups)")
	batchCmd.Flags().BoolVar(&enableVerify, "verify-sources", false, "probe evidence URLs for reachability")
	batchCmd.Flags().StringVar(&queuePath, "queue", "", "review queue file (default from config)")

	// LLM flags
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (rules, openai, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyQueryFlags(cfg); err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  InfoShield Batch Verification\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Queue:        %s\n", cfg.Queue.Path)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if cfg.LLM.Provider != "" && cfg.LLM.Provider != "rules" {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintf(os.Stderr, "\n")

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// The review queue is shared by all workers; it serializes its own writes
	reviews, err := queue.NewFileQueue(cfg.Queue.Path)
	if err != nil {
		return fmt.Errorf("open review queue: %w", err)
	}
	defer func() { _ = reviews.Close() }()

	p, err := pipeline.New(cfg, reviews)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	processor := worker.NewBatchProcessor(p, concurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Processing queries with %d workers...\n", concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	successCount := 0
	failureCount := 0
	reviewCount := 0

	for _, result := range results {
		if result.Err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %.60q: %v\n", result.Query.Text, result.Err)
			continue
		}

		successCount++
		if result.Case.Disposition == model.DispositionHumanReview {
			reviewCount++
		}

		outPath := filepath.Join(outputDir, result.Query.ID+".json")
		data, err := json.MarshalIndent(result.Response, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %.60q: encode response: %v\n", result.Query.Text, err)
			continue
		}
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %.60q: write response: %v\n", result.Query.Text, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %.60q → %s (credibility %.0f/100)\n",
			result.Query.Text, result.Case.Disposition, result.Case.Credibility.Value)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:        %d queries\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:      %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:     %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  For review:   %d\n", reviewCount)
	fmt.Fprintf(os.Stderr, "  Output:       %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
