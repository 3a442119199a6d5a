package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/infoshield/infoshield/internal/model"
)

// Processor runs one query pipeline; implemented by pipeline.Pipeline
type Processor interface {
	Process(ctx context.Context, q model.Query) (*model.QueryCase, *model.Response, error)
}

// QueryJob runs one query through the pipeline
type QueryJob struct {
	Query     model.Query
	Processor Processor
}

// Execute runs the job
func (j *QueryJob) Execute(ctx context.Context) Result {
	qc, resp, err := j.Processor.Process(ctx, j.Query)
	return &QueryResult{
		Query:    j.Query,
		Case:     qc,
		Response: resp,
		Err:      err,
	}
}

// QueryResult is the outcome of one pipeline run
type QueryResult struct {
	Query    model.Query
	Case     *model.QueryCase
	Response *model.Response
	Err      error
}

// GetError returns the run's error, if any
func (r *QueryResult) GetError() error {
	return r.Err
}

// BatchProcessor runs many query pipelines concurrently. Pipelines are
// independent; the review queue is the only shared state and serializes
// its own writes.
type BatchProcessor struct {
	processor   Processor
	concurrency int
}

// NewBatchProcessor creates a batch processor with the given parallelism
func NewBatchProcessor(processor Processor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
	}
}

// ProcessQueries runs all queries and returns one result per query
func (b *BatchProcessor) ProcessQueries(ctx context.Context, queries []model.Query) []*QueryResult {
	if len(queries) == 0 {
		return []*QueryResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, q := range queries {
		pool.Submit(&QueryJob{Query: q, Processor: b.processor})
	}

	results := pool.Wait()

	queryResults := make([]*QueryResult, len(results))
	for i, result := range results {
		queryResults[i] = result.(*QueryResult)
	}

	return queryResults
}

// ProcessFile reads queries from a file (one per line) and runs them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*QueryResult, error) {
	queries, err := ReadQueriesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}

	return b.ProcessQueries(ctx, queries), nil
}

// ReadQueriesFromFile reads one query per line, skipping blanks and
// comment lines. Each line becomes a Query with a fresh id.
func ReadQueriesFromFile(filePath string) ([]model.Query, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var queries []model.Query

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		queries = append(queries, model.Query{
			ID:         uuid.NewString(),
			Text:       line,
			ReceivedAt: time.Now().UTC(),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return queries, nil
}
