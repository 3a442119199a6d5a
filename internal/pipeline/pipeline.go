package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/infoshield/infoshield/internal/analyze"
	"github.com/infoshield/infoshield/internal/cache"
	"github.com/infoshield/infoshield/internal/decide"
	"github.com/infoshield/infoshield/internal/enrich"
	"github.com/infoshield/infoshield/internal/guard"
	"github.com/infoshield/infoshield/internal/model"
	"github.com/infoshield/infoshield/internal/queue"
	"github.com/infoshield/infoshield/internal/score"
	"github.com/infoshield/infoshield/internal/search"
	"github.com/infoshield/infoshield/internal/verify"
)

// Pipeline runs one query through the verification stages in order:
// guard, analyze, enrich, search, probe, score, decide, act. Capability
// failures degrade the data feeding the decision; they never abort the
// run. The only hard failures are an invalid query (before any stage) and
// a review enqueue that cannot be made durable.
type Pipeline struct {
	analyzer analyze.Analyzer
	enricher enrich.Enricher // nil disables enrichment
	searcher search.Searcher // nil means no search capability configured
	prober   *verify.Prober  // nil disables source probing
	scorer   *score.Scorer
	engine   *decide.Engine
	reviews  queue.ReviewQueue
	verbose  bool
}

// New assembles a pipeline from configuration. The review queue is shared
// across pipelines and owned by the caller.
func New(cfg *model.Config, reviews queue.ReviewQueue) (*Pipeline, error) {
	analyzer, err := analyze.NewAnalyzer(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("analyzer: %w", err)
	}

	var enricher enrich.Enricher = enrich.NewWeatherEnricher(cfg.HTTP)
	if cfg.Cache.Enabled {
		var store cache.Cache
		if cfg.Cache.Dir != "" {
			store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else {
			store = cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*time.Minute)
		}
		enricher = enrich.NewCachedEnricher(enricher, store, cfg.Cache.MemoryTTL)
	}

	// The search capability needs an LLM endpoint; the rules provider
	// covers analysis only. Without one, every query carries zero
	// evidence and low-urgency cases route to human review.
	var searcher search.Searcher
	if provider := strings.ToLower(cfg.LLM.Provider); provider == "openai" || provider == "ollama" {
		llmCfg := cfg.LLM
		if provider == "ollama" {
			if llmCfg.BaseURL == "" {
				llmCfg.BaseURL = "http://localhost:11434/v1"
			}
			if llmCfg.APIKey == "" {
				llmCfg.APIKey = "ollama"
			}
		}
		s, err := search.NewOpenAISearcher(llmCfg, &cfg.Trust)
		if err != nil {
			return nil, fmt.Errorf("searcher: %w", err)
		}
		searcher = s
	}

	var prober *verify.Prober
	if cfg.Verify.Enabled {
		prober = verify.NewProber(cfg.HTTP, cfg.Verify, cfg.Concurrency.ProbeWorkers)
	}

	return &Pipeline{
		analyzer: analyzer,
		enricher: enricher,
		searcher: searcher,
		prober:   prober,
		scorer:   score.NewScorer(&cfg.Trust),
		engine:   decide.NewEngine(cfg.Thresholds),
		reviews:  reviews,
		verbose:  cfg.Output.Verbose,
	}, nil
}

// NewWithCapabilities assembles a pipeline from explicit collaborators.
// Used by tests and by callers that bring their own capability backends.
func NewWithCapabilities(
	analyzer analyze.Analyzer,
	enricher enrich.Enricher,
	searcher search.Searcher,
	scorer *score.Scorer,
	engine *decide.Engine,
	reviews queue.ReviewQueue,
) *Pipeline {
	return &Pipeline{
		analyzer: analyzer,
		enricher: enricher,
		searcher: searcher,
		scorer:   scorer,
		engine:   engine,
		reviews:  reviews,
	}
}

// Process runs the pipeline for one query and returns the decided case
// and the user-facing response.
func (p *Pipeline) Process(ctx context.Context, q model.Query) (*model.QueryCase, *model.Response, error) {
	// Hard gate: a malformed or off-topic query aborts before any stage
	if err := guard.Validate(q.Text); err != nil {
		return nil, nil, err
	}

	qc := &model.QueryCase{Query: q}

	// 1. Analysis. A failed analyzer degrades to a neutral mid-urgency
	// signal: zero evidence then routes the case to human review, which
	// is the intended fallback for blind spots.
	analysis, err := p.analyzer.Analyze(ctx, q.Text)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		p.warnf("analysis degraded: %v", err)
		analysis = model.AnalysisResult{Sentiment: model.SentimentNeutral, Urgency: 5}
	}
	qc.Analysis = analysis

	// 2. Context enrichment, only when a location was extracted
	if analysis.Location != "" && p.enricher != nil {
		sctx, err := p.enricher.Enrich(ctx, analysis.Location)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			p.warnf("enrichment degraded for %q: %v", analysis.Location, err)
		} else {
			qc.Context = sctx
		}
	}

	// 3. Verification search; failure degrades to zero evidence
	if p.searcher != nil {
		evidence, err := p.searcher.Search(ctx, analysis, qc.Context)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			p.warnf("search degraded: %v", err)
		} else {
			qc.Evidence = evidence
		}
	}

	// 4. Source probing; unreachable sources lose their relevance
	if p.prober != nil && len(qc.Evidence) > 0 {
		qc.Evidence = p.prober.Probe(ctx, qc.Evidence)
	}

	// 5. Score exactly the evidence attached to this case
	qc.Credibility = p.scorer.Score(qc.Evidence)

	// 6. Decide
	disposition, err := p.engine.Decide(qc.Analysis.Urgency, qc.Credibility.Value)
	if err != nil {
		return nil, nil, fmt.Errorf("decide: %w", err)
	}
	qc.Disposition = disposition
	qc.DecidedAt = time.Now().UTC()

	// 7. Act. Enqueue is the single committing action: a human-review
	// case is only reported as such once the record is durable.
	if disposition == model.DispositionHumanReview {
		reviewID, err := p.reviews.Enqueue(ctx, model.ReviewRecord{
			QueryText:    q.Text,
			Location:     analysis.Location,
			Urgency:      analysis.Urgency,
			Credibility:  qc.Credibility.Value,
			EvidenceNote: evidenceSummary(qc.Evidence),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("enqueue review: %w", err)
		}
		qc.ReviewID = reviewID
	}

	return qc, buildResponse(qc), nil
}

func (p *Pipeline) warnf(format string, args ...interface{}) {
	if p.verbose {
		fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
	}
}

// evidenceSummary condenses an evidence set into one line for the review
// record.
func evidenceSummary(evidence []model.EvidenceItem) string {
	if len(evidence) == 0 {
		return "no corroborating sources found"
	}

	var parts []string
	for i, item := range evidence {
		if i >= 5 {
			parts = append(parts, fmt.Sprintf("and %d more", len(evidence)-5))
			break
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", item.Source, item.Tier))
	}
	return strings.Join(parts, "; ")
}
