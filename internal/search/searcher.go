package search

import (
	"context"
	"errors"

	"github.com/infoshield/infoshield/internal/model"
)

// ErrUnavailable indicates the search capability failed or timed out.
// The orchestrator degrades to an empty evidence set.
var ErrUnavailable = errors.New("search capability unavailable")

// Searcher gathers candidate evidence for an analyzed query.
// An empty result is valid and means no corroborating sources were found;
// it is not an error.
type Searcher interface {
	// Name returns the provider name
	Name() string

	// Search returns evidence items for the analyzed signal. Situational
	// context may be nil when the query had no location.
	Search(ctx context.Context, signal model.AnalysisResult, sctx *model.SituationContext) ([]model.EvidenceItem, error)
}
