package analyze

import (
	"context"
	"errors"

	"github.com/infoshield/infoshield/internal/model"
)

// ErrUnavailable indicates the analysis capability failed or timed out.
// The orchestrator treats it as a degradable failure, not a hard error.
var ErrUnavailable = errors.New("analysis capability unavailable")

// Analyzer extracts structured signal from raw query text
type Analyzer interface {
	// Name returns the provider name
	Name() string

	// Analyze produces the structured signal for a query. Urgency is
	// always in [1,10] on success; Location may be empty.
	Analyze(ctx context.Context, text string) (model.AnalysisResult, error)
}
