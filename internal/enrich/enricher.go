package enrich

import (
	"context"
	"errors"

	"github.com/infoshield/infoshield/internal/model"
)

// ErrUnavailable indicates the context capability failed or timed out.
// The orchestrator treats it as degradable: the pipeline continues with
// no situational context.
var ErrUnavailable = errors.New("context capability unavailable")

// Enricher looks up situational context for a location. Callers skip the
// call entirely when the query has no location; an empty location is not
// an error the enricher needs to handle.
type Enricher interface {
	Enrich(ctx context.Context, location string) (*model.SituationContext, error)
}
