package decide

import (
	"fmt"

	"github.com/infoshield/infoshield/internal/model"
)

// ErrInvalidInput reports inputs outside their declared domain. That is a
// caller bug: the engine fails fast rather than clamping silently.
type ErrInvalidInput struct {
	Field string
	Value float64
}

func (e *ErrInvalidInput) Error() string {
	return fmt.Sprintf("decide: %s out of range: %v", e.Field, e.Value)
}

// Engine selects a disposition from urgency and credibility using ordered
// threshold guards. It is stateless per call; thresholds are fixed at
// construction.
type Engine struct {
	urgencyThreshold     int
	credibilityThreshold float64
}

// NewEngine creates an engine bound to the configured thresholds
func NewEngine(cfg model.ThresholdConfig) *Engine {
	return &Engine{
		urgencyThreshold:     cfg.Urgency,
		credibilityThreshold: cfg.Credibility,
	}
}

// Decide applies the guards in order, first match wins:
//
//  1. urgency >= urgency threshold     -> immediate alert (credibility is
//     ignored: act first, verify after)
//  2. credibility >= credibility gate  -> automated response
//  3. otherwise                        -> human review
//
// Both thresholds are inclusive; ties take the more protective branch.
func (e *Engine) Decide(urgency int, credibility float64) (model.Disposition, error) {
	if urgency < 1 || urgency > 10 {
		return "", &ErrInvalidInput{Field: "urgency", Value: float64(urgency)}
	}
	if credibility < 0 || credibility > 100 {
		return "", &ErrInvalidInput{Field: "credibility", Value: credibility}
	}

	if urgency >= e.urgencyThreshold {
		return model.DispositionImmediateAlert, nil
	}
	if credibility >= e.credibilityThreshold {
		return model.DispositionAutomatedResponse, nil
	}
	return model.DispositionHumanReview, nil
}
