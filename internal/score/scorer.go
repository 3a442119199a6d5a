package score

import (
	"fmt"

	"github.com/infoshield/infoshield/internal/model"
)

// Scorer aggregates an evidence set into a credibility score in [0,100].
// It is pure: no I/O, no randomness, same evidence in, same score out.
type Scorer struct {
	trust *model.TrustConfig
}

// NewScorer creates a scorer bound to an immutable trust table
func NewScorer(trust *model.TrustConfig) *Scorer {
	if trust == nil {
		trust = &model.DefaultConfig().Trust
	}
	return &Scorer{trust: trust}
}

// irrelevantDiscount is applied to items that do not address the query
const irrelevantDiscount = 0.25

// Score computes the credibility of an evidence set.
//
// Empty evidence scores 0. Otherwise the score is the mean of each item's
// trust-normalized reliability weight, scaled to [0,100], with a
// corroboration multiplier for sets smaller than the configured minimum:
// a single source is capped at the single-source ceiling regardless of its
// weight, and the multiplier relaxes linearly up to the minimum count.
func (s *Scorer) Score(evidence []model.EvidenceItem) model.CredibilityScore {
	if len(evidence) == 0 {
		return model.CredibilityScore{
			Value: 0,
			Signals: []model.Signal{{
				Name:        "no_evidence",
				Description: "no evidence items to score",
				Points:      0,
			}},
		}
	}

	var signals []model.Signal

	sum := 0.0
	irrelevant := 0
	for _, item := range evidence {
		w := clamp01(item.Reliability)
		if !item.Relevant {
			w *= irrelevantDiscount
			irrelevant++
		}
		sum += w
	}

	mean := sum / float64(len(evidence))
	base := mean * 100

	signals = append(signals, model.Signal{
		Name:        "weighted_mean",
		Description: fmt.Sprintf("mean trust weight %.2f across %d item(s)", mean, len(evidence)),
		Points:      base,
	})
	if irrelevant > 0 {
		signals = append(signals, model.Signal{
			Name:        "irrelevant_items",
			Description: fmt.Sprintf("%d item(s) not addressing the query discounted to %.0f%% weight", irrelevant, irrelevantDiscount*100),
		})
	}

	value := base
	if mult := s.corroborationMultiplier(len(evidence)); mult < 1 {
		value = base * mult
		signals = append(signals, model.Signal{
			Name:        "corroboration_penalty",
			Description: fmt.Sprintf("only %d source(s), below the %d-source corroboration minimum", len(evidence), s.trust.MinCorroboration),
			Points:      value - base,
		})
	}

	// The single-source ceiling is absolute: one source can never clear it
	if len(evidence) == 1 && value > s.trust.SingleSourceCap {
		value = s.trust.SingleSourceCap
	}

	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}

	return model.CredibilityScore{Value: value, Signals: signals}
}

// corroborationMultiplier interpolates from cap/100 at one source to 1.0
// at the corroboration minimum.
func (s *Scorer) corroborationMultiplier(count int) float64 {
	min := s.trust.MinCorroboration
	if min <= 1 || count >= min {
		return 1
	}

	floor := s.trust.SingleSourceCap / 100
	return floor + (1-floor)*float64(count-1)/float64(min-1)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
