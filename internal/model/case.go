package model

import "time"

// Disposition is the terminal classification of a query case
type Disposition string

const (
	DispositionImmediateAlert    Disposition = "immediate_alert"
	DispositionAutomatedResponse Disposition = "automated_response"
	DispositionHumanReview       Disposition = "human_review"
)

// CredibilityScore is the aggregated trust measure for an evidence set
type CredibilityScore struct {
	Value   float64  `json:"value"`             // [0,100]
	Signals []Signal `json:"signals,omitempty"` // Transparent scoring breakdown
}

// Signal is one component of the credibility scoring breakdown
type Signal struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Points      float64 `json:"points"`
}

// QueryCase is the aggregate binding a query to everything derived from it.
// It is populated stage by stage and becomes immutable once Disposition is
// assigned.
type QueryCase struct {
	Query       Query             `json:"query"`
	Analysis    AnalysisResult    `json:"analysis"`
	Context     *SituationContext `json:"context,omitempty"` // Nil when location missing or enrichment degraded
	Evidence    []EvidenceItem    `json:"evidence"`
	Credibility CredibilityScore  `json:"credibility"`
	Disposition Disposition       `json:"disposition"`
	DecidedAt   time.Time         `json:"decided_at"`
	ReviewID    string            `json:"review_id,omitempty"` // Set only for human_review
}

// Response is the user-facing payload emitted at the end of a pipeline run
type Response struct {
	Disposition  Disposition `json:"disposition"`
	Message      string      `json:"message"`
	Credibility  float64     `json:"credibility"`
	Urgency      int         `json:"urgency"`
	UrgencyLabel string      `json:"urgency_label"` // Low, Medium, High, Critical
	Location     string      `json:"location,omitempty"`
	DisasterType string      `json:"disaster_type,omitempty"`
	Sources      []string    `json:"sources,omitempty"`
	SafetyAdvice []string    `json:"safety_advice,omitempty"`
	ReviewID     string      `json:"review_id,omitempty"`
	ReviewETA    string      `json:"review_eta,omitempty"`
}
