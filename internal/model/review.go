package model

import "time"

// ReviewStatus is the lifecycle state of a review record
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "PENDING"
	ReviewResolved ReviewStatus = "RESOLVED"
)

// ReviewRecord is the durable projection of a query case routed to human
// verification. Records are append-only; only the resolution fields are
// ever updated, and only through an explicit resolve.
type ReviewRecord struct {
	ID            string       `json:"id"` // e.g. "IS-4f9a21bc"
	QueryText     string       `json:"query_text"`
	Location      string       `json:"location,omitempty"`
	Urgency       int          `json:"urgency"`
	Credibility   float64      `json:"credibility"`
	EvidenceNote  string       `json:"evidence_note,omitempty"` // Short evidence summary
	EnqueuedAt    time.Time    `json:"enqueued_at"`
	Status        ReviewStatus `json:"status"`
	ResolverNotes string       `json:"resolver_notes,omitempty"`
	ResolvedAt    *time.Time   `json:"resolved_at,omitempty"`
}
