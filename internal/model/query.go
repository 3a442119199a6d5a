package model

import "time"

// Query is the immutable ingress input: one natural-language disaster query.
type Query struct {
	ID         string    `json:"id"`                // Unique query id
	Text       string    `json:"text"`              // Raw query text, never mutated
	ReceivedAt time.Time `json:"received_at"`       // Arrival timestamp
	Contact    string    `json:"contact,omitempty"` // Optional user contact handle
}

// AnalysisResult is the structured signal extracted from a query.
// Location may be empty; downstream stages must tolerate its absence.
type AnalysisResult struct {
	Sentiment    Sentiment `json:"sentiment"`
	Urgency      int       `json:"urgency"`                 // 1-10
	Location     string    `json:"location,omitempty"`      // Empty when not extractable
	DisasterType string    `json:"disaster_type,omitempty"` // flood, earthquake, ...
	IsEmergency  bool      `json:"is_emergency"`
	Keywords     []string  `json:"keywords,omitempty"` // Disaster keywords detected
}

// Sentiment classifies the emotional tone of a query
type Sentiment string

const (
	SentimentPanic     Sentiment = "panic"
	SentimentUrgent    Sentiment = "urgent"
	SentimentConcerned Sentiment = "concerned"
	SentimentNeutral   Sentiment = "neutral"
	SentimentCurious   Sentiment = "curious"
)

// SituationContext holds current conditions for the query's location,
// produced by the context enrichment capability.
type SituationContext struct {
	Location    string    `json:"location"`
	Conditions  string    `json:"conditions,omitempty"`  // e.g. "heavy rain"
	Temperature float64   `json:"temperature,omitempty"` // Celsius
	WindSpeed   float64   `json:"wind_speed,omitempty"`  // km/h
	Alerts      []string  `json:"alerts,omitempty"`      // Active official warnings
	ObservedAt  time.Time `json:"observed_at,omitempty"`
}
