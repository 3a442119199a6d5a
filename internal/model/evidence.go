package model

// EvidenceItem is one piece of corroborating or contradicting information
// returned by the verification search capability.
type EvidenceItem struct {
	Source      string     `json:"source"`                // Source identifier (domain or publisher)
	URL         string     `json:"url,omitempty"`         // Source URL when available
	Summary     string     `json:"summary,omitempty"`     // What the source reports
	Tier        SourceTier `json:"tier"`                  // Trust class of the source
	Reliability float64    `json:"reliability"`           // [0,1] trust weight for the source
	Relevant    bool       `json:"relevant"`              // Whether the item addresses the query
	PublishedAt string     `json:"published_at,omitempty"`
}

// SourceTier represents the trust classification of an evidence source
type SourceTier int

const (
	TierUnknown  SourceTier = 0 // Not classified
	TierOfficial SourceTier = 1 // Government agencies, disaster management authorities
	TierNews     SourceTier = 2 // Established news outlets and wire services
	TierSocial   SourceTier = 3 // Social media, forums, unverified reports
)

func (t SourceTier) String() string {
	switch t {
	case TierOfficial:
		return "official"
	case TierNews:
		return "news"
	case TierSocial:
		return "social"
	default:
		return "unknown"
	}
}

// ProbeResult records the outcome of probing an evidence source URL
type ProbeResult struct {
	URL          string `json:"url"`
	IsAccessible bool   `json:"is_accessible"`
	StatusCode   int    `json:"status_code,omitempty"`
	Title        string `json:"title,omitempty"` // Page title, when sniffable
	Error        string `json:"error,omitempty"`
}
