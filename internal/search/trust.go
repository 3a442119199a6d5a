package search

import (
	"net/url"
	"strings"

	"github.com/infoshield/infoshield/internal/model"
)

// TrustClassifier maps evidence sources to trust tiers using the
// configured source-trust table. Official disaster-management sources tier
// highest, established news outlets mid, social/unverified lowest.
type TrustClassifier struct {
	cfg         *model.TrustConfig
	officialSet map[string]bool
	newsSet     map[string]bool
	socialSet   map[string]bool
}

// NewTrustClassifier builds a classifier from the trust table
func NewTrustClassifier(cfg *model.TrustConfig) *TrustClassifier {
	if cfg == nil {
		cfg = &model.DefaultConfig().Trust
	}

	c := &TrustClassifier{
		cfg:         cfg,
		officialSet: make(map[string]bool, len(cfg.OfficialDomains)),
		newsSet:     make(map[string]bool, len(cfg.NewsDomains)),
		socialSet:   make(map[string]bool, len(cfg.SocialDomains)),
	}
	for _, d := range cfg.OfficialDomains {
		c.officialSet[d] = true
	}
	for _, d := range cfg.NewsDomains {
		c.newsSet[d] = true
	}
	for _, d := range cfg.SocialDomains {
		c.socialSet[d] = true
	}

	return c
}

// Classify determines the trust tier for a source identifier, which may be
// a URL, a bare domain, or a publisher name.
func (c *TrustClassifier) Classify(source string) model.SourceTier {
	host := hostOf(source)

	if host != "" {
		if tier, ok := c.classifyHost(host); ok {
			return tier
		}
		// Government and academic TLDs are official even when unlisted
		if strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".mil") ||
			strings.Contains(host, ".gov.") || strings.HasSuffix(host, ".edu") {
			return model.TierOfficial
		}
	}

	// Fall back to publisher-name keywords
	lower := strings.ToLower(source)
	for _, kw := range c.cfg.OfficialKeywords {
		if strings.Contains(lower, kw) {
			return model.TierOfficial
		}
	}

	return model.TierUnknown
}

// Weight returns the configured reliability weight for a tier
func (c *TrustClassifier) Weight(tier model.SourceTier) float64 {
	switch tier {
	case model.TierOfficial:
		return c.cfg.OfficialWeight
	case model.TierNews:
		return c.cfg.NewsWeight
	case model.TierSocial:
		return c.cfg.SocialWeight
	default:
		return c.cfg.UnknownWeight
	}
}

// Grade classifies the item's source and fills in its tier and
// reliability weight. Items already carrying a nonzero weight (e.g. from
// a provider that grades its own results) keep it.
func (c *TrustClassifier) Grade(item model.EvidenceItem) model.EvidenceItem {
	if item.Tier == model.TierUnknown {
		item.Tier = c.Classify(item.Source)
		if item.Tier == model.TierUnknown && item.URL != "" {
			item.Tier = c.Classify(item.URL)
		}
	}
	if item.Reliability == 0 {
		item.Reliability = c.Weight(item.Tier)
	}
	return item
}

func (c *TrustClassifier) classifyHost(host string) (model.SourceTier, bool) {
	for candidate := host; candidate != ""; {
		if c.officialSet[candidate] {
			return model.TierOfficial, true
		}
		if c.newsSet[candidate] {
			return model.TierNews, true
		}
		if c.socialSet[candidate] {
			return model.TierSocial, true
		}
		idx := strings.Index(candidate, ".")
		if idx < 0 {
			break
		}
		candidate = candidate[idx+1:]
	}
	return model.TierUnknown, false
}

// hostOf extracts a lowercase hostname from a URL or bare domain string,
// returning "" when the input does not look like one.
func hostOf(source string) string {
	s := strings.TrimSpace(strings.ToLower(source))
	if strings.Contains(s, "://") {
		if parsed, err := url.Parse(s); err == nil && parsed.Host != "" {
			s = parsed.Host
		}
	}
	if idx := strings.Index(s, "/"); idx >= 0 {
		s = s[:idx]
	}
	if idx := strings.Index(s, ":"); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimPrefix(s, "www.")
	if !strings.Contains(s, ".") || strings.Contains(s, " ") {
		return ""
	}
	return s
}
