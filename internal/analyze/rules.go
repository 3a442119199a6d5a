package analyze

import (
	"context"
	"regexp"
	"strings"

	"github.com/infoshield/infoshield/internal/model"
)

// RulesAnalyzer is the deterministic keyword-based analyzer. It is the
// default provider: no network, no API key, stable output for a given
// query text.
type RulesAnalyzer struct{}

// NewRulesAnalyzer creates a rule-based analyzer
func NewRulesAnalyzer() *RulesAnalyzer {
	return &RulesAnalyzer{}
}

func (a *RulesAnalyzer) Name() string { return "rules" }

var disasterKeywords = []string{
	"flood", "flooding", "earthquake", "tsunami", "cyclone", "hurricane",
	"tornado", "wildfire", "fire", "landslide", "avalanche", "drought",
	"volcano", "eruption", "storm", "typhoon", "blizzard", "heatwave",
	"rescue", "emergency", "evacuation", "trapped", "help", "sos",
}

var panicIndicators = []string{"help", "sos", "emergency", "trapped", "dying", "drowning"}

var urgentIndicators = []string{"now", "immediately", "urgent", "quickly", "asap", "!"}

var disasterTypes = []struct {
	name     string
	keywords []string
}{
	{"flood", []string{"flood", "flooding", "water entering"}},
	{"earthquake", []string{"earthquake", "quake", "tremor", "seismic"}},
	{"tsunami", []string{"tsunami", "tidal wave"}},
	{"cyclone", []string{"cyclone", "hurricane", "typhoon", "storm"}},
	{"fire", []string{"fire", "wildfire", "blaze", "burning"}},
	{"landslide", []string{"landslide", "mudslide", "debris"}},
}

// Capitalized place name after a locating preposition, e.g. "in Mumbai",
// "near New Orleans", or "Chennai area".
var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bin\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	regexp.MustCompile(`\bat\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	regexp.MustCompile(`\bnear\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	regexp.MustCompile(`\bfrom\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s+(?:area|region|city|town|district)`),
}

// Analyze scores urgency from panic/urgency indicators and disaster
// keyword density, buckets sentiment from the urgency score, and extracts
// location and disaster type.
func (a *RulesAnalyzer) Analyze(_ context.Context, text string) (model.AnalysisResult, error) {
	lower := strings.ToLower(text)

	var keywords []string
	for _, kw := range disasterKeywords {
		if strings.Contains(lower, kw) {
			keywords = append(keywords, kw)
		}
	}

	urgency := 3 // base
	if containsAny(lower, panicIndicators) {
		urgency += 4
	}
	if containsAny(lower, urgentIndicators) {
		urgency += 2
	}
	if strings.Count(text, "!") >= 2 {
		urgency++
	}
	urgency += len(keywords)
	if urgency > 10 {
		urgency = 10
	}
	if urgency < 1 {
		urgency = 1
	}

	var sentiment model.Sentiment
	switch {
	case urgency >= 8:
		sentiment = model.SentimentPanic
	case urgency >= 6:
		sentiment = model.SentimentUrgent
	case urgency >= 4:
		sentiment = model.SentimentConcerned
	case strings.Contains(text, "?") && len(keywords) == 0:
		sentiment = model.SentimentCurious
	default:
		sentiment = model.SentimentNeutral
	}

	location := ""
	for _, p := range locationPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			location = m[1]
			break
		}
	}

	disasterType := ""
	for _, dt := range disasterTypes {
		if containsAny(lower, dt.keywords) {
			disasterType = dt.name
			break
		}
	}

	return model.AnalysisResult{
		Sentiment:    sentiment,
		Urgency:      urgency,
		Location:     location,
		DisasterType: disasterType,
		IsEmergency:  urgency >= 8 || containsAny(lower, panicIndicators),
		Keywords:     keywords,
	}, nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
