package guard

import (
	"fmt"
	"regexp"
	"strings"
)

// maxQueryLen bounds raw query text; anything longer is treated as malformed
const maxQueryLen = 2000

// InvalidQueryError reports a query rejected before any pipeline stage runs
type InvalidQueryError struct {
	Category string // off_topic, technical, malformed, unclear
	Reason   string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query (%s): %s", e.Category, e.Reason)
}

// disaster-related vocabulary that marks a query as in scope
var disasterKeywords = []string{
	"flood", "flooding", "earthquake", "quake", "tsunami", "cyclone",
	"hurricane", "typhoon", "tornado", "storm", "wildfire", "fire",
	"landslide", "mudslide", "avalanche", "drought", "heatwave", "blizzard",
	"volcanic", "eruption", "emergency", "disaster", "crisis", "evacuation",
	"rescue", "relief", "casualty", "casualties", "damage", "collapse",
	"trapped", "heavy rain", "severe weather", "warning", "alert",
	"safe", "safety", "danger", "dangerous", "hazard", "threat",
	"is there", "is it true", "happening", "rumor", "hoax", "verify",
	"confirm", "fact check",
}

var offTopicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+\s*[\+\-\*\/]\s*\d+`),
	regexp.MustCompile(`^(what is|define|explain|how to|tutorial)\b`),
	regexp.MustCompile(`\b(documentation|docs|api reference|library)\b`),
	regexp.MustCompile(`\b(code|programming|python|javascript|java)\b`),
	regexp.MustCompile(`\b(recipe|cook|restaurant)\b`),
	regexp.MustCompile(`\b(movie|music|song|game|sport)\b`),
	regexp.MustCompile(`\b(stock|crypto|bitcoin|investment)\b`),
	regexp.MustCompile(`\b(joke|funny|meme)\b`),
	regexp.MustCompile(`^(hi|hello|hey|good morning|good evening)\b`),
	regexp.MustCompile(`\b(who are you|what are you|your name)\b`),
	regexp.MustCompile(`\b(weather forecast|temperature tomorrow)\b`),
}

// technical patterns are rejected even when disaster words appear in them
var technicalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`how\s+to\s+(deploy|install|build|set\s*up)`),
	regexp.MustCompile(`deploy(ing)?\s+(agent|model|app|application|service)`),
	regexp.MustCompile(`\b(sdk|docker|dockerfile|kubernetes|github|gitlab)\b`),
	regexp.MustCompile(`(write|generate)\s+code`),
	regexp.MustCompile(`\bapi\s+keys?\b`),
}

// Validate checks that a query is disaster-related and well formed.
// A non-nil error is always an *InvalidQueryError and means the pipeline
// must abort before any stage runs.
func Validate(text string) error {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	if trimmed == "" {
		return &InvalidQueryError{Category: "malformed", Reason: "empty query"}
	}
	if len(trimmed) > maxQueryLen {
		return &InvalidQueryError{
			Category: "malformed",
			Reason:   fmt.Sprintf("query exceeds %d characters", maxQueryLen),
		}
	}

	for _, p := range technicalPatterns {
		if p.MatchString(lower) {
			return &InvalidQueryError{
				Category: "technical",
				Reason:   "technical or deployment question, not a disaster query",
			}
		}
	}

	hasDisasterTerm := false
	for _, kw := range disasterKeywords {
		if strings.Contains(lower, kw) {
			hasDisasterTerm = true
			break
		}
	}
	if hasDisasterTerm {
		return nil
	}

	for _, p := range offTopicPatterns {
		if p.MatchString(lower) {
			return &InvalidQueryError{
				Category: "off_topic",
				Reason:   "query is not about a disaster or emergency",
			}
		}
	}

	return &InvalidQueryError{
		Category: "unclear",
		Reason:   "no disaster-related terms found",
	}
}
