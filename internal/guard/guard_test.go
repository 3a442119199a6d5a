package guard

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_AcceptsDisasterQueries(t *testing.T) {
	queries := []string{
		"Is there flooding in Chennai right now?",
		"Help! Earthquake in Tokyo, buildings collapsing!",
		"Is it true that a cyclone is approaching Odisha?",
		"heavy rain warning for Mumbai, is it safe to travel?",
	}

	for _, q := range queries {
		if err := Validate(q); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", q, err)
		}
	}
}

func TestValidate_RejectsOffTopic(t *testing.T) {
	tests := []struct {
		query    string
		category string
	}{
		{"3+4", "off_topic"},
		{"hello there", "off_topic"},
		{"what is the best recipe for pasta", "off_topic"},
		{"how to deploy my app with docker", "technical"},
		{"write code for a flood simulation", "technical"},
		{"", "malformed"},
		{"   ", "malformed"},
		{"tell me about your favorite color", "unclear"},
	}

	for _, tt := range tests {
		err := Validate(tt.query)
		if err == nil {
			t.Errorf("Validate(%q) = nil, want rejection", tt.query)
			continue
		}
		var iqe *InvalidQueryError
		if !errors.As(err, &iqe) {
			t.Errorf("Validate(%q) returned %T, want *InvalidQueryError", tt.query, err)
			continue
		}
		if iqe.Category != tt.category {
			t.Errorf("Validate(%q) category = %s, want %s", tt.query, iqe.Category, tt.category)
		}
	}
}

func TestValidate_RejectsOversizedQuery(t *testing.T) {
	long := "flood " + strings.Repeat("x", maxQueryLen)
	err := Validate(long)
	if err == nil {
		t.Fatal("expected oversized query to be rejected")
	}
	var iqe *InvalidQueryError
	if !errors.As(err, &iqe) || iqe.Category != "malformed" {
		t.Errorf("got %v, want malformed rejection", err)
	}
}
