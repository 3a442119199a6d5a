package decide

import (
	"errors"
	"testing"

	"github.com/infoshield/infoshield/internal/model"
)

func defaultEngine() *Engine {
	return NewEngine(model.ThresholdConfig{Urgency: 8, Credibility: 60})
}

func TestEngine_Decide(t *testing.T) {
	e := defaultEngine()

	tests := []struct {
		name        string
		urgency     int
		credibility float64
		want        model.Disposition
	}{
		{"urgency overrides low credibility", 9, 10, model.DispositionImmediateAlert},
		{"urgency threshold inclusive", 8, 0, model.DispositionImmediateAlert},
		{"high urgency and high credibility", 10, 100, model.DispositionImmediateAlert},
		{"credible report", 3, 75, model.DispositionAutomatedResponse},
		{"credibility threshold inclusive", 7, 60, model.DispositionAutomatedResponse},
		{"just below credibility threshold", 7, 59, model.DispositionHumanReview},
		{"low everything", 3, 40, model.DispositionHumanReview},
		{"minimum inputs", 1, 0, model.DispositionHumanReview},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Decide(tt.urgency, tt.credibility)
			if err != nil {
				t.Fatalf("Decide(%d, %v): %v", tt.urgency, tt.credibility, err)
			}
			if got != tt.want {
				t.Errorf("Decide(%d, %v) = %s, want %s", tt.urgency, tt.credibility, got, tt.want)
			}
		})
	}
}

func TestEngine_Decide_InvalidInput(t *testing.T) {
	e := defaultEngine()

	tests := []struct {
		urgency     int
		credibility float64
	}{
		{0, 50},
		{11, 50},
		{-1, 50},
		{5, -0.1},
		{5, 100.1},
	}

	for _, tt := range tests {
		_, err := e.Decide(tt.urgency, tt.credibility)
		if err == nil {
			t.Errorf("Decide(%d, %v) = nil error, want ErrInvalidInput", tt.urgency, tt.credibility)
			continue
		}
		var invalid *ErrInvalidInput
		if !errors.As(err, &invalid) {
			t.Errorf("Decide(%d, %v) error type = %T, want *ErrInvalidInput", tt.urgency, tt.credibility, err)
		}
	}
}

func TestEngine_Decide_Pure(t *testing.T) {
	e := defaultEngine()

	first, _ := e.Decide(7, 60)
	for i := 0; i < 10; i++ {
		again, _ := e.Decide(7, 60)
		if again != first {
			t.Fatal("Decide returned different dispositions for equal inputs")
		}
	}
}

func TestEngine_CustomThresholds(t *testing.T) {
	e := NewEngine(model.ThresholdConfig{Urgency: 5, Credibility: 80})

	if got, _ := e.Decide(5, 0); got != model.DispositionImmediateAlert {
		t.Errorf("custom urgency threshold: got %s, want immediate_alert", got)
	}
	if got, _ := e.Decide(4, 79); got != model.DispositionHumanReview {
		t.Errorf("custom credibility threshold: got %s, want human_review", got)
	}
	if got, _ := e.Decide(4, 80); got != model.DispositionAutomatedResponse {
		t.Errorf("custom credibility threshold: got %s, want automated_response", got)
	}
}
