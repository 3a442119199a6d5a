package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/infoshield/infoshield/internal/model"
)

const disclaimer = "For life-threatening emergencies, contact local emergency services (911, 112) directly."

// buildResponse renders the user-facing payload for a decided case
func buildResponse(qc *model.QueryCase) *model.Response {
	resp := &model.Response{
		Disposition:  qc.Disposition,
		Credibility:  qc.Credibility.Value,
		Urgency:      qc.Analysis.Urgency,
		UrgencyLabel: urgencyLabel(qc.Analysis.Urgency),
		Location:     qc.Analysis.Location,
		DisasterType: qc.Analysis.DisasterType,
		Sources:      sourceList(qc.Evidence),
		SafetyAdvice: safetyAdvice(qc.Analysis.DisasterType, qc.Analysis.Urgency),
	}

	switch qc.Disposition {
	case model.DispositionImmediateAlert:
		resp.Message = fmt.Sprintf(
			"URGENT: your report%s has been treated as a live emergency and escalated immediately. %s",
			locationClause(qc.Analysis.Location), disclaimer)

	case model.DispositionAutomatedResponse:
		resp.Message = fmt.Sprintf(
			"Verified with credibility %.0f/100 across %d source(s)%s. %s",
			qc.Credibility.Value, len(qc.Evidence), locationClause(qc.Analysis.Location), disclaimer)

	case model.DispositionHumanReview:
		resp.ReviewID = qc.ReviewID
		resp.ReviewETA = reviewETA(qc.Analysis.Urgency)
		resp.Message = fmt.Sprintf(
			"This report could not be verified automatically (credibility %.0f/100) and has been queued for human expert review. Your reference id is %s; expect review %s. %s",
			qc.Credibility.Value, qc.ReviewID, resp.ReviewETA, disclaimer)
	}

	return resp
}

func urgencyLabel(urgency int) string {
	switch {
	case urgency >= 9:
		return "Critical"
	case urgency >= 7:
		return "High"
	case urgency >= 4:
		return "Medium"
	default:
		return "Low"
	}
}

// reviewETA estimates review turnaround from urgency
func reviewETA(urgency int) string {
	switch {
	case urgency >= 8:
		return "within 15 minutes"
	case urgency >= 5:
		return "within 1 hour"
	default:
		return "within 24 hours"
	}
}

func locationClause(location string) string {
	if location == "" {
		return ""
	}
	return " for " + location
}

func sourceList(evidence []model.EvidenceItem) []string {
	var sources []string
	for _, item := range evidence {
		sources = append(sources, item.Source)
	}
	return sources
}

var advice = map[string][]string{
	"flood": {
		"Move to higher ground and avoid walking or driving through flood water.",
		"Disconnect electrical appliances if water is entering your home.",
	},
	"earthquake": {
		"Drop, cover and hold on; stay away from windows and exterior walls.",
		"Expect aftershocks; do not re-enter damaged buildings.",
	},
	"tsunami": {
		"Move inland and to high ground immediately; do not wait for official confirmation.",
	},
	"cyclone": {
		"Stay indoors away from windows; secure or avoid loose outdoor objects.",
		"Follow evacuation orders from local authorities without delay.",
	},
	"fire": {
		"Evacuate early; smoke travels faster than flame.",
		"Keep low to the ground if smoke is present.",
	},
	"landslide": {
		"Move away from the slide path; watch for flooding that often follows.",
	},
}

func safetyAdvice(disasterType string, urgency int) []string {
	lines := advice[disasterType]
	if urgency >= 8 {
		lines = append([]string{"If you are in immediate danger, call your local emergency number now."}, lines...)
	}
	return lines
}

// WriteText renders the response as the CLI's human-readable report
func WriteText(w io.Writer, resp *model.Response) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  InfoShield Verification Report\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Disposition:  %s\n", strings.ReplaceAll(string(resp.Disposition), "_", " "))
	fmt.Fprintf(w, "  Credibility:  %.0f/100\n", resp.Credibility)
	fmt.Fprintf(w, "  Urgency:      %s (%d/10)\n", resp.UrgencyLabel, resp.Urgency)
	if resp.Location != "" {
		fmt.Fprintf(w, "  Location:     %s\n", resp.Location)
	}
	if resp.DisasterType != "" {
		fmt.Fprintf(w, "  Type:         %s\n", resp.DisasterType)
	}
	if resp.ReviewID != "" {
		fmt.Fprintf(w, "  Review ID:    %s (%s)\n", resp.ReviewID, resp.ReviewETA)
	}
	fmt.Fprintf(w, "\n  %s\n", resp.Message)

	if len(resp.SafetyAdvice) > 0 {
		fmt.Fprintf(w, "\n  Safety advice:\n")
		for _, line := range resp.SafetyAdvice {
			fmt.Fprintf(w, "  - %s\n", line)
		}
	}
	if len(resp.Sources) > 0 {
		fmt.Fprintf(w, "\n  Sources:\n")
		for _, s := range resp.Sources {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	fmt.Fprintf(w, "\n")
}
