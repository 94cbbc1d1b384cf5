package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/prepdesk/sales-prep/api/internal/entity"
	"github.com/prepdesk/sales-prep/api/internal/service/confidence"
)

// overallTolerance absorbs float accumulation when recomputing the weighted
// overall score.
const overallTolerance = 1e-9

// FieldError pins a validation failure to a specific report field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every field failure found in one pass.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// ValidateReport checks a synthesized report's structure before it is
// persisted. Values are never coerced; a malformed section is reported as-is.
func ValidateReport(report *entity.PrepReport) error {
	verr := &ValidationError{}

	checkConfidence(verr, "executive_summary.confidence", report.ExecutiveSummary.Confidence)
	if report.ExecutiveSummary.TheClient == "" {
		verr.add("executive_summary.the_client", "must not be empty")
	}
	if report.ExecutiveSummary.CallGoal == "" {
		verr.add("executive_summary.call_goal", "must not be empty")
	}

	checkConfidence(verr, "strategic_narrative.confidence", report.StrategicNarrative.Confidence)
	for i, pain := range report.StrategicNarrative.PainPoints {
		if pain.Pain == "" {
			verr.add(fmt.Sprintf("strategic_narrative.pain_points[%d].pain", i), "must not be empty")
		}
		if pain.Urgency < 1 || pain.Urgency > 5 {
			verr.add(fmt.Sprintf("strategic_narrative.pain_points[%d].urgency", i), "must be between 1 and 5")
		}
		if pain.Impact < 1 || pain.Impact > 5 {
			verr.add(fmt.Sprintf("strategic_narrative.pain_points[%d].impact", i), "must be between 1 and 5")
		}
	}

	checkConfidence(verr, "talking_points.confidence", report.TalkingPoints.Confidence)
	if report.TalkingPoints.OpeningHook == "" {
		verr.add("talking_points.opening_hook", "must not be empty")
	}

	checkConfidence(verr, "questions_to_ask.confidence", report.QuestionsToAsk.Confidence)
	questionCount := len(report.QuestionsToAsk.Strategic) + len(report.QuestionsToAsk.Technical) +
		len(report.QuestionsToAsk.BusinessImpact) + len(report.QuestionsToAsk.Qualification)
	if questionCount == 0 {
		verr.add("questions_to_ask", "must contain at least one question")
	}

	if report.DecisionMakers != nil {
		checkConfidence(verr, "decision_makers.confidence", report.DecisionMakers.Confidence)
		for i, profile := range report.DecisionMakers.Profiles {
			if profile.Name == "" {
				verr.add(fmt.Sprintf("decision_makers.profiles[%d].name", i), "must not be empty")
			}
			checkConfidence(verr, fmt.Sprintf("decision_makers.profiles[%d].confidence", i), profile.Confidence)
		}
	}

	checkConfidence(verr, "company_intelligence.confidence", report.CompanyIntelligence.Confidence)
	for i, item := range report.CompanyIntelligence.RecentNews {
		if item.Headline == "" {
			verr.add(fmt.Sprintf("company_intelligence.recent_news[%d].headline", i), "must not be empty")
		}
	}

	checkConfidence(verr, "overall_confidence", report.OverallConfidence)

	scores := confidence.SectionScores{
		ExecutiveSummary:    report.ExecutiveSummary.Confidence,
		StrategicNarrative:  report.StrategicNarrative.Confidence,
		TalkingPoints:       report.TalkingPoints.Confidence,
		Questions:           report.QuestionsToAsk.Confidence,
		CompanyIntelligence: report.CompanyIntelligence.Confidence,
	}
	if report.DecisionMakers != nil {
		scores.DecisionMakers = &report.DecisionMakers.Confidence
	}
	if math.Abs(confidence.Overall(scores)-report.OverallConfidence) > overallTolerance {
		verr.add("overall_confidence", "does not match the weighted section scores")
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func checkConfidence(verr *ValidationError, field string, value float64) {
	if value < 0 || value > 1 {
		verr.add(field, "must be between 0 and 1")
	}
}
