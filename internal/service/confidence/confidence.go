package confidence

import "time"

// Section weights for the overall report score. They sum to 1.0; an absent
// decision-makers section contributes 0 and the result is never renormalized,
// so reports without contact data are capped below fully-sourced ones.
const (
	WeightExecutiveSummary    = 0.15
	WeightStrategicNarrative  = 0.25
	WeightTalkingPoints       = 0.20
	WeightQuestions           = 0.10
	WeightDecisionMakers      = 0.15
	WeightCompanyIntelligence = 0.15
)

// SectionScores carries the per-section confidences of one report.
// DecisionMakers is nil when the section was omitted.
type SectionScores struct {
	ExecutiveSummary    float64
	StrategicNarrative  float64
	TalkingPoints       float64
	Questions           float64
	DecisionMakers      *float64
	CompanyIntelligence float64
}

// Overall computes the weighted report confidence.
func Overall(s SectionScores) float64 {
	total := WeightExecutiveSummary*s.ExecutiveSummary +
		WeightStrategicNarrative*s.StrategicNarrative +
		WeightTalkingPoints*s.TalkingPoints +
		WeightQuestions*s.Questions +
		WeightCompanyIntelligence*s.CompanyIntelligence
	if s.DecisionMakers != nil {
		total += WeightDecisionMakers * *s.DecisionMakers
	}
	return Clamp(total)
}

// Clamp bounds a score to [0,1].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// DecisionMaker scores one researched person. A profile fetched from a direct
// URL starts at 0.9; one inferred from search snippets starts at 0.65. Each
// corroborating background point adds 0.02, capped at three points.
func DecisionMaker(directProfile bool, backgroundPoints int) float64 {
	base := 0.65
	if directProfile {
		base = 0.9
	}
	if backgroundPoints > 3 {
		backgroundPoints = 3
	}
	return Clamp(base + 0.02*float64(backgroundPoints))
}

// FreshNewsWindow is the age under which a news item counts as fresh.
const FreshNewsWindow = 30 * 24 * time.Hour

// FreshNewsRatio returns the share of news items younger than the fresh-news
// window. Items with unparseable dates count as stale.
func FreshNewsRatio(dates []time.Time, now time.Time) float64 {
	if len(dates) == 0 {
		return 0
	}
	fresh := 0
	for _, d := range dates {
		if !d.IsZero() && now.Sub(d) < FreshNewsWindow {
			fresh++
		}
	}
	return float64(fresh) / float64(len(dates))
}

// CompanyIntelligence scores the intelligence section from news freshness.
// No news at all means only generic company-wide data was found.
func CompanyIntelligence(dates []time.Time, now time.Time) float64 {
	if len(dates) == 0 {
		return 0.4
	}
	return Clamp(0.5 + 0.4*FreshNewsRatio(dates, now))
}

// Research aggregates sub-record scores into the record-level confidence.
// Each recorded limitation subtracts 0.05, floored at 0.2.
func Research(subScores []float64, limitations int) float64 {
	if len(subScores) == 0 {
		return 0.2
	}
	sum := 0.0
	for _, s := range subScores {
		sum += Clamp(s)
	}
	score := sum/float64(len(subScores)) - 0.05*float64(limitations)
	if score < 0.2 {
		return 0.2
	}
	return Clamp(score)
}
