package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/prepdesk/sales-prep/api/internal/agent"
	"github.com/prepdesk/sales-prep/api/internal/entity"
	"github.com/prepdesk/sales-prep/api/internal/service/confidence"
)

// PlaceholderConfidence marks a section the synthesizer could not generate.
const PlaceholderConfidence = 0.2

// newsDateLayout is the date format research records carry for news items.
const newsDateLayout = "2006-01-02"

// BuildInput carries everything one report synthesis needs.
type BuildInput struct {
	CompanyName       string
	MeetingObjective  string
	ContactPersonName *string
	Research          *entity.CompanyResearch
	Profile           *entity.UserProfile
}

// ReportBuilder runs the per-section synthesis loop and assembles the final
// report. Sections are generated independently; one failed section degrades
// the report instead of failing the whole prep.
type ReportBuilder struct {
	synthesizer agent.Synthesizer
	retrier     *agent.Retrier
	now         func() time.Time
}

// NewReportBuilder constructs a builder on top of a section synthesizer.
// Section calls run under the classified retry policy with a tighter budget
// than research: one retry, and non-retryable failures are never re-issued.
func NewReportBuilder(synthesizer agent.Synthesizer) *ReportBuilder {
	return &ReportBuilder{
		synthesizer: synthesizer,
		retrier:     &agent.Retrier{MaxAttempts: 2},
		now:         time.Now,
	}
}

// Build synthesizes all sections in a fixed order and computes the weighted
// overall confidence. The decision-makers section is only produced when the
// request named a contact person.
func (b *ReportBuilder) Build(ctx context.Context, input BuildInput) (*entity.PrepReport, error) {
	if input.Research == nil {
		return nil, fmt.Errorf("research record is required")
	}

	report := &entity.PrepReport{
		ResearchLimitations: append([]string(nil), input.Research.Limitations...),
		Sources:             append([]string(nil), input.Research.Sources...),
	}

	matches := MatchPortfolio(input.Research, profilePortfolio(input.Profile))

	var scores confidence.SectionScores
	var err error

	if scores.ExecutiveSummary, err = b.section(ctx, input, matches, entity.SectionExecutiveSummary, &report.ExecutiveSummary, report); err != nil {
		return nil, err
	}
	report.ExecutiveSummary.Confidence = scores.ExecutiveSummary

	if scores.StrategicNarrative, err = b.section(ctx, input, matches, entity.SectionStrategicNarrative, &report.StrategicNarrative, report); err != nil {
		return nil, err
	}
	report.StrategicNarrative.Confidence = scores.StrategicNarrative
	if len(report.StrategicNarrative.ProofOfAchievement) == 0 {
		report.StrategicNarrative.ProofOfAchievement = matches
	}

	if scores.TalkingPoints, err = b.section(ctx, input, matches, entity.SectionTalkingPoints, &report.TalkingPoints, report); err != nil {
		return nil, err
	}
	report.TalkingPoints.Confidence = scores.TalkingPoints

	if scores.Questions, err = b.section(ctx, input, matches, entity.SectionQuestions, &report.QuestionsToAsk, report); err != nil {
		return nil, err
	}
	report.QuestionsToAsk.Confidence = scores.Questions

	if input.ContactPersonName != nil && *input.ContactPersonName != "" {
		section, err := b.decisionMakers(ctx, input, report)
		if err != nil {
			return nil, err
		}
		report.DecisionMakers = section
		scores.DecisionMakers = &section.Confidence
	}

	if scores.CompanyIntelligence, err = b.intelligence(ctx, input, matches, report); err != nil {
		return nil, err
	}
	report.CompanyIntelligence.Confidence = scores.CompanyIntelligence

	report.OverallConfidence = confidence.Overall(scores)
	return report, nil
}

// section generates one report section into dest and returns its confidence.
// A retryable failure gets exactly one retry, then a placeholder. A quota
// failure aborts the whole build: retrying other sections only repeats the
// billing-denied call, and a report of six placeholders helps nobody.
func (b *ReportBuilder) section(ctx context.Context, input BuildInput, matches []entity.PortfolioMatch, kind string, dest any, report *entity.PrepReport) (float64, error) {
	result, err := b.generate(ctx, input, matches, kind)
	if err != nil {
		var callErr *agent.CallError
		if errors.As(err, &callErr) && callErr.Class == agent.ClassQuota {
			return 0, callErr
		}
		log.Printf("level=warn msg=\"section synthesis failed\" section=%s company=%q error=%q", kind, input.CompanyName, err)
		report.ResearchLimitations = append(report.ResearchLimitations,
			fmt.Sprintf("%s could not be generated and contains placeholder content", kind))
		placeholderSection(kind, input, dest)
		return PlaceholderConfidence, nil
	}

	if err := json.Unmarshal(result.Payload, dest); err != nil {
		log.Printf("level=warn msg=\"section payload malformed\" section=%s company=%q error=%q", kind, input.CompanyName, err)
		report.ResearchLimitations = append(report.ResearchLimitations,
			fmt.Sprintf("%s could not be generated and contains placeholder content", kind))
		placeholderSection(kind, input, dest)
		return PlaceholderConfidence, nil
	}
	return confidence.Clamp(result.Confidence), nil
}

func (b *ReportBuilder) generate(ctx context.Context, input BuildInput, matches []entity.PortfolioMatch, kind string) (*agent.SectionResult, error) {
	req := agent.SectionRequest{
		Kind:             kind,
		CompanyName:      input.CompanyName,
		MeetingObjective: input.MeetingObjective,
		Research:         input.Research,
		Profile:          input.Profile,
		PortfolioMatches: matches,
	}

	var result *agent.SectionResult
	err := b.retrier.Do(ctx, "synthesize:"+kind, func(ctx context.Context) error {
		var callErr error
		result, callErr = b.synthesizer.GenerateSection(ctx, req)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// decisionMakers builds section 5 from researched profiles, rescoring each
// profile from its evidence rather than trusting model self-assessment.
func (b *ReportBuilder) decisionMakers(ctx context.Context, input BuildInput, report *entity.PrepReport) (*entity.DecisionMakers, error) {
	section := &entity.DecisionMakers{}
	if _, err := b.section(ctx, input, nil, entity.SectionDecisionMakers, section, report); err != nil {
		return nil, err
	}

	if len(section.Profiles) == 0 && len(input.Research.DecisionMakers) > 0 {
		section.Profiles = append([]entity.DecisionMakerProfile(nil), input.Research.DecisionMakers...)
	}

	total := 0.0
	for i := range section.Profiles {
		profile := &section.Profiles[i]
		direct := profile.ProfileURL != nil && *profile.ProfileURL != ""
		profile.Confidence = confidence.DecisionMaker(direct, len(profile.BackgroundPoints))
		total += profile.Confidence
	}
	if len(section.Profiles) > 0 {
		section.Confidence = total / float64(len(section.Profiles))
	} else {
		section.Confidence = PlaceholderConfidence
	}
	return section, nil
}

// intelligence builds section 6 and scores it from news freshness.
func (b *ReportBuilder) intelligence(ctx context.Context, input BuildInput, matches []entity.PortfolioMatch, report *entity.PrepReport) (float64, error) {
	if _, err := b.section(ctx, input, matches, entity.SectionCompanyIntelligence, &report.CompanyIntelligence, report); err != nil {
		return 0, err
	}

	if report.CompanyIntelligence.Industry == "" {
		report.CompanyIntelligence.Industry = input.Research.Industry
	}
	if report.CompanyIntelligence.CompanySize == "" {
		report.CompanyIntelligence.CompanySize = input.Research.CompanySize
	}
	if len(report.CompanyIntelligence.RecentNews) == 0 {
		report.CompanyIntelligence.RecentNews = input.Research.News
	}

	dates := make([]time.Time, 0, len(report.CompanyIntelligence.RecentNews))
	for _, item := range report.CompanyIntelligence.RecentNews {
		parsed, err := time.Parse(newsDateLayout, item.Date)
		if err != nil {
			parsed = time.Time{}
		}
		dates = append(dates, parsed)
	}
	return confidence.CompanyIntelligence(dates, b.now()), nil
}

// placeholderSection fills dest with minimal content that keeps the report
// structurally valid while signalling it needs manual work.
func placeholderSection(kind string, input BuildInput, dest any) {
	switch section := dest.(type) {
	case *entity.ExecutiveSummary:
		*section = entity.ExecutiveSummary{
			TheClient: fmt.Sprintf("%s (research available, summary generation failed)", input.CompanyName),
			OurAngle:  "Review the research record and prepare manually",
			CallGoal:  input.MeetingObjective,
		}
	case *entity.StrategicNarrative:
		*section = entity.StrategicNarrative{
			DreamOutcome: "Not generated; review the research record before the call",
		}
	case *entity.TalkingPoints:
		*section = entity.TalkingPoints{
			OpeningHook: fmt.Sprintf("Ask about recent developments at %s", input.CompanyName),
		}
	case *entity.QuestionsToAsk:
		*section = entity.QuestionsToAsk{
			Strategic: []string{fmt.Sprintf("What are your top priorities around %s?", input.MeetingObjective)},
		}
	case *entity.DecisionMakers:
		*section = entity.DecisionMakers{}
	case *entity.CompanyIntelligence:
		*section = entity.CompanyIntelligence{
			Industry:    input.Research.Industry,
			CompanySize: input.Research.CompanySize,
			RecentNews:  input.Research.News,
		}
	}
}

func profilePortfolio(profile *entity.UserProfile) []entity.PortfolioItem {
	if profile == nil {
		return nil
	}
	return profile.Portfolio
}
