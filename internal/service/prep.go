package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/prepdesk/sales-prep/api/internal/agent"
	"github.com/prepdesk/sales-prep/api/internal/dto"
	"github.com/prepdesk/sales-prep/api/internal/entity"
	"github.com/prepdesk/sales-prep/api/internal/repository"
	"github.com/prepdesk/sales-prep/api/internal/service/confidence"
)

// Service-level errors surfaced to the transport layer.
var (
	ErrProfileRequired = errors.New("business profile must be saved before generating preps")
	ErrInvalidRequest  = errors.New("invalid request")
)

// Accepted layouts for the optional meeting date.
var meetingDateLayouts = []string{time.RFC3339, "2006-01-02"}

const maxObjectiveLength = 500

// PrepService runs the full prep pipeline: normalize, check the research
// cache, collect research when stale, synthesize the report and persist it.
type PrepService struct {
	preps      repository.PrepsRepository
	cache      repository.CacheRepository
	profiles   repository.ProfilesRepository
	researcher agent.Researcher
	retrier    *agent.Retrier
	builder    *ReportBuilder
	cleaner    *ContactCleaner
	now        func() time.Time
}

// NewPrepService wires the pipeline dependencies.
func NewPrepService(
	preps repository.PrepsRepository,
	cache repository.CacheRepository,
	profiles repository.ProfilesRepository,
	researcher agent.Researcher,
	retrier *agent.Retrier,
	builder *ReportBuilder,
	cleaner *ContactCleaner,
) *PrepService {
	return &PrepService{
		preps:      preps,
		cache:      cache,
		profiles:   profiles,
		researcher: researcher,
		retrier:    retrier,
		builder:    builder,
		cleaner:    cleaner,
		now:        time.Now,
	}
}

// CreatePrep generates and persists a prep report for the request. The
// pipeline keeps running if the client disconnects; a finished report is
// always stored.
func (s *PrepService) CreatePrep(ctx context.Context, userID uuid.UUID, req dto.CreatePrepRequest) (*entity.Prep, error) {
	if req.CompanyName == "" || req.MeetingObjective == "" {
		return nil, fmt.Errorf("%w: company_name and meeting_objective are required", ErrInvalidRequest)
	}
	if len(req.MeetingObjective) > maxObjectiveLength {
		return nil, fmt.Errorf("%w: meeting_objective exceeds %d characters", ErrInvalidRequest, maxObjectiveLength)
	}
	if req.ContactLinkedInURL != "" {
		parsed, err := url.ParseRequestURI(req.ContactLinkedInURL)
		if err != nil || parsed.Host == "" {
			return nil, fmt.Errorf("%w: contact_linkedin_url must be an absolute URL", ErrInvalidRequest)
		}
	}
	normalized := NormalizeCompanyName(req.CompanyName)
	if normalized == "" {
		return nil, fmt.Errorf("%w: company_name must contain letters or digits", ErrInvalidRequest)
	}
	meetingDate, err := parseMeetingDate(req.MeetingDate)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileRequired
		}
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)

	research, cacheHit, err := s.loadResearch(ctx, req, normalized)
	if err != nil {
		return nil, err
	}

	input := BuildInput{
		CompanyName:      req.CompanyName,
		MeetingObjective: req.MeetingObjective,
		Research:         research,
		Profile:          profile,
	}
	if req.ContactPersonName != "" {
		input.ContactPersonName = &req.ContactPersonName
	}

	report, err := s.builder.Build(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := ValidateReport(report); err != nil {
		return nil, err
	}

	prep := &entity.Prep{
		UserID:            userID,
		CompanyName:       req.CompanyName,
		NormalizedName:    normalized,
		MeetingObjective:  req.MeetingObjective,
		MeetingDate:       meetingDate,
		Report:            *report,
		OverallConfidence: report.OverallConfidence,
		CacheHit:          cacheHit,
	}
	if req.ContactPersonName != "" {
		prep.ContactPersonName = &req.ContactPersonName
	}
	if req.ContactLinkedInURL != "" {
		prep.ContactLinkedInURL = &req.ContactLinkedInURL
	}

	saved, err := s.preps.Insert(ctx, prep)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// loadResearch returns cached research when fresh, otherwise collects a new
// record and replaces the cache entry. The bool reports a cache hit.
func (s *PrepService) loadResearch(ctx context.Context, req dto.CreatePrepRequest, normalized string) (*entity.CompanyResearch, bool, error) {
	entry, err := s.cache.Lookup(ctx, normalized)
	if err == nil && entry.Fresh(s.now()) {
		return &entry.Research, true, nil
	}
	if err != nil && !errors.Is(err, repository.ErrCacheMiss) {
		return nil, false, err
	}

	input := agent.ResearchInput{
		CompanyName:        req.CompanyName,
		MeetingObjective:   req.MeetingObjective,
		ContactPersonName:  req.ContactPersonName,
		ContactLinkedInURL: req.ContactLinkedInURL,
	}

	var research *entity.CompanyResearch
	callErr := s.retrier.Do(ctx, "research", func(ctx context.Context) error {
		var err error
		research, err = s.researcher.Research(ctx, input)
		return err
	})
	if callErr != nil {
		return nil, false, callErr
	}

	research.ContactInfo = s.cleaner.Clean(research.ContactInfo)
	research.Confidence = s.researchConfidence(research)

	stored := &entity.CacheEntry{
		NormalizedName: normalized,
		Research:       *research,
		Confidence:     research.Confidence,
		SourceURLs:     research.Sources,
	}
	if err := s.cache.Store(ctx, stored); err != nil {
		// A cache write failure costs a future hit, not this prep.
		log.Printf("level=warn msg=\"cache store failed\" company=%s error=%q", normalized, err)
	}
	return research, false, nil
}

// researchConfidence scores a fresh record from its evidence: firmographic
// completeness, news freshness and decision-maker sourcing, minus a penalty
// per recorded limitation.
func (s *PrepService) researchConfidence(research *entity.CompanyResearch) float64 {
	var subs []float64

	firmographics := 0.0
	for _, field := range []string{research.Industry, research.CompanySize, research.Description} {
		if field != "" {
			firmographics += 1.0 / 3.0
		}
	}
	subs = append(subs, firmographics)

	dates := make([]time.Time, 0, len(research.News))
	for _, item := range research.News {
		parsed, err := time.Parse(newsDateLayout, item.Date)
		if err != nil {
			parsed = time.Time{}
		}
		dates = append(dates, parsed)
	}
	subs = append(subs, confidence.CompanyIntelligence(dates, s.now()))

	if len(research.DecisionMakers) > 0 {
		total := 0.0
		for _, profile := range research.DecisionMakers {
			direct := profile.ProfileURL != nil && *profile.ProfileURL != ""
			total += confidence.DecisionMaker(direct, len(profile.BackgroundPoints))
		}
		subs = append(subs, total/float64(len(research.DecisionMakers)))
	}

	return confidence.Research(subs, len(research.Limitations))
}

// GetPrep fetches one prep with its full report, scoped to the owner. The
// stored report is validated again on the way out so a corrupted row is
// rejected rather than served.
func (s *PrepService) GetPrep(ctx context.Context, userID, prepID uuid.UUID) (*entity.Prep, error) {
	prep, err := s.preps.GetByID(ctx, userID, prepID)
	if err != nil {
		return nil, err
	}
	if err := ValidateReport(&prep.Report); err != nil {
		return nil, fmt.Errorf("stored report failed validation: %w", err)
	}
	return prep, nil
}

// RecordOutcome validates and stores post-meeting feedback for a prep the
// user owns, replacing any earlier record.
func (s *PrepService) RecordOutcome(ctx context.Context, userID, prepID uuid.UUID, req dto.RecordOutcomeRequest) (*entity.MeetingOutcome, error) {
	if err := validateOutcome(req); err != nil {
		return nil, err
	}

	// Ownership check; a foreign prep reads as missing.
	if _, err := s.preps.GetByID(ctx, userID, prepID); err != nil {
		return nil, err
	}

	outcome := &entity.MeetingOutcome{
		PrepID:            prepID,
		MeetingStatus:     req.MeetingStatus,
		Outcome:           req.Outcome,
		PrepAccuracy:      req.PrepAccuracy,
		MostUsefulSection: req.MostUsefulSection,
		WhatWasMissing:    req.WhatWasMissing,
		GeneralNotes:      req.GeneralNotes,
	}
	return s.preps.UpsertOutcome(ctx, outcome)
}

// GetOutcome fetches the recorded outcome for a prep the user owns.
func (s *PrepService) GetOutcome(ctx context.Context, userID, prepID uuid.UUID) (*entity.MeetingOutcome, error) {
	return s.preps.GetOutcome(ctx, userID, prepID)
}

func validateOutcome(req dto.RecordOutcomeRequest) error {
	switch req.MeetingStatus {
	case entity.MeetingStatusCompleted, entity.MeetingStatusCancelled, entity.MeetingStatusRescheduled:
	default:
		return fmt.Errorf("%w: meeting_status must be completed, cancelled or rescheduled", ErrInvalidRequest)
	}

	if req.Outcome != nil {
		switch *req.Outcome {
		case entity.OutcomeSuccessful, entity.OutcomeNeedsImprovement, entity.OutcomeLostOpportunity:
		default:
			return fmt.Errorf("%w: outcome must be successful, needs_improvement or lost_opportunity", ErrInvalidRequest)
		}
	}
	if req.PrepAccuracy != nil && (*req.PrepAccuracy < 1 || *req.PrepAccuracy > 5) {
		return fmt.Errorf("%w: prep_accuracy must be between 1 and 5", ErrInvalidRequest)
	}
	if req.MostUsefulSection != nil {
		switch *req.MostUsefulSection {
		case entity.SectionExecutiveSummary, entity.SectionStrategicNarrative, entity.SectionTalkingPoints,
			entity.SectionQuestions, entity.SectionDecisionMakers, entity.SectionCompanyIntelligence:
		default:
			return fmt.Errorf("%w: most_useful_section is not a report section", ErrInvalidRequest)
		}
	}
	return nil
}

func parseMeetingDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range meetingDateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed, nil
		}
	}
	return nil, fmt.Errorf("%w: meeting_date must be RFC 3339 or YYYY-MM-DD", ErrInvalidRequest)
}
