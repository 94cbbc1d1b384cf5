package entity

import (
	"time"

	"github.com/google/uuid"
)

// Meeting status values.
const (
	MeetingStatusCompleted   = "completed"
	MeetingStatusCancelled   = "cancelled"
	MeetingStatusRescheduled = "rescheduled"
)

// Meeting outcome classifications.
const (
	OutcomeSuccessful       = "successful"
	OutcomeNeedsImprovement = "needs_improvement"
	OutcomeLostOpportunity  = "lost_opportunity"
)

// Report section identifiers, also used for the most-useful-section feedback.
const (
	SectionExecutiveSummary    = "executive_summary"
	SectionStrategicNarrative  = "strategic_narrative"
	SectionTalkingPoints       = "talking_points"
	SectionQuestions           = "questions_to_ask"
	SectionDecisionMakers      = "decision_makers"
	SectionCompanyIntelligence = "company_intelligence"
)

// MeetingOutcome records post-meeting feedback for a prep. At most one exists
// per prep; saves replace any previous record.
type MeetingOutcome struct {
	ID                uuid.UUID `json:"id"`
	PrepID            uuid.UUID `json:"prep_id"`
	MeetingStatus     string    `json:"meeting_status"`
	Outcome           *string   `json:"outcome,omitempty"`
	PrepAccuracy      *int      `json:"prep_accuracy,omitempty"`
	MostUsefulSection *string   `json:"most_useful_section,omitempty"`
	WhatWasMissing    *string   `json:"what_was_missing,omitempty"`
	GeneralNotes      *string   `json:"general_notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
