package dto

// RecordOutcomeRequest captures post-meeting feedback for a prep.
type RecordOutcomeRequest struct {
	MeetingStatus     string  `json:"meeting_status"`
	Outcome           *string `json:"outcome,omitempty"`
	PrepAccuracy      *int    `json:"prep_accuracy,omitempty"`
	MostUsefulSection *string `json:"most_useful_section,omitempty"`
	WhatWasMissing    *string `json:"what_was_missing,omitempty"`
	GeneralNotes      *string `json:"general_notes,omitempty"`
}
