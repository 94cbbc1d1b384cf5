package dto

import "time"

// PrepSummary is the trimmed prep row shown in dashboard lists.
type PrepSummary struct {
	ID                string     `json:"id"`
	CompanyName       string     `json:"company_name"`
	MeetingObjective  string     `json:"meeting_objective"`
	MeetingDate       *time.Time `json:"meeting_date,omitempty"`
	OverallConfidence float64    `json:"overall_confidence"`
	CacheHit          bool       `json:"cache_hit"`
	OutcomeStatus     *string    `json:"outcome_status,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// DashboardStats aggregates a user's prep history.
type DashboardStats struct {
	TotalPreps       int           `json:"total_preps"`
	SuccessRate      float64       `json:"success_rate"`
	TotalSuccessful  int           `json:"total_successful"`
	TotalCompleted   int           `json:"total_completed"`
	AvgConfidence    float64       `json:"avg_confidence"`
	TimeSavedHours   float64       `json:"time_saved_hours"`
	TimeSavedMinutes int           `json:"time_saved_minutes"`
	RecentPreps      []PrepSummary `json:"recent_preps"`
	UpcomingMeetings []PrepSummary `json:"upcoming_meetings"`
}

// CacheStats summarises the shared research cache for operators.
type CacheStats struct {
	TotalEntries  int     `json:"total_entries"`
	FreshEntries  int     `json:"fresh_entries"`
	StaleEntries  int     `json:"stale_entries"`
	AvgConfidence float64 `json:"avg_confidence"`
	TTLDays       int     `json:"cache_ttl_days"`
}
