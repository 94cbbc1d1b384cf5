package entity

import "time"

// NewsItem is a single company news event surfaced during research.
type NewsItem struct {
	Headline     string `json:"headline"`
	Date         string `json:"date"`
	Significance string `json:"significance"`
}

// DecisionMakerProfile describes a person researched for the meeting.
type DecisionMakerProfile struct {
	Name             string   `json:"name"`
	Title            string   `json:"title"`
	ProfileURL       *string  `json:"profile_url,omitempty"`
	BackgroundPoints []string `json:"background_points"`
	Confidence       float64  `json:"confidence"`
}

// ContactInfo holds cleaned contact channels discovered on the company's site.
type ContactInfo struct {
	Emails []string `json:"emails,omitempty"`
	Phones []string `json:"phones,omitempty"`
}

// CompanyResearch is the cached research record for one company. It is always
// replaced wholesale; LastUpdated is set by the cache store at write time.
type CompanyResearch struct {
	CompanyName          string                 `json:"company_name"`
	Industry             string                 `json:"industry"`
	CompanySize          string                 `json:"company_size"`
	Description          string                 `json:"description"`
	News                 []NewsItem             `json:"news"`
	DecisionMakers       []DecisionMakerProfile `json:"decision_makers,omitempty"`
	ContactInfo          ContactInfo            `json:"contact_info"`
	StrategicInitiatives []string               `json:"strategic_initiatives,omitempty"`
	Limitations          []string               `json:"limitations,omitempty"`
	Sources              []string               `json:"sources,omitempty"`
	Confidence           float64                `json:"confidence"`
	LastUpdated          time.Time              `json:"last_updated"`
}

// CacheEntry wraps a research record as stored in the shared cache.
type CacheEntry struct {
	NormalizedName string          `json:"company_name_normalized"`
	Research       CompanyResearch `json:"research"`
	Confidence     float64         `json:"confidence_score"`
	SourceURLs     []string        `json:"source_urls"`
	LastUpdated    time.Time       `json:"last_updated"`
}

// ResearchTTL is how long a cache entry counts as fresh. Staleness triggers
// re-collection, never deletion.
const ResearchTTL = 7 * 24 * time.Hour

// Fresh reports whether the entry is younger than the research TTL.
func (e *CacheEntry) Fresh(now time.Time) bool {
	return now.Sub(e.LastUpdated) < ResearchTTL
}
