package entity

import (
	"time"

	"github.com/google/uuid"
)

// PortfolioItem is a single past project in the user's portfolio.
type PortfolioItem struct {
	Name           string `json:"name"`
	ClientIndustry string `json:"client_industry"`
	Description    string `json:"description"`
	KeyOutcomes    string `json:"key_outcomes"`
}

// UserProfile is the business profile the synthesizer draws on.
type UserProfile struct {
	UserID             uuid.UUID       `json:"user_id"`
	CompanyName        string          `json:"company_name"`
	CompanyDescription string          `json:"company_description"`
	IndustriesServed   []string        `json:"industries_served"`
	Portfolio          []PortfolioItem `json:"portfolio"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Portfolio size bounds enforced at the validation boundary.
const (
	MinPortfolioItems = 5
	MaxPortfolioItems = 20
)
