package dto

// PortfolioItemRequest is one past project in a profile payload.
type PortfolioItemRequest struct {
	Name           string `json:"name"`
	ClientIndustry string `json:"client_industry"`
	Description    string `json:"description"`
	KeyOutcomes    string `json:"key_outcomes"`
}

// UpsertProfileRequest creates or replaces the caller's business profile.
type UpsertProfileRequest struct {
	CompanyName        string                 `json:"company_name"`
	CompanyDescription string                 `json:"company_description"`
	IndustriesServed   []string               `json:"industries_served"`
	Portfolio          []PortfolioItemRequest `json:"portfolio"`
}
