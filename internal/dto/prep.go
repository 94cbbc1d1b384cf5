package dto

// CreatePrepRequest is the payload for generating a new prep report.
type CreatePrepRequest struct {
	CompanyName        string `json:"company_name"`
	MeetingObjective   string `json:"meeting_objective"`
	ContactPersonName  string `json:"contact_person_name,omitempty"`
	ContactLinkedInURL string `json:"contact_linkedin_url,omitempty"`
	MeetingDate        string `json:"meeting_date,omitempty"`
}

// PrepListFilter narrows the dashboard prep listing.
type PrepListFilter struct {
	Page   int
	Limit  int
	Status string
	Search string
}

// Pagination describes list paging metadata.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalCount int  `json:"total_count"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}
