package agent

import (
	"context"
	"encoding/json"

	"github.com/prepdesk/sales-prep/api/internal/entity"
)

// ResearchInput describes one research request handed to the external agent.
type ResearchInput struct {
	CompanyName        string `json:"company_name"`
	MeetingObjective   string `json:"meeting_objective"`
	ContactPersonName  string `json:"contact_person_name,omitempty"`
	ContactLinkedInURL string `json:"contact_linkedin_url,omitempty"`
}

// Researcher gathers a structured research record for a company. The tool
// selection and reasoning happen on the other side of this interface; callers
// only see input in, structured record out.
type Researcher interface {
	Research(ctx context.Context, input ResearchInput) (*entity.CompanyResearch, error)
}

// SectionRequest asks for a single report section.
type SectionRequest struct {
	Kind             string                  `json:"kind"`
	CompanyName      string                  `json:"company_name"`
	MeetingObjective string                  `json:"meeting_objective"`
	Research         *entity.CompanyResearch `json:"research"`
	Profile          *entity.UserProfile     `json:"profile"`
	PortfolioMatches []entity.PortfolioMatch `json:"portfolio_matches,omitempty"`
}

// SectionResult carries one generated section as raw JSON plus the section's
// own confidence score.
type SectionResult struct {
	Payload    json.RawMessage `json:"payload"`
	Confidence float64         `json:"confidence"`
}

// Synthesizer generates report sections one at a time.
type Synthesizer interface {
	GenerateSection(ctx context.Context, req SectionRequest) (*SectionResult, error)
}
