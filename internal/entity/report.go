package entity

import (
	"time"

	"github.com/google/uuid"
)

// PainPoint is a prospect challenge ranked by urgency and business impact.
type PainPoint struct {
	Pain     string   `json:"pain"`
	Urgency  int      `json:"urgency"`
	Impact   int      `json:"impact"`
	Evidence []string `json:"evidence,omitempty"`
}

// PortfolioMatch links a past project to the prospect's situation.
type PortfolioMatch struct {
	ProjectName    string  `json:"project_name"`
	Relevance      string  `json:"relevance"`
	RelevanceScore float64 `json:"relevance_score"`
}

// ExecutiveSummary is section 1 of the prep report.
type ExecutiveSummary struct {
	TheClient  string  `json:"the_client"`
	OurAngle   string  `json:"our_angle"`
	CallGoal   string  `json:"call_goal"`
	Confidence float64 `json:"confidence"`
}

// StrategicNarrative is section 2 of the prep report.
type StrategicNarrative struct {
	DreamOutcome       string           `json:"dream_outcome"`
	ProofOfAchievement []PortfolioMatch `json:"proof_of_achievement"`
	PainPoints         []PainPoint      `json:"pain_points"`
	Confidence         float64          `json:"confidence"`
}

// TalkingPoints is section 3 of the prep report.
type TalkingPoints struct {
	OpeningHook        string   `json:"opening_hook"`
	KeyPoints          []string `json:"key_points"`
	CompetitiveContext string   `json:"competitive_context"`
	Confidence         float64  `json:"confidence"`
}

// QuestionsToAsk is section 4 of the prep report.
type QuestionsToAsk struct {
	Strategic      []string `json:"strategic"`
	Technical      []string `json:"technical"`
	BusinessImpact []string `json:"business_impact"`
	Qualification  []string `json:"qualification"`
	Confidence     float64  `json:"confidence"`
}

// DecisionMakers is section 5 of the prep report. The whole section is nil on
// the report when no contact person was supplied with the request.
type DecisionMakers struct {
	Profiles   []DecisionMakerProfile `json:"profiles"`
	Confidence float64                `json:"confidence"`
}

// CompanyIntelligence is section 6 of the prep report.
type CompanyIntelligence struct {
	Industry             string     `json:"industry"`
	CompanySize          string     `json:"company_size"`
	RecentNews           []NewsItem `json:"recent_news"`
	StrategicInitiatives []string   `json:"strategic_initiatives"`
	Confidence           float64    `json:"confidence"`
}

// PrepReport is the full synthesized report with all six sections.
type PrepReport struct {
	ExecutiveSummary    ExecutiveSummary    `json:"executive_summary"`
	StrategicNarrative  StrategicNarrative  `json:"strategic_narrative"`
	TalkingPoints       TalkingPoints       `json:"talking_points"`
	QuestionsToAsk      QuestionsToAsk      `json:"questions_to_ask"`
	DecisionMakers      *DecisionMakers     `json:"decision_makers"`
	CompanyIntelligence CompanyIntelligence `json:"company_intelligence"`

	ResearchLimitations []string `json:"research_limitations"`
	Sources             []string `json:"sources"`
	OverallConfidence   float64  `json:"overall_confidence"`
}

// Prep is the persisted row wrapping a report and its request metadata.
type Prep struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             uuid.UUID  `json:"user_id"`
	CompanyName        string     `json:"company_name"`
	NormalizedName     string     `json:"company_name_normalized"`
	MeetingObjective   string     `json:"meeting_objective"`
	MeetingDate        *time.Time `json:"meeting_date,omitempty"`
	ContactPersonName  *string    `json:"contact_person_name,omitempty"`
	ContactLinkedInURL *string    `json:"contact_linkedin_url,omitempty"`
	Report             PrepReport `json:"report"`
	OverallConfidence  float64    `json:"overall_confidence"`
	CacheHit           bool       `json:"cache_hit"`
	CreatedAt          time.Time  `json:"created_at"`
}
