package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/prepdesk/sales-prep/api/internal/entity"
)

const researchSystemPrompt = `You are a company research assistant preparing a sales call.
Gather what you know about the company and respond with a single JSON object:
{"company_name","industry","company_size","description",
"news":[{"headline","date","significance"}],
"decision_makers":[{"name","title","profile_url","background_points":[]}],
"contact_info":{"emails":[],"phones":[]},
"strategic_initiatives":[],"limitations":[],"sources":[]}
List every data gap you are aware of under "limitations". Dates are ISO format.`

const sectionSystemPrompt = `You are a sales brief writer. Produce exactly one report section
as a JSON object matching the requested section schema, including a top-level
"confidence" number between 0 and 1 reflecting how well the inputs support it.`

// LLMAgent implements Researcher and Synthesizer directly against a chat
// model, for deployments without a separate agent runtime.
type LLMAgent struct {
	model llms.Model
}

// NewLLMAgent constructs the direct-LLM backend. Credentials come from the
// environment, as the OpenAI client expects.
func NewLLMAgent(model string) (*LLMAgent, error) {
	llm, err := openai.New(openai.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("init llm client: %w", err)
	}
	return &LLMAgent{model: llm}, nil
}

// NewLLMAgentWithModel wires an existing model, used by tests.
func NewLLMAgentWithModel(model llms.Model) *LLMAgent {
	return &LLMAgent{model: model}
}

// Research prompts the model for a structured research record.
func (a *LLMAgent) Research(ctx context.Context, input ResearchInput) (*entity.CompanyResearch, error) {
	prompt := fmt.Sprintf(
		"Research %s for a sales meeting.\nMeeting objective: %s.\nContact person: %s.\nContact profile URL: %s.",
		input.CompanyName,
		input.MeetingObjective,
		orNotProvided(input.ContactPersonName),
		orNotProvided(input.ContactLinkedInURL),
	)

	raw, err := a.generate(ctx, "research", researchSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var research entity.CompanyResearch
	if err := json.Unmarshal(raw, &research); err != nil {
		return nil, &CallError{Op: "research", Class: ClassTransient, Err: fmt.Errorf("decode research record: %w", err)}
	}
	return &research, nil
}

// GenerateSection prompts the model for one report section.
func (a *LLMAgent) GenerateSection(ctx context.Context, req SectionRequest) (*SectionResult, error) {
	op := "synthesize:" + req.Kind

	contextJSON, err := json.Marshal(req)
	if err != nil {
		return nil, &CallError{Op: op, Class: ClassInvalid, Err: fmt.Errorf("marshal section request: %w", err)}
	}

	prompt := fmt.Sprintf("Generate the %q section of a sales prep report from this context:\n%s", req.Kind, contextJSON)
	raw, err := a.generate(ctx, op, sectionSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	confidence := struct {
		Confidence float64 `json:"confidence"`
	}{}
	if err := json.Unmarshal(raw, &confidence); err != nil {
		return nil, &CallError{Op: op, Class: ClassTransient, Err: fmt.Errorf("decode section: %w", err)}
	}
	return &SectionResult{Payload: raw, Confidence: confidence.Confidence}, nil
}

func (a *LLMAgent) generate(ctx context.Context, op, system, prompt string) (json.RawMessage, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	resp, err := a.model.GenerateContent(ctx, messages, llms.WithJSONMode())
	if err != nil {
		return nil, ClassifyErr(op, err)
	}
	if len(resp.Choices) == 0 {
		return nil, &CallError{Op: op, Class: ClassTransient, Err: fmt.Errorf("model returned no choices")}
	}

	content := strings.TrimSpace(resp.Choices[0].Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return json.RawMessage(strings.TrimSpace(content)), nil
}

func orNotProvided(value string) string {
	if strings.TrimSpace(value) == "" {
		return "not provided"
	}
	return value
}

var (
	_ Researcher  = (*LLMAgent)(nil)
	_ Synthesizer = (*LLMAgent)(nil)
)
