package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/idtoken"

	"github.com/prepdesk/sales-prep/api/internal/entity"
)

// RuntimeClient talks to the hosted agent runtime that owns the actual
// tool-calling loops. It implements both Researcher and Synthesizer.
type RuntimeClient struct {
	client  *http.Client
	baseURL string
}

// NewRuntimeClient builds a runtime client, auto-configuring an ID token
// client for authenticated service-to-service deployments when needed.
func NewRuntimeClient(client *http.Client, baseURL string, timeout time.Duration) (*RuntimeClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("agent runtime base URL must not be empty")
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if client == nil {
		idc, err := idtoken.NewClient(context.Background(), baseURL)
		if err != nil {
			client = &http.Client{Timeout: timeout}
		} else {
			idc.Timeout = timeout
			client = idc
		}
	}
	return &RuntimeClient{client: client, baseURL: baseURL}, nil
}

// Research asks the runtime to gather a research record for the company.
func (c *RuntimeClient) Research(ctx context.Context, input ResearchInput) (*entity.CompanyResearch, error) {
	var research entity.CompanyResearch
	if err := c.postJSON(ctx, "research", "/research", input, &research); err != nil {
		return nil, err
	}
	return &research, nil
}

// GenerateSection asks the runtime for one report section.
func (c *RuntimeClient) GenerateSection(ctx context.Context, req SectionRequest) (*SectionResult, error) {
	var result SectionResult
	if err := c.postJSON(ctx, "synthesize:"+req.Kind, "/synthesize/section", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *RuntimeClient) postJSON(ctx context.Context, op, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &CallError{Op: op, Class: ClassInvalid, Err: fmt.Errorf("marshal payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &CallError{Op: op, Class: ClassInvalid, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &CallError{Op: op, Class: ClassNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return ClassifyStatus(op, resp.StatusCode, extractRuntimeError(resp.Body))
	}

	envelope := struct {
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil && err != io.EOF {
		return &CallError{Op: op, Class: ClassTransient, Err: fmt.Errorf("decode response: %w", err)}
	}
	if envelope.Error != "" {
		return classifyMessage(op, fmt.Errorf("runtime error: %s", envelope.Error), envelope.Error)
	}
	if len(envelope.Data) == 0 {
		return &CallError{Op: op, Class: ClassTransient, Err: fmt.Errorf("runtime returned no data")}
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &CallError{Op: op, Class: ClassTransient, Err: fmt.Errorf("decode data: %w", err)}
	}
	return nil
}

func extractRuntimeError(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return "agent runtime returned an error"
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return string(data)
}

var (
	_ Researcher  = (*RuntimeClient)(nil)
	_ Synthesizer = (*RuntimeClient)(nil)
)
