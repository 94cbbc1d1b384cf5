package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/prepdesk/sales-prep/api/internal/entity"
)

type rowFunc func(dest ...any) error

func (f rowFunc) Scan(dest ...any) error { return f(dest...) }

func samplePrepRow() rowFunc {
	report := entity.PrepReport{
		ExecutiveSummary:  entity.ExecutiveSummary{TheClient: "Acme ships widgets", Confidence: 0.8},
		OverallConfidence: 0.74,
	}
	raw, _ := json.Marshal(report)
	id := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	userID := uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	created := time.Now()
	meetingDate := created.Add(48 * time.Hour)
	contact := "Jane Doe"

	return func(dest ...any) error {
		*dest[0].(*uuid.UUID) = id
		*dest[1].(*uuid.UUID) = userID
		*dest[2].(*string) = "Acme Corp"
		*dest[3].(*string) = "acme-corp"
		*dest[4].(*string) = "Discuss Q4 rollout"
		*dest[5].(**time.Time) = &meetingDate
		*dest[6].(**string) = &contact
		*dest[7].(**string) = nil
		*dest[8].(*[]byte) = raw
		*dest[9].(*float64) = 0.74
		*dest[10].(*bool) = true
		*dest[11].(*time.Time) = created
		return nil
	}
}

func TestScanPrep(t *testing.T) {
	prep, err := scanPrep(samplePrepRow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prep.CompanyName != "Acme Corp" || prep.NormalizedName != "acme-corp" {
		t.Fatalf("unexpected prep: %+v", prep)
	}
	if !prep.CacheHit || prep.OverallConfidence != 0.74 {
		t.Fatalf("expected cache hit with confidence, got %+v", prep)
	}
	if prep.Report.ExecutiveSummary.TheClient != "Acme ships widgets" {
		t.Fatalf("report not decoded: %+v", prep.Report)
	}
	if prep.ContactPersonName == nil || *prep.ContactPersonName != "Jane Doe" {
		t.Fatalf("expected contact person, got %+v", prep.ContactPersonName)
	}
	if prep.ContactLinkedInURL != nil {
		t.Fatalf("expected nil linkedin url")
	}
}

func TestScanPrep_BadReportJSON(t *testing.T) {
	row := rowFunc(func(dest ...any) error {
		*dest[8].(*[]byte) = []byte("{not json")
		return nil
	})
	if _, err := scanPrep(row); err == nil {
		t.Fatalf("expected decode error for malformed report")
	}
}

type stubSummaryRows struct {
	remaining int
}

func (s *stubSummaryRows) Close()                                       {}
func (s *stubSummaryRows) Err() error                                   { return nil }
func (s *stubSummaryRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (s *stubSummaryRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (s *stubSummaryRows) Next() bool {
	if s.remaining == 0 {
		return false
	}
	s.remaining--
	return true
}

func (s *stubSummaryRows) Scan(dest ...any) error {
	status := "completed"
	*dest[0].(*uuid.UUID) = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	*dest[1].(*string) = "Acme Corp"
	*dest[2].(*string) = "Discuss Q4 rollout"
	*dest[3].(**time.Time) = nil
	*dest[4].(*float64) = 0.74
	*dest[5].(*bool) = false
	*dest[6].(**string) = &status
	*dest[7].(*time.Time) = time.Now()
	return nil
}

func (s *stubSummaryRows) Values() ([]any, error) { return nil, nil }
func (s *stubSummaryRows) RawValues() [][]byte    { return nil }
func (s *stubSummaryRows) Conn() *pgx.Conn        { return nil }

func TestScanPrepSummaries(t *testing.T) {
	summaries, err := scanPrepSummaries(&stubSummaryRows{remaining: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	first := summaries[0]
	if first.ID != "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa" || first.CompanyName != "Acme Corp" {
		t.Fatalf("unexpected summary: %+v", first)
	}
	if first.OutcomeStatus == nil || *first.OutcomeStatus != "completed" {
		t.Fatalf("expected outcome status, got %+v", first.OutcomeStatus)
	}
}

func TestScanOutcome(t *testing.T) {
	accuracy := 4
	outcomeVal := entity.OutcomeSuccessful
	row := rowFunc(func(dest ...any) error {
		*dest[0].(*uuid.UUID) = uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")
		*dest[1].(*uuid.UUID) = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
		*dest[2].(*string) = entity.MeetingStatusCompleted
		*dest[3].(**string) = &outcomeVal
		*dest[4].(**int) = &accuracy
		*dest[5].(**string) = nil
		*dest[6].(**string) = nil
		*dest[7].(**string) = nil
		*dest[8].(*time.Time) = time.Now()
		*dest[9].(*time.Time) = time.Now()
		return nil
	})

	outcome, err := scanOutcome(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.MeetingStatus != entity.MeetingStatusCompleted {
		t.Fatalf("unexpected status %q", outcome.MeetingStatus)
	}
	if outcome.Outcome == nil || *outcome.Outcome != entity.OutcomeSuccessful {
		t.Fatalf("unexpected outcome: %+v", outcome.Outcome)
	}
	if outcome.PrepAccuracy == nil || *outcome.PrepAccuracy != 4 {
		t.Fatalf("unexpected accuracy: %+v", outcome.PrepAccuracy)
	}
}

func TestPGXPrepsRepository_InsertValidation(t *testing.T) {
	repo := &PGXPrepsRepository{}
	if _, err := repo.Insert(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil prep")
	}
}

func TestPGXPrepsRepository_UpsertOutcomeValidation(t *testing.T) {
	repo := &PGXPrepsRepository{}
	if _, err := repo.UpsertOutcome(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil outcome")
	}
}

func TestScanPrep_NoRows(t *testing.T) {
	row := rowFunc(func(dest ...any) error { return pgx.ErrNoRows })
	if _, err := scanPrep(row); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected ErrNoRows passthrough, got %v", err)
	}
}
