package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/prepdesk/sales-prep/api/internal/entity"
)

func TestScanProfile(t *testing.T) {
	portfolio := []entity.PortfolioItem{
		{Name: "Warehouse revamp", ClientIndustry: "Logistics", Description: "WMS rollout", KeyOutcomes: "30% faster picking"},
	}
	raw, _ := json.Marshal(portfolio)

	row := rowFunc(func(dest ...any) error {
		*dest[0].(*uuid.UUID) = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
		*dest[1].(*string) = "Prepdesk Consulting"
		*dest[2].(*string) = "We build sales tooling"
		*dest[3].(*[]string) = []string{"SaaS", "Logistics"}
		*dest[4].(*[]byte) = raw
		*dest[5].(*time.Time) = time.Now()
		*dest[6].(*time.Time) = time.Now()
		return nil
	})

	profile, err := scanProfile(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.CompanyName != "Prepdesk Consulting" || len(profile.IndustriesServed) != 2 {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if len(profile.Portfolio) != 1 || profile.Portfolio[0].Name != "Warehouse revamp" {
		t.Fatalf("portfolio not decoded: %+v", profile.Portfolio)
	}
}

func TestPGXProfilesRepository_UpsertValidation(t *testing.T) {
	repo := &PGXProfilesRepository{}
	if _, err := repo.Upsert(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil profile")
	}
}
