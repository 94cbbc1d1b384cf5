package service

import (
	"testing"

	"github.com/prepdesk/sales-prep/api/internal/entity"
)

func TestMatchPortfolio_RanksByOverlap(t *testing.T) {
	research := &entity.CompanyResearch{
		Industry:    "logistics",
		Description: "warehouse automation provider",
	}
	portfolio := []entity.PortfolioItem{
		{Name: "WMS rollout", ClientIndustry: "logistics", Description: "warehouse automation for a regional provider"},
		{Name: "Bakery site", ClientIndustry: "food", Description: "marketing website"},
	}

	matches := MatchPortfolio(research, portfolio)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match above threshold, got %d: %+v", len(matches), matches)
	}
	if matches[0].ProjectName != "WMS rollout" {
		t.Fatalf("unexpected match: %+v", matches[0])
	}
	if matches[0].RelevanceScore < RelevanceThreshold {
		t.Fatalf("match below threshold: %f", matches[0].RelevanceScore)
	}
}

func TestMatchPortfolio_CapsResultCount(t *testing.T) {
	research := &entity.CompanyResearch{Industry: "logistics automation"}
	portfolio := make([]entity.PortfolioItem, 5)
	for i := range portfolio {
		portfolio[i] = entity.PortfolioItem{Name: "Project", Description: "logistics automation work"}
	}
	if got := MatchPortfolio(research, portfolio); len(got) != MaxPortfolioMatches {
		t.Fatalf("expected %d matches, got %d", MaxPortfolioMatches, len(got))
	}
}

func TestMatchPortfolio_EmptyInputs(t *testing.T) {
	if MatchPortfolio(nil, nil) != nil {
		t.Fatalf("expected nil for nil research")
	}
	if MatchPortfolio(&entity.CompanyResearch{}, []entity.PortfolioItem{{Name: "x"}}) != nil {
		t.Fatalf("expected nil when research yields no terms")
	}
}
