package service

import (
	"sort"
	"strings"

	"github.com/prepdesk/sales-prep/api/internal/entity"
)

// RelevanceThreshold is the minimum term-overlap score for a portfolio item
// to count as proof material.
const RelevanceThreshold = 0.3

// MaxPortfolioMatches bounds how many projects feed the strategic narrative.
const MaxPortfolioMatches = 3

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "at": {}, "by": {}, "for": {}, "from": {},
	"in": {}, "is": {}, "it": {}, "of": {}, "on": {}, "or": {}, "our": {},
	"the": {}, "their": {}, "to": {}, "we": {}, "with": {},
}

// MatchPortfolio ranks the user's past projects against the researched
// company. The query is built from the research record's industry, description
// and initiatives; each portfolio item scores by the share of query terms it
// mentions. Items below the relevance threshold are dropped.
func MatchPortfolio(research *entity.CompanyResearch, portfolio []entity.PortfolioItem) []entity.PortfolioMatch {
	if research == nil || len(portfolio) == 0 {
		return nil
	}

	query := queryTerms(research)
	if len(query) == 0 {
		return nil
	}

	var matches []entity.PortfolioMatch
	for _, item := range portfolio {
		itemTerms := termSet(item.Name + " " + item.ClientIndustry + " " + item.Description + " " + item.KeyOutcomes)
		matched := 0
		var hits []string
		for term := range query {
			if _, ok := itemTerms[term]; ok {
				matched++
				hits = append(hits, term)
			}
		}
		score := float64(matched) / float64(len(query))
		if score < RelevanceThreshold {
			continue
		}
		sort.Strings(hits)
		matches = append(matches, entity.PortfolioMatch{
			ProjectName:    item.Name,
			Relevance:      "matches " + strings.Join(hits, ", "),
			RelevanceScore: score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].RelevanceScore > matches[j].RelevanceScore
	})
	if len(matches) > MaxPortfolioMatches {
		matches = matches[:MaxPortfolioMatches]
	}
	return matches
}

func queryTerms(research *entity.CompanyResearch) map[string]struct{} {
	parts := []string{research.Industry, research.Description}
	parts = append(parts, research.StrategicInitiatives...)
	return termSet(strings.Join(parts, " "))
}

func termSet(text string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, field := range strings.Fields(strings.ToLower(text)) {
		term := strings.Trim(field, ".,;:!?()[]\"'")
		if len(term) < 3 {
			continue
		}
		if _, stop := stopwords[term]; stop {
			continue
		}
		terms[term] = struct{}{}
	}
	return terms
}
