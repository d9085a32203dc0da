package analysis

import (
	"fmt"
	"strings"

	"competitive-analysis/internal/domain"
	"competitive-analysis/internal/search"
)

const maxExtractedCompetitors = 5

// reconcileCompetitors aligns the profiled competitor list with the names
// the model actually discussed. When the analysis names competitors, those
// names lead the final list, reusing a scraped profile when one matches
// and synthesizing a minimal profile otherwise. When extraction finds
// nothing, the scraped list stands as-is.
func reconcileCompetitors(analysis string, scraped []domain.Competitor, businessIdea, location string) []domain.Competitor {
	names := ExtractCompetitorNames(analysis)
	if len(names) == 0 {
		return scraped
	}

	final := make([]domain.Competitor, 0, len(names))
	for _, name := range names {
		competitor := matchProfile(scraped, name)
		if competitor == nil {
			competitor = &domain.Competitor{
				BusinessName: name,
				URL:          search.WebsiteFor(name),
				Description:  fmt.Sprintf("%s is a well-known %s business in %s.", name, businessIdea, location),
				Services:     fmt.Sprintf("Professional %s services", businessIdea),
				ContactInfo:  "Visit website for contact details",
				Address:      location,
				PricingInfo:  "Visit website for current pricing",
			}
		}
		competitor.Rank = len(final) + 1
		final = append(final, *competitor)
	}
	return final
}

// matchProfile finds a scraped profile whose name matches loosely.
func matchProfile(scraped []domain.Competitor, name string) *domain.Competitor {
	lower := strings.ToLower(name)
	for _, c := range scraped {
		candidate := strings.ToLower(c.BusinessName)
		if candidate == lower || strings.Contains(candidate, lower) || strings.Contains(lower, candidate) {
			match := c
			return &match
		}
	}
	return nil
}

// ExtractCompetitorNames pulls competitor names from numbered or bulleted
// list lines in the analysis text. This is a presence-level heuristic; the
// text itself is never validated.
func ExtractCompetitorNames(analysis string) []string {
	seen := make(map[string]bool)
	var names []string

	for _, line := range strings.Split(analysis, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var item string
		switch {
		case line[0] >= '0' && line[0] <= '9':
			_, rest, found := strings.Cut(line, ". ")
			if !found {
				continue
			}
			item = rest
		case strings.HasPrefix(line, "•"):
			item = strings.TrimSpace(strings.TrimPrefix(line, "•"))
		default:
			continue
		}

		name := cleanName(item)
		if len(name) <= 2 || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		names = append(names, name)
		if len(names) >= maxExtractedCompetitors {
			break
		}
	}
	return names
}

// cleanName strips trailing descriptions and markdown emphasis from a
// list item, keeping just the business name.
func cleanName(item string) string {
	name := item
	if before, _, found := strings.Cut(name, " - "); found {
		name = before
	}
	if before, _, found := strings.Cut(name, " ("); found {
		name = before
	}
	if before, _, found := strings.Cut(name, ":"); found {
		name = before
	}
	name = strings.Trim(name, "*_ \t")
	return strings.TrimSpace(name)
}
