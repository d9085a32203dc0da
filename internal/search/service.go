package search

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"competitive-analysis/internal/domain"
)

// titleSuffix strips marketing tails from page titles used as names.
var titleSuffix = regexp.MustCompile(`(?i)\s*[-|–]\s*(Home|Welcome|Official Site).*$`)

// searcher abstracts the live web search for testability.
type searcher interface {
	Search(ctx context.Context, query string) ([]Hit, error)
}

// Service finds local competitors via live search, falling back to the
// curated catalog so an analysis can always proceed.
type Service struct {
	client searcher
	limit  int
	logger *zap.Logger
}

// NewService builds a competitor finder with the given result limit.
func NewService(limit int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client: NewClient(),
		limit:  limit,
		logger: logger,
	}
}

// NewServiceWithClient injects a search client, used by tests.
func NewServiceWithClient(client searcher, limit int, logger *zap.Logger) *Service {
	s := NewService(limit, logger)
	s.client = client
	return s
}

// FindCompetitors returns seed competitor profiles for the idea and
// location. Live search failures degrade to catalog data instead of
// failing the job.
func (s *Service) FindCompetitors(ctx context.Context, businessIdea, location string) ([]domain.Competitor, error) {
	query := fmt.Sprintf("%s competitors %s", businessIdea, location)
	hits, err := s.client.Search(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("web search failed, using catalog fallback",
			zap.String("query", query),
			zap.Error(err))
		return CatalogCompetitors(businessIdea, location, s.limit), nil
	}

	competitors := competitorsFromHits(hits, businessIdea, location, s.limit)
	if len(competitors) == 0 {
		s.logger.Warn("web search returned no usable results, using catalog fallback",
			zap.String("query", query))
		return CatalogCompetitors(businessIdea, location, s.limit), nil
	}
	return competitors, nil
}

// competitorsFromHits converts search hits into ranked seed profiles,
// deduplicating by cleaned business name.
func competitorsFromHits(hits []Hit, businessIdea, location string, limit int) []domain.Competitor {
	seen := make(map[string]bool)
	var competitors []domain.Competitor

	for _, hit := range hits {
		name := cleanTitle(hit.Title)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true

		description := hit.Snippet
		if description == "" {
			description = fmt.Sprintf("%s is a %s business serving %s.", name, businessIdea, location)
		}

		competitors = append(competitors, domain.Competitor{
			BusinessName: name,
			URL:          hit.URL,
			Description:  description,
			Address:      location,
			Rank:         len(competitors) + 1,
		})
		if limit > 0 && len(competitors) >= limit {
			break
		}
	}
	return competitors
}

// cleanTitle normalizes a result title into a plausible business name.
func cleanTitle(title string) string {
	name := titleSuffix.ReplaceAllString(strings.TrimSpace(title), "")
	if len(name) > 100 {
		return ""
	}
	return name
}
