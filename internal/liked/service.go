package liked

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmcdole/movietracker/internal/domain"
)

// Service answers read-only questions about the liked set.
type Service struct {
	store  domain.LikedStore
	logger *slog.Logger
}

// NewService creates a new liked-items service.
func NewService(store domain.LikedStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// All returns every liked item, newest first
func (s *Service) All(ctx context.Context) ([]domain.LikedEntity, error) {
	items, err := s.store.ListLiked(ctx)
	if err != nil {
		s.logger.Error("failed to list liked items", "error", err)
		return nil, err
	}
	return items, nil
}

// ByKind returns liked movies or liked series, newest first
func (s *Service) ByKind(ctx context.Context, kind domain.MediaKind) ([]domain.LikedEntity, error) {
	items, err := s.store.ListLikedByKind(ctx, kind)
	if err != nil {
		s.logger.Error("failed to list liked items", "error", err, "kind", string(kind))
		return nil, err
	}
	return items, nil
}

func (s *Service) IsLiked(ctx context.Context, externalID int64, kind domain.MediaKind) (bool, error) {
	items, err := s.ByKind(ctx, kind)
	if err != nil {
		return false, err
	}
	for _, e := range items {
		if e.Matches(externalID, kind) {
			return true, nil
		}
	}
	return false, nil
}

// Filter returns liked items whose title or subtitle contains query,
// ignoring case. An empty query returns everything.
func (s *Service) Filter(ctx context.Context, query string) ([]domain.LikedEntity, error) {
	items, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return FilterItems(items, query), nil
}

// FilterItems is the pure form of Filter
func FilterItems(items []domain.LikedEntity, query string) []domain.LikedEntity {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}

	out := make([]domain.LikedEntity, 0, len(items))
	for _, e := range items {
		if strings.Contains(strings.ToLower(e.Title), q) || strings.Contains(strings.ToLower(e.Subtitle), q) {
			out = append(out, e)
		}
	}
	return out
}

// Suggest returns up to limit liked items ranked by fuzzy closeness to query.
// Unlike Filter it tolerates typos and out-of-order characters.
func (s *Service) Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	items, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	results := NewIndex(items).Rank(query)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	s.logger.Debug("liked suggestions", "query", query, "results", len(results))
	return results, nil
}
