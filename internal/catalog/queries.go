package catalog

import (
	"context"
	"strings"

	"github.com/mmcdole/movietracker/internal/domain"
)

// Queries provides cache-only reads. Nothing here touches the network.
type Queries struct {
	store domain.CacheStore
}

// NewQueries creates a new Queries instance.
func NewQueries(store domain.CacheStore) *Queries {
	return &Queries{store: store}
}

// CachedTrending returns the cached page by descending popularity.
// found is false when nothing is cached for the page.
func (q *Queries) CachedTrending(ctx context.Context, page int) ([]domain.CatalogRecord, bool, error) {
	cached, err := q.store.TrendingPage(ctx, page)
	if err != nil {
		return nil, false, err
	}
	return byPopularity(cached), len(cached) > 0, nil
}

func (q *Queries) CachedSearch(ctx context.Context, term string) ([]domain.CatalogRecord, bool, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.CatalogRecord{}, false, nil
	}
	cached, err := q.store.SearchResults(ctx, term)
	if err != nil {
		return nil, false, err
	}
	return byPopularity(cached), len(cached) > 0, nil
}
