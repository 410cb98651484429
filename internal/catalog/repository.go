package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/movietracker/internal/domain"
)

const (
	DefaultTrendingTTL = time.Hour
	DefaultSearchTTL   = 15 * time.Minute
)

// Repository reconciles the remote catalog with the local cache.
// Cached data younger than the TTL is served without a network call; on
// network failure stale data is served; with no data at all the caller gets
// a *domain.OfflineNoCacheError.
type Repository struct {
	client domain.CatalogClient
	store  domain.CacheStore
	logger *slog.Logger

	now         func() time.Time
	trendingTTL time.Duration
	searchTTL   time.Duration
}

// Option configures a Repository
type Option func(*Repository)

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

func WithTrendingTTL(ttl time.Duration) Option {
	return func(r *Repository) {
		if ttl > 0 {
			r.trendingTTL = ttl
		}
	}
}

func WithSearchTTL(ttl time.Duration) Option {
	return func(r *Repository) {
		if ttl > 0 {
			r.searchTTL = ttl
		}
	}
}

// NewRepository creates a new catalog repository.
func NewRepository(client domain.CatalogClient, store domain.CacheStore, logger *slog.Logger, opts ...Option) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Repository{
		client:      client,
		store:       store,
		logger:      logger,
		now:         time.Now,
		trendingTTL: DefaultTrendingTTL,
		searchTTL:   DefaultSearchTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// scope bundles the per-partition operations reconcile needs
type scope struct {
	key     domain.QueryKey
	read    func(ctx context.Context) ([]domain.CachedRecord, error)
	fetch   func(ctx context.Context) ([]domain.RawItem, error)
	replace func(ctx context.Context, records []domain.CachedRecord) error
	build   func(rec domain.CatalogRecord, popularity float64, at time.Time) domain.CachedRecord

	// sortRemote re-sorts network results by popularity before returning them
	sortRemote bool
}

// FetchTrending returns a trending page under the configured trending TTL.
func (r *Repository) FetchTrending(ctx context.Context, page int) ([]domain.CatalogRecord, error) {
	return r.FetchTrendingTTL(ctx, page, r.trendingTTL)
}

// FetchTrendingTTL returns a trending page, treating cache younger than ttl as fresh.
// Network results come back in API order, cached results by descending popularity.
func (r *Repository) FetchTrendingTTL(ctx context.Context, page int, ttl time.Duration) ([]domain.CatalogRecord, error) {
	return r.reconcile(ctx, scope{
		key: domain.TrendingKey(page),
		read: func(ctx context.Context) ([]domain.CachedRecord, error) {
			return r.store.TrendingPage(ctx, page)
		},
		fetch: func(ctx context.Context) ([]domain.RawItem, error) {
			return r.client.Trending(ctx, page)
		},
		replace: func(ctx context.Context, records []domain.CachedRecord) error {
			return r.store.ReplaceTrendingPage(ctx, page, records)
		},
		build: func(rec domain.CatalogRecord, popularity float64, at time.Time) domain.CachedRecord {
			return domain.NewTrendingRecord(rec, page, popularity, at)
		},
	}, ttl)
}

// Search returns the first page of results for term under the configured search TTL.
func (r *Repository) Search(ctx context.Context, term string) ([]domain.CatalogRecord, error) {
	return r.SearchPage(ctx, term, 1, r.searchTTL)
}

// SearchPage returns search results ordered by descending popularity.
// The cache is scoped by term only; page selects which remote page refreshes it.
// A blank term yields no results and touches neither cache nor network.
func (r *Repository) SearchPage(ctx context.Context, term string, page int, ttl time.Duration) ([]domain.CatalogRecord, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.CatalogRecord{}, nil
	}

	return r.reconcile(ctx, scope{
		key: domain.SearchKey(term),
		read: func(ctx context.Context) ([]domain.CachedRecord, error) {
			return r.store.SearchResults(ctx, term)
		},
		fetch: func(ctx context.Context) ([]domain.RawItem, error) {
			return r.client.Search(ctx, term, page)
		},
		replace: func(ctx context.Context, records []domain.CachedRecord) error {
			return r.store.ReplaceSearchResults(ctx, term, records)
		},
		build: func(rec domain.CatalogRecord, popularity float64, at time.Time) domain.CachedRecord {
			return domain.NewSearchRecord(rec, term, popularity, at)
		},
		sortRemote: true,
	}, ttl)
}

func (r *Repository) reconcile(ctx context.Context, sc scope, ttl time.Duration) ([]domain.CatalogRecord, error) {
	// 1. Cache read; failures degrade to an empty cache
	cached, err := sc.read(ctx)
	if err != nil {
		r.logger.Warn("failed to read cache", "error", err, "key", sc.key.String())
		cached = nil
	}

	// 2. Freshness check
	if len(cached) > 0 {
		age := r.now().Sub(newest(cached))
		if age <= ttl {
			r.logger.Debug("cache fresh", "key", sc.key.String(), "count", len(cached), "age", age)
			return byPopularity(cached), nil
		}
		r.logger.Debug("cache stale, fetching", "key", sc.key.String(), "age", age)
	}

	// 3. Network
	raw, err := sc.fetch(ctx)
	if err != nil {
		if len(cached) > 0 {
			r.logger.Warn("fetch failed, serving stale cache", "error", err, "key", sc.key.String(), "count", len(cached))
			return byPopularity(cached), nil
		}
		r.logger.Error("fetch failed with no cache", "error", err, "key", sc.key.String())
		return nil, &domain.OfflineNoCacheError{Key: sc.key, Err: err}
	}

	if sc.sortRemote {
		sort.SliceStable(raw, func(i, j int) bool {
			return raw[i].Popularity > raw[j].Popularity
		})
	}

	at := r.now()
	records := make([]domain.CatalogRecord, 0, len(raw))
	rows := make([]domain.CachedRecord, 0, len(raw))
	for _, item := range raw {
		rec := item.Normalize()
		records = append(records, rec)
		rows = append(rows, sc.build(rec, item.Popularity, at))
	}

	// 4. Replace-on-write, detached from caller cancellation
	if err := sc.replace(context.WithoutCancel(ctx), rows); err != nil {
		r.logger.Error("failed to save cache", "error", err, "key", sc.key.String())
	}

	r.logger.Debug("fetched from network", "key", sc.key.String(), "count", len(records))
	return records, nil
}

// Details returns the detail view of a movie or series. Details are not
// cached, so any failure other than a missing item is reported as offline.
func (r *Repository) Details(ctx context.Context, id int64, kind domain.MediaKind) (*domain.Details, error) {
	var (
		d   *domain.Details
		err error
	)
	switch kind {
	case domain.KindFilm:
		d, err = r.client.Movie(ctx, id)
	case domain.KindSeries:
		d, err = r.client.TVShow(ctx, id)
	default:
		return nil, errors.New("unknown media kind: " + string(kind))
	}

	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return nil, err
		}
		r.logger.Error("details fetch failed", "error", err, "id", id, "kind", kind)
		return nil, &domain.OfflineNoCacheError{Key: domain.DetailsKey(id, kind), Err: err}
	}
	return d, nil
}

func newest(records []domain.CachedRecord) time.Time {
	var t time.Time
	for _, rec := range records {
		if rec.CachedAt.After(t) {
			t = rec.CachedAt
		}
	}
	return t
}

// byPopularity returns the records sorted by descending popularity.
// Ties keep insertion order.
func byPopularity(records []domain.CachedRecord) []domain.CatalogRecord {
	sorted := make([]domain.CachedRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Popularity > sorted[j].Popularity
	})

	out := make([]domain.CatalogRecord, 0, len(sorted))
	for _, rec := range sorted {
		out = append(out, rec.CatalogRecord)
	}
	return out
}
