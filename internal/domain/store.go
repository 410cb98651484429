package domain

//go:generate mockgen -source=store.go -destination=mocks/store.go -package=mocks

import (
	"context"
	"time"
)

// CacheStore persists cached catalog records partitioned by query scope.
// Reads return rows in insertion order.
type CacheStore interface {
	// === Reads ===
	TrendingPage(ctx context.Context, page int) ([]CachedRecord, error)
	SearchResults(ctx context.Context, term string) ([]CachedRecord, error)

	// === Writes ===
	InsertAll(ctx context.Context, records []CachedRecord) error
	DeleteTrendingPage(ctx context.Context, page int) error
	DeleteSearchResults(ctx context.Context, term string) error

	// === Atomic replace (delete scope + insert in one transaction) ===
	ReplaceTrendingPage(ctx context.Context, page int, records []CachedRecord) error
	ReplaceSearchResults(ctx context.Context, term string, records []CachedRecord) error

	// === Housekeeping ===
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// LikedStore persists the user's liked items.
// Listings are ordered by creation time, newest first.
type LikedStore interface {
	ListLiked(ctx context.Context) ([]LikedEntity, error)
	ListLikedByKind(ctx context.Context, kind MediaKind) ([]LikedEntity, error)
	InsertLiked(ctx context.Context, e LikedEntity) error
	DeleteLiked(ctx context.Context, id string) error
}
