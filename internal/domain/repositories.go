package domain

//go:generate mockgen -source=repositories.go -destination=mocks/repositories.go -package=mocks

import (
	"context"
)

// CatalogClient provides access to the remote catalog API
type CatalogClient interface {
	// Trending returns one page of today's trending movies and series, in API order
	Trending(ctx context.Context, page int) ([]RawItem, error)

	// Search returns one page of multi-search results for term, in API order
	Search(ctx context.Context, term string, page int) ([]RawItem, error)

	// Movie returns detailed metadata for a movie
	Movie(ctx context.Context, id int64) (*Details, error)

	// TVShow returns detailed metadata for a series
	TVShow(ctx context.Context, id int64) (*Details, error)
}

// Notifier delivers liked-set change notifications.
// Implementations may fail; callers decide whether failures matter.
type Notifier interface {
	NotifyLiked(ctx context.Context, n LikeNotification) error
}
