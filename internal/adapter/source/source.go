package source

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/movietracker/internal/adapter"
	"github.com/mmcdole/movietracker/internal/adapter/source/tmdb"
	"github.com/mmcdole/movietracker/internal/domain"
)

// NewClient creates the remote catalog client from the TMDB section of the config.
// This factory function abstracts away the specific backend implementation.
func NewClient(cfg *adapter.TMDBConfig, logger *slog.Logger) (domain.CatalogClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("tmdb config is nil")
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("tmdb api key is required")
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("tmdb base URL is required")
	}

	return tmdb.NewClient(cfg.APIKey, tmdb.Options{
		BaseURL:      cfg.BaseURL,
		ImageBaseURL: cfg.ImageBaseURL,
		Language:     cfg.Language,
		Timeout:      cfg.Timeout,
		RPS:          cfg.RPS,
	}, logger), nil
}

// NewClientFromConfig creates the catalog client from the application config
func NewClientFromConfig(cfg *adapter.Config, logger *slog.Logger) (domain.CatalogClient, error) {
	return NewClient(&cfg.TMDB, logger)
}
