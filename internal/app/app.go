// Package app wires configuration into the catalog and liked-item services.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/movietracker/internal/adapter"
	"github.com/mmcdole/movietracker/internal/adapter/source"
	"github.com/mmcdole/movietracker/internal/catalog"
	"github.com/mmcdole/movietracker/internal/domain"
	"github.com/mmcdole/movietracker/internal/liked"
	"github.com/mmcdole/movietracker/internal/notify"
	"github.com/mmcdole/movietracker/internal/storage/postgres"
	"github.com/mmcdole/movietracker/internal/store"
)

// Store is what every storage backend provides
type Store interface {
	domain.CacheStore
	domain.LikedStore
	InvalidateAll(ctx context.Context) error
	Close() error
}

// App holds the wired services. Close releases everything New opened.
type App struct {
	Config *adapter.Config
	Logger *slog.Logger

	Store   Store
	Catalog *catalog.Repository
	Queries *catalog.Queries
	Sweeper *catalog.Sweeper
	Liked   *liked.Service
	Toggles *liked.Coordinator

	closers   []func() error
	closeOnce sync.Once
	closeErr  error
}

type options struct {
	client        domain.CatalogClient
	notifications chan<- domain.LikeNotification
}

// Option customizes New
type Option func(*options)

// WithClient replaces the TMDB client built from config
func WithClient(client domain.CatalogClient) Option {
	return func(o *options) { o.client = client }
}

// WithNotifications also delivers liked notifications to ch, dropping them when ch is full
func WithNotifications(ch chan<- domain.LikeNotification) Option {
	return func(o *options) { o.notifications = ch }
}

// New builds the application from cfg. On error everything opened so far is closed.
func New(ctx context.Context, cfg *adapter.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{Config: cfg, Logger: logger}

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Store = st
	a.closers = append(a.closers, st.Close)

	client := o.client
	if client == nil {
		client, err = source.NewClientFromConfig(cfg, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create catalog client: %w", err)
		}
	}

	notifier := a.buildNotifier(cfg, o.notifications, logger)

	a.Catalog = catalog.NewRepository(client, st, logger,
		catalog.WithTrendingTTL(cfg.Cache.TrendingTTL),
		catalog.WithSearchTTL(cfg.Cache.SearchTTL),
	)
	a.Queries = catalog.NewQueries(st)
	a.Sweeper = catalog.NewSweeper(st, cfg.Cache.Retention, cfg.Cache.SweepInterval, logger)
	a.Liked = liked.NewService(st, logger)
	a.Toggles = liked.NewCoordinator(st, notifier, logger,
		liked.WithUndoWindow(cfg.Liked.UndoWindow),
	)

	logger.Info("application ready", "backend", string(cfg.Cache.Backend))
	return a, nil
}

func openStore(ctx context.Context, cfg *adapter.Config, logger *slog.Logger) (Store, error) {
	switch cfg.Cache.Backend {
	case adapter.CacheBackendPostgres:
		st, err := postgres.Open(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, err
		}
		logger.Info("using postgres store", "host", cfg.Database.Host, "dbname", cfg.Database.DBName)
		return st, nil
	case adapter.CacheBackendMemory:
		return store.NewStore("", "")
	case adapter.CacheBackendBolt, "":
		// Separate caches per API endpoint and language
		namespace := cfg.TMDB.BaseURL + "|" + cfg.TMDB.Language
		st, err := store.NewStore(cfg.Cache.Dir, namespace)
		if err != nil {
			return nil, err
		}
		logger.Info("using bolt store", "dir", cfg.Cache.Dir)
		return st, nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", cfg.Cache.Backend)
	}
}

// buildNotifier picks the delivery channel and wraps it so toggles never
// wait on it. A broker that cannot be reached falls back to logging.
func (a *App) buildNotifier(cfg *adapter.Config, ch chan<- domain.LikeNotification, logger *slog.Logger) domain.Notifier {
	var base domain.Notifier
	switch {
	case !cfg.Notifications.Enabled:
		base = notify.Disabled{}
	case cfg.Notifications.RabbitMQ.URL != "":
		rmq, err := notify.NewRabbitMQ(cfg.Notifications.RabbitMQ, logger)
		if err != nil {
			logger.Warn("rabbitmq unavailable, logging notifications instead", "error", err)
			base = notify.NewLog(logger)
		} else {
			a.closers = append(a.closers, rmq.Close)
			base = rmq
		}
	default:
		base = notify.NewLog(logger)
	}

	if ch != nil && cfg.Notifications.Enabled {
		base = notify.Multi{base, notify.NewChannel(ch)}
	}

	be := notify.NewBestEffort(base, cfg.Notifications.Timeout, logger)
	a.closers = append(a.closers, be.Close)
	return be
}

// Close releases resources in reverse order of creation. Safe to call twice.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		var errs []error
		for i := len(a.closers) - 1; i >= 0; i-- {
			if err := a.closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
		a.closeErr = errors.Join(errs...)
	})
	return a.closeErr
}
