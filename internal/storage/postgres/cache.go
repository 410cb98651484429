package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mmcdole/movietracker/internal/domain"
)

const cachedColumns = `external_id, title, subtitle, poster_url, is_film, page, search_query, popularity, cached_at`

func (s *Store) TrendingPage(ctx context.Context, page int) ([]domain.CachedRecord, error) {
	query := `SELECT ` + cachedColumns + ` FROM cached_records WHERE page = $1 ORDER BY id`
	return s.selectCached(ctx, query, page)
}

func (s *Store) SearchResults(ctx context.Context, term string) ([]domain.CachedRecord, error) {
	query := `SELECT ` + cachedColumns + ` FROM cached_records WHERE search_query = $1 ORDER BY id`
	return s.selectCached(ctx, query, term)
}

func (s *Store) selectCached(ctx context.Context, query string, arg any) ([]domain.CachedRecord, error) {
	var records []domain.CachedRecord
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &records, query, arg); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) InsertAll(ctx context.Context, records []domain.CachedRecord) error {
	if len(records) == 0 {
		return nil
	}
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO cached_records (
			external_id, title, subtitle, poster_url, is_film, page, search_query, popularity, cached_at
		) VALUES (
			:external_id, :title, :subtitle, :poster_url, :is_film, :page, :search_query, :popularity, :cached_at
		)`

	_, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, s.db), query, records)
	return err
}

func (s *Store) DeleteTrendingPage(ctx context.Context, page int) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, "DELETE FROM cached_records WHERE page = $1", page)
	return err
}

func (s *Store) DeleteSearchResults(ctx context.Context, term string) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, "DELETE FROM cached_records WHERE search_query = $1", term)
	return err
}

func (s *Store) ReplaceTrendingPage(ctx context.Context, page int, records []domain.CachedRecord) error {
	if err := checkScope(domain.TrendingKey(page), records); err != nil {
		return err
	}
	return s.tm.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.DeleteTrendingPage(ctx, page); err != nil {
			return err
		}
		return s.InsertAll(ctx, records)
	})
}

func (s *Store) ReplaceSearchResults(ctx context.Context, term string, records []domain.CachedRecord) error {
	if err := checkScope(domain.SearchKey(term), records); err != nil {
		return err
	}
	return s.tm.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.DeleteSearchResults(ctx, term); err != nil {
			return err
		}
		return s.InsertAll(ctx, records)
	})
}

func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, "DELETE FROM cached_records WHERE cached_at < $1", cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func checkScope(key domain.QueryKey, records []domain.CachedRecord) error {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
		if r.Key() != key {
			return fmt.Errorf("%w: record %d does not belong to %s", domain.ErrInvalidScope, r.ExternalID, key)
		}
	}
	return nil
}
