package postgres

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/mmcdole/movietracker/internal/domain"
)

const likedColumns = `id, external_id, title, subtitle, poster_url, is_film, created_at`

func (s *Store) ListLiked(ctx context.Context) ([]domain.LikedEntity, error) {
	var items []domain.LikedEntity
	query := `SELECT ` + likedColumns + ` FROM liked_items ORDER BY created_at DESC, id`
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &items, query); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListLikedByKind(ctx context.Context, kind domain.MediaKind) ([]domain.LikedEntity, error) {
	var items []domain.LikedEntity
	query := `SELECT ` + likedColumns + ` FROM liked_items WHERE is_film = $1 ORDER BY created_at DESC, id`
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &items, query, kind.IsFilm()); err != nil {
		return nil, err
	}
	return items, nil
}

// InsertLiked stores e, replacing any row with the same id so an undo can
// restore an entity verbatim.
func (s *Store) InsertLiked(ctx context.Context, e domain.LikedEntity) error {
	if e.ID == "" {
		return errors.New("liked item has no id")
	}

	query := `
		INSERT INTO liked_items (
			id, external_id, title, subtitle, poster_url, is_film, created_at
		) VALUES (
			:id, :external_id, :title, :subtitle, :poster_url, :is_film, :created_at
		)
		ON CONFLICT (id) DO UPDATE SET
			external_id = EXCLUDED.external_id,
			title = EXCLUDED.title,
			subtitle = EXCLUDED.subtitle,
			poster_url = EXCLUDED.poster_url,
			is_film = EXCLUDED.is_film,
			created_at = EXCLUDED.created_at`

	_, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, s.db), query, e)
	return err
}

func (s *Store) DeleteLiked(ctx context.Context, id string) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, "DELETE FROM liked_items WHERE id = $1", id)
	return err
}
