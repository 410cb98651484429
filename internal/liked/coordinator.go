package liked

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmcdole/movietracker/internal/domain"
)

// DefaultUndoWindow is how long a toggle stays undoable
const DefaultUndoWindow = 4 * time.Second

var (
	// ErrUndoExpired indicates the undo window closed before Undo was called
	ErrUndoExpired = errors.New("undo window has expired")

	// ErrUndoUnavailable indicates the toggle was already undone or superseded
	ErrUndoUnavailable = errors.New("nothing to undo")
)

// Coordinator adds and removes liked items with a time-boxed undo.
// Toggles and undos on one coordinator are serialized, and only the most
// recent toggle can be undone.
type Coordinator struct {
	store    domain.LikedStore
	notifier domain.Notifier
	logger   *slog.Logger

	window time.Duration
	now    func() time.Time
	newID  func() string

	mu      sync.Mutex
	pending *Toggle
}

// CoordinatorOption configures a Coordinator
type CoordinatorOption func(*Coordinator)

func WithUndoWindow(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		if d > 0 {
			c.window = d
		}
	}
}

func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) { c.now = now }
}

func WithIDGenerator(newID func() string) CoordinatorOption {
	return func(c *Coordinator) { c.newID = newID }
}

// NewCoordinator creates a toggle coordinator. notifier may be nil.
func NewCoordinator(store domain.LikedStore, notifier domain.Notifier, logger *slog.Logger, opts ...CoordinatorOption) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Coordinator{
		store:    store,
		notifier: notifier,
		logger:   logger,
		window:   DefaultUndoWindow,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Toggle is the result of one toggle: the state it applied plus the single
// undo affordance for it. It stays PendingUndo until it is undone, expires,
// or a newer toggle supersedes it.
type Toggle struct {
	c *Coordinator

	Applied domain.ToggleState
	Entity  domain.LikedEntity // Inserted entity, or the first removed one

	removed   []domain.LikedEntity
	expiresAt time.Time

	// Guarded by c.mu
	pending bool
	liked   bool
}

// Liked reports whether the item is currently liked as far as this toggle knows
func (t *Toggle) Liked() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	return t.liked
}

func (t *Toggle) ExpiresAt() time.Time { return t.expiresAt }

// CanUndo reports whether Undo would be attempted right now
func (t *Toggle) CanUndo() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	return t.pending && !t.c.now().After(t.expiresAt)
}

// Undo reverts the toggle. A removal re-inserts the removed entity with its
// original id and creation time; an addition deletes the liked copy of the
// item. A failed store call leaves the toggle undoable.
func (t *Toggle) Undo(ctx context.Context) error {
	c := t.c
	c.mu.Lock()
	defer c.mu.Unlock()

	if !t.pending {
		return ErrUndoUnavailable
	}
	if c.now().After(t.expiresAt) {
		t.pending = false
		c.clearPending(t)
		return ErrUndoExpired
	}

	switch t.Applied {
	case domain.ToggleRemoved:
		for _, e := range t.removed {
			if err := c.store.InsertLiked(ctx, e); err != nil {
				return fmt.Errorf("failed to restore liked item: %w", err)
			}
		}
	case domain.ToggleAdded:
		matches, err := c.lookup(ctx, t.Entity.ExternalID, t.Entity.Kind())
		if err != nil {
			return err
		}
		for _, e := range matches {
			if err := c.store.DeleteLiked(ctx, e.ID); err != nil {
				return fmt.Errorf("failed to remove liked item: %w", err)
			}
		}
	}

	t.pending = false
	t.liked = !t.liked
	c.clearPending(t)
	c.logger.Debug("toggle undone", "externalID", t.Entity.ExternalID, "applied", t.Applied.String())
	return nil
}

// clearPending drops t as the current undo target. Caller holds c.mu.
func (c *Coordinator) clearPending(t *Toggle) {
	if c.pending == t {
		c.pending = nil
	}
}

// restore re-inserts rows deleted by a toggle that failed partway
func (c *Coordinator) restore(ctx context.Context, deleted []domain.LikedEntity) {
	for _, e := range deleted {
		if err := c.store.InsertLiked(ctx, e); err != nil {
			c.logger.Error("failed to restore liked item", "error", err, "id", e.ID)
		}
	}
}

func (c *Coordinator) lookup(ctx context.Context, externalID int64, kind domain.MediaKind) ([]domain.LikedEntity, error) {
	items, err := c.store.ListLikedByKind(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list liked items: %w", err)
	}
	var matches []domain.LikedEntity
	for _, e := range items {
		if e.Matches(externalID, kind) {
			matches = append(matches, e)
		}
	}
	return matches, nil
}

// Toggle flips membership of item in the liked set. On a store error the
// rows already removed are put back before the error is returned;
// notification failures are only logged.
func (c *Coordinator) Toggle(ctx context.Context, item domain.CatalogRecord) (*Toggle, error) {
	c.mu.Lock()

	matches, err := c.lookup(ctx, item.ExternalID, item.Kind())
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}

	t := &Toggle{c: c}
	if len(matches) > 0 {
		for i, e := range matches {
			if err := c.store.DeleteLiked(ctx, e.ID); err != nil {
				c.restore(ctx, matches[:i])
				c.mu.Unlock()
				return nil, fmt.Errorf("failed to remove liked item: %w", err)
			}
		}
		t.Applied = domain.ToggleRemoved
		t.Entity = matches[0]
		t.removed = matches
	} else {
		e := domain.LikedEntity{
			ID:            c.newID(),
			CatalogRecord: item,
			CreatedAt:     c.now(),
		}
		if err := c.store.InsertLiked(ctx, e); err != nil {
			c.mu.Unlock()
			return nil, fmt.Errorf("failed to add liked item: %w", err)
		}
		t.Applied = domain.ToggleAdded
		t.Entity = e
		t.liked = true
	}

	at := c.now()
	t.expiresAt = at.Add(c.window)
	t.pending = true
	if c.pending != nil {
		c.pending.pending = false
	}
	c.pending = t
	c.mu.Unlock()

	c.logger.Info("liked item toggled",
		"externalID", item.ExternalID,
		"kind", string(item.Kind()),
		"applied", t.Applied.String(),
	)

	if c.notifier != nil {
		n := domain.LikeNotification{Item: t.Entity.CatalogRecord, Liked: t.Applied == domain.ToggleAdded, At: at}
		if err := c.notifier.NotifyLiked(ctx, n); err != nil {
			c.logger.Warn("liked notification failed", "error", err, "externalID", item.ExternalID)
		}
	}

	return t, nil
}
