package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/movietracker/internal/domain"
)

const DefaultTimeout = 5 * time.Second

// BestEffort delivers notifications in the background. NotifyLiked never
// blocks and never fails; delivery errors are logged and dropped.
type BestEffort struct {
	next    domain.Notifier
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

var _ domain.Notifier = (*BestEffort)(nil)

func NewBestEffort(next domain.Notifier, timeout time.Duration, logger *slog.Logger) *BestEffort {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &BestEffort{next: next, timeout: timeout, logger: logger}
}

func (b *BestEffort) NotifyLiked(ctx context.Context, n domain.LikeNotification) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		b.logger.Debug("notifier closed, dropping notification", "externalID", n.Item.ExternalID)
		return nil
	}
	b.wg.Add(1)
	b.mu.Unlock()

	// Delivery outlives the request that triggered it
	deliverCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
	go func() {
		defer b.wg.Done()
		defer cancel()

		err := b.next.NotifyLiked(deliverCtx, n)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrNotificationsDisabled):
			b.logger.Debug("notifications disabled, skipping", "externalID", n.Item.ExternalID)
		default:
			b.logger.Warn("notification delivery failed", "error", err, "externalID", n.Item.ExternalID)
		}
	}()
	return nil
}

// Close stops accepting notifications and waits for in-flight deliveries
func (b *BestEffort) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	b.wg.Wait()
	return nil
}
