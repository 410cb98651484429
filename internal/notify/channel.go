package notify

import (
	"context"
	"errors"

	"github.com/mmcdole/movietracker/internal/domain"
)

// ErrChannelFull is returned when a Channel notifier drops a notification
var ErrChannelFull = errors.New("notification channel full")

// Channel adapts domain.Notifier to a channel for an interactive front end.
type Channel struct {
	ch chan<- domain.LikeNotification
}

// NewChannel creates a new channel-based notifier.
func NewChannel(ch chan<- domain.LikeNotification) *Channel {
	return &Channel{ch: ch}
}

// NotifyLiked sends to the channel (non-blocking if full).
func (c *Channel) NotifyLiked(_ context.Context, n domain.LikeNotification) error {
	select {
	case c.ch <- n:
		return nil
	default:
		return ErrChannelFull
	}
}

// Multi delivers to every notifier and joins their errors
type Multi []domain.Notifier

func (m Multi) NotifyLiked(ctx context.Context, n domain.LikeNotification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.NotifyLiked(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
