package notify

import (
	"context"
	"log/slog"

	"github.com/mmcdole/movietracker/internal/domain"
)

// Log writes notifications to the application log. It is the delivery
// channel when no broker is configured.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

func (l *Log) NotifyLiked(_ context.Context, n domain.LikeNotification) error {
	l.logger.Info(n.Message(), "externalID", n.Item.ExternalID, "liked", n.Liked)
	return nil
}

// Disabled rejects every notification, like a device with notifications turned off
type Disabled struct{}

func (Disabled) NotifyLiked(context.Context, domain.LikeNotification) error {
	return domain.ErrNotificationsDisabled
}
