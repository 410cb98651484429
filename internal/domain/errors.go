package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrItemNotFound indicates the requested catalog item does not exist
	ErrItemNotFound = errors.New("catalog item not found")

	// ErrServerOffline indicates the catalog API is unreachable
	ErrServerOffline = errors.New("catalog server is unreachable")

	// ErrAuthFailed indicates the API key was rejected
	ErrAuthFailed = errors.New("api key is invalid")

	// ErrOfflineNoCache indicates a fetch failed and nothing was cached for the query
	ErrOfflineNoCache = errors.New("offline and no cached data available")

	// ErrInvalidScope indicates a cached record without exactly one valid scope
	ErrInvalidScope = errors.New("invalid cache scope")

	// ErrNotificationsDisabled indicates the notification channel is turned off
	ErrNotificationsDisabled = errors.New("notifications are disabled")
)

// OfflineNoCacheError carries the query that could not be served.
// errors.Is matches ErrOfflineNoCache; Unwrap exposes the underlying fetch failure.
type OfflineNoCacheError struct {
	Key QueryKey
	Err error
}

func (e *OfflineNoCacheError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("no internet and no cached %s available", e.Key)
	}
	return fmt.Sprintf("no internet and no cached %s available: %v", e.Key, e.Err)
}

func (e *OfflineNoCacheError) Is(target error) bool { return target == ErrOfflineNoCache }

func (e *OfflineNoCacheError) Unwrap() error { return e.Err }
