package cache

import (
	"context"
	"errors"
	"time"

	"github.com/cruisedesk/sales-service/model"
)

// ErrSessionNotFound is returned when a sales session id is unknown or the
// session has expired.
var ErrSessionNotFound = errors.New("sales session not found")

// SessionStore persists sales sessions between operator requests. Sessions
// are transient state with a TTL, not durable records.
type SessionStore interface {
	GetSession(ctx context.Context, sessionID string) (*model.SalesSession, error)
	SaveSession(ctx context.Context, session *model.SalesSession, ttl time.Duration) error
	DeleteSession(ctx context.Context, sessionID string) error

	// Health check
	Ping(ctx context.Context) error
}

// AvailabilityCache caches per-sailing unavailable-cabin sets so repeated
// deck browsing does not hammer the booking service. Entries are dropped by
// the worker when platform booking events arrive.
type AvailabilityCache interface {
	GetUnavailableCabins(ctx context.Context, sailingID string) ([]string, bool, error)
	SetUnavailableCabins(ctx context.Context, sailingID string, cabinIDs []string, ttl time.Duration) error
	InvalidateUnavailableCabins(ctx context.Context, sailingID string) error
}
