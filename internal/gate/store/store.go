package store

import (
	"context"
	"errors"

	"github.com/dramatize/streamgate/internal/gate/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the catalog data access interface. Concrete drivers (sqlite for
// now) implement it. Sub-repositories keep concerns tidy and testable. No
// transactional surface: every catalog operation is a single statement.
type Store interface {
	Videos() Videos
	Entitlements() Entitlements

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Videos interface {
	// GetVideoByID returns a catalog entry by id.
	GetVideoByID(ctx context.Context, id string) (domain.Video, error)

	// CreateVideo inserts a new catalog entry.
	CreateVideo(ctx context.Context, v domain.Video) error

	// SetAvailability flips the available flag and bumps updated_at.
	SetAvailability(ctx context.Context, id string, available bool) error

	// CountVideos is used by dev seeding to skip an already-seeded catalog.
	CountVideos(ctx context.Context) (int64, error)
}

type Entitlements interface {
	// HasEntitlement reports whether a grant row exists for (userID, videoID).
	HasEntitlement(ctx context.Context, userID, videoID string) (bool, error)

	// GrantEntitlement inserts a grant row. Granting twice is a no-op.
	GrantEntitlement(ctx context.Context, e domain.Entitlement) error

	// RevokeEntitlement removes the grant row if present.
	RevokeEntitlement(ctx context.Context, userID, videoID string) error
}
