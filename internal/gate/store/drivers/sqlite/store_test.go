package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dramatize/streamgate/internal/gate/domain"
	"github.com/dramatize/streamgate/internal/gate/store"
	"github.com/dramatize/streamgate/internal/gate/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

// newStore opens a fresh file-backed database with migrations applied.
// A file, not :memory:, because database/sql pools connections and each
// in-memory connection would see its own empty database.
func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestVideosRoundTrip(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Videos().CreateVideo(ctx, domain.Video{
		ID:        "ep1",
		Title:     "First Episode",
		Available: true,
	}))

	v, err := s.Videos().GetVideoByID(ctx, "ep1")
	require.NoError(t, err)
	require.Equal(t, "First Episode", v.Title)
	require.True(t, v.Available)
	require.False(t, v.Premium)
	require.False(t, v.CreatedAt.IsZero())

	count, err := s.Videos().CountVideos(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestVideosNotFound(t *testing.T) {
	t.Parallel()

	s := newStore(t)

	_, err := s.Videos().GetVideoByID(context.Background(), "nope")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestVideosSetAvailability(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Videos().CreateVideo(ctx, domain.Video{ID: "ep1", Title: "E1", Available: true}))
	require.NoError(t, s.Videos().SetAvailability(ctx, "ep1", false))

	v, err := s.Videos().GetVideoByID(ctx, "ep1")
	require.NoError(t, err)
	require.False(t, v.Available)

	require.ErrorIs(t, s.Videos().SetAvailability(ctx, "missing", true), store.ErrNotFound)
}

func TestEntitlements(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Videos().CreateVideo(ctx, domain.Video{ID: "ep1", Title: "E1", Available: true, Premium: true}))

	has, err := s.Entitlements().HasEntitlement(ctx, "42", "ep1")
	require.NoError(t, err)
	require.False(t, has)

	grant := domain.Entitlement{UserID: "42", VideoID: "ep1"}
	require.NoError(t, s.Entitlements().GrantEntitlement(ctx, grant))
	// Granting twice is a no-op, not an error.
	require.NoError(t, s.Entitlements().GrantEntitlement(ctx, grant))

	has, err = s.Entitlements().HasEntitlement(ctx, "42", "ep1")
	require.NoError(t, err)
	require.True(t, has)

	require.NoError(t, s.Entitlements().RevokeEntitlement(ctx, "42", "ep1"))

	has, err = s.Entitlements().HasEntitlement(ctx, "42", "ep1")
	require.NoError(t, err)
	require.False(t, has)
}
