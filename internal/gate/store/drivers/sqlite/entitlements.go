package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dramatize/streamgate/internal/gate/domain"
)

type entitlementsRepo struct {
	db *sql.DB
}

func (r *entitlementsRepo) HasEntitlement(ctx context.Context, userID, videoID string) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM entitlements WHERE user_id = ? AND video_id = ?;
	`, userID, videoID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *entitlementsRepo) GrantEntitlement(ctx context.Context, e domain.Entitlement) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO entitlements (user_id, video_id)
		VALUES (?, ?)
		ON CONFLICT (user_id, video_id) DO NOTHING;
	`, e.UserID, e.VideoID)
	return err
}

func (r *entitlementsRepo) RevokeEntitlement(ctx context.Context, userID, videoID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM entitlements WHERE user_id = ? AND video_id = ?;
	`, userID, videoID)
	return err
}
