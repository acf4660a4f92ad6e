package sqlite

import (
	"context"
	"database/sql"

	"github.com/dramatize/streamgate/internal/gate/domain"
)

type videosRepo struct {
	db *sql.DB
}

func (r *videosRepo) GetVideoByID(ctx context.Context, id string) (domain.Video, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, available, premium, created_at, updated_at
		FROM videos WHERE id = ?;
	`, id)

	var v domain.Video
	err := row.Scan(&v.ID, &v.Title, &v.Available, &v.Premium, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return domain.Video{}, mapNotFound(err)
	}
	return v, nil
}

func (r *videosRepo) CreateVideo(ctx context.Context, v domain.Video) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO videos (id, title, available, premium)
		VALUES (?, ?, ?, ?);
	`, v.ID, v.Title, v.Available, v.Premium)
	return err
}

func (r *videosRepo) SetAvailability(ctx context.Context, id string, available bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE videos
		SET available = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?;
	`, available, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

func (r *videosRepo) CountVideos(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos;`).Scan(&count)
	return count, err
}
