package notifications

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veltmart/backend/internal/apperr"
)

var ErrNotFound = apperr.New(apperr.KindNotFound, "notification not found")

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Insert(ctx context.Context, n Notification) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO notifications(id, user_id, message, type, read, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		n.ID, n.UserID, n.Message, n.Type, n.Read, n.CreatedAt)
	return err
}

func (r *Repo) ListForUser(ctx context.Context, userID string) ([]Notification, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, message, type, read, created_at FROM notifications
		WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repo) MarkRead(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `UPDATE notifications SET read=TRUE WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.DB.Exec(ctx, `UPDATE notifications SET read=TRUE WHERE user_id=$1 AND read=FALSE`, userID)
	return err
}
