package transactions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veltmart/backend/internal/apperr"
)

var ErrAlreadyConsumed = apperr.New(apperr.KindAlreadyConsumed, "transaction already consumed")

const uniqueViolation = "23505"

type Repo struct{ DB *pgxpool.Pool }

// InsertConsumed is insert-if-absent on the hash primary key. A unique
// violation becomes ErrAlreadyConsumed; the stored row is never overwritten,
// so the first amount wins no matter what a retry carries.
func (r *Repo) InsertConsumed(ctx context.Context, t ConsumedTransaction) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO consumed_transactions(hash, user_id, amount, consumed_at)
		VALUES ($1,$2,$3,$4)`,
		t.Hash, t.UserID, t.Amount.String(), t.ConsumedAt)
	if isUniqueViolation(err) {
		return ErrAlreadyConsumed
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *Repo) IsConsumed(ctx context.Context, hash string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM consumed_transactions WHERE hash=$1)`, hash).Scan(&exists)
	return exists, err
}

func (r *Repo) ConsumedForUser(ctx context.Context, userID string, limit int) ([]ConsumedTransaction, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT hash, user_id, amount, consumed_at FROM consumed_transactions
		WHERE user_id=$1 ORDER BY consumed_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ConsumedTransaction
	for rows.Next() {
		var t ConsumedTransaction
		var amount string
		if err := rows.Scan(&t.Hash, &t.UserID, &amount, &t.ConsumedAt); err != nil {
			return nil, err
		}
		if t.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// AppendHistory has no dedup; a retried save produces a duplicate row.
func (r *Repo) AppendHistory(ctx context.Context, e HistoryEntry) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO transaction_history(id, user_id, hash, kind, amount, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		e.ID, e.UserID, e.Hash, e.Kind, e.Amount.String(), e.CreatedAt)
	return err
}

func (r *Repo) HistoryForUser(ctx context.Context, userID string, limit int) ([]HistoryEntry, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, hash, kind, amount, created_at FROM transaction_history
		WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var amount string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Hash, &e.Kind, &amount, &e.CreatedAt); err != nil {
			return nil, err
		}
		if e.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
