package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate applies the schema idempotently at startup. Every service runs it;
// CREATE TABLE IF NOT EXISTS makes concurrent startup safe.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id               TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL,
			number           TEXT NOT NULL,
			status           TEXT NOT NULL,
			total            DOUBLE PRECISION NOT NULL,
			customer_name    TEXT NOT NULL DEFAULT '',
			customer_email   TEXT NOT NULL DEFAULT '',
			shipping_address TEXT NOT NULL DEFAULT '',
			shipping_phone   TEXT NOT NULL DEFAULT '',
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS orders_user_idx ON orders (user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS order_lines (
			order_id     TEXT NOT NULL REFERENCES orders(id),
			position     INT  NOT NULL,
			product_id   TEXT NOT NULL,
			product_name TEXT NOT NULL,
			price        DOUBLE PRECISION NOT NULL,
			quantity     INT  NOT NULL,
			size         TEXT NOT NULL DEFAULT '',
			color        TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (order_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS stock_records (
			product_id  TEXT PRIMARY KEY,
			quantity    INT NOT NULL CHECK (quantity >= 0),
			sales_count INT NOT NULL DEFAULT 0
		)`,
		// hash is the natural key; the unique index here is the system's one
		// real dedup guarantee for payment redemption.
		`CREATE TABLE IF NOT EXISTS consumed_transactions (
			hash        TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			amount      TEXT NOT NULL,
			consumed_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS consumed_user_idx ON consumed_transactions (user_id, consumed_at DESC)`,
		`CREATE TABLE IF NOT EXISTS transaction_history (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			hash       TEXT NOT NULL,
			kind       TEXT NOT NULL,
			amount     TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS history_user_idx ON transaction_history (user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			message    TEXT NOT NULL,
			type       TEXT NOT NULL,
			read       BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS notifications_user_idx ON notifications (user_id, created_at DESC)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
