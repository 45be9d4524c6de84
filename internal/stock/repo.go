package stock

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veltmart/backend/internal/apperr"
)

var ErrNotFound = apperr.New(apperr.KindNotFound, "product stock not found")

type Repo struct{ DB *pgxpool.Pool }

// Decrement applies one atomic read-modify-write on the product row. The
// row lock serializes concurrent decrements, so quantity never transiently
// goes negative and no update is lost.
func (r *Repo) Decrement(ctx context.Context, productID string, qty int) (Record, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Record{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var cur, sales int
	err = tx.QueryRow(ctx,
		`SELECT quantity, sales_count FROM stock_records WHERE product_id=$1 FOR UPDATE`,
		productID).Scan(&cur, &sales)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}

	next := NextQuantity(cur, qty)
	sales += qty

	if _, err := tx.Exec(ctx,
		`UPDATE stock_records SET quantity=$2, sales_count=$3 WHERE product_id=$1`,
		productID, next, sales); err != nil {
		return Record{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Record{}, err
	}
	return Record{ProductID: productID, Quantity: next, SalesCount: sales}, nil
}

func (r *Repo) Get(ctx context.Context, productID string) (Record, error) {
	var rec Record
	err := r.DB.QueryRow(ctx,
		`SELECT product_id, quantity, sales_count FROM stock_records WHERE product_id=$1`,
		productID).Scan(&rec.ProductID, &rec.Quantity, &rec.SalesCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Put creates or replaces the stock level for a product. Sales count is kept
// on replace.
func (r *Repo) Put(ctx context.Context, productID string, qty int) (Record, error) {
	var rec Record
	err := r.DB.QueryRow(ctx, `
		INSERT INTO stock_records(product_id, quantity, sales_count)
		VALUES ($1, $2, 0)
		ON CONFLICT (product_id) DO UPDATE SET quantity = EXCLUDED.quantity
		RETURNING product_id, quantity, sales_count`,
		productID, qty).Scan(&rec.ProductID, &rec.Quantity, &rec.SalesCount)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}
