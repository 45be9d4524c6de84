package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veltmart/backend/internal/apperr"
)

var ErrNotFound = apperr.New(apperr.KindNotFound, "order not found")

type Repo struct{ DB *pgxpool.Pool }

// Create persists the order and its lines in one transaction. The write is
// all-or-nothing: a failed create leaves no partial order behind.
func (r *Repo) Create(ctx context.Context, o *Order) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, user_id, number, status, total,
		                   customer_name, customer_email, shipping_address, shipping_phone, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, o.ID, o.UserID, o.Number, o.Status, o.Total,
		o.CustomerName, o.CustomerEmail, o.ShippingAddress, o.ShippingPhone, o.CreatedAt)
	if err != nil {
		return err
	}

	for i, it := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_lines(order_id, position, product_id, product_name, price, quantity, size, color)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			o.ID, i, it.ProductID, it.ProductName, it.Price, it.Quantity, it.Size, it.Color)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *Repo) Get(ctx context.Context, id string) (*Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, user_id, number, status, total,
		       customer_name, customer_email, shipping_address, shipping_phone, created_at
		FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.UserID, &o.Number, &o.Status, &o.Total,
			&o.CustomerName, &o.CustomerEmail, &o.ShippingAddress, &o.ShippingPhone, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.lines(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *Repo) ListForUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, number, status, total,
		       customer_name, customer_email, shipping_address, shipping_phone, created_at
		FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Number, &o.Status, &o.Total,
			&o.CustomerName, &o.CustomerEmail, &o.ShippingAddress, &o.ShippingPhone, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		items, err := r.lines(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

// UpdateStatus overwrites the status field unconditionally; any string a
// caller asserts is written.
func (r *Repo) UpdateStatus(ctx context.Context, id, status string) error {
	ct, err := r.DB.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) lines(ctx context.Context, orderID string) ([]Line, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT product_id, product_name, price, quantity, size, color
		FROM order_lines WHERE order_id=$1 ORDER BY position`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Line
	for rows.Next() {
		var it Line
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Price, &it.Quantity, &it.Size, &it.Color); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
