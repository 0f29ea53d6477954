package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/hodastore/store-api/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const orderCols = `id, customer_name, player_id, email, kind, COALESCE(uc_amount, 0),
	COALESCE(bundle_name, ''), total_amount, transaction_id, COALESCE(screenshot_url, ''),
	status, COALESCE(owner_id, 0), created_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.CustomerName, &o.PlayerID, &o.Email, &o.Kind, &o.UCAmount,
		&o.BundleName, &o.TotalAmount, &o.TransactionID, &o.ScreenshotURL,
		&o.Status, &o.OwnerID, &o.CreatedAt)
	return o, err
}

func (r *Repo) Create(ctx context.Context, o Order) (Order, error) {
	row := r.DB.QueryRow(ctx, `
		INSERT INTO orders(customer_name, player_id, email, kind, uc_amount, bundle_name,
			total_amount, transaction_id, screenshot_url, status, owner_id)
		VALUES ($1, $2, $3, $4, NULLIF($5, 0), NULLIF($6, ''), $7, $8, NULLIF($9, ''), $10, NULLIF($11, 0))
		RETURNING `+orderCols,
		o.CustomerName, o.PlayerID, o.Email, string(o.Kind), o.UCAmount, o.BundleName,
		o.TotalAmount, o.TransactionID, o.ScreenshotURL, string(o.Status), o.OwnerID,
	)
	stored, err := scanOrder(row)
	if err != nil {
		return Order{}, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return stored, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, fmt.Errorf("%w: order %d", apperr.ErrNotFound, id)
	}
	if err != nil {
		return Order{}, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return o, nil
}

func (r *Repo) ListAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderCols+` FROM orders ORDER BY id DESC`)
}

func (r *Repo) ListByOwner(ctx context.Context, ownerID int64) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderCols+` FROM orders WHERE owner_id=$1 ORDER BY id DESC`, ownerID)
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return out, nil
}

// UpdateStatusFrom moves the status only if the row still holds the expected
// current status, so two concurrent admin updates cannot interleave.
func (r *Repo) UpdateStatusFrom(ctx context.Context, id int64, from, to Status) error {
	ct, err := r.DB.Exec(ctx, `UPDATE orders SET status=$3 WHERE id=$1 AND status=$2`,
		id, string(from), string(to))
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %d moved out of status %s", apperr.ErrValidation, id, from)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %d", apperr.ErrNotFound, id)
	}
	return nil
}
