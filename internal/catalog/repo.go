package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/hodastore/store-api/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const productCols = `id, name, category, COALESCE(uc_amount, 0), price, COALESCE(image_url, ''), created_at, updated_at`

func (r *Repo) Create(ctx context.Context, in ProductInput) (Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products(name, category, uc_amount, price, image_url)
		VALUES ($1, $2, NULLIF($3, 0), $4, NULLIF($5, ''))
		RETURNING `+productCols,
		in.Name, string(in.Category), in.UCAmount, in.Price, in.ImageURL,
	).Scan(&p.ID, &p.Name, &p.Category, &p.UCAmount, &p.Price, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return p, nil
}

func (r *Repo) Update(ctx context.Context, id int64, in ProductInput) (Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		UPDATE products
		SET name=$2, category=$3, uc_amount=NULLIF($4, 0), price=$5, image_url=NULLIF($6, ''), updated_at=now()
		WHERE id=$1
		RETURNING `+productCols,
		id, in.Name, string(in.Category), in.UCAmount, in.Price, in.ImageURL,
	).Scan(&p.ID, &p.Name, &p.Category, &p.UCAmount, &p.Price, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, fmt.Errorf("%w: product %d", apperr.ErrNotFound, id)
	}
	if err != nil {
		return Product{}, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return p, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %d", apperr.ErrNotFound, id)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.Category, &p.UCAmount, &p.Price, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, fmt.Errorf("%w: product %d", apperr.ErrNotFound, id)
	}
	if err != nil {
		return Product{}, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return p, nil
}

func (r *Repo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+productCols+` FROM products
		ORDER BY category, uc_amount NULLS LAST, name`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.UCAmount, &p.Price, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return out, nil
}
