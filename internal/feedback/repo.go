package feedback

import (
	"context"
	"errors"
	"fmt"

	"github.com/hodastore/store-api/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) CreateInquiry(ctx context.Context, name, email, message string) (Inquiry, error) {
	var q Inquiry
	err := r.DB.QueryRow(ctx, `
		INSERT INTO inquiries(name, email, message, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, message, status, created_at`,
		name, email, message, string(InquiryPending),
	).Scan(&q.ID, &q.Name, &q.Email, &q.Message, &q.Status, &q.CreatedAt)
	if err != nil {
		return Inquiry{}, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return q, nil
}

func (r *Repo) GetInquiry(ctx context.Context, id int64) (Inquiry, error) {
	var q Inquiry
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, email, message, status, created_at
		FROM inquiries WHERE id=$1`, id,
	).Scan(&q.ID, &q.Name, &q.Email, &q.Message, &q.Status, &q.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Inquiry{}, fmt.Errorf("%w: inquiry %d", apperr.ErrNotFound, id)
	}
	if err != nil {
		return Inquiry{}, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return q, nil
}

func (r *Repo) ListInquiries(ctx context.Context) ([]Inquiry, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, email, message, status, created_at
		FROM inquiries ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	var out []Inquiry
	for rows.Next() {
		var q Inquiry
		if err := rows.Scan(&q.ID, &q.Name, &q.Email, &q.Message, &q.Status, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return out, nil
}

func (r *Repo) MarkReplied(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `UPDATE inquiries SET status=$2 WHERE id=$1`, id, string(InquiryReplied))
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: inquiry %d", apperr.ErrNotFound, id)
	}
	return nil
}

func (r *Repo) DeleteInquiry(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM inquiries WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: inquiry %d", apperr.ErrNotFound, id)
	}
	return nil
}

func (r *Repo) CreateSuggestion(ctx context.Context, name, contact, message string) (Suggestion, error) {
	var sg Suggestion
	err := r.DB.QueryRow(ctx, `
		INSERT INTO suggestions(name, contact, message)
		VALUES ($1, $2, $3)
		RETURNING id, name, contact, message, created_at`,
		name, contact, message,
	).Scan(&sg.ID, &sg.Name, &sg.Contact, &sg.Message, &sg.CreatedAt)
	if err != nil {
		return Suggestion{}, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return sg, nil
}

func (r *Repo) ListSuggestions(ctx context.Context) ([]Suggestion, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, contact, message, created_at
		FROM suggestions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	var out []Suggestion
	for rows.Next() {
		var sg Suggestion
		if err := rows.Scan(&sg.ID, &sg.Name, &sg.Contact, &sg.Message, &sg.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
		}
		out = append(out, sg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return out, nil
}

func (r *Repo) DeleteSuggestion(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM suggestions WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: suggestion %d", apperr.ErrNotFound, id)
	}
	return nil
}
