package catalog

import (
	"context"

	"github.com/hodastore/store-api/internal/auth"
)

type Store interface {
	Create(ctx context.Context, in ProductInput) (Product, error)
	Update(ctx context.Context, id int64, in ProductInput) (Product, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (Product, error)
	List(ctx context.Context) ([]Product, error)
}

type Service struct {
	Store Store
}

func (s *Service) Create(ctx context.Context, in ProductInput) (Product, error) {
	if err := auth.RequireRole(ctx, auth.RoleAdmin); err != nil {
		return Product{}, err
	}
	if err := in.Validate(); err != nil {
		return Product{}, err
	}
	return s.Store.Create(ctx, in.normalized())
}

func (s *Service) Update(ctx context.Context, id int64, in ProductInput) (Product, error) {
	if err := auth.RequireRole(ctx, auth.RoleAdmin); err != nil {
		return Product{}, err
	}
	if err := in.Validate(); err != nil {
		return Product{}, err
	}
	return s.Store.Update(ctx, id, in.normalized())
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := auth.RequireRole(ctx, auth.RoleAdmin); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}

// Get and List serve the public storefront, no auth.

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.Store.List(ctx)
}
