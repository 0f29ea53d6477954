package orders

import (
	"context"
	"fmt"

	"github.com/hodastore/store-api/internal/apperr"
	"github.com/hodastore/store-api/internal/catalog"
)

// Resolution is what an order records about the product being bought.
type Resolution struct {
	Kind       Kind
	UCAmount   int64
	BundleName string
}

// ProductResolver abstracts the two deployment schemes: inline product fields
// supplied by the client, or a reference into the catalog. Selected once at
// startup.
type ProductResolver interface {
	Resolve(ctx context.Context, in CreateInput) (Resolution, error)
}

// InlineResolver accepts exactly one of uc_amount / bundle_name.
type InlineResolver struct{}

func (InlineResolver) Resolve(ctx context.Context, in CreateInput) (Resolution, error) {
	hasUC := in.UCAmount > 0
	hasBundle := in.BundleName != ""
	switch {
	case hasUC && hasBundle:
		return Resolution{}, fmt.Errorf("%w: supply either uc_amount or bundle_name, not both", apperr.ErrValidation)
	case hasUC:
		return Resolution{Kind: KindUC, UCAmount: in.UCAmount}, nil
	case hasBundle:
		return Resolution{Kind: KindBundle, BundleName: in.BundleName}, nil
	default:
		return Resolution{}, fmt.Errorf("%w: uc_amount or bundle_name is required", apperr.ErrValidation)
	}
}

type ProductGetter interface {
	Get(ctx context.Context, id int64) (catalog.Product, error)
}

// CatalogResolver looks the product up by id; the catalog row is the source
// of truth for kind and amount, never client-supplied duplicates.
type CatalogResolver struct {
	Products ProductGetter
}

func (r *CatalogResolver) Resolve(ctx context.Context, in CreateInput) (Resolution, error) {
	if in.ProductID == 0 {
		return Resolution{}, fmt.Errorf("%w: product_id is required", apperr.ErrValidation)
	}
	p, err := r.Products.Get(ctx, in.ProductID)
	if err != nil {
		return Resolution{}, err
	}
	if p.Category == catalog.CategoryUC {
		return Resolution{Kind: KindUC, UCAmount: p.UCAmount}, nil
	}
	return Resolution{Kind: KindBundle, BundleName: p.Name}, nil
}
