// Package catalog is the product side of the storefront: UC top-up options
// and fixed-price bundles. Reads are public, writes are admin-gated.
package catalog

import (
	"fmt"
	"time"

	"github.com/hodastore/store-api/internal/apperr"
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryUC     Category = "uc"
	CategoryBundle Category = "bundle"
)

type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Category  Category        `json:"category"`
	UCAmount  int64           `json:"uc_amount,omitempty"` // meaningless for bundles
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type ProductInput struct {
	Name     string          `json:"name"`
	Category Category        `json:"category"`
	UCAmount int64           `json:"uc_amount"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url"`
}

func (in ProductInput) Validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", apperr.ErrValidation)
	}
	if !in.Price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", apperr.ErrValidation)
	}
	switch in.Category {
	case CategoryUC:
		if in.UCAmount <= 0 {
			return fmt.Errorf("%w: uc_amount is required for uc products", apperr.ErrValidation)
		}
	case CategoryBundle:
		// amount is ignored for bundles
	default:
		return fmt.Errorf("%w: category must be uc or bundle", apperr.ErrValidation)
	}
	return nil
}

// normalized drops fields that do not apply to the category.
func (in ProductInput) normalized() ProductInput {
	if in.Category == CategoryBundle {
		in.UCAmount = 0
	}
	return in
}
