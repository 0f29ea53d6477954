// Package orders is the core of the store: order intake, role-scoped listing
// and the admin-driven status lifecycle.
package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindUC     Kind = "uc"
	KindBundle Kind = "bundle"
)

// Order is immutable after creation except for Status.
// TotalAmount and TransactionID are client-supplied and deliberately not
// cross-checked against the catalog price; see the service doc.
type Order struct {
	ID            int64           `json:"id"`
	CustomerName  string          `json:"customer_name"`
	PlayerID      string          `json:"player_id"`
	Email         string          `json:"email"`
	Kind          Kind            `json:"kind"`
	UCAmount      int64           `json:"uc_amount,omitempty"`
	BundleName    string          `json:"bundle_name,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TransactionID string          `json:"transaction_id"`
	ScreenshotURL string          `json:"screenshot_url,omitempty"`
	Status        Status          `json:"status"`
	OwnerID       int64           `json:"owner_id,omitempty"` // zero in session deployments
	CreatedAt     time.Time       `json:"created_at"`
}

// CreateInput carries both product schemes; the configured resolver decides
// which fields matter.
type CreateInput struct {
	CustomerName  string
	PlayerID      string
	Email         string
	UCAmount      int64
	BundleName    string
	ProductID     int64
	TotalAmount   decimal.Decimal
	TransactionID string
	ScreenshotURL string
}
