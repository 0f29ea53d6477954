package redisx

import "time"

const (
	// Admin session: session:{session_id} -> identity JSON
	KeySession = "session:%s"

	// Rotated admin credential hash (overrides the configured seed)
	KeyAdminCredential = "credential:admin"

	// Storefront product listing cache
	KeyProductList = "catalog:products"

	// Dedup for event consumers: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLProductCache = 5 * time.Minute
	TTLDedup        = 48 * time.Hour
)
