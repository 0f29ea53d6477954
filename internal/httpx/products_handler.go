package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hodastore/store-api/internal/apperr"
	"github.com/hodastore/store-api/internal/catalog"
	"github.com/hodastore/store-api/internal/redisx"
)

// listProducts serves the public storefront; the listing is cached in redis
// and invalidated on every admin mutation.
func (a *API) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if a.Redis != nil {
		if s, err := a.Redis.Get(ctx, redisx.KeyProductList).Result(); err == nil && s != "" {
			writeData(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	ps, err := a.Catalog.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	if a.Redis != nil {
		if b, err := json.Marshal(ps); err == nil {
			_ = a.Redis.Set(ctx, redisx.KeyProductList, b, redisx.TTLProductCache).Err()
		}
	}
	writeData(w, http.StatusOK, ps)
}

func (a *API) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := a.Catalog.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

func (a *API) createProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, fmt.Errorf("%w: invalid json", apperr.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := a.Catalog.Create(ctx, in)
	if err != nil {
		writeError(w, err)
		return
	}
	a.invalidateProductCache(ctx)
	writeData(w, http.StatusCreated, p)
}

func (a *API) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, fmt.Errorf("%w: invalid json", apperr.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := a.Catalog.Update(ctx, id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	a.invalidateProductCache(ctx)
	writeData(w, http.StatusOK, p)
}

func (a *API) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := a.Catalog.Delete(ctx, id); err != nil {
		writeError(w, err)
		return
	}
	a.invalidateProductCache(ctx)
	writeMessage(w, http.StatusOK, "product deleted")
}

func (a *API) invalidateProductCache(ctx context.Context) {
	if a.Redis != nil {
		_ = a.Redis.Del(ctx, redisx.KeyProductList).Err()
	}
}
