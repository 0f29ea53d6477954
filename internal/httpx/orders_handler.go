package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hodastore/store-api/internal/apperr"
	"github.com/hodastore/store-api/internal/orders"
	"github.com/shopspring/decimal"
)

type createOrderReq struct {
	CustomerName  string `json:"customer_name"`
	PlayerID      string `json:"player_id"`
	Email         string `json:"email"`
	UCAmount      int64  `json:"uc_amount"`
	BundleName    string `json:"bundle_name"`
	ProductID     int64  `json:"product_id"`
	TotalAmount   string `json:"total_amount"`
	TransactionID string `json:"transaction_id"`
	ScreenshotURL string `json:"screenshot_url"`
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (a *API) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid json", apperr.ErrValidation))
		return
	}
	total, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		writeError(w, fmt.Errorf("%w: total_amount must be a decimal number", apperr.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := a.Orders.Create(ctx, orders.CreateInput{
		CustomerName:  req.CustomerName,
		PlayerID:      req.PlayerID,
		Email:         req.Email,
		UCAmount:      req.UCAmount,
		BundleName:    req.BundleName,
		ProductID:     req.ProductID,
		TotalAmount:   total,
		TransactionID: req.TransactionID,
		ScreenshotURL: req.ScreenshotURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, o)
}

func (a *API) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := a.Orders.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, out)
}

func (a *API) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeError(w, fmt.Errorf("%w: status is required", apperr.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := a.Orders.UpdateStatus(ctx, id, orders.Status(req.Status)); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "order status updated")
}

func (a *API) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := a.Orders.Delete(ctx, id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "order deleted")
}
