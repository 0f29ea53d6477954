package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hodastore/store-api/internal/apperr"
)

// Every response uses the {success, data?/message?/error?} envelope.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, envelope{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, envelope{Success: true, Message: msg})
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthenticated):
		code = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, apperr.ErrNotification):
		code = http.StatusBadGateway
	}
	if code == http.StatusInternalServerError {
		slog.Error("request failed", "err", err)
		writeJSON(w, code, envelope{Error: "internal error"})
		return
	}
	writeJSON(w, code, envelope{Error: err.Error()})
}
