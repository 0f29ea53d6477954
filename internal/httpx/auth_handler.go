package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hodastore/store-api/internal/apperr"
	"github.com/hodastore/store-api/internal/auth"
)

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Token    string    `json:"token,omitempty"`
	Username string    `json:"username"`
	Role     auth.Role `json:"role"`
}

type registerReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registeredUser struct {
	ID       int64     `json:"id"`
	Username string    `json:"username"`
	Role     auth.Role `json:"role"`
}

type changePasswordReq struct {
	NewPassword string `json:"new_password"`
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, fmt.Errorf("%w: username and password are required", apperr.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ident, cred, err := a.Strategy.Login(ctx, req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	if cred.Cookie != nil {
		http.SetCookie(w, cred.Cookie)
	}
	writeData(w, http.StatusOK, loginResp{Token: cred.Token, Username: ident.Username, Role: ident.Role})
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	if err := a.Strategy.Logout(r.Context(), r); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "logged out")
}

// register creates a customer account; admins are seeded, never registered.
func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, fmt.Errorf("%w: username and password are required", apperr.ErrValidation))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := a.Users.Create(ctx, req.Username, hash, auth.RoleUser)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, registeredUser{ID: u.ID, Username: u.Username, Role: u.Role})
}

func (a *API) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewPassword == "" {
		writeError(w, fmt.Errorf("%w: new_password is required", apperr.ErrValidation))
		return
	}
	ident, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := a.Creds.Rotate(ctx, ident.Username, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "password updated")
}
