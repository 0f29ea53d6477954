package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hodastore/store-api/internal/apperr"
)

type createInquiryReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type createSuggestionReq struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Message string `json:"message"`
}

type replyInquiryReq struct {
	Reply string `json:"reply"`
}

type sendMessageReq struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (a *API) createInquiry(w http.ResponseWriter, r *http.Request) {
	var req createInquiryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid json", apperr.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	q, err := a.Feedback.CreateInquiry(ctx, req.Name, req.Email, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, q)
}

func (a *API) createSuggestion(w http.ResponseWriter, r *http.Request) {
	var req createSuggestionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid json", apperr.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sg, err := a.Feedback.CreateSuggestion(ctx, req.Name, req.Contact, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, sg)
}

func (a *API) listInquiries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := a.Feedback.ListInquiries(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, out)
}

func (a *API) listSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := a.Feedback.ListSuggestions(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, out)
}

func (a *API) deleteInquiry(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := a.Feedback.DeleteInquiry(ctx, id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "inquiry deleted")
}

func (a *API) deleteSuggestion(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := a.Feedback.DeleteSuggestion(ctx, id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "suggestion deleted")
}

// replyInquiry runs the coupled send-then-mark flow; the timeout is wider
// than usual because the handler waits on the outbound email.
func (a *API) replyInquiry(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req replyInquiryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid json", apperr.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := a.Feedback.ReplyInquiry(ctx, id, req.Reply); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "reply sent")
}

func (a *API) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid json", apperr.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := a.Feedback.SendMessage(ctx, req.Email, req.Subject, req.Message); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "message sent")
}
