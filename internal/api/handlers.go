package api

import (
	"log/slog"
	"net/http"

	"github.com/jokepay/jokebot/internal/model"
	"github.com/jokepay/jokebot/internal/service"
	"github.com/jokepay/jokebot/internal/twiml"
)

type Handler struct {
	replier   *service.Replier
	confirmer *service.Confirmer
	logger    *slog.Logger
}

func NewHandler(replier *service.Replier, confirmer *service.Confirmer, logger *slog.Logger) *Handler {
	return &Handler{
		replier:   replier,
		confirmer: confirmer,
		logger:    logger.With("component", "api"),
	}
}

// Messaging handles the provider's inbound message webhook. The caller only
// understands a 200 with a reply document, so every outcome is one.
func (h *Handler) Messaging(w http.ResponseWriter, r *http.Request) {
	msg := model.InboundMessage{
		From: r.PostFormValue("From"),
		To:   r.PostFormValue("To"),
		Body: r.PostFormValue("Body"),
	}

	reply := h.replier.HandleInbound(r.Context(), msg)

	w.Header().Set("Content-Type", "text/xml")
	_, _ = w.Write([]byte(twiml.Reply(reply)))
}

// Success handles the checkout success callback. The caller here is a
// browser redirect flow, so failures surface as HTTP status codes.
func (h *Handler) Success(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "Missing session_id", http.StatusBadRequest)
		return
	}

	target, err := h.confirmer.Confirm(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("success callback failed", "session_id", sessionID, "error", err)
		http.Error(w, "Error retrieving payment information", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}
