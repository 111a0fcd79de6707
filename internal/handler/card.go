package handler

import (
	"log/slog"
	"net/http"

	"github.com/summaize/summaize/internal/apperror"
	"github.com/summaize/summaize/internal/auth"
	"github.com/summaize/summaize/internal/service"
)

// CardHandler serves the card endpoints. Unlike the card set routes, these
// carry no {userID} segment — the owner is implied by the token, and the
// repository's scoped queries hide foreign cards.
type CardHandler struct {
	cards      *service.CardService
	logger     *slog.Logger
	production bool
}

func NewCardHandler(cards *service.CardService, logger *slog.Logger, production bool) *CardHandler {
	return &CardHandler{cards: cards, logger: logger, production: production}
}

type cardRequest struct {
	FrontContent string `json:"front_content"`
	BackContent  string `json:"back_content"`
}

// caller returns the authenticated user id from the request context.
func caller(r *http.Request) (int64, error) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return 0, apperror.Unauthorized("unauthorized", "authentication required")
	}
	return userID, nil
}

// HandleCreate adds a card to one of the caller's sets.
//
// POST /api/card-sets/{setID}/cards {"front_content": ..., "back_content": ...}
func (h *CardHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}
	setID, err := pathID(r, "setID")
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	card, err := h.cards.Create(r.Context(), userID, setID, req.FrontContent, req.BackContent)
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	writeJSON(w, http.StatusCreated, card)
}

// HandleUpdate rewrites both sides of a card.
//
// PUT /api/cards/{cardID} {"front_content": ..., "back_content": ...}
func (h *CardHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}
	cardID, err := pathID(r, "cardID")
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	card, err := h.cards.Update(r.Context(), userID, cardID, req.FrontContent, req.BackContent)
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// HandleDelete removes a card.
//
// DELETE /api/cards/{cardID}
func (h *CardHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}
	cardID, err := pathID(r, "cardID")
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	if err := h.cards.Delete(r.Context(), userID, cardID); err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
