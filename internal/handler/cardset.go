package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/summaize/summaize/internal/apperror"
	"github.com/summaize/summaize/internal/auth"
	"github.com/summaize/summaize/internal/model"
	"github.com/summaize/summaize/internal/service"
)

// CardSetHandler serves the /api/users/{userID}/card-sets endpoints.
type CardSetHandler struct {
	sets       *service.CardSetService
	logger     *slog.Logger
	production bool
}

func NewCardSetHandler(sets *service.CardSetService, logger *slog.Logger, production bool) *CardSetHandler {
	return &CardSetHandler{sets: sets, logger: logger, production: production}
}

// cardSetResponse is a card set as the API renders it: the stored blob
// becomes a data URL (or null), everything else passes through.
type cardSetResponse struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	Title            string    `json:"title"`
	PreviewImageBlob *string   `json:"preview_image_blob"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func newCardSetResponse(cs *model.CardSet) cardSetResponse {
	return cardSetResponse{
		ID:               cs.ID,
		UserID:           cs.UserID,
		Title:            cs.Title,
		PreviewImageBlob: cs.PreviewDataURL(),
		CreatedAt:        cs.CreatedAt,
		UpdatedAt:        cs.UpdatedAt,
	}
}

type cardSetDetailResponse struct {
	cardSetResponse
	Cards []model.Card `json:"cards"`
}

type titleRequest struct {
	Title string `json:"title"`
}

// pathID parses a numeric chi route parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ValidationFailed(name, "must be a positive integer")
	}
	return id, nil
}

// callerMatchingPath returns the authenticated user id after verifying it
// matches the {userID} route segment. The URL names whose data is requested;
// the token proves who is asking. A mismatch is 403 — unlike ownership of
// individual resources, the route itself declares the foreign user exists, so
// there is nothing to hide behind a 404.
func callerMatchingPath(r *http.Request) (int64, error) {
	callerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return 0, apperror.Unauthorized("unauthorized", "authentication required")
	}

	pathUserID, err := pathID(r, "userID")
	if err != nil {
		return 0, err
	}
	if pathUserID != callerID {
		return 0, apperror.Forbidden("cannot access another user's card sets")
	}

	return callerID, nil
}

// HandleList returns all of the caller's card sets.
//
// GET /api/users/{userID}/card-sets
func (h *CardSetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, err := callerMatchingPath(r)
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	sets, err := h.sets.List(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	resp := make([]cardSetResponse, 0, len(sets))
	for i := range sets {
		resp = append(resp, newCardSetResponse(&sets[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGet returns one card set with its cards.
//
// GET /api/users/{userID}/card-sets/{setID}
func (h *CardSetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, err := callerMatchingPath(r)
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}
	setID, err := pathID(r, "setID")
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	detail, err := h.sets.Get(r.Context(), userID, setID)
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	writeJSON(w, http.StatusOK, cardSetDetailResponse{
		cardSetResponse: newCardSetResponse(&detail.CardSet),
		Cards:           detail.Cards,
	})
}

// HandleCreate stores a new, empty card set.
//
// POST /api/users/{userID}/card-sets {"title": ...}
func (h *CardSetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, err := callerMatchingPath(r)
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	var req titleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	set, err := h.sets.Create(r.Context(), userID, req.Title)
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	writeJSON(w, http.StatusCreated, newCardSetResponse(set))
}

// HandleUpdate renames a card set.
//
// PUT /api/users/{userID}/card-sets/{setID} {"title": ...}
func (h *CardSetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, err := callerMatchingPath(r)
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}
	setID, err := pathID(r, "setID")
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	var req titleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	set, err := h.sets.UpdateTitle(r.Context(), userID, setID, req.Title)
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	writeJSON(w, http.StatusOK, newCardSetResponse(set))
}

// HandleDelete removes a card set and, through the schema cascade, its cards.
//
// DELETE /api/users/{userID}/card-sets/{setID}
func (h *CardSetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, err := callerMatchingPath(r)
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}
	setID, err := pathID(r, "setID")
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	if err := h.sets.Delete(r.Context(), userID, setID); err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
