package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/summaize/summaize/internal/apperror"
	"github.com/summaize/summaize/internal/service"
)

// maxUploadBytes caps preview image uploads at 10 MiB. The stored thumbnail
// ends up far smaller after the resize, but the raw upload has to fit in
// memory first.
const maxUploadBytes = 10 << 20

// PreviewImageHandler serves the /api/card-sets/{setID}/preview-image
// endpoints.
type PreviewImageHandler struct {
	images     *service.PreviewImageService
	logger     *slog.Logger
	production bool
}

func NewPreviewImageHandler(images *service.PreviewImageService, logger *slog.Logger, production bool) *PreviewImageHandler {
	return &PreviewImageHandler{images: images, logger: logger, production: production}
}

type previewImageResponse struct {
	Message          string `json:"message,omitempty"`
	PreviewImageBlob string `json:"preview_image_blob,omitempty"`
	Updated          bool   `json:"updated,omitempty"`
}

// HandleUpload stores or replaces a set's preview image. POST and PUT behave
// identically (upload-or-replace), so both routes land here.
//
// POST|PUT /api/card-sets/{setID}/preview-image, multipart field "image"
func (h *PreviewImageHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
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

	// MaxBytesReader aborts the read (and the connection) once the client
	// exceeds the cap, before the whole body lands in memory.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, h.logger,
			apperror.ValidationFailed("image", "could not parse the upload (10 MiB limit)"),
			!h.production)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, h.logger, apperror.MissingField("image"), !h.production)
		return
	}
	defer file.Close()

	upload, err := io.ReadAll(file)
	if err != nil {
		writeError(w, h.logger,
			apperror.ValidationFailed("image", "could not read the uploaded file"),
			!h.production)
		return
	}

	dataURL, err := h.images.Save(r.Context(), userID, setID, upload)
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	writeJSON(w, http.StatusOK, previewImageResponse{
		Message:          "Preview image updated",
		PreviewImageBlob: dataURL,
		Updated:          true,
	})
}

// HandleGet returns the stored preview image as a data URL.
//
// GET /api/card-sets/{setID}/preview-image
func (h *PreviewImageHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
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

	dataURL, err := h.images.Get(r.Context(), userID, setID)
	if err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	writeJSON(w, http.StatusOK, previewImageResponse{PreviewImageBlob: dataURL})
}

// HandleDelete clears the preview image.
//
// DELETE /api/card-sets/{setID}/preview-image
func (h *PreviewImageHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.images.Clear(r.Context(), userID, setID); err != nil {
		writeError(w, h.logger, err, !h.production)
		return
	}

	writeJSON(w, http.StatusOK, previewImageResponse{
		Message: "Preview image removed",
		Updated: true,
	})
}
