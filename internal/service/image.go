package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/disintegration/imaging"

	"github.com/summaize/summaize/internal/apperror"
	"github.com/summaize/summaize/internal/repository"
)

// Thumbnail pipeline constants. Uploads are normalised to a bounded JPEG so
// the blob column stays small and list responses stay cheap to render.
const (
	previewMaxWidth  = 800
	previewMaxHeight = 600
	previewQuality   = 80
)

// PreviewImageService handles card set thumbnail uploads.
//
// Whatever format the client uploads (imaging registers JPEG, PNG, GIF, TIFF
// and BMP decoders), the stored blob is always a JPEG that fits within
// 800×600. Images already smaller than the box are stored re-encoded but not
// enlarged.
type PreviewImageService struct {
	sets   repository.CardSetRepository
	logger *slog.Logger
}

func NewPreviewImageService(sets repository.CardSetRepository, logger *slog.Logger) *PreviewImageService {
	return &PreviewImageService{sets: sets, logger: logger}
}

// Save processes an uploaded image and stores it on an owned set, returning
// the stored blob rendered as a data URL.
func (s *PreviewImageService) Save(ctx context.Context, userID, setID int64, upload []byte) (string, error) {
	if len(upload) == 0 {
		return "", apperror.MissingField("image")
	}

	src, err := imaging.Decode(bytes.NewReader(upload), imaging.AutoOrientation(true))
	if err != nil {
		return "", apperror.ValidationFailed("image", "file is not a supported image format")
	}

	// Fit preserves aspect ratio and never scales up.
	resized := imaging.Fit(src, previewMaxWidth, previewMaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(previewQuality)); err != nil {
		return "", fmt.Errorf("service/image: encoding thumbnail for set %d: %w", setID, err)
	}
	blob := buf.Bytes()

	if err := s.sets.SavePreviewImage(ctx, userID, setID, blob); err != nil {
		return "", err
	}

	s.logger.Info("preview image stored",
		slog.Int64("set_id", setID),
		slog.Int("bytes", len(blob)),
	)

	return dataURL(blob), nil
}

// Get returns the stored thumbnail as a data URL. Missing set, foreign set,
// and imageless set all surface as not found.
func (s *PreviewImageService) Get(ctx context.Context, userID, setID int64) (string, error) {
	blob, err := s.sets.GetPreviewImage(ctx, userID, setID)
	if err != nil {
		return "", err
	}
	return dataURL(blob), nil
}

// Clear removes the thumbnail from an owned set.
func (s *PreviewImageService) Clear(ctx context.Context, userID, setID int64) error {
	if err := s.sets.ClearPreviewImage(ctx, userID, setID); err != nil {
		return err
	}

	s.logger.Info("preview image cleared", slog.Int64("set_id", setID))
	return nil
}

func dataURL(blob []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(blob)
}
