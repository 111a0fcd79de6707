package model

import (
	"encoding/base64"
	"time"
)

// CardSet is a named collection of flashcards belonging to exactly one user.
//
// PreviewImage holds the optional thumbnail as raw JPEG bytes (the upload
// pipeline re-encodes everything to JPEG — see service.PreviewImageService).
// It is excluded from direct JSON marshalling: the API contract renders it as
// a data URL string or null, which PreviewDataURL produces.
type CardSet struct {
	ID           int64     `json:"id"         db:"id"`
	UserID       int64     `json:"user_id"    db:"user_id"`
	Title        string    `json:"title"      db:"title"`
	PreviewImage []byte    `json:"-"          db:"preview_image_blob"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// PreviewDataURL renders the stored thumbnail as a browser-ready data URL
// ("data:image/jpeg;base64,..."). Returns nil when no image is stored, which
// marshals to JSON null — the shape the frontend expects.
func (cs *CardSet) PreviewDataURL() *string {
	if len(cs.PreviewImage) == 0 {
		return nil
	}
	url := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(cs.PreviewImage)
	return &url
}

// CardSetDetail is a card set together with its cards, as returned by the
// single-set fetch endpoint.
type CardSetDetail struct {
	CardSet
	Cards []Card `json:"cards"`
}
