package model

import "time"

// Card is a front/back text pair belonging to one card set.
// The snake_case JSON keys match the column names — the SPA was written
// against responses that mirrored the database rows directly.
type Card struct {
	ID           int64     `json:"id"            db:"id"`
	CardSetID    int64     `json:"card_set_id"   db:"card_set_id"`
	FrontContent string    `json:"front_content" db:"front_content"`
	BackContent  string    `json:"back_content"  db:"back_content"`
	CreatedAt    time.Time `json:"created_at"    db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"    db:"updated_at"`
}
