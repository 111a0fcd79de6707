package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/summaize/summaize/internal/apperror"
	"github.com/summaize/summaize/internal/model"
	"github.com/summaize/summaize/internal/repository"
)

// compile-time check that *DB implements repository.CardSetRepository
var _ repository.CardSetRepository = (*DB)(nil)

// ListCardSets returns the user's card sets, newest first.
func (db *DB) ListCardSets(ctx context.Context, userID int64) ([]model.CardSet, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, title, preview_image_blob, created_at, updated_at
		 FROM card_sets
		 WHERE user_id = ?
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing card sets for user %d: %w", userID, err)
	}
	defer rows.Close()

	sets := []model.CardSet{}
	for rows.Next() {
		var cs model.CardSet
		if err := rows.Scan(
			&cs.ID, &cs.UserID, &cs.Title, &cs.PreviewImage,
			&cs.CreatedAt, &cs.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning card set row: %w", err)
		}
		sets = append(sets, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating card sets: %w", err)
	}

	return sets, nil
}

// GetCardSetDetail returns one owned set with its cards in a single left join —
// a set with no cards still comes back (with an empty cards slice), and the
// ownership predicate sits in the same WHERE clause as everywhere else.
func (db *DB) GetCardSetDetail(ctx context.Context, userID, setID int64) (*model.CardSetDetail, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT
			cs.id, cs.user_id, cs.title, cs.preview_image_blob, cs.created_at, cs.updated_at,
			c.id, c.front_content, c.back_content, c.created_at, c.updated_at
		 FROM card_sets cs
		 LEFT JOIN cards c ON c.card_set_id = cs.id
		 WHERE cs.id = ? AND cs.user_id = ?
		 ORDER BY c.id`,
		setID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting card set %d: %w", setID, err)
	}
	defer rows.Close()

	var detail *model.CardSetDetail
	for rows.Next() {
		// Card columns are NULL for a set without cards — scan into
		// nullable holders and only append when a card id is present.
		var (
			cs        model.CardSet
			cardID    sql.NullInt64
			front     sql.NullString
			back      sql.NullString
			createdAt sql.NullTime
			updatedAt sql.NullTime
		)
		if err := rows.Scan(
			&cs.ID, &cs.UserID, &cs.Title, &cs.PreviewImage, &cs.CreatedAt, &cs.UpdatedAt,
			&cardID, &front, &back, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning card set detail row: %w", err)
		}

		if detail == nil {
			detail = &model.CardSetDetail{CardSet: cs, Cards: []model.Card{}}
		}
		if cardID.Valid {
			detail.Cards = append(detail.Cards, model.Card{
				ID:           cardID.Int64,
				CardSetID:    cs.ID,
				FrontContent: front.String,
				BackContent:  back.String,
				CreatedAt:    createdAt.Time,
				UpdatedAt:    updatedAt.Time,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating card set detail: %w", err)
	}

	if detail == nil {
		return nil, apperror.NotFound("card_set", setID)
	}

	return detail, nil
}

// CreateCardSet inserts the set and reads the stored row back inside one
// transaction, so a failed read-back leaves no half-created set behind.
func (db *DB) CreateCardSet(ctx context.Context, set *model.CardSet) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer tx.Rollback()

	now := time.Now()
	set.CreatedAt = now
	set.UpdatedAt = now

	result, err := tx.ExecContext(ctx,
		`INSERT INTO card_sets (user_id, title, preview_image_blob, created_at, updated_at)
		 VALUES (?, ?, NULL, ?, ?)`,
		set.UserID, set.Title, set.CreatedAt, set.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting card set: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new card set id: %w", err)
	}

	// Read back the stored row — confirms the insert landed and returns
	// the values exactly as the database holds them.
	err = tx.QueryRowContext(ctx,
		`SELECT id, user_id, title, preview_image_blob, created_at, updated_at
		 FROM card_sets WHERE id = ?`,
		id,
	).Scan(&set.ID, &set.UserID, &set.Title, &set.PreviewImage, &set.CreatedAt, &set.UpdatedAt)
	if err != nil {
		return fmt.Errorf("sqlite: reading back card set %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing card set insert: %w", err)
	}

	return nil
}

// UpdateCardSetTitle renames an owned set and returns the updated row.
func (db *DB) UpdateCardSetTitle(ctx context.Context, userID, setID int64, title string) (*model.CardSet, error) {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE card_sets
		 SET title = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		title, time.Now(), setID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating card set %d: %w", setID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return nil, apperror.NotFound("card_set", setID)
	}

	var cs model.CardSet
	err = db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, title, preview_image_blob, created_at, updated_at
		 FROM card_sets WHERE id = ?`,
		setID,
	).Scan(&cs.ID, &cs.UserID, &cs.Title, &cs.PreviewImage, &cs.CreatedAt, &cs.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading back card set %d: %w", setID, err)
	}

	return &cs, nil
}

// DeleteCardSet removes an owned set. Its cards are removed by the ON DELETE
// CASCADE on cards.card_set_id — no manual two-step delete.
func (db *DB) DeleteCardSet(ctx context.Context, userID, setID int64) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM card_sets WHERE id = ? AND user_id = ?`,
		setID, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting card set %d: %w", setID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("card_set", setID)
	}

	return nil
}

// OwnsCardSet reports whether the set exists and belongs to the user.
func (db *DB) OwnsCardSet(ctx context.Context, userID, setID int64) (bool, error) {
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM card_sets WHERE id = ? AND user_id = ?`,
		setID, userID,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: checking card set ownership: %w", err)
	}
	return true, nil
}

// SavePreviewImage stores (or replaces) the thumbnail blob on an owned set.
func (db *DB) SavePreviewImage(ctx context.Context, userID, setID int64, blob []byte) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE card_sets
		 SET preview_image_blob = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		blob, time.Now(), setID, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: saving preview image for set %d: %w", setID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("card_set", setID)
	}

	return nil
}

// GetPreviewImage returns the stored thumbnail. Absent set, foreign set, and
// imageless set all come back as ErrNotFound — the caller cannot probe which.
func (db *DB) GetPreviewImage(ctx context.Context, userID, setID int64) ([]byte, error) {
	var blob []byte
	err := db.conn.QueryRowContext(ctx,
		`SELECT preview_image_blob FROM card_sets WHERE id = ? AND user_id = ?`,
		setID, userID,
	).Scan(&blob)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("card_set", setID)
		}
		return nil, fmt.Errorf("sqlite: getting preview image for set %d: %w", setID, err)
	}

	if len(blob) == 0 {
		return nil, apperror.NotFoundCode("no_preview_image", fmt.Sprintf("card set %d has no preview image", setID))
	}

	return blob, nil
}

// ClearPreviewImage removes the thumbnail from an owned set.
func (db *DB) ClearPreviewImage(ctx context.Context, userID, setID int64) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE card_sets
		 SET preview_image_blob = NULL, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		time.Now(), setID, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: clearing preview image for set %d: %w", setID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("card_set", setID)
	}

	return nil
}
