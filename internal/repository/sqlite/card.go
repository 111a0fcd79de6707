package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/summaize/summaize/internal/apperror"
	"github.com/summaize/summaize/internal/model"
	"github.com/summaize/summaize/internal/repository"
)

// compile-time check that *DB implements repository.CardRepository
var _ repository.CardRepository = (*DB)(nil)

// CreateCard inserts a card and fills ID and timestamps on the struct.
// Set ownership is the service's job (it holds the caller's user id); the
// foreign key still rejects inserts into sets that don't exist at all.
func (db *DB) CreateCard(ctx context.Context, card *model.Card) error {
	now := time.Now()
	card.CreatedAt = now
	card.UpdatedAt = now

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO cards (card_set_id, front_content, back_content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		card.CardSetID, card.FrontContent, card.BackContent, card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting card into set %d: %w", card.CardSetID, err)
	}

	card.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new card id: %w", err)
	}

	return nil
}

// UpdateCard rewrites a card's text. The subquery scopes the write to the
// caller's sets — a card id belonging to another user matches zero rows and
// reads as not found.
func (db *DB) UpdateCard(ctx context.Context, userID int64, card *model.Card) error {
	card.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE cards
		 SET front_content = ?, back_content = ?, updated_at = ?
		 WHERE id = ?
		   AND card_set_id IN (SELECT id FROM card_sets WHERE user_id = ?)`,
		card.FrontContent, card.BackContent, card.UpdatedAt, card.ID, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating card %d: %w", card.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("card", card.ID)
	}

	// Read the row back so the caller gets the canonical stored values.
	err = db.conn.QueryRowContext(ctx,
		`SELECT id, card_set_id, front_content, back_content, created_at, updated_at
		 FROM cards WHERE id = ?`,
		card.ID,
	).Scan(&card.ID, &card.CardSetID, &card.FrontContent, &card.BackContent,
		&card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		return fmt.Errorf("sqlite: reading back card %d: %w", card.ID, err)
	}

	return nil
}

// DeleteCard removes a card inside one of the user's sets.
func (db *DB) DeleteCard(ctx context.Context, userID, cardID int64) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM cards
		 WHERE id = ?
		   AND card_set_id IN (SELECT id FROM card_sets WHERE user_id = ?)`,
		cardID, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting card %d: %w", cardID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("card", cardID)
	}

	return nil
}
