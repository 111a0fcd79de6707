// Package repository declares the persistence interfaces the service layer
// programs against. The only implementation today is internal/repository/sqlite;
// the interfaces exist so services can be tested with in-memory fakes and so
// a different store could be swapped in at the composition root.
//
// OWNERSHIP SCOPING:
// Every method touching a card set or card takes the owning user's id and
// applies it inside the query (WHERE ... user_id = ?). Handlers and services
// never re-implement the ownership predicate, so it cannot drift between
// endpoints — a caller either owns a resource or observes it as absent.
package repository

import (
	"context"

	"github.com/summaize/summaize/internal/model"
)

type UserRepository interface {
	// CreateUser inserts a new user. Returns apperror.ErrConflict when the
	// username or email is already taken (unique constraints back this up
	// even under concurrent registration).
	CreateUser(ctx context.Context, user *model.User) error
	// GetUserByLogin looks a user up by username OR email — the login form
	// accepts either in the same field.
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	// UserExists reports whether the username or email is taken.
	UserExists(ctx context.Context, username, email string) (bool, error)
}

type CardSetRepository interface {
	// ListCardSets returns the user's sets, newest first.
	ListCardSets(ctx context.Context, userID int64) ([]model.CardSet, error)
	// GetCardSetDetail returns one owned set together with its cards.
	GetCardSetDetail(ctx context.Context, userID, setID int64) (*model.CardSetDetail, error)
	// CreateCardSet inserts the set and reads the stored row back, in one
	// transaction; fills ID and timestamps on the passed struct.
	CreateCardSet(ctx context.Context, set *model.CardSet) error
	// UpdateCardSetTitle renames an owned set and returns the updated row.
	UpdateCardSetTitle(ctx context.Context, userID, setID int64, title string) (*model.CardSet, error)
	// DeleteCardSet removes an owned set; its cards go with it (schema cascade).
	DeleteCardSet(ctx context.Context, userID, setID int64) error

	// OwnsCardSet reports whether the set exists and belongs to the user.
	OwnsCardSet(ctx context.Context, userID, setID int64) (bool, error)
	SavePreviewImage(ctx context.Context, userID, setID int64, blob []byte) error
	// GetPreviewImage returns the stored blob; ErrNotFound when the set is
	// absent, not owned, or has no image.
	GetPreviewImage(ctx context.Context, userID, setID int64) ([]byte, error)
	ClearPreviewImage(ctx context.Context, userID, setID int64) error
}

type CardRepository interface {
	// CreateCard inserts a card into a set the service has already
	// confirmed the caller owns; fills ID and timestamps.
	CreateCard(ctx context.Context, card *model.Card) error
	// UpdateCard rewrites front/back content of a card inside one of the
	// user's sets; ErrNotFound when no row matches.
	UpdateCard(ctx context.Context, userID int64, card *model.Card) error
	// DeleteCard removes a card inside one of the user's sets.
	DeleteCard(ctx context.Context, userID, cardID int64) error
}
