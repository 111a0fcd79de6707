package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/summaize/summaize/internal/apperror"
	"github.com/summaize/summaize/internal/model"
	"github.com/summaize/summaize/internal/repository"
)

// MaxTitleLength caps card set titles. The frontend truncates display around
// this length anyway; the limit keeps pathological payloads out of the table.
const MaxTitleLength = 200

// CardSetService implements the card set operations. Every method takes the
// authenticated caller's user id; the repository applies it as the ownership
// predicate, so a foreign set is indistinguishable from a missing one.
type CardSetService struct {
	sets   repository.CardSetRepository
	logger *slog.Logger
}

func NewCardSetService(sets repository.CardSetRepository, logger *slog.Logger) *CardSetService {
	return &CardSetService{sets: sets, logger: logger}
}

// List returns all of the user's card sets, newest first.
func (s *CardSetService) List(ctx context.Context, userID int64) ([]model.CardSet, error) {
	sets, err := s.sets.ListCardSets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/cardset: listing sets for user %d: %w", userID, err)
	}
	return sets, nil
}

// Get returns one owned set together with its cards.
func (s *CardSetService) Get(ctx context.Context, userID, setID int64) (*model.CardSetDetail, error) {
	detail, err := s.sets.GetCardSetDetail(ctx, userID, setID)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Create validates the title and stores a new, empty card set.
func (s *CardSetService) Create(ctx context.Context, userID int64, title string) (*model.CardSet, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.MissingField("title")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or fewer", MaxTitleLength))
	}

	set := &model.CardSet{UserID: userID, Title: title}
	if err := s.sets.CreateCardSet(ctx, set); err != nil {
		s.logger.Error("failed to create card set",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/cardset: creating set: %w", err)
	}

	s.logger.Info("card set created",
		slog.Int64("user_id", userID),
		slog.Int64("set_id", set.ID),
	)

	return set, nil
}

// UpdateTitle renames an owned set and returns the updated row.
func (s *CardSetService) UpdateTitle(ctx context.Context, userID, setID int64, title string) (*model.CardSet, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.MissingField("title")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or fewer", MaxTitleLength))
	}

	set, err := s.sets.UpdateCardSetTitle(ctx, userID, setID, title)
	if err != nil {
		return nil, err
	}

	s.logger.Info("card set renamed",
		slog.Int64("user_id", userID),
		slog.Int64("set_id", setID),
	)

	return set, nil
}

// Delete removes an owned set; its cards go with it.
func (s *CardSetService) Delete(ctx context.Context, userID, setID int64) error {
	if err := s.sets.DeleteCardSet(ctx, userID, setID); err != nil {
		return err
	}

	s.logger.Info("card set deleted",
		slog.Int64("user_id", userID),
		slog.Int64("set_id", setID),
	)

	return nil
}
