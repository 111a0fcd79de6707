package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/summaize/summaize/internal/apperror"
	"github.com/summaize/summaize/internal/model"
	"github.com/summaize/summaize/internal/repository"
)

// MaxCardContentLength caps each side of a card.
const MaxCardContentLength = 10000

// CardService implements card operations. Create confirms set ownership
// explicitly (the insert itself only knows the set id); update and delete
// rely on the repository's user-scoped queries.
type CardService struct {
	cards  repository.CardRepository
	sets   repository.CardSetRepository
	logger *slog.Logger
}

func NewCardService(cards repository.CardRepository, sets repository.CardSetRepository, logger *slog.Logger) *CardService {
	return &CardService{cards: cards, sets: sets, logger: logger}
}

func validateCardContent(front, back string) error {
	// Empty sides are allowed — a card under construction may have only a
	// front. Only the size cap is enforced.
	if len(front) > MaxCardContentLength {
		return apperror.ValidationFailed("front_content",
			fmt.Sprintf("content must be %d characters or fewer", MaxCardContentLength))
	}
	if len(back) > MaxCardContentLength {
		return apperror.ValidationFailed("back_content",
			fmt.Sprintf("content must be %d characters or fewer", MaxCardContentLength))
	}
	return nil
}

// Create adds a card to one of the caller's sets. A set that is absent or
// owned by someone else reads as not found.
func (s *CardService) Create(ctx context.Context, userID, setID int64, front, back string) (*model.Card, error) {
	if err := validateCardContent(front, back); err != nil {
		return nil, err
	}

	owned, err := s.sets.OwnsCardSet(ctx, userID, setID)
	if err != nil {
		return nil, fmt.Errorf("service/card: checking set ownership: %w", err)
	}
	if !owned {
		return nil, apperror.NotFound("card_set", setID)
	}

	card := &model.Card{
		CardSetID:    setID,
		FrontContent: front,
		BackContent:  back,
	}
	if err := s.cards.CreateCard(ctx, card); err != nil {
		s.logger.Error("failed to create card",
			slog.Int64("set_id", setID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/card: creating card in set %d: %w", setID, err)
	}

	s.logger.Info("card created",
		slog.Int64("set_id", setID),
		slog.Int64("card_id", card.ID),
	)

	return card, nil
}

// Update rewrites both sides of an owned card and returns the stored row.
func (s *CardService) Update(ctx context.Context, userID, cardID int64, front, back string) (*model.Card, error) {
	if err := validateCardContent(front, back); err != nil {
		return nil, err
	}

	card := &model.Card{
		ID:           cardID,
		FrontContent: front,
		BackContent:  back,
	}
	if err := s.cards.UpdateCard(ctx, userID, card); err != nil {
		return nil, err
	}

	s.logger.Info("card updated",
		slog.Int64("user_id", userID),
		slog.Int64("card_id", cardID),
	)

	return card, nil
}

// Delete removes an owned card.
func (s *CardService) Delete(ctx context.Context, userID, cardID int64) error {
	if err := s.cards.DeleteCard(ctx, userID, cardID); err != nil {
		return err
	}

	s.logger.Info("card deleted",
		slog.Int64("user_id", userID),
		slog.Int64("card_id", cardID),
	)

	return nil
}
