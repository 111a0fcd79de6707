package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/summaize/summaize/internal/apperror"
	"github.com/summaize/summaize/internal/model"
)

// fakeStore is an in-memory stand-in for the repository interfaces. One
// struct backs all three so the cross-table ownership rules (a card belongs
// to the user owning its set) behave like the real database.
type fakeStore struct {
	users  map[int64]*model.User
	sets   map[int64]*model.CardSet
	cards  map[int64]*model.Card
	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[int64]*model.User),
		sets:  make(map[int64]*model.CardSet),
		cards: make(map[int64]*model.Card),
	}
}

func (f *fakeStore) newID() int64 {
	f.nextID++
	return f.nextID
}

// --- UserRepository ---

func (f *fakeStore) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return apperror.Conflict("user_exists", "username or email is already registered")
		}
	}
	user.ID = f.newID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeStore) GetUserByLogin(_ context.Context, login string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == login || u.Email == login {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFoundCode("login_failed_user_not_found", "no user matches "+login)
}

func (f *fakeStore) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (f *fakeStore) UserExists(_ context.Context, username, email string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// --- CardSetRepository ---

func (f *fakeStore) ListCardSets(_ context.Context, userID int64) ([]model.CardSet, error) {
	sets := []model.CardSet{}
	for _, s := range f.sets {
		if s.UserID == userID {
			sets = append(sets, *s)
		}
	}
	return sets, nil
}

func (f *fakeStore) GetCardSetDetail(_ context.Context, userID, setID int64) (*model.CardSetDetail, error) {
	s, ok := f.sets[setID]
	if !ok || s.UserID != userID {
		return nil, apperror.NotFound("card_set", setID)
	}
	detail := &model.CardSetDetail{CardSet: *s, Cards: []model.Card{}}
	for _, c := range f.cards {
		if c.CardSetID == setID {
			detail.Cards = append(detail.Cards, *c)
		}
	}
	return detail, nil
}

func (f *fakeStore) CreateCardSet(_ context.Context, set *model.CardSet) error {
	set.ID = f.newID()
	set.CreatedAt = time.Now()
	set.UpdatedAt = set.CreatedAt
	stored := *set
	f.sets[set.ID] = &stored
	return nil
}

func (f *fakeStore) UpdateCardSetTitle(_ context.Context, userID, setID int64, title string) (*model.CardSet, error) {
	s, ok := f.sets[setID]
	if !ok || s.UserID != userID {
		return nil, apperror.NotFound("card_set", setID)
	}
	s.Title = title
	s.UpdatedAt = time.Now()
	result := *s
	return &result, nil
}

func (f *fakeStore) DeleteCardSet(_ context.Context, userID, setID int64) error {
	s, ok := f.sets[setID]
	if !ok || s.UserID != userID {
		return apperror.NotFound("card_set", setID)
	}
	delete(f.sets, setID)
	for id, c := range f.cards {
		if c.CardSetID == setID {
			delete(f.cards, id)
		}
	}
	return nil
}

func (f *fakeStore) OwnsCardSet(_ context.Context, userID, setID int64) (bool, error) {
	s, ok := f.sets[setID]
	return ok && s.UserID == userID, nil
}

func (f *fakeStore) SavePreviewImage(_ context.Context, userID, setID int64, blob []byte) error {
	s, ok := f.sets[setID]
	if !ok || s.UserID != userID {
		return apperror.NotFound("card_set", setID)
	}
	s.PreviewImage = blob
	return nil
}

func (f *fakeStore) GetPreviewImage(_ context.Context, userID, setID int64) ([]byte, error) {
	s, ok := f.sets[setID]
	if !ok || s.UserID != userID {
		return nil, apperror.NotFound("card_set", setID)
	}
	if len(s.PreviewImage) == 0 {
		return nil, apperror.NotFoundCode("no_preview_image", "set has no preview image")
	}
	return s.PreviewImage, nil
}

func (f *fakeStore) ClearPreviewImage(_ context.Context, userID, setID int64) error {
	s, ok := f.sets[setID]
	if !ok || s.UserID != userID {
		return apperror.NotFound("card_set", setID)
	}
	s.PreviewImage = nil
	return nil
}

// --- CardRepository ---

func (f *fakeStore) CreateCard(_ context.Context, card *model.Card) error {
	if _, ok := f.sets[card.CardSetID]; !ok {
		return apperror.NotFound("card_set", card.CardSetID)
	}
	card.ID = f.newID()
	card.CreatedAt = time.Now()
	card.UpdatedAt = card.CreatedAt
	stored := *card
	f.cards[card.ID] = &stored
	return nil
}

func (f *fakeStore) UpdateCard(_ context.Context, userID int64, card *model.Card) error {
	stored, ok := f.cards[card.ID]
	if !ok {
		return apperror.NotFound("card", card.ID)
	}
	set, ok := f.sets[stored.CardSetID]
	if !ok || set.UserID != userID {
		return apperror.NotFound("card", card.ID)
	}
	stored.FrontContent = card.FrontContent
	stored.BackContent = card.BackContent
	stored.UpdatedAt = time.Now()
	*card = *stored
	return nil
}

func (f *fakeStore) DeleteCard(_ context.Context, userID, cardID int64) error {
	stored, ok := f.cards[cardID]
	if !ok {
		return apperror.NotFound("card", cardID)
	}
	set, ok := f.sets[stored.CardSetID]
	if !ok || set.UserID != userID {
		return apperror.NotFound("card", cardID)
	}
	delete(f.cards, cardID)
	return nil
}

// testLogger discards everything below error level.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// addSet seeds a card set directly into the store.
func addSet(t *testing.T, store *fakeStore, userID int64, title string) *model.CardSet {
	t.Helper()
	set := &model.CardSet{UserID: userID, Title: title}
	if err := store.CreateCardSet(context.Background(), set); err != nil {
		t.Fatalf("seeding card set: %v", err)
	}
	return set
}
