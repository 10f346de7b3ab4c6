package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/eebmagic/lagnuage-immersion-app/models"
	"github.com/eebmagic/lagnuage-immersion-app/store"
)

// ErrUsernameTaken reports a registration against an existing username.
var ErrUsernameTaken = errors.New("username already taken")

// Users owns the user-profile lifecycle: registration with default
// repetition constants and partial path-matching updates.
type Users struct {
	store store.UserStore
}

func NewUsers(userStore store.UserStore) *Users {
	return &Users{store: userStore}
}

// Create registers a new profile with the default repetition constants.
func (s *Users) Create(ctx context.Context, username string) (*models.UserProfile, error) {
	_, err := s.store.FindByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	user := &models.UserProfile{
		UserID:              uuid.NewString(),
		Username:            username,
		RepetitionConstants: models.DefaultRepetitionConstants(),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.store.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get resolves a profile by id when given, by username otherwise.
func (s *Users) Get(ctx context.Context, id, username string) (*models.UserProfile, error) {
	if id != "" {
		return s.store.FindByID(ctx, id)
	}
	return s.store.FindByUsername(ctx, username)
}

// Patch merges a client-submitted partial document into the stored profile
// under the path-matching rules of MergeMatching and persists the result.
// Returns the merged document.
func (s *Users) Patch(ctx context.Context, id string, patch map[string]any) (map[string]any, error) {
	doc, err := s.store.RawByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := MergeMatching(doc, patch)
	// The identity key is not patchable; a changed user_id would orphan the
	// document.
	merged["user_id"] = id
	merged["updated_at"] = time.Now()

	if err := s.store.ReplaceByID(ctx, id, merged); err != nil {
		return nil, err
	}
	return merged, nil
}
