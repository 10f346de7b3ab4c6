// Package store defines the document-store contract the scheduler depends
// on, with interchangeable Mongo and JSON-file backends selected by
// configuration at startup.
package store

import (
	"context"
	"errors"

	"github.com/eebmagic/lagnuage-immersion-app/models"
)

var (
	// ErrNotFound reports that no document matched the given id or filter.
	ErrNotFound = errors.New("store: document not found")
	// ErrNotModified reports that a write matched or changed zero documents.
	ErrNotModified = errors.New("store: no documents modified")
)

// VocabStore holds vocabulary items keyed by their stable id.
type VocabStore interface {
	FindByID(ctx context.Context, id string) (*models.VocabularyItem, error)
	// FindReviewed returns every item with at least one recorded review.
	FindReviewed(ctx context.Context) ([]models.VocabularyItem, error)
	// FindByNextReview returns up to limit items ordered by soonest
	// next_review, descending word frequency on ties.
	FindByNextReview(ctx context.Context, limit int) ([]models.VocabularyItem, error)
	UpdateReviewState(ctx context.Context, id string, state models.ReviewState) error
	InsertMany(ctx context.Context, items []models.VocabularyItem) error
	// AddParents unions snippet and sample ids into an existing item.
	AddParents(ctx context.Context, id string, parents, samples []string) error
	DeleteAll(ctx context.Context) error
}

// SnippetStore holds sentence snippets keyed by content hash and by
// (source path, media index).
type SnippetStore interface {
	FindByID(ctx context.Context, id string) (*models.Snippet, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Snippet, error)
	FindBySourcePosition(ctx context.Context, sourcePath string, mediaIndex int) (*models.Snippet, error)
	InsertMany(ctx context.Context, snippets []models.Snippet) error
	DeleteAll(ctx context.Context) error
}

// UserStore holds user profiles, addressable by id or unique username.
// RawByID and ReplaceByID exist for the partial-update path, which merges
// into the stored document rather than a typed struct.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.UserProfile, error)
	FindByUsername(ctx context.Context, username string) (*models.UserProfile, error)
	Insert(ctx context.Context, user *models.UserProfile) error
	RawByID(ctx context.Context, id string) (map[string]any, error)
	ReplaceByID(ctx context.Context, id string, doc map[string]any) error
	DeleteAll(ctx context.Context) error
}
