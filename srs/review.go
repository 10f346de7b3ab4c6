// Package srs holds the spaced-repetition core: the review-state lifecycle
// and the forgetting-curve due ranker.
package srs

import (
	"context"
	"errors"

	"github.com/eebmagic/lagnuage-immersion-app/models"
	"github.com/eebmagic/lagnuage-immersion-app/store"
)

// Disposition classifies the outcome of applying one review to one
// vocabulary item. NotFound is an expected outcome, not an error: clients
// routinely submit batches referencing items the corpus no longer contains.
type Disposition int

const (
	Updated Disposition = iota
	NotFound
	PersistenceError
)

func (d Disposition) String() string {
	switch d {
	case Updated:
		return "updated"
	case NotFound:
		return "not_found"
	default:
		return "error"
	}
}

// ReviewStateManager applies review outcomes to vocabulary items, one
// single-document read-modify-write per outcome.
type ReviewStateManager struct {
	vocab store.VocabStore
}

func NewReviewStateManager(vocab store.VocabStore) *ReviewStateManager {
	return &ReviewStateManager{vocab: vocab}
}

// ApplyReview records one review outcome against one vocabulary item.
// Retrying after PersistenceError is safe only in the at-least-once sense: a
// retry of an update that actually committed appends a second history record.
func (m *ReviewStateManager) ApplyReview(ctx context.Context, vocabID, strength string, reviewTime float64, shapes map[string]float64) Disposition {
	item, err := m.vocab.FindByID(ctx, vocabID)
	if errors.Is(err, store.ErrNotFound) {
		return NotFound
	}
	if err != nil {
		return PersistenceError
	}
	next := NextReviewState(item.RepData, strength, reviewTime, shapes)
	if err := m.vocab.UpdateReviewState(ctx, vocabID, next); err != nil {
		return PersistenceError
	}
	return Updated
}

// NextReviewState is the pure state transition for one review outcome. The
// running average is updated incrementally, never by replaying history.
func NextReviewState(old models.ReviewState, strength string, reviewTime float64, shapes map[string]float64) models.ReviewState {
	value := shapes[strength]

	next := old
	next.LastReview = &reviewTime
	next.LastStrength = strength
	next.History = append(append([]models.ReviewRecord{}, old.History...), models.ReviewRecord{
		Strength: strength,
		Time:     reviewTime,
	})
	if old.HistoryLength == 0 {
		next.AverageStrength = value
	} else {
		next.AverageStrength = (old.AverageStrength*float64(old.HistoryLength) + value) / float64(old.HistoryLength+1)
	}
	next.HistoryLength = old.HistoryLength + 1
	return next
}
