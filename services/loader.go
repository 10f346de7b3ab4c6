package services

import (
	"context"
	"errors"
	"time"

	"github.com/eebmagic/lagnuage-immersion-app/models"
	"github.com/eebmagic/lagnuage-immersion-app/store"
)

// Loader bulk-loads pre-processed snippet and vocabulary documents into the
// stores. Documents arrive already tokenized and translated; no text
// processing happens here.
type Loader struct {
	vocab    store.VocabStore
	snippets store.SnippetStore
}

func NewLoader(vocab store.VocabStore, snippets store.SnippetStore) *Loader {
	return &Loader{vocab: vocab, snippets: snippets}
}

// Ingest inserts the not-yet-stored snippets and folds the vocabulary into
// the corpus.
// New vocabulary gets a zeroed review state; vocabulary already in the
// corpus has its parent and sample sets unioned instead, so re-ingesting a
// source never resets review progress. Returns (inserted, merged) counts.
func (l *Loader) Ingest(ctx context.Context, snippets []models.Snippet, vocab []models.VocabularyItem) (int, int, error) {
	newSnips, err := l.filterNewSnippets(ctx, snippets)
	if err != nil {
		return 0, 0, err
	}
	if err := l.snippets.InsertMany(ctx, newSnips); err != nil {
		return 0, 0, err
	}

	now := time.Now()
	var fresh []models.VocabularyItem
	freshIdx := map[string]int{}
	merged := 0
	for _, item := range vocab {
		if i, ok := freshIdx[item.ID]; ok {
			// Same new item twice in one payload: union in place.
			fresh[i].Parents = unionStrings(fresh[i].Parents, item.Parents)
			fresh[i].Samples = unionStrings(fresh[i].Samples, item.Samples)
			continue
		}
		_, err := l.vocab.FindByID(ctx, item.ID)
		if errors.Is(err, store.ErrNotFound) {
			item.RepData = models.NewReviewState(now)
			if item.Tags == nil {
				item.Tags = []string{}
			}
			freshIdx[item.ID] = len(fresh)
			fresh = append(fresh, item)
			continue
		}
		if err != nil {
			return 0, 0, err
		}
		if err := l.vocab.AddParents(ctx, item.ID, item.Parents, item.Samples); err != nil {
			return 0, 0, err
		}
		merged++
	}

	if err := l.vocab.InsertMany(ctx, fresh); err != nil {
		return 0, 0, err
	}
	return len(fresh), merged, nil
}

// filterNewSnippets drops snippets whose ids are already stored, plus
// in-payload duplicates. Snippet ids are content hashes, so an existing
// document is the same document and never needs rewriting.
func (l *Loader) filterNewSnippets(ctx context.Context, snippets []models.Snippet) ([]models.Snippet, error) {
	if len(snippets) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(snippets))
	for _, s := range snippets {
		ids = append(ids, s.ID)
	}
	existing, err := l.snippets.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(existing))
	for _, s := range existing {
		present[s.ID] = true
	}
	var fresh []models.Snippet
	for _, s := range snippets {
		if present[s.ID] {
			continue
		}
		present[s.ID] = true
		fresh = append(fresh, s)
	}
	return fresh, nil
}

func unionStrings(existing, extra []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, v := range existing {
		seen[v] = true
	}
	for _, v := range extra {
		if !seen[v] {
			seen[v] = true
			existing = append(existing, v)
		}
	}
	return existing
}

// Flush drops the vocabulary and snippet collections. Administrative reset;
// user profiles survive.
func (l *Loader) Flush(ctx context.Context) error {
	if err := l.vocab.DeleteAll(ctx); err != nil {
		return err
	}
	return l.snippets.DeleteAll(ctx)
}
