package services

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/eebmagic/lagnuage-immersion-app/models"
	"github.com/eebmagic/lagnuage-immersion-app/srs"
	"github.com/eebmagic/lagnuage-immersion-app/store"
)

// ErrUnknownStrength reports a strength label absent from the user's curve
// shapes. A validation failure, never retried.
var ErrUnknownStrength = errors.New("unknown strength label")

// Retrieval binds the ranking core and the review-state manager to the
// stores. One instance is built at startup and shared by all requests; it
// holds no mutable state of its own.
type Retrieval struct {
	vocab    store.VocabStore
	snippets store.SnippetStore
	users    store.UserStore
	reviews  *srs.ReviewStateManager
}

func NewRetrieval(vocab store.VocabStore, snippets store.SnippetStore, users store.UserStore) *Retrieval {
	return &Retrieval{
		vocab:    vocab,
		snippets: snippets,
		users:    users,
		reviews:  srs.NewReviewStateManager(vocab),
	}
}

// DueWords is the response of the due-ranking read path: the top vocabulary
// with scores, and one representative snippet per item where available.
type DueWords struct {
	Vocab    []srs.RankedItem
	Snippets []models.Snippet
}

// GetDueWords ranks every reviewed vocabulary item for the user and picks
// one random parent snippet per top item. A snippet already claimed by an
// earlier item in the same response is skipped, so an item whose whole
// parent set is claimed contributes no snippet.
func (s *Retrieval) GetDueWords(ctx context.Context, n int, mode srs.RankMode, username string) (*DueWords, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	corpus, err := s.vocab.FindReviewed(ctx)
	if err != nil {
		return nil, err
	}

	ranker := srs.NewDueRanker(user.RepetitionConstants)
	ranked := ranker.TopDue(corpus, n, mode, float64(time.Now().Unix()))

	claimed := map[string]bool{}
	snippetIDs := []string{}
	for _, r := range ranked {
		parents := shuffled(r.Item.Parents)
		for _, p := range parents {
			if !claimed[p] {
				claimed[p] = true
				snippetIDs = append(snippetIDs, p)
				break
			}
		}
	}

	snips, err := s.snippets.FindByIDs(ctx, snippetIDs)
	if err != nil {
		return nil, err
	}
	return &DueWords{Vocab: ranked, Snippets: snips}, nil
}

// FrequentWords is the response of the new-word introduction read path.
type FrequentWords struct {
	Vocab    []models.VocabularyItem
	Snippets []models.Snippet
}

// GetFrequentWords returns the n items soonest due by next_review (word
// frequency breaking ties) with up to numParents random snippets each.
// Sampling is independent per item; unlike GetDueWords there is no
// cross-item dedup, repeated example sentences are fine here.
func (s *Retrieval) GetFrequentWords(ctx context.Context, n, numParents int) (*FrequentWords, error) {
	items, err := s.vocab.FindByNextReview(ctx, n)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	snippetIDs := []string{}
	for _, item := range items {
		parents := shuffled(item.Parents)
		if numParents < len(parents) {
			parents = parents[:numParents]
		}
		for _, p := range parents {
			if !seen[p] {
				seen[p] = true
				snippetIDs = append(snippetIDs, p)
			}
		}
	}

	snips, err := s.snippets.FindByIDs(ctx, snippetIDs)
	if err != nil {
		return nil, err
	}
	return &FrequentWords{Vocab: items, Snippets: snips}, nil
}

// NextMediaSnippet resolves the snippet following the given one within its
// source document, by (source_path, media_index+1).
func (s *Retrieval) NextMediaSnippet(ctx context.Context, snippetID string) (*models.Snippet, error) {
	current, err := s.snippets.FindByID(ctx, snippetID)
	if err != nil {
		return nil, err
	}
	return s.snippets.FindBySourcePosition(ctx, current.SourcePath, current.MediaIndex+1)
}

// BatchStatus is the four-way aggregate disposition of one review batch.
// All four cases carry distinct information: all-not-found tells a client
// its vocabulary cache is stale, which neither success nor failure would.
type BatchStatus int

const (
	BatchSuccess BatchStatus = iota
	BatchNothingToUpdate
	BatchFailed
	BatchMixed
)

// ItemStatus is the per-item disposition inside a batch report.
type ItemStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ApplyReviewBatch applies one review outcome to each id in order, using
// the user's curve constants, and aggregates the per-item dispositions.
// Item failures never abort the batch.
func (s *Retrieval) ApplyReviewBatch(ctx context.Context, username, strength string, reviewTime float64, vocabIDs []string) (BatchStatus, []ItemStatus, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return BatchFailed, nil, err
	}
	shapes := user.RepetitionConstants.CurveShapes
	if _, ok := shapes[strength]; !ok {
		return BatchFailed, nil, ErrUnknownStrength
	}

	statuses := make([]ItemStatus, 0, len(vocabIDs))
	var updated, missing, failed int
	for _, id := range vocabIDs {
		d := s.reviews.ApplyReview(ctx, id, strength, reviewTime, shapes)
		statuses = append(statuses, ItemStatus{ID: id, Status: d.String()})
		switch d {
		case srs.Updated:
			updated++
		case srs.NotFound:
			missing++
		default:
			failed++
		}
	}

	switch {
	case missing == 0 && failed == 0:
		return BatchSuccess, statuses, nil
	case updated == 0 && failed == 0:
		return BatchNothingToUpdate, statuses, nil
	case updated == 0 && missing == 0:
		return BatchFailed, statuses, nil
	default:
		return BatchMixed, statuses, nil
	}
}

func shuffled(ids []string) []string {
	out := append([]string{}, ids...)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
