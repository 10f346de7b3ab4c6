package srs

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/eebmagic/lagnuage-immersion-app/models"
)

// RankMode selects how the decay constant alpha is derived from an item's
// review history.
type RankMode string

const (
	// RankRecent weights decay by the most recent strength label alone.
	RankRecent RankMode = "recent"
	// RankAverage weights decay by the mean shape over the whole history.
	RankAverage RankMode = "average"
)

// ParseRankMode validates a client-supplied rank mode string.
func ParseRankMode(s string) (RankMode, error) {
	switch RankMode(s) {
	case RankRecent, RankAverage:
		return RankMode(s), nil
	}
	return "", fmt.Errorf("unknown rank mode %q", s)
}

// RankedItem pairs a vocabulary item with its due-ness score. Lower score
// means more decayed, so more due for review.
type RankedItem struct {
	Item  models.VocabularyItem
	Score float64
}

// DueRanker scores previously reviewed vocabulary on an exponential
// forgetting curve parameterized by one user's repetition constants.
type DueRanker struct {
	constants models.RepetitionConstants
}

func NewDueRanker(constants models.RepetitionConstants) *DueRanker {
	return &DueRanker{constants: constants}
}

// Score computes exp(-elapsed / (alpha * S)) for one item. The second
// return is false for items that have never been reviewed, which carry no
// due-ness at all.
func (r *DueRanker) Score(item *models.VocabularyItem, mode RankMode, now float64) (float64, bool) {
	rep := item.RepData
	if rep.HistoryLength == 0 || rep.LastReview == nil {
		return 0, false
	}
	alpha := r.alpha(rep, mode)
	if alpha <= 0 {
		// Degenerate curve shapes collapse the curve entirely; treat the
		// item as fully decayed.
		return 0, true
	}
	elapsed := now - *rep.LastReview
	return math.Exp(-elapsed / (alpha * r.constants.S)), true
}

func (r *DueRanker) alpha(rep models.ReviewState, mode RankMode) float64 {
	shapes := r.constants.CurveShapes
	if mode == RankAverage && len(rep.History) > 0 {
		total := 0.0
		for _, rec := range rep.History {
			total += shapes[rec.Strength]
		}
		return total / float64(len(rep.History))
	}
	return shapes[rep.LastStrength]
}

// TopDue returns the n most due items, most due first. It keeps a bounded
// heap of n candidates instead of sorting the whole corpus, so selection is
// O(len(items) * log n). Items with equal scores keep encounter order.
func (r *DueRanker) TopDue(items []models.VocabularyItem, n int, mode RankMode, now float64) []RankedItem {
	if n <= 0 {
		return []RankedItem{}
	}
	h := &boundedHeap{limit: n}
	for i := range items {
		score, ok := r.Score(&items[i], mode, now)
		if !ok {
			continue
		}
		h.offer(rankedEntry{item: items[i], score: score, seq: i})
	}
	return h.ascending()
}

type rankedEntry struct {
	item  models.VocabularyItem
	score float64
	seq   int
}

// boundedHeap keeps the limit entries with the lowest scores seen so far.
// The root is always the worst retained entry: highest score, and on equal
// scores the latest arrival, so earlier encounters survive eviction.
type boundedHeap struct {
	limit   int
	entries []rankedEntry
}

func (h *boundedHeap) Len() int { return len(h.entries) }

func (h *boundedHeap) Less(i, j int) bool {
	if h.entries[i].score != h.entries[j].score {
		return h.entries[i].score > h.entries[j].score
	}
	return h.entries[i].seq > h.entries[j].seq
}

func (h *boundedHeap) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
}

func (h *boundedHeap) Push(x any) {
	h.entries = append(h.entries, x.(rankedEntry))
}

func (h *boundedHeap) Pop() any {
	last := len(h.entries) - 1
	e := h.entries[last]
	h.entries = h.entries[:last]
	return e
}

// offer inserts while there is room, then replaces the worst retained entry
// whenever a strictly more due candidate arrives.
func (h *boundedHeap) offer(e rankedEntry) {
	if len(h.entries) < h.limit {
		heap.Push(h, e)
		return
	}
	if e.score < h.entries[0].score {
		h.entries[0] = e
		heap.Fix(h, 0)
	}
}

// ascending drains the heap into a slice ordered most due first.
func (h *boundedHeap) ascending() []RankedItem {
	out := make([]RankedItem, len(h.entries))
	for i := len(out) - 1; i >= 0; i-- {
		e := heap.Pop(h).(rankedEntry)
		out[i] = RankedItem{Item: e.item, Score: e.score}
	}
	return out
}
