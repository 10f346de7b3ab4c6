package models

import "time"

// ReviewRecord is one entry in a vocabulary item's review history,
// chronological in insertion order.
type ReviewRecord struct {
	Strength string  `bson:"strength" json:"strength"`
	Time     float64 `bson:"time" json:"time"` // unix seconds
}

// ReviewState is the mutable spaced-repetition state embedded in a
// vocabulary item. LastReview is nil exactly when HistoryLength is zero,
// and HistoryLength always equals len(History).
type ReviewState struct {
	LastReview      *float64       `bson:"last_review" json:"last_review"`
	LastStrength    string         `bson:"last_strength,omitempty" json:"last_strength,omitempty"`
	AverageStrength float64        `bson:"average_strength" json:"average_strength"` // meaningful only when HistoryLength > 0
	HistoryLength   int            `bson:"history_length" json:"history_length"`
	History         []ReviewRecord `bson:"history" json:"history"`
	// NextReview is written once at ingestion and never by the review path;
	// the frequent-words ordering sorts on it.
	NextReview float64 `bson:"next_review" json:"next_review"`
}

// VocabularyItem is the unit of spaced-repetition scheduling: one lemma +
// part-of-speech occurrence extracted from ingested text.
type VocabularyItem struct {
	ID       string      `bson:"id" json:"id"` // "lemma - POS - position - parentSnippet"
	Lemma    string      `bson:"lemma" json:"lemma"`
	POS      string      `bson:"pos" json:"pos"`
	WordFreq float64     `bson:"word_freq" json:"word_freq"` // zipf scale
	RepData  ReviewState `bson:"rep_data" json:"rep_data"`
	Tags     []string    `bson:"tags" json:"tags"`
	Parents  []string    `bson:"parents" json:"parents"` // snippet ids, set semantics
	Samples  []string    `bson:"samples" json:"samples"` // sample occurrence ids, set semantics
}

// NewReviewState is the zeroed state vocabulary gets on first ingestion.
// next_review lands at the top of the hour one day out, which is what the
// ingestion pipeline has always written.
func NewReviewState(now time.Time) ReviewState {
	next := now.Add(24 * time.Hour).Truncate(time.Hour)
	return ReviewState{
		History:    []ReviewRecord{},
		NextReview: float64(next.Unix()),
	}
}
