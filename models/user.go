package models

import "time"

// RepetitionConstants parameterize the forgetting curve for one user. Two
// users reviewing the same vocabulary item can compute different due-ness
// scores from the same review state.
type RepetitionConstants struct {
	// S is the base stability scale, in the same unit as review timestamps
	// (seconds).
	S float64 `bson:"s" json:"s"`
	// CurveShapes maps a strength label to its alpha weight. Higher alpha
	// means slower decay.
	CurveShapes map[string]float64 `bson:"curve_shapes" json:"curve_shapes"`
}

type UserProfile struct {
	UserID              string              `bson:"user_id" json:"user_id"`
	Username            string              `bson:"username" json:"username"`
	RepetitionConstants RepetitionConstants `bson:"repetition_constants" json:"repetition_constants"`
	CreatedAt           time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time           `bson:"updated_at" json:"updated_at"`
}

// DefaultRepetitionConstants are the constants new users start with.
func DefaultRepetitionConstants() RepetitionConstants {
	return RepetitionConstants{
		S: 2670,
		CurveShapes: map[string]float64{
			"again": 1,
			"hard":  2,
			"good":  4,
			"easy":  6,
		},
	}
}
