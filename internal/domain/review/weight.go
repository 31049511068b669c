package review

import (
	"hash/fnv"
	"time"
)

// Weights holds the tuning constants of the selection formula. Values are
// set at construction and never mutated, so a folder (or a test) can carry
// its own copy without races.
type Weights struct {
	// UnseenBonus is the base weight of a never-reviewed card. It is large
	// enough that new cards dominate selection until reviewed once.
	UnseenBonus float64
	// FailWeight and SuccessWeight scale the cumulative counters in the
	// seen-card formula.
	FailWeight    float64
	SuccessWeight float64
	// Floor is the minimum pre-jitter weight of a seen card. A mastered card
	// keeps a small but non-zero selection probability.
	Floor float64
	// JitterLow and JitterHigh bound the deterministic multiplier applied to
	// every weight.
	JitterLow  float64
	JitterHigh float64
	// RecentPenalty multiplies the weight of cards in the session's recent
	// window, when the pool is larger than NoRepeatWindow.
	RecentPenalty  float64
	NoRepeatWindow int
	// MinGap is how long after a review a card is excluded from selection,
	// as long as other candidates remain.
	MinGap time.Duration
}

// DefaultWeights returns the production tuning.
func DefaultWeights() Weights {
	return Weights{
		UnseenBonus:    200.0,
		FailWeight:     6.0,
		SuccessWeight:  3.0,
		Floor:          0.5,
		JitterLow:      0.85,
		JitterHigh:     1.15,
		RecentPenalty:  0.05,
		NoRepeatWindow: 3,
		MinGap:         6 * time.Minute,
	}
}

// Compute maps a card's stats to a non-negative selection weight.
//
// Seen cards score hours-since-last-review plus a failure bonus minus a
// success discount, floored so no card is ever starved. Unseen cards get
// UnseenBonus. Both are multiplied by a per-(card, user, day) jitter so that
// cards with identical stats don't tie in a fixed order.
func (w Weights) Compute(s Stats, cardID, userID string, now time.Time) float64 {
	if !s.Seen() {
		return w.UnseenBonus * w.jitter(cardID, userID, "unseen", now)
	}

	raw := s.HoursSince(now) +
		float64(s.FailCount)*w.FailWeight -
		float64(s.SuccessCount)*w.SuccessWeight + 1.0
	if raw < w.Floor {
		raw = w.Floor
	}
	return raw * w.jitter(cardID, userID, "seen", now)
}

// jitter returns a multiplier in [JitterLow, JitterHigh] that is stable for a
// given (card, user, salt) within one calendar day and shifts the next day.
// Stability within the day keeps a session from flapping between candidates;
// the day component breaks multi-day repeating patterns.
func (w Weights) jitter(cardID, userID, salt string, now time.Time) float64 {
	h := fnv.New64a()
	h.Write([]byte(cardID))
	h.Write([]byte{'|'})
	h.Write([]byte(userID))
	h.Write([]byte{'|'})
	h.Write([]byte(salt))
	h.Write([]byte{'|'})
	h.Write([]byte(now.Format("2006-01-02")))

	unit := float64(h.Sum64()%100000) / 100000.0
	return w.JitterLow + unit*(w.JitterHigh-w.JitterLow)
}
