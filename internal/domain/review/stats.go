package review

import (
	"database/sql"
	"time"
)

// Outcome is the learner's self-reported result for one card exposure.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "fail"
)

// Valid reports whether o is one of the two known outcomes.
func (o Outcome) Valid() bool {
	return o == OutcomeSuccess || o == OutcomeFailure
}

// Stats is the per-(user, card) exposure history driving selection.
// A freshly created record has LastSeen unset: "never reviewed" and
// "created just now" are the same state until the first outcome lands.
type Stats struct {
	UserID           string       `db:"user_id"`
	CardID           string       `db:"card_id"`
	LastSeen         sql.NullTime `db:"last_seen"`
	FailCount        int          `db:"fail_count"`
	SuccessCount     int          `db:"success_count"`
	ConsecutiveFails int          `db:"consecutive_fails"` // tracked, not yet used by the weight formula
	CreatedAt        time.Time    `db:"created_at"`
}

// Seen reports whether the card has ever been reviewed by this user.
func (s Stats) Seen() bool {
	return s.LastSeen.Valid
}

// HoursSince returns the hours elapsed between the last review and now.
// Only meaningful when Seen() is true.
func (s Stats) HoursSince(now time.Time) float64 {
	return now.Sub(s.LastSeen.Time).Hours()
}
