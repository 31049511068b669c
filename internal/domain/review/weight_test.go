package review_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/memodeck/backend/internal/domain/review"
)

func seenStats(fails, successes int, lastSeen time.Time) review.Stats {
	return review.Stats{
		UserID:       "user-1",
		CardID:       "card-1",
		LastSeen:     sql.NullTime{Time: lastSeen, Valid: true},
		FailCount:    fails,
		SuccessCount: successes,
	}
}

func TestCompute_UnseenCardGetsBonus(t *testing.T) {
	w := review.DefaultWeights()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	got := w.Compute(review.Stats{}, "card-1", "user-1", now)

	low := w.UnseenBonus * w.JitterLow
	high := w.UnseenBonus * w.JitterHigh
	if got < low || got > high {
		t.Errorf("unseen weight %v outside [%v, %v]", got, low, high)
	}
}

func TestCompute_MasteredCardNeverStarves(t *testing.T) {
	w := review.DefaultWeights()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// Many successes, reviewed a moment ago: the raw formula goes deeply
	// negative but the floor must keep the weight positive.
	s := seenStats(0, 100, now.Add(-time.Minute))
	got := w.Compute(s, "card-1", "user-1", now)

	if got < w.Floor*w.JitterLow {
		t.Errorf("mastered weight %v below floor %v", got, w.Floor*w.JitterLow)
	}
	if got > w.Floor*w.JitterHigh {
		t.Errorf("mastered weight %v above floored maximum %v", got, w.Floor*w.JitterHigh)
	}
}

func TestCompute_FailuresRaiseWeight(t *testing.T) {
	w := review.DefaultWeights()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	lastSeen := now.Add(-2 * time.Hour)

	// Same card, user and day, so the jitter multiplier is identical and the
	// comparison isolates the failure term.
	weak := w.Compute(seenStats(5, 0, lastSeen), "card-1", "user-1", now)
	fine := w.Compute(seenStats(0, 0, lastSeen), "card-1", "user-1", now)

	if weak <= fine {
		t.Errorf("failing card weight %v not above clean card weight %v", weak, fine)
	}
}

func TestCompute_UnseenDominatesStruggling(t *testing.T) {
	w := review.DefaultWeights()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// A card failed five times an hour ago scores around 1 + 30 + 1 = 32
	// before jitter. Even with worst-case jitter on both sides the unseen
	// bonus of 200 must win.
	struggling := w.Compute(seenStats(5, 0, now.Add(-time.Hour)), "card-1", "user-1", now)
	unseen := w.Compute(review.Stats{}, "card-2", "user-1", now)

	if unseen <= struggling {
		t.Errorf("unseen weight %v not above struggling weight %v", unseen, struggling)
	}
}

func TestCompute_JitterStableWithinDay(t *testing.T) {
	w := review.DefaultWeights()
	morning := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)

	a := w.Compute(review.Stats{}, "card-1", "user-1", morning)
	b := w.Compute(review.Stats{}, "card-1", "user-1", evening)

	if a != b {
		t.Errorf("same-day weights differ for an unseen card: %v vs %v", a, b)
	}
}

func TestCompute_JitterShiftsAcrossDays(t *testing.T) {
	w := review.DefaultWeights()
	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// Over ten days the daily multiplier must take more than one value.
	seen := map[float64]bool{}
	for i := 0; i < 10; i++ {
		seen[w.Compute(review.Stats{}, "card-1", "user-1", day.AddDate(0, 0, i))] = true
	}

	if len(seen) < 2 {
		t.Error("expected the unseen weight to vary across days")
	}
}

func TestCompute_JitterVariesAcrossCards(t *testing.T) {
	w := review.DefaultWeights()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	seen := map[float64]bool{}
	for _, id := range []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8"} {
		seen[w.Compute(review.Stats{}, id, "user-1", now)] = true
	}

	if len(seen) < 2 {
		t.Error("expected weights to vary across cards with identical stats")
	}
}
