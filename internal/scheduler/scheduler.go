// Package scheduler decides which card a learner sees next. Selection is a
// weighted random draw over the learner's per-card review stats, with
// session-scoped exclusions supplied by the caller.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/memodeck/backend/internal/domain/card"
	"github.com/memodeck/backend/internal/domain/review"
)

// ErrNoCandidate is returned by Pick when the folder has no cards or the
// session has excluded all of them. Callers map it to "nothing to study".
var ErrNoCandidate = errors.New("no candidate card")

// CardCatalog enumerates the cards of a folder. Read-only.
type CardCatalog interface {
	ListCardsByFolder(ctx context.Context, folderID string) ([]card.Card, error)
}

// StatsStore persists per-(user, card) review stats. RecordOutcome must be a
// single atomic increment-and-set at the storage layer, and CreateIfAbsent
// must have upsert semantics so concurrent picks converge on one record.
type StatsStore interface {
	FindStats(ctx context.Context, userID string, cardIDs []string) ([]review.Stats, error)
	CreateStatsIfAbsent(ctx context.Context, userID, cardID string) (review.Stats, error)
	RecordOutcome(ctx context.Context, userID, cardID string, outcome review.Outcome) error
}

// Scheduler orchestrates pick and outcome recording. It holds no internal
// locks or goroutines; concurrency guarantees live in the StatsStore.
type Scheduler struct {
	catalog CardCatalog
	stats   StatsStore
	weights review.Weights
	now     func() time.Time
}

func New(catalog CardCatalog, stats StatsStore) *Scheduler {
	return NewWithWeights(catalog, stats, review.DefaultWeights())
}

// NewWithWeights allows per-deployment (or per-test) tuning overrides.
func NewWithWeights(catalog CardCatalog, stats StatsStore, w review.Weights) *Scheduler {
	return &Scheduler{
		catalog: catalog,
		stats:   stats,
		weights: w,
		now:     time.Now,
	}
}

type candidate struct {
	card   card.Card
	stats  review.Stats
	weight float64
}

// Pick returns the next card to show userID from folderID.
//
// recentIDs is the session's last-shown window: those cards are softly
// suppressed, not excluded, and only when enough alternatives exist.
// learnedIDs are excluded outright; when they cover the whole folder Pick
// returns ErrNoCandidate, which the caller reads as "session complete".
func (s *Scheduler) Pick(ctx context.Context, userID, folderID string, recentIDs []string, learnedIDs []string) (*card.Card, error) {
	cards, err := s.catalog.ListCardsByFolder(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	learned := make(map[string]bool, len(learnedIDs))
	for _, id := range learnedIDs {
		learned[id] = true
	}

	pool := make([]card.Card, 0, len(cards))
	for _, c := range cards {
		if !learned[c.ID] {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		return nil, ErrNoCandidate
	}

	ids := make([]string, len(pool))
	for i, c := range pool {
		ids[i] = c.ID
	}
	known, err := s.stats.FindStats(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	byCard := make(map[string]review.Stats, len(known))
	for _, st := range known {
		byCard[st.CardID] = st
	}

	now := s.now()
	recent := make(map[string]bool, len(recentIDs))
	for _, id := range recentIDs {
		recent[id] = true
	}

	candidates := make([]candidate, 0, len(pool))
	for _, c := range pool {
		st, ok := byCard[c.ID]
		if !ok {
			// First time this card is a candidate for this user.
			st, err = s.stats.CreateStatsIfAbsent(ctx, userID, c.ID)
			if err != nil {
				return nil, fmt.Errorf("create stats for card %s: %w", c.ID, err)
			}
		}

		w := s.weights.Compute(st, c.ID, userID, now)
		// With NoRepeatWindow or fewer cards repetition is unavoidable, so
		// the recent window is not penalized.
		if recent[c.ID] && len(pool) > s.weights.NoRepeatWindow {
			w *= s.weights.RecentPenalty
		}
		candidates = append(candidates, candidate{card: c, stats: st, weight: w})
	}

	// Prefer cards outside the minimum gap; fall back to the full pool so a
	// just-reviewed-everything session still gets a card.
	rested := make([]candidate, 0, len(candidates))
	for _, cand := range candidates {
		if !cand.stats.Seen() || now.Sub(cand.stats.LastSeen.Time) >= s.weights.MinGap {
			rested = append(rested, cand)
		}
	}
	if len(rested) > 0 {
		candidates = rested
	}

	chosen := draw(candidates)
	return &chosen, nil
}

// RecordOutcome updates the stats for one exposure. It requires the stats
// record to exist: Pick creates it, so a missing record means the client sent
// an id that was never picked, and the store's not-found error propagates.
func (s *Scheduler) RecordOutcome(ctx context.Context, userID, cardID string, outcome review.Outcome) error {
	if !outcome.Valid() {
		return fmt.Errorf("unknown outcome %q", outcome)
	}
	return s.stats.RecordOutcome(ctx, userID, cardID, outcome)
}

// draw performs the weighted random selection. The weight floor guarantees
// every candidate has positive weight, so the fallback return is only
// reachable through floating point edge cases.
func draw(candidates []candidate) card.Card {
	total := 0.0
	for _, c := range candidates {
		total += c.weight
	}
	if total > 0 {
		r := rand.Float64() * total
		for _, c := range candidates {
			r -= c.weight
			if r < 0 {
				return c.card
			}
		}
	}
	return candidates[len(candidates)-1].card
}
