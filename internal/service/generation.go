// internal/service/generation.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/memodeck/backend/internal/domain/card"
	"github.com/memodeck/backend/internal/generator"
	"github.com/memodeck/backend/internal/store"
	"github.com/memodeck/backend/internal/worker"
)

// MaxCardsPerRequest caps how many cards one generation call may produce.
const MaxCardsPerRequest = 10

// GenerationService turns a topic into saved flashcards. LLM calls from all
// requests funnel through one worker pool so a burst of generation requests
// cannot flood the upstream endpoint.
type GenerationService struct {
	store     *store.SQLiteStore
	generator generator.Generator
	pool      *worker.Pool[genResult]
	logger    *slog.Logger
}

type genResult struct {
	drafts []generator.Draft
	err    error
}

func NewGenerationService(s *store.SQLiteStore, g generator.Generator, concurrency int, logger *slog.Logger) *GenerationService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &GenerationService{
		store:     s,
		generator: g,
		pool:      worker.NewPool[genResult](concurrency, concurrency*2),
		logger:    logger,
	}
}

// Close stops the underlying worker pool.
func (gs *GenerationService) Close() {
	gs.pool.Close()
}

// GenerateAndSave analyzes the folder's existing cards, generates up to
// count drafts in the matching style, persists them flagged as
// ai_generated, and returns the saved cards with the detected style.
func (gs *GenerationService) GenerateAndSave(ctx context.Context, folderID, topic string, count int) ([]*card.Card, string, error) {
	if count < 1 || count > MaxCardsPerRequest {
		count = MaxCardsPerRequest
	}

	existing, err := gs.store.ListCardsByFolder(ctx, folderID)
	if err != nil {
		return nil, "", fmt.Errorf("load existing cards: %w", err)
	}

	style := generator.AnalyzeStyle(existing)
	avoid := make([]string, len(existing))
	for i, c := range existing {
		avoid[i] = c.Front
	}

	reply := gs.pool.Submit(func() genResult {
		drafts, err := gs.generator.GenerateCards(ctx, topic, style, avoid, count)
		return genResult{drafts: drafts, err: err}
	})

	var res genResult
	select {
	case res = <-reply:
	case <-ctx.Done():
		return nil, "", ctx.Err()
	}
	if res.err != nil {
		return nil, "", res.err
	}

	cards := make([]*card.Card, 0, len(res.drafts))
	for _, d := range res.drafts {
		c, err := card.New(folderID, d.Front, d.Back)
		if err != nil {
			gs.logger.Warn("skipping invalid generated card", "error", err, "topic", topic)
			continue
		}
		c.AIGenerated = true
		cards = append(cards, c)
	}
	if len(cards) == 0 {
		return nil, "", fmt.Errorf("no valid cards generated")
	}

	if err := gs.store.SaveCards(ctx, cards); err != nil {
		return nil, "", fmt.Errorf("save generated cards: %w", err)
	}

	gs.logger.Info("generated cards",
		"folder_id", folderID,
		"topic", topic,
		"count", len(cards),
	)
	return cards, style.Style, nil
}
