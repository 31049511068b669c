package generator

import "context"

// Draft is a generated flashcard before it is validated and persisted.
type Draft struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Generator produces flashcard drafts for a topic, imitating the style of
// the folder's existing cards. Implementations may call an LLM or return
// canned results (for tests).
type Generator interface {
	// GenerateCards returns up to n drafts on topic. avoidFronts lists the
	// fronts already in the folder so concepts are not duplicated.
	GenerateCards(ctx context.Context, topic string, style StyleProfile, avoidFronts []string, n int) ([]Draft, error)
}
