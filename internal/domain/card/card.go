package card

import (
	"errors"
	"strings"
	"time"

	"github.com/memodeck/backend/internal/id"
)

// Card is a single flashcard. The scheduler treats cards as read-only; only
// the content handlers mutate them.
type Card struct {
	ID          string    `db:"id"`
	FolderID    string    `db:"folder_id"`
	Front       string    `db:"front"`
	Back        string    `db:"back"`
	AIGenerated bool      `db:"ai_generated"`
	CreatedAt   time.Time `db:"created_at"`
}

// New creates a Card with a generated ID. Front and back must be non-empty
// after trimming.
func New(folderID, front, back string) (*Card, error) {
	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)
	if front == "" {
		return nil, errors.New("card front cannot be empty")
	}
	if back == "" {
		return nil, errors.New("card back cannot be empty")
	}
	return &Card{
		ID:        id.New(),
		FolderID:  folderID,
		Front:     front,
		Back:      back,
		CreatedAt: time.Now(),
	}, nil
}
