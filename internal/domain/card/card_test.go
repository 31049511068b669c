package card_test

import (
	"testing"

	"github.com/memodeck/backend/internal/domain/card"
)

func TestNew_TrimsContent(t *testing.T) {
	c, err := card.New("f1", "  What is X?  ", "\tY\n")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if c.Front != "What is X?" || c.Back != "Y" {
		t.Errorf("expected trimmed content, got %q / %q", c.Front, c.Back)
	}
	if c.ID == "" {
		t.Error("expected a generated id")
	}
	if c.AIGenerated {
		t.Error("cards are hand-written unless marked otherwise")
	}
}

func TestNew_RejectsEmptySides(t *testing.T) {
	if _, err := card.New("f1", "   ", "back"); err == nil {
		t.Error("expected an error for a blank front")
	}
	if _, err := card.New("f1", "front", ""); err == nil {
		t.Error("expected an error for an empty back")
	}
}

func TestNew_UniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		c, err := card.New("f1", "front", "back")
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		if seen[c.ID] {
			t.Fatalf("duplicate id %s", c.ID)
		}
		seen[c.ID] = true
	}
}
