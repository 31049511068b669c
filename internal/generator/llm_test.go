package generator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare array", `[{"front":"a","back":"b"}]`, `[{"front":"a","back":"b"}]`},
		{"markdown fence", "```json\n[1, 2]\n```", "[1, 2]"},
		{"surrounding prose", "Here you go: [1] enjoy!", "[1]"},
		{"bracket inside string", `[{"front":"use arr[0]","back":"b"}]`, `[{"front":"use arr[0]","back":"b"}]`},
		{"escaped quote inside string", `[{"front":"say \"hi[\"","back":"b"}]`, `[{"front":"say \"hi[\"","back":"b"}]`},
		{"nested arrays", `[[1],[2]]`, `[[1],[2]]`},
		{"no array", "sorry, I cannot do that", ""},
		{"unterminated", `[{"front":"a"`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSONArray(tt.in); got != tt.want {
				t.Errorf("extractJSONArray(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// chatServer fakes an OpenAI-compatible endpoint, returning the queued
// message contents one request at a time.
func chatServer(t *testing.T, contents ...string) *httptest.Server {
	t.Helper()
	calls := 0
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		content := contents[len(contents)-1]
		if calls < len(contents) {
			content = contents[calls]
		}
		calls++
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestGenerateCards_ParsesResponse(t *testing.T) {
	srv := chatServer(t, "Sure! ```json\n[{\"front\":\"What is X?\",\"back\":\"Y\"},{\"front\":\" q2 \",\"back\":\" a2 \"}]\n```")
	defer srv.Close()

	g := NewLLMGenerator(srv.URL, "test-model", "")
	drafts, err := g.GenerateCards(context.Background(), "chemistry", StyleProfile{}, nil, 5)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}
	if drafts[1].Front != "q2" || drafts[1].Back != "a2" {
		t.Errorf("expected trimmed draft, got %+v", drafts[1])
	}
}

func TestGenerateCards_CapsAtRequestedCount(t *testing.T) {
	srv := chatServer(t, `[{"front":"a","back":"1"},{"front":"b","back":"2"},{"front":"c","back":"3"}]`)
	defer srv.Close()

	g := NewLLMGenerator(srv.URL, "test-model", "")
	drafts, err := g.GenerateCards(context.Background(), "t", StyleProfile{}, nil, 2)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(drafts) != 2 {
		t.Errorf("expected drafts capped at 2, got %d", len(drafts))
	}
}

func TestGenerateCards_RetriesOnGarbage(t *testing.T) {
	srv := chatServer(t, "I'd be happy to help!", `[{"front":"a","back":"b"}]`)
	defer srv.Close()

	g := NewLLMGenerator(srv.URL, "test-model", "")
	drafts, err := g.GenerateCards(context.Background(), "t", StyleProfile{}, nil, 1)
	if err != nil {
		t.Fatalf("expected the retry to succeed, got %v", err)
	}
	if len(drafts) != 1 {
		t.Errorf("expected 1 draft, got %d", len(drafts))
	}
}

func TestGenerateCards_FailsAfterRetries(t *testing.T) {
	srv := chatServer(t, "no json here")
	defer srv.Close()

	g := NewLLMGenerator(srv.URL, "test-model", "")
	_, err := g.GenerateCards(context.Background(), "t", StyleProfile{}, nil, 1)

	var genErr *GenerateError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *GenerateError, got %T: %v", err, err)
	}
}

func TestBuildPrompt_CapsAvoidList(t *testing.T) {
	avoid := make([]string, 50)
	for i := range avoid {
		avoid[i] = "front"
	}

	prompt := buildPrompt("topic", StyleProfile{}, avoid, 3)
	var inPrompt []string
	// The avoid list is serialized as a JSON array inside the prompt; count
	// the entries by re-extracting it.
	if err := json.Unmarshal([]byte(extractJSONArray(prompt)), &inPrompt); err != nil {
		t.Fatalf("no avoid array in prompt: %v", err)
	}
	if len(inPrompt) != maxAvoidFronts {
		t.Errorf("expected avoid list capped at %d, got %d", maxAvoidFronts, len(inPrompt))
	}
}
