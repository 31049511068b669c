package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// LLMGenerator generates flashcards by calling an OpenAI-compatible chat
// completions endpoint (Groq, Ollama, LM Studio, vLLM, etc.).
type LLMGenerator struct {
	url    string       // e.g. "https://api.groq.com/openai"
	model  string       // e.g. "llama-3.3-70b-versatile"
	apiKey string       // optional bearer token
	client *http.Client // reused across calls
}

// Compile-time check: *LLMGenerator satisfies the Generator interface.
var _ Generator = (*LLMGenerator)(nil)

// GenerateError is returned when generation fails so the caller can
// distinguish "model produced garbage" from "endpoint unreachable".
type GenerateError struct {
	Reason  string
	Wrapped error
}

func (e *GenerateError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("generation failed: %s", e.Reason)
}

func (e *GenerateError) Unwrap() error {
	return e.Wrapped
}

func NewLLMGenerator(url, model, apiKey string) *LLMGenerator {
	return &LLMGenerator{
		url:    url,
		model:  model,
		apiKey: apiKey,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

const maxRetries = 2

const systemPrompt = "You are an assistant specialized in creating study flashcards. " +
	"Respond ONLY with valid JSON, no extra text, no markdown."

// GenerateCards asks the model for n drafts and validates what comes back.
// It retries once on a malformed response (smaller models sometimes need a
// second try).
func (g *LLMGenerator) GenerateCards(ctx context.Context, topic string, style StyleProfile, avoidFronts []string, n int) ([]Draft, error) {
	prompt := buildPrompt(topic, style, avoidFronts, n)

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		raw, err := g.callLLM(ctx, prompt)
		if err != nil {
			lastErr = err
			continue
		}

		jsonStr := extractJSONArray(raw)
		if jsonStr == "" {
			lastErr = &GenerateError{Reason: "no JSON array found in model response"}
			continue
		}

		var drafts []Draft
		if err := json.Unmarshal([]byte(jsonStr), &drafts); err != nil {
			lastErr = &GenerateError{Reason: "invalid JSON from model", Wrapped: err}
			continue
		}

		valid := drafts[:0]
		for _, d := range drafts {
			d.Front = strings.TrimSpace(d.Front)
			d.Back = strings.TrimSpace(d.Back)
			if d.Front != "" && d.Back != "" {
				valid = append(valid, d)
			}
		}
		if len(valid) == 0 {
			lastErr = &GenerateError{Reason: "model returned no usable cards"}
			continue
		}
		if len(valid) > n {
			valid = valid[:n]
		}
		return valid, nil
	}

	return nil, &GenerateError{
		Reason:  fmt.Sprintf("failed after %d attempts", maxRetries),
		Wrapped: lastErr,
	}
}

// ============================================================================
// LLM communication
// ============================================================================

type llmRequest struct {
	Model       string       `json:"model"`
	Messages    []llmMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
	MaxTokens   int          `json:"max_tokens"`
}

type llmMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type llmResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (g *LLMGenerator) callLLM(ctx context.Context, prompt string) (string, error) {
	reqBody := llmRequest{
		Model: g.model,
		Messages: []llmMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   1500,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("LLM request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("LLM returned status %d", resp.StatusCode)
	}

	var llmResp llmResponse
	if err := json.NewDecoder(resp.Body).Decode(&llmResp); err != nil {
		return "", fmt.Errorf("failed to decode LLM response: %w", err)
	}

	if len(llmResp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}

	content := llmResp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("LLM returned empty content")
	}

	return content, nil
}

// ============================================================================
// Prompt building
// ============================================================================

const maxAvoidFronts = 20

func buildPrompt(topic string, style StyleProfile, avoidFronts []string, n int) string {
	samples, _ := json.MarshalIndent(style.Samples, "", "  ")
	if len(avoidFronts) > maxAvoidFronts {
		avoidFronts = avoidFronts[:maxAvoidFronts]
	}
	avoid, _ := json.Marshal(avoidFronts)

	return fmt.Sprintf(`You are an expert creator of study flashcards.

TASK: Generate exactly %d flashcards on the topic: %q

STYLE TO FOLLOW (analyzed from the existing cards):
- Question type: %s
- Expected answer length: %s

EXAMPLES ALREADY IN THE DECK (imitate this exact style):
%s

CONCEPTS ALREADY COVERED - do NOT generate questions about these:
%s

MANDATORY RULES:
1. Follow the style of the existing cards exactly
2. Do not duplicate concepts already covered
3. Every card must be self-contained and understandable on its own
4. Front length: max 12 words
5. Back length: respect the target length above
6. Stay on topic: %q
7. Output: ONLY valid JSON, no text outside the JSON, no markdown

REQUIRED OUTPUT (a bare JSON array):
[
  {"front": "...", "back": "..."},
  {"front": "...", "back": "..."}
]`, n, topic, style.Style, style.Length, samples, avoid, topic)
}

// extractJSONArray finds the outermost JSON array in a string, tolerating
// markdown fences and stray prose around it. Brackets inside quoted strings
// are skipped.
func extractJSONArray(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, ch := range s {
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if ch == '[' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == ']' {
			depth--
			if depth == 0 && start != -1 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
