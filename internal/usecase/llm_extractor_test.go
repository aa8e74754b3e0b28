package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/recipeclip/backend/internal/domain"
)

// MockChatCompleter is a scripted implementation of domain.ChatCompleter.
// Each call consumes the next entry of errs/responses; err short-circuits all calls.
type MockChatCompleter struct {
	responses []string
	errs      []error
	err       error
	calls     []string
	prompts   []string
	idx       int
}

func (m *MockChatCompleter) Complete(ctx context.Context, model, prompt string) (*domain.ChatResponse, error) {
	m.calls = append(m.calls, model)
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return nil, m.err
	}

	var callErr error
	if m.idx < len(m.errs) {
		callErr = m.errs[m.idx]
	}
	var content string
	if m.idx < len(m.responses) {
		content = m.responses[m.idx]
	}
	m.idx++

	if callErr != nil {
		return nil, callErr
	}
	return &domain.ChatResponse{Content: content, Model: model}, nil
}

const validRecipeJSON = `{
	"title": "Test Soup",
	"description": "A soup",
	"ingredients": ["1 onion", "2 cups broth"],
	"instructions": ["Chop the onion.", "Simmer in broth."],
	"cookTime": 25,
	"servings": 2,
	"image": ""
}`

func TestAIExtractor(t *testing.T) {
	ctx := context.Background()

	t.Run("first model success", func(t *testing.T) {
		completer := &MockChatCompleter{responses: []string{validRecipeJSON}}
		e := NewAIExtractor(completer, []string{"cheap", "expensive"}, 0)

		got, err := e.Extract(ctx, "some page text")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Title != "Test Soup" {
			t.Errorf("Title = %q", got.Title)
		}
		if len(completer.calls) != 1 || completer.calls[0] != "cheap" {
			t.Errorf("calls = %v, want just the cheap model", completer.calls)
		}
		if got.Source != "ai" {
			t.Errorf("Source = %q", got.Source)
		}
	})

	t.Run("markdown fences are stripped", func(t *testing.T) {
		completer := &MockChatCompleter{
			responses: []string{"```json\n" + validRecipeJSON + "\n```"},
		}
		e := NewAIExtractor(completer, []string{"m"}, 0)

		got, err := e.Extract(ctx, "text")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got.Ingredients) != 2 {
			t.Errorf("Ingredients = %v", got.Ingredients)
		}
	})

	t.Run("quota exhaustion skips to next model without retry", func(t *testing.T) {
		completer := &MockChatCompleter{
			errs:      []error{domain.ErrQuotaExceeded, nil},
			responses: []string{"", validRecipeJSON},
		}
		e := NewAIExtractor(completer, []string{"cheap", "fallback"}, 0)

		got, err := e.Extract(ctx, "text")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Title != "Test Soup" {
			t.Errorf("Title = %q", got.Title)
		}
		want := []string{"cheap", "fallback"}
		if len(completer.calls) != 2 || completer.calls[0] != want[0] || completer.calls[1] != want[1] {
			t.Errorf("calls = %v, want %v", completer.calls, want)
		}
	})

	t.Run("unparsable content cascades to next model", func(t *testing.T) {
		completer := &MockChatCompleter{
			responses: []string{"I am sorry, I cannot help with that.", validRecipeJSON},
		}
		e := NewAIExtractor(completer, []string{"a", "b"}, 0)

		got, err := e.Extract(ctx, "text")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Title != "Test Soup" {
			t.Errorf("Title = %q", got.Title)
		}
	})

	t.Run("sentinel error object stops the cascade", func(t *testing.T) {
		completer := &MockChatCompleter{
			responses: []string{`{"error": "No recipe found"}`},
		}
		e := NewAIExtractor(completer, []string{"a", "b"}, 0)

		_, err := e.Extract(ctx, "text")
		if !errors.Is(err, domain.ErrNoRecipeFound) {
			t.Fatalf("error = %v, want ErrNoRecipeFound", err)
		}
		if len(completer.calls) != 1 {
			t.Errorf("calls = %v, sentinel must not cascade", completer.calls)
		}
	})

	t.Run("all models failing reports backend failure", func(t *testing.T) {
		completer := &MockChatCompleter{err: domain.ErrBackendFailure}
		e := NewAIExtractor(completer, []string{"a", "b", "c"}, 0)

		_, err := e.Extract(ctx, "text")
		if !errors.Is(err, domain.ErrBackendFailure) {
			t.Fatalf("error = %v, want ErrBackendFailure", err)
		}
		if len(completer.calls) != 3 {
			t.Errorf("calls = %v, want all three models tried", completer.calls)
		}
	})

	t.Run("nil completer reports backend unavailable", func(t *testing.T) {
		e := NewAIExtractor(nil, []string{"a"}, 0)
		_, err := e.Extract(ctx, "text")
		if !errors.Is(err, domain.ErrBackendUnavailable) {
			t.Errorf("error = %v, want ErrBackendUnavailable", err)
		}
	})

	t.Run("defaults applied to missing fields", func(t *testing.T) {
		completer := &MockChatCompleter{
			responses: []string{`{"title": "Bare", "ingredients": ["1 egg"], "instructions": ["Fry."]}`},
		}
		e := NewAIExtractor(completer, []string{"m"}, 0)

		got, err := e.Extract(ctx, "text")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Servings != 1 {
			t.Errorf("Servings = %d, want default 1", got.Servings)
		}
		if got.CookTime != 0 {
			t.Errorf("CookTime = %d, want 0", got.CookTime)
		}
	})
}

func TestTruncateText(t *testing.T) {
	t.Run("short text untouched", func(t *testing.T) {
		if got := truncateText("hello", 100); got != "hello" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("long text bounded and cut at word boundary", func(t *testing.T) {
		long := strings.Repeat("word ", 2000)
		got := truncateText(long, 6000)
		if len(got) > 6000 {
			t.Errorf("len = %d, want <= 6000", len(got))
		}
		if strings.HasSuffix(got, "wor") {
			t.Errorf("cut mid-word: %q", got[len(got)-10:])
		}
	})

	t.Run("never splits a multi-byte rune", func(t *testing.T) {
		// No spaces, so no word boundary can rescue the cut. "½" is 2 bytes,
		// an odd limit lands mid-rune without the boundary backoff.
		text := strings.Repeat("½", 100)
		for limit := 1; limit <= 10; limit++ {
			got := truncateText(text, limit)
			if !utf8.ValidString(got) {
				t.Errorf("limit %d: output is not valid UTF-8: %q", limit, got)
			}
			if len(got) > limit {
				t.Errorf("limit %d: len = %d", limit, len(got))
			}
		}
	})
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean object", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding prose", `Here you go: {"a":1} Hope that helps!`, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repairJSON(tt.in); got != tt.want {
				t.Errorf("repairJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
