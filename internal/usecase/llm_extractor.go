package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/recipeclip/backend/internal/domain"
)

// defaultMaxInputChars bounds what we send to the backend per attempt
const defaultMaxInputChars = 6000

// aiRecipePayload is the strict schema the model is instructed to emit.
// Error carries the sentinel shape ({"error": "..."}) the model returns when
// the page holds no identifiable recipe.
type aiRecipePayload struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	CookTime     int      `json:"cookTime"`
	Servings     int      `json:"servings"`
	Image        string   `json:"image"`
	Error        string   `json:"error"`
}

// AIExtractor prompts a generative backend with normalized page text and a
// strict output schema, trying an ordered model cascade until one succeeds
type AIExtractor struct {
	completer     domain.ChatCompleter
	models        []string
	maxInputChars int
}

// NewAIExtractor creates an AI extractor. completer may be nil (backend not
// configured), in which case every extraction reports ErrBackendUnavailable.
func NewAIExtractor(completer domain.ChatCompleter, models []string, maxInputChars int) *AIExtractor {
	if maxInputChars <= 0 {
		maxInputChars = defaultMaxInputChars
	}
	return &AIExtractor{
		completer:     completer,
		models:        models,
		maxInputChars: maxInputChars,
	}
}

// Extract runs the model cascade over the given text. Models are tried
// strictly in order, first success wins; quota exhaustion skips straight to
// the next entry instead of retrying. The sentinel error object is surfaced
// as domain.ErrNoRecipeFound and stops the cascade - the model answered, the
// answer was "there is no recipe here". Every other failure mode falls
// through to the next model, and total failure to the caller as
// domain.ErrBackendFailure so it can drop to the heuristic path.
func (e *AIExtractor) Extract(ctx context.Context, text string) (*domain.ExtractedRecipe, error) {
	if e.completer == nil || len(e.models) == 0 {
		return nil, domain.ErrBackendUnavailable
	}

	prompt := buildExtractionPrompt(truncateText(text, e.maxInputChars))

	var lastErr error = domain.ErrBackendFailure
	for i, model := range e.models {
		log.Printf("[EXTRACT] AI attempt %d/%d with model %s", i+1, len(e.models), model)

		resp, err := e.completer.Complete(ctx, model, prompt)
		if err != nil {
			if errors.Is(err, domain.ErrBackendUnavailable) {
				return nil, err
			}
			if errors.Is(err, domain.ErrQuotaExceeded) {
				log.Printf("[EXTRACT] Model %s quota exhausted, skipping to next model", model)
			} else {
				log.Printf("[EXTRACT] Model %s failed: %v", model, err)
			}
			lastErr = err
			continue
		}

		payload, err := parseRecipePayload(resp.Content)
		if err != nil {
			log.Printf("[EXTRACT] Model %s returned unparsable content: %v", model, err)
			lastErr = fmt.Errorf("%w: %v", domain.ErrBackendFailure, err)
			continue
		}

		if payload.Error != "" {
			log.Printf("[EXTRACT] Model %s reports no recipe: %s", model, payload.Error)
			return nil, domain.ErrNoRecipeFound
		}

		return payloadToRecipe(payload), nil
	}

	return nil, lastErr
}

// buildExtractionPrompt instructs the model to emit exactly one JSON object
// matching the target schema, or the sentinel error object
func buildExtractionPrompt(text string) string {
	return `You are a recipe extraction assistant. The text below was scraped from a web page and may contain navigation menus, advertisements, social media widgets and other noise. Ignore all of it.

Extract the recipe and respond with exactly one JSON object, no markdown, no commentary:
{
  "title": "recipe title",
  "description": "one or two sentence summary",
  "ingredients": ["complete ingredient strings, preserving original quantities and prep notes"],
  "instructions": ["every cooking step, in order, including times and temperatures"],
  "cookTime": total minutes as an integer (0 if unknown),
  "servings": number of servings as an integer (1 if unknown),
  "image": "main image URL if one appears in the text, else empty string"
}

If the text contains no identifiable recipe, respond with exactly:
{"error": "No recipe found"}

Text:
` + text
}

// truncateText bounds the prompt input, cutting at a word boundary when
// possible and never inside a multi-byte rune
func truncateText(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	end := limit
	for end > 0 && !utf8.RuneStart(text[end]) {
		end--
	}
	cut := text[:end]
	if idx := strings.LastIndexAny(cut, " \n"); idx > limit/2 {
		cut = cut[:idx]
	}
	return cut
}

// parseRecipePayload decodes model output, tolerating markdown code fences
// and stray prose around the JSON object
func parseRecipePayload(content string) (*aiRecipePayload, error) {
	cleaned := repairJSON(content)

	var payload aiRecipePayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("invalid JSON from model: %w", err)
	}
	return &payload, nil
}

// repairJSON strips ```json fences and trims to the outermost object
func repairJSON(content string) string {
	s := strings.TrimSpace(content)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

// payloadToRecipe applies the output defaults: absent cookTime stays 0,
// absent servings becomes 1, absent arrays become empty
func payloadToRecipe(p *aiRecipePayload) *domain.ExtractedRecipe {
	recipe := &domain.ExtractedRecipe{
		Title:        strings.TrimSpace(p.Title),
		Description:  strings.TrimSpace(p.Description),
		Ingredients:  p.Ingredients,
		Instructions: p.Instructions,
		CookTime:     p.CookTime,
		Servings:     p.Servings,
		Image:        strings.TrimSpace(p.Image),
		Source:       "ai",
	}
	if recipe.Ingredients == nil {
		recipe.Ingredients = []string{}
	}
	if recipe.Instructions == nil {
		recipe.Instructions = []string{}
	}
	if recipe.Servings <= 0 {
		recipe.Servings = 1
	}
	if recipe.CookTime < 0 {
		recipe.CookTime = 0
	}
	return recipe
}
