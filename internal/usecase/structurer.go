package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/recipeclip/backend/internal/domain"
)

// Structurer converts flat ingredient strings into {name, amount, unit}
// fields. The primary path is one batched AI call; the fallback is a
// deterministic quantity/unit parse that cannot fail, so structuring only
// ever degrades precision, never the request.
type Structurer struct {
	completer domain.ChatCompleter
	model     string
}

// NewStructurer creates a structurer. completer may be nil; model is the
// cheap cascade entry used for the batch call.
func NewStructurer(completer domain.ChatCompleter, model string) *Structurer {
	return &Structurer{completer: completer, model: model}
}

// Structure returns structured ingredients in the same order and length as
// the input. The AI path is attempted once; any failure silently drops to
// the deterministic parser.
func (s *Structurer) Structure(ctx context.Context, flat []string) []domain.StructuredIngredient {
	if len(flat) == 0 {
		return nil
	}

	if s.completer != nil && s.model != "" {
		if structured, err := s.structureWithAI(ctx, flat); err == nil {
			return structured
		} else {
			log.Printf("[STRUCTURE] AI structuring failed, using deterministic parser: %v", err)
		}
	}

	out := make([]domain.StructuredIngredient, 0, len(flat))
	for _, line := range flat {
		out = append(out, ParseIngredientLine(line))
	}
	return out
}

// structureWithAI batches every flat string into one call and accepts the
// response only if it is a JSON array of the same length and shape
func (s *Structurer) structureWithAI(ctx context.Context, flat []string) ([]domain.StructuredIngredient, error) {
	listJSON, err := json.Marshal(flat)
	if err != nil {
		return nil, err
	}

	prompt := `For each ingredient string in the JSON array below, extract exactly {"name", "amount", "unit"}. Use an empty string for any field that is not present. Keep descriptive phrasing (like "finely chopped") in "name". Respond with exactly one JSON array of objects, same length and order as the input, no markdown, no commentary.

Input:
` + string(listJSON)

	resp, err := s.completer.Complete(ctx, s.model, prompt)
	if err != nil {
		return nil, err
	}

	cleaned := repairJSONArray(resp.Content)
	var structured []domain.StructuredIngredient
	if err := json.Unmarshal([]byte(cleaned), &structured); err != nil {
		return nil, fmt.Errorf("invalid JSON array from model: %w", err)
	}
	if len(structured) != len(flat) {
		return nil, fmt.Errorf("model returned %d entries for %d ingredients", len(structured), len(flat))
	}
	for i := range structured {
		if strings.TrimSpace(structured[i].Name) == "" {
			return nil, fmt.Errorf("model returned empty name at index %d", i)
		}
	}
	return structured, nil
}

// repairJSONArray strips code fences and trims to the outermost array
func repairJSONArray(content string) string {
	s := strings.TrimSpace(content)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

// ParseIngredientLine is the deterministic fallback parse for one flat
// ingredient string. Leading bullets are stripped, then a quantity token
// (mixed number before fraction before integer, per the shared grammar), then
// a unit token; the remainder, minus a leading "of", becomes the name. With
// no quantity the whole string is the name.
func ParseIngredientLine(line string) domain.StructuredIngredient {
	stripped := strings.TrimSpace(bulletPrefixPattern.ReplaceAllString(line, ""))

	amount, rest, ok := matchQuantity(stripped)
	if !ok {
		return domain.StructuredIngredient{Name: stripped}
	}

	unit, rest, _ := matchUnit(rest)
	name := stripLeadingOf(strings.TrimSpace(rest))
	if name == "" {
		// Quantity with nothing after it: treat the original as name-only
		return domain.StructuredIngredient{Name: stripped}
	}

	return domain.StructuredIngredient{
		Name:   name,
		Amount: amount,
		Unit:   unit,
	}
}
