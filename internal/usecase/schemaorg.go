package usecase

import (
	"encoding/json"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/recipeclip/backend/internal/domain"
)

// StructuredRecipe is the normalized result of a JSON-LD Recipe block.
// When present it is authoritative: its ingredient and instruction strings
// are used verbatim, short-circuiting the AI and heuristic paths.
type StructuredRecipe struct {
	Title        string
	Description  string
	Ingredients  []string
	Instructions []string
	CookTime     int // minutes
	Servings     int
	Image        string
}

var (
	isoDurationPattern = regexp.MustCompile(`(?i)^P(?:\d+(?:\.\d+)?D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)
	stepPrefixPattern  = regexp.MustCompile(`(?i)^step\s*\d+\s*[:.)-]?\s*`)
	digitRunPattern    = regexp.MustCompile(`\d+`)
	sentenceSplitGlue  = regexp.MustCompile(`\.\s+([A-Z])`)
)

// ExtractStructuredData scans HTML for embedded JSON-LD and returns the first
// schema.org Recipe node carrying at least one non-empty ingredient or
// instruction. Malformed blocks are skipped individually. Returns
// domain.ErrNoStructuredData when no page block qualifies.
func ExtractStructuredData(rawHTML string) (*StructuredRecipe, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, domain.ErrNoStructuredData
	}

	var found *StructuredRecipe
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var payload any
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			log.Printf("[SCHEMA] Skipping malformed JSON-LD block: %v", err)
			return true
		}
		if recipe := findRecipeNode(payload); recipe != nil {
			found = recipe
			return false // first qualifying block wins
		}
		return true
	})

	if found == nil {
		return nil, domain.ErrNoStructuredData
	}
	return found, nil
}

// findRecipeNode walks a decoded JSON-LD payload (object, array, or @graph
// wrapper) looking for the first qualifying Recipe node
func findRecipeNode(payload any) *StructuredRecipe {
	switch v := payload.(type) {
	case map[string]any:
		if recipe := decodeRecipeNode(v); recipe != nil {
			return recipe
		}
		if graph, ok := v["@graph"]; ok {
			return findRecipeNode(graph)
		}
	case []any:
		for _, item := range v {
			if recipe := findRecipeNode(item); recipe != nil {
				return recipe
			}
		}
	}
	return nil
}

// decodeRecipeNode qualifies and normalizes one candidate node. A node
// qualifies if its @type is (or contains) "Recipe", or leniently if it merely
// carries recipeIngredient/recipeInstructions fields - some sites publish
// free-form structured data without the type declaration.
func decodeRecipeNode(node map[string]any) *StructuredRecipe {
	if !isRecipeType(node["@type"]) {
		if node["recipeIngredient"] == nil && node["recipeInstructions"] == nil {
			return nil
		}
	}

	recipe := &StructuredRecipe{
		Title:        stringField(node["name"]),
		Description:  stringField(node["description"]),
		Ingredients:  normalizeIngredientField(node["recipeIngredient"]),
		Instructions: normalizeInstructionField(node["recipeInstructions"]),
		Image:        imageField(node["image"]),
		Servings:     parseYield(node["recipeYield"]),
	}

	duration := stringField(node["totalTime"])
	if duration == "" {
		duration = stringField(node["cookTime"])
	}
	recipe.CookTime = parseISODurationMinutes(duration)

	if len(recipe.Ingredients) == 0 && len(recipe.Instructions) == 0 {
		return nil
	}
	return recipe
}

// isRecipeType handles @type declared as a string or an array of strings
func isRecipeType(typeField any) bool {
	switch v := typeField.(type) {
	case string:
		return strings.EqualFold(v, "Recipe")
	case []any:
		for _, t := range v {
			if s, ok := t.(string); ok && strings.EqualFold(s, "Recipe") {
				return true
			}
		}
	}
	return false
}

// normalizeIngredientField accepts an array of strings or a single
// newline-delimited string, trimming entries and stripping leading bullets
func normalizeIngredientField(field any) []string {
	var out []string
	switch v := field.(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				if cleaned := strings.TrimSpace(s); cleaned != "" {
					out = append(out, cleaned)
				}
			}
		}
	case string:
		for _, line := range strings.Split(v, "\n") {
			line = bulletPrefixPattern.ReplaceAllString(line, "")
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
	}
	return out
}

// normalizeInstructionField accepts an array of strings, an array of step
// objects (reading .text, else .name, else a nested itemListElement), or a
// single string split on blank lines / sentence boundaries. "Step N:"
// prefixes are stripped from every resulting line.
func normalizeInstructionField(field any) []string {
	var out []string
	switch v := field.(type) {
	case []any:
		for _, item := range v {
			switch step := item.(type) {
			case string:
				out = appendInstruction(out, step)
			case map[string]any:
				if nested, ok := step["itemListElement"]; ok {
					out = append(out, normalizeInstructionField(nested)...)
					continue
				}
				text := stringField(step["text"])
				if text == "" {
					text = stringField(step["name"])
				}
				out = appendInstruction(out, text)
			}
		}
	case string:
		out = splitInstructionText(v)
	case map[string]any:
		if nested, ok := v["itemListElement"]; ok {
			return normalizeInstructionField(nested)
		}
	}
	return out
}

// splitInstructionText breaks a single instruction blob into steps, first on
// blank lines, else on sentence-ending periods followed by a capital letter
func splitInstructionText(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var parts []string
	if strings.Contains(text, "\n\n") {
		parts = strings.Split(text, "\n\n")
	} else {
		marked := sentenceSplitGlue.ReplaceAllString(text, ".\x00$1")
		parts = strings.Split(marked, "\x00")
	}

	var out []string
	for _, p := range parts {
		out = appendInstruction(out, p)
	}
	return out
}

func appendInstruction(out []string, step string) []string {
	step = stepPrefixPattern.ReplaceAllString(strings.TrimSpace(step), "")
	if step != "" {
		out = append(out, step)
	}
	return out
}

// parseISODurationMinutes converts an ISO-8601 duration (PT1H30M style) to
// integer minutes; anything unparsable is 0
func parseISODurationMinutes(duration string) int {
	m := isoDurationPattern.FindStringSubmatch(strings.TrimSpace(duration))
	if m == nil {
		return 0
	}

	minutes := 0
	if m[1] != "" {
		h, _ := strconv.Atoi(m[1])
		minutes += h * 60
	}
	if m[2] != "" {
		mm, _ := strconv.Atoi(m[2])
		minutes += mm
	}
	if m[3] != "" {
		s, _ := strconv.ParseFloat(m[3], 64)
		minutes += int(math.Round(s / 60))
	}
	return minutes
}

// parseYield reads recipeYield as a number or as the first digit run of a
// string ("Serves 4", "4 servings"); defaults to 1
func parseYield(field any) int {
	switch v := field.(type) {
	case float64:
		if v >= 1 {
			return int(v)
		}
	case string:
		if run := digitRunPattern.FindString(v); run != "" {
			if n, err := strconv.Atoi(run); err == nil && n >= 1 {
				return n
			}
		}
	case []any:
		for _, item := range v {
			if n := parseYield(item); n > 1 {
				return n
			}
		}
	}
	return 1
}

// imageField reads schema.org image as a string, an ImageObject, or an array
func imageField(field any) string {
	switch v := field.(type) {
	case string:
		return v
	case map[string]any:
		if u := stringField(v["url"]); u != "" {
			return u
		}
		return stringField(v["@id"])
	case []any:
		for _, item := range v {
			if u := imageField(item); u != "" {
				return u
			}
		}
	}
	return ""
}

// stringField reads a JSON field expected to be a string, tolerating nil
func stringField(field any) string {
	if s, ok := field.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
