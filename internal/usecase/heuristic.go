package usecase

import (
	"log"
	"regexp"
	"strings"
)

// Caps on heuristic yield; noisy pages otherwise produce runaway false positives
const (
	maxHeuristicIngredients  = 20
	maxHeuristicInstructions = 20
)

// Window of leading lines searched for a title, and plausible title lengths
const (
	titleSearchWindow = 30
	minTitleLen       = 4
	maxTitleLen       = 80
)

// Plausible instruction lengths
const (
	minInstructionLen = 15
	maxInstructionLen = 300
)

// HeuristicResult is the output of the rule-based parser
type HeuristicResult struct {
	Title        string
	Ingredients  []string
	Instructions []string
}

// reversedIngredientPattern matches a "name — quantity unit" line
// ("flour — 2 cups")
var reversedIngredientPattern = regexp.MustCompile(
	`^(.{2,60}?)\s*[—–-]\s*(\d+(?:\s+\d+\s*/\s*\d+)?|\d+\s*/\s*\d+|\d+\.\d+|[¼½¾⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞])\s*(\S*)\s*$`,
)

var (
	markdownHeadingPattern = regexp.MustCompile(`^#+\s*`)
	numberedStepPattern    = regexp.MustCompile(`^\s*\d+\s*[.)]\s+\S`)
	namePunctuationPattern = regexp.MustCompile(`[,.;:()]+`)
)

// section is the parser's two-state (plus neutral) automaton value
type section int

const (
	sectionNeutral section = iota
	sectionIngredients
	sectionInstructions
)

// ParseHeuristic classifies lines of normalized text as ingredient-like or
// instruction-like using lexical cues. It is the last-resort path, used only
// when no structured data was found and every AI attempt failed; it never
// errors, it only yields less.
func ParseHeuristic(text string) *HeuristicResult {
	result := &HeuristicResult{}
	seenInstructions := make(map[string]bool)
	current := sectionNeutral

	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if s, ok := classifySectionHeader(line); ok {
			current = s
			continue
		}

		if ing, ok := classifyIngredientLine(line); ok && len(result.Ingredients) < maxHeuristicIngredients {
			result.Ingredients = append(result.Ingredients, ing)
			continue
		}

		if current == sectionIngredients && len(result.Ingredients) < maxHeuristicIngredients {
			if ing, ok := classifyBareIngredientLine(line); ok {
				result.Ingredients = append(result.Ingredients, ing)
				continue
			}
		}

		if inst, ok := classifyInstructionLine(line, current); ok && len(result.Instructions) < maxHeuristicInstructions {
			key := strings.ToLower(inst)
			if !seenInstructions[key] {
				seenInstructions[key] = true
				result.Instructions = append(result.Instructions, inst)
			}
			continue
		}

		if result.Title == "" && i < titleSearchWindow {
			if isTitleCandidate(line) {
				result.Title = line
			}
		}
	}

	// Degenerate input (a terse caption, no sentence structure): keep the
	// whole text as one instruction rather than returning nothing.
	if len(result.Ingredients) == 0 && len(result.Instructions) == 0 {
		compact := strings.TrimSpace(strings.Join(strings.Fields(text), " "))
		if compact != "" && len(compact) < 280 && containsFoodWord(compact) {
			result.Instructions = []string{compact}
		}
	}

	log.Printf("[HEURISTIC] Parsed %d ingredients, %d instructions", len(result.Ingredients), len(result.Instructions))
	return result
}

// classifySectionHeader recognizes short heading lines like "Ingredients" or
// "Directions" that toggle the section automaton. Entering one section
// always leaves the other.
func classifySectionHeader(line string) (section, bool) {
	stripped := markdownHeadingPattern.ReplaceAllString(line, "")
	stripped = strings.TrimSuffix(strings.TrimSpace(stripped), ":")
	if len(stripped) > 30 || containsActionVerb(stripped) {
		return sectionNeutral, false
	}
	lower := strings.ToLower(stripped)

	for _, w := range ingredientHeaderWords {
		if strings.Contains(lower, w) {
			return sectionIngredients, true
		}
	}
	for _, w := range instructionHeaderWords {
		if strings.Contains(lower, w) {
			return sectionInstructions, true
		}
	}
	return sectionNeutral, false
}

// classifyIngredientLine tests the quantity+unit+descriptor shape and the
// reversed "name — quantity unit" shape. Matched lines are rebuilt as
// "amount unit Name" with the name cleaned and title-cased; lines whose name
// contains a cooking verb are rejected as misclassified instructions.
func classifyIngredientLine(line string) (string, bool) {
	stripped := bulletPrefixPattern.ReplaceAllString(line, "")

	if amount, rest, ok := matchQuantity(stripped); ok {
		unit, name, _ := matchUnit(rest)
		name = cleanIngredientName(name)
		if name == "" || containsActionVerb(name) {
			return "", false
		}
		return joinIngredient(amount, unit, name), true
	}

	if m := reversedIngredientPattern.FindStringSubmatch(stripped); m != nil {
		name := cleanIngredientName(m[1])
		if name == "" || containsActionVerb(name) {
			return "", false
		}
		unit := ""
		if u, _, ok := matchUnit(m[3]); ok {
			unit = u
		}
		return joinIngredient(strings.TrimSpace(m[2]), unit, name), true
	}

	return "", false
}

// classifyBareIngredientLine accepts short name-only lines ("salt to taste")
// while the automaton is inside an ingredients section
func classifyBareIngredientLine(line string) (string, bool) {
	stripped := bulletPrefixPattern.ReplaceAllString(line, "")
	if len(stripped) < 2 || len(stripped) > 60 {
		return "", false
	}
	if containsActionVerb(stripped) && containsConnectorWord(stripped) {
		return "", false
	}
	name := cleanIngredientName(stripped)
	if name == "" {
		return "", false
	}
	return name, true
}

// classifyInstructionLine tests for a numbered/bulleted step or an
// action-verb + connector combination within a plausible length window.
// Leading numbering, bullets and markdown heading markers are stripped.
func classifyInstructionLine(line string, current section) (string, bool) {
	numbered := numberedStepPattern.MatchString(line)
	stripped := markdownHeadingPattern.ReplaceAllString(line, "")
	stripped = strings.TrimSpace(bulletPrefixPattern.ReplaceAllString(stripped, ""))

	if len(stripped) < minInstructionLen || len(stripped) > maxInstructionLen {
		return "", false
	}

	if numbered && current != sectionIngredients {
		return stripped, true
	}
	if containsActionVerb(stripped) && containsConnectorWord(stripped) {
		return stripped, true
	}
	if current == sectionInstructions && containsActionVerb(stripped) {
		return stripped, true
	}
	return "", false
}

// isTitleCandidate applies the best-effort title heuristic: capitalized,
// plausible length, no bullets or dashes, no recipe-generic word
func isTitleCandidate(line string) bool {
	if len(line) < minTitleLen || len(line) > maxTitleLen {
		return false
	}
	first := rune(line[0])
	if first < 'A' || first > 'Z' {
		return false
	}
	if strings.ContainsAny(line, "-–—•*|") {
		return false
	}
	lower := strings.ToLower(line)
	for _, w := range genericRecipeWords {
		if strings.Contains(lower, w) {
			return false
		}
	}
	if _, ok := classifyIngredientLine(line); ok {
		return false
	}
	if _, ok := classifyInstructionLine(line, sectionNeutral); ok {
		return false
	}
	return true
}

// cleanIngredientName strips punctuation noise, a leading "of", and title-cases
func cleanIngredientName(name string) string {
	name = namePunctuationPattern.ReplaceAllString(name, " ")
	name = strings.TrimSpace(strings.Join(strings.Fields(name), " "))
	name = stripLeadingOf(name)
	if name == "" {
		return ""
	}
	return titleCaseWords(name)
}

// stripLeadingOf removes the "of" glue between a unit and the name ("cups of flour")
func stripLeadingOf(name string) string {
	lower := strings.ToLower(name)
	if lower == "of" {
		return ""
	}
	if strings.HasPrefix(lower, "of ") {
		return strings.TrimSpace(name[3:])
	}
	return name
}

// titleCaseWords uppercases the first letter of each word, leaving the rest
// of each word untouched
func titleCaseWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if r[0] >= 'a' && r[0] <= 'z' {
			r[0] = r[0] - 'a' + 'A'
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// joinIngredient rebuilds a flat ingredient string from its parts
func joinIngredient(amount, unit, name string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{amount, unit, name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
