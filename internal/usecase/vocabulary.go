package usecase

import (
	"regexp"
	"strings"
)

// This file is the single source of truth for the cooking vocabulary and the
// quantity-token grammar. Both the heuristic line parser and the deterministic
// ingredient structurer read from here so the two never drift apart.

// unitTokens contains every accepted unit spelling (singular, plural,
// abbreviated). Matching is case-insensitive and tolerates a trailing period.
var unitTokens = map[string]bool{
	"teaspoon": true, "teaspoons": true, "tsp": true, "tsps": true,
	"tablespoon": true, "tablespoons": true, "tbsp": true, "tbsps": true,
	"cup": true, "cups": true,
	"ounce": true, "ounces": true, "oz": true,
	"pound": true, "pounds": true, "lb": true, "lbs": true,
	"gram": true, "grams": true, "g": true,
	"kilogram": true, "kilograms": true, "kg": true,
	"milliliter": true, "milliliters": true, "ml": true,
	"liter": true, "liters": true, "l": true,
	"pinch": true, "pinches": true,
	"dash": true, "dashes": true,
	"clove": true, "cloves": true,
	"slice": true, "slices": true,
	"package": true, "packages": true, "pkg": true,
	"can": true, "cans": true,
}

// actionVerbs are cooking verbs used to classify instruction lines and to
// reject instruction-shaped lines that leaked into the ingredient list
var actionVerbs = map[string]bool{
	"heat": true, "preheat": true, "cook": true, "bake": true, "boil": true,
	"simmer": true, "fry": true, "saute": true, "roast": true, "grill": true,
	"mix": true, "stir": true, "whisk": true, "beat": true, "fold": true,
	"add": true, "combine": true, "blend": true, "pour": true, "drain": true,
	"chop": true, "dice": true, "mince": true, "knead": true, "season": true,
	"sprinkle": true, "spread": true, "melt": true, "cool": true, "serve": true,
	"remove": true, "transfer": true, "cover": true, "reduce": true, "bring": true,
	"place": true, "arrange": true, "garnish": true, "repeat": true, "flip": true,
}

// connectorWords pair with an action verb to mark a line as instruction-like
// ("bake until golden", "simmer for 10 minutes")
var connectorWords = map[string]bool{
	"until": true, "for": true, "in": true, "with": true, "into": true,
	"over": true, "about": true, "then": true,
}

// sectionHeaderWords mark headings that toggle the parser's section state
var (
	ingredientHeaderWords  = []string{"ingredient"}
	instructionHeaderWords = []string{"instruction", "direction", "method", "steps", "preparation"}
)

// genericRecipeWords disqualify a line from being picked as the page title
var genericRecipeWords = []string{
	"ingredient", "instruction", "direction", "recipe", "method", "step",
	"serving", "nutrition", "comment", "print", "share", "subscribe",
}

// foodWords is a coarse food-domain check used only by the degenerate-input
// fallback (e.g. a terse shorts caption with no sentence structure)
var foodWords = map[string]bool{
	"chicken": true, "beef": true, "pork": true, "fish": true, "salmon": true,
	"shrimp": true, "tofu": true, "egg": true, "eggs": true, "cheese": true,
	"butter": true, "cream": true, "milk": true, "yogurt": true,
	"flour": true, "sugar": true, "salt": true, "pepper": true, "oil": true,
	"garlic": true, "onion": true, "tomato": true, "potato": true, "carrot": true,
	"rice": true, "pasta": true, "noodles": true, "bread": true, "dough": true,
	"sauce": true, "broth": true, "stock": true, "vinegar": true, "honey": true,
	"lemon": true, "lime": true, "basil": true, "cilantro": true, "parsley": true,
	"cinnamon": true, "vanilla": true, "chocolate": true, "cheesecake": true,
	"soup": true, "salad": true, "pizza": true, "taco": true, "curry": true,
	"marinade": true, "batter": true, "frosting": true, "oven": true, "pan": true,
	"skillet": true, "grill": true, "recipe": true, "cook": true, "bake": true,
}

// quantityPattern matches a leading quantity token. The alternatives are
// priority-ordered: mixed number, dashed mixed number, vulgar fraction,
// decimal, integer, then a single Unicode fraction glyph. The ordering keeps
// "1 1/2" from being captured as just "1".
var quantityPattern = regexp.MustCompile(
	`^\s*(\d+\s+\d+\s*/\s*\d+|\d+-\d+/\d+|\d+\s*/\s*\d+|\d+\.\d+|\d+|[¼½¾⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞])`,
)

// bulletPrefixPattern strips leading list markers from a line
var bulletPrefixPattern = regexp.MustCompile(`^\s*(?:[-*•▢◦‣]|\d+[.)])\s*`)

// matchQuantity captures a leading quantity token, returning the token, the
// remainder of the string, and whether anything matched
func matchQuantity(s string) (amount, rest string, ok bool) {
	m := quantityPattern.FindStringSubmatchIndex(s)
	if m == nil {
		return "", s, false
	}
	amount = strings.Join(strings.Fields(s[m[2]:m[3]]), " ")
	rest = strings.TrimSpace(s[m[3]:])
	return amount, rest, true
}

// matchUnit captures a leading unit token (case-insensitive, optional
// trailing period), returning it as written in the input
func matchUnit(s string) (unit, rest string, ok bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", s, false
	}
	token := fields[0]
	normalized := strings.ToLower(strings.TrimSuffix(token, "."))
	if !unitTokens[normalized] {
		return "", s, false
	}
	unit = strings.TrimSuffix(token, ".")
	rest = strings.TrimSpace(strings.TrimPrefix(s, token))
	return unit, rest, true
}

// containsActionVerb reports whether any word of the line is a cooking verb
func containsActionVerb(line string) bool {
	for _, word := range strings.Fields(strings.ToLower(line)) {
		if actionVerbs[strings.Trim(word, ",.;:!?()")] {
			return true
		}
	}
	return false
}

// containsConnectorWord reports whether any word is a temporal/relational connector
func containsConnectorWord(line string) bool {
	for _, word := range strings.Fields(strings.ToLower(line)) {
		if connectorWords[strings.Trim(word, ",.;:!?()")] {
			return true
		}
	}
	return false
}

// containsFoodWord reports whether the text mentions any food-domain term
func containsFoodWord(text string) bool {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if foodWords[strings.Trim(word, ",.;:!?()#")] {
			return true
		}
	}
	return false
}
