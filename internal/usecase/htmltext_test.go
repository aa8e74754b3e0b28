package usecase

import (
	"strings"
	"testing"
)

func TestNormalizeHTML(t *testing.T) {
	t.Run("strips scripts and styles including inner text", func(t *testing.T) {
		html := `<html><body><p>Real content</p><script>var tracking = "junk";</script><style>.x{color:red}</style></body></html>`
		got := NormalizeHTML(html)

		if !strings.Contains(got, "Real content") {
			t.Errorf("output missing content: %q", got)
		}
		if strings.Contains(got, "tracking") || strings.Contains(got, "color:red") {
			t.Errorf("output contains script/style text: %q", got)
		}
	})

	t.Run("strips nav header footer wholesale", func(t *testing.T) {
		html := `<body><nav>Home | About</nav><header>Site Title</header><p>Recipe text</p><footer>Copyright</footer></body>`
		got := NormalizeHTML(html)

		for _, junk := range []string{"Home", "Site Title", "Copyright"} {
			if strings.Contains(got, junk) {
				t.Errorf("output contains %q: %q", junk, got)
			}
		}
		if !strings.Contains(got, "Recipe text") {
			t.Errorf("output missing content: %q", got)
		}
	})

	t.Run("list items become dash-prefixed lines", func(t *testing.T) {
		html := `<ul><li>2 cups flour</li><li>1 tsp salt</li></ul>`
		got := NormalizeHTML(html)

		if !strings.Contains(got, "- 2 cups flour") {
			t.Errorf("missing list marker: %q", got)
		}
		if !strings.Contains(got, "- 1 tsp salt") {
			t.Errorf("missing list marker: %q", got)
		}
	})

	t.Run("block boundaries become newlines", func(t *testing.T) {
		html := `<p>First paragraph</p><p>Second paragraph</p><div>A div</div>`
		got := NormalizeHTML(html)

		lines := strings.Split(got, "\n")
		var nonEmpty []string
		for _, l := range lines {
			if l != "" {
				nonEmpty = append(nonEmpty, l)
			}
		}
		if len(nonEmpty) != 3 {
			t.Errorf("expected 3 lines, got %d: %q", len(nonEmpty), got)
		}
	})

	t.Run("br becomes newline", func(t *testing.T) {
		got := NormalizeHTML(`<p>line one<br>line two</p>`)
		if !strings.Contains(got, "line one\nline two") {
			t.Errorf("br not converted: %q", got)
		}
	})

	t.Run("entities are decoded", func(t *testing.T) {
		got := NormalizeHTML(`<p>Salt &amp; pepper &quot;to taste&quot;</p>`)
		if !strings.Contains(got, `Salt & pepper "to taste"`) {
			t.Errorf("entities not decoded: %q", got)
		}
	})

	t.Run("horizontal whitespace collapses", func(t *testing.T) {
		got := NormalizeHTML("<p>too     many\tspaces</p>")
		if !strings.Contains(got, "too many spaces") {
			t.Errorf("whitespace not collapsed: %q", got)
		}
	})

	t.Run("never errors on malformed HTML", func(t *testing.T) {
		inputs := []string{
			"",
			"<<<>>>",
			"<p>unclosed",
			"plain text with no tags at all",
			"<div><div><div>deep",
		}
		for _, in := range inputs {
			_ = NormalizeHTML(in) // must not panic
		}
	})

	t.Run("normalization is idempotent", func(t *testing.T) {
		inputs := []string{
			`<html><body><h1>Pancakes</h1><ul><li>2 cups flour</li><li>1 egg</li></ul><p>Mix well.   Then bake.</p></body></html>`,
			`<p>Salt &amp; pepper</p><div>Stir   until    smooth</div>`,
		}
		for _, in := range inputs {
			once := NormalizeHTML(in)
			twice := NormalizeHTML(once)
			if once != twice {
				t.Errorf("not a fixed point:\nonce:  %q\ntwice: %q", once, twice)
			}
		}
	})
}
