package usecase

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// noiseSelector removes non-content containers wholesale, inner text included
const noiseSelector = "script, style, noscript, iframe, form, svg, nav, header, footer, aside, " +
	"[class*='advert'], [class*='-ad-'], [class*='ads'], [id*='advert'], " +
	"[class*='sidebar'], [id*='sidebar'], [class*='cookie'], [class*='newsletter'], " +
	"[class*='social-share'], [class*='comment-']"

// blockTags are elements whose boundaries become newlines in the output
var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "main": true,
	"ul": true, "ol": true, "table": true, "tr": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"figcaption": true, "dt": true, "dd": true, "pre": true,
}

var (
	horizontalSpacePattern = regexp.MustCompile(`[ \t\x{00a0}]+`)
	tagPattern             = regexp.MustCompile(`(?s)<[^>]*>`)
	scriptBlockPattern     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>|<style[^>]*>.*?</style>`)
)

// NormalizeHTML converts raw HTML into plain text, preserving paragraph and
// list-item boundaries as newlines (list items become "- "-prefixed lines) so
// the line-oriented parsers downstream can still see document structure.
// Pure function; malformed HTML degrades to a cleaned text blob, never an error.
func NormalizeHTML(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return collapseText(stripTagsFallback(rawHTML))
	}

	doc.Find(noiseSelector).Remove()

	root := doc.Find("body")
	if len(root.Nodes) == 0 {
		root = doc.Selection
	}

	var sb strings.Builder
	for _, node := range root.Nodes {
		writeNodeText(node, &sb)
	}

	return collapseText(sb.String())
}

// writeNodeText walks the node tree emitting text content with newline
// markers at block boundaries, "- " prefixes on list items and newlines for <br>
func writeNodeText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		switch {
		case n.Data == "br":
			sb.WriteString("\n")
			return
		case n.Data == "li":
			sb.WriteString("\n- ")
		case n.Data == "td" || n.Data == "th":
			sb.WriteString(" ")
		case blockTags[n.Data]:
			sb.WriteString("\n")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNodeText(c, sb)
	}

	if n.Type == html.ElementNode && (blockTags[n.Data] || n.Data == "li") {
		sb.WriteString("\n")
	}
}

// collapseText normalizes whitespace: horizontal runs become one space, each
// line is trimmed, and runs of blank lines shrink to a single blank line.
// The function is a fixed point on its own output.
func collapseText(text string) string {
	text = horizontalSpacePattern.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blankPending := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			blankPending = len(out) > 0
			continue
		}
		if blankPending {
			out = append(out, "")
			blankPending = false
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

// stripTagsFallback is the degraded path when HTML parsing itself fails:
// drop script/style blocks, strip remaining tags, decode common entities.
func stripTagsFallback(rawHTML string) string {
	text := scriptBlockPattern.ReplaceAllString(rawHTML, " ")
	text = tagPattern.ReplaceAllString(text, "\n")
	return decodeEntities(text)
}

// decodeEntities decodes the entities that matter for recipe text
func decodeEntities(s string) string {
	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
	return replacer.Replace(s)
}
