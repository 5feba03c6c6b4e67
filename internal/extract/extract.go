package extract

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/language"

	"github.com/clipread/clipread/internal/article"
)

// minContentChars is the threshold a selector candidate must clear before it
// is accepted as the article body.
const minContentChars = 200

// titleSelectors are tried in order; the first non-empty value wins. The
// final "Untitled" literal makes the title total.
var titleSelectors = []struct {
	selector string
	attr     string
}{
	{`meta[property="og:title"]`, "content"},
	{`meta[name="twitter:title"]`, "content"},
	{`h1`, ""},
	{`title`, ""},
}

// contentSelectors are structural and conventional article containers, in
// priority order. Kept as data so the priority is testable on its own.
var contentSelectors = []string{
	"article",
	`[role="article"]`,
	".post-content",
	".article-content",
	".entry-content",
	".story-body",
	"main",
	"#content",
}

// ParseDocument parses raw HTML into a detached DOM tree. No scripts run and
// no subresources load; the tree is a pure function of the bytes.
func ParseDocument(htmlBytes []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(htmlBytes))
}

// Fallback is the deterministic selector-based extractor used when the
// readability engine is absent or produced nothing. It never fails: when no
// recognized container clears the length threshold the whole body is used,
// which needs no threshold at all.
func Fallback(doc *goquery.Document, pageURL string) *article.Record {
	title := "Untitled"
	for _, c := range titleSelectors {
		sel := doc.Find(c.selector).First()
		var v string
		if c.attr != "" {
			v, _ = sel.Attr(c.attr)
		} else {
			v = sel.Text()
		}
		if v = strings.TrimSpace(v); v != "" {
			title = v
			break
		}
	}

	var chosen *goquery.Selection
	for _, sel := range contentSelectors {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		c := cleaned(s)
		if utf8.RuneCountInString(strings.TrimSpace(c.Text())) > minContentChars {
			chosen = c
			break
		}
	}
	if chosen == nil {
		// Last resort: the whole body, no length threshold, so the
		// extractor is total.
		chosen = cleaned(doc.Find("body"))
	}

	text := normalizeWhitespace(chosen.Text())
	content, _ := chosen.Html()

	siteName, _ := doc.Find(`meta[property="og:site_name"]`).First().Attr("content")

	return &article.Record{
		Title:       title,
		Content:     strings.TrimSpace(content),
		TextContent: text,
		Excerpt:     article.Excerpt(text),
		Byline:      "", // the fallback has no byline heuristic
		SiteName:    strings.TrimSpace(siteName),
		Lang:        documentLang(doc),
		Length:      utf8.RuneCountInString(text),
	}
}

// cleaned returns a detached clone of the selection with script/style noise
// removed, so measurement and extraction never mutate the caller's tree.
func cleaned(s *goquery.Selection) *goquery.Selection {
	c := s.Clone()
	c.Find("script, style, noscript, iframe, svg").Remove()
	return c
}

// documentLang reads the declared <html lang> attribute and normalizes it to
// a canonical tag, or "unknown" when absent or unparseable.
func documentLang(doc *goquery.Document) string {
	attr, _ := doc.Find("html").First().Attr("lang")
	attr = strings.TrimSpace(attr)
	if attr == "" {
		return article.LangUnknown
	}
	tag, err := language.Parse(attr)
	if err != nil {
		return article.LangUnknown
	}
	return tag.String()
}

var spaceRe = regexp.MustCompile(`[ \t]+`)
var blankRe = regexp.MustCompile(`\n{3,}`)

// normalizeWhitespace collapses runs of spaces and excess blank lines while
// keeping paragraph breaks readable.
func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = spaceRe.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = blankRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
