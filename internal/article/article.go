package article

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Method tags identify which strategy/extractor pair produced a record.
// These values are part of the observable response contract and must not
// be renamed.
const (
	MethodReadability      = "readability"
	MethodFallback         = "fallback"
	MethodFetchReadability = "fetch+readability"
	MethodFetchFallback    = "fetch+fallback"
)

// ExcerptLength is the truncation point for derived excerpts, in runes.
const ExcerptLength = 200

// LangUnknown is the language tag used when no language could be detected.
const LangUnknown = "unknown"

// Record is the canonical article produced by one extraction attempt. It is
// constructed exactly once inside a single strategy attempt and never
// mutated afterwards; a retry with another strategy builds a new Record.
type Record struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	TextContent string    `json:"textContent"`
	Excerpt     string    `json:"excerpt"`
	Byline      string    `json:"byline"`
	SiteName    string    `json:"siteName"`
	Lang        string    `json:"lang"`
	Length      int       `json:"length"`
	// FinalURL is the URL actually rendered or fetched. For the render
	// strategy it reflects the live tab location and may include in-page
	// client-side redirects; for the fetch strategy it is the resolved URL
	// only.
	FinalURL    string    `json:"finalUrl"`
	Method      string    `json:"method"`
	ExtractedAt time.Time `json:"extractedAt"`
}

// Stamp fills the per-attempt fields set by a strategy just before it hands
// the record back: where the content actually came from, which pair produced
// it, and when.
func (r *Record) Stamp(finalURL, method string) {
	r.FinalURL = finalURL
	r.Method = method
	r.ExtractedAt = time.Now().UTC()
}

// Result is the single value returned across the module boundary: either a
// complete record with non-empty text, or a failure message. Exactly one
// variant is populated.
type Result struct {
	Article *Record
	Err     string
}

// OK reports whether the result carries a record.
func (res Result) OK() bool { return res.Article != nil }

// Success wraps a record into a Result.
func Success(rec *Record) Result { return Result{Article: rec} }

// Failure wraps an error message into a Result.
func Failure(msg string) Result { return Result{Err: msg} }

// Excerpt derives an excerpt from plain text: the first ExcerptLength runes
// followed by a single ellipsis, or the whole text when it is shorter.
func Excerpt(text string) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= ExcerptLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:ExcerptLength]) + "…"
}
