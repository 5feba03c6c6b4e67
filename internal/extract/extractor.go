package extract

import (
	"net/url"
	"strings"
	"unicode/utf8"

	readability "github.com/go-shiori/go-readability"
	"github.com/rs/zerolog/log"

	"github.com/clipread/clipread/internal/article"
)

// Engine is the primary readability-style extraction algorithm, injected as
// a possibly-absent collaborator so the cascade stays testable without the
// real algorithm present.
type Engine interface {
	// Parse runs the algorithm over raw document HTML. Implementations
	// should return an error rather than a partially-filled candidate.
	Parse(html string, pageURL string) (*Candidate, error)
}

// Candidate is the engine's raw output before normalization into a Record.
type Candidate struct {
	Title       string
	Byline      string
	Content     string
	TextContent string
	Excerpt     string
	SiteName    string
	Language    string
}

// ReadabilityEngine adapts go-readability to the Engine interface.
type ReadabilityEngine struct{}

func (ReadabilityEngine) Parse(html string, pageURL string) (*Candidate, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		u = &url.URL{}
	}
	art, err := readability.FromReader(strings.NewReader(html), u)
	if err != nil {
		return nil, err
	}
	return &Candidate{
		Title:       art.Title,
		Byline:      art.Byline,
		Content:     art.Content,
		TextContent: art.TextContent,
		Excerpt:     art.Excerpt,
		SiteName:    art.SiteName,
		Language:    art.Language,
	}, nil
}

// Readability runs the injected engine over document HTML and normalizes the
// outcome. A nil return means "fall through to the selector extractor": the
// engine being absent, erroring, panicking, or yielding empty text are all
// signaled identically so callers need exactly one branch.
func Readability(engine Engine, html string, pageURL string) (rec *article.Record) {
	if engine == nil {
		return nil
	}
	defer func() {
		// Algorithm defects demote to a nil result, never crash the pipeline.
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Str("url", pageURL).Msg("readability engine panicked")
			rec = nil
		}
	}()

	cand, err := engine.Parse(html, pageURL)
	if err != nil || cand == nil {
		return nil
	}
	text := strings.TrimSpace(cand.TextContent)
	if text == "" {
		return nil
	}

	excerpt := strings.TrimSpace(cand.Excerpt)
	if excerpt == "" {
		excerpt = article.Excerpt(text)
	}
	lang := strings.TrimSpace(cand.Language)
	if lang == "" {
		lang = article.LangUnknown
	}
	return &article.Record{
		Title:       cand.Title,
		Content:     cand.Content,
		TextContent: text,
		Excerpt:     excerpt,
		Byline:      cand.Byline,
		SiteName:    cand.SiteName,
		Lang:        lang,
		Length:      utf8.RuneCountInString(text),
	}
}
