package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/clipread/clipread/internal/article"
)

type fakeEngine struct {
	cand *Candidate
	err  error
}

func (f fakeEngine) Parse(html, pageURL string) (*Candidate, error) { return f.cand, f.err }

type panicEngine struct{}

func (panicEngine) Parse(html, pageURL string) (*Candidate, error) { panic("algorithm defect") }

func TestReadability_NilEngine(t *testing.T) {
	if rec := Readability(nil, "<html></html>", "https://example.com"); rec != nil {
		t.Fatalf("absent engine must yield nil, got %+v", rec)
	}
}

func TestReadability_EngineError(t *testing.T) {
	eng := fakeEngine{err: errors.New("boom")}
	if rec := Readability(eng, "<html></html>", "https://example.com"); rec != nil {
		t.Fatalf("engine error must demote to nil, got %+v", rec)
	}
}

func TestReadability_EmptyTextDemotesToNil(t *testing.T) {
	eng := fakeEngine{cand: &Candidate{Title: "t", TextContent: "   \n "}}
	if rec := Readability(eng, "<html></html>", "https://example.com"); rec != nil {
		t.Fatalf("empty text must demote to nil, got %+v", rec)
	}
}

func TestReadability_PanicAbsorbed(t *testing.T) {
	if rec := Readability(panicEngine{}, "<html></html>", "https://example.com"); rec != nil {
		t.Fatalf("engine panic must demote to nil, got %+v", rec)
	}
}

func TestReadability_NormalizesResult(t *testing.T) {
	text := strings.Repeat("words ", 100)
	eng := fakeEngine{cand: &Candidate{
		Title:       "A Title",
		Byline:      "Jane Doe",
		Content:     "<p>words</p>",
		TextContent: text,
		SiteName:    "Example",
	}}
	rec := Readability(eng, "<html></html>", "https://example.com")
	if rec == nil {
		t.Fatal("expected a record")
	}
	if rec.Title != "A Title" || rec.Byline != "Jane Doe" || rec.SiteName != "Example" {
		t.Fatalf("metadata not carried over: %+v", rec)
	}
	if rec.Lang != article.LangUnknown {
		t.Fatalf("missing language must default to unknown, got %q", rec.Lang)
	}
	if rec.Excerpt == "" || !strings.HasSuffix(rec.Excerpt, "…") {
		t.Fatalf("expected derived excerpt with ellipsis, got %q", rec.Excerpt)
	}
	if rec.Length == 0 {
		t.Fatalf("expected non-zero length")
	}
}

func TestReadability_KeepsEngineExcerpt(t *testing.T) {
	eng := fakeEngine{cand: &Candidate{
		TextContent: strings.Repeat("long text ", 50),
		Excerpt:     "engine excerpt",
		Language:    "fi",
	}}
	rec := Readability(eng, "<html></html>", "https://example.com")
	if rec == nil {
		t.Fatal("expected a record")
	}
	if rec.Excerpt != "engine excerpt" {
		t.Fatalf("engine-provided excerpt must win, got %q", rec.Excerpt)
	}
	if rec.Lang != "fi" {
		t.Fatalf("engine language must be kept, got %q", rec.Lang)
	}
}

func TestReadabilityEngine_ParsesRealDocument(t *testing.T) {
	paras := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		paras = append(paras, "<p>"+strings.Repeat("meaningful sentence content here. ", 5)+"</p>")
	}
	html := `<html><head><title>Real Article</title></head><body><article>` +
		strings.Join(paras, "\n") + `</article></body></html>`

	rec := Readability(ReadabilityEngine{}, html, "https://example.com/story")
	if rec == nil {
		t.Fatal("expected readability to extract a substantial article")
	}
	if !strings.Contains(rec.TextContent, "meaningful sentence content") {
		t.Fatalf("expected body text, got %q", rec.Excerpt)
	}
}
