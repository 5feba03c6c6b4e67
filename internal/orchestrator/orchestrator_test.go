package orchestrator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/clipread/clipread/internal/article"
	"github.com/clipread/clipread/internal/fetch"
	"github.com/clipread/clipread/internal/resolver"
)

type stubStrategy struct {
	name string
	rec  *article.Record
	err  error
	seen []string
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Extract(ctx context.Context, pageURL string) (*article.Record, error) {
	s.seen = append(s.seen, pageURL)
	if s.err != nil {
		return nil, s.err
	}
	rec := *s.rec
	rec.Stamp(pageURL, rec.Method)
	return &rec, nil
}

func TestExtract_FirstStrategyWins(t *testing.T) {
	first := &stubStrategy{name: "render", rec: &article.Record{TextContent: "x", Method: article.MethodReadability}}
	second := &stubStrategy{name: "fetch", rec: &article.Record{TextContent: "y", Method: article.MethodFetchReadability}}
	o := &Orchestrator{Strategies: []Strategy{first, second}}

	res := o.Extract(context.Background(), "https://example.com/a")
	if !res.OK() {
		t.Fatalf("expected success, got %q", res.Err)
	}
	if res.Article.Method != article.MethodReadability {
		t.Fatalf("expected first strategy's record, got %q", res.Article.Method)
	}
	if len(second.seen) != 0 {
		t.Fatalf("second strategy must not run when the first succeeds")
	}
}

func TestExtract_FallsThroughOnFailure(t *testing.T) {
	first := &stubStrategy{name: "render", err: errors.New("render timed out")}
	second := &stubStrategy{name: "fetch", rec: &article.Record{TextContent: "y", Method: article.MethodFetchFallback}}
	o := &Orchestrator{Strategies: []Strategy{first, second}}

	res := o.Extract(context.Background(), "https://example.com/a")
	if !res.OK() {
		t.Fatalf("expected fallthrough success, got %q", res.Err)
	}
	if res.Article.Method != article.MethodFetchFallback {
		t.Fatalf("expected second strategy's record, got %q", res.Article.Method)
	}
}

func TestExtract_LastErrorSurfacedVerbatim(t *testing.T) {
	first := &stubStrategy{name: "render", err: errors.New("render timed out")}
	second := &stubStrategy{name: "fetch", err: errors.New("fetch http://x: unexpected status: 404")}
	o := &Orchestrator{Strategies: []Strategy{first, second}}

	res := o.Extract(context.Background(), "https://example.com/a")
	if res.OK() {
		t.Fatal("expected failure")
	}
	if res.Err != "fetch http://x: unexpected status: 404" {
		t.Fatalf("expected second strategy's message verbatim, got %q", res.Err)
	}
}

func TestExtract_ResolvesOnceBeforeStrategies(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer target.Close()
	wrapper := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL+"/real", http.StatusFound)
	}))
	defer wrapper.Close()

	wu, _ := url.Parse(wrapper.URL)
	res := &resolver.Resolver{
		HTTPClient: &http.Client{Timeout: 2 * time.Second},
		Hosts:      []string{wu.Hostname()},
	}

	first := &stubStrategy{name: "render", err: errors.New("down")}
	second := &stubStrategy{name: "fetch", rec: &article.Record{TextContent: "y", Method: article.MethodFetchFallback}}
	o := &Orchestrator{Resolver: res, Strategies: []Strategy{first, second}}

	out := o.Extract(context.Background(), wrapper.URL+"/wrap")
	if !out.OK() {
		t.Fatalf("expected success, got %q", out.Err)
	}
	want := target.URL + "/real"
	if len(first.seen) != 1 || first.seen[0] != want {
		t.Fatalf("first strategy saw %v, want [%s]", first.seen, want)
	}
	if len(second.seen) != 1 || second.seen[0] != want {
		t.Fatalf("second strategy must get the same resolved URL, saw %v", second.seen)
	}
	if out.Article.FinalURL != want {
		t.Fatalf("expected resolved target as finalUrl, got %q", out.Article.FinalURL)
	}
}

// End to end over a real server: the render strategy is down, the fetch
// strategy must carry the attempt with the selector fallback.
func TestExtract_EndToEndFetchFallback(t *testing.T) {
	body := strings.Repeat("an actual paragraph of article prose ", 15)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html lang="en"><body><article>` + body + `</article></body></html>`))
	}))
	defer srv.Close()

	o := &Orchestrator{
		Resolver: &resolver.Resolver{Hosts: []string{"news.google.com"}},
		Strategies: []Strategy{
			&stubStrategy{name: "render", err: errors.New("render timed out")},
			&fetch.Strategy{Client: &fetch.Client{MaxAttempts: 1, PerRequestTimeout: 2 * time.Second}},
		},
	}
	res := o.Extract(context.Background(), srv.URL+"/story")
	if !res.OK() {
		t.Fatalf("expected success, got %q", res.Err)
	}
	if res.Article.Method != article.MethodFetchFallback {
		t.Fatalf("expected method %q, got %q", article.MethodFetchFallback, res.Article.Method)
	}
	if !strings.Contains(res.Article.TextContent, "article prose") {
		t.Fatalf("expected body text, got %q", res.Article.Excerpt)
	}
	if res.Article.FinalURL != srv.URL+"/story" {
		t.Fatalf("fetch finalUrl must be the resolved URL, got %q", res.Article.FinalURL)
	}
}

func TestExtract_NoStrategies(t *testing.T) {
	o := &Orchestrator{}
	res := o.Extract(context.Background(), "https://example.com")
	if res.OK() || res.Err == "" {
		t.Fatalf("expected failure, got %+v", res)
	}
}
