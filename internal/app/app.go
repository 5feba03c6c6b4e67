package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/clipread/clipread/internal/article"
	"github.com/clipread/clipread/internal/extract"
	"github.com/clipread/clipread/internal/fetch"
	"github.com/clipread/clipread/internal/orchestrator"
	"github.com/clipread/clipread/internal/render"
	"github.com/clipread/clipread/internal/resolver"
)

// ErrExtractionFailed is returned when every strategy failed. Per the exit
// code policy the CLI maps it to a non-zero exit.
var ErrExtractionFailed = fmt.Errorf("extraction failed")

// extractor lets tests swap the real orchestrator for a stub.
type extractor interface {
	Extract(ctx context.Context, url string) article.Result
}

type App struct {
	cfg  Config
	orch extractor
}

// New wires the pipeline from configuration: one resolver, then the render
// strategy (unless disabled) followed by the fetch strategy, both feeding
// the same readability engine.
func New(cfg Config) *App {
	if cfg.UserAgent == "" {
		cfg.UserAgent = UserAgentDefault
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = FetchTimeoutDefault
	}

	httpClient := newHTTPClient()
	engine := extract.ReadabilityEngine{}

	var strategies []orchestrator.Strategy
	if !cfg.DisableRender {
		strategies = append(strategies, &render.Strategy{
			Capturer: &render.ChromeCapturer{UserAgent: cfg.UserAgent, ExecPath: cfg.ChromePath},
			Engine:   engine,
		})
	}
	strategies = append(strategies, &fetch.Strategy{
		Client: &fetch.Client{
			HTTPClient:        httpClient,
			UserAgent:         cfg.UserAgent,
			MaxAttempts:       2,
			PerRequestTimeout: cfg.FetchTimeout,
			RedirectMaxHops:   5,
		},
		Engine: engine,
	})

	return &App{
		cfg: cfg,
		orch: &orchestrator.Orchestrator{
			Resolver:   &resolver.Resolver{HTTPClient: httpClient, UserAgent: cfg.UserAgent},
			Strategies: strategies,
		},
	}
}

// Run performs one extraction and writes the result artifacts.
func (a *App) Run(ctx context.Context) error {
	res := a.orch.Extract(ctx, a.cfg.URL)
	if !res.OK() {
		return fmt.Errorf("%w: %s", ErrExtractionFailed, res.Err)
	}
	rec := res.Article

	out, err := a.renderOutput(rec)
	if err != nil {
		return err
	}
	if a.cfg.OutputPath == "" {
		fmt.Print(out)
	} else {
		if err := os.WriteFile(a.cfg.OutputPath, []byte(out), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.Info().Str("out", a.cfg.OutputPath).Msg("wrote output")
	}

	if a.cfg.PDFPath != "" {
		if err := writeArticlePDF(rec, a.cfg.PDFPath); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("out", a.cfg.PDFPath).Msg("wrote pdf")
	}
	return nil
}

func (a *App) renderOutput(rec *article.Record) (string, error) {
	switch a.cfg.Format {
	case "json":
		b, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode record: %w", err)
		}
		return string(b) + "\n", nil
	default:
		return formatText(rec), nil
	}
}

// formatText renders a human-readable view of the record.
func formatText(rec *article.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", rec.Title)
	if rec.Byline != "" {
		fmt.Fprintf(&b, "By %s\n", rec.Byline)
	}
	if rec.SiteName != "" {
		fmt.Fprintf(&b, "Site: %s\n", rec.SiteName)
	}
	fmt.Fprintf(&b, "URL: %s\n", rec.FinalURL)
	fmt.Fprintf(&b, "Method: %s\n", rec.Method)
	fmt.Fprintf(&b, "Language: %s\n\n", rec.Lang)
	b.WriteString(rec.TextContent)
	b.WriteString("\n")
	return b.String()
}
