// clipreadd serves the extraction engine over the host message contract:
// POST /v1/messages with an EXTRACT_CONTENT_OFFSCREEN request returns the
// success or failure envelope.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/clipread/clipread/internal/app"
	"github.com/clipread/clipread/internal/dispatch"
	"github.com/clipread/clipread/internal/extract"
	"github.com/clipread/clipread/internal/fetch"
	"github.com/clipread/clipread/internal/orchestrator"
	"github.com/clipread/clipread/internal/render"
	"github.com/clipread/clipread/internal/resolver"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		addr          string
		userAgent     string
		fetchTimeout  time.Duration
		disableRender bool
		chromePath    string
		verbose       bool
	)
	flag.StringVar(&addr, "addr", ":8480", "Listen address")
	flag.StringVar(&userAgent, "ua", app.UserAgentDefault, "Custom User-Agent for network requests")
	flag.DurationVar(&fetchTimeout, "timeout", app.FetchTimeoutDefault, "Per-request timeout for the fetch strategy")
	flag.BoolVar(&disableRender, "render.disable", false, "Skip the headless render strategy")
	flag.StringVar(&chromePath, "render.chrome", "", "Path to a Chrome/Chromium binary")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	engine := extract.ReadabilityEngine{}

	var strategies []orchestrator.Strategy
	if !disableRender {
		strategies = append(strategies, &render.Strategy{
			Capturer: &render.ChromeCapturer{UserAgent: userAgent, ExecPath: chromePath},
			Engine:   engine,
		})
	}
	strategies = append(strategies, &fetch.Strategy{
		Client: &fetch.Client{
			HTTPClient:        httpClient,
			UserAgent:         userAgent,
			MaxAttempts:       2,
			PerRequestTimeout: fetchTimeout,
			RedirectMaxHops:   5,
			MaxConcurrent:     16,
		},
		Engine: engine,
	})

	orch := &orchestrator.Orchestrator{
		Resolver:   &resolver.Resolver{HTTPClient: httpClient, UserAgent: userAgent},
		Strategies: strategies,
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: dispatch.NewRouter(orch),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Bool("render", !disableRender).Msg("clipreadd listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}
