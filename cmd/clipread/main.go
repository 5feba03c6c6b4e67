package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/clipread/clipread/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		pageURL       string
		outputPath    string
		format        string
		pdfPath       string
		userAgent     string
		fetchTimeout  time.Duration
		disableRender bool
		chromePath    string
		configPath    string
		verbose       bool
	)

	flag.StringVar(&pageURL, "url", "", "URL of the article to extract")
	flag.StringVar(&outputPath, "o", "", "Path to write the result (default stdout)")
	flag.StringVar(&format, "format", "text", "Output format: text or json")
	flag.StringVar(&pdfPath, "pdf", "", "Optional path to additionally write the article as PDF")
	flag.StringVar(&userAgent, "ua", "", "Custom User-Agent for network requests")
	flag.DurationVar(&fetchTimeout, "timeout", 0, "Per-request timeout for the fetch strategy (default 15s)")
	flag.BoolVar(&disableRender, "render.disable", false, "Skip the headless render strategy (use on hosts without Chrome)")
	flag.StringVar(&chromePath, "render.chrome", "", "Path to a Chrome/Chromium binary")
	flag.StringVar(&configPath, "config", "", "Path to YAML or JSON config file")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := app.Config{
		URL:           pageURL,
		OutputPath:    outputPath,
		Format:        format,
		PDFPath:       pdfPath,
		UserAgent:     userAgent,
		FetchTimeout:  fetchTimeout,
		DisableRender: disableRender,
		ChromePath:    chromePath,
		Verbose:       verbose,
	}

	// Precedence: flags > env > config file > defaults.
	app.ApplyEnvToConfig(&cfg)
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("load config file")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	if cfg.Verbose && !verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := app.ValidateConfig(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		if errors.Is(err, app.ErrExtractionFailed) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	return app.New(cfg).Run(context.Background())
}
