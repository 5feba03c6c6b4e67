// Package orchestrator ties the pipeline together: resolve indirection once,
// try each strategy in order, and normalize the outcome into the result
// envelope. Nothing in here throws outward; every failure becomes a Failure
// result at the boundary.
package orchestrator

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/clipread/clipread/internal/article"
	"github.com/clipread/clipread/internal/resolver"
)

// Strategy is one way of turning a URL into an article record. Strategies
// must release any resources they hold on every exit path and must return a
// record with non-empty TextContent or an error, never both.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, pageURL string) (*article.Record, error)
}

// Orchestrator runs one extraction attempt per call. Concurrent calls are
// fully independent: no state is shared between in-flight attempts.
type Orchestrator struct {
	Resolver   *resolver.Resolver
	Strategies []Strategy
}

// Extract resolves redirects exactly once, then tries each strategy in
// order. Earlier failures are logged and superseded; the Failure message is
// always the last strategy's error, verbatim.
func (o *Orchestrator) Extract(ctx context.Context, rawURL string) article.Result {
	pageURL := rawURL
	if o.Resolver != nil {
		pageURL = o.Resolver.Resolve(ctx, rawURL)
	}
	if pageURL != rawURL {
		log.Debug().Str("url", rawURL).Str("resolved", pageURL).Msg("resolved indirection URL")
	}

	if len(o.Strategies) == 0 {
		return article.Failure("no extraction strategies configured")
	}

	var lastErr error
	for i, s := range o.Strategies {
		rec, err := s.Extract(ctx, pageURL)
		if err == nil {
			log.Info().Str("strategy", s.Name()).Str("method", rec.Method).
				Str("finalUrl", rec.FinalURL).Int("length", rec.Length).
				Msg("extraction succeeded")
			return article.Success(rec)
		}
		lastErr = err
		if i < len(o.Strategies)-1 {
			log.Debug().Err(err).Str("strategy", s.Name()).Msg("strategy failed; trying next")
		} else {
			log.Warn().Err(err).Str("strategy", s.Name()).Msg("extraction failed")
		}
	}
	return article.Failure(lastErr.Error())
}
