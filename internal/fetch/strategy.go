package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/clipread/clipread/internal/article"
	"github.com/clipread/clipread/internal/extract"
)

// ErrNoContent reports that the page was retrieved and parsed but neither
// extractor produced non-empty text.
var ErrNoContent = errors.New("no content extracted")

// Strategy retrieves raw HTML over the network and parses it into a DOM tree
// without rendering: no scripts run and no subresources load. It tolerates
// static pages well but cannot observe client-side redirects, so FinalURL is
// always the URL it was given.
type Strategy struct {
	Client *Client
	Engine extract.Engine
}

func (s *Strategy) Name() string { return "fetch" }

// Extract fetches pageURL and runs the extractor cascade on the parsed
// document: readability first, selector fallback second.
func (s *Strategy) Extract(ctx context.Context, pageURL string) (*article.Record, error) {
	body, err := s.Client.Get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}

	doc, err := extract.ParseDocument(body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	if rec := extract.Readability(s.Engine, string(body), pageURL); rec != nil {
		rec.Stamp(pageURL, article.MethodFetchReadability)
		return rec, nil
	}

	rec := extract.Fallback(doc, pageURL)
	if rec.TextContent == "" {
		return nil, ErrNoContent
	}
	rec.Stamp(pageURL, article.MethodFetchFallback)
	return rec, nil
}
