// Package dispatch exposes the extraction engine over the host message
// contract: a typed request carrying a URL, answered with a success or
// failure envelope. Routing and completion signaling live here; the engine
// itself only produces results.
package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/clipread/clipread/internal/article"
)

// TypeExtractContent is the only message type the engine answers.
const TypeExtractContent = "EXTRACT_CONTENT_OFFSCREEN"

// Extractor produces one extraction result per call. Satisfied by
// orchestrator.Orchestrator.
type Extractor interface {
	Extract(ctx context.Context, url string) article.Result
}

// Message is the request envelope consumed from the host dispatch layer.
type Message struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type successResponse struct {
	Success  bool            `json:"success"`
	Content  *article.Record `json:"content"`
	Method   string          `json:"method"`
	FinalURL string          `json:"finalUrl"`
}

type failureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewRouter builds the HTTP surface for the message contract.
func NewRouter(ex Extractor) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/v1/messages", func(w http.ResponseWriter, req *http.Request) {
		var msg Message
		if err := json.NewDecoder(req.Body).Decode(&msg); err != nil {
			writeJSON(w, http.StatusBadRequest, failureResponse{Error: "invalid request body"})
			return
		}
		if msg.Type != TypeExtractContent {
			writeJSON(w, http.StatusBadRequest, failureResponse{Error: "unknown message type: " + msg.Type})
			return
		}
		if strings.TrimSpace(msg.URL) == "" {
			writeJSON(w, http.StatusBadRequest, failureResponse{Error: "url is required"})
			return
		}

		start := time.Now()
		res := ex.Extract(req.Context(), msg.URL)
		if !res.OK() {
			log.Warn().Str("url", msg.URL).Str("error", res.Err).Dur("took", time.Since(start)).
				Msg("dispatch extraction failed")
			writeJSON(w, http.StatusOK, failureResponse{Error: res.Err})
			return
		}
		log.Info().Str("url", msg.URL).Str("method", res.Article.Method).Dur("took", time.Since(start)).
			Msg("dispatch extraction complete")
		writeJSON(w, http.StatusOK, successResponse{
			Success:  true,
			Content:  res.Article,
			Method:   res.Article.Method,
			FinalURL: res.Article.FinalURL,
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
