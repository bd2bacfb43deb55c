// Package server exposes the question answering workflow over HTTP.
//
// Information Hiding:
// - Workflow execution hidden behind the Runner interface
// - Routing and middleware assembly encapsulated in Router
package server

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/richinex/switchboard/internal/httputil"
	"github.com/richinex/switchboard/transcript"
	"github.com/richinex/switchboard/workflow"
)

// Runner executes the workflow for one question.
// *workflow.Workflow satisfies this; tests substitute a stub.
type Runner interface {
	Run(ctx context.Context, inputText string, history []transcript.Turn) (workflow.Result, error)
}

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	InputText string            `json:"input_text"`
	History   []transcript.Turn `json:"history,omitempty"`
}

// Handler handles workflow HTTP requests.
type Handler struct {
	runner Runner
	logger *slog.Logger
}

// NewHandler creates a new workflow handler.
func NewHandler(runner Runner, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{runner: runner, logger: logger}
}

// HandleQuery runs the workflow for a single question.
// POST /query
// Returns 400 for malformed or empty input, 502 when a stage fails.
func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	var req QueryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.InputText) == "" {
		httputil.RespondError(w, http.StatusBadRequest, "input_text is required")
		return
	}

	h.logger.Info("query received",
		"request_id", requestID,
		"history_turns", len(req.History),
	)

	result, err := h.runner.Run(r.Context(), req.InputText, req.History)
	if err != nil {
		h.logger.Error("workflow failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.RespondError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.logger.Info("query answered",
		"request_id", requestID,
		"path", result.Path,
	)

	httputil.RespondJSON(w, http.StatusOK, result)
}

// HandleHealth reports server liveness.
// GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Router assembles the HTTP routes with recovery and CORS middleware.
// Nil allowedOrigins permits all origins.
func Router(h *Handler, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /query", h.HandleQuery)
	mux.HandleFunc("GET /health", h.HandleHealth)

	var handler http.Handler = mux
	handler = recovery(h.logger)(handler)

	corsOptions := cors.Options{
		// rs/cors has no method wildcard, so every method is listed.
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodHead,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		// Reflect the caller's origin instead of the "*" literal so
		// credentialed requests still pass browser CORS checks.
		corsOptions.AllowOriginFunc = func(origin string) bool { return true }
	} else {
		corsOptions.AllowedOrigins = allowedOrigins
	}
	return cors.New(corsOptions).Handler(handler)
}

// recovery turns handler panics into 500 responses.
func recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						"error", err,
						"path", r.URL.Path,
						"method", r.Method,
						"stack", string(debug.Stack()),
					)
					httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
