package http

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"burnreg/internal/dataprocessing"
	apierrors "burnreg/internal/errors"
	"burnreg/internal/operations"
)

// ResultsHandler serves the findings and summary of the most recent pipeline
// run. The result is replaced wholesale on each run, so readers always see a
// consistent snapshot.
type ResultsHandler struct {
	mu           sync.RWMutex
	result       *operations.Result
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewResultsHandler creates a results handler. The initial result may be nil;
// endpoints report 404 until a run completes.
func NewResultsHandler(result *operations.Result, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ResultsHandler {
	return &ResultsHandler{
		result:       result,
		logger:       logger.With(slog.String("component", "results_handler")),
		errorHandler: errorHandler,
	}
}

// SetResult replaces the served snapshot.
func (h *ResultsHandler) SetResult(result *operations.Result) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.result = result
}

func (h *ResultsHandler) snapshot() *operations.Result {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.result
}

// Routes returns the results routes.
func (h *ResultsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/findings", h.GetFindings)
	r.Get("/summary", h.GetSummary)

	return r
}

// GetFindings handles GET /api/results/findings, optionally filtered by
// ?column= and ?kind=.
func (h *ResultsHandler) GetFindings(w http.ResponseWriter, r *http.Request) {
	result := h.snapshot()
	if result == nil {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("pipeline result"))
		return
	}

	column := r.URL.Query().Get("column")
	kind := r.URL.Query().Get("kind")

	findings := make([]dataprocessing.Finding, 0, len(result.Findings))
	for _, f := range result.Findings {
		if column != "" && f.Column != column {
			continue
		}
		if kind != "" && string(f.Kind) != kind {
			continue
		}
		findings = append(findings, f)
	}

	render.JSON(w, r, map[string]interface{}{
		"findings": findings,
		"count":    len(findings),
	})
}

// GetSummary handles GET /api/results/summary.
func (h *ResultsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	result := h.snapshot()
	if result == nil {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("pipeline result"))
		return
	}

	render.JSON(w, r, result.Summary)
}
