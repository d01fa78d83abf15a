package triage

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/mediflow/pkg/handlers"
	"github.com/JaimeStill/mediflow/pkg/routes"
)

// HeaderClassificationID carries the correlation id of a classification.
const HeaderClassificationID = "X-Classification-ID"

// Handler provides HTTP endpoints for triage operations.
type Handler struct {
	sys         System
	logger      *slog.Logger
	maxBodySize int64
}

// NewHandler creates a Handler with the given system, logger, and request body limit.
func NewHandler(sys System, logger *slog.Logger, maxBodySize int64) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "triage"),
		maxBodySize: maxBodySize,
	}
}

// Routes returns the route group definition for triage endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/triage",
		Tags:   []string{"Triage"},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Classify, OpenAPI: classifyOp},
			{Method: "GET", Pattern: "/rules", Handler: h.Rules, OpenAPI: rulesOp},
		},
		Schemas: Schemas(),
	}
}

// Classify decodes a Request body and responds with its Result.
// Fallback results are written with the status mapped from the failure.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	id := uuid.New()
	w.Header().Set(HeaderClassificationID, id.String())

	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("undecodable request body", "classification_id", id, "error", err)
		handlers.RespondJSON(w, http.StatusBadRequest, FallbackResult(MessageEmptyInput))
		return
	}

	result, err := h.sys.Classify(WithClassificationID(r.Context(), id), req)
	handlers.RespondJSON(w, MapHTTPStatus(err), result)
}

// Rules lists the red-flag rule keys.
func (h *Handler) Rules(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, map[string][]string{"rules": h.sys.Rules()})
}
