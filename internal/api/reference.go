package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/reference"
)

// ReferenceHandler serves the static agent roster and disposition list
type ReferenceHandler struct {
	tables *reference.Tables
	logger zerolog.Logger
}

// NewReferenceHandler creates a new ReferenceHandler
func NewReferenceHandler(tables *reference.Tables, logger zerolog.Logger) *ReferenceHandler {
	return &ReferenceHandler{
		tables: tables,
		logger: logger.With().Str("component", "reference_handler").Logger(),
	}
}

// GetAgents handles GET /agents
func (h *ReferenceHandler) GetAgents(w http.ResponseWriter, r *http.Request) {
	if h.tables == nil {
		respondError(w, http.StatusInternalServerError, "Agent data configuration error.", nil)
		return
	}
	respondJSON(w, http.StatusOK, h.tables.Agents)
}

// GetDispositions handles GET /dispositions
func (h *ReferenceHandler) GetDispositions(w http.ResponseWriter, r *http.Request) {
	if h.tables == nil {
		respondError(w, http.StatusInternalServerError, "Disposition data configuration error.", nil)
		return
	}
	respondJSON(w, http.StatusOK, h.tables.Dispositions)
}
