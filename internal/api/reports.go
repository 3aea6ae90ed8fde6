package api

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/collector"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/convoso"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/enrich"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/report"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/types"
)

// Upstream is the part of the call-center API the report handlers use
type Upstream interface {
	collector.PageFetcher
	enrich.LeadSearcher
	Campaigns(ctx context.Context) ([]types.Campaign, error)
}

// ReportOptions sizes the report queries
type ReportOptions struct {
	PageLimit       int
	MaxCallLogs     int
	ModalLogLimit   int
	LeadConcurrency int
}

// ReportHandler serves the call log summary, call details and campaigns
type ReportHandler struct {
	upstream  Upstream
	collector *collector.Collector
	enricher  *enrich.Enricher
	opts      ReportOptions
	logger    zerolog.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(upstream Upstream, opts ReportOptions, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		upstream:  upstream,
		collector: collector.New(upstream, opts.PageLimit, logger),
		enricher:  enrich.New(upstream, opts.LeadConcurrency, logger),
		opts:      opts,
		logger:    logger.With().Str("component", "report_handler").Logger(),
	}
}

type summaryRequest struct {
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	DispositionCodes string `json:"dispositionCodes"`
	AgentIDs         string `json:"agentIds"`
}

type detailsRequest struct {
	StartDate        string           `json:"startDate"`
	EndDate          string           `json:"endDate"`
	AgentID          types.FlexString `json:"agentId"`
	DispositionCodes string           `json:"dispositionCodes"`
}

// CallLogSummary handles POST /call-log-summary. Logs are filtered by status
// upstream and by agent locally, then counted per agent and disposition.
func (h *ReportHandler) CallLogSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.StartDate == "" || req.EndDate == "" || req.DispositionCodes == "" {
		respondError(w, http.StatusBadRequest, "Start date, end date, and at least one disposition code are required", nil)
		return
	}

	start, end, ok := dateRange(w, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	records := h.collector.CollectAll(r.Context(), convoso.CallLogQuery{
		StartTime: start,
		EndTime:   end,
		Status:    req.DispositionCodes,
	}, h.opts.MaxCallLogs)

	filtered := report.FilterByAgents(records, report.ParseIDList(req.AgentIDs))
	summaries := report.Sorted(report.Summarize(filtered))

	h.logger.Info().
		Str("start", start).
		Str("end", end).
		Int("received", len(records)).
		Int("filtered", len(filtered)).
		Int("agents", len(summaries)).
		Msg("call log summary built")

	respondJSON(w, http.StatusOK, summaries)
}

// CallLogDetails handles POST /call-log-details for one agent, joining each
// call with its lead
func (h *ReportHandler) CallLogDetails(w http.ResponseWriter, r *http.Request) {
	var req detailsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.StartDate == "" || req.EndDate == "" || req.AgentID == "" || req.DispositionCodes == "" {
		respondError(w, http.StatusBadRequest, "Start date, end date, agent ID, and disposition codes are required", nil)
		return
	}

	start, end, ok := dateRange(w, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	records := h.collector.CollectAll(r.Context(), convoso.CallLogQuery{
		StartTime: start,
		EndTime:   end,
		UserID:    req.AgentID.String(),
		Status:    req.DispositionCodes,
	}, h.opts.ModalLogLimit)

	details := h.enricher.Enrich(r.Context(), records)

	h.logger.Info().
		Str("agent_id", req.AgentID.String()).
		Int("records", len(details)).
		Msg("call log details built")

	respondJSON(w, http.StatusOK, details)
}

// GetCampaigns handles GET /campaigns
func (h *ReportHandler) GetCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.upstream.Campaigns(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to fetch campaigns")
		respondError(w, http.StatusInternalServerError, "Failed to fetch campaigns", err)
		return
	}
	respondJSON(w, http.StatusOK, campaigns)
}

// dateRange normalizes the request dates to the upstream format, writing a
// 400 when either is malformed
func dateRange(w http.ResponseWriter, startDate, endDate string) (string, string, bool) {
	start := convoso.FormatDateTime(startDate, false)
	end := convoso.FormatDateTime(endDate, true)
	if start == "" || end == "" {
		respondError(w, http.StatusBadRequest, "Invalid date format provided.", map[string]string{
			"receivedStartDate": startDate,
			"receivedEndDate":   endDate,
			"expectedFormat":    "YYYY-MM-DD or YYYY-MM-DD HH:mm:ss",
		})
		return "", "", false
	}
	return start, end, true
}
