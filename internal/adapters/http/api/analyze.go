package api

import (
	"net/http"

	"github.com/okian/adlens/internal/domain/model"
)

// AnalyzeHandler serves single and batch campaign analysis.
type AnalyzeHandler struct {
	deps         Dependencies
	maxBatchSize int
	maxBodyBytes int64
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps Dependencies, maxBatchSize int, maxBodyBytes int64) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps, maxBatchSize: maxBatchSize, maxBodyBytes: maxBodyBytes}
}

// HandleAnalyze handles POST /v1/analyze.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"

	var req model.CampaignRequest
	if err := decodeBody(op, w, r, h.maxBodyBytes, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateCampaign(op, req); err != nil {
		writeError(w, err)
		return
	}

	report, err := h.deps.Analyze(r.Context(), req)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleAnalyzeBatch handles POST /v1/analyze/batch. Per-campaign failures
// are reported inline and never fail the request.
func (h *AnalyzeHandler) HandleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze_batch"

	var req batchRequest
	if err := decodeBody(op, w, r, h.maxBodyBytes, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(op, h.maxBatchSize); err != nil {
		writeError(w, err)
		return
	}

	batch, err := h.deps.AnalyzeBatch(r.Context(), req.Campaigns)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, batch)
}
