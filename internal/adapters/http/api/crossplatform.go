package api

import "net/http"

// CrossPlatformHandler serves budget splits and comparisons across platforms.
type CrossPlatformHandler struct {
	deps         Dependencies
	maxBatchSize int
	maxBodyBytes int64
}

// NewCrossPlatformHandler creates a new cross-platform handler.
func NewCrossPlatformHandler(deps Dependencies, maxBatchSize int, maxBodyBytes int64) *CrossPlatformHandler {
	return &CrossPlatformHandler{deps: deps, maxBatchSize: maxBatchSize, maxBodyBytes: maxBodyBytes}
}

// HandleBudget handles POST /v1/cross-platform/budget.
func (h *CrossPlatformHandler) HandleBudget(w http.ResponseWriter, r *http.Request) {
	const op = "api.cross_platform_budget"

	var req batchRequest
	if err := decodeBody(op, w, r, h.maxBodyBytes, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(op, h.maxBatchSize); err != nil {
		writeError(w, err)
		return
	}

	out, err := h.deps.CrossPlatformBudget(r.Context(), req.Campaigns, req.TotalBudget)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleInsights handles POST /v1/cross-platform/insights.
func (h *CrossPlatformHandler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	const op = "api.cross_platform_insights"

	var req batchRequest
	if err := decodeBody(op, w, r, h.maxBodyBytes, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(op, h.maxBatchSize); err != nil {
		writeError(w, err)
		return
	}

	out, err := h.deps.CrossPlatformInsights(r.Context(), req.Campaigns)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}
