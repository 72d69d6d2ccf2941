package api

import (
	"encoding/json"
	"net/http"

	"github.com/marquelabs/marque/internal/summary"
)

// summaryHandler exposes the summarizer directly, for callers that want a
// summary of arbitrary text without saving a bookmark.
type summaryHandler struct {
	summarizer *summary.Summarizer
}

// Summarize returns a short summary of the posted text.
// POST /api/v1/summary
func (h *summaryHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req SummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required", "BAD_REQUEST")
		return
	}
	writeJSON(w, http.StatusOK, SummaryResponse{Summary: h.summarizer.Summarize(r.Context(), req.Text)})
}
