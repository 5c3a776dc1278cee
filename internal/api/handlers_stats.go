package api

import (
	"net/http"
)

func (s *Server) handlePageStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "page stats unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"pages":       s.stats.Snapshot(),
	})
}
