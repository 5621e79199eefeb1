package api

import "net/http"

// StatsProvider reports record counts and runtime figures for /stats.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

type StatsHandler struct {
	stats StatsProvider
}

func NewStatsHandler(p StatsProvider) *StatsHandler {
	return &StatsHandler{stats: p}
}

// HandleStats serves GET /stats.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.stats.GetStats())
}
