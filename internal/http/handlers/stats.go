package handlers

import "net/http"

// StatsDashboard returns the caller's aggregate counters.
func (a *App) StatsDashboard(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	stats, err := a.Documents.StatsForOwner(r.Context(), userID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, stats)
}
