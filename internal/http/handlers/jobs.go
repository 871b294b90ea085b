package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// JobStatus reports one job by id, scoped to its owner.
func (a *App) JobStatus(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	job, err := a.Jobs.GetByID(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toJobResponse(job))
}
