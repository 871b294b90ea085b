package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"server/internal/domain"
)

// FirmProfileGet returns the caller's stored firm profile.
func (a *App) FirmProfileGet(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	profile, err := a.Firms.Get(r.Context(), userID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, profile.Facts)
}

// FirmProfilePut stores or replaces the caller's firm profile. The firm
// name is the one fact generation cannot proceed without, so it is required
// here rather than failing later in the pipeline.
func (a *App) FirmProfilePut(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var facts domain.FirmFacts
	if err := json.NewDecoder(r.Body).Decode(&facts); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(facts.FirmName) == "" {
		a.error(w, http.StatusBadRequest, "validation", "firm_name is required")
		return
	}
	if err := a.Firms.Upsert(r.Context(), &domain.FirmProfile{UserID: userID, Facts: facts}); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, facts)
}
