package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"server/internal/domain"
)

type sloganRequest struct {
	Answers domain.GenerationRequest `json:"answers"`
}

// SlogansCreate generates one tagline synchronously. Unlike document
// generation this call is fast enough to hold the request open.
func (a *App) SlogansCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req sloganRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	facts := domain.FirmFacts{}
	if profile, err := a.Firms.Get(r.Context(), userID); err == nil {
		facts = profile.Facts
	} else if !errors.Is(err, domain.ErrNotFound) {
		a.domainError(w, err)
		return
	}
	slogan, err := a.Slogans.GenerateSlogan(r.Context(), facts, req.Answers)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"slogan": slogan})
}
