// Package handlers implements the HTTP boundary of the document generation
// service. Handlers accept submissions, expose job state to pollers, and
// serve finished artifacts; the heavy work happens in the worker.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/middleware"
	"server/internal/storage"
)

// JobStore is the job persistence surface the API needs.
type JobStore interface {
	Enqueue(ctx context.Context, job *domain.GenerationJob) error
	GetByID(ctx context.Context, jobID, userID string) (*domain.GenerationJob, error)
	LatestForDocument(ctx context.Context, documentID, userID string) (*domain.GenerationJob, error)
}

// DocumentStore is the document persistence surface the API needs.
type DocumentStore interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, documentID, ownerID string) (*domain.Document, error)
	GetCompleted(ctx context.Context, documentID string) (*domain.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error)
	StatsForOwner(ctx context.Context, ownerID string) (*domain.DashboardStats, error)
}

// FirmStore is the firm profile persistence surface the API needs.
type FirmStore interface {
	Get(ctx context.Context, userID string) (*domain.FirmProfile, error)
	Upsert(ctx context.Context, profile *domain.FirmProfile) error
}

// LeadStore is the lead capture surface the API needs.
type LeadStore interface {
	Capture(ctx context.Context, lead *domain.Lead) (string, error)
	ListForDocument(ctx context.Context, documentID, ownerID string) ([]domain.Lead, error)
	RecordDownload(ctx context.Context, dl *domain.Download) error
}

// SloganGenerator produces a one-line tagline from firm facts and answers.
type SloganGenerator interface {
	GenerateSlogan(ctx context.Context, facts domain.FirmFacts, answers domain.GenerationRequest) (string, error)
}

// App carries the dependencies shared by all handlers.
type App struct {
	Jobs      JobStore
	Documents DocumentStore
	Firms     FirmStore
	Leads     LeadStore
	Slogans   SloganGenerator
	Files     *storage.FileStore
	GeoIP     geoip.CountryResolver
	Logger    infra.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, detail string) {
	a.json(w, code, map[string]string{"error": kind, "detail": detail})
}

// domainError translates the error taxonomy into an HTTP reply.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrConflict):
		a.error(w, http.StatusConflict, "conflict", "generation already in progress for this document")
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusBadRequest, "validation", err.Error())
	case errors.Is(err, domain.ErrConfiguration):
		a.error(w, http.StatusServiceUnavailable, "not_configured", err.Error())
	case errors.Is(err, domain.ErrUpstreamTimeout):
		a.error(w, http.StatusGatewayTimeout, "upstream_timeout", err.Error())
	case errors.Is(err, domain.ErrUpstream), errors.Is(err, domain.ErrRender):
		a.error(w, http.StatusBadGateway, "upstream", err.Error())
	default:
		a.Logger.Error().Err(err).Msg("handlers: internal error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
