package handlers

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/domain"
)

type leadCaptureRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Company string `json:"company"`
}

// LeadsCapture records a prospect against a completed document. Public: the
// caller is the prospect, not the document owner.
func (a *App) LeadsCapture(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "id")
	var req leadCaptureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		a.error(w, http.StatusBadRequest, "validation", "a valid email is required")
		return
	}
	if _, err := a.Documents.GetCompleted(r.Context(), documentID); err != nil {
		a.domainError(w, err)
		return
	}
	leadID, err := a.Leads.Capture(r.Context(), &domain.Lead{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		Email:      strings.TrimSpace(req.Email),
		Name:       strings.TrimSpace(req.Name),
		Company:    strings.TrimSpace(req.Company),
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]string{
		"lead_id":      leadID,
		"download_url": fmt.Sprintf("/v1/public/documents/%s/download?lead_id=%s", documentID, leadID),
	})
}

// LeadsList returns the document's captured leads to its owner.
func (a *App) LeadsList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	leads, err := a.Leads.ListForDocument(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"leads": leads})
}

// DocumentsDownload serves the finished artifact and records the download,
// geo-enriched when a resolver is configured.
func (a *App) DocumentsDownload(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "id")
	leadID := strings.TrimSpace(r.URL.Query().Get("lead_id"))
	if leadID == "" {
		a.error(w, http.StatusBadRequest, "validation", "lead_id is required")
		return
	}
	doc, err := a.Documents.GetCompleted(r.Context(), documentID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	if doc.ArtifactKey == "" {
		a.error(w, http.StatusNotFound, "not_found", "document has no artifact")
		return
	}
	data, err := a.Files.Read(r.Context(), doc.ArtifactKey)
	if err != nil {
		a.Logger.Error().Err(err).Str("document_id", documentID).Msg("handlers: artifact read failed")
		a.error(w, http.StatusNotFound, "not_found", "artifact unavailable")
		return
	}

	ip := clientIP(r)
	dl := &domain.Download{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		LeadID:     leadID,
		IPAddress:  ip,
	}
	if a.GeoIP != nil && ip != "" {
		if code, err := a.GeoIP.CountryCode(ip); err == nil {
			dl.CountryCode = code
		}
	}
	if err := a.Leads.RecordDownload(r.Context(), dl); err != nil {
		// The prospect still gets the file; losing one analytics row is
		// not worth a failed download.
		a.Logger.Error().Err(err).Str("document_id", documentID).Msg("handlers: record download failed")
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadFilename(doc.Title)))
	_, _ = w.Write(data)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if net.ParseIP(host) == nil {
		return ""
	}
	return host
}

func downloadFilename(title string) string {
	name := strings.TrimSpace(title)
	if name == "" {
		name = "document"
	}
	name = strings.ReplaceAll(name, " ", "_")
	return name + ".pdf"
}
