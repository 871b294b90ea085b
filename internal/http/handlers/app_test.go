package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/storage"
)

type fakeJobs struct {
	enqueued   []*domain.GenerationJob
	enqueueErr error
	latest     *domain.GenerationJob
	byID       *domain.GenerationJob
	err        error
}

func (f *fakeJobs) Enqueue(ctx context.Context, job *domain.GenerationJob) error {
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	f.enqueued = append(f.enqueued, job)
	return nil
}

func (f *fakeJobs) GetByID(ctx context.Context, jobID, userID string) (*domain.GenerationJob, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID, nil
}

func (f *fakeJobs) LatestForDocument(ctx context.Context, documentID, userID string) (*domain.GenerationJob, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.latest, nil
}

type fakeDocs struct {
	created   []*domain.Document
	byID      *domain.Document
	completed *domain.Document
	err       error
}

func (f *fakeDocs) Create(ctx context.Context, doc *domain.Document) error {
	f.created = append(f.created, doc)
	return nil
}

func (f *fakeDocs) GetByID(ctx context.Context, documentID, ownerID string) (*domain.Document, error) {
	if f.byID == nil {
		return nil, domain.ErrNotFound
	}
	return f.byID, nil
}

func (f *fakeDocs) GetCompleted(ctx context.Context, documentID string) (*domain.Document, error) {
	if f.completed == nil {
		return nil, domain.ErrNotFound
	}
	return f.completed, nil
}

func (f *fakeDocs) ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error) {
	return nil, f.err
}

func (f *fakeDocs) StatsForOwner(ctx context.Context, ownerID string) (*domain.DashboardStats, error) {
	return &domain.DashboardStats{TotalDocuments: 3, LeadsGenerated: 7}, nil
}

type fakeLeads struct {
	captured  []*domain.Lead
	downloads []*domain.Download
}

func (f *fakeLeads) Capture(ctx context.Context, lead *domain.Lead) (string, error) {
	f.captured = append(f.captured, lead)
	return lead.ID, nil
}

func (f *fakeLeads) ListForDocument(ctx context.Context, documentID, ownerID string) ([]domain.Lead, error) {
	return nil, nil
}

func (f *fakeLeads) RecordDownload(ctx context.Context, dl *domain.Download) error {
	f.downloads = append(f.downloads, dl)
	return nil
}

type fakeGeo struct{ code string }

func (f *fakeGeo) CountryCode(ip string) (string, error) { return f.code, nil }

func testApp() (*App, *fakeJobs, *fakeDocs, *fakeLeads) {
	jobs := &fakeJobs{}
	docs := &fakeDocs{}
	leads := &fakeLeads{}
	app := &App{
		Jobs:      jobs,
		Documents: docs,
		Leads:     leads,
		Logger:    zerolog.New(io.Discard),
	}
	return app, jobs, docs, leads
}

func authedRequest(method, target string, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, reader)
	return r.WithContext(middleware.ContextWithUserID(r.Context(), "user-1"))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestDocumentsGenerateAcceptsSubmission(t *testing.T) {
	app, jobs, _, _ := testApp()

	body := `{"answers":{"main_topic":"Solar retrofits","industry":"Architecture"}}`
	r := withURLParam(authedRequest(http.MethodPost, "/v1/documents/doc-1/generate", body), "id", "doc-1")
	rec := httptest.NewRecorder()
	app.DocumentsGenerate(rec, r)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusAccepted, rec.Body.String())
	}
	if len(jobs.enqueued) != 1 {
		t.Fatalf("enqueued %d jobs, want 1", len(jobs.enqueued))
	}
	job := jobs.enqueued[0]
	if job.DocumentID != "doc-1" || job.UserID != "user-1" {
		t.Fatalf("job addressed wrong: %+v", job)
	}
	if job.Status != domain.JobStatusPending {
		t.Fatalf("job status = %q, want pending", job.Status)
	}
	if job.LayoutID == "" {
		t.Fatal("expected a layout to be assigned")
	}
	var payload domain.JobPayload
	if err := json.Unmarshal(job.PayloadJSON, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Answers == nil || payload.Answers.MainTopic != "Solar retrofits" {
		t.Fatalf("payload answers not preserved: %+v", payload.Answers)
	}

	resp := decodeBody(t, rec)
	if resp["status"] != "pending" || resp["job_id"] != job.ID {
		t.Fatalf("unexpected response: %#v", resp)
	}
}

func TestDocumentsGenerateRejectsEmptySubmission(t *testing.T) {
	app, jobs, _, _ := testApp()

	r := withURLParam(authedRequest(http.MethodPost, "/v1/documents/doc-1/generate", `{}`), "id", "doc-1")
	rec := httptest.NewRecorder()
	app.DocumentsGenerate(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(jobs.enqueued) != 0 {
		t.Fatal("empty submission must not enqueue")
	}
}

func TestDocumentsGenerateRejectsUnknownLayout(t *testing.T) {
	app, _, _, _ := testApp()

	body := `{"layout_id":"brutalist-zine","answers":{"main_topic":"x"}}`
	r := withURLParam(authedRequest(http.MethodPost, "/v1/documents/doc-1/generate", body), "id", "doc-1")
	rec := httptest.NewRecorder()
	app.DocumentsGenerate(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "brutalist-zine") {
		t.Fatalf("error should name the layout: %s", rec.Body.String())
	}
}

func TestDocumentsGenerateConflictWhenJobInFlight(t *testing.T) {
	app, jobs, _, _ := testApp()
	jobs.enqueueErr = domain.ErrConflict

	body := `{"answers":{"main_topic":"x"}}`
	r := withURLParam(authedRequest(http.MethodPost, "/v1/documents/doc-1/generate", body), "id", "doc-1")
	rec := httptest.NewRecorder()
	app.DocumentsGenerate(rec, r)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestDocumentsGenerateRejectsOversizedImage(t *testing.T) {
	app, jobs, _, _ := testApp()

	big := "data:image/png;base64," + strings.Repeat("A", 4*maxImageBytes)
	body := fmt.Sprintf(`{"answers":{"main_topic":"x"},"images":[{"src":%q}]}`, big)
	r := withURLParam(authedRequest(http.MethodPost, "/v1/documents/doc-1/generate", body), "id", "doc-1")
	rec := httptest.NewRecorder()
	app.DocumentsGenerate(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(jobs.enqueued) != 0 {
		t.Fatal("oversized image must not enqueue")
	}
}

func TestGenerateStatusReportsLatestJob(t *testing.T) {
	app, jobs, _, _ := testApp()
	jobs.latest = &domain.GenerationJob{
		ID:          "job-9",
		DocumentID:  "doc-1",
		Status:      domain.JobStatusCompleted,
		ArtifactURL: "http://localhost:8080/artifacts/u/job-9/guide.pdf",
	}

	r := withURLParam(authedRequest(http.MethodGet, "/v1/documents/doc-1/generate/status", ""), "id", "doc-1")
	rec := httptest.NewRecorder()
	app.DocumentsGenerateStatus(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["status"] != "ready" || resp["artifact_url"] == "" {
		t.Fatalf("unexpected response: %#v", resp)
	}
}

func TestPollStatusVocabulary(t *testing.T) {
	cases := map[domain.JobStatus]string{
		domain.JobStatusPending:    "pending",
		domain.JobStatusProcessing: "in_progress",
		domain.JobStatusCompleted:  "ready",
		domain.JobStatusFailed:     "failed",
	}
	for in, want := range cases {
		if got := pollStatus(in); got != want {
			t.Fatalf("pollStatus(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenerateStatusMapsDomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: no answer in 20s", domain.ErrUpstreamTimeout), http.StatusGatewayTimeout},
		{fmt.Errorf("%w: api key missing", domain.ErrConfiguration), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		app, jobs, _, _ := testApp()
		jobs.err = tc.err

		r := withURLParam(authedRequest(http.MethodGet, "/v1/documents/doc-1/generate/status", ""), "id", "doc-1")
		rec := httptest.NewRecorder()
		app.DocumentsGenerateStatus(rec, r)

		if rec.Code != tc.code {
			t.Fatalf("error %v mapped to %d, want %d", tc.err, rec.Code, tc.code)
		}
	}
}

func TestLeadsCaptureReturnsDownloadURL(t *testing.T) {
	app, _, docs, leads := testApp()
	docs.completed = &domain.Document{ID: "doc-1", Status: domain.DocumentStatusCompleted, ArtifactKey: "artifacts/u/j/guide.pdf"}

	body := `{"email":"pat@example.com","name":"Pat","company":"Example LLC"}`
	r := withURLParam(httptest.NewRequest(http.MethodPost, "/v1/public/documents/doc-1/leads", strings.NewReader(body)), "id", "doc-1")
	rec := httptest.NewRecorder()
	app.LeadsCapture(rec, r)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if len(leads.captured) != 1 || leads.captured[0].Email != "pat@example.com" {
		t.Fatalf("lead not captured: %#v", leads.captured)
	}
	resp := decodeBody(t, rec)
	url, _ := resp["download_url"].(string)
	if !strings.HasPrefix(url, "/v1/public/documents/doc-1/download?lead_id=") {
		t.Fatalf("unexpected download_url: %q", url)
	}
}

func TestLeadsCaptureRejectsBadEmail(t *testing.T) {
	app, _, docs, leads := testApp()
	docs.completed = &domain.Document{ID: "doc-1", Status: domain.DocumentStatusCompleted}

	r := withURLParam(httptest.NewRequest(http.MethodPost, "/v1/public/documents/doc-1/leads", strings.NewReader(`{"email":"not-an-email"}`)), "id", "doc-1")
	rec := httptest.NewRecorder()
	app.LeadsCapture(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(leads.captured) != 0 {
		t.Fatal("invalid email must not capture a lead")
	}
}

func TestLeadsCaptureRequiresCompletedDocument(t *testing.T) {
	app, _, _, leads := testApp()

	r := withURLParam(httptest.NewRequest(http.MethodPost, "/v1/public/documents/doc-1/leads", strings.NewReader(`{"email":"pat@example.com"}`)), "id", "doc-1")
	rec := httptest.NewRecorder()
	app.LeadsCapture(rec, r)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if len(leads.captured) != 0 {
		t.Fatal("lead captured against an unfinished document")
	}
}

func TestDocumentsDownloadServesArtifactAndRecordsGeo(t *testing.T) {
	app, _, docs, leads := testApp()

	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	pdf := []byte("%PDF-1.7 test artifact")
	key, err := store.Write(context.Background(), "artifacts/user-1/job-9/guide.pdf", pdf)
	if err != nil {
		t.Fatalf("seed artifact: %v", err)
	}
	app.Files = store
	app.GeoIP = &fakeGeo{code: "DE"}
	docs.completed = &domain.Document{ID: "doc-1", Title: "Solar Guide", Status: domain.DocumentStatusCompleted, ArtifactKey: key}

	r := withURLParam(httptest.NewRequest(http.MethodGet, "/v1/public/documents/doc-1/download?lead_id=lead-1", nil), "id", "doc-1")
	r.RemoteAddr = "203.0.113.9:51234"
	rec := httptest.NewRecorder()
	app.DocumentsDownload(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("Content-Type = %q", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), pdf) {
		t.Fatal("artifact bytes were not served verbatim")
	}
	if len(leads.downloads) != 1 {
		t.Fatalf("recorded %d downloads, want 1", len(leads.downloads))
	}
	dl := leads.downloads[0]
	if dl.LeadID != "lead-1" || dl.IPAddress != "203.0.113.9" || dl.CountryCode != "DE" {
		t.Fatalf("download record wrong: %+v", dl)
	}
}

func TestDocumentsDownloadRequiresLeadID(t *testing.T) {
	app, _, docs, _ := testApp()
	docs.completed = &domain.Document{ID: "doc-1", Status: domain.DocumentStatusCompleted, ArtifactKey: "x"}

	r := withURLParam(httptest.NewRequest(http.MethodGet, "/v1/public/documents/doc-1/download", nil), "id", "doc-1")
	rec := httptest.NewRecorder()
	app.DocumentsDownload(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDocumentsCreateRequiresTitle(t *testing.T) {
	app, _, docs, _ := testApp()

	r := authedRequest(http.MethodPost, "/v1/documents", `{"title":"  "}`)
	rec := httptest.NewRecorder()
	app.DocumentsCreate(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(docs.created) != 0 {
		t.Fatal("document created without a title")
	}
}

func TestDocumentsCreatePersistsDraft(t *testing.T) {
	app, _, docs, _ := testApp()

	r := authedRequest(http.MethodPost, "/v1/documents", `{"title":"Hiring Checklist","description":"For agencies"}`)
	rec := httptest.NewRecorder()
	app.DocumentsCreate(rec, r)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if len(docs.created) != 1 {
		t.Fatalf("created %d documents, want 1", len(docs.created))
	}
	doc := docs.created[0]
	if doc.OwnerID != "user-1" || doc.Status != domain.DocumentStatusDraft {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestHandlersRejectMissingUserContext(t *testing.T) {
	app, _, _, _ := testApp()

	r := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	rec := httptest.NewRecorder()
	app.StatsDashboard(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
