package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/template"
)

const maxImageBytes = 2 << 20

var allowedImagePrefixes = []string{
	"data:image/png;base64,",
	"data:image/jpeg;base64,",
	"data:image/svg+xml;base64,",
}

type documentCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type documentResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	ArtifactKey string    `json:"artifact_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type generateRequest struct {
	LayoutID  string                    `json:"layout_id"`
	Answers   *domain.GenerationRequest `json:"answers,omitempty"`
	Variables map[string]string         `json:"variables,omitempty"`
	Images    []domain.ImageAttachment  `json:"images,omitempty"`
}

type jobResponse struct {
	JobID       string `json:"job_id"`
	DocumentID  string `json:"document_id"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	ArtifactURL string `json:"artifact_url,omitempty"`
}

func toDocumentResponse(doc *domain.Document) documentResponse {
	return documentResponse{
		ID:          doc.ID,
		Title:       doc.Title,
		Description: doc.Description,
		Status:      string(doc.Status),
		ArtifactKey: doc.ArtifactKey,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func toJobResponse(job *domain.GenerationJob) jobResponse {
	return jobResponse{
		JobID:       job.ID,
		DocumentID:  job.DocumentID,
		Status:      string(job.Status),
		Error:       job.Error,
		ArtifactURL: job.ArtifactURL,
	}
}

func (a *App) DocumentsCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req documentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		a.error(w, http.StatusBadRequest, "validation", "title is required")
		return
	}
	doc := &domain.Document{
		ID:          uuid.NewString(),
		OwnerID:     userID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Status:      domain.DocumentStatusDraft,
	}
	if err := a.Documents.Create(r.Context(), doc); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toDocumentResponse(doc))
}

func (a *App) DocumentsList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	docs, err := a.Documents.ListByOwner(r.Context(), userID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	out := make([]documentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, toDocumentResponse(&docs[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"documents": out})
}

func (a *App) DocumentsGet(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	doc, err := a.Documents.GetByID(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toDocumentResponse(doc))
}

// DocumentsGenerate accepts a generation submission and enqueues a job.
// Acceptance is cheap: validation plus one transactional insert. A 409 means
// the document already has a job in flight.
func (a *App) DocumentsGenerate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	documentID := chi.URLParam(r, "id")
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	layoutID := strings.TrimSpace(req.LayoutID)
	if layoutID == "" {
		layoutID = template.DefaultLayoutID
	}
	if !template.KnownLayout(layoutID) {
		a.error(w, http.StatusBadRequest, "validation", fmt.Sprintf("unknown layout %q", layoutID))
		return
	}
	if req.Answers == nil && len(req.Variables) == 0 {
		a.error(w, http.StatusBadRequest, "validation", "submission requires answers or variables")
		return
	}
	if err := validateImages(req.Images); err != nil {
		a.error(w, http.StatusBadRequest, "validation", err.Error())
		return
	}

	payload, err := json.Marshal(domain.JobPayload{
		Answers:   req.Answers,
		Variables: req.Variables,
		Images:    req.Images,
	})
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to encode submission")
		return
	}
	job := &domain.GenerationJob{
		ID:          uuid.NewString(),
		UserID:      userID,
		DocumentID:  documentID,
		LayoutID:    layoutID,
		Status:      domain.JobStatusPending,
		PayloadJSON: payload,
	}
	if err := a.Jobs.Enqueue(r.Context(), job); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusAccepted, toJobResponse(job))
}

// DocumentsGenerateStatus reports the newest job targeting the document in
// poller vocabulary: pending, in_progress, ready (with artifact URL), or
// failed. The raw job record stays available under /v1/jobs/{id}.
func (a *App) DocumentsGenerateStatus(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	job, err := a.Jobs.LatestForDocument(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, jobResponse{
		JobID:       job.ID,
		DocumentID:  job.DocumentID,
		Status:      pollStatus(job.Status),
		Error:       job.Error,
		ArtifactURL: job.ArtifactURL,
	})
}

func pollStatus(s domain.JobStatus) string {
	switch s {
	case domain.JobStatusProcessing:
		return "in_progress"
	case domain.JobStatusCompleted:
		return "ready"
	case domain.JobStatusFailed:
		return "failed"
	default:
		return "pending"
	}
}

func validateImages(images []domain.ImageAttachment) error {
	if len(images) > template.MaxImages {
		return fmt.Errorf("at most %d images allowed", template.MaxImages)
	}
	for i, img := range images {
		var matched bool
		for _, prefix := range allowedImagePrefixes {
			if strings.HasPrefix(img.Src, prefix) {
				matched = true
				break
			}
		}
		if !matched {
			return fmt.Errorf("image %d must be a png, jpeg, or svg data URL", i+1)
		}
		// Base64 expands by 4/3, so the decoded size bound maps onto the
		// encoded length without decoding.
		if encoded := len(img.Src); (encoded/4)*3 > maxImageBytes {
			return fmt.Errorf("image %d exceeds the %d byte limit", i+1, maxImageBytes)
		}
	}
	return nil
}
