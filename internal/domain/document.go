package domain

import "time"

// DocumentStatus enumerates target record states. "generating" is held for
// the duration of exactly one job; failure reverts to "in_progress" so the
// owner can retry.
type DocumentStatus string

const (
	DocumentStatusDraft      DocumentStatus = "draft"
	DocumentStatusInProgress DocumentStatus = "in_progress"
	DocumentStatusGenerating DocumentStatus = "generating"
	DocumentStatusCompleted  DocumentStatus = "completed"
)

// Document is the target record a generation job produces an artifact for.
type Document struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Status      DocumentStatus
	ArtifactKey string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Lead is a captured prospect for a completed document.
type Lead struct {
	ID         string
	DocumentID string
	Email      string
	Name       string
	Company    string
	CreatedAt  time.Time
}

// Download records one artifact download by a lead, with optional
// geo-enriched origin.
type Download struct {
	ID           string
	DocumentID   string
	LeadID       string
	IPAddress    string
	CountryCode  string
	DownloadedAt time.Time
}

// DashboardStats aggregates per-owner counters for the dashboard endpoint.
type DashboardStats struct {
	TotalDocuments  int `json:"total_documents"`
	ActiveDocuments int `json:"active_documents"`
	TotalDownloads  int `json:"total_downloads"`
	LeadsGenerated  int `json:"leads_generated"`
}
