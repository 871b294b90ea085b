package domain

import "time"

// JobStatus enumerates generation job lifecycle states. Transitions are
// monotonic: pending -> processing -> {completed, failed}.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status allows no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// GenerationJob tracks one generation attempt for one target document.
// The persisted layout (id, owner, status, error, artifact URL, timestamps)
// is a durable contract other subsystems rely on.
type GenerationJob struct {
	ID          string
	UserID      string
	DocumentID  string
	LayoutID    string
	Status      JobStatus
	Error       string
	ArtifactURL string
	PayloadJSON []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// JobPayload is the transient submission stored with a pending job: either
// freeform answers (triggering AI acquisition) or prebuilt variables that
// skip it. Images are bounded auxiliary attachments.
type JobPayload struct {
	Answers   *GenerationRequest `json:"answers,omitempty"`
	Variables map[string]string  `json:"variables,omitempty"`
	Images    []ImageAttachment  `json:"images,omitempty"`
}

// ImageAttachment is an auxiliary inline image supplied with a submission.
type ImageAttachment struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}
