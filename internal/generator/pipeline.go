// Package generator runs the document generation pipeline: acquire content,
// bind it into a layout, render the PDF remotely, and persist the artifact.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/template"
)

// ContentClient acquires structured content from the text-generation
// upstream.
type ContentClient interface {
	GenerateContent(ctx context.Context, facts domain.FirmFacts, answers domain.GenerationRequest) (*domain.ContentDocument, error)
}

// Renderer turns bound HTML into PDF bytes.
type Renderer interface {
	RenderPDF(ctx context.Context, markup, filename string) ([]byte, error)
}

// FirmStore looks up stored firm profiles.
type FirmStore interface {
	Get(ctx context.Context, userID string) (*domain.FirmProfile, error)
}

// ArtifactStore persists rendered artifacts and returns the canonical key.
type ArtifactStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
}

// Pipeline executes one generation job end to end.
type Pipeline struct {
	content  ContentClient
	renderer Renderer
	firms    FirmStore
	store    ArtifactStore
	baseURL  string
	logger   infra.Logger
}

// PipelineOptions wires the pipeline's collaborators. PublicBaseURL prefixes
// stored artifact keys into downloadable URLs.
type PipelineOptions struct {
	Content       ContentClient
	Renderer      Renderer
	Firms         FirmStore
	Store         ArtifactStore
	PublicBaseURL string
	Logger        infra.Logger
}

func NewPipeline(opts PipelineOptions) *Pipeline {
	return &Pipeline{
		content:  opts.Content,
		renderer: opts.Renderer,
		firms:    opts.Firms,
		store:    opts.Store,
		baseURL:  strings.TrimRight(opts.PublicBaseURL, "/"),
		logger:   opts.Logger,
	}
}

// Artifact describes a stored render: the storage key and the public URL
// built from it.
type Artifact struct {
	Key string
	URL string
}

// Process runs the job and returns the stored artifact. Errors keep their
// domain classification so the worker can persist a faithful failure reason.
func (p *Pipeline) Process(ctx context.Context, job *domain.GenerationJob) (*Artifact, error) {
	var payload domain.JobPayload
	if len(job.PayloadJSON) > 0 {
		if err := json.Unmarshal(job.PayloadJSON, &payload); err != nil {
			return nil, fmt.Errorf("%w: undecodable job payload: %v", domain.ErrValidation, err)
		}
	}

	facts := p.lookupFacts(ctx, job.UserID)

	vars, err := p.resolveVariables(ctx, facts, payload)
	if err != nil {
		return nil, err
	}
	if missing := vars.MissingRequired(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: unresolved required keys %s", domain.ErrValidation, strings.Join(missing, ", "))
	}
	if len(payload.Images) > template.MaxImages {
		payload.Images = payload.Images[:template.MaxImages]
	}
	vars.Images = payload.Images

	markup, err := template.Bind(job.LayoutID, vars)
	if err != nil {
		return nil, err
	}

	filename := artifactFilename(job.LayoutID, vars.Get(template.KeyCompanyName))
	pdf, err := p.renderer.RenderPDF(ctx, markup, filename)
	if err != nil {
		return nil, err
	}

	key, err := p.store.Write(ctx, fmt.Sprintf("artifacts/%s/%s/%s", job.UserID, job.ID, filename), pdf)
	if err != nil {
		return nil, fmt.Errorf("store artifact: %w", err)
	}
	if vars.HasWarnings {
		p.logger.Info().Str("job_id", job.ID).Str("warnings", vars.Warnings).Msg("pipeline: content quality notes")
	}
	return &Artifact{Key: key, URL: p.baseURL + "/" + key}, nil
}

// resolveVariables either binds caller-supplied variables directly or walks
// the AI acquisition path.
func (p *Pipeline) resolveVariables(ctx context.Context, facts domain.FirmFacts, payload domain.JobPayload) (*template.Variables, error) {
	if len(payload.Variables) > 0 {
		return &template.Variables{Values: payload.Variables}, nil
	}
	if payload.Answers == nil {
		return nil, fmt.Errorf("%w: submission carries neither answers nor variables", domain.ErrValidation)
	}
	doc, err := p.content.GenerateContent(ctx, facts, *payload.Answers)
	if err != nil {
		return nil, err
	}
	return template.MapVariables(doc, facts)
}

func (p *Pipeline) lookupFacts(ctx context.Context, userID string) domain.FirmFacts {
	profile, err := p.firms.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			p.logger.Warn().Err(err).Str("user_id", userID).Msg("pipeline: firm profile lookup failed")
		}
		return domain.FirmFacts{}
	}
	return profile.Facts
}

var unsafeFilenameRe = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func artifactFilename(layoutID, companyName string) string {
	name := unsafeFilenameRe.ReplaceAllString(strings.TrimSpace(companyName), "_")
	if name == "" {
		name = "document"
	}
	return fmt.Sprintf("%s_%s.pdf", layoutID, name)
}
