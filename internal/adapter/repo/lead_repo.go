package repo

import (
	"context"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// LeadRepositoryPG persists captured leads and their downloads.
type LeadRepositoryPG struct {
	runner infra.SQLExecutor
}

// NewLeadRepository creates a lead repository backed by PostgreSQL.
func NewLeadRepository(runner infra.SQLExecutor) *LeadRepositoryPG {
	return &LeadRepositoryPG{runner: runner}
}

// Capture upserts a lead by (document, email) and returns its id. Repeat
// submissions refresh name and company instead of duplicating the lead.
func (r *LeadRepositoryPG) Capture(ctx context.Context, lead *domain.Lead) (string, error) {
	var id string
	err := r.runner.QueryRow(ctx, sqlinline.QLeadInsert,
		lead.ID, lead.DocumentID, lead.Email, lead.Name, lead.Company).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListForDocument returns the document's leads, newest first, scoped to the
// document owner.
func (r *LeadRepositoryPG) ListForDocument(ctx context.Context, documentID, ownerID string) ([]domain.Lead, error) {
	rows, err := r.runner.Query(ctx, sqlinline.QLeadListForDocument, documentID, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var leads []domain.Lead
	for rows.Next() {
		var lead domain.Lead
		if err := rows.Scan(&lead.ID, &lead.DocumentID, &lead.Email, &lead.Name, &lead.Company, &lead.CreatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// RecordDownload stores one artifact download, with whatever geo enrichment
// the caller resolved.
func (r *LeadRepositoryPG) RecordDownload(ctx context.Context, dl *domain.Download) error {
	_, err := r.runner.Exec(ctx, sqlinline.QDownloadInsert,
		dl.ID, dl.DocumentID, dl.LeadID, nullable(dl.IPAddress), nullable(dl.CountryCode))
	return err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
