package repo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// DocumentRepositoryPG persists target document records.
type DocumentRepositoryPG struct {
	runner infra.SQLExecutor
}

// NewDocumentRepository creates a document repository backed by PostgreSQL.
func NewDocumentRepository(runner infra.SQLExecutor) *DocumentRepositoryPG {
	return &DocumentRepositoryPG{runner: runner}
}

// Create inserts a new draft document.
func (r *DocumentRepositoryPG) Create(ctx context.Context, doc *domain.Document) error {
	_, err := r.runner.Exec(ctx, sqlinline.QDocumentInsert,
		doc.ID, doc.OwnerID, doc.Title, doc.Description)
	return err
}

// GetByID fetches a document scoped to its owner.
func (r *DocumentRepositoryPG) GetByID(ctx context.Context, documentID, ownerID string) (*domain.Document, error) {
	return scanDocument(r.runner.QueryRow(ctx, sqlinline.QDocumentByID, documentID, ownerID))
}

// GetCompleted fetches a finished document regardless of owner. Backs the
// public lead capture and download surface.
func (r *DocumentRepositoryPG) GetCompleted(ctx context.Context, documentID string) (*domain.Document, error) {
	return scanDocument(r.runner.QueryRow(ctx, sqlinline.QDocumentCompletedByID, documentID))
}

// ListByOwner returns the owner's documents, newest first.
func (r *DocumentRepositoryPG) ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error) {
	rows, err := r.runner.Query(ctx, sqlinline.QDocumentListByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// StatsForOwner aggregates the dashboard counters.
func (r *DocumentRepositoryPG) StatsForOwner(ctx context.Context, ownerID string) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	err := r.runner.QueryRow(ctx, sqlinline.QStatsForOwner, ownerID).Scan(
		&stats.TotalDocuments,
		&stats.ActiveDocuments,
		&stats.TotalDownloads,
		&stats.LeadsGenerated,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var doc domain.Document
	err := row.Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.Title,
		&doc.Description,
		&doc.Status,
		&doc.ArtifactKey,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if infra.IsNoRows(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
