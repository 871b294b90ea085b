package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// JobRepositoryPG persists generation jobs and mediates the document claim
// that guards against duplicate concurrent generation.
type JobRepositoryPG struct {
	runner infra.SQLTxRunner
}

// NewJobRepository creates a job repository backed by PostgreSQL.
func NewJobRepository(runner infra.SQLTxRunner) *JobRepositoryPG {
	return &JobRepositoryPG{runner: runner}
}

// Enqueue atomically claims the target document and inserts a pending job.
// Returns domain.ErrNotFound when the document does not belong to the user
// and domain.ErrConflict when another job already holds the claim.
func (r *JobRepositoryPG) Enqueue(ctx context.Context, job *domain.GenerationJob) error {
	return r.runner.InTx(ctx, func(tx infra.SQLExecutor) error {
		if _, err := scanDocument(tx.QueryRow(ctx, sqlinline.QDocumentByID, job.DocumentID, job.UserID)); err != nil {
			return err
		}
		var docID string
		err := tx.QueryRow(ctx, sqlinline.QDocumentClaimGenerating, job.DocumentID, job.UserID).Scan(&docID)
		if infra.IsNoRows(err) {
			return domain.ErrConflict
		}
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, sqlinline.QJobInsert,
			job.ID, job.UserID, job.DocumentID, job.LayoutID, job.PayloadJSON)
		return err
	})
}

// ClaimNext moves the oldest pending job to processing and returns it.
// domain.ErrNotFound signals an empty queue.
func (r *JobRepositoryPG) ClaimNext(ctx context.Context) (*domain.GenerationJob, error) {
	return scanJob(r.runner.QueryRow(ctx, sqlinline.QJobClaimNext))
}

// Complete settles a job as succeeded and finishes the document claim in
// the same transaction.
func (r *JobRepositoryPG) Complete(ctx context.Context, job *domain.GenerationJob, artifactKey string) error {
	return r.runner.InTx(ctx, func(tx infra.SQLExecutor) error {
		tag, err := tx.Exec(ctx, sqlinline.QJobComplete, job.ID, job.ArtifactURL)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("job %s is not processing", job.ID)
		}
		_, err = tx.Exec(ctx, sqlinline.QDocumentFinishGenerating, job.DocumentID, artifactKey)
		return err
	})
}

// Fail settles a job as failed and reverts the document claim so the owner
// can retry.
func (r *JobRepositoryPG) Fail(ctx context.Context, job *domain.GenerationJob, message string) error {
	return r.runner.InTx(ctx, func(tx infra.SQLExecutor) error {
		if _, err := tx.Exec(ctx, sqlinline.QJobFail, job.ID, message); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, sqlinline.QDocumentRevertGenerating, job.DocumentID)
		return err
	})
}

// GetByID fetches a job scoped to its owner.
func (r *JobRepositoryPG) GetByID(ctx context.Context, jobID, userID string) (*domain.GenerationJob, error) {
	return scanJob(r.runner.QueryRow(ctx, sqlinline.QJobByID, jobID, userID))
}

// LatestForDocument returns the newest job targeting the document.
func (r *JobRepositoryPG) LatestForDocument(ctx context.Context, documentID, userID string) (*domain.GenerationJob, error) {
	return scanJob(r.runner.QueryRow(ctx, sqlinline.QJobLatestForDocument, documentID, userID))
}

func scanJob(row pgx.Row) (*domain.GenerationJob, error) {
	var job domain.GenerationJob
	err := row.Scan(
		&job.ID,
		&job.UserID,
		&job.DocumentID,
		&job.LayoutID,
		&job.Status,
		&job.Error,
		&job.ArtifactURL,
		&job.PayloadJSON,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if infra.IsNoRows(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}
