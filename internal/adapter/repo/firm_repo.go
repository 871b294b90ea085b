package repo

import (
	"context"
	"encoding/json"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// FirmRepositoryPG persists firm profiles. Facts live in a single jsonb
// column; the shape is owned by domain.FirmFacts.
type FirmRepositoryPG struct {
	runner infra.SQLExecutor
}

// NewFirmRepository creates a firm profile repository backed by PostgreSQL.
func NewFirmRepository(runner infra.SQLExecutor) *FirmRepositoryPG {
	return &FirmRepositoryPG{runner: runner}
}

// Get fetches the user's firm profile.
func (r *FirmRepositoryPG) Get(ctx context.Context, userID string) (*domain.FirmProfile, error) {
	var profile domain.FirmProfile
	var facts []byte
	err := r.runner.QueryRow(ctx, sqlinline.QFirmProfileGet, userID).Scan(
		&profile.UserID,
		&facts,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if infra.IsNoRows(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(facts, &profile.Facts); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert stores or replaces the user's firm profile.
func (r *FirmRepositoryPG) Upsert(ctx context.Context, profile *domain.FirmProfile) error {
	facts, err := json.Marshal(profile.Facts)
	if err != nil {
		return err
	}
	_, err = r.runner.Exec(ctx, sqlinline.QFirmProfileUpsert, profile.UserID, facts)
	return err
}
