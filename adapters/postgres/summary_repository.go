// Package postgres persists analysis-run summaries.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	domstats "entropynull/domain/stats"
	apperrors "entropynull/internal/errors"
	"entropynull/ports"
)

// SummaryRepositoryImpl implements SummaryRepository for PostgreSQL.
type SummaryRepositoryImpl struct {
	db *sqlx.DB
}

// NewSummaryRepository creates a new PostgreSQL summary repository.
func NewSummaryRepository(db *sqlx.DB) ports.SummaryRepository {
	return &SummaryRepositoryImpl{db: db}
}

// Connect opens and pings a PostgreSQL connection.
func Connect(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, apperrors.DatabaseError("connect postgres", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
    run_id             TEXT PRIMARY KEY,
    run_dir            TEXT NOT NULL,
    rows               INTEGER NOT NULL,
    smoke              BOOLEAN NOT NULL,
    seed               BIGINT NOT NULL,
    resamples          INTEGER NOT NULL,
    collapse_threshold DOUBLE PRECISION NOT NULL,
    roc_auc            DOUBLE PRECISION NOT NULL,
    roc_auc_lower      DOUBLE PRECISION NOT NULL,
    roc_auc_upper      DOUBLE PRECISION NOT NULL,
    pr_auc             DOUBLE PRECISION NOT NULL,
    pr_auc_lower       DOUBLE PRECISION NOT NULL,
    pr_auc_upper       DOUBLE PRECISION NOT NULL,
    prevalence         DOUBLE PRECISION NOT NULL,
    per_model          JSONB NOT NULL,
    generated_at       TIMESTAMPTZ NOT NULL
)`

// EnsureSchema creates the analysis_runs table when absent.
func (r *SummaryRepositoryImpl) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// SaveSummary inserts one row per analysis run.
func (r *SummaryRepositoryImpl) SaveSummary(ctx context.Context, summary domstats.RunSummary) error {
	perModel, err := json.Marshal(summary.PerModel)
	if err != nil {
		return fmt.Errorf("encode per-model summaries: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO analysis_runs (
			run_id, run_dir, rows, smoke, seed, resamples, collapse_threshold,
			roc_auc, roc_auc_lower, roc_auc_upper,
			pr_auc, pr_auc_lower, pr_auc_upper,
			prevalence, per_model, generated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		summary.RunID, summary.RunDir, summary.Rows, summary.Smoke,
		summary.Seed, summary.Resamples, summary.CollapseThreshold,
		summary.Failure.ROCAUC.Estimate, summary.Failure.ROCAUC.Lower, summary.Failure.ROCAUC.Upper,
		summary.Failure.PRAUC.Estimate, summary.Failure.PRAUC.Lower, summary.Failure.PRAUC.Upper,
		summary.Failure.Prevalence, perModel, summary.GeneratedAt,
	)
	if err != nil {
		return apperrors.DatabaseError("insert analysis run", err)
	}
	return nil
}
