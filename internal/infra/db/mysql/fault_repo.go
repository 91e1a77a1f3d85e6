package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/eyeway/uxlens/internal/domain/analysisfaults"
)

type FaultRepository struct {
	db *sql.DB
}

func NewFaultRepository(db *sql.DB) *FaultRepository {
	return &FaultRepository{db: db}
}

// Save appends one fault entry. Best effort from the caller's side; this
// write never gates the status update of the analysis itself.
func (r *FaultRepository) Save(ctx context.Context, f *domain.Fault) error {
	const q = `
INSERT INTO analysis_faults (owner_id, analysis_id, phase, message, created_at)
VALUES (?,?,?,?,?);`
	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, f.OwnerID, f.AnalysisID, f.Phase, f.Message, created)
	return err
}

func (r *FaultRepository) ListByAnalysis(ctx context.Context, owner string, analysisID string, limit int) ([]*domain.Fault, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, owner_id, analysis_id, phase, message, created_at
FROM analysis_faults
WHERE owner_id=? AND analysis_id=?
ORDER BY created_at DESC, id DESC
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, owner, analysisID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Fault
	for rows.Next() {
		var (
			f     domain.Fault
			phase sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.AnalysisID, &phase, &f.Message, &f.CreatedAt); err != nil {
			return nil, err
		}
		f.Phase = phase.String
		out = append(out, &f)
	}
	return out, rows.Err()
}
