package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	domain "github.com/eyeway/uxlens/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save inserts or updates an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO analyses
  (id, owner_id, image_path, user_intent, ai_result, highlights, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  ai_result=EXCLUDED.ai_result,
  highlights=EXCLUDED.highlights,
  status=EXCLUDED.status;
`
	highlights, err := marshalHighlights(a.Highlights)
	if err != nil {
		return err
	}
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err = r.db.ExecContext(ctx, q,
		a.ID, a.OwnerID, a.ImagePath, a.UserIntent,
		nullableString(a.AIResult), highlights, a.Status, created,
	)
	return err
}

func (r *AnalysisRepository) Get(ctx context.Context, owner string, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `
SELECT id, owner_id, image_path, user_intent, ai_result, highlights, status, created_at
FROM analyses
WHERE owner_id=$1 AND id=$2
LIMIT 1;`
	a, err := scanAnalysis(r.db.QueryRowContext(ctx, q, owner, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return a, err
}

func (r *AnalysisRepository) ListByOwner(ctx context.Context, owner string) ([]*domain.Analysis, error) {
	const q = `
SELECT id, owner_id, image_path, user_intent, ai_result, highlights, status, created_at
FROM analyses
WHERE owner_id=$1
ORDER BY created_at DESC, id DESC;`
	rows, err := r.db.QueryContext(ctx, q, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AnalysisRepository) UpdateResult(ctx context.Context, id domain.AnalysisID, status domain.Status, aiResult string, highlights []domain.Highlight) (int64, error) {
	const q = `
UPDATE analyses
SET status=$1, ai_result=$2, highlights=$3
WHERE id=$4;`
	hs, err := marshalHighlights(highlights)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, q, status, nullableString(aiResult), hs, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *AnalysisRepository) Delete(ctx context.Context, owner string, id domain.AnalysisID) error {
	const q = `DELETE FROM analyses WHERE owner_id=$1 AND id=$2;`
	res, err := r.db.ExecContext(ctx, q, owner, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*domain.Analysis, error) {
	var (
		a          domain.Analysis
		aiResult   sql.NullString
		highlights []byte
	)
	if err := row.Scan(
		&a.ID, &a.OwnerID, &a.ImagePath, &a.UserIntent,
		&aiResult, &highlights, &a.Status, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	a.AIResult = aiResult.String
	if len(highlights) > 0 {
		if err := json.Unmarshal(highlights, &a.Highlights); err != nil {
			return nil, err
		}
	}
	return &a, nil
}

func marshalHighlights(hs []domain.Highlight) (any, error) {
	if len(hs) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(hs)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
