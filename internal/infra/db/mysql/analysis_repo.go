package mysql

import (
	"context"
	"database/sql"
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

// Save insert/update Analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO analyses
 (id, owner_id, image_path, user_intent, ai_result, highlights, status, created_at)
VALUES (?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 ai_result=VALUES(ai_result),
 highlights=VALUES(highlights),
 status=VALUES(status);
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

// Get by ID + owner
func (r *AnalysisRepository) Get(ctx context.Context, owner string, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `
SELECT id, owner_id, image_path, user_intent, ai_result, highlights, status, created_at
FROM analyses
WHERE owner_id=? AND id=? LIMIT 1;
`
	a, err := scanAnalysis(r.db.QueryRowContext(ctx, q, owner, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return a, err
}

// ListByOwner returns all records of one owner, newest first
func (r *AnalysisRepository) ListByOwner(ctx context.Context, owner string) ([]*domain.Analysis, error) {
	const q = `
SELECT id, owner_id, image_path, user_intent, ai_result, highlights, status, created_at
FROM analyses
WHERE owner_id=? ORDER BY created_at DESC, id DESC;
`
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

// UpdateResult is the single terminal write of the background path.
func (r *AnalysisRepository) UpdateResult(ctx context.Context, id domain.AnalysisID, status domain.Status, aiResult string, highlights []domain.Highlight) (int64, error) {
	const q = `
UPDATE analyses
SET status = ?, ai_result = ?, highlights = ?
WHERE id = ?;`
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
	const q = `DELETE FROM analyses WHERE owner_id=? AND id=?;`
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
	hs, err := unmarshalHighlights(highlights)
	if err != nil {
		return nil, err
	}
	a.Highlights = hs
	return &a, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
