package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/eyeway/uxlens/internal/domain/analysis"
)

var analysisColumns = []string{
	"id", "owner_id", "image_path", "user_intent",
	"ai_result", "highlights", "status", "created_at",
}

func TestAnalysisRepositorySave(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAnalysisRepository(db)
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO analyses").
		WithArgs("a-1", "owner-1", "uploads/shot.png", "sign up fast",
			nil, nil, string(domain.StatusProcessing), created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Save(context.Background(), &domain.Analysis{
		ID:         "a-1",
		OwnerID:    "owner-1",
		ImagePath:  "uploads/shot.png",
		UserIntent: "sign up fast",
		Status:     domain.StatusProcessing,
		CreatedAt:  created,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepositoryGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAnalysisRepository(db)
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	highlights := `[{"id":1,"element":"cta","issue":"low contrast","severity":"high","coordinates":{"x":1,"y":2,"width":3,"height":4}}]`
	rows := sqlmock.NewRows(analysisColumns).
		AddRow("a-1", "owner-1", "uploads/shot.png", "sign up fast",
			"# Report", []byte(highlights), string(domain.StatusCompleted), created)

	mock.ExpectQuery("SELECT id, owner_id, image_path").
		WithArgs("owner-1", "a-1").
		WillReturnRows(rows)

	a, err := repo.Get(context.Background(), "owner-1", "a-1")
	require.NoError(t, err)
	assert.Equal(t, domain.AnalysisID("a-1"), a.ID)
	assert.Equal(t, "# Report", a.AIResult)
	assert.Equal(t, domain.StatusCompleted, a.Status)
	require.Len(t, a.Highlights, 1)
	assert.Equal(t, "cta", a.Highlights[0].Element)
	assert.Equal(t, domain.Coordinates{X: 1, Y: 2, Width: 3, Height: 4}, a.Highlights[0].Coordinates)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepositoryGetNullColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAnalysisRepository(db)

	// freshly submitted record: ai_result and highlights are still NULL
	rows := sqlmock.NewRows(analysisColumns).
		AddRow("a-1", "owner-1", "uploads/shot.png", "sign up fast",
			nil, nil, string(domain.StatusProcessing), time.Now())

	mock.ExpectQuery("SELECT id, owner_id, image_path").
		WithArgs("owner-1", "a-1").
		WillReturnRows(rows)

	a, err := repo.Get(context.Background(), "owner-1", "a-1")
	require.NoError(t, err)
	assert.Empty(t, a.AIResult)
	assert.Empty(t, a.Highlights)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepositoryGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAnalysisRepository(db)

	mock.ExpectQuery("SELECT id, owner_id, image_path").
		WithArgs("owner-1", "missing").
		WillReturnRows(sqlmock.NewRows(analysisColumns))

	_, err = repo.Get(context.Background(), "owner-1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepositoryListByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAnalysisRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows(analysisColumns).
		AddRow("a-2", "owner-1", "uploads/b.png", "b", nil, nil, string(domain.StatusProcessing), now).
		AddRow("a-1", "owner-1", "uploads/a.png", "a", "done", nil, string(domain.StatusCompleted), now.Add(-time.Hour))

	mock.ExpectQuery("SELECT id, owner_id, image_path").
		WithArgs("owner-1").
		WillReturnRows(rows)

	out, err := repo.ListByOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, domain.AnalysisID("a-2"), out[0].ID)
	assert.Equal(t, domain.AnalysisID("a-1"), out[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepositoryUpdateResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAnalysisRepository(db)

	mock.ExpectExec("UPDATE analyses").
		WithArgs(string(domain.StatusCompleted), "# Report",
			`[{"id":1,"element":"cta","issue":"low contrast","severity":"high","coordinates":{"x":1,"y":2,"width":3,"height":4}}]`,
			"a-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rows, err := repo.UpdateResult(context.Background(), "a-1", domain.StatusCompleted, "# Report", []domain.Highlight{
		{ID: 1, Element: "cta", Issue: "low contrast", Severity: "high",
			Coordinates: domain.Coordinates{X: 1, Y: 2, Width: 3, Height: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepositoryUpdateResultGone(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAnalysisRepository(db)

	// record deleted under us: zero rows, not an error
	mock.ExpectExec("UPDATE analyses").
		WithArgs(string(domain.StatusFailed), nil, nil, "a-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err := repo.UpdateResult(context.Background(), "a-1", domain.StatusFailed, "", nil)
	require.NoError(t, err)
	assert.Zero(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepositoryDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAnalysisRepository(db)

	mock.ExpectExec("DELETE FROM analyses").
		WithArgs("owner-1", "a-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM analyses").
		WithArgs("owner-1", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "owner-1", "a-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "owner-1", "missing"), domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
