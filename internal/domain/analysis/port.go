package analysis

import (
	"context"
	"io"
)

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, a *Analysis) error
	Get(ctx context.Context, owner string, id AnalysisID) (*Analysis, error)
	ListByOwner(ctx context.Context, owner string) ([]*Analysis, error)
	// UpdateResult performs the single terminal write of the completion path.
	// Returns the number of rows touched so callers can detect a record
	// deleted while the analysis was still in flight.
	UpdateResult(ctx context.Context, id AnalysisID, status Status, aiResult string, highlights []Highlight) (int64, error)
	Delete(ctx context.Context, owner string, id AnalysisID) error
}

// ImageStore port (interface untuk penyimpanan screenshot)
type ImageStore interface {
	Save(ctx context.Context, filename string, src io.Reader) (string, error)
	Read(ctx context.Context, path string) ([]byte, error)
	Remove(ctx context.Context, path string) error
}
