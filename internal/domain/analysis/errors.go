package analysis

import "errors"

var (
	// ErrNotFound: no record with that id owned by the caller.
	ErrNotFound = errors.New("analysis not found")
	// ErrNoFile: a submission arrived without an uploaded image.
	ErrNoFile = errors.New("image file is required")
	// ErrUnsupportedFile: upload extension/MIME outside the allowed image set.
	ErrUnsupportedFile = errors.New("unsupported file type")
)
