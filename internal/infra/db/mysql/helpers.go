package mysql

import (
	"encoding/json"

	domain "github.com/eyeway/uxlens/internal/domain/analysis"
)

// marshalHighlights serializes highlights for the JSON column. An empty list
// persists as NULL so "not extracted yet" and "nothing found" read the same
// way the API presents them (absent field).
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

func unmarshalHighlights(raw []byte) ([]domain.Highlight, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var hs []domain.Highlight
	if err := json.Unmarshal(raw, &hs); err != nil {
		return nil, err
	}
	return hs, nil
}
