package analysisfaults

import "time"

// Fault represents a persisted background-analysis failure entry
type Fault struct {
	ID         int64     `json:"id"`
	OwnerID    string    `json:"owner_id"`
	AnalysisID string    `json:"analysis_id"`
	Phase      string    `json:"phase,omitempty"` // analyze | persist
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
