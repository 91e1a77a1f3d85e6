package analysis

import (
	"time"
)

// ID tipe untuk Analysis
type AnalysisID string

// Status enum
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Coordinates is the bounding box of a highlight on the screenshot
type Coordinates struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Highlight value object: one annotated issue extracted from the AI report
type Highlight struct {
	ID          int         `json:"id"`
	Element     string      `json:"element"`
	Issue       string      `json:"issue"`
	Severity    string      `json:"severity"`
	Coordinates Coordinates `json:"coordinates"`
}

// Aggregate Root: Analysis
//
// Created in StatusProcessing (creation always carries an uploaded file),
// then mutated exactly once by the background completion path to
// StatusCompleted or StatusFailed. Never reverts.
type Analysis struct {
	ID         AnalysisID  `json:"id"`
	OwnerID    string      `json:"owner_id"`
	ImagePath  string      `json:"image_path"`
	UserIntent string      `json:"user_intent"`
	AIResult   string      `json:"ai_result,omitempty"`
	Highlights []Highlight `json:"highlights,omitempty"`
	Status     Status      `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}
