package analysis

import (
	"encoding/json"
	"regexp"

	"github.com/apex/log"
)

// fenced ```json block inside the AI free-text report
var fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

type highlightPayload struct {
	Highlights []Highlight `json:"highlights"`
}

// ExtractHighlights pulls the structured highlight list out of the AI result.
// Best effort only: the report text is the primary artifact, so a missing
// block, broken JSON or an absent highlights field all yield an empty list
// and never an error.
func ExtractHighlights(aiResult string) []Highlight {
	m := fencedJSON.FindStringSubmatch(aiResult)
	if m == nil {
		return nil
	}

	var payload highlightPayload
	if err := json.Unmarshal([]byte(m[1]), &payload); err != nil {
		log.WithError(err).Warn("highlight block is not valid JSON, skipping")
		return nil
	}
	return payload.Highlights
}
