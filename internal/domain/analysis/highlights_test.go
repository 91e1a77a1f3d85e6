package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHighlightsFromFencedBlock(t *testing.T) {
	report := "# UX Report\n\nSome prose before.\n\n" +
		"```json\n" +
		`{"highlights": [` +
		`{"id": 1, "element": "login button", "issue": "low contrast", "severity": "high", "coordinates": {"x": 100, "y": 200, "width": 150, "height": 50}},` +
		`{"id": 2, "element": "search box", "issue": "touch target too small", "severity": "medium", "coordinates": {"x": 300, "y": 50, "width": 200, "height": 40}}` +
		"]}\n```\n\nSome prose after."

	got := ExtractHighlights(report)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, "login button", got[0].Element)
	assert.Equal(t, "high", got[0].Severity)
	assert.Equal(t, Coordinates{X: 100, Y: 200, Width: 150, Height: 50}, got[0].Coordinates)
	// order preserved
	assert.Equal(t, 2, got[1].ID)
	assert.Equal(t, "search box", got[1].Element)
}

func TestExtractHighlightsNoFencedBlock(t *testing.T) {
	got := ExtractHighlights("just a plain markdown report, no JSON anywhere")
	assert.Empty(t, got)
}

func TestExtractHighlightsMalformedJSON(t *testing.T) {
	got := ExtractHighlights("report\n```json\n{not valid json]\n```")
	assert.Empty(t, got)
}

func TestExtractHighlightsMissingField(t *testing.T) {
	got := ExtractHighlights("report\n```json\n{\"something_else\": 1}\n```")
	assert.Empty(t, got)
}

func TestExtractHighlightsUnlabeledFenceIgnored(t *testing.T) {
	got := ExtractHighlights("report\n```\n{\"highlights\": [{\"id\": 1}]}\n```")
	assert.Empty(t, got)
}

func TestExtractHighlightsMalformedEntriesPassThrough(t *testing.T) {
	// no schema validation on individual entries: unknown fields are dropped,
	// missing ones zero-valued
	got := ExtractHighlights("```json\n{\"highlights\": [{\"element\": \"x\", \"extra\": true}]}\n```")
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].ID)
	assert.Equal(t, "x", got[0].Element)
}
