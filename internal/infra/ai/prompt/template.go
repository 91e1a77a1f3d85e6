package prompt

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Placeholder tokens expected in the template file.
const (
	PlaceholderIntent = "{USER_INTENT}"
	PlaceholderWidth  = "{IMAGE_WIDTH}"
	PlaceholderHeight = "{IMAGE_HEIGHT}"
)

// Template is a static prompt with substitution slots for the user intent
// and the screenshot dimensions.
type Template struct {
	text string
}

func New(text string) *Template {
	return &Template{text: text}
}

// Load reads the template file. A missing file is a configuration error and
// should be fatal at startup.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load prompt template: %w", err)
	}
	return New(string(data)), nil
}

// Build substitutes the three placeholders. Only the first occurrence of each
// token is replaced; templates that repeat a token keep the later copies
// verbatim (known limitation, kept on purpose).
func (t *Template) Build(userIntent string, width, height int) string {
	out := strings.Replace(t.text, PlaceholderIntent, userIntent, 1)
	out = strings.Replace(out, PlaceholderWidth, strconv.Itoa(width), 1)
	out = strings.Replace(out, PlaceholderHeight, strconv.Itoa(height), 1)
	return out
}
