package site

import (
	"embed"
	"fmt"
)

//go:embed static/index.html
var staticFS embed.FS

// Index returns the embedded questionnaire page.
func Index() ([]byte, error) {
	b, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServe, err)
	}
	return b, nil
}
