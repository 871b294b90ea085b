package template

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"regexp"
	"strings"

	"server/internal/domain"

	"github.com/yuin/goldmark"
)

//go:embed layouts/*.html
var layoutFS embed.FS

// Layout describes one fixed document layout.
type Layout struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Pages       int    `json:"pages"`
}

// DefaultLayoutID is used when a submission does not name a layout.
const DefaultLayoutID = "professional-guide"

// Catalog returns the available layouts.
func Catalog() []Layout {
	return []Layout{
		{
			ID:          DefaultLayoutID,
			Name:        "Professional Guide",
			Description: "Branded multi-page guide with cover, terms, contents, five content sections, and a contact page.",
			Category:    "Professional",
			Pages:       9,
		},
	}
}

// KnownLayout reports whether id names a layout in the catalog.
func KnownLayout(id string) bool {
	for _, l := range Catalog() {
		if l.ID == id {
			return true
		}
	}
	return false
}

// Body variables may carry light markdown from the generator; they are
// rendered to HTML instead of being escaped verbatim.
var richKeys = map[string]bool{
	"termsSummary": true, "contactDescription": true, "differentiator": true,
}

func init() {
	for n := 1; n <= SectionCount; n++ {
		richKeys[fmt.Sprintf("customContent%d", n)] = true
		richKeys[fmt.Sprintf("termsParagraph%d", n)] = true
	}
}

var leftoverPlaceholderRe = regexp.MustCompile(`\{\{[A-Za-z0-9_]+\}\}`)

// Bind substitutes every variable into the named layout and returns the
// finished markup. Unknown layout ids are a validation error; unmatched
// placeholders are blanked so no braces survive into the rendered document.
func Bind(layoutID string, vars *Variables) (string, error) {
	if !KnownLayout(layoutID) {
		return "", fmt.Errorf("%w: unknown layout %q", domain.ErrValidation, layoutID)
	}
	raw, err := layoutFS.ReadFile("layouts/" + layoutID + ".html")
	if err != nil {
		return "", fmt.Errorf("load layout %s: %w", layoutID, err)
	}
	markup := string(raw)

	for key, value := range vars.Values {
		markup = strings.ReplaceAll(markup, "{{"+key+"}}", renderValue(key, value))
	}
	for i := 0; i < MaxImages; i++ {
		var img domain.ImageAttachment
		if i < len(vars.Images) {
			img = vars.Images[i]
		}
		markup = strings.ReplaceAll(markup, fmt.Sprintf("{{imageSrc%d}}", i+1), html.EscapeString(img.Src))
		markup = strings.ReplaceAll(markup, fmt.Sprintf("{{imageAlt%d}}", i+1), html.EscapeString(img.Alt))
	}
	markup = leftoverPlaceholderRe.ReplaceAllString(markup, "")
	return markup, nil
}

func renderValue(key, value string) string {
	if value == "" {
		return ""
	}
	if richKeys[key] {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(value), &buf); err == nil {
			return strings.TrimSpace(buf.String())
		}
	}
	return html.EscapeString(value)
}
