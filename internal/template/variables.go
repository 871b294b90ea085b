// Package template converts the variable-shaped output of the AI content
// service plus firm-supplied facts into the strict, fixed-key variable set a
// layout consumes, and binds that set into renderable markup.
package template

import "server/internal/domain"

// Required template keys. Everything else degrades to an empty string when
// its source data is absent.
const (
	KeyMainTitle   = "mainTitle"
	KeyCompanyName = "companyName"
)

// RequiredKeys lists the keys that must be non-empty before rendering.
var RequiredKeys = []string{KeyMainTitle, KeyCompanyName}

// SectionCount is the number of content sections the fixed layout expects.
const SectionCount = 5

// MaxImages bounds the auxiliary image attachments a layout accepts.
const MaxImages = 3

// Variables is the flat key-to-string set consumed by the renderer, plus the
// small structured image list and the quality-review output. Warnings flag
// suspicious content for the caller to surface; they never block rendering.
type Variables struct {
	Values      map[string]string
	Images      []domain.ImageAttachment
	Warnings    string
	HasWarnings bool
}

// Get returns the value for key, or the empty string.
func (v *Variables) Get(key string) string {
	if v == nil || v.Values == nil {
		return ""
	}
	return v.Values[key]
}

// MissingRequired returns required keys that are empty.
func (v *Variables) MissingRequired() []string {
	var missing []string
	for _, key := range RequiredKeys {
		if v.Get(key) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}
