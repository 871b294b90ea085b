package domain

// ContentDocument is the structured response of the external text-generation
// service. Every field is optional: the upstream is schema-free in practice,
// so consumers must treat each access as possibly absent or empty. Decoding
// into this shape (rather than duck-typed map lookups) keeps the zero value
// of every branch safe to walk.
type ContentDocument struct {
	Style    ContentStyle     `json:"style"`
	Brand    ContentBrand     `json:"brand"`
	Cover    ContentCover     `json:"cover"`
	Terms    ContentTerms     `json:"terms"`
	Contents ContentList      `json:"contents"`
	Sections []ContentSection `json:"sections"`
	Contact  ContentContact   `json:"contact"`
}

type ContentStyle struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	AccentColor    string `json:"accent_color"`
}

type ContentBrand struct {
	LogoURL string `json:"logo_url"`
}

type ContentCover struct {
	Title          string `json:"title"`
	Subtitle       string `json:"subtitle"`
	CompanyName    string `json:"company_name"`
	CompanyTagline string `json:"company_tagline"`
}

type ContentTerms struct {
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Paragraphs []string `json:"paragraphs"`
}

type ContentList struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

type ContentSection struct {
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	Subsections []ContentSubsect `json:"subsections"`
}

type ContentSubsect struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ContentContact struct {
	Title               string `json:"title"`
	Description         string `json:"description"`
	Phone               string `json:"phone"`
	Email               string `json:"email"`
	Website             string `json:"website"`
	DifferentiatorTitle string `json:"differentiator_title"`
	Differentiator      string `json:"differentiator"`
}

// Section returns the idx-th section or an empty one when absent.
func (d *ContentDocument) Section(idx int) ContentSection {
	if d == nil || idx < 0 || idx >= len(d.Sections) {
		return ContentSection{}
	}
	return d.Sections[idx]
}

// Subsection returns the sub-th subsection of section idx, empty when absent.
func (d *ContentDocument) Subsection(idx, sub int) ContentSubsect {
	sec := d.Section(idx)
	if sub < 0 || sub >= len(sec.Subsections) {
		return ContentSubsect{}
	}
	return sec.Subsections[sub]
}
