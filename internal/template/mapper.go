package template

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"server/internal/domain"
	"server/internal/textnorm"
)

// Length bounds keep copy inside its fixed layout region. Titles run one
// line, section bodies one column, subsection copy fits sidebar boxes.
const (
	maxTitleChars      = 80
	maxContentChars    = 400
	maxSubcontentChars = 150
	maxSubtitleChars   = 140
	maxListItemChars   = 90
	maxDiffChars       = 180
)

var (
	genericPrefixRe   = regexp.MustCompile(`(?i)^(custom\s+guide\s*:|guide\s*:)\s*`)
	properNounTailRe  = regexp.MustCompile(`\s+(?:[Ff]or|[Bb]y)\s+[A-Z][\w&.'-]*(?:\s+[A-Z][\w&.'-]*)*[ .\-]*$`)
	trailingPrepRe    = regexp.MustCompile(`(?i)\s+(of|in|for)$`)
	trailingColonRe   = regexp.MustCompile(`[:\s]+$`)
	trailingArticleRe = regexp.MustCompile(`(?i)[:\-\s]+(a|an|the)$`)
	multiSpaceRe      = regexp.MustCompile(`\s+`)
)

// MapVariables converts an AI content document and the firm facts into the
// fixed variable set of the layout. Absent or malformed nested fields degrade
// to empty values; the only hard failure is an unresolvable document title or
// company name, reported as a validation error. Identity fields are never
// invented: AI-suggested values win, firm facts fill gaps, and anything still
// missing stays blank.
func MapVariables(doc *domain.ContentDocument, facts domain.FirmFacts) (*Variables, error) {
	if doc == nil {
		doc = &domain.ContentDocument{}
	}

	companyName := coalesce(doc.Cover.CompanyName, facts.FirmName)
	// "Professional Guide" is a generic document label, not a business fact,
	// so it is an acceptable stand-in when the upstream omits a cover title.
	mainTitle := CleanTitle(coalesce(doc.Cover.Title, "Professional Guide"), companyName)

	var missing []string
	if mainTitle == "" {
		missing = append(missing, KeyMainTitle)
	}
	if companyName == "" {
		missing = append(missing, KeyCompanyName)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: unresolved required keys %s", domain.ErrValidation, strings.Join(missing, ", "))
	}

	vars := &Variables{Values: make(map[string]string, 96)}
	set := func(key, value string) { vars.Values[key] = value }

	set("documentTitle", strings.ToUpper(mainTitle))
	set(KeyMainTitle, mainTitle)
	set("documentSubtitle", textnorm.Sloganize(textnorm.CleanSubtitle(doc.Cover.Subtitle)))
	set(KeyCompanyName, companyName)
	set("companySubtitle", coalesce(doc.Cover.CompanyTagline, facts.Tagline))
	set("primaryColor", coalesce(doc.Style.PrimaryColor, facts.PrimaryColor))
	set("secondaryColor", coalesce(doc.Style.SecondaryColor, facts.SecondaryColor))
	set("accentColor", coalesce(doc.Style.AccentColor, facts.AccentColor))
	set("logoUrl", coalesce(doc.Brand.LogoURL, facts.LogoURL))

	set("phoneNumber", coalesce(doc.Contact.Phone, facts.PhoneNumber))
	set("emailAddress", coalesce(doc.Contact.Email, facts.WorkEmail))
	set("website", coalesce(doc.Contact.Website, facts.Website))

	for n := 1; n <= 8; n++ {
		set(fmt.Sprintf("headerText%d", n), fmt.Sprintf("STEP %02d", n))
	}
	for n := 2; n <= 9; n++ {
		set(fmt.Sprintf("pageNumberHeader%d", n), fmt.Sprintf("PAGE %d", n))
		set(fmt.Sprintf("pageNumber%d", n), fmt.Sprintf("%d", n))
	}

	// Section titles shown in page headers. Pages 1-2 are fixed front matter.
	set("sectionTitle1", "Terms of Use")
	set("sectionTitle2", "Contents")
	sectionHeads := make([]string, SectionCount)
	sectionBodies := make([]string, SectionCount)
	for i := 0; i < SectionCount; i++ {
		sec := doc.Section(i)
		head, body := textnorm.AlignHeadingToBody(sec.Title, sec.Content)
		sectionHeads[i] = textnorm.Truncate(CleanTitle(head, ""), maxTitleChars)
		body = textnorm.HarmonizeVocabulary(textnorm.NormalizeBody(body, sec.Title))
		sectionBodies[i] = textnorm.Truncate(body, maxContentChars)
	}
	set("sectionTitle3", sectionHeads[2])
	set("sectionTitle4", sectionHeads[3])
	set("sectionTitle5", sectionHeads[4])
	set("sectionTitle6", sectionHeads[3])
	set("sectionTitle7", sectionHeads[4])
	set("sectionTitle8", "REACH OUT TO OUR TEAM")

	// Table of contents. Real AI items win; computed section titles fill
	// gaps; the neutral "Section N" placeholder is an absolute last resort.
	set("contentsTitle", coalesce(doc.Contents.Title, "Contents"))
	for i := 0; i < SectionCount; i++ {
		item := getOr(doc.Contents.Items, i, sectionHeads[i])
		item = textnorm.Truncate(CleanTitle(item, ""), maxTitleChars)
		if item == "" {
			item = fmt.Sprintf("Section %d", i+1)
		}
		set(fmt.Sprintf("contentItem%d", i+1), item)
	}
	lastItem := getOr(doc.Contents.Items, SectionCount, coalesce(doc.Contact.Title, "Contact & Next Steps"))
	set("contentItem6", textnorm.Truncate(CleanTitle(lastItem, ""), maxTitleChars))

	set("termsTitle", coalesce(doc.Terms.Title, "Terms of Use"))
	set("termsSummary", textnorm.Truncate(doc.Terms.Summary, maxContentChars))
	for i := 0; i < 5; i++ {
		set(fmt.Sprintf("termsParagraph%d", i+1), textnorm.Truncate(getOr(doc.Terms.Paragraphs, i, ""), maxContentChars))
	}

	set("footerText", fmt.Sprintf("© %d %s. All rights reserved.", time.Now().Year(), companyName))

	for i := 0; i < SectionCount; i++ {
		n := i + 1
		set(fmt.Sprintf("customTitle%d", n), sectionHeads[i])
		set(fmt.Sprintf("customContent%d", n), sectionBodies[i])
	}

	subTitle := func(sec, sub int) string {
		return textnorm.Truncate(doc.Subsection(sec, sub).Title, maxTitleChars)
	}
	subBody := func(sec, sub int) string {
		return textnorm.Truncate(doc.Subsection(sec, sub).Content, maxSubcontentChars)
	}

	// Page 4 (section 1): subheading plus accent/box sidebars.
	set("subheading1", subTitle(0, 0))
	set("subcontent1", subBody(0, 0))
	set("boxTitle1", subTitle(0, 1))
	set("boxContent1", subBody(0, 1))
	set("accentBoxTitle1", subTitle(0, 0))
	set("accentBoxContent1", subBody(0, 0))

	// Page 5 (section 2): two columns and a pull quote from the body.
	set("columnBoxTitle1", subTitle(1, 0))
	set("columnBoxContent1", subBody(1, 0))
	set("columnBoxTitle2", subTitle(1, 1))
	set("columnBoxContent2", subBody(1, 1))
	set("subheading2", subTitle(1, 1))
	set("subcontent2", subBody(1, 1))
	quoteSentences := textnorm.SplitSentences(doc.Section(1).Content)
	set("quoteText1", textnorm.Truncate(getOr(quoteSentences, 0, ""), maxSubcontentChars))
	set("quoteAuthor1", companyName)

	// Page 6 (section 3): bullet list built from body sentences.
	set("accentBoxTitle2", subTitle(2, 0))
	set("accentBoxContent2", subBody(2, 0))
	set("subheading3", subTitle(2, 1))
	listSentences := textnorm.SplitSentences(doc.Section(2).Content)
	for i := 0; i < 4; i++ {
		item := textnorm.FinalizeLine(textnorm.Truncate(getOr(listSentences, i, ""), maxListItemChars))
		set(fmt.Sprintf("listItem%d", i+1), item)
	}
	set("boxTitle2", subTitle(2, 0))
	set("boxContent2", subBody(2, 0))

	// Page 7 (section 4): column pair.
	set("columnTitle1", subTitle(3, 0))
	set("columnContent1", subBody(3, 0))
	set("columnTitle2", subTitle(3, 1))
	set("columnContent2", subBody(3, 1))
	set("boxTitle3", textnorm.Truncate(doc.Section(3).Title, maxTitleChars))
	set("boxContent3", subBody(3, 0))
	set("subheading4", subTitle(3, 1))
	set("subcontent4", subBody(3, 1))

	// Page 8 (section 5): numbered steps from body sentences.
	set("accentBoxTitle3", subTitle(4, 0))
	set("accentBoxContent3", subBody(4, 0))
	set("subheading5", subTitle(4, 1))
	numberedSentences := textnorm.SplitSentences(doc.Section(4).Content)
	for i := 0; i < 4; i++ {
		item := textnorm.FinalizeLine(textnorm.Truncate(getOr(numberedSentences, i, ""), maxListItemChars))
		set(fmt.Sprintf("numberedItem%d", i+1), item)
	}

	// Page 9 (contact).
	set("contactTitle", coalesce(doc.Contact.Title, "Contact Us"))
	set("contactDescription", textnorm.Truncate(
		textnorm.NormalizeBody(doc.Contact.Description, coalesce(doc.Contact.Title, "Contact")), maxContentChars))
	set("differentiatorTitle", coalesce(doc.Contact.DifferentiatorTitle, "Why Choose "+companyName))
	set("differentiator", textnorm.FinalizeLine(textnorm.Truncate(doc.Contact.Differentiator, maxDiffChars)))

	reviewQuality(vars)
	return vars, nil
}

// CleanTitle resolves a presentable one-line title: generic prefixes and
// marketing suffixes are stripped, dangling prepositions and articles
// removed, and the result bounded.
func CleanTitle(title, companyName string) string {
	t := strings.TrimSpace(title)
	t = genericPrefixRe.ReplaceAllString(t, "")
	if cn := strings.TrimSpace(companyName); cn != "" {
		companyTail := regexp.MustCompile(`(?i)\s+(for|by)\s+` + regexp.QuoteMeta(cn) + `\b[ .\-]*$`)
		t = companyTail.ReplaceAllString(t, "")
	}
	t = properNounTailRe.ReplaceAllString(t, "")
	t = trailingPrepRe.ReplaceAllString(t, "")
	t = trailingColonRe.ReplaceAllString(t, "")
	t = trailingArticleRe.ReplaceAllString(t, "")
	t = multiSpaceRe.ReplaceAllString(t, " ")
	t = strings.Trim(t, " -:;.,")
	return textnorm.Truncate(t, maxTitleChars)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func getOr(items []string, idx int, fallback string) string {
	if idx >= 0 && idx < len(items) && strings.TrimSpace(items[idx]) != "" {
		return items[idx]
	}
	return fallback
}
