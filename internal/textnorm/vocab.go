package textnorm

import (
	"regexp"
	"strings"
)

// Upstream models drift between near-synonyms within a single document
// ("eco-friendly" vs "green" vs "sustainable"). HarmonizeVocabulary rewrites
// known variants to one canonical term and caps its repetition so the result
// reads as edited prose rather than keyword stuffing.

const canonicalTermCap = 4

var vocabVariants = []struct {
	re          *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)\beco[-\s]?friendly\b`), "sustainable"},
	{regexp.MustCompile(`(?i)\bgreen (home|homes|materials|solutions|upgrades)\b`), "sustainable $1"},
	{regexp.MustCompile(`(?i)\benvironmentally[-\s]friendly\b`), "sustainable"},
}

var (
	sustainableRepeat = regexp.MustCompile(`(?i)\b(sustainable)(\s*,\s*sustainable)+\b`)
	sustainableWord   = regexp.MustCompile(`(?i)\bsustainable\b`)
	doubleSpace       = regexp.MustCompile(`\s{2,}`)
)

// HarmonizeVocabulary normalizes vocabulary variants to their canonical term
// and trims occurrences of the canonical term beyond the cap.
func HarmonizeVocabulary(text string) string {
	t := text
	for _, v := range vocabVariants {
		t = v.re.ReplaceAllString(t, v.replacement)
	}
	t = sustainableRepeat.ReplaceAllString(t, "$1")
	if len(sustainableWord.FindAllStringIndex(t, -1)) > canonicalTermCap {
		kept := 0
		t = sustainableWord.ReplaceAllStringFunc(t, func(m string) string {
			kept++
			if kept <= canonicalTermCap {
				return m
			}
			return ""
		})
		t = strings.TrimSpace(doubleSpace.ReplaceAllString(t, " "))
	}
	return t
}
