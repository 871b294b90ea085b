package textnorm

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateReturnsShortInputUnchanged(t *testing.T) {
	in := "Short and sweet."
	if got := Truncate(in, 100); got != in {
		t.Fatalf("Truncate = %q, want input unchanged", got)
	}
}

func TestTruncatePrefersSentenceBoundary(t *testing.T) {
	in := "First sentence is here. Second sentence follows it closely. Third one would overflow the limit entirely."
	got := Truncate(in, 70)
	if !strings.HasSuffix(got, ".") {
		t.Fatalf("Truncate = %q, want terminal punctuation", got)
	}
	if strings.Contains(got, "Third") {
		t.Fatalf("Truncate = %q, want third sentence dropped", got)
	}
}

func TestTruncateNeverCutsMidWord(t *testing.T) {
	in := "alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima"
	whole := map[string]bool{}
	for _, w := range strings.Fields(in) {
		whole[w] = true
	}
	for _, limit := range []int{10, 17, 25, 40, 64} {
		got := Truncate(in, limit)
		for _, w := range strings.Fields(got) {
			if !whole[w] {
				t.Fatalf("Truncate(%d) produced partial word %q in %q", limit, w, got)
			}
		}
		if strings.Contains(got, "...") {
			t.Fatalf("Truncate(%d) added an ellipsis: %q", limit, got)
		}
	}
}

func TestTruncateBoundHoldsWithoutNearbySentenceEnd(t *testing.T) {
	in := strings.Repeat("word ", 50)
	got := Truncate(in, 60)
	if len(got) > 60 {
		t.Fatalf("len = %d, want <= 60", len(got))
	}
}

func TestTruncateKeepsMultibyteRunesIntact(t *testing.T) {
	inputs := []string{
		strings.Repeat("α", 12),
		strings.Repeat("文", 9),
		"naïve café décor résumé façade",
	}
	for _, in := range inputs {
		for _, limit := range []int{1, 2, 5, 7, 11} {
			got := Truncate(in, limit)
			if !utf8.ValidString(got) {
				t.Fatalf("Truncate(%q, %d) = %q, not valid UTF-8", in, limit, got)
			}
			if len(got) > limit {
				t.Fatalf("Truncate(%q, %d) = %q, exceeds bound", in, limit, got)
			}
		}
	}
}

func TestSplitSentencesDropsEmptyFragments(t *testing.T) {
	got := SplitSentences("One here. Two there!   Three?  ")
	want := []string{"One here.", "Two there!", "Three?"}
	if len(got) != len(want) {
		t.Fatalf("sentences = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sentence[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFinalizeLineStripsDanglingConnector(t *testing.T) {
	cases := map[string]string{
		"Improve comfort and":        "Improve comfort.",
		"Reduce heating bills with":  "Reduce heating bills.",
		"Plan upgrades and save, -":  "Plan upgrades and save.",
		"Already terminated.":        "Already terminated.",
		"Cut costs and stay":         "Cut costs.",
		"":                           "",
	}
	for in, want := range cases {
		if got := FinalizeLine(in); got != want {
			t.Fatalf("FinalizeLine(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEnsureMinimumLengthBackfills(t *testing.T) {
	got := EnsureMinimumLength("One short line.", 3, 60, "Solar Retrofits")
	if n := len(SplitSentences(got)); n < 3 {
		t.Fatalf("sentences = %d, want >= 3 (%q)", n, got)
	}
	if CountWords(got) < 30 {
		t.Fatalf("words = %d, want backfilled content", CountWords(got))
	}
	if !strings.Contains(got, "solar retrofits") {
		t.Fatalf("backfill is not topic-flavored: %q", got)
	}
}

func TestEnsureMinimumLengthLeavesSufficientTextAlone(t *testing.T) {
	in := "Alpha one two three. Bravo four five six. Charlie seven eight nine."
	got := EnsureMinimumLength(in, 3, 5, "hint")
	if got != in {
		t.Fatalf("EnsureMinimumLength = %q, want unchanged", got)
	}
}

func TestAlignHeadingToBodyKeepsMatchedPair(t *testing.T) {
	title, body := AlignHeadingToBody("Energy Efficiency", "Improving energy use pays off. Efficiency gains compound over time.")
	if title != "Energy Efficiency" {
		t.Fatalf("title = %q, want unchanged", title)
	}
	if !HasKeywordOverlap(title, body) {
		t.Fatalf("expected keyword overlap to hold")
	}
}

func TestAlignHeadingToBodyReplacesMismatchedHeading(t *testing.T) {
	body := "Smart thermostats reduce heating costs. Automated schedules keep rooms comfortable."
	title, outBody := AlignHeadingToBody("Energy Efficiency", body)
	if outBody != body {
		t.Fatalf("body changed: %q", outBody)
	}
	if !HasKeywordOverlap(title, outBody) {
		t.Fatalf("aligned heading %q not reflected in body", title)
	}
}

func TestAlignHeadingToBodyPrependsLeadWhenBodyUnusable(t *testing.T) {
	title, body := AlignHeadingToBody("Energy Efficiency", "")
	if title != "Energy Efficiency" {
		t.Fatalf("title = %q, want kept", title)
	}
	if !strings.Contains(body, "energy efficiency") {
		t.Fatalf("body = %q, want topic lead-in", body)
	}
}

func TestDeriveHeadingFiltersStopwords(t *testing.T) {
	got := DeriveHeading("The benefits of passive cooling are well documented. More follows here.")
	if got == "" {
		t.Fatalf("expected a derived heading")
	}
	if strings.Contains(strings.ToLower(got), "the ") {
		t.Fatalf("heading %q retains stopwords", got)
	}
}

func TestHarmonizeVocabularyNormalizesVariants(t *testing.T) {
	got := HarmonizeVocabulary("Eco-friendly design and green materials suit an eco friendly client.")
	if strings.Contains(strings.ToLower(got), "eco") {
		t.Fatalf("variant survived: %q", got)
	}
	if !strings.Contains(got, "sustainable materials") {
		t.Fatalf("expected canonical phrase, got %q", got)
	}
}

func TestHarmonizeVocabularyCapsRepetition(t *testing.T) {
	in := strings.TrimSpace(strings.Repeat("sustainable choices matter. ", 7))
	got := HarmonizeVocabulary(in)
	if n := strings.Count(strings.ToLower(got), "sustainable"); n > 4 {
		t.Fatalf("canonical term appears %d times, want <= 4", n)
	}
}

func TestSloganizeTakesFirstClause(t *testing.T) {
	got := Sloganize("Build better homes for less money. A second sentence nobody needs on a cover.")
	if got != "Build better homes for less money." {
		t.Fatalf("Sloganize = %q", got)
	}
}

func TestCleanSubtitleDropsPunctuationOnly(t *testing.T) {
	if got := CleanSubtitle(" .. - "); got != "" {
		t.Fatalf("CleanSubtitle = %q, want empty", got)
	}
	if got := CleanSubtitle("Real subtitle"); got != "Real subtitle" {
		t.Fatalf("CleanSubtitle = %q, want kept", got)
	}
}
