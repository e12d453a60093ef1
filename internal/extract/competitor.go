package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/reelforge/adgen-cli/internal/model"
)

// titleSuffixes are boilerplate fragments stripped from the end of a result
// title before treating it as a product name. Ordered; applied repeatedly.
var titleSuffixes = []string{
	" review", " reviews", " alternatives", " alternative", " reddit",
	" 2024", " 2025", " 2026", " | amazon", " - amazon", " comparison",
}

// titlePrefixes are boilerplate fragments stripped from the start of a title.
var titlePrefixes = []string{
	"best ", "top 10 ", "top 5 ", "the ", "review: ", "comparing ",
}

// brandTokenPattern pulls a capitalized brand-looking token out of content.
var brandTokenPattern = regexp.MustCompile(`\b([A-Z][a-zA-Z0-9]{2,}(?:\s[A-Z][a-zA-Z0-9]+)?)\b`)

var titleCaser = cases.Title(language.English)

// CleanProductTitle strips known boilerplate from a search-result title and
// cuts at a "vs" comparison if present.
func CleanProductTitle(title string) string {
	t := strings.TrimSpace(title)
	lower := strings.ToLower(t)

	for _, p := range titlePrefixes {
		if strings.HasPrefix(lower, p) {
			t = t[len(p):]
			lower = strings.ToLower(t)
			break
		}
	}

	// Comparison titles name the competitor before the "vs".
	for _, sep := range []string{" vs ", " vs. ", " versus "} {
		if idx := strings.Index(lower, sep); idx != -1 {
			t = t[:idx]
			lower = strings.ToLower(t)
			break
		}
	}

	changed := true
	for changed {
		changed = false
		for _, s := range titleSuffixes {
			if strings.HasSuffix(lower, s) {
				t = t[:len(t)-len(s)]
				lower = strings.ToLower(t)
				changed = true
			}
		}
	}

	// Site-name separators: keep the lead segment.
	for _, sep := range []string{" | ", " – ", " — ", " - "} {
		if idx := strings.Index(t, sep); idx > 0 {
			t = t[:idx]
			break
		}
	}

	return strings.TrimSpace(t)
}

// BrandToken attempts to pull a brand name from content via a
// capitalized-word match, falling back to the first token of fallbackTitle.
func BrandToken(content, fallbackTitle string) string {
	if m := brandTokenPattern.FindStringSubmatch(content); len(m) > 1 {
		return m[1]
	}
	fields := strings.Fields(fallbackTitle)
	if len(fields) > 0 {
		return titleCaser.String(strings.ToLower(fields[0]))
	}
	return ""
}

// Competitor builds a competitor-product record from one tagged search
// result. Extraction is noisy by design; callers tolerate low precision.
func (e *Extractor) Competitor(res model.SearchResult) model.CompetitorProduct {
	name := CleanProductTitle(res.Title)
	brand := BrandToken(res.Content, name)

	diff := strings.TrimSpace(res.Description)
	if diff == "" {
		diff = truncate(strings.TrimSpace(res.Content), 200)
	}
	if diff == "" {
		diff = "Positioned as an alternative in the same category"
	}

	return model.CompetitorProduct{
		ProductName:   name,
		Brand:         brand,
		KeyDifference: truncate(diff, 200),
		Source:        sourceLabel(res.URL),
		SourceURL:     res.URL,
	}
}
