// Package extract turns raw scraped text fragments into typed research
// records using lexical heuristics. Every classifier here is a pure function
// over its inputs: identical input always yields an identical record, and no
// extraction path returns an error. The keyword and pattern lists are
// ordered; first match wins, so precedence is the list order, not severity
// scoring.
package extract

import (
	"regexp"
	"strings"

	"github.com/reelforge/adgen-cli/internal/config"
	"github.com/reelforge/adgen-cli/internal/model"
)

// criticalTerms signal a deal-breaker. Checked before moderateTerms.
var criticalTerms = []string{
	"terrible", "awful", "broken", "useless", "scam", "waste of money",
	"stopped working", "never buy", "refund", "dangerous", "unusable",
}

// moderateTerms signal friction rather than failure.
var moderateTerms = []string{
	"problem", "issue", "slow", "confusing", "difficult", "annoying",
	"disappointing", "uncomfortable", "expensive", "frustrating",
}

// issuePatterns is the ordered list of complaint phrasings. The first
// pattern that matches supplies the issue text.
var issuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)i wish (?:it|they|this)?\s*([^.!?\n]{5,150})`),
	regexp.MustCompile(`(?i)the (?:main|biggest|only)? ?problem is\s*([^.!?\n]{5,150})`),
	regexp.MustCompile(`(?i)doesn'?t (?:support|work with|have)\s*([^.!?\n]{5,150})`),
	regexp.MustCompile(`(?i)my (?:biggest|only|main) complaint is\s*([^.!?\n]{5,150})`),
	regexp.MustCompile(`(?i)(?:really|so) (?:annoying|frustrating) (?:that|when)\s*([^.!?\n]{5,150})`),
	regexp.MustCompile(`(?i)(?:it|they) (?:keeps?|kept) ([^.!?\n]{5,150})`),
}

// Frequency gates, checked widespread -> frequent -> occasional.
var (
	widespreadTerms = []string{"everyone", "everybody", "common issue", "well known issue", "all users"}
	frequentTerms   = []string{"many", "most", "lots of", "majority", "often"}
	occasionalTerms = []string{"some", "few", "occasionally", "sometimes", "a couple"}
)

// Extractor classifies scraped text into research records.
type Extractor struct {
	cfg     config.ExtractorConfig
	catalog *BrandCatalog
}

// New creates an Extractor with the given tuning config and brand catalog.
func New(cfg config.ExtractorConfig, catalog *BrandCatalog) *Extractor {
	if cfg.SelfMentionLimit <= 0 {
		cfg.SelfMentionLimit = 3
	}
	if cfg.MaxIssueLength <= 0 {
		cfg.MaxIssueLength = 150
	}
	return &Extractor{cfg: cfg, catalog: catalog}
}

// Sentiment classifies pain-point severity: critical terms first, then
// moderate, defaulting to minor.
func (e *Extractor) Sentiment(text string) model.Sentiment {
	lower := strings.ToLower(text)
	for _, term := range criticalTerms {
		if strings.Contains(lower, term) {
			return model.SentimentCritical
		}
	}
	for _, term := range moderateTerms {
		if strings.Contains(lower, term) {
			return model.SentimentModerate
		}
	}
	return model.SentimentMinor
}

// Issue extracts the complaint phrase from content, falling back to the
// result title when no pattern matches. Output is capped at the configured
// issue length.
func (e *Extractor) Issue(title, content string) string {
	for _, pat := range issuePatterns {
		m := pat.FindStringSubmatch(content)
		if len(m) > 1 {
			return truncate(strings.TrimSpace(m[0]), e.cfg.MaxIssueLength)
		}
	}
	return truncate(strings.TrimSpace(title), e.cfg.MaxIssueLength)
}

// Frequency labels how widely an issue is reported.
func (e *Extractor) Frequency(text string) string {
	lower := strings.ToLower(text)
	for _, term := range widespreadTerms {
		if strings.Contains(lower, term) {
			return model.FrequencyWidespread
		}
	}
	for _, term := range frequentTerms {
		if strings.Contains(lower, term) {
			return model.FrequencyFrequent
		}
	}
	for _, term := range occasionalTerms {
		if strings.Contains(lower, term) {
			return model.FrequencyOccasional
		}
	}
	return model.FrequencyUserReported
}

// PainPoint builds a pain-point record from one tagged search result.
// Best effort: it always returns a record.
func (e *Extractor) PainPoint(res model.SearchResult) model.PainPoint {
	combined := res.Title + " " + res.Description + " " + res.Content
	return model.PainPoint{
		Issue:     e.Issue(res.Title, res.Description+" "+res.Content),
		Frequency: e.Frequency(combined),
		Sentiment: e.Sentiment(combined),
		Source:    sourceLabel(res.URL),
		SourceURL: res.URL,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// sourceLabel derives a short source tag from a URL host.
func sourceLabel(rawURL string) string {
	s := rawURL
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	if idx := strings.IndexByte(s, '/'); idx != -1 {
		s = s[:idx]
	}
	return s
}
