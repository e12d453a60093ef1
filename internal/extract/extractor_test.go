package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelforge/adgen-cli/internal/config"
	"github.com/reelforge/adgen-cli/internal/model"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	catalog, err := LoadBrandCatalog()
	require.NoError(t, err)
	return New(config.ExtractorConfig{}, catalog)
}

func TestSentiment(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		name string
		text string
		want model.Sentiment
	}{
		{"critical term", "this thing is terrible and stopped working", model.SentimentCritical},
		{"moderate term", "the strap is annoying after an hour", model.SentimentModerate},
		{"no terms", "it arrived on time and fits well", model.SentimentMinor},
		{"critical wins over moderate", "annoying at first, then it was completely useless", model.SentimentCritical},
		{"case insensitive", "TERRIBLE experience", model.SentimentCritical},
		{"empty", "", model.SentimentMinor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Sentiment(tt.text))
		})
	}
}

func TestIssue(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		name    string
		title   string
		content string
		want    string
	}{
		{
			name:    "wish pattern",
			title:   "Honest review",
			content: "Overall decent but I wish it had a longer battery life for travel.",
			want:    "I wish it had a longer battery life for travel",
		},
		{
			name:    "problem pattern",
			title:   "Review thread",
			content: "The problem is the sizing runs a full size small.",
			want:    "The problem is the sizing runs a full size small",
		},
		{
			name:    "no pattern falls back to title",
			title:   "Why I returned mine after a week",
			content: "Lots of unrelated text about shipping.",
			want:    "Why I returned mine after a week",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Issue(tt.title, tt.content))
		})
	}
}

func TestIssueTruncation(t *testing.T) {
	e := New(config.ExtractorConfig{MaxIssueLength: 20}, nil)

	got := e.Issue("a title that is much longer than twenty characters", "no complaint phrasing here")
	assert.Len(t, got, 20)
}

func TestFrequency(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"widespread", "everyone complains about the zipper", model.FrequencyWidespread},
		{"frequent", "many reviewers mention the noise", model.FrequencyFrequent},
		{"occasional", "some users had fit issues", model.FrequencyOccasional},
		{"default", "the zipper broke on day one", model.FrequencyUserReported},
		{"widespread wins over frequent", "everyone says it, many agree", model.FrequencyWidespread},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Frequency(tt.text))
		})
	}
}

func TestPainPoint(t *testing.T) {
	e := newTestExtractor(t)

	res := model.SearchResult{
		URL:         "https://www.reddit.com/r/running/comments/abc",
		Title:       "Disappointed after 3 months",
		Description: "Many runners report the same thing.",
		Content:     "The problem is the sole separates from the upper. It is frustrating.",
		Intent:      model.IntentPainPoint,
	}

	pp := e.PainPoint(res)
	assert.Contains(t, pp.Issue, "sole separates")
	assert.Equal(t, model.FrequencyFrequent, pp.Frequency)
	assert.Equal(t, model.SentimentModerate, pp.Sentiment)
	assert.Equal(t, "reddit.com", pp.Source)
	assert.Equal(t, res.URL, pp.SourceURL)
}

func TestPainPointIdempotent(t *testing.T) {
	e := newTestExtractor(t)

	res := model.SearchResult{
		URL:     "https://example.com/review",
		Title:   "Review",
		Content: "I wish it came in more colors. Some buyers agree.",
	}

	first := e.PainPoint(res)
	second := e.PainPoint(res)
	assert.Equal(t, first, second)
}

func TestSourceLabel(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.reddit.com/r/x/", "reddit.com"},
		{"http://example.com/page", "example.com"},
		{"https://youtube.com", "youtube.com"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sourceLabel(tt.url))
	}
}
