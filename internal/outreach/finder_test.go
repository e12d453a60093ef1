package outreach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/reelforge/adgen-cli/internal/config"
	"github.com/reelforge/adgen-cli/internal/model"
	"github.com/reelforge/adgen-cli/pkg/anthropic"
	"github.com/reelforge/adgen-cli/pkg/firecrawl"
)

func newTestFinder(fc *mockFirecrawlClient, ai *mockAnthropicClient) *Finder {
	return NewFinder(fc, ai, config.OutreachConfig{
		CandidatePool: 20,
		TopK:          10,
	}, config.AnthropicConfig{Model: "claude-test", HaikuModel: "claude-haiku-test", MaxTokens: 4096}, 5)
}

func TestBuildDiscoveryQueries(t *testing.T) {
	queries := buildDiscoveryQueries("Cloud Runner", "running shoes", "Acme")
	require.Len(t, queries, 7)

	counts := map[model.Platform]int{}
	for _, q := range queries {
		counts[q.platform]++
		assert.NotEmpty(t, q.text)
	}
	assert.Equal(t, 2, counts[model.PlatformInstagram])
	assert.Equal(t, 2, counts[model.PlatformTikTok])
	assert.Equal(t, 1, counts[model.PlatformTwitter])
	assert.Equal(t, 2, counts[model.PlatformYouTube])
}

func TestFindRanksAndTruncates(t *testing.T) {
	fc := &mockFirecrawlClient{}
	ai := &mockAnthropicClient{}

	// Every query returns the same 14 profiles; dedup keeps each once.
	items := make([]firecrawl.SearchItem, 14)
	for i := range items {
		items[i] = firecrawl.SearchItem{
			URL:   fmt.Sprintf("https://instagram.com/runner%d", i),
			Title: fmt.Sprintf("Runner %d", i),
		}
	}
	fc.On("Search", mock.Anything, mock.Anything).Return(&firecrawl.SearchResponse{
		Success: true,
		Items:   items,
	}, nil)

	// Score 12 of them, out of rank order.
	var scored []string
	for i := 0; i < 12; i++ {
		scored = append(scored, fmt.Sprintf(
			`{"index": %d, "name": "Runner %d", "handle": "@r%d", "niche": "running", "relevance_score": %d, "reasoning": "fits"}`,
			i, i, i, 1+((i*7)%10)))
	}
	ai.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.Model == "claude-haiku-test"
	})).Return(textResponse("["+strings.Join(scored, ",")+"]"), nil).Once()

	found, err := newTestFinder(fc, ai).Find(context.Background(), "Cloud Runner", "running shoes", "Acme")
	require.NoError(t, err)

	// Capped at ten, sorted by descending relevance.
	require.Len(t, found, 10)
	for i := 1; i < len(found); i++ {
		assert.GreaterOrEqual(t, found[i-1].RelevanceScore, found[i].RelevanceScore)
	}
	for _, inf := range found {
		assert.NotEmpty(t, inf.ID)
		assert.NotEmpty(t, inf.ProfileURL)
		assert.GreaterOrEqual(t, inf.RelevanceScore, 1)
		assert.LessOrEqual(t, inf.RelevanceScore, 10)
	}
}

func TestFindClampsScoresIntoRange(t *testing.T) {
	fc := &mockFirecrawlClient{}
	ai := &mockAnthropicClient{}

	fc.On("Search", mock.Anything, mock.Anything).Return(&firecrawl.SearchResponse{
		Success: true,
		Items: []firecrawl.SearchItem{
			{URL: "https://instagram.com/over", Title: "Over"},
			{URL: "https://instagram.com/under", Title: "Under"},
		},
	}, nil)

	// The model ignores the 1-10 instruction; scores get clamped.
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(
		`[{"index": 0, "name": "Over", "relevance_score": 95, "reasoning": "great"},
		  {"index": 1, "name": "Under", "relevance_score": 0, "reasoning": "weak"}]`), nil).Once()

	found, err := newTestFinder(fc, ai).Find(context.Background(), "Cloud Runner", "running shoes", "Acme")
	require.NoError(t, err)

	require.Len(t, found, 2)
	assert.Equal(t, 10, found[0].RelevanceScore)
	assert.Equal(t, 1, found[1].RelevanceScore)
}

func TestFindToleratesQueryFailures(t *testing.T) {
	fc := &mockFirecrawlClient{}
	ai := &mockAnthropicClient{}

	fc.On("Search", mock.Anything, mock.MatchedBy(func(req firecrawl.SearchRequest) bool {
		return strings.Contains(req.Query, "site:youtube.com")
	})).Return(&firecrawl.SearchResponse{Success: true, Items: []firecrawl.SearchItem{
		{URL: "https://youtube.com/@runreviews", Title: "Run Reviews", Description: "Weekly shoe reviews"},
	}}, nil)
	fc.On("Search", mock.Anything, mock.Anything).Return(nil, errors.New("quota exceeded"))

	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(
		`[{"index": 0, "name": "Run Reviews", "relevance_score": 8, "reasoning": "reviews shoes"}]`), nil).Once()

	found, err := newTestFinder(fc, ai).Find(context.Background(), "Cloud Runner", "running shoes", "Acme")
	require.NoError(t, err)

	require.Len(t, found, 1)
	assert.Equal(t, model.PlatformYouTube, found[0].Platform)
}

func TestFindEmptyPool(t *testing.T) {
	fc := &mockFirecrawlClient{}
	ai := &mockAnthropicClient{}

	fc.On("Search", mock.Anything, mock.Anything).Return(&firecrawl.SearchResponse{Success: true}, nil)

	found, err := newTestFinder(fc, ai).Find(context.Background(), "Cloud Runner", "running shoes", "Acme")
	require.NoError(t, err)
	assert.Empty(t, found)

	ai.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestFindDropsOutOfRangeIndices(t *testing.T) {
	fc := &mockFirecrawlClient{}
	ai := &mockAnthropicClient{}

	fc.On("Search", mock.Anything, mock.Anything).Return(&firecrawl.SearchResponse{
		Success: true,
		Items:   []firecrawl.SearchItem{{URL: "https://tiktok.com/@one", Title: "One"}},
	}, nil)

	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(
		`[{"index": 0, "name": "One", "relevance_score": 7, "reasoning": "ok"},
		  {"index": 99, "name": "Ghost", "relevance_score": 9, "reasoning": "hallucinated"}]`), nil).Once()

	found, err := newTestFinder(fc, ai).Find(context.Background(), "Cloud Runner", "running shoes", "Acme")
	require.NoError(t, err)

	require.Len(t, found, 1)
	assert.Equal(t, "One", found[0].Name)
}

func TestNameFromURL(t *testing.T) {
	assert.Equal(t, "janedoe", nameFromURL("https://www.instagram.com/@janedoe"))
	assert.Equal(t, "runreviews", nameFromURL("https://youtube.com/runreviews/"))
	assert.Equal(t, "example.com", nameFromURL("https://example.com"))
}
