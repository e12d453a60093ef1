package storyboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/reelforge/adgen-cli/internal/config"
	"github.com/reelforge/adgen-cli/internal/model"
	"github.com/reelforge/adgen-cli/pkg/anthropic"
)

var testProduct = &model.ProductInfo{
	Title:    "Cloud Runner",
	Brand:    "Acme",
	Features: []string{"adaptive cushioning", "recycled upper"},
}

var testResearch = &model.MarketResearch{
	PainPoints: []model.PainPoint{
		{Issue: "soles wear out too fast", Sentiment: model.SentimentModerate},
	},
}

func newTestGenerator(ai *mockAnthropicClient) *Generator {
	return New(ai, config.AnthropicConfig{Model: "claude-test", MaxTokens: 2048, Temperature: 0.7})
}

const validScenesJSON = `[
	{"label": "Hook", "prompt": "runner at dawn", "voiceover": "What if your morning run felt completely effortless today"},
	{"label": "Problem", "prompt": "worn out shoes", "voiceover": "Most running shoes wear out right when you need them"},
	{"label": "Solution", "prompt": "cloud runner hero", "voiceover": "Cloud Runner keeps its cushioning mile after mile"},
	{"label": "CTA", "prompt": "product on pedestal", "voiceover": "Grab your pair of Cloud Runners from Acme today"}
]`

func assertCanonicalStoryboard(t *testing.T, out *model.CreativeOutput) {
	t.Helper()
	require.NotNil(t, out)
	require.Len(t, out.Clips, model.SceneCount)
	for i, clip := range out.Clips {
		assert.Equal(t, model.SceneLabels[i], clip.Label)
		assert.NotEmpty(t, clip.ID)
		assert.NotEmpty(t, clip.Prompt)
		assert.NotEmpty(t, clip.Voiceover)
	}
	assert.False(t, out.GeneratedAt.IsZero())
}

func TestGenerateFromModel(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.Model == "claude-test" && req.Temperature != nil && *req.Temperature == 0.7
	})).Return(textResponse(validScenesJSON), nil).Once()

	out, err := newTestGenerator(ai).Generate(context.Background(), testProduct, testResearch)
	require.NoError(t, err)

	assertCanonicalStoryboard(t, out)
	assert.Equal(t, "runner at dawn", out.Clips[0].Prompt)
	ai.AssertExpectations(t)
}

func TestGenerateStripsMarkdownFences(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(
		textResponse("```json\n"+validScenesJSON+"\n```"), nil).Once()

	out, err := newTestGenerator(ai).Generate(context.Background(), testProduct, testResearch)
	require.NoError(t, err)
	assertCanonicalStoryboard(t, out)
	assert.Equal(t, "worn out shoes", out.Clips[1].Prompt)
}

func TestGenerateOverridesWrongLabels(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(`[
		{"label": "Intro", "prompt": "a", "voiceover": "one two three four five six seven eight"},
		{"label": "Middle", "prompt": "b", "voiceover": "one two three four five six seven eight"},
		{"label": "Middle2", "prompt": "c", "voiceover": "one two three four five six seven eight"},
		{"label": "End", "prompt": "d", "voiceover": "one two three four five six seven eight"}
	]`), nil).Once()

	out, err := newTestGenerator(ai).Generate(context.Background(), testProduct, testResearch)
	require.NoError(t, err)

	// Position decides the label, whatever the model called the scene.
	assertCanonicalStoryboard(t, out)
}

func TestGeneratePadsShortResponse(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(`[
		{"label": "Hook", "prompt": "only scene", "voiceover": "a very short storyboard from the model today"}
	]`), nil).Once()

	out, err := newTestGenerator(ai).Generate(context.Background(), testProduct, testResearch)
	require.NoError(t, err)

	assertCanonicalStoryboard(t, out)
	assert.Equal(t, "only scene", out.Clips[0].Prompt)
}

func TestGenerateTruncatesLongResponse(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(`[
		{"prompt": "a", "voiceover": "v"}, {"prompt": "b", "voiceover": "v"},
		{"prompt": "c", "voiceover": "v"}, {"prompt": "d", "voiceover": "v"},
		{"prompt": "e", "voiceover": "v"}, {"prompt": "f", "voiceover": "v"}
	]`), nil).Once()

	out, err := newTestGenerator(ai).Generate(context.Background(), testProduct, testResearch)
	require.NoError(t, err)
	assertCanonicalStoryboard(t, out)
}

func TestGenerateFallbackOnModelError(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, errors.New("overloaded")).Once()

	out, err := newTestGenerator(ai).Generate(context.Background(), testProduct, testResearch)
	require.NoError(t, err)

	assertCanonicalStoryboard(t, out)
	// The fallback leans on the researched pain point and product name.
	assert.Contains(t, out.Clips[1].Prompt, "soles wear out too fast")
	assert.Contains(t, out.Clips[3].Voiceover, "Acme")
}

func TestGenerateFallbackOnMalformedJSON(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse("sorry, I can't do that"), nil).Once()

	out, err := newTestGenerator(ai).Generate(context.Background(), testProduct, testResearch)
	require.NoError(t, err)
	assertCanonicalStoryboard(t, out)
}

func TestGenerateWithoutResearch(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, errors.New("down")).Once()

	out, err := newTestGenerator(ai).Generate(context.Background(), testProduct, nil)
	require.NoError(t, err)
	assertCanonicalStoryboard(t, out)
}
