// Package storyboard turns product and research data into a four-scene ad
// narrative. Generation prefers the completion service; any failure on that
// path falls back to deterministic templates, so Generate cannot return an
// empty storyboard.
package storyboard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/reelforge/adgen-cli/internal/config"
	"github.com/reelforge/adgen-cli/internal/model"
	"github.com/reelforge/adgen-cli/pkg/anthropic"
)

const systemPrompt = `You are a direct-response video ad creative director. You write short-form vertical video storyboards that hook viewers in the first second and end with a clear call to action.`

const promptTemplate = `Write a 4-scene short-form video ad storyboard for this product.

Product: %s
Brand: %s
%s%s
The 4 scenes, in order, are:
1. Hook - grab attention, bold visual, no product yet
2. Problem - dramatize the pain point the viewer recognizes
3. Solution - the product resolving the problem
4. CTA - product hero shot and call to action

Return ONLY a JSON array of exactly 4 objects, no markdown fences:
[{"label": "Hook", "prompt": "<detailed visual description for a text-to-video model, one scene, 5 seconds, vertical 9:16>", "voiceover": "<8-12 spoken words>"}]

Keep each voiceover between 8 and 12 words. Prompts describe visuals only, never on-screen text.`

// Generator produces ad storyboards.
type Generator struct {
	ai  anthropic.Client
	cfg config.AnthropicConfig
}

// New creates a Generator. A nil client is allowed; generation then always
// takes the template path.
func New(ai anthropic.Client, cfg config.AnthropicConfig) *Generator {
	return &Generator{ai: ai, cfg: cfg}
}

// Generate builds the four-scene narrative for a product. The model path is
// tried first; on any request or parse failure the deterministic fallback is
// substituted and the error is only logged.
func (g *Generator) Generate(ctx context.Context, product *model.ProductInfo, research *model.MarketResearch) (*model.CreativeOutput, error) {
	clips, err := g.fromModel(ctx, product, research)
	if err != nil {
		zap.L().Warn("storyboard: model generation failed, using template fallback", zap.Error(err))
		clips = fallbackClips(product, research)
	}

	return &model.CreativeOutput{
		Clips:       clips,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// sceneDraft is the shape requested from the model.
type sceneDraft struct {
	Label     string `json:"label"`
	Prompt    string `json:"prompt"`
	Voiceover string `json:"voiceover"`
}

func (g *Generator) fromModel(ctx context.Context, product *model.ProductInfo, research *model.MarketResearch) ([]model.VideoClip, error) {
	if g.ai == nil {
		return nil, eris.New("storyboard: no completion client")
	}

	req := anthropic.MessageRequest{
		Model:     g.cfg.Model,
		MaxTokens: int64(g.cfg.MaxTokens),
		System:    systemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: buildPrompt(product, research)},
		},
	}
	if g.cfg.Temperature > 0 {
		req.Temperature = &g.cfg.Temperature
	}

	resp, err := g.ai.CreateMessage(ctx, req)
	if err != nil {
		return nil, err
	}

	var drafts []sceneDraft
	if err := json.Unmarshal([]byte(anthropic.CleanJSON(resp.Text())), &drafts); err != nil {
		return nil, eris.Wrap(err, "storyboard: parse scenes")
	}
	if len(drafts) == 0 {
		return nil, eris.New("storyboard: model returned no scenes")
	}

	return normalize(drafts, product), nil
}

func buildPrompt(product *model.ProductInfo, research *model.MarketResearch) string {
	var pains strings.Builder
	if research != nil && len(research.PainPoints) > 0 {
		pains.WriteString("Top pain points in this market:\n")
		for i, pp := range research.PainPoints {
			if i == 3 {
				break
			}
			fmt.Fprintf(&pains, "- %s (%s)\n", pp.Issue, pp.Sentiment)
		}
	}

	var features strings.Builder
	if len(product.Features) > 0 {
		features.WriteString("Key features:\n")
		for i, f := range product.Features {
			if i == 4 {
				break
			}
			fmt.Fprintf(&features, "- %s\n", f)
		}
	}

	return fmt.Sprintf(promptTemplate, product.Title, product.Brand, pains.String(), features.String())
}

// normalize forces the drafts to exactly SceneCount clips with canonical
// labels. Extra scenes are dropped, missing scenes are filled from the
// template fallback for the same position.
func normalize(drafts []sceneDraft, product *model.ProductInfo) []model.VideoClip {
	if len(drafts) > model.SceneCount {
		drafts = drafts[:model.SceneCount]
	}

	pad := templateScenes(product, nil)
	clips := make([]model.VideoClip, model.SceneCount)
	for i := 0; i < model.SceneCount; i++ {
		clip := pad[i]
		if i < len(drafts) {
			if strings.TrimSpace(drafts[i].Prompt) != "" {
				clip.Prompt = drafts[i].Prompt
			}
			if strings.TrimSpace(drafts[i].Voiceover) != "" {
				clip.Voiceover = drafts[i].Voiceover
			}
		}
		clip.ID = uuid.NewString()
		clip.Label = model.SceneLabels[i]
		clips[i] = clip
	}
	return clips
}

// fallbackClips builds the deterministic storyboard. It only does string
// assembly over data already in hand, so it cannot fail.
func fallbackClips(product *model.ProductInfo, research *model.MarketResearch) []model.VideoClip {
	var pain string
	if research != nil && len(research.PainPoints) > 0 {
		pain = research.PainPoints[0].Issue
	}
	clips := templateScenes(product, &pain)
	for i := range clips {
		clips[i].ID = uuid.NewString()
	}
	return clips
}

func templateScenes(product *model.ProductInfo, painPtr *string) []model.VideoClip {
	name := product.Title
	if name == "" {
		name = "this product"
	}
	brand := product.Brand
	if brand == "" {
		brand = name
	}

	pain := "settling for products that let you down"
	if painPtr != nil && strings.TrimSpace(*painPtr) != "" {
		pain = strings.TrimSpace(*painPtr)
	}

	feature := "quality you can feel from day one"
	if len(product.Features) > 0 {
		feature = product.Features[0]
	}

	return []model.VideoClip{
		{
			Label:     "Hook",
			Prompt:    fmt.Sprintf("Fast-paced vertical video opening, dramatic close-up lighting, a person frustrated mid-task, bold saturated colors, high energy, 9:16, no text overlays. The scene hints at everyday struggle relevant to %s.", name),
			Voiceover: fmt.Sprintf("Stop scrolling, this changes how you think about %s.", name),
		},
		{
			Label:     "Problem",
			Prompt:    fmt.Sprintf("Vertical video scene showing the frustration of %s, muted colors, relatable everyday setting, handheld camera feel, 9:16, no text overlays.", pain),
			Voiceover: fmt.Sprintf("Tired of %s? You are not alone.", shortPain(pain)),
		},
		{
			Label:     "Solution",
			Prompt:    fmt.Sprintf("Vertical video scene, %s by %s in use, smooth confident product shots, bright clean lighting, satisfied user reaction, 9:16, no text overlays. Emphasize %s.", name, brand, feature),
			Voiceover: fmt.Sprintf("%s fixes that with %s.", name, shortPain(feature)),
		},
		{
			Label:     "CTA",
			Prompt:    fmt.Sprintf("Vertical video hero shot of %s on a clean studio background, slow rotating product showcase, premium lighting, %s branding visible, 9:16, no text overlays.", name, brand),
			Voiceover: fmt.Sprintf("Get yours from %s today, link in bio.", brand),
		},
	}
}

// shortPain trims an issue string so the voiceover stays speakable.
func shortPain(s string) string {
	s = strings.TrimSpace(strings.TrimSuffix(s, "."))
	words := strings.Fields(s)
	if len(words) > 8 {
		words = words[:8]
	}
	return strings.ToLower(strings.Join(words, " "))
}
