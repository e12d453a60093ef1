package research

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/reelforge/adgen-cli/internal/model"
	"github.com/reelforge/adgen-cli/pkg/anthropic"
)

const fallbackPrompt = `You are a market research analyst. Based on your knowledge of the "%s" market, list the most common user pain points and direct competitors for this product:

Product: %s
Brand: %s
Category: %s

Return ONLY a JSON object of this exact shape, no markdown fences:
{
  "market_summary": "<2-3 sentence market overview>",
  "pain_points": [
    {"issue": "<complaint>", "frequency": "widespread issue|frequently mentioned|occasionally mentioned|user reported", "sentiment": "critical|moderate|minor"}
  ],
  "competitors": [
    {"product_name": "<name>", "brand": "<brand>", "key_difference": "<differentiator>"}
  ]
}
List at most 5 pain points and 5 competitors. Never include %s itself as a competitor.`

// fallbackResult is the structured shape requested from the model.
type fallbackResult struct {
	MarketSummary string `json:"market_summary"`
	PainPoints    []struct {
		Issue     string `json:"issue"`
		Frequency string `json:"frequency"`
		Sentiment string `json:"sentiment"`
	} `json:"pain_points"`
	Competitors []struct {
		ProductName   string `json:"product_name"`
		Brand         string `json:"brand"`
		KeyDifference string `json:"key_difference"`
	} `json:"competitors"`
}

// modelFallback queries the completion service directly for pain points and
// competitors when the search battery came back empty. No ad discovery here.
// Returns nil unless the model produced at least one record in either
// category; the orchestrator only substitutes a non-nil result.
func (o *Orchestrator) modelFallback(ctx context.Context, productName, brand, category string) *model.MarketResearch {
	prompt := fmt.Sprintf(fallbackPrompt, category, productName, brand, category, brand)

	resp, err := o.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     o.aiCfg.Model,
		MaxTokens: int64(o.aiCfg.MaxTokens),
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		zap.L().Warn("research: model fallback failed", zap.Error(err))
		return nil
	}

	var parsed fallbackResult
	if err := json.Unmarshal([]byte(anthropic.CleanJSON(resp.Text())), &parsed); err != nil {
		zap.L().Warn("research: model fallback returned malformed JSON", zap.Error(err))
		return nil
	}

	out := &model.MarketResearch{MarketSummary: parsed.MarketSummary}
	for _, pp := range parsed.PainPoints {
		out.PainPoints = append(out.PainPoints, model.PainPoint{
			Issue:     pp.Issue,
			Frequency: normalizeFrequency(pp.Frequency),
			Sentiment: normalizeSentiment(pp.Sentiment),
			Source:    "model knowledge",
		})
	}
	for _, c := range parsed.Competitors {
		out.Competitors = append(out.Competitors, model.CompetitorProduct{
			ProductName:   c.ProductName,
			Brand:         c.Brand,
			KeyDifference: c.KeyDifference,
			Source:        "model knowledge",
		})
	}

	if len(out.PainPoints) == 0 && len(out.Competitors) == 0 {
		return nil
	}
	return out
}

func normalizeFrequency(f string) string {
	switch f {
	case model.FrequencyWidespread, model.FrequencyFrequent, model.FrequencyOccasional, model.FrequencyUserReported:
		return f
	default:
		return model.FrequencyUserReported
	}
}

func normalizeSentiment(s string) model.Sentiment {
	switch model.Sentiment(s) {
	case model.SentimentCritical, model.SentimentModerate, model.SentimentMinor:
		return model.Sentiment(s)
	default:
		return model.SentimentMinor
	}
}
