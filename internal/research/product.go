package research

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/reelforge/adgen-cli/internal/model"
	"github.com/reelforge/adgen-cli/pkg/firecrawl"
)

// productSchema is the JSON schema sent with the structured scrape. Firecrawl
// fills as many fields as the page supports; absent fields come back zero.
var productSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title":        map[string]any{"type": "string"},
		"price":        map[string]any{"type": "string"},
		"currency":     map[string]any{"type": "string"},
		"rating":       map[string]any{"type": "number"},
		"review_count": map[string]any{"type": "integer"},
		"availability": map[string]any{"type": "string"},
		"description":  map[string]any{"type": "string"},
		"features": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"brand":     map[string]any{"type": "string"},
		"category":  map[string]any{"type": "string"},
		"image_url": map[string]any{"type": "string"},
		"image_urls": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"required": []string{"title"},
}

// FetchProduct scrapes a product page into a ProductInfo via structured JSON
// extraction. When the structured payload is missing or malformed it falls
// back to page metadata, so a reachable page always yields at least a title.
func FetchProduct(ctx context.Context, fc firecrawl.Client, url string) (*model.ProductInfo, error) {
	resp, err := fc.Scrape(ctx, firecrawl.ScrapeRequest{
		URL:      url,
		Formats:  []string{"json", "markdown"},
		OnlyMain: true,
		JSONOptions: &firecrawl.JSONOptions{
			Schema: productSchema,
			Prompt: "Extract the product listing details from this page.",
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "research: fetch product page")
	}
	if !resp.Success {
		return nil, eris.Errorf("research: product scrape unsuccessful for %s", url)
	}

	var info model.ProductInfo
	if len(resp.Data.JSON) > 0 {
		if err := json.Unmarshal(resp.Data.JSON, &info); err != nil {
			zap.L().Warn("research: structured product payload malformed, using metadata",
				zap.String("url", url), zap.Error(err))
			info = model.ProductInfo{}
		}
	}

	if info.Title == "" {
		info.Title = resp.Data.Metadata.Title
	}
	if info.Description == "" {
		info.Description = resp.Data.Metadata.Description
	}
	if info.Description == "" {
		info.Description = snippet(resp.Data.Markdown, 300)
	}
	if info.ImageURL == "" && len(info.ImageURLs) > 0 {
		info.ImageURL = info.ImageURLs[0]
	}

	if info.Title == "" {
		return nil, eris.Errorf("research: no product data extracted from %s", url)
	}

	zap.L().Info("research: product fetched",
		zap.String("title", info.Title),
		zap.String("brand", info.Brand),
		zap.String("category", info.Category),
	)
	return &info, nil
}

// snippet returns the first n runes of s with whitespace collapsed.
func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}
