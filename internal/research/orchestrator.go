// Package research implements the multi-source market research orchestrator:
// a fixed battery of intent-tagged searches fanned out concurrently, a
// bounded deep-scrape pass, and heuristic extraction into a MarketResearch.
package research

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/reelforge/adgen-cli/internal/config"
	"github.com/reelforge/adgen-cli/internal/extract"
	"github.com/reelforge/adgen-cli/internal/model"
	"github.com/reelforge/adgen-cli/pkg/anthropic"
	"github.com/reelforge/adgen-cli/pkg/firecrawl"
)

// maxScrapeConcurrency bounds the deep-scrape fan-out.
const maxScrapeConcurrency = 6

// Orchestrator runs one research battery per invocation. Each Run builds a
// fresh MarketResearch; nothing is persisted between runs.
type Orchestrator struct {
	fc        firecrawl.Client
	ai        anthropic.Client
	extractor *extract.Extractor
	catalog   *extract.BrandCatalog
	cfg       config.ResearchConfig
	aiCfg     config.AnthropicConfig
	searchLim int
}

// New creates an Orchestrator with all dependencies.
func New(
	fc firecrawl.Client,
	ai anthropic.Client,
	extractor *extract.Extractor,
	catalog *extract.BrandCatalog,
	cfg config.ResearchConfig,
	aiCfg config.AnthropicConfig,
	searchLimit int,
) *Orchestrator {
	if searchLimit <= 0 {
		searchLimit = 5
	}
	return &Orchestrator{
		fc:        fc,
		ai:        ai,
		extractor: extractor,
		catalog:   catalog,
		cfg:       cfg,
		aiCfg:     aiCfg,
		searchLim: searchLimit,
	}
}

// Run executes the full research battery for one product. Individual query
// and scrape failures are swallowed; only a completely empty result set
// triggers the model-driven fallback path.
func (o *Orchestrator) Run(ctx context.Context, productName, brand, category string) (*model.MarketResearch, error) {
	log := zap.L().With(zap.String("product", productName), zap.String("brand", brand))
	log.Info("research: starting run")

	queries := BuildQueries(productName, brand, category, o.catalog)
	results := o.searchAll(ctx, queries)
	log.Info("research: search fan-out complete", zap.Int("results", len(results)))

	selected := selectForScrape(results, o.cfg.MaxURLsPerIntent)
	scraped := o.scrapeAll(ctx, selected)

	research := o.assemble(scraped, brand)

	if research.Empty() {
		log.Warn("research: battery produced no records, trying model fallback")
		if fb := o.modelFallback(ctx, productName, brand, category); fb != nil {
			research.PainPoints = fb.PainPoints
			research.Competitors = fb.Competitors
			research.MarketSummary = fb.MarketSummary
		}
	}

	log.Info("research: run complete",
		zap.Int("pain_points", len(research.PainPoints)),
		zap.Int("competitors", len(research.Competitors)),
		zap.Int("competitor_ads", len(research.CompetitorAds)),
	)
	return research, nil
}

// searchAll dispatches every query concurrently. A failed query contributes
// an empty slice instead of failing the batch; result order follows query
// index so extraction order is deterministic.
func (o *Orchestrator) searchAll(ctx context.Context, queries []Query) []model.SearchResult {
	perQuery := make([][]model.SearchResult, len(queries))

	g, gCtx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			resp, err := o.fc.Search(gCtx, firecrawl.SearchRequest{
				Query: q.Text,
				Limit: o.searchLim,
			})
			if err != nil {
				zap.L().Warn("research: search query failed",
					zap.Int("query_index", i),
					zap.String("intent", string(q.Intent)),
					zap.Error(err),
				)
				return nil
			}
			items := resp.Results()
			out := make([]model.SearchResult, 0, len(items))
			for _, item := range items {
				out = append(out, model.SearchResult{
					URL:         item.URL,
					Title:       item.Title,
					Description: item.Description,
					Intent:      q.Intent,
				})
			}
			perQuery[i] = out
			return nil
		})
	}
	_ = g.Wait()

	var merged []model.SearchResult
	for _, rs := range perQuery {
		merged = append(merged, rs...)
	}
	return dedupByURL(merged)
}

// dedupByURL keeps the first occurrence of each URL.
func dedupByURL(results []model.SearchResult) []model.SearchResult {
	seen := make(map[string]bool, len(results))
	out := results[:0]
	for _, r := range results {
		if r.URL == "" || seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		out = append(out, r)
	}
	return out
}

// selectForScrape partitions results by intent and caps each bucket.
func selectForScrape(results []model.SearchResult, perIntent int) []model.SearchResult {
	if perIntent <= 0 {
		perIntent = 6
	}
	counts := make(map[model.Intent]int, 3)
	var out []model.SearchResult
	for _, r := range results {
		if counts[r.Intent] >= perIntent {
			continue
		}
		counts[r.Intent]++
		out = append(out, r)
	}
	return out
}

// scrapeAll deep-scrapes the selected URLs concurrently with a per-call
// timeout. A failed scrape keeps the item with empty content so extraction
// still sees the title and description.
func (o *Orchestrator) scrapeAll(ctx context.Context, selected []model.SearchResult) []model.SearchResult {
	out := make([]model.SearchResult, len(selected))
	copy(out, selected)

	timeout := time.Duration(o.cfg.ScrapeTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxScrapeConcurrency)

	for i := range out {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gCtx, timeout)
			defer cancel()

			resp, err := o.fc.Scrape(callCtx, firecrawl.ScrapeRequest{
				URL:       out[i].URL,
				Formats:   []string{"markdown"},
				OnlyMain:  true,
				TimeoutMS: int(timeout.Milliseconds()),
			})
			if err != nil || !resp.Success {
				zap.L().Debug("research: deep scrape failed, keeping metadata only",
					zap.String("url", out[i].URL),
					zap.Error(err),
				)
				return nil
			}
			out[i].Content = resp.Data.Markdown
			if out[i].Title == "" {
				out[i].Title = resp.Data.Metadata.Title
			}
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// assemble feeds scraped items through the extractor per intent, applies the
// per-category caps, dedups competitor ads by name, and collects sources.
func (o *Orchestrator) assemble(items []model.SearchResult, brand string) *model.MarketResearch {
	research := &model.MarketResearch{}

	maxPP := orDefault(o.cfg.MaxPainPoints, 6)
	maxComp := orDefault(o.cfg.MaxCompetitors, 6)
	maxAds := orDefault(o.cfg.MaxCompetitorAds, 8)

	var ads []model.CompetitorAd
	seenSources := make(map[string]bool)

	for _, item := range items {
		switch item.Intent {
		case model.IntentPainPoint:
			if len(research.PainPoints) < maxPP {
				research.PainPoints = append(research.PainPoints, o.extractor.PainPoint(item))
			}
		case model.IntentCompetitor:
			if len(research.Competitors) < maxComp {
				research.Competitors = append(research.Competitors, o.extractor.Competitor(item))
			}
		case model.IntentCompetitorAd:
			if ad := o.extractor.CompetitorAd(item, brand); ad != nil {
				ads = append(ads, *ad)
			}
		}
		if item.URL != "" && !seenSources[item.URL] {
			seenSources[item.URL] = true
			research.Sources = append(research.Sources, item.URL)
		}
	}

	ads = extract.DedupAds(ads)
	if len(ads) > maxAds {
		ads = ads[:maxAds]
	}
	research.CompetitorAds = ads

	return research
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
