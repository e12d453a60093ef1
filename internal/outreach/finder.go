// Package outreach finds influencer candidates for a product and drafts and
// sends personalized collaboration emails.
package outreach

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/reelforge/adgen-cli/internal/config"
	"github.com/reelforge/adgen-cli/internal/model"
	"github.com/reelforge/adgen-cli/pkg/anthropic"
	"github.com/reelforge/adgen-cli/pkg/firecrawl"
)

// discoveryQuery pairs a search query with the platform it targets.
type discoveryQuery struct {
	text     string
	platform model.Platform
}

// buildDiscoveryQueries returns the fixed seven-query battery: two Instagram,
// two TikTok, one Twitter/X, two YouTube.
func buildDiscoveryQueries(productName, category, brand string) []discoveryQuery {
	niche := category
	if niche == "" {
		niche = productName
	}
	return []discoveryQuery{
		{fmt.Sprintf("site:instagram.com %s influencer", niche), model.PlatformInstagram},
		{fmt.Sprintf("site:instagram.com %s creator reviews", productName), model.PlatformInstagram},
		{fmt.Sprintf("site:tiktok.com %s creator", niche), model.PlatformTikTok},
		{fmt.Sprintf("site:tiktok.com @%s review", strings.ReplaceAll(strings.ToLower(niche), " ", "")), model.PlatformTikTok},
		{fmt.Sprintf("site:twitter.com OR site:x.com %s reviewer", niche), model.PlatformTwitter},
		{fmt.Sprintf("site:youtube.com %s review channel", productName), model.PlatformYouTube},
		{fmt.Sprintf("site:youtube.com best %s creators", niche), model.PlatformYouTube},
	}
}

// candidate is a raw discovery hit before model scoring.
type candidate struct {
	URL         string
	Title       string
	Description string
	Platform    model.Platform
}

// Finder discovers and ranks influencer candidates.
type Finder struct {
	fc        firecrawl.Client
	ai        anthropic.Client
	cfg       config.OutreachConfig
	aiCfg     config.AnthropicConfig
	searchLim int
}

// NewFinder creates a Finder.
func NewFinder(fc firecrawl.Client, ai anthropic.Client, cfg config.OutreachConfig, aiCfg config.AnthropicConfig, searchLimit int) *Finder {
	if searchLimit <= 0 {
		searchLimit = 5
	}
	return &Finder{fc: fc, ai: ai, cfg: cfg, aiCfg: aiCfg, searchLim: searchLimit}
}

// Find runs the discovery battery and returns the top candidates ranked by
// relevance. Individual query failures are logged and swallowed; an empty
// candidate pool returns an empty slice, not an error.
func (f *Finder) Find(ctx context.Context, productName, category, brand string) ([]model.Influencer, error) {
	queries := buildDiscoveryQueries(productName, category, brand)

	perQuery := make([][]candidate, len(queries))
	g, gCtx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			resp, err := f.fc.Search(gCtx, firecrawl.SearchRequest{Query: q.text, Limit: f.searchLim})
			if err != nil {
				zap.L().Warn("outreach: discovery query failed",
					zap.String("platform", string(q.platform)), zap.Error(err))
				return nil
			}
			items := resp.Results()
			out := make([]candidate, 0, len(items))
			for _, item := range items {
				out = append(out, candidate{
					URL:         item.URL,
					Title:       item.Title,
					Description: item.Description,
					Platform:    q.platform,
				})
			}
			perQuery[i] = out
			return nil
		})
	}
	_ = g.Wait()

	pool := dedupCandidates(perQuery)
	poolCap := f.cfg.CandidatePool
	if poolCap <= 0 {
		poolCap = 20
	}
	if len(pool) > poolCap {
		pool = pool[:poolCap]
	}
	if len(pool) == 0 {
		zap.L().Warn("outreach: discovery produced no candidates")
		return nil, nil
	}

	ranked, err := f.score(ctx, pool, productName, category, brand)
	if err != nil {
		return nil, eris.Wrap(err, "outreach: score candidates")
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].RelevanceScore > ranked[b].RelevanceScore
	})
	topK := f.cfg.TopK
	if topK <= 0 {
		topK = 10
	}
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	zap.L().Info("outreach: discovery complete",
		zap.Int("pool", len(pool)), zap.Int("selected", len(ranked)))
	return ranked, nil
}

// dedupCandidates merges the per-query hits in query order, keeping the first
// occurrence of each URL.
func dedupCandidates(perQuery [][]candidate) []candidate {
	seen := make(map[string]bool)
	var out []candidate
	for _, batch := range perQuery {
		for _, c := range batch {
			if c.URL == "" || seen[c.URL] {
				continue
			}
			seen[c.URL] = true
			out = append(out, c)
		}
	}
	return out
}

const scorePrompt = `You are an influencer marketing analyst. Score each of these creator search results for a collaboration promoting:

Product: %s
Brand: %s
Category: %s

Search results:
%s
Return ONLY a JSON array, no markdown fences, one object per result worth pursuing (drop results that are clearly not a creator profile or channel):
[{"index": <result number>, "name": "<creator name>", "handle": "<@handle if visible, else empty>", "followers": "<follower count if visible, else empty>", "niche": "<content niche>", "bio": "<one line>", "email": "<email if visible, else empty>", "relevance_score": <integer 1-10, 10 = ideal fit>, "reasoning": "<one sentence>"}]`

type scoredCandidate struct {
	Index          int    `json:"index"`
	Name           string `json:"name"`
	Handle         string `json:"handle"`
	Followers      string `json:"followers"`
	Niche          string `json:"niche"`
	Bio            string `json:"bio"`
	Email          string `json:"email"`
	RelevanceScore int    `json:"relevance_score"`
	Reasoning      string `json:"reasoning"`
}

// score asks the completion service to extract creator details and assign a
// relevance score to each pooled candidate.
func (f *Finder) score(ctx context.Context, pool []candidate, productName, category, brand string) ([]model.Influencer, error) {
	var listing strings.Builder
	for i, c := range pool {
		fmt.Fprintf(&listing, "%d. [%s] %s\n   %s\n   %s\n", i, c.Platform, c.Title, c.URL, c.Description)
	}

	// Structured extraction, not creative writing; the cheaper model is
	// plenty when configured.
	scoringModel := f.aiCfg.HaikuModel
	if scoringModel == "" {
		scoringModel = f.aiCfg.Model
	}

	resp, err := f.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     scoringModel,
		MaxTokens: int64(f.aiCfg.MaxTokens),
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(scorePrompt, productName, brand, category, listing.String())},
		},
	})
	if err != nil {
		return nil, err
	}

	var scored []scoredCandidate
	if err := json.Unmarshal([]byte(anthropic.CleanJSON(resp.Text())), &scored); err != nil {
		return nil, eris.Wrap(err, "parse scored candidates")
	}

	out := make([]model.Influencer, 0, len(scored))
	for _, s := range scored {
		if s.Index < 0 || s.Index >= len(pool) {
			continue
		}
		src := pool[s.Index]
		inf := model.Influencer{
			ID:             uuid.NewString(),
			Name:           s.Name,
			Handle:         s.Handle,
			Platform:       src.Platform,
			Followers:      s.Followers,
			Niche:          s.Niche,
			Bio:            s.Bio,
			ProfileURL:     src.URL,
			Email:          s.Email,
			RelevanceScore: clampScore(s.RelevanceScore),
			Reasoning:      s.Reasoning,
		}
		if inf.Name == "" {
			inf.Name = nameFromURL(src.URL)
		}
		out = append(out, inf)
	}
	return out, nil
}

// clampScore forces a model-assigned relevance score into the 1-10 range.
func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

// nameFromURL derives a display name from the last profile path segment.
func nameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return u.Host
	}
	return strings.TrimPrefix(parts[len(parts)-1], "@")
}
