package model

// Intent tags a search query and its results, determining which extraction
// heuristic applies downstream.
type Intent string

const (
	IntentPainPoint    Intent = "pain_point"
	IntentCompetitor   Intent = "competitor"
	IntentCompetitorAd Intent = "competitor_ad"
)

// Sentiment classifies the severity of a pain point.
type Sentiment string

const (
	SentimentCritical Sentiment = "critical"
	SentimentModerate Sentiment = "moderate"
	SentimentMinor    Sentiment = "minor"
)

// Frequency labels for pain points. Closed vocabulary; the extractor never
// emits anything outside this set.
const (
	FrequencyWidespread   = "widespread issue"
	FrequencyFrequent     = "frequently mentioned"
	FrequencyOccasional   = "occasionally mentioned"
	FrequencyUserReported = "user reported"
)

// AdPlatform identifies where a competitor ad was found.
type AdPlatform string

const (
	AdPlatformInstagram AdPlatform = "instagram"
	AdPlatformTikTok    AdPlatform = "tiktok"
	AdPlatformYouTube   AdPlatform = "youtube"
	AdPlatformOther     AdPlatform = "other"
)

// PainPoint is a user-reported product complaint or feature gap derived from
// scraped content. Immutable after creation; list ordering is extraction order.
type PainPoint struct {
	Issue     string    `json:"issue"`
	Frequency string    `json:"frequency"`
	Sentiment Sentiment `json:"sentiment"`
	Source    string    `json:"source,omitempty"`
	SourceURL string    `json:"source_url,omitempty"`
}

// CompetitorProduct is a directly comparable product from another brand.
// Name/brand extraction is heuristic; callers must tolerate low precision.
type CompetitorProduct struct {
	ProductName   string `json:"product_name"`
	Brand         string `json:"brand"`
	Price         string `json:"price,omitempty"`
	KeyDifference string `json:"key_difference"`
	Source        string `json:"source,omitempty"`
	SourceURL     string `json:"source_url,omitempty"`
}

// CompetitorAd is an advertisement attributed to a non-self brand. A research
// run never attributes an ad to the researched product's own brand.
type CompetitorAd struct {
	Platform       AdPlatform `json:"platform"`
	CompetitorName string     `json:"competitor_name"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	CallToAction   string     `json:"call_to_action"`
	SourceURL      string     `json:"source_url"`
	IsActive       bool       `json:"is_active"`
	Source         string     `json:"source,omitempty"`
}

// MarketResearch aggregates one research run. Constructed fresh per run;
// a refresh replaces the whole object, never patches it.
type MarketResearch struct {
	PainPoints    []PainPoint         `json:"pain_points"`
	Competitors   []CompetitorProduct `json:"competitors"`
	CompetitorAds []CompetitorAd      `json:"competitor_ads"`
	MarketSummary string              `json:"market_summary,omitempty"`
	Sources       []string            `json:"sources"`
}

// Empty reports whether the run produced zero records in every category.
// This is the single definition of "research did not succeed".
func (r *MarketResearch) Empty() bool {
	return len(r.PainPoints) == 0 && len(r.Competitors) == 0 && len(r.CompetitorAds) == 0
}

// SearchResult is one normalized item from the content-fetch search API,
// tagged with the intent of the query that produced it.
type SearchResult struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
	Intent      Intent `json:"intent"`
}
