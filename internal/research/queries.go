package research

import (
	"fmt"
	"strings"

	"github.com/reelforge/adgen-cli/internal/extract"
	"github.com/reelforge/adgen-cli/internal/model"
)

// QueryCount is the fixed size of one research query battery.
const QueryCount = 11

// Query is one search query with its research intent.
type Query struct {
	Text   string
	Intent model.Intent
}

// BuildQueries constructs the fixed battery of 11 search queries:
// indices 0-2 target pain points, 3-5 direct competitors, 6-10 competitor
// advertising on social/video platforms. The researched brand is always
// excluded from the ad queries.
func BuildQueries(productName, brand, category string, catalog *extract.BrandCatalog) []Query {
	queries := make([]Query, 0, QueryCount)

	subject := productName
	if brand != "" && !strings.Contains(strings.ToLower(productName), strings.ToLower(brand)) {
		subject = brand + " " + productName
	}

	// Pain points: complaint and feature-request phrasing, vendor site excluded.
	queries = append(queries,
		Query{fmt.Sprintf(`"%s" complaints problems reddit`, subject), model.IntentPainPoint},
		Query{fmt.Sprintf(`"%s" negative review issues -site:%s`, subject, vendorDomain(brand)), model.IntentPainPoint},
		Query{fmt.Sprintf(`"%s" "i wish" OR "feature request" OR "doesn't support"`, subject), model.IntentPainPoint},
	)

	// Competitors: comparison and switcher phrasing.
	queries = append(queries,
		Query{fmt.Sprintf(`"%s" vs`, subject), model.IntentCompetitor},
		Query{fmt.Sprintf(`best %s alternatives`, productName), model.IntentCompetitor},
		Query{fmt.Sprintf(`"switched from %s to"`, productName), model.IntentCompetitor},
	)

	// Competitor ads: brand-scoped OR-queries from the curated table,
	// restricted to social/video platforms.
	brands := catalog.BrandsFor(category, brand)
	queries = append(queries,
		Query{fmt.Sprintf(`(%s) ad site:instagram.com`, orJoin(brands, 0, 4)), model.IntentCompetitorAd},
		Query{fmt.Sprintf(`(%s) ad site:tiktok.com`, orJoin(brands, 4, 4)), model.IntentCompetitorAd},
		Query{fmt.Sprintf(`(%s) commercial site:youtube.com`, orJoin(brands, 0, 4)), model.IntentCompetitorAd},
		Query{fmt.Sprintf(`%s ad library (%s)`, category, orJoin(brands, 0, 6)), model.IntentCompetitorAd},
		Query{fmt.Sprintf(`best %s ads sponsored -"%s"`, category, brand), model.IntentCompetitorAd},
	)

	return queries
}

// orJoin quotes and OR-joins a window of the brand list, wrapping around
// when the window runs past the end.
func orJoin(brands []string, offset, n int) string {
	if len(brands) == 0 {
		return `"brand"`
	}
	parts := make([]string, 0, n)
	for i := 0; i < n && i < len(brands); i++ {
		parts = append(parts, fmt.Sprintf("%q", brands[(offset+i)%len(brands)]))
	}
	return strings.Join(parts, " OR ")
}

// vendorDomain guesses the brand's own domain for site exclusions. A wrong
// guess only weakens one query, so a naive form is fine.
func vendorDomain(brand string) string {
	if brand == "" {
		return "amazon.com"
	}
	clean := strings.ToLower(strings.ReplaceAll(brand, " ", ""))
	return clean + ".com"
}
