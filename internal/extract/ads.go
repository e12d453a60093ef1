package extract

import (
	"regexp"
	"strings"

	"github.com/reelforge/adgen-cli/internal/model"
)

// adTitlePatterns attribute an ad to a brand from the result title when no
// catalog brand is mentioned in the content. Ordered; first match wins.
var adTitlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)([A-Z][a-zA-Z0-9' ]{2,30}?) ad\b`),
	regexp.MustCompile(`(?i)\bby ([A-Z][a-zA-Z0-9' ]{2,30})\b`),
	regexp.MustCompile(`(?i)([A-Z][a-zA-Z0-9' ]{2,30}?) official\b`),
}

var capitalizedWord = regexp.MustCompile(`\b[A-Z][a-zA-Z0-9]{2,}\b`)

// unknownAdvertiser is the final attribution fallback.
const unknownAdvertiser = "Unknown brand"

// ctaTerms are scanned in order to pick a call-to-action for the record.
var ctaTerms = []string{"shop now", "learn more", "buy now", "sign up", "get started", "order today"}

// CompetitorAd builds a competitor-ad record from one tagged search result,
// attributing it to the first non-self brand mentioned. Returns nil when the
// fragment is dominated by the researched brand itself (more mentions than
// the configured limit): such pages are the product's own marketing, not
// competitor advertising.
func (e *Extractor) CompetitorAd(res model.SearchResult, ownBrand string) *model.CompetitorAd {
	combined := res.Title + " " + res.Description + " " + res.Content

	if ownBrand != "" {
		mentions := strings.Count(strings.ToLower(combined), strings.ToLower(ownBrand))
		if mentions > e.cfg.SelfMentionLimit {
			return nil
		}
	}

	name := e.attributeBrand(combined, res.Title, ownBrand)
	if name == "" {
		return nil
	}

	return &model.CompetitorAd{
		Platform:       PlatformFromURL(res.URL),
		CompetitorName: name,
		Title:          strings.TrimSpace(res.Title),
		Description:    truncate(strings.TrimSpace(res.Description), 300),
		CallToAction:   callToAction(combined),
		SourceURL:      res.URL,
		IsActive:       !strings.Contains(strings.ToLower(combined), "inactive"),
		Source:         sourceLabel(res.URL),
	}
}

// attributeBrand resolves the advertiser: curated catalog mention first,
// then title patterns, then the first capitalized word, then a placeholder.
func (e *Extractor) attributeBrand(combined, title, ownBrand string) string {
	lower := strings.ToLower(combined)
	for _, b := range e.catalog.All(ownBrand) {
		if strings.Contains(lower, strings.ToLower(b)) {
			return b
		}
	}

	for _, pat := range adTitlePatterns {
		if m := pat.FindStringSubmatch(title); len(m) > 1 {
			candidate := strings.TrimSpace(m[1])
			if !containsOwnBrand(candidate, ownBrand) {
				return candidate
			}
		}
	}

	for _, m := range capitalizedWord.FindAllString(title, -1) {
		if !containsOwnBrand(m, ownBrand) {
			return m
		}
	}

	return unknownAdvertiser
}

// containsOwnBrand reports whether a candidate advertiser name contains the
// researched brand, case-insensitively. A "Hoka Bondi" listing is still the
// researched brand's own marketing, so attribution never emits such names.
func containsOwnBrand(candidate, ownBrand string) bool {
	if ownBrand == "" {
		return false
	}
	return strings.Contains(strings.ToLower(candidate), strings.ToLower(ownBrand))
}

func callToAction(text string) string {
	lower := strings.ToLower(text)
	for _, cta := range ctaTerms {
		if strings.Contains(lower, cta) {
			return titleCaser.String(cta)
		}
	}
	return "Learn More"
}

// PlatformFromURL maps a result URL to the ad platform enum.
func PlatformFromURL(rawURL string) model.AdPlatform {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "instagram.com"), strings.Contains(lower, "facebook.com"):
		return model.AdPlatformInstagram
	case strings.Contains(lower, "tiktok.com"):
		return model.AdPlatformTikTok
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		return model.AdPlatformYouTube
	default:
		return model.AdPlatformOther
	}
}

// DedupAds removes duplicate competitor names, keeping the first occurrence.
func DedupAds(ads []model.CompetitorAd) []model.CompetitorAd {
	seen := make(map[string]bool, len(ads))
	out := ads[:0]
	for _, ad := range ads {
		key := strings.ToLower(ad.CompetitorName)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ad)
	}
	return out
}
