package extract

import (
	_ "embed"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed brands.yaml
var brandsYAML []byte

// BrandCatalog is the curated category -> consumer-brand lookup table. It
// backs both ad-intent query construction and competitor-ad attribution.
type BrandCatalog struct {
	categories map[string][]string
	all        []string
}

// LoadBrandCatalog parses the embedded brand table.
func LoadBrandCatalog() (*BrandCatalog, error) {
	var raw struct {
		Categories map[string][]string `yaml:"categories"`
	}
	if err := yaml.Unmarshal(brandsYAML, &raw); err != nil {
		return nil, eris.Wrap(err, "extract: parse brand table")
	}

	c := &BrandCatalog{categories: raw.Categories}

	seen := make(map[string]bool)
	for _, brands := range raw.Categories {
		for _, b := range brands {
			if !seen[b] {
				seen[b] = true
				c.all = append(c.all, b)
			}
		}
	}
	// Deterministic attribution order regardless of map iteration.
	sort.Strings(c.all)

	return c, nil
}

// BrandsFor returns the brand list whose category key appears in the given
// category string, excluding the product's own brand. Falls back to the full
// table when the category is unknown.
func (c *BrandCatalog) BrandsFor(category, ownBrand string) []string {
	lower := strings.ToLower(category)

	// Keys in sorted order so a category matching several keys always
	// resolves to the same pool.
	keys := make([]string, 0, len(c.categories))
	for key := range c.categories {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var pool []string
	for _, key := range keys {
		if strings.Contains(lower, key) {
			pool = c.categories[key]
			break
		}
	}
	if pool == nil {
		pool = c.all
	}

	var out []string
	for _, b := range pool {
		if containsOwnBrand(b, ownBrand) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// All returns every known brand in sorted order, excluding any name that
// contains the own brand (own brand "On" drops the catalog's "On Running").
func (c *BrandCatalog) All(ownBrand string) []string {
	var out []string
	for _, b := range c.all {
		if containsOwnBrand(b, ownBrand) {
			continue
		}
		out = append(out, b)
	}
	return out
}
