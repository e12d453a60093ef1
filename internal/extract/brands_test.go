package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBrandCatalog(t *testing.T) {
	catalog, err := LoadBrandCatalog()
	require.NoError(t, err)

	all := catalog.All("")
	assert.NotEmpty(t, all)
	assert.True(t, sortedStrings(all), "attribution order must be deterministic")
}

func TestBrandsForCategoryMatch(t *testing.T) {
	catalog, err := LoadBrandCatalog()
	require.NoError(t, err)

	brands := catalog.BrandsFor("running shoes", "Hoka")
	require.NotEmpty(t, brands)
	assert.Contains(t, brands, "Nike")
	assert.NotContains(t, brands, "Hoka")
}

func TestBrandsForUnknownCategoryFallsBack(t *testing.T) {
	catalog, err := LoadBrandCatalog()
	require.NoError(t, err)

	brands := catalog.BrandsFor("submarine parts", "")
	assert.Equal(t, catalog.All(""), brands)
}

func TestAllExcludesOwnBrandCaseInsensitive(t *testing.T) {
	catalog, err := LoadBrandCatalog()
	require.NoError(t, err)

	assert.Contains(t, catalog.All(""), "Nike")
	assert.NotContains(t, catalog.All("nike"), "Nike")
}

func TestAllExcludesNamesContainingOwnBrand(t *testing.T) {
	catalog, err := LoadBrandCatalog()
	require.NoError(t, err)

	assert.NotContains(t, catalog.All("On"), "On Running")
	assert.NotContains(t, catalog.BrandsFor("running shoes", "On"), "On Running")
}

func TestBrandsForMultiKeyCategoryDeterministic(t *testing.T) {
	catalog, err := LoadBrandCatalog()
	require.NoError(t, err)

	// "outdoor fitness apparel" matches three catalog keys; the first key
	// in sorted order always wins.
	want := catalog.BrandsFor("apparel", "")
	for i := 0; i < 20; i++ {
		assert.Equal(t, want, catalog.BrandsFor("outdoor fitness apparel", ""))
	}
}

func sortedStrings(ss []string) bool {
	for i := 1; i < len(ss); i++ {
		if ss[i-1] > ss[i] {
			return false
		}
	}
	return true
}
