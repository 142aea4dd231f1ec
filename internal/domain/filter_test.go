package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleProducts() []Product {
	return []Product{
		{ID: "p1", Title: "Linen Shirt", Description: "A breezy summer shirt", Price: 49.99, Category: "shirts", Size: "M", Color: "white", Available: true},
		{ID: "p2", Title: "Denim Jacket", Description: "Classic blue denim", Price: 89.00, Category: "jackets", Size: "L", Color: "blue", Available: true},
		{ID: "p3", Title: "Wool Scarf", Description: "Warm winter scarf", Price: 24.50, Category: "accessories", Size: "", Color: "grey", Available: false},
		{ID: "p4", Title: "Silk Shirt", Description: "Evening wear", Price: 120.00, Category: "shirts", Size: "S", Color: "black", Available: true},
	}
}

func TestApply_NoCriteria_ReturnsEverything(t *testing.T) {
	products := sampleProducts()
	got := Apply(products, Criteria{})
	assert.Equal(t, products, got)
}

func TestApply_PreservesOrder(t *testing.T) {
	products := sampleProducts()
	got := Apply(products, Criteria{Category: []string{"shirts"}})
	assert.Equal(t, []string{"p1", "p4"}, []string{got[0].ID, got[1].ID})
}

func TestMatches_CategoryFacet(t *testing.T) {
	c := Criteria{Category: []string{"shirts", "jackets"}}
	assert.True(t, c.Matches(sampleProducts()[0]))
	assert.True(t, c.Matches(sampleProducts()[1]))
	assert.False(t, c.Matches(sampleProducts()[2]))
}

func TestMatches_FacetsCompose(t *testing.T) {
	// Category and price range must both hold.
	max := 100.0
	c := Criteria{
		Category: []string{"shirts"},
		MinPrice: 30,
		MaxPrice: &max,
	}
	got := Apply(sampleProducts(), c)
	assert.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)
}

func TestMatches_PriceBoundsAreInclusive(t *testing.T) {
	max := 49.99
	c := Criteria{MinPrice: 49.99, MaxPrice: &max}
	got := Apply(sampleProducts(), c)
	assert.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)
}

func TestMatches_NilMaxPriceIsUnbounded(t *testing.T) {
	c := Criteria{MinPrice: 100}
	got := Apply(sampleProducts(), c)
	assert.Len(t, got, 1)
	assert.Equal(t, "p4", got[0].ID)
}

func TestMatches_AvailabilityFacet(t *testing.T) {
	c := Criteria{Available: []bool{false}}
	got := Apply(sampleProducts(), c)
	assert.Len(t, got, 1)
	assert.Equal(t, "p3", got[0].ID)
}

func TestMatches_URLCategoryOverridesCategoryList(t *testing.T) {
	// The URL-derived category wins even when the facet list says otherwise.
	c := Criteria{
		URLCategory: "jackets",
		Category:    []string{"shirts", "accessories"},
	}
	got := Apply(sampleProducts(), c)
	assert.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ID)
}

func TestMatches_URLCategoryExactMatch(t *testing.T) {
	c := Criteria{URLCategory: "shirt"}
	assert.Empty(t, Apply(sampleProducts(), c), "URL category matches exactly, not by prefix")
}

func TestMatches_SearchIsCaseInsensitive(t *testing.T) {
	c := Criteria{URLSearch: "DENIM"}
	got := Apply(sampleProducts(), c)
	assert.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ID)
}

func TestMatches_SearchCoversTitleAndDescription(t *testing.T) {
	c := Criteria{URLSearch: "winter"}
	got := Apply(sampleProducts(), c)
	assert.Len(t, got, 1)
	assert.Equal(t, "p3", got[0].ID, "search should match the description too")
}

func TestMatches_SearchTrimsWhitespace(t *testing.T) {
	c := Criteria{URLSearch: "  silk  "}
	got := Apply(sampleProducts(), c)
	assert.Len(t, got, 1)
	assert.Equal(t, "p4", got[0].ID)
}

func TestMatches_BlankSearchMatchesAll(t *testing.T) {
	c := Criteria{URLSearch: "   "}
	assert.Len(t, Apply(sampleProducts(), c), len(sampleProducts()))
}

func TestApply_EmptyInput(t *testing.T) {
	got := Apply(nil, Criteria{Category: []string{"shirts"}})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTitle_URLCategoryWins(t *testing.T) {
	c := Criteria{URLCategory: "jackets", URLSearch: "denim"}
	assert.Equal(t, "jackets", c.Title())
}

func TestTitle_SearchTerm(t *testing.T) {
	c := Criteria{URLSearch: " Denim "}
	assert.Equal(t, `Results for "denim"`, c.Title())
}

func TestTitle_Default(t *testing.T) {
	assert.Equal(t, "All Products", Criteria{}.Title())
}
