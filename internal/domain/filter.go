package domain

import (
	"fmt"
	"strings"
)

// Criteria describes the catalog filter facets plus the two URL-derived
// overrides. An empty facet list means "no constraint". URLCategory, when
// set, replaces the Category list entirely: a product must equal it exactly.
type Criteria struct {
	Category  []string
	Size      []string
	Color     []string
	Available []bool

	// MinPrice and MaxPrice bound the price inclusively on both ends.
	// A nil MaxPrice is unbounded.
	MinPrice float64
	MaxPrice *float64

	URLCategory string
	URLSearch   string
}

// search returns the normalized search term: case-folded and trimmed.
func (c Criteria) search() string {
	return strings.ToLower(strings.TrimSpace(c.URLSearch))
}

// Matches reports whether the product passes every facet. Facets are
// independent and AND-ed together.
func (c Criteria) Matches(p Product) bool {
	if c.URLCategory != "" {
		if p.Category != c.URLCategory {
			return false
		}
	} else if len(c.Category) > 0 && !containsString(c.Category, p.Category) {
		return false
	}

	if len(c.Size) > 0 && !containsString(c.Size, p.Size) {
		return false
	}
	if len(c.Color) > 0 && !containsString(c.Color, p.Color) {
		return false
	}
	if len(c.Available) > 0 && !containsBool(c.Available, p.Available) {
		return false
	}

	if p.Price < c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && p.Price > *c.MaxPrice {
		return false
	}

	if search := c.search(); search != "" {
		title := strings.ToLower(p.Title)
		description := strings.ToLower(p.Description)
		if !strings.Contains(title, search) && !strings.Contains(description, search) {
			return false
		}
	}

	return true
}

// Apply filters the collection, preserving the input order.
func Apply(products []Product, c Criteria) []Product {
	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if c.Matches(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Title derives the page title for the filtered view.
func (c Criteria) Title() string {
	if c.URLCategory != "" {
		return c.URLCategory
	}
	if search := c.search(); search != "" {
		return fmt.Sprintf("Results for %q", search)
	}
	return "All Products"
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsBool(list []bool, v bool) bool {
	for _, b := range list {
		if b == v {
			return true
		}
	}
	return false
}
