package domain

import (
	"slices"
	"strings"
	"time"
)

const (
	PriceMin  = 0
	PriceMax  = 1000
	PriceStep = 5

	RatingMin  = 0
	RatingMax  = 5
	RatingStep = 0.5

	SearchDebounce = 300 * time.Millisecond
)

type SortOption string

const (
	SortItemName     SortOption = "ITEM_NAME"
	SortHigherPrice  SortOption = "HIGHER_PRICE"
	SortLowerPrice   SortOption = "LOWER_PRICE"
	SortHighestRated SortOption = "HIGHEST_RATED"
	SortMostReviews  SortOption = "MOST_REVIEWS"
)

var SortOptions = []SortOption{SortItemName, SortHigherPrice, SortLowerPrice, SortHighestRated, SortMostReviews}

const DefaultSort = SortItemName

func (s SortOption) Valid() bool { return slices.Contains(SortOptions, s) }

func (s SortOption) Label() string {
	switch s {
	case SortItemName:
		return "Item name"
	case SortHigherPrice:
		return "Higher price"
	case SortLowerPrice:
		return "Lower price"
	case SortHighestRated:
		return "Highest rated"
	case SortMostReviews:
		return "Most reviews"
	}
	return string(s)
}

func ParseSortOption(s string) (SortOption, bool) {
	o := SortOption(strings.TrimSpace(s))
	return o, o.Valid()
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func FullPriceRange() PriceRange { return PriceRange{Min: PriceMin, Max: PriceMax} }

func (r PriceRange) IsFull() bool { return r.Min <= PriceMin && r.Max >= PriceMax }

func (r PriceRange) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// FilterState describes the desired view of the catalog. Sets keep insertion order
// so that they serialize the way the user built them.
type FilterState struct {
	SearchQuery    string          `json:"searchQuery"`
	PricingOptions []PricingOption `json:"pricingOptions"`
	Categories     []string        `json:"categories"`
	PriceRange     PriceRange      `json:"priceRange"`
	MinRating      float64         `json:"minRating"`
	SortBy         SortOption      `json:"sortBy"`
	IsActive       bool            `json:"isActive"`
}

func DefaultFilterState() FilterState {
	return FilterState{
		PricingOptions: []PricingOption{},
		Categories:     []string{},
		PriceRange:     FullPriceRange(),
		SortBy:         DefaultSort,
	}
}

// HasActiveFilters reports whether any criterion differs from its default.
// A whitespace-only search counts as empty.
func (f FilterState) HasActiveFilters() bool {
	return len(f.PricingOptions) > 0 ||
		len(f.Categories) > 0 ||
		strings.TrimSpace(f.SearchQuery) != "" ||
		!f.PriceRange.IsFull() ||
		f.MinRating > RatingMin ||
		f.SortBy != DefaultSort
}

func (f FilterState) Clone() FilterState {
	c := f
	c.PricingOptions = slices.Clone(f.PricingOptions)
	if c.PricingOptions == nil {
		c.PricingOptions = []PricingOption{}
	}
	c.Categories = slices.Clone(f.Categories)
	if c.Categories == nil {
		c.Categories = []string{}
	}
	return c
}

func (f FilterState) Equal(o FilterState) bool {
	return f.SameCriteria(o) && f.SortBy == o.SortBy && f.IsActive == o.IsActive
}

// SameCriteria compares everything that decides membership in the filtered set,
// which excludes ordering.
func (f FilterState) SameCriteria(o FilterState) bool {
	return f.SearchQuery == o.SearchQuery &&
		slices.Equal(f.PricingOptions, o.PricingOptions) &&
		slices.Equal(f.Categories, o.Categories) &&
		f.PriceRange == o.PriceRange &&
		f.MinRating == o.MinRating
}

func (f FilterState) HasPricingOption(p PricingOption) bool {
	return slices.Contains(f.PricingOptions, p)
}

func (f FilterState) HasCategory(c string) bool {
	return slices.Contains(f.Categories, c)
}
