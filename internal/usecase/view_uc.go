package usecase

import (
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/hemantajax/connectclo/internal/domain"
)

// Filter keeps the products matching every criterion of f. The input is not modified.
func Filter(products []domain.Product, f domain.FilterState) []domain.Product {
	query := strings.ToLower(strings.TrimSpace(f.SearchQuery))
	priceActive := !f.PriceRange.IsFull()

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if len(f.PricingOptions) > 0 && !slices.Contains(f.PricingOptions, p.PricingOption) {
			continue
		}
		if len(f.Categories) > 0 && !slices.Contains(f.Categories, p.Category) {
			continue
		}
		if priceActive && !inPriceRange(p, f.PriceRange) {
			continue
		}
		if f.MinRating > domain.RatingMin && p.Rating != nil && p.Rating.Rate < f.MinRating {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// inPriceRange only constrains PAID products; a PAID product without a price never
// matches a restricted range.
func inPriceRange(p domain.Product, r domain.PriceRange) bool {
	if p.PricingOption != domain.PricingPaid {
		return true
	}
	if p.Price == nil {
		return false
	}
	return r.Contains(*p.Price)
}

func matchesQuery(p domain.Product, query string) bool {
	for _, field := range []string{p.Title, p.Creator, p.Category, p.Description} {
		if field != "" && strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Sort returns a stably sorted copy. Unknown keys sort by name.
func Sort(products []domain.Product, key domain.SortOption) []domain.Product {
	sorted := slices.Clone(products)
	if sorted == nil {
		sorted = []domain.Product{}
	}
	switch key {
	case domain.SortHigherPrice:
		slices.SortStableFunc(sorted, func(a, b domain.Product) int {
			return cmpFloat(b.PriceOrZero(), a.PriceOrZero())
		})
	case domain.SortLowerPrice:
		slices.SortStableFunc(sorted, func(a, b domain.Product) int {
			return cmpFloat(a.PriceOrZero(), b.PriceOrZero())
		})
	case domain.SortHighestRated:
		slices.SortStableFunc(sorted, func(a, b domain.Product) int {
			return cmpFloat(b.RateOrZero(), a.RateOrZero())
		})
	case domain.SortMostReviews:
		slices.SortStableFunc(sorted, func(a, b domain.Product) int {
			return b.ReviewCount() - a.ReviewCount()
		})
	default:
		// collators keep internal buffers and are not safe to share
		col := collate.New(language.English)
		slices.SortStableFunc(sorted, func(a, b domain.Product) int {
			return col.CompareString(a.Title, b.Title)
		})
	}
	return sorted
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

type View struct {
	Items    []domain.Product `json:"items"`
	Total    int              `json:"total"`
	Filtered int              `json:"filtered"`
	IsActive bool             `json:"isActive"`
}

type EngineStats struct {
	FilterRuns int
	SortRuns   int
	Hits       int
}

type filterEntry struct {
	catalog  *domain.Catalog
	criteria domain.FilterState
	result   *filtered
}

// filtered wraps a filter result so its address can key the sort cache.
type filtered struct {
	items []domain.Product
}

type sortEntry struct {
	input  *filtered
	key    domain.SortOption
	result []domain.Product
}

// Engine derives the visible product list from a catalog and filter state, reusing
// the previous result while neither input changed.
type Engine struct {
	mu     sync.Mutex
	filter *filterEntry
	sort   *sortEntry
	stats  EngineStats
}

func NewEngine() *Engine { return &Engine{} }

func (e *Engine) View(c *domain.Catalog, f domain.FilterState) View {
	items := e.Select(c, f)
	return View{Items: items, Total: c.Len(), Filtered: len(items), IsActive: f.IsActive}
}

// Select returns the filtered and sorted products. Callers must not modify the slice.
func (e *Engine) Select(c *domain.Catalog, f domain.FilterState) []domain.Product {
	e.mu.Lock()
	defer e.mu.Unlock()

	in := e.selectFiltered(c, f)
	if s := e.sort; s != nil && s.input == in && s.key == f.SortBy {
		e.stats.Hits++
		return s.result
	}
	e.stats.SortRuns++
	out := Sort(in.items, f.SortBy)
	e.sort = &sortEntry{input: in, key: f.SortBy, result: out}
	return out
}

func (e *Engine) selectFiltered(c *domain.Catalog, f domain.FilterState) *filtered {
	if fe := e.filter; fe != nil && fe.catalog == c && fe.criteria.SameCriteria(f) {
		e.stats.Hits++
		return fe.result
	}
	e.stats.FilterRuns++
	var products []domain.Product
	if c != nil {
		products = c.Products
	}
	res := &filtered{items: Filter(products, f)}
	e.filter = &filterEntry{catalog: c, criteria: f.Clone(), result: res}
	return res
}

func (e *Engine) Stats() EngineStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}
