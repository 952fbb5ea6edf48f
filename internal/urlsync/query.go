// Package urlsync keeps a filter store and a location query string in step: the query
// seeds the store once, after which every store change is written back.
package urlsync

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/hemantajax/connectclo/internal/domain"
)

const (
	ParamQuery      = "q"
	ParamPricing    = "pricing"
	ParamCategories = "categories"
	ParamCategory   = "category"
	ParamSort       = "sort"
	ParamMinPrice   = "minPrice"
	ParamMaxPrice   = "maxPrice"
	ParamMinRating  = "minRating"
)

// Patch holds the criteria a query string sets. Nil fields were absent or invalid.
type Patch struct {
	SearchQuery    *string
	PricingOptions []domain.PricingOption
	Categories     []string
	SortBy         *domain.SortOption
	PriceRange     *domain.PriceRange
	MinRating      *float64
}

func (p Patch) Empty() bool {
	return p.SearchQuery == nil && p.PricingOptions == nil && p.Categories == nil &&
		p.SortBy == nil && p.PriceRange == nil && p.MinRating == nil
}

// ParseQuery decodes recognized parameters. Invalid values are ignored one by one and
// never prevent the others from being read.
func ParseQuery(v url.Values) Patch {
	var p Patch

	if q := v.Get(ParamQuery); q != "" {
		p.SearchQuery = &q
	}

	if raw := v.Get(ParamPricing); raw != "" {
		var opts []domain.PricingOption
		for _, tok := range strings.Split(raw, ",") {
			opt, ok := domain.ParsePricingOption(tok)
			if !ok || slices.Contains(opts, opt) {
				continue
			}
			opts = append(opts, opt)
		}
		if len(opts) > 0 {
			p.PricingOptions = opts
		}
	}

	raw := v.Get(ParamCategories)
	if raw == "" {
		raw = v.Get(ParamCategory)
	}
	if raw != "" {
		var cats []string
		for _, tok := range strings.Split(raw, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" || slices.Contains(cats, tok) {
				continue
			}
			cats = append(cats, tok)
		}
		if len(cats) > 0 {
			p.Categories = cats
		}
	}

	if s, ok := domain.ParseSortOption(v.Get(ParamSort)); ok {
		p.SortBy = &s
	}

	minPrice, okMin := parseInt(v.Get(ParamMinPrice))
	maxPrice, okMax := parseInt(v.Get(ParamMaxPrice))
	if okMin || okMax {
		r := domain.FullPriceRange()
		if okMin {
			r.Min = float64(minPrice)
		}
		if okMax {
			r.Max = float64(maxPrice)
		}
		p.PriceRange = &r
	}

	if raw := v.Get(ParamMinRating); raw != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && f > domain.RatingMin && f <= domain.RatingMax {
			p.MinRating = &f
		}
	}
	return p
}

// EncodeQuery writes st over a copy of base. Parameters equal to their default are
// removed; parameters this package does not own are kept.
func EncodeQuery(base url.Values, st domain.FilterState) url.Values {
	next := url.Values{}
	for k, vs := range base {
		next[k] = append([]string(nil), vs...)
	}

	setOrDelete(next, ParamQuery, strings.TrimSpace(st.SearchQuery) != "", st.SearchQuery)

	toks := make([]string, 0, len(st.PricingOptions))
	for _, o := range st.PricingOptions {
		toks = append(toks, o.Token())
	}
	setOrDelete(next, ParamPricing, len(toks) > 0, strings.Join(toks, ","))

	next.Del(ParamCategory)
	setOrDelete(next, ParamCategories, len(st.Categories) > 0, strings.Join(st.Categories, ","))

	setOrDelete(next, ParamSort, st.SortBy != domain.DefaultSort, string(st.SortBy))

	setOrDelete(next, ParamMinPrice, st.PriceRange.Min > domain.PriceMin, formatNumber(st.PriceRange.Min))
	setOrDelete(next, ParamMaxPrice, st.PriceRange.Max < domain.PriceMax, formatNumber(st.PriceRange.Max))

	setOrDelete(next, ParamMinRating, st.MinRating > domain.RatingMin, formatNumber(st.MinRating))
	return next
}

func setOrDelete(v url.Values, key string, set bool, value string) {
	if set {
		v.Set(key, value)
		return
	}
	v.Del(key)
}

// parseInt reads the leading integer of s, so "10.5" and "10px" give 10.
func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
