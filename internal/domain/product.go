package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PricingOption is the pricing model of a catalog entry. The upstream API encodes it
// as 0, 1, 2; some feeds use the FREE/PAID/VIEW_ONLY tags instead.
type PricingOption int

const (
	PricingFree     PricingOption = 0
	PricingPaid     PricingOption = 1
	PricingViewOnly PricingOption = 2
)

var PricingOptions = []PricingOption{PricingFree, PricingPaid, PricingViewOnly}

func (p PricingOption) Valid() bool {
	return p >= PricingFree && p <= PricingViewOnly
}

func (p PricingOption) Label() string {
	switch p {
	case PricingPaid:
		return "Paid"
	case PricingFree:
		return "Free"
	case PricingViewOnly:
		return "View Only"
	default:
		return "Unknown"
	}
}

func (p PricingOption) Tag() string {
	switch p {
	case PricingFree:
		return "FREE"
	case PricingPaid:
		return "PAID"
	case PricingViewOnly:
		return "VIEW_ONLY"
	default:
		return ""
	}
}

// Token is the URL form of the option.
func (p PricingOption) Token() string { return strconv.Itoa(int(p)) }

// ParsePricingOption accepts the integer token or the tag, case-insensitively.
func ParsePricingOption(s string) (PricingOption, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		p := PricingOption(n)
		return p, p.Valid()
	}
	switch strings.ToUpper(s) {
	case "FREE":
		return PricingFree, true
	case "PAID":
		return PricingPaid, true
	case "VIEW_ONLY", "VIEW-ONLY", "VIEWONLY":
		return PricingViewOnly, true
	}
	return 0, false
}

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is the canonical catalog entry. Price is only meaningful for PAID entries
// and stays nil when the source did not provide one.
type Product struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Creator       string        `json:"creator"`
	PricingOption PricingOption `json:"pricingOption"`
	Price         *float64      `json:"price,omitempty"`
	ImagePath     string        `json:"imagePath"`
	Description   string        `json:"description,omitempty"`
	Category      string        `json:"category,omitempty"`
	Rating        *Rating       `json:"rating,omitempty"`
}

// PriceOrZero is the comparison value used by price sorting.
func (p Product) PriceOrZero() float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}

func (p Product) RateOrZero() float64 {
	if p.Rating == nil {
		return 0
	}
	return p.Rating.Rate
}

func (p Product) ReviewCount() int {
	if p.Rating == nil {
		return 0
	}
	return p.Rating.Count
}

func HasValidPrice(p Product) bool {
	return p.PricingOption == PricingPaid && p.Price != nil && *p.Price > 0
}

func FormatPrice(price *float64, option PricingOption) string {
	switch option {
	case PricingFree:
		return "FREE"
	case PricingViewOnly:
		return "View Only"
	case PricingPaid:
		if price != nil {
			return fmt.Sprintf("$%.2f", *price)
		}
	}
	return "N/A"
}

// ProductKey is the list identity of a product: its id, or its position when the
// source gave none.
func ProductKey(p Product, index int) string {
	if p.ID != "" {
		return p.ID
	}
	return fmt.Sprintf("product-%d", index)
}

// Catalog is one fetched result set. It is never mutated after construction, so its
// address identifies the data for memoization.
type Catalog struct {
	Products  []Product
	FetchedAt time.Time
	Stale     bool
}

func NewCatalog(products []Product, fetchedAt time.Time) *Catalog {
	return &Catalog{Products: products, FetchedAt: fetchedAt}
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Products)
}

func (c *Catalog) FindByID(id string) (*Product, error) {
	if c != nil {
		for i := range c.Products {
			if c.Products[i].ID == id {
				p := c.Products[i]
				return &p, nil
			}
		}
	}
	return nil, ErrNotFound
}

// Categories returns the distinct non-empty categories in catalog order.
func (c *Catalog) Categories() []string {
	if c == nil {
		return []string{}
	}
	seen := map[string]struct{}{}
	cats := []string{}
	for _, p := range c.Products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		cats = append(cats, p.Category)
	}
	return cats
}

type PricingStats struct {
	Total      int        `json:"total"`
	Paid       int        `json:"paid"`
	Free       int        `json:"free"`
	ViewOnly   int        `json:"viewOnly"`
	PriceRange PriceRange `json:"priceRange"`
}

func (c *Catalog) PricingStats() PricingStats {
	st := PricingStats{}
	if c == nil {
		return st
	}
	st.Total = len(c.Products)
	first := true
	for _, p := range c.Products {
		switch p.PricingOption {
		case PricingPaid:
			st.Paid++
			if p.Price == nil {
				continue
			}
			if first || *p.Price < st.PriceRange.Min {
				st.PriceRange.Min = *p.Price
			}
			if first || *p.Price > st.PriceRange.Max {
				st.PriceRange.Max = *p.Price
			}
			first = false
		case PricingFree:
			st.Free++
		case PricingViewOnly:
			st.ViewOnly++
		}
	}
	return st
}
