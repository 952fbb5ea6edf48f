package urlsync

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemantajax/connectclo/internal/domain"
	"github.com/hemantajax/connectclo/internal/store"
)

func mustQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return v
}

func start(t *testing.T, location string) (*store.Store, *MemoryHistory, *Synchronizer) {
	t.Helper()
	h, err := NewMemoryHistory(location)
	require.NoError(t, err)
	st := store.New()
	s := New(st, h)
	s.Start()
	return st, h, s
}

func TestRoundTrip(t *testing.T) {
	st, h, _ := start(t, "/products?q=shoe&pricing=1&sort=HIGHER_PRICE&minPrice=10&maxPrice=50")

	state := st.State()
	require.Equal(t, "shoe", state.SearchQuery)
	require.Equal(t, []domain.PricingOption{domain.PricingPaid}, state.PricingOptions)
	require.Equal(t, domain.SortHigherPrice, state.SortBy)
	require.Equal(t, domain.PriceRange{Min: 10, Max: 50}, state.PriceRange)
	require.True(t, state.IsActive)

	require.Equal(t, mustQuery(t, "q=shoe&pricing=1&sort=HIGHER_PRICE&minPrice=10&maxPrice=50"), h.Query())
	require.Zero(t, h.Replaces(), "canonical query must not be rewritten")
}

func TestHydrationIgnoresInvalidValues(t *testing.T) {
	st, h, _ := start(t, "/?q=hat&pricing=9,x,2,0,2&sort=CHEAPEST&minPrice=abc&maxPrice=200&utm_source=mail")

	state := st.State()
	assert.Equal(t, "hat", state.SearchQuery)
	assert.Equal(t, []domain.PricingOption{domain.PricingViewOnly, domain.PricingFree}, state.PricingOptions)
	assert.Equal(t, domain.DefaultSort, state.SortBy)
	assert.Equal(t, domain.PriceRange{Min: domain.PriceMin, Max: 200}, state.PriceRange)

	// the reconciliation pass drops what could not be applied and keeps foreign params
	assert.Equal(t, mustQuery(t, "q=hat&pricing=2,0&maxPrice=200&utm_source=mail"), h.Query())
	assert.Equal(t, 1, h.Replaces())
}

func TestHydrationAcceptsTagsAndCategoryAlias(t *testing.T) {
	st, h, _ := start(t, "/?pricing=paid,FREE&category=electronics,jewelery&minRating=3.5")
	state := st.State()
	assert.Equal(t, []domain.PricingOption{domain.PricingPaid, domain.PricingFree}, state.PricingOptions)
	assert.Equal(t, []string{"electronics", "jewelery"}, state.Categories)
	assert.Equal(t, 3.5, state.MinRating)
	assert.Equal(t, mustQuery(t, "pricing=1,0&categories=electronics,jewelery&minRating=3.5"), h.Query())
}

func TestEmptyLocationStaysEmpty(t *testing.T) {
	st, h, _ := start(t, "/products")
	require.False(t, st.State().IsActive)
	require.Empty(t, h.Query())
	require.Zero(t, h.Replaces())
}

func TestReflectsChangesWithReplace(t *testing.T) {
	st, h, _ := start(t, "/products?q=shoe")

	st.TogglePricingOption(domain.PricingPaid)
	st.SetSortBy(domain.SortLowerPrice)
	st.SetPriceRange(domain.PriceRange{Min: 0, Max: 300})
	require.Equal(t, mustQuery(t, "q=shoe&pricing=1&sort=LOWER_PRICE&maxPrice=300"), h.Query())
	require.Equal(t, 3, h.Replaces())

	st.ResetFilters()
	require.Empty(t, h.Query())
	require.Equal(t, "/products", h.Location())
}

func TestDefaultValuedParamsAreOmitted(t *testing.T) {
	st, h, _ := start(t, "/")
	st.SetSearchQuery("   ")
	st.SetSortBy(domain.SortItemName)
	st.SetPriceRange(domain.FullPriceRange())
	st.SetPricingOptions(nil)
	require.Empty(t, h.Query())
}

func TestStartIsLatched(t *testing.T) {
	st, h, s := start(t, "/?q=shoe")
	st.ClearSearch()
	require.Empty(t, h.Query())

	// a second Start must not hydrate again from the (now empty) location or re-subscribe
	h.ReplaceQuery(mustQuery(t, "q=boot"))
	s.Start()
	require.Equal(t, "", st.State().SearchQuery)
	before := h.Replaces()
	st.SetSearchQuery("x")
	require.Equal(t, before+1, h.Replaces())
}

func TestStopDetaches(t *testing.T) {
	st, h, s := start(t, "/")
	s.Stop()
	st.SetSearchQuery("shoe")
	require.Empty(t, h.Query())
	require.True(t, s.Hydrated())
}

func TestHydrationRunsBeforeReflection(t *testing.T) {
	h, err := NewMemoryHistory("/?q=shoe&sort=MOST_REVIEWS")
	require.NoError(t, err)
	st := store.New()

	var observed []url.Values
	st.Subscribe(func(domain.FilterState) { observed = append(observed, h.Query()) })
	New(st, h).Start()

	// every hydration dispatch saw the untouched location
	require.Len(t, observed, 2)
	for _, q := range observed {
		require.Equal(t, mustQuery(t, "q=shoe&sort=MOST_REVIEWS"), q)
	}
}

func TestParseQueryPriceBounds(t *testing.T) {
	tests := []struct {
		raw  string
		want *domain.PriceRange
	}{
		{"", nil},
		{"minPrice=x&maxPrice=y", nil},
		{"minPrice=10", &domain.PriceRange{Min: 10, Max: domain.PriceMax}},
		{"maxPrice=50", &domain.PriceRange{Min: domain.PriceMin, Max: 50}},
		{"minPrice=10.5&maxPrice=50", &domain.PriceRange{Min: 10, Max: 50}},
		{"minPrice=abc&maxPrice=75usd", &domain.PriceRange{Min: domain.PriceMin, Max: 75}},
		{"minPrice=-", nil},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuery(mustQuery(t, tt.raw)).PriceRange)
		})
	}
}

func TestEncodeQueryDoesNotMutateBase(t *testing.T) {
	base := mustQuery(t, "q=old&page=2")
	st := domain.DefaultFilterState()
	out := EncodeQuery(base, st)
	assert.Equal(t, mustQuery(t, "page=2"), out)
	assert.Equal(t, mustQuery(t, "q=old&page=2"), base)
}
