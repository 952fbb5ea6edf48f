package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemantajax/connectclo/internal/domain"
)

func TestNewStartsWithDefaults(t *testing.T) {
	s := New()
	st := s.State()
	require.True(t, st.Equal(domain.DefaultFilterState()))
	require.False(t, st.IsActive)
}

func TestCommandsRecomputeIsActive(t *testing.T) {
	tests := []struct {
		name   string
		cmd    func(*Store)
		active bool
	}{
		{"search", func(s *Store) { s.SetSearchQuery("shoe") }, true},
		{"whitespace search", func(s *Store) { s.SetSearchQuery("   ") }, false},
		{"pricing", func(s *Store) { s.SetPricingOptions([]domain.PricingOption{domain.PricingPaid}) }, true},
		{"empty pricing", func(s *Store) { s.SetPricingOptions(nil) }, false},
		{"category", func(s *Store) { s.ToggleCategory("electronics") }, true},
		{"sort", func(s *Store) { s.SetSortBy(domain.SortLowerPrice) }, true},
		{"default sort", func(s *Store) { s.SetSortBy(domain.SortItemName) }, false},
		{"price range", func(s *Store) { s.SetPriceRange(domain.PriceRange{Min: 10, Max: 50}) }, true},
		{"full price range", func(s *Store) { s.SetPriceRange(domain.FullPriceRange()) }, false},
		{"rating", func(s *Store) { s.SetMinRating(3.5) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			tt.cmd(s)
			assert.Equal(t, tt.active, s.State().IsActive)
		})
	}
}

func TestSetSearchQueryStoresVerbatim(t *testing.T) {
	s := New()
	s.SetSearchQuery("  Red Shoe ")
	require.Equal(t, "  Red Shoe ", s.State().SearchQuery)

	s.ClearSearch()
	require.Equal(t, "", s.State().SearchQuery)
	require.False(t, s.State().IsActive)
}

func TestTogglePricingOptionIsInvolution(t *testing.T) {
	s := New()
	s.SetPricingOptions([]domain.PricingOption{domain.PricingFree})
	before := s.State().PricingOptions

	s.TogglePricingOption(domain.PricingPaid)
	require.ElementsMatch(t, []domain.PricingOption{domain.PricingFree, domain.PricingPaid}, s.State().PricingOptions)

	s.TogglePricingOption(domain.PricingPaid)
	require.ElementsMatch(t, before, s.State().PricingOptions)

	s.TogglePricingOption(domain.PricingFree)
	s.TogglePricingOption(domain.PricingFree)
	require.ElementsMatch(t, before, s.State().PricingOptions)
}

func TestToggleCategory(t *testing.T) {
	s := New()
	s.ToggleCategory("jewelery")
	s.ToggleCategory("electronics")
	require.Equal(t, []string{"jewelery", "electronics"}, s.State().Categories)
	s.ToggleCategory("jewelery")
	require.Equal(t, []string{"electronics"}, s.State().Categories)
}

func TestResetFiltersIsIdempotent(t *testing.T) {
	s := New()
	s.SetSearchQuery("hat")
	s.TogglePricingOption(domain.PricingViewOnly)
	s.SetCategories([]string{"electronics"})
	s.SetSortBy(domain.SortMostReviews)
	s.SetPriceRange(domain.PriceRange{Min: 5, Max: 20})
	s.SetMinRating(4)
	require.True(t, s.State().IsActive)

	s.ResetFilters()
	once := s.State()
	s.ResetFilters()
	twice := s.State()

	require.True(t, once.Equal(twice))
	require.True(t, once.Equal(domain.DefaultFilterState()))
	require.False(t, twice.IsActive)
}

func TestSnapshotsAreImmutable(t *testing.T) {
	s := New()
	s.SetPricingOptions([]domain.PricingOption{domain.PricingPaid})
	snap := s.State()
	snap.PricingOptions[0] = domain.PricingFree
	snap.Categories = append(snap.Categories, "x")

	st := s.State()
	require.Equal(t, []domain.PricingOption{domain.PricingPaid}, st.PricingOptions)
	require.Empty(t, st.Categories)

	in := []string{"a"}
	s.SetCategories(in)
	in[0] = "b"
	require.Equal(t, []string{"a"}, s.State().Categories)
}

func TestSubscribersSeeDispatchOrder(t *testing.T) {
	s := New()
	var seen []string
	unsubscribe := s.Subscribe(func(st domain.FilterState) {
		seen = append(seen, st.SearchQuery)
	})

	s.SetSearchQuery("a")
	s.SetSearchQuery("ab")
	s.SetSearchQuery("abc")
	require.Equal(t, []string{"a", "ab", "abc"}, seen)

	unsubscribe()
	unsubscribe()
	s.SetSearchQuery("abcd")
	require.Len(t, seen, 3)
}

func TestListenerDispatchIsQueued(t *testing.T) {
	s := New()
	var order []string
	s.Subscribe(func(st domain.FilterState) {
		order = append(order, "first:"+st.SearchQuery)
		if st.SearchQuery == "a" {
			s.SetSearchQuery("b")
		}
	})
	s.Subscribe(func(st domain.FilterState) {
		order = append(order, "second:"+st.SearchQuery)
	})

	s.SetSearchQuery("a")
	require.Equal(t, []string{"first:a", "second:a", "first:b", "second:b"}, order)
	require.Equal(t, "b", s.State().SearchQuery)
}
