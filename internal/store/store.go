// Package store holds the filter criteria of one storefront view. State changes only
// through the named commands; readers get immutable snapshots.
package store

import (
	"slices"
	"sync"

	"github.com/hemantajax/connectclo/internal/domain"
)

type Listener func(domain.FilterState)

type subscription struct {
	id int
	fn Listener
}

type Store struct {
	mu        sync.Mutex
	state     domain.FilterState
	listeners []subscription
	nextID    int

	// snapshots waiting to be delivered, in dispatch order
	pending    []domain.FilterState
	delivering bool
}

func New() *Store {
	return &Store{state: domain.DefaultFilterState()}
}

// State returns a snapshot; mutating it does not affect the store.
func (s *Store) State() domain.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn for every snapshot produced by a later command.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool { return sub.id == id })
			s.mu.Unlock()
		})
	}
}

func (s *Store) SetSearchQuery(q string) {
	s.apply(func(st *domain.FilterState) { st.SearchQuery = q })
}

func (s *Store) ClearSearch() { s.SetSearchQuery("") }

func (s *Store) SetPricingOptions(opts []domain.PricingOption) {
	s.apply(func(st *domain.FilterState) { st.PricingOptions = slices.Clone(opts) })
}

func (s *Store) TogglePricingOption(opt domain.PricingOption) {
	s.apply(func(st *domain.FilterState) { st.PricingOptions = toggle(st.PricingOptions, opt) })
}

func (s *Store) SetCategories(cats []string) {
	s.apply(func(st *domain.FilterState) { st.Categories = slices.Clone(cats) })
}

func (s *Store) ToggleCategory(cat string) {
	s.apply(func(st *domain.FilterState) { st.Categories = toggle(st.Categories, cat) })
}

// SetSortBy stores key as given. Callers validate it against domain.SortOptions.
func (s *Store) SetSortBy(key domain.SortOption) {
	s.apply(func(st *domain.FilterState) { st.SortBy = key })
}

// SetPriceRange stores r as given. Clamping to [PriceMin, PriceMax] is the caller's job.
func (s *Store) SetPriceRange(r domain.PriceRange) {
	s.apply(func(st *domain.FilterState) { st.PriceRange = r })
}

func (s *Store) SetMinRating(rating float64) {
	s.apply(func(st *domain.FilterState) { st.MinRating = rating })
}

func (s *Store) ResetFilters() {
	s.apply(func(st *domain.FilterState) { *st = domain.DefaultFilterState() })
}

func (s *Store) apply(mutate func(*domain.FilterState)) {
	s.mu.Lock()
	next := s.state.Clone()
	mutate(&next)
	if next.PricingOptions == nil {
		next.PricingOptions = []domain.PricingOption{}
	}
	if next.Categories == nil {
		next.Categories = []string{}
	}
	next.IsActive = next.HasActiveFilters()
	s.state = next
	s.pending = append(s.pending, next.Clone())
	if s.delivering {
		// a listener dispatched; the outer loop delivers this one after the current
		s.mu.Unlock()
		return
	}
	s.delivering = true
	for len(s.pending) > 0 {
		snap := s.pending[0]
		s.pending = s.pending[1:]
		subs := slices.Clone(s.listeners)
		s.mu.Unlock()
		for _, sub := range subs {
			sub.fn(snap.Clone())
		}
		s.mu.Lock()
	}
	s.delivering = false
	s.mu.Unlock()
}

func toggle[T comparable](set []T, v T) []T {
	if i := slices.Index(set, v); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), v)
}
