package app

import (
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/hemantajax/connectclo/internal/domain"
	"github.com/hemantajax/connectclo/internal/grid"
	"github.com/hemantajax/connectclo/internal/search"
	"github.com/hemantajax/connectclo/internal/store"
	"github.com/hemantajax/connectclo/internal/urlsync"
	"github.com/hemantajax/connectclo/internal/usecase"
)

// Session is one open storefront: filters, the location mirroring them, the search
// box and the grid window over the current view.
type Session struct {
	store   *store.Store
	history *urlsync.MemoryHistory
	sync    *urlsync.Synchronizer
	input   *search.Input
	tracker *grid.Tracker[domain.Product]
	engine  *usecase.Engine

	mu          sync.Mutex
	catalog     *domain.Catalog
	unsubscribe func()
}

// NewSession starts a session at location (path plus query). A nil engine gets a
// private one.
func NewSession(location string, engine *usecase.Engine, layout grid.Layout, opts ...search.Option) (*Session, error) {
	h, err := urlsync.NewMemoryHistory(location)
	if err != nil {
		return nil, fmt.Errorf("parse location: %w", err)
	}
	if engine == nil {
		engine = usecase.NewEngine()
	}
	st := store.New()
	s := &Session{
		store:   st,
		history: h,
		sync:    urlsync.New(st, h),
		tracker: grid.NewTracker[domain.Product](layout),
		engine:  engine,
	}
	s.input = search.NewInput(func() string { return st.State().SearchQuery }, st.SetSearchQuery, opts...)
	s.unsubscribe = st.Subscribe(s.onChange)
	s.sync.Start()
	return s, nil
}

func (s *Session) onChange(st domain.FilterState) {
	s.input.Sync(st.SearchQuery)
	s.refresh(st)
}

func (s *Session) refresh(st domain.FilterState) {
	s.mu.Lock()
	c := s.catalog
	s.mu.Unlock()
	s.tracker.SetItems(s.engine.Select(c, st))
}

func (s *Session) Close() {
	s.sync.Stop()
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *Session) SetCatalog(c *domain.Catalog) {
	s.mu.Lock()
	s.catalog = c
	s.mu.Unlock()
	log.Debug().Int("products", c.Len()).Msg("session catalog updated")
	s.refresh(s.store.State())
}

func (s *Session) Catalog() *domain.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

func (s *Session) Type(text string) { s.input.Type(text) }

func (s *Session) ClearSearch() { s.input.Clear() }

// SearchText is what the search box shows, which may be ahead of the filters.
func (s *Session) SearchText() string { return s.input.Local() }

func (s *Session) TogglePricing(opt domain.PricingOption) error {
	if !opt.Valid() {
		return fmt.Errorf("%w: pricing option %d", domain.ErrInvalidFilter, int(opt))
	}
	s.store.TogglePricingOption(opt)
	return nil
}

func (s *Session) ToggleCategory(category string) {
	s.store.ToggleCategory(category)
}

func (s *Session) SortBy(key domain.SortOption) error {
	if !key.Valid() {
		return fmt.Errorf("%w: sort key %q", domain.ErrInvalidFilter, key)
	}
	s.store.SetSortBy(key)
	return nil
}

// PriceRange snaps both bounds to the slider step.
func (s *Session) PriceRange(lo, hi float64) error {
	lo = math.Round(lo/domain.PriceStep) * domain.PriceStep
	hi = math.Round(hi/domain.PriceStep) * domain.PriceStep
	if lo < domain.PriceMin || hi > domain.PriceMax || lo > hi {
		return fmt.Errorf("%w: price range %v-%v", domain.ErrInvalidFilter, lo, hi)
	}
	s.store.SetPriceRange(domain.PriceRange{Min: lo, Max: hi})
	return nil
}

func (s *Session) MinRating(r float64) error {
	r = math.Round(r/domain.RatingStep) * domain.RatingStep
	if r < domain.RatingMin || r > domain.RatingMax {
		return fmt.Errorf("%w: rating %v", domain.ErrInvalidFilter, r)
	}
	s.store.SetMinRating(r)
	return nil
}

// Reset restores every filter and empties the search box, including text not yet
// applied.
func (s *Session) Reset() {
	s.input.Clear()
	s.store.ResetFilters()
}

func (s *Session) Scroll(y float64) { s.tracker.OnScroll(y) }

func (s *Session) Resize(width, height float64) { s.tracker.OnResize(width, height) }

func (s *Session) Attach(containerTop float64) { s.tracker.Attach(containerTop) }

func (s *Session) State() domain.FilterState { return s.store.State() }

func (s *Session) View() usecase.View {
	return s.engine.View(s.Catalog(), s.store.State())
}

func (s *Session) Window() grid.Window[domain.Product] { return s.tracker.Window() }

func (s *Session) Location() string { return s.history.Location() }
