package urlsync

import (
	"net/url"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/hemantajax/connectclo/internal/domain"
	"github.com/hemantajax/connectclo/internal/store"
)

// History is the location the synchronizer reads from and writes to. ReplaceQuery
// must overwrite the current entry, never add one.
type History interface {
	Query() url.Values
	ReplaceQuery(url.Values)
}

// Synchronizer hydrates a store from the location once, then mirrors the store into
// the location. Hydration finishes before the reflect listener is attached, so a
// freshly loaded query is never rewritten from defaults.
type Synchronizer struct {
	store   *store.Store
	history History

	mu          sync.Mutex
	hydrated    bool // latch, never reset
	unsubscribe func()
}

func New(st *store.Store, h History) *Synchronizer {
	return &Synchronizer{store: st, history: h}
}

// Start runs both phases. Calling it again is a no-op.
func (s *Synchronizer) Start() {
	s.mu.Lock()
	if s.hydrated {
		s.mu.Unlock()
		return
	}
	s.hydrated = true
	s.mu.Unlock()

	Apply(s.store, ParseQuery(s.history.Query()))

	unsubscribe := s.store.Subscribe(s.reflect)
	s.mu.Lock()
	s.unsubscribe = unsubscribe
	s.mu.Unlock()

	s.reflect(s.store.State())
}

func (s *Synchronizer) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// Stop detaches the reflect listener. The latch stays set.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (s *Synchronizer) reflect(st domain.FilterState) {
	if !s.Hydrated() {
		return
	}
	current := s.history.Query()
	next := EncodeQuery(current, st)
	if next.Encode() == current.Encode() {
		return
	}
	log.Debug().Str("query", next.Encode()).Msg("filters reflected to location")
	s.history.ReplaceQuery(next)
}

// Apply dispatches one store command per field present in p.
func Apply(st *store.Store, p Patch) {
	if p.SearchQuery != nil {
		st.SetSearchQuery(*p.SearchQuery)
	}
	if p.PricingOptions != nil {
		st.SetPricingOptions(p.PricingOptions)
	}
	if p.Categories != nil {
		st.SetCategories(p.Categories)
	}
	if p.SortBy != nil {
		st.SetSortBy(*p.SortBy)
	}
	if p.PriceRange != nil {
		st.SetPriceRange(*p.PriceRange)
	}
	if p.MinRating != nil {
		st.SetMinRating(*p.MinRating)
	}
}
