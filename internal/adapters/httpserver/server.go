package httpserver

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hemantajax/connectclo/internal/domain"
	"github.com/hemantajax/connectclo/internal/grid"
	"github.com/hemantajax/connectclo/internal/store"
	"github.com/hemantajax/connectclo/internal/urlsync"
	"github.com/hemantajax/connectclo/internal/usecase"
)

// viewport params travel in the same query as the filters but are never reflected
var gridParams = []string{"width", "scrollY", "viewportHeight", "containerTop"}

type Server struct {
	mux      *http.ServeMux
	products *usecase.ProductUC
	engine   *usecase.Engine
	layout   grid.Layout
}

func New(p *usecase.ProductUC, e *usecase.Engine, layout grid.Layout) http.Handler {
	if e == nil {
		e = usecase.NewEngine()
	}
	s := &Server{products: p, engine: e, layout: layout, mux: http.NewServeMux()}
	s.routes()
	return Chain(s.mux,
		Gzip,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	s.mux.HandleFunc("/api/products", s.apiProducts)
	s.mux.HandleFunc("/api/products/", s.apiProductByID)
	s.mux.HandleFunc("/api/products/export.xlsx", s.apiExportXLSX)
	s.mux.HandleFunc("/api/filters", s.apiFilters)
	s.mux.HandleFunc("/api/catalog/refresh", s.apiRefresh)
}

// catalog writes the error response itself and returns nil when there is nothing
// to serve.
func (s *Server) catalog(w http.ResponseWriter, r *http.Request) *domain.Catalog {
	res := s.products.Fetch(r.Context())
	if res.Data != nil {
		if res.Err != nil {
			w.Header().Set("X-Catalog-Stale", "true")
		}
		return res.Data
	}
	if res.Err != nil {
		log.Error().Err(res.Err).Str("request_id", RequestIDFrom(r.Context())).Msg("catalog unavailable")
		http.Error(w, "product source unavailable", http.StatusBadGateway)
		return nil
	}
	w.Header().Set("Retry-After", "1")
	http.Error(w, "catalog loading", http.StatusServiceUnavailable)
	return nil
}

// filterState hydrates a throwaway store from the request query, the same way a
// browser tab hydrates from its location.
func filterState(q url.Values) domain.FilterState {
	st := store.New()
	urlsync.Apply(st, urlsync.ParseQuery(q))
	return st.State()
}

func canonicalQuery(q url.Values, st domain.FilterState) string {
	base := url.Values{}
	for k, v := range q {
		base[k] = v
	}
	for _, k := range gridParams {
		base.Del(k)
	}
	return urlsync.EncodeQuery(base, st).Encode()
}

type productsResponse struct {
	Items    []domain.Product            `json:"items"`
	Total    int                         `json:"total"`
	Filtered int                         `json:"filtered"`
	IsActive bool                        `json:"isActive"`
	Query    string                      `json:"query"`
	Filters  domain.FilterState          `json:"filters"`
	Stale    bool                        `json:"stale,omitempty"`
	Grid     *grid.Window[domain.Product] `json:"grid,omitempty"`
}

func (s *Server) apiProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	c := s.catalog(w, r)
	if c == nil {
		return
	}
	q := r.URL.Query()
	st := filterState(q)
	view := s.engine.View(c, st)

	resp := productsResponse{
		Items:    view.Items,
		Total:    view.Total,
		Filtered: view.Filtered,
		IsActive: view.IsActive,
		Query:    canonicalQuery(q, st),
		Filters:  st,
		Stale:    c.Stale,
	}
	if vp, ok := viewportFrom(q); ok {
		win := grid.Compute(view.Items, vp, s.layout)
		resp.Grid = &win
	}
	if resp.Items == nil {
		resp.Items = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func viewportFrom(q url.Values) (grid.Viewport, bool) {
	width, ok := floatParam(q, "width")
	if !ok || width <= 0 {
		return grid.Viewport{}, false
	}
	vp := grid.Viewport{Width: width}
	vp.ScrollY, _ = floatParam(q, "scrollY")
	vp.ContainerTop, _ = floatParam(q, "containerTop")
	if h, ok := floatParam(q, "viewportHeight"); ok && h > 0 {
		vp.Height = h
	} else {
		vp.Height = 800
	}
	return vp, true
}

func floatParam(q url.Values, key string) (float64, bool) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (s *Server) apiProductByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/products/"), "/")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	c := s.catalog(w, r)
	if c == nil {
		return
	}
	p, err := c.FindByID(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type option struct {
	Value string `json:"value"`
	Tag   string `json:"tag,omitempty"`
	Label string `json:"label"`
}

type bounds struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

func (s *Server) apiFilters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	c := s.catalog(w, r)
	if c == nil {
		return
	}
	pricing := make([]option, 0, len(domain.PricingOptions))
	for _, p := range domain.PricingOptions {
		pricing = append(pricing, option{Value: p.Token(), Tag: p.Tag(), Label: p.Label()})
	}
	sorts := make([]option, 0, len(domain.SortOptions))
	for _, o := range domain.SortOptions {
		sorts = append(sorts, option{Value: string(o), Label: o.Label()})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pricingOptions": pricing,
		"sortOptions":    sorts,
		"defaultSort":    domain.DefaultSort,
		"categories":     c.Categories(),
		"price":          bounds{Min: domain.PriceMin, Max: domain.PriceMax, Step: domain.PriceStep},
		"rating":         bounds{Min: domain.RatingMin, Max: domain.RatingMax, Step: domain.RatingStep},
		"stats":          c.PricingStats(),
	})
}

func (s *Server) apiRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	res := s.products.Reconnected(r.Context())
	if res.Err != nil {
		log.Error().Err(res.Err).Str("request_id", RequestIDFrom(r.Context())).Msg("catalog refresh failed")
		http.Error(w, "product source unavailable", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"products":  res.Data.Len(),
		"fetchedAt": res.Data.FetchedAt,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.products.Status()
	body := map[string]any{"status": "ok", "loading": st.IsLoading, "products": st.Data.Len()}
	if st.Err != nil {
		body["lastError"] = st.Err.Error()
	}
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
