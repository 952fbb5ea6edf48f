package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemantajax/connectclo/internal/adapters/catalogapi"
	"github.com/hemantajax/connectclo/internal/domain"
	"github.com/hemantajax/connectclo/internal/grid"
	"github.com/hemantajax/connectclo/internal/usecase"
)

const upstreamBody = `[
	{"id": 1, "title": "Red Shoe", "price": 20, "category": "footwear", "image": "shoe.png", "rating": {"rate": 4.1, "count": 120}},
	{"id": 2, "title": "Blue Hat", "price": 0, "category": "hats", "image": "hat.png"}
]`

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "PRODUCTS_URL", "CATALOG_CACHE_TTL", "FETCH_TIMEOUT", "DB_DSN", "DB_HOST", "LOG_LEVEL", "ROW_HEIGHT", "OVERSCAN"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, catalogapi.DefaultProductsURL, cfg.ProductsURL)
	assert.Equal(t, usecase.DefaultCacheTTL, cfg.CacheTTL)
	assert.Empty(t, cfg.DSN)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, 380.0, cfg.Layout.RowHeight)
	assert.Equal(t, 3, cfg.Layout.Overscan)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CATALOG_CACHE_TTL", "60")
	t.Setenv("FETCH_TIMEOUT", "2s")
	t.Setenv("DB_DSN", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "shop")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ROW_HEIGHT", "360")
	t.Setenv("OVERSCAN", "bogus")

	cfg := LoadConfig()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, 2*time.Second, cfg.FetchTimeout)
	assert.Contains(t, cfg.DSN, "host=db")
	assert.Contains(t, cfg.DSN, "dbname=shop")
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, 360.0, cfg.Layout.RowHeight)
	assert.Equal(t, 3, cfg.Layout.Overscan)
}

func TestOpenSessionAgainstUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(upstreamBody))
	}))
	defer upstream.Close()

	cfg := Config{ProductsURL: upstream.URL, FetchTimeout: time.Second, Layout: grid.DefaultLayout()}
	a, err := NewApp(cfg)
	require.NoError(t, err)
	defer a.Close()
	require.Nil(t, a.DB)

	s, err := a.OpenSession(context.Background(), "/products?pricing=PAID")
	require.NoError(t, err)
	defer s.Close()
	v := s.View()
	require.Len(t, v.Items, 1)
	assert.Equal(t, "Red Shoe", v.Items[0].Title)
	assert.Equal(t, 2, v.Total)
	assert.Equal(t, "/products?pricing=1", s.Location())

	rec := httptest.NewRecorder()
	a.HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/2", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOpenSessionUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	a, err := NewApp(Config{ProductsURL: upstream.URL, FetchTimeout: time.Second})
	require.NoError(t, err)
	_, err = a.OpenSession(context.Background(), "/")
	require.ErrorIs(t, err, domain.ErrSourceUnavailable)
}
