package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/hemantajax/connectclo/internal/domain"
)

const (
	DefaultCacheTTL = 300 * time.Second
	catalogKey      = "catalog"
)

// Result is what consumers observe of the product source at a point in time.
type Result struct {
	Data      *domain.Catalog
	IsLoading bool
	Err       error
}

// ProductUC is the single read-only product source. A successful fetch is reused
// for the cache lifetime; concurrent callers share one upstream request.
type ProductUC struct {
	Products  domain.ProductFetcher
	Snapshots domain.SnapshotRepo

	cache *cache.Cache
	group singleflight.Group

	mu     sync.Mutex
	status Result
}

func NewProductUC(products domain.ProductFetcher, snapshots domain.SnapshotRepo, ttl time.Duration) *ProductUC {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ProductUC{
		Products:  products,
		Snapshots: snapshots,
		cache:     cache.New(ttl, 2*ttl),
	}
}

// Fetch returns the cached catalog, or loads it when the cache is empty or expired.
func (uc *ProductUC) Fetch(ctx context.Context) Result {
	if c, ok := uc.cached(); ok {
		return Result{Data: c}
	}
	return uc.load(ctx, false)
}

// Refetch bypasses the cache. A failed refetch keeps serving the previous data
// alongside the error.
func (uc *ProductUC) Refetch(ctx context.Context) Result {
	return uc.load(ctx, true)
}

// Reconnected is called when connectivity comes back.
func (uc *ProductUC) Reconnected(ctx context.Context) Result {
	log.Info().Msg("connectivity restored, refetching catalog")
	return uc.Refetch(ctx)
}

// Status reports the last observed state without blocking.
func (uc *ProductUC) Status() Result {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	st := uc.status
	if c, ok := uc.cached(); ok {
		st.Data = c
	}
	return st
}

// Catalog is Fetch for callers that only care about data or failure.
func (uc *ProductUC) Catalog(ctx context.Context) (*domain.Catalog, error) {
	res := uc.Fetch(ctx)
	if res.Data == nil && res.Err == nil {
		return nil, domain.ErrSourceUnavailable
	}
	return res.Data, res.Err
}

func (uc *ProductUC) cached() (*domain.Catalog, bool) {
	if v, found := uc.cache.Get(catalogKey); found {
		return v.(*domain.Catalog), true
	}
	return nil, false
}

func (uc *ProductUC) load(ctx context.Context, force bool) Result {
	uc.setLoading()
	v, err, _ := uc.group.Do(catalogKey, func() (any, error) {
		if c, ok := uc.cached(); ok && !force {
			return c, nil
		}
		// shared by every waiting caller; bounded by the fetcher's own timeout
		fctx := context.WithoutCancel(ctx)
		products, err := uc.Products.FetchProducts(fctx)
		if err != nil {
			return nil, err
		}
		c := domain.NewCatalog(products, time.Now())
		uc.cache.Set(catalogKey, c, cache.DefaultExpiration)
		uc.saveSnapshot(fctx, c)
		return c, nil
	})

	var res Result
	if err != nil {
		log.Error().Err(err).Msg("catalog fetch failed")
		res = Result{Err: err}
		if prev, ok := uc.lastGood(); ok {
			res.Data = prev
		} else if snap := uc.latestSnapshot(ctx); snap != nil {
			res.Data = snap
		}
	} else {
		res = Result{Data: v.(*domain.Catalog)}
	}

	uc.mu.Lock()
	uc.status = Result{Data: res.Data, Err: res.Err}
	uc.mu.Unlock()
	return res
}

func (uc *ProductUC) setLoading() {
	uc.mu.Lock()
	uc.status.IsLoading = true
	uc.mu.Unlock()
}

func (uc *ProductUC) lastGood() (*domain.Catalog, bool) {
	if c, ok := uc.cached(); ok {
		return c, true
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.status.Data != nil && !uc.status.Data.Stale {
		return uc.status.Data, true
	}
	return nil, false
}

func (uc *ProductUC) saveSnapshot(ctx context.Context, c *domain.Catalog) {
	if uc.Snapshots == nil {
		return
	}
	if err := uc.Snapshots.SaveSnapshot(ctx, c.Products, c.FetchedAt); err != nil {
		log.Warn().Err(err).Msg("catalog snapshot not saved")
	}
}

func (uc *ProductUC) latestSnapshot(ctx context.Context) *domain.Catalog {
	if uc.Snapshots == nil {
		return nil
	}
	snap, err := uc.Snapshots.LatestSnapshot(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warn().Err(err).Msg("catalog snapshot not loaded")
		}
		return nil
	}
	snap.Stale = true
	log.Warn().Time("fetched_at", snap.FetchedAt).Int("products", snap.Len()).Msg("serving stale catalog snapshot")
	return snap
}
