package domain

import (
	"context"
	"time"
)

// ProductFetcher loads the full catalog from the upstream products API, already
// normalized to the canonical shape.
type ProductFetcher interface {
	FetchProducts(ctx context.Context) ([]Product, error)
}

// SnapshotRepo mirrors the last good catalog so it can be served when the upstream
// API is unreachable.
type SnapshotRepo interface {
	SaveSnapshot(ctx context.Context, products []Product, fetchedAt time.Time) error
	LatestSnapshot(ctx context.Context) (*Catalog, error)
}
