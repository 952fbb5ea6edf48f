package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hemantajax/connectclo/internal/domain"
)

// SnapshotRow is one product of the last catalog fetched from upstream.
type SnapshotRow struct {
	ID            uuid.UUID                          `gorm:"type:uuid;primaryKey"`
	Position      int                                `gorm:"index"`
	ProductID     string                             `gorm:"size:120;index"`
	Title         string                             `gorm:"size:255"`
	Category      string                             `gorm:"size:120;index"`
	PricingOption int
	Price         *float64                           `gorm:"type:decimal(12,2)"`
	Product       datatypes.JSONType[domain.Product] `gorm:"type:jsonb"`
	FetchedAt     time.Time                          `gorm:"index"`
}

func (SnapshotRow) TableName() string { return "catalog_snapshot" }

type SnapshotRepo struct{ db *gorm.DB }

func NewSnapshotRepo(db *gorm.DB) *SnapshotRepo { return &SnapshotRepo{db: db} }

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&SnapshotRow{})
}

// SaveSnapshot replaces the stored catalog with products.
func (r *SnapshotRepo) SaveSnapshot(ctx context.Context, products []domain.Product, fetchedAt time.Time) error {
	rows := toRows(products, fetchedAt)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&SnapshotRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 200).Error
	})
}

func (r *SnapshotRepo) LatestSnapshot(ctx context.Context) (*domain.Catalog, error) {
	var rows []SnapshotRow
	if err := r.db.WithContext(ctx).Order("position asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	return fromRows(rows), nil
}

func toRows(products []domain.Product, fetchedAt time.Time) []SnapshotRow {
	rows := make([]SnapshotRow, 0, len(products))
	for i, p := range products {
		rows = append(rows, SnapshotRow{
			ID:            uuid.New(),
			Position:      i,
			ProductID:     p.ID,
			Title:         p.Title,
			Category:      p.Category,
			PricingOption: int(p.PricingOption),
			Price:         p.Price,
			Product:       datatypes.NewJSONType(p),
			FetchedAt:     fetchedAt,
		})
	}
	return rows
}

func fromRows(rows []SnapshotRow) *domain.Catalog {
	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.Product.Data())
	}
	return domain.NewCatalog(products, rows[0].FetchedAt)
}
