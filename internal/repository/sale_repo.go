package repository

import (
	"context"
	"time"

	"github.com/nig3l/OPTACOMP-InventorySystems/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleFilter selects sales with From <= created_at < Until, newest first.
type SaleFilter struct {
	From  *time.Time
	Until *time.Time
	Skip  int
	Limit int
}

type SaleRepository interface {
	CreateHeader(ctx context.Context, tx *gorm.DB, sale *model.Sale) error
	CreateItem(ctx context.Context, tx *gorm.DB, item *model.SaleItem) error
	MarkCommitted(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter SaleFilter) ([]model.Sale, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

// CreateHeader inserts the sale row only; items are written one by one.
func (r *saleRepo) CreateHeader(ctx context.Context, tx *gorm.DB, sale *model.Sale) error {
	return conn(ctx, r.db, tx).Omit("Items", "User").Create(sale).Error
}

func (r *saleRepo) CreateItem(ctx context.Context, tx *gorm.DB, item *model.SaleItem) error {
	return conn(ctx, r.db, tx).Omit("Product").Create(item).Error
}

func (r *saleRepo) MarkCommitted(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return conn(ctx, r.db, tx).Model(&model.Sale{}).
		Where("id = ?", id).
		Update("status", model.SaleCommitted).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) List(ctx context.Context, filter SaleFilter) ([]model.Sale, error) {
	var sales []model.Sale

	q := r.db.WithContext(ctx).Model(&model.Sale{})
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.Until != nil {
		q = q.Where("created_at < ?", *filter.Until)
	}

	err := q.Preload("Items").
		Order("created_at DESC").
		Offset(filter.Skip).Limit(filter.Limit).
		Find(&sales).Error
	return sales, err
}
