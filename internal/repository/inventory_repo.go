package repository

import (
	"context"

	"github.com/nig3l/OPTACOMP-InventorySystems/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository interface {
	Create(ctx context.Context, tx *gorm.DB, item *model.InventoryItem) error
	FindByProductID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*model.InventoryItem, error)
	// FindByProductIDForUpdate locks the row until tx ends.
	FindByProductIDForUpdate(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*model.InventoryItem, error)
	FindByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]model.InventoryItem, error)
	Save(ctx context.Context, tx *gorm.DB, item *model.InventoryItem) error
	DeleteByProductID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) error
}

type inventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{db}
}

func (r *inventoryRepo) Create(ctx context.Context, tx *gorm.DB, item *model.InventoryItem) error {
	return conn(ctx, r.db, tx).Omit("Product").Create(item).Error
}

func (r *inventoryRepo) FindByProductID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := conn(ctx, r.db, tx).First(&item, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepo) FindByProductIDForUpdate(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := conn(ctx, r.db, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, "product_id = ?", productID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepo) FindByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	if len(productIDs) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).Where("product_id IN ?", productIDs).Find(&items).Error
	return items, err
}

func (r *inventoryRepo) Save(ctx context.Context, tx *gorm.DB, item *model.InventoryItem) error {
	return conn(ctx, r.db, tx).Omit("Product").Save(item).Error
}

func (r *inventoryRepo) DeleteByProductID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) error {
	return conn(ctx, r.db, tx).Where("product_id = ?", productID).Delete(&model.InventoryItem{}).Error
}
