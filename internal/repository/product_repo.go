package repository

import (
	"context"

	"github.com/nig3l/OPTACOMP-InventorySystems/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductFilter narrows product listings. Search is a case-insensitive
// substring matched against name, model number and description.
type ProductFilter struct {
	CategoryID *uuid.UUID
	Search     string
	Skip       int
	Limit      int
}

type ProductRepository interface {
	Create(ctx context.Context, tx *gorm.DB, product *model.Product) error
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, tx *gorm.DB, product *model.Product) error {
	return conn(ctx, r.db, tx).Omit("Category").Create(product).Error
}

func (r *productRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := conn(ctx, r.db, tx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) List(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	var products []model.Product

	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR model_number ILIKE ? OR description ILIKE ?", term, term, term)
	}

	err := q.Order("name ASC").Offset(filter.Skip).Limit(filter.Limit).Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit("Category").Save(product).Error
}

func (r *productRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	res := conn(ctx, r.db, tx).Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
