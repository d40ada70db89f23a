package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nig3l/OPTACOMP-InventorySystems/internal/model"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/repository"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/ws"
	"github.com/nig3l/OPTACOMP-InventorySystems/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Publisher delivers realtime events to connected clients.
type Publisher interface {
	Publish(event ws.Event)
}

type InventoryService interface {
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*model.Product, error)
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.ProductWithStock, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.ProductWithStock, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	UpdateInventory(ctx context.Context, productID uuid.UUID, req *UpdateInventoryRequest) (*model.InventoryItem, error)
}

type CreateProductRequest struct {
	CategoryID     uuid.UUID       `json:"category_id" validate:"uuid_required"`
	Name           string          `json:"name" validate:"required,max=255"`
	Description    string          `json:"description"`
	ModelNumber    string          `json:"model_number" validate:"max=100"`
	Specifications string          `json:"specifications"`
	CostPrice      decimal.Decimal `json:"cost_price" validate:"money"`
	SellingPrice   decimal.Decimal `json:"selling_price" validate:"money"`
	Barcode        *string         `json:"barcode" validate:"omitempty,max=100"`
	ImageURL       string          `json:"image_url" validate:"omitempty,url"`
}

// UpdateProductRequest only touches the fields that are present.
type UpdateProductRequest struct {
	CategoryID     *uuid.UUID       `json:"category_id" validate:"omitempty,uuid_required"`
	Name           *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description    *string          `json:"description"`
	ModelNumber    *string          `json:"model_number" validate:"omitempty,max=100"`
	Specifications *string          `json:"specifications"`
	CostPrice      *decimal.Decimal `json:"cost_price" validate:"omitempty,money"`
	SellingPrice   *decimal.Decimal `json:"selling_price" validate:"omitempty,money"`
	Barcode        *string          `json:"barcode" validate:"omitempty,max=100"`
	ImageURL       *string          `json:"image_url" validate:"omitempty,url"`
}

// UpdateInventoryRequest only touches the fields that are present. When the
// quantity changes without an explicit status, the status is recomputed.
type UpdateInventoryRequest struct {
	Quantity *int               `json:"quantity" validate:"omitempty,min=0"`
	Location *string            `json:"location"`
	Status   *model.StockStatus `json:"status" validate:"omitempty,oneof=in_stock low_stock out_of_stock"`
}

type inventoryService struct {
	categoryRepo  repository.CategoryRepository
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	tx            repository.Transactor
	events        Publisher
}

func NewInventoryService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	inventoryRepo repository.InventoryRepository,
	tx repository.Transactor,
	events Publisher,
) InventoryService {
	return &inventoryService{
		categoryRepo:  categoryRepo,
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		tx:            tx,
		events:        events,
	}
}

// CreateProduct stores the product together with an empty inventory row.
func (s *inventoryService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*model.Product, error) {
	if err := validator.Check(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.ensureCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	product := &model.Product{
		CategoryID:     req.CategoryID,
		Name:           req.Name,
		Description:    req.Description,
		ModelNumber:    req.ModelNumber,
		Specifications: req.Specifications,
		CostPrice:      req.CostPrice,
		SellingPrice:   req.SellingPrice,
		Barcode:        cleanBarcode(req.Barcode),
		ImageURL:       req.ImageURL,
	}

	err := s.tx.Run(ctx, func(tx *gorm.DB) error {
		if err := s.productRepo.Create(ctx, tx, product); err != nil {
			return err
		}
		return s.inventoryRepo.Create(ctx, tx, &model.InventoryItem{
			ProductID: product.ID,
			Quantity:  0,
			Status:    model.StatusOutOfStock,
		})
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: barcode already in use", ErrConflict)
		}
		return nil, err
	}

	s.events.Publish(ws.Event{
		Type:   ws.EventStockUpdate,
		Action: "product_created",
		Data:   product.WithStock(nil),
	})
	return product, nil
}

func (s *inventoryService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.ProductWithStock, error) {
	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	items, err := s.inventoryRepo.FindByProductIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[uuid.UUID]*model.InventoryItem, len(items))
	for i := range items {
		byProduct[items[i].ProductID] = &items[i]
	}

	result := make([]model.ProductWithStock, len(products))
	for i, p := range products {
		result[i] = p.WithStock(byProduct[p.ID])
	}
	return result, nil
}

func (s *inventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*model.ProductWithStock, error) {
	product, err := s.findProduct(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	item, err := s.inventoryRepo.FindByProductID(ctx, nil, id)
	if err != nil && !repository.IsNotFound(err) {
		return nil, err
	}

	withStock := product.WithStock(item)
	return &withStock, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*model.Product, error) {
	if err := validator.Check(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	product, err := s.findProduct(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if err := s.ensureCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.ModelNumber != nil {
		product.ModelNumber = *req.ModelNumber
	}
	if req.Specifications != nil {
		product.Specifications = *req.Specifications
	}
	if req.CostPrice != nil {
		product.CostPrice = *req.CostPrice
	}
	if req.SellingPrice != nil {
		product.SellingPrice = *req.SellingPrice
	}
	if req.Barcode != nil {
		product.Barcode = cleanBarcode(req.Barcode)
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: barcode already in use", ErrConflict)
		}
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes the inventory row first, then the product.
func (s *inventoryService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	err := s.tx.Run(ctx, func(tx *gorm.DB) error {
		if _, err := s.findProduct(ctx, tx, id); err != nil {
			return err
		}
		if err := s.inventoryRepo.DeleteByProductID(ctx, tx, id); err != nil {
			return err
		}
		return s.productRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: product is referenced by recorded sales", ErrConflict)
		}
		return err
	}

	s.events.Publish(ws.Event{
		Type:   ws.EventStockUpdate,
		Action: "product_deleted",
		Data:   map[string]interface{}{"product_id": id},
	})
	return nil
}

// UpdateInventory adjusts the stock row of a product, creating it if missing.
func (s *inventoryService) UpdateInventory(ctx context.Context, productID uuid.UUID, req *UpdateInventoryRequest) (*model.InventoryItem, error) {
	if err := validator.Check(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var item *model.InventoryItem
	var oldQuantity int
	err := s.tx.Run(ctx, func(tx *gorm.DB) error {
		if _, err := s.findProduct(ctx, tx, productID); err != nil {
			return err
		}

		existing, err := s.inventoryRepo.FindByProductIDForUpdate(ctx, tx, productID)
		switch {
		case err == nil:
			item = existing
		case repository.IsNotFound(err):
			item = &model.InventoryItem{ProductID: productID, Status: model.StatusOutOfStock}
		default:
			return err
		}
		oldQuantity = item.Quantity

		if req.Quantity != nil {
			item.Apply(*req.Quantity)
		}
		if req.Location != nil {
			item.Location = *req.Location
		}
		if req.Status != nil {
			if want := model.StatusForQuantity(item.Quantity); *req.Status != want {
				return fmt.Errorf("%w: status %s contradicts quantity %d (expected %s)",
					ErrValidation, *req.Status, item.Quantity, want)
			}
			item.Status = *req.Status
		}

		if item.ID == uuid.Nil {
			return s.inventoryRepo.Create(ctx, tx, item)
		}
		return s.inventoryRepo.Save(ctx, tx, item)
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ws.Event{
		Type:   ws.EventStockUpdate,
		Action: "inventory_updated",
		Data: map[string]interface{}{
			"product_id":   productID,
			"old_quantity": oldQuantity,
			"new_quantity": item.Quantity,
			"status":       item.Status,
		},
	})
	return item, nil
}

func (s *inventoryService) findProduct(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, tx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: product not found", ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

func (s *inventoryService) ensureCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return fmt.Errorf("%w: category not found", ErrNotFound)
		}
		return err
	}
	return nil
}

// cleanBarcode maps blank barcodes to NULL so the unique index ignores them.
func cleanBarcode(barcode *string) *string {
	if barcode == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*barcode)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
