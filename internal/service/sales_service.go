package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nig3l/OPTACOMP-InventorySystems/internal/model"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/repository"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/ws"
	"github.com/nig3l/OPTACOMP-InventorySystems/pkg/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SalesService interface {
	CreateSale(ctx context.Context, userID uuid.UUID, req *CreateSaleRequest) (*model.Sale, error)
	ListSales(ctx context.Context, query SaleQuery) ([]model.Sale, error)
	GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error)
}

type SaleItemRequest struct {
	ProductID  uuid.UUID       `json:"product_id" validate:"uuid_required"`
	Quantity   int             `json:"quantity" validate:"gt=0"`
	UnitPrice  decimal.Decimal `json:"unit_price" validate:"money"`
	TotalPrice decimal.Decimal `json:"total_price" validate:"money"`
}

type CreateSaleRequest struct {
	CustomerName  string              `json:"customer_name" validate:"max=255"`
	CustomerEmail string              `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone string              `json:"customer_phone" validate:"max=50"`
	TotalAmount   decimal.Decimal     `json:"total_amount" validate:"money"`
	PaymentMethod model.PaymentMethod `json:"payment_method" validate:"omitempty,oneof=cash credit_card debit_card bank_transfer mobile_payment"`
	Items         []SaleItemRequest   `json:"items" validate:"required,min=1,dive"`
}

// SaleQuery filters sale history by calendar day. EndDate is inclusive.
type SaleQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
	Skip      int
	Limit     int
}

// Filter converts the day range into the half-open interval
// [StartDate, EndDate+1day).
func (q SaleQuery) Filter() repository.SaleFilter {
	f := repository.SaleFilter{Skip: q.Skip, Limit: q.Limit}
	if q.StartDate != nil {
		from := truncateDay(*q.StartDate)
		f.From = &from
	}
	if q.EndDate != nil {
		until := truncateDay(*q.EndDate).AddDate(0, 0, 1)
		f.Until = &until
	}
	return f
}

type salesService struct {
	saleRepo      repository.SaleRepository
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	tx            repository.Transactor
	events        Publisher
}

func NewSalesService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	inventoryRepo repository.InventoryRepository,
	tx repository.Transactor,
	events Publisher,
) SalesService {
	return &salesService{
		saleRepo:      saleRepo,
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		tx:            tx,
		events:        events,
	}
}

type stockChange struct {
	ProductID   uuid.UUID         `json:"product_id"`
	ProductName string            `json:"product_name"`
	Sold        int               `json:"sold"`
	NewQuantity int               `json:"new_quantity"`
	Status      model.StockStatus `json:"status"`
}

// CreateSale records a sale and decrements stock for each line, in input
// order. Everything happens in one transaction: if any line references a
// missing product or exceeds the stock on hand, the header, the lines written
// so far and their decrements are all rolled back.
//
// Inventory rows are read FOR UPDATE, so concurrent sales of the same product
// serialize on the row instead of both passing the stock check.
func (s *salesService) CreateSale(ctx context.Context, userID uuid.UUID, req *CreateSaleRequest) (*model.Sale, error) {
	if err := validator.Check(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	sale := &model.Sale{
		UserID:        userID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		TotalAmount:   req.TotalAmount,
		PaymentMethod: req.PaymentMethod,
		Status:        model.SaleProvisional,
	}
	if sale.PaymentMethod == "" {
		sale.PaymentMethod = model.PaymentCash
	}

	var changes []stockChange
	err := s.tx.Run(ctx, func(tx *gorm.DB) error {
		changes = changes[:0]
		sale.Items = nil

		if err := s.saleRepo.CreateHeader(ctx, tx, sale); err != nil {
			return err
		}

		for _, line := range req.Items {
			product, err := s.productRepo.FindByID(ctx, tx, line.ProductID)
			if err != nil {
				if repository.IsNotFound(err) {
					return fmt.Errorf("%w: product with ID %s not found", ErrNotFound, line.ProductID)
				}
				return err
			}

			stock, err := s.inventoryRepo.FindByProductIDForUpdate(ctx, tx, product.ID)
			if err != nil && !repository.IsNotFound(err) {
				return err
			}
			if stock == nil || stock.Quantity < line.Quantity {
				return fmt.Errorf("%w: insufficient inventory for product %s", ErrInsufficientStock, product.Name)
			}

			item := model.SaleItem{
				SaleID:     sale.ID,
				ProductID:  product.ID,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
				TotalPrice: line.TotalPrice,
			}
			if err := s.saleRepo.CreateItem(ctx, tx, &item); err != nil {
				return err
			}

			stock.Apply(stock.Quantity - line.Quantity)
			if err := s.inventoryRepo.Save(ctx, tx, stock); err != nil {
				return err
			}

			sale.Items = append(sale.Items, item)
			changes = append(changes, stockChange{
				ProductID:   product.ID,
				ProductName: product.Name,
				Sold:        line.Quantity,
				NewQuantity: stock.Quantity,
				Status:      stock.Status,
			})
		}

		return s.saleRepo.MarkCommitted(ctx, tx, sale.ID)
	})
	if err != nil {
		log.Warn().Err(err).
			Str("user_id", userID.String()).
			Int("items", len(req.Items)).
			Msg("sale aborted")
		return nil, err
	}
	sale.Status = model.SaleCommitted

	if itemsTotal := sale.ItemsTotal(); !itemsTotal.Equal(sale.TotalAmount) {
		log.Warn().
			Str("sale_id", sale.ID.String()).
			Str("total_amount", sale.TotalAmount.String()).
			Str("items_total", itemsTotal.String()).
			Msg("sale total does not match line totals")
	}

	s.events.Publish(ws.Event{
		Type:    ws.EventSaleCreated,
		Action:  "sale_created",
		Data:    map[string]interface{}{"sale_id": sale.ID, "total_amount": sale.TotalAmount, "stock": changes},
		Message: fmt.Sprintf("sale of %d line(s) recorded", len(sale.Items)),
	})
	for _, ch := range changes {
		s.events.Publish(ws.Event{Type: ws.EventStockUpdate, Action: "sale_decrement", Data: ch})
	}

	stored, err := s.saleRepo.FindByID(ctx, sale.ID)
	if err != nil {
		// The sale is committed; fall back to what was written.
		log.Error().Err(err).Str("sale_id", sale.ID.String()).Msg("reload sale after commit")
		return sale, nil
	}
	return stored, nil
}

func (s *salesService) ListSales(ctx context.Context, query SaleQuery) ([]model.Sale, error) {
	if query.StartDate != nil && query.EndDate != nil && query.EndDate.Before(*query.StartDate) {
		return nil, fmt.Errorf("%w: end_date is before start_date", ErrValidation)
	}
	return s.saleRepo.List(ctx, query.Filter())
}

func (s *salesService) GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: sale not found", ErrNotFound)
		}
		return nil, err
	}
	return sale, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
