package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	CategoryID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	Category       *Category       `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	Description    string          `gorm:"type:text" json:"description"`
	ModelNumber    string          `gorm:"type:varchar(100)" json:"model_number"`
	Specifications string          `gorm:"type:text" json:"specifications"`
	CostPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"cost_price"`
	SellingPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"selling_price"`
	Barcode        *string         `gorm:"type:varchar(100);uniqueIndex" json:"barcode"`
	ImageURL       string          `gorm:"type:varchar(512)" json:"image_url"`
}

// ProductWithStock is a product joined with its inventory row. A product
// without a row reports zero stock and out_of_stock.
type ProductWithStock struct {
	Product
	CurrentStock int         `json:"current_stock"`
	Status       StockStatus `json:"status"`
}

// WithStock joins p with item; item may be nil.
func (p Product) WithStock(item *InventoryItem) ProductWithStock {
	if item == nil {
		return ProductWithStock{Product: p, CurrentStock: 0, Status: StatusOutOfStock}
	}
	return ProductWithStock{Product: p, CurrentStock: item.Quantity, Status: item.Status}
}
