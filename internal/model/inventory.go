package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockStatus string

const (
	StatusInStock    StockStatus = "in_stock"
	StatusLowStock   StockStatus = "low_stock"
	StatusOutOfStock StockStatus = "out_of_stock"
)

// LowStockThreshold is the quantity under which stock is reported as low.
const LowStockThreshold = 5

// StatusForQuantity derives the stock status from the on-hand quantity.
func StatusForQuantity(quantity int) StockStatus {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity < LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// InventoryItem is the on-hand stock row of a product (at most one per product).
type InventoryItem struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID   uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex" json:"product_id"`
	Product     *Product    `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Quantity    int         `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	Location    string      `gorm:"type:varchar(255)" json:"location"`
	Status      StockStatus `gorm:"type:varchar(20);not null;default:out_of_stock" json:"status"`
	LastUpdated time.Time   `gorm:"autoUpdateTime" json:"last_updated"`
}

// TableName keeps the original table name.
func (InventoryItem) TableName() string {
	return "inventory"
}

func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Apply sets the quantity and recomputes the status from it.
func (i *InventoryItem) Apply(quantity int) {
	i.Quantity = quantity
	i.Status = StatusForQuantity(quantity)
}
