package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "cash"
	PaymentCreditCard    PaymentMethod = "credit_card"
	PaymentDebitCard     PaymentMethod = "debit_card"
	PaymentBankTransfer  PaymentMethod = "bank_transfer"
	PaymentMobilePayment PaymentMethod = "mobile_payment"
)

type SaleStatus string

// A sale is provisional while its items are being applied and committed once
// every item landed. Aborted sales are never persisted.
const (
	SaleProvisional SaleStatus = "provisional"
	SaleCommitted   SaleStatus = "committed"
)

type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User           `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	CustomerName  string          `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerEmail string          `gorm:"type:varchar(255)" json:"customer_email"`
	CustomerPhone string          `gorm:"type:varchar(50)" json:"customer_phone"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null;default:cash" json:"payment_method"`
	Status        SaleStatus      `gorm:"type:varchar(20);not null;default:provisional" json:"status"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
	Items         []SaleItem      `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

type SaleItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SaleID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product    *Product        `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (i *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// ItemsTotal sums the line totals.
func (s *Sale) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.TotalPrice)
	}
	return total
}
