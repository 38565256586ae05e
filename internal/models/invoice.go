package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is one line of the daily invoice ledger.
type Invoice struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	Year        int             `gorm:"index:idx_invoice_date;not null" json:"year"`
	Month       int             `gorm:"index:idx_invoice_date;not null" json:"month"`
	Day         int             `gorm:"index:idx_invoice_date;not null" json:"day"`
	Time        *string         `gorm:"size:32" json:"time,omitempty"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	CreatedAt   time.Time       `gorm:"index;not null" json:"created_at"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// Total is price times quantity; a quantity below one counts as one.
func (i Invoice) Total() decimal.Decimal {
	q := i.Quantity
	if q < 1 {
		q = 1
	}
	return i.Price.Mul(decimal.NewFromInt(int64(q)))
}
