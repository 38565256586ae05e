package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is a flour order placed by a User for a logical date.
// DoneAt == nil means the order is still pending.
type Order struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	UserID      string          `gorm:"size:36;index;not null" json:"user_id"`
	FlourAmount decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"flour_amount"`
	Day         int             `gorm:"index:idx_order_date;not null" json:"day"`
	Month       int             `gorm:"index:idx_order_date;not null" json:"month"`
	Year        int             `gorm:"index:idx_order_date;not null" json:"year"`
	CreatedAt   time.Time       `gorm:"index;not null" json:"created_at"`
	DoneAt      *time.Time      `gorm:"index" json:"done_at"`

	// User is filled by preload and is nil when the owner no longer resolves.
	User *User `gorm:"constraint:OnDelete:CASCADE" json:"user"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func (o Order) IsDone() bool {
	return o.DoneAt != nil
}

func (o Order) GetCursor() time.Time {
	return o.CreatedAt
}
