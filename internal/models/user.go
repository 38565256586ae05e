package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User is a customer holding a flour balance. The balance is a running
// credit/debit tally and may go negative.
type User struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	Name        string          `gorm:"size:128;not null" json:"name"`
	PhoneNumber string          `gorm:"size:32;not null" json:"phone_number"`
	FlourAmount decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"flour_amount"`
	CreatedAt   time.Time       `gorm:"index;not null" json:"created_at"`

	// SearchKey is the lowercased name and phone number, newline separated so
	// a term cannot match across the two. SQLite LIKE only folds ASCII case.
	SearchKey string `gorm:"size:192;index" json:"-"`
}

// UserSearchKey builds the value stored in User.SearchKey.
func UserSearchKey(name, phoneNumber string) string {
	return strings.ToLower(name + "\n" + phoneNumber)
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.SearchKey = UserSearchKey(u.Name, u.PhoneNumber)
	return nil
}

// GetCursor returns the pagination key.
func (u User) GetCursor() time.Time {
	return u.CreatedAt
}
