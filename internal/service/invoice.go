package service

import (
	"context"
	"fmt"

	"flour-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type InvoiceInput struct {
	Year        int
	Month       int
	Day         int
	Title       string
	Price       decimal.Decimal
	Description *string
	Quantity    *int // defaults to 1
	Time        *string
}

// InvoiceUpdate carries a partial edit; nil fields are left untouched.
type InvoiceUpdate struct {
	Year        *int
	Month       *int
	Day         *int
	Time        *string
	Title       *string
	Description *string
	Price       *decimal.Decimal
	Quantity    *int
}

type InvoiceService struct {
	db     *gorm.DB
	logger *logrus.Logger
	now    Clock
}

func NewInvoiceService(db *gorm.DB, logger *logrus.Logger, now Clock) *InvoiceService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &InvoiceService{db: db, logger: logger, now: utcClock(now)}
}

func (s *InvoiceService) AddInvoice(ctx context.Context, in InvoiceInput) (*models.Invoice, error) {
	quantity := 1
	if in.Quantity != nil {
		quantity = *in.Quantity
	}

	invoice := models.Invoice{
		Year:        in.Year,
		Month:       in.Month,
		Day:         in.Day,
		Time:        in.Time,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    quantity,
		CreatedAt:   s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&invoice).Error; err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	s.logger.WithField("invoice_id", invoice.ID).Debug("invoice created")
	return &invoice, nil
}

// UpdateInvoice overwrites only the fields present in upd.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id string, upd InvoiceUpdate) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &invoice, "invoice", id); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if upd.Year != nil {
			updates["year"] = *upd.Year
		}
		if upd.Month != nil {
			updates["month"] = *upd.Month
		}
		if upd.Day != nil {
			updates["day"] = *upd.Day
		}
		if upd.Time != nil {
			updates["time"] = *upd.Time
		}
		if upd.Title != nil {
			updates["title"] = *upd.Title
		}
		if upd.Description != nil {
			updates["description"] = *upd.Description
		}
		if upd.Price != nil {
			updates["price"] = *upd.Price
		}
		if upd.Quantity != nil {
			updates["quantity"] = *upd.Quantity
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&models.Invoice{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("update invoice %s: %w", id, err)
		}
		return first(tx, &invoice, "invoice", id)
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// DeleteInvoice removes the invoice. Unlike users and orders, a missing id
// is not an error.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Invoice{})
	if res.Error != nil {
		return fmt.Errorf("delete invoice %s: %w", id, res.Error)
	}
	if res.RowsAffected > 0 {
		s.logger.WithField("invoice_id", id).Debug("invoice deleted")
	}
	return nil
}

// GetInvoices lists one day's invoices, newest first. day defaults to
// today's day of the month.
func (s *InvoiceService) GetInvoices(ctx context.Context, year, month int, day *int) ([]models.Invoice, error) {
	d := s.dayOrToday(day)

	invoices := make([]models.Invoice, 0)
	if err := s.db.WithContext(ctx).
		Where("year = ? AND month = ? AND day = ?", year, month, d).
		Order("created_at DESC").
		Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}

// GetDaysWithInvoices returns the ascending, distinct days of the month that
// have at least one invoice.
func (s *InvoiceService) GetDaysWithInvoices(ctx context.Context, year, month int) ([]int, error) {
	days := make([]int, 0)
	if err := s.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("year = ? AND month = ?", year, month).
		Distinct().
		Order("day ASC").
		Pluck("day", &days).Error; err != nil {
		return nil, fmt.Errorf("invoice days: %w", err)
	}
	return days, nil
}

// GetTotalAmountForDate sums price × quantity over one day's invoices.
func (s *InvoiceService) GetTotalAmountForDate(ctx context.Context, year, month int, day *int) (decimal.Decimal, error) {
	invoices, err := s.GetInvoices(ctx, year, month, day)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, inv := range invoices {
		total = total.Add(inv.Total())
	}
	return total, nil
}

func (s *InvoiceService) dayOrToday(day *int) int {
	if day != nil {
		return *day
	}
	_, _, d := today(s.now())
	return d
}
