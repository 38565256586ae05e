package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flour-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DateFilter selects a logical date. Missing parts default to today.
type DateFilter struct {
	Year  *int
	Month *int
	Day   *int
}

// DayMark flags a calendar day that still has pending orders.
type DayMark struct {
	Day     int   `json:"day"`
	Month   int   `json:"month"`
	Year    int   `json:"year"`
	Pending int64 `json:"pending"`
}

// OrderService owns the order lifecycle and keeps each owner's flour balance
// in step with the done/pending status of its orders.
//
// A pending order never touches the balance. Completing it debits the owner
// by the order amount; reopening or deleting a completed order credits the
// same amount back. Status and balance always change in one transaction.
type OrderService struct {
	db     *gorm.DB
	logger *logrus.Logger
	now    Clock
}

func NewOrderService(db *gorm.DB, logger *logrus.Logger, now Clock) *OrderService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &OrderService{db: db, logger: logger, now: utcClock(now)}
}

// AddOrder places a pending order for the user.
func (s *OrderService) AddOrder(ctx context.Context, userID string, flourAmount decimal.Decimal, day, month, year int) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := first(tx, &user, "user", userID); err != nil {
			return err
		}

		order = models.Order{
			UserID:      user.ID,
			FlourAmount: flourAmount,
			Day:         day,
			Month:       month,
			Year:        year,
			CreatedAt:   s.now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		order.User = &user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  userID,
	}).Debug("order created")
	return &order, nil
}

// ToggleDone flips the order between pending and done and moves the owner's
// balance by the order amount in the matching direction.
func (s *OrderService) ToggleDone(ctx context.Context, orderID string) (*models.Order, error) {
	var (
		order models.Order
		delta decimal.Decimal
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &order, "order", orderID); err != nil {
			return err
		}
		var user models.User
		if err := first(tx, &user, "user", order.UserID); err != nil {
			return fmt.Errorf("owner of order %s: %w", orderID, err)
		}

		var doneAt *time.Time
		if order.IsDone() {
			delta = order.FlourAmount
		} else {
			now := s.now()
			doneAt = &now
			delta = order.FlourAmount.Neg()
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Update("done_at", doneAt).Error; err != nil {
			return fmt.Errorf("update order %s: %w", order.ID, err)
		}
		if err := adjustBalance(tx, &user, delta); err != nil {
			return err
		}

		order.DoneAt = doneAt
		order.User = &user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"done":     order.IsDone(),
		"delta":    delta.String(),
	}).Debug("order toggled")
	return &order, nil
}

// DeleteOrder removes the order. A completed order first gives its amount
// back to the owner, if the owner still exists.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID string) error {
	var credited bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := first(tx, &order, "order", orderID); err != nil {
			return err
		}

		if order.IsDone() {
			var user models.User
			err := first(tx, &user, "user", order.UserID)
			switch {
			case err == nil:
				if err := adjustBalance(tx, &user, order.FlourAmount); err != nil {
					return err
				}
				credited = true
			case errors.Is(err, ErrNotFound):
				s.logger.WithFields(logrus.Fields{
					"order_id": order.ID,
					"user_id":  order.UserID,
				}).Warn("owner missing, deleting completed order without credit")
			default:
				return err
			}
		}

		if err := tx.Where("id = ?", order.ID).Delete(&models.Order{}).Error; err != nil {
			return fmt.Errorf("delete order %s: %w", order.ID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": orderID,
		"credited": credited,
	}).Debug("order deleted")
	return nil
}

// GetPendingFlourAmountByUser sums the amounts of the user's pending orders.
func (s *OrderService) GetPendingFlourAmountByUser(ctx context.Context, userID string) (decimal.Decimal, error) {
	total := decimal.Zero
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := first(tx, &user, "user", userID); err != nil {
			return err
		}

		var amounts []decimal.Decimal
		if err := tx.Model(&models.Order{}).
			Where("user_id = ? AND done_at IS NULL", userID).
			Pluck("flour_amount", &amounts).Error; err != nil {
			return fmt.Errorf("pending orders of user %s: %w", userID, err)
		}
		for _, a := range amounts {
			total = total.Add(a)
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// GetOrders pages through the orders of one logical date, newest first.
func (s *OrderService) GetOrders(ctx context.Context, date DateFilter, cursor *time.Time, limit int) (Page[models.Order], error) {
	year, month, day := today(s.now())
	if date.Year != nil {
		year = *date.Year
	}
	if date.Month != nil {
		month = *date.Month
	}
	if date.Day != nil {
		day = *date.Day
	}

	// page and preload read one snapshot
	var page Page[models.Order]
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.Order{}).
			Preload("User").
			Where("year = ? AND month = ? AND day = ?", year, month, day)

		p, err := paginate[models.Order](query, cursor, limit)
		if err != nil {
			return err
		}
		page = p
		return nil
	})
	return page, err
}

// GetOrdersByUser pages through one user's orders, newest first.
func (s *OrderService) GetOrdersByUser(ctx context.Context, userID string, cursor *time.Time, limit int) (Page[models.Order], error) {
	var page Page[models.Order]
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := first(tx, &user, "user", userID); err != nil {
			return err
		}

		query := tx.Model(&models.Order{}).Preload("User").Where("user_id = ?", userID)
		p, err := paginate[models.Order](query, cursor, limit)
		if err != nil {
			return err
		}
		page = p
		return nil
	})
	return page, err
}

// GetOrderDaysInWeek reports which of the seven days starting at weekStart
// have at least one pending order. Completed orders are not counted.
func (s *OrderService) GetOrderDaysInWeek(ctx context.Context, weekStart time.Time) ([]DayMark, error) {
	start := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())

	marks := make([]DayMark, 0, 7)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < 7; i++ {
			d := start.AddDate(0, 0, i)
			mark := DayMark{Day: d.Day(), Month: int(d.Month()), Year: d.Year()}

			if err := tx.Model(&models.Order{}).
				Where("year = ? AND month = ? AND day = ? AND done_at IS NULL", mark.Year, mark.Month, mark.Day).
				Count(&mark.Pending).Error; err != nil {
				return fmt.Errorf("count orders on %s: %w", d.Format("2006-01-02"), err)
			}
			if mark.Pending > 0 {
				marks = append(marks, mark)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return marks, nil
}

// adjustBalance adds delta to the user's balance inside tx and updates user
// in place.
func adjustBalance(tx *gorm.DB, user *models.User, delta decimal.Decimal) error {
	balance := user.FlourAmount.Add(delta)
	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("flour_amount", balance).Error; err != nil {
		return fmt.Errorf("adjust balance of user %s: %w", user.ID, err)
	}
	user.FlourAmount = balance
	return nil
}
