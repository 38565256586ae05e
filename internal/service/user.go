package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"flour-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// UserUpdate carries a partial edit; nil fields are left untouched.
type UserUpdate struct {
	Name        *string
	PhoneNumber *string
	FlourAmount *decimal.Decimal
}

type UserService struct {
	db     *gorm.DB
	logger *logrus.Logger
	now    Clock
}

func NewUserService(db *gorm.DB, logger *logrus.Logger, now Clock) *UserService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UserService{db: db, logger: logger, now: utcClock(now)}
}

// AddUser creates a customer with the given opening balance.
func (s *UserService) AddUser(ctx context.Context, name, phoneNumber string, flourAmount decimal.Decimal) (*models.User, error) {
	user := models.User{
		Name:        name,
		PhoneNumber: phoneNumber,
		FlourAmount: flourAmount,
		CreatedAt:   s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":      user.ID,
		"flour_amount": user.FlourAmount.String(),
	}).Debug("user created")
	return &user, nil
}

// UpdateUser overwrites only the fields present in upd.
func (s *UserService) UpdateUser(ctx context.Context, id string, upd UserUpdate) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &user, "user", id); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if upd.Name != nil {
			updates["name"] = *upd.Name
		}
		if upd.PhoneNumber != nil {
			updates["phone_number"] = *upd.PhoneNumber
		}
		if upd.FlourAmount != nil {
			updates["flour_amount"] = *upd.FlourAmount
		}
		if len(updates) == 0 {
			return nil
		}
		if upd.Name != nil || upd.PhoneNumber != nil {
			name, phone := user.Name, user.PhoneNumber
			if upd.Name != nil {
				name = *upd.Name
			}
			if upd.PhoneNumber != nil {
				phone = *upd.PhoneNumber
			}
			updates["search_key"] = models.UserSearchKey(name, phone)
		}

		if err := tx.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("update user %s: %w", id, err)
		}
		return first(tx, &user, "user", id)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes the user together with every order it owns. Orders go
// first, and both deletes share one transaction.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := first(tx, &user, "user", id); err != nil {
			return err
		}

		res := tx.Where("user_id = ?", id).Delete(&models.Order{})
		if res.Error != nil {
			return fmt.Errorf("delete orders of user %s: %w", id, res.Error)
		}
		removed = res.RowsAffected

		if err := tx.Where("id = ?", id).Delete(&models.User{}).Error; err != nil {
			return fmt.Errorf("delete user %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": id,
		"orders":  removed,
	}).Debug("user deleted")
	return nil
}

// GetUserByID returns nil without an error when no user has that id.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := first(s.db.WithContext(ctx), &user, "user", id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers pages through users newest first. A non-blank search term keeps
// users whose name or phone number contains it, ignoring case.
func (s *UserService) ListUsers(ctx context.Context, cursor *time.Time, limit int, search string) (Page[models.User], error) {
	query := s.db.WithContext(ctx).Model(&models.User{})

	if term := strings.TrimSpace(search); term != "" {
		like := "%" + escapeLike(strings.ToLower(term)) + "%"
		query = query.Where(`search_key LIKE ? ESCAPE '\'`, like)
	}

	return paginate[models.User](query, cursor, limit)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in s match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
