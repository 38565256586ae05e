package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when an id does not resolve to a record of the
// expected kind. It is always wrapped with the entity and id.
var ErrNotFound = errors.New("record not found")

func notFound(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
}

// first loads one record by primary key, mapping gorm's not-found error.
func first(tx *gorm.DB, dest any, entity, id string) error {
	err := tx.Where("id = ?", id).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(entity, id)
	}
	if err != nil {
		return fmt.Errorf("load %s %s: %w", entity, id, err)
	}
	return nil
}
