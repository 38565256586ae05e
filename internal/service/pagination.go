package service

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

const DefaultPageSize = 20

// Page is one slice of a createdAt-descending listing. NextCursor is nil when
// the page came back short, i.e. there is nothing left to fetch.
type Page[T any] struct {
	Items      []T        `json:"items"`
	NextCursor *time.Time `json:"next_cursor"`
}

type cursorNode interface {
	GetCursor() time.Time
}

// paginate applies the cursor bound, newest-first order and limit to an
// already filtered query.
//
// The bound is a strict createdAt < cursor. Records sharing the boundary
// timestamp with the last row of a page are not returned on the next page.
func paginate[T cursorNode](query *gorm.DB, cursor *time.Time, limit int) (Page[T], error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if cursor != nil {
		query = query.Where("created_at < ?", cursor.UTC())
	}

	items := make([]T, 0, limit)
	if err := query.Order("created_at DESC").Limit(limit).Find(&items).Error; err != nil {
		return Page[T]{}, fmt.Errorf("fetch page: %w", err)
	}

	page := Page[T]{Items: items}
	if len(items) == limit {
		next := items[len(items)-1].GetCursor()
		page.NextCursor = &next
	}
	return page, nil
}
