package persistence

import (
	"strings"

	"github.com/gestor/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// sortableColumns is the allowlist of columns accepted in OrderBy.
// Anything else falls back to the default ordering.
var sortableColumns = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"number":       true,
	"order_date":   true,
	"due_date":     true,
	"opening_date": true,
	"occurred_at":  true,
	"status":       true,
	"total_value":  true,
}

// applyOrdering applies the filter's sort options with a created_at DESC default
func applyOrdering(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.OrderBy != "" && sortableColumns[filter.OrderBy] {
		direction := "ASC"
		if strings.EqualFold(filter.OrderDir, "desc") {
			direction = "DESC"
		}
		return query.Order(filter.OrderBy + " " + direction)
	}
	return query.Order("created_at DESC")
}

// applyPagination applies the filter's page and page size
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}
