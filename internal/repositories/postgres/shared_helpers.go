package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/educloud-dashboard/internal/repositories"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// SharedHelpers contains common query building used by several repositories
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyTenantFilters applies the filter part of TenantFilters
func (h *SharedHelpers) ApplyTenantFilters(query *gorm.DB, filters repositories.TenantFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Plan != nil {
		query = query.Where("subscription_plan = ?", *filters.Plan)
	}
	return query
}

// ApplyTenantSort orders by a whitelisted column. Newest first by default.
func (h *SharedHelpers) ApplyTenantSort(query *gorm.DB, filters repositories.TenantFilters) *gorm.DB {
	column := "created_at"
	switch filters.SortBy {
	case "name", "students_count", "monthly_cost", "created_at":
		column = filters.SortBy
	}
	order := "DESC"
	if filters.SortOrder == "asc" {
		order = "ASC"
	}
	return query.Order(fmt.Sprintf("%s %s", column, order))
}

// ApplyPagination applies limit and offset. A negative limit disables paging.
func (h *SharedHelpers) ApplyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit < 0 {
		return query
	}
	if limit == 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query.Limit(limit)
}
