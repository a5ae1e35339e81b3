package persistence

import (
	"strings"

	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]string, defaultField string) string {
	if column, ok := allowedFields[strings.ToLower(strings.TrimSpace(sortField))]; ok {
		return column
	}
	return defaultField
}

// ProductSortFields maps public sort keys onto product columns
var ProductSortFields = map[string]string{
	"price":      "price",
	"name":       "name",
	"created_at": "created_at",
	"stock":      "stock",
}

// paginate applies page and page size, clamped the same way shared.Filter is
func paginate(query *gorm.DB, page, pageSize int) *gorm.DB {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}

// likePattern builds a lower-cased LIKE pattern with wildcards escaped
func likePattern(keyword string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(keyword))) + "%"
}
