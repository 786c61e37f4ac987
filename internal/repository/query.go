package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/vuongngo/reactive-forum-api/internal/domain"
)

const maxListLimit = 100

// applyListOptions adds filters, offset and limit to a query.
// Column names are expected to be whitelisted by the caller.
func applyListOptions(db *gorm.DB, opts domain.ListOptions) (*gorm.DB, error) {
	for _, f := range opts.Filters {
		if len(f.Values) == 0 {
			return nil, fmt.Errorf("filter on %s has no value", f.Column)
		}
		switch f.Op {
		case domain.OpEq, "":
			db = db.Where(fmt.Sprintf("%s = ?", f.Column), f.Values[0])
		case domain.OpNe:
			db = db.Where(fmt.Sprintf("%s <> ?", f.Column), f.Values[0])
		case domain.OpGt:
			db = db.Where(fmt.Sprintf("%s > ?", f.Column), f.Values[0])
		case domain.OpGte:
			db = db.Where(fmt.Sprintf("%s >= ?", f.Column), f.Values[0])
		case domain.OpLt:
			db = db.Where(fmt.Sprintf("%s < ?", f.Column), f.Values[0])
		case domain.OpLte:
			db = db.Where(fmt.Sprintf("%s <= ?", f.Column), f.Values[0])
		case domain.OpIn:
			db = db.Where(fmt.Sprintf("%s IN ?", f.Column), f.Values)
		case domain.OpLike:
			db = db.Where(fmt.Sprintf("%s LIKE ?", f.Column), fmt.Sprintf("%%%v%%", f.Values[0]))
		default:
			return nil, fmt.Errorf("unsupported filter operator %q", f.Op)
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	return db.Offset(offset).Limit(limit), nil
}

// notFoundIfNoRows turns a zero-row conditional write into gorm.ErrRecordNotFound
func notFoundIfNoRows(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
