// Package repo holds the pieces shared by the per-table repositories. Every
// tenant table carries a contractor_id column.
package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB binds ctx to a fresh session. A nil ctx returns the raw connection.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Owned starts a query limited to one contractor's rows.
func (b Base) Owned(ctx context.Context, contractorID uuid.UUID) *gorm.DB {
	return b.DB(ctx).Scopes(ForContractor(contractorID))
}

// ForContractor is a gorm scope for queries built on a transaction handle.
func ForContractor(contractorID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("contractor_id = ?", contractorID)
	}
}

// RequireRow turns a write that matched nothing into gorm.ErrRecordNotFound.
func RequireRow(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
