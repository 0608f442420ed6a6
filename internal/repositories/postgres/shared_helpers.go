package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/repositories"
)

// useDB prefers the caller-supplied transaction over the base handle.
func useDB(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// asRepoError maps gorm's sentinel not-found error onto the repository one.
func asRepoError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.ErrNotFound
	}
	return err
}

// applyPagination applies limit/offset with a sane default page size.
func applyPagination(q *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return q.Limit(limit).Offset(offset)
}
