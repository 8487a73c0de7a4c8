package gorm

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/yachtexcel/yachtexcel/pkg/db"
	"github.com/yachtexcel/yachtexcel/pkg/server/store"
)

// conn scopes the connection to the request context, keeping the cipher
// that model hooks need.
func conn(gdb *gorm.DB, ctx context.Context) *gorm.DB {
	return db.WithContext(gdb, ctx)
}

// translate maps driver errors onto the store sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return store.ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return store.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// list runs a counted, paged query.
func list[T any](q *gorm.DB, page store.Page, order string) (store.List[T], error) {
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return store.List[T]{}, err
	}

	items := []T{}
	if err := q.Order(order).Limit(page.Limit).Offset(page.Offset).Find(&items).Error; err != nil {
		return store.List[T]{}, err
	}
	return store.List[T]{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

// first loads the record with the given id into dest.
func first(tx *gorm.DB, dest any, id string) error {
	return translate(tx.Where("id = ?", id).First(dest).Error)
}

// deleteByID deletes the record with the given id, or returns ErrNotFound.
func deleteByID(tx *gorm.DB, value any, id string) error {
	res := tx.Where("id = ?", id).Delete(value)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// yachtExists returns ErrNotFound if the yacht doesn't exist.
func yachtExists(tx *gorm.DB, yachtID string) error {
	var n int64
	if err := tx.Table("yachts").Where("id = ?", yachtID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
