package utils

import (
	"context"
	"errors"

	"github.com/contentlens/insight_backend/config"
)

// ValidateResourceId checks an id exists, optionally scoped to an owning user.
// Returns ErrorRecordNotFound when missing.
func ValidateResourceId[T any](ctx context.Context, userId string, id interface{}) error {
	count, err := ResourceCountWhere[T](ctx, userId, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}
	return nil
}

// ValidateUnique rejects when another row (excluding exceptId) holds the value.
func ValidateUnique[T any](ctx context.Context, userId string, column string, value interface{}, exceptId interface{}) error {
	var count int64
	var err error
	if exceptId == nil || exceptId == "" {
		count, err = ResourceCountWhere[T](ctx, userId, column+" = ?", value)
	} else {
		count, err = ResourceCountWhere[T](ctx, userId, column+" = ? AND NOT id = ?", value, exceptId)
	}
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("duplicate " + column)
	}
	return nil
}

// ResourceCountWhere counts rows, adding WHERE user_id = ? when userId is set.
// userId is blank for shared tables (companies) and operator tooling.
func ResourceCountWhere[T any](ctx context.Context, userId string, condition string, value ...interface{}) (int64, error) {
	var model T

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&model)
	var count int64
	if userId != "" {
		dbCtx.Where("user_id = ?", userId)
	}
	dbCtx.Where(condition, value...)
	if err := dbCtx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
