package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// List returns every row of T ordered by id.
func List[T any](ctx context.Context, db *gorm.DB) ([]T, error) {
	rows := make([]T, 0)
	if err := db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Get loads one row of T by primary key.
func Get[T any](ctx context.Context, db *gorm.DB, id int64) (*T, error) {
	var rec T
	if err := db.WithContext(ctx).Take(&rec, id).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// Create inserts rec and fills its generated id.
func Create[T any](ctx context.Context, db *gorm.DB, rec *T) error {
	return translate(db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error)
}

// Replace overwrites every column of row id with the values in rec, zero values
// included. It returns ErrNotFound when the row does not exist.
func Replace[T any](ctx context.Context, db *gorm.DB, id int64, rec *T, omit ...string) error {
	omit = append(omit, "id", "created_at", clause.Associations)
	res := db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Select("*").
		Omit(omit...).
		Updates(rec)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes row id of T. It returns ErrNotFound when nothing was deleted.
func Delete[T any](ctx context.Context, db *gorm.DB, id int64) error {
	res := db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
