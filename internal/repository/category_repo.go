package repository

import (
	"context"

	"github.com/saadmalik-333/business-insight-pos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryRepository is read-only for the API; Upsert exists for the seed command.
type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	Upsert(ctx context.Context, c *model.Category) error
}

type categoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var list []model.Category
	err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error
	return list, err
}

func (r *categoryRepository) Upsert(ctx context.Context, c *model.Category) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "updated_at"}),
	}).Create(c).Error
	if err != nil {
		return err
	}
	// ON CONFLICT keeps the existing id; reload so callers can reference it.
	return r.db.WithContext(ctx).Where("name = ?", c.Name).First(c).Error
}
