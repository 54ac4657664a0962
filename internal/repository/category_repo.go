package repository

import (
	"context"

	"go-office-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	FindAll(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Category, error)
	Create(ctx context.Context, category *model.Category) error
	Rename(ctx context.Context, id uuid.UUID, name, updatedBy string) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) FindAll(ctx context.Context) ([]model.Category, error) {
	categories := []model.Category{}
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	if err := tx.First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepo) Rename(ctx context.Context, id uuid.UUID, name, updatedBy string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "updated_by": updatedBy})
	return res.RowsAffected, res.Error
}

// Delete removes the category. Items referencing it keep existing with a NULL category_id.
func (r *categoryRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Category{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
