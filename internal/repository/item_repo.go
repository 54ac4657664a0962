package repository

import (
	"context"
	"strings"

	"go-office-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemRepository interface {
	// Stock-affecting methods take the transaction handle they must run on
	Create(tx *gorm.DB, item *model.Item) error
	AdjustQuantity(tx *gorm.DB, id uuid.UUID, delta int, updatedBy string) (int64, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Item, error)
	FindBySKUTx(tx *gorm.DB, sku string) (*model.Item, error)

	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	FindBySKU(ctx context.Context, sku string) (*model.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]model.ItemListRow, int64, error)
	UpdateDetails(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// ItemFilter drives the paginated item list
type ItemFilter struct {
	Search string
	Limit  int
	Offset int
}

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepository {
	return &itemRepo{db}
}

func (r *itemRepo) Create(tx *gorm.DB, item *model.Item) error {
	return tx.Create(item).Error
}

// AdjustQuantity applies delta in one conditional UPDATE. A negative delta only
// matches while current_quantity can absorb it, so the sufficiency check and the
// write share the row lock. Zero rows affected means missing item or short stock.
func (r *itemRepo) AdjustQuantity(tx *gorm.DB, id uuid.UUID, delta int, updatedBy string) (int64, error) {
	floor := 0
	if delta < 0 {
		floor = -delta
	}
	res := tx.Model(&model.Item{}).
		Where("id = ? AND current_quantity >= ?", id, floor).
		Updates(map[string]interface{}{
			"current_quantity": gorm.Expr("current_quantity + ?", delta),
			"updated_by":       updatedBy,
		})
	return res.RowsAffected, res.Error
}

func (r *itemRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := tx.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) FindBySKUTx(tx *gorm.DB, sku string) (*model.Item, error) {
	var item model.Item
	if err := tx.First(&item, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).Preload("Category").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) FindBySKU(ctx context.Context, sku string) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).Preload("Category").First(&item, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) List(ctx context.Context, filter ItemFilter) ([]model.ItemListRow, int64, error) {
	base := r.db.WithContext(ctx).Table("items AS i")
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		base = base.Where("(LOWER(i.name) LIKE ? OR LOWER(i.sku) LIKE ?)", pattern, pattern)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []model.ItemListRow{}
	err := base.Session(&gorm.Session{}).
		Select("i.*, c.name AS category_name").
		Joins("LEFT JOIN categories c ON i.category_id = c.id").
		Order("i.name ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *itemRepo) UpdateDetails(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Item{}).Where("id = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *itemRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Item{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
