package service

import (
	"context"
	"strings"

	"go-office-inventory/internal/model"
	"go-office-inventory/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type ItemService interface {
	List(ctx context.Context, q ItemQuery) (*ItemPage, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Item, error)
	GetBySKU(ctx context.Context, sku string) (*model.Item, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateItemRequest, updatedBy string) (*model.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ItemQuery struct {
	Page   int
	Limit  int
	Search string
}

type ItemPage struct {
	Items       []model.ItemListRow `json:"items"`
	TotalItems  int64               `json:"total_items"`
	TotalPages  int                 `json:"total_pages"`
	CurrentPage int                 `json:"current_page"`
}

// UpdateItemRequest replaces the descriptive fields. SKU and quantity are not editable here.
type UpdateItemRequest struct {
	Name              string     `json:"name" validate:"required,notblank,max=255"`
	Description       string     `json:"description"`
	CategoryID        *uuid.UUID `json:"category_id"`
	LowStockThreshold int        `json:"low_stock_threshold" validate:"gte=0"`
	UnitOfMeasurement string     `json:"unit_of_measurement" validate:"required,notblank,max=20"`
}

type itemService struct {
	itemRepo     repository.ItemRepository
	categoryRepo repository.CategoryRepository
	txRepo       repository.TransactionRepository
	logger       *zap.Logger
}

func NewItemService(itemRepo repository.ItemRepository, categoryRepo repository.CategoryRepository, txRepo repository.TransactionRepository, logger *zap.Logger) ItemService {
	return &itemService{
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
		txRepo:       txRepo,
		logger:       logger,
	}
}

// normalizePage clamps page and limit and returns the row offset
func normalizePage(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit, (page - 1) * limit
}

func totalPages(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}

func (s *itemService) List(ctx context.Context, q ItemQuery) (*ItemPage, error) {
	page, limit, offset := normalizePage(q.Page, q.Limit)

	rows, total, err := s.itemRepo.List(ctx, repository.ItemFilter{
		Search: q.Search,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	return &ItemPage{
		Items:       rows,
		TotalItems:  total,
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
	}, nil
}

func (s *itemService) Get(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if isNotFound(err) {
		return nil, ErrItemNotFound
	}
	return item, err
}

func (s *itemService) GetBySKU(ctx context.Context, sku string) (*model.Item, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, validationError("sku is required")
	}
	item, err := s.itemRepo.FindBySKU(ctx, sku)
	if isNotFound(err) {
		return nil, ErrItemNotFound
	}
	return item, err
}

func (s *itemService) Update(ctx context.Context, id uuid.UUID, req *UpdateItemRequest, updatedBy string) (*model.Item, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if isNotFound(err) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
	}

	affected, err := s.itemRepo.UpdateDetails(ctx, id, map[string]interface{}{
		"name":                strings.TrimSpace(req.Name),
		"description":         req.Description,
		"category_id":         req.CategoryID,
		"low_stock_threshold": req.LowStockThreshold,
		"unit_of_measurement": strings.TrimSpace(req.UnitOfMeasurement),
		"updated_by":          updatedBy,
	})
	if err != nil {
		if isForeignKey(err) {
			// category deleted between the check and the write
			return nil, ErrCategoryNotFound
		}
		s.logger.Error("Failed to update item", zap.String("item_id", id.String()), zap.Error(err))
		return nil, err
	}
	if affected == 0 {
		return nil, ErrItemNotFound
	}

	return s.Get(ctx, id)
}

func (s *itemService) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := s.txRepo.CountByItem(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrItemHasTransactions
	}

	affected, err := s.itemRepo.Delete(ctx, id)
	if err != nil {
		if isForeignKey(err) {
			return ErrItemHasTransactions
		}
		s.logger.Error("Failed to delete item", zap.String("item_id", id.String()), zap.Error(err))
		return err
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	s.logger.Info("Item deleted", zap.String("item_id", id.String()))
	return nil
}
