package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-office-inventory/internal/model"
	"go-office-inventory/internal/repository"
	"go-office-inventory/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EventPublisher receives committed stock changes
type EventPublisher interface {
	Publish(ctx context.Context, event ws.Event)
}

// StockService applies stock-affecting operations. Each call is one database
// transaction: the quantity update and the log row commit together or not at all.
type StockService interface {
	StockIn(ctx context.Context, req StockRequest) (*StockResult, error)
	Distribute(ctx context.Context, req StockRequest) (*StockResult, error)
	Return(ctx context.Context, req StockRequest) (*StockResult, error)
	CreateItemWithInitialStock(ctx context.Context, req *CreateItemRequest, userID uuid.UUID) (*StockResult, error)
}

// StockRequest carries an already authenticated user and the business payload
type StockRequest struct {
	ItemID   uuid.UUID     `json:"item_id"`
	Quantity int           `json:"quantity"`
	UserID   uuid.UUID     `json:"-"`
	Details  model.Details `json:"details"`
}

// StockResult is the item as committed plus the log row that justified it.
// Transaction is nil for an item created with zero stock.
type StockResult struct {
	Item        *model.Item        `json:"item"`
	Transaction *model.Transaction `json:"transaction,omitempty"`
}

type CreateItemRequest struct {
	SKU               string     `json:"sku" validate:"required,notblank,max=50"`
	Name              string     `json:"name" validate:"required,notblank,max=255"`
	Description       string     `json:"description"`
	CategoryID        *uuid.UUID `json:"category_id"`
	InitialQuantity   int        `json:"quantity" validate:"gte=0"`
	LowStockThreshold int        `json:"low_stock_threshold" validate:"gte=0"`
	UnitOfMeasurement string     `json:"unit_of_measurement" validate:"required,notblank,max=20"`
}

type stockService struct {
	db           *gorm.DB
	itemRepo     repository.ItemRepository
	txRepo       repository.TransactionRepository
	categoryRepo repository.CategoryRepository
	events       EventPublisher
	logger       *zap.Logger
}

func NewStockService(db *gorm.DB, itemRepo repository.ItemRepository, txRepo repository.TransactionRepository, categoryRepo repository.CategoryRepository, events EventPublisher, logger *zap.Logger) StockService {
	return &stockService{
		db:           db,
		itemRepo:     itemRepo,
		txRepo:       txRepo,
		categoryRepo: categoryRepo,
		events:       events,
		logger:       logger,
	}
}

func (s *stockService) StockIn(ctx context.Context, req StockRequest) (*StockResult, error) {
	return s.apply(ctx, model.TxStockIn, req)
}

func (s *stockService) Distribute(ctx context.Context, req StockRequest) (*StockResult, error) {
	return s.apply(ctx, model.TxDistribution, req)
}

func (s *stockService) Return(ctx context.Context, req StockRequest) (*StockResult, error) {
	return s.apply(ctx, model.TxReturn, req)
}

func (s *stockService) apply(ctx context.Context, txType model.TransactionType, req StockRequest) (*StockResult, error) {
	if req.ItemID == uuid.Nil {
		return nil, validationError("item_id is required")
	}
	if req.Quantity <= 0 {
		return nil, validationError("quantity must be a positive integer")
	}

	delta := txType.Sign() * req.Quantity
	logger := s.logger.With(
		zap.String("operation", strings.ToLower(string(txType))),
		zap.String("item_id", req.ItemID.String()),
		zap.String("user_id", req.UserID.String()),
		zap.Int("quantity_change", delta),
	)

	var result StockResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := s.itemRepo.AdjustQuantity(tx, req.ItemID, delta, req.UserID.String())
		if err != nil {
			return err
		}
		if affected == 0 {
			// Either the row is gone or the guard rejected the decrement
			item, err := s.itemRepo.FindByIDTx(tx, req.ItemID)
			if isNotFound(err) {
				return ErrItemNotFound
			}
			if err != nil {
				return err
			}
			return fmt.Errorf("%w: available %d, requested %d", ErrInsufficientStock, item.CurrentQuantity, req.Quantity)
		}

		entry := &model.Transaction{
			ItemID:          req.ItemID,
			UserID:          req.UserID,
			TransactionType: txType,
			QuantityChange:  delta,
			Details:         req.Details,
		}
		if err := s.txRepo.Create(tx, entry); err != nil {
			return err
		}

		item, err := s.itemRepo.FindByIDTx(tx, req.ItemID)
		if err != nil {
			return err
		}
		result = StockResult{Item: item, Transaction: entry}
		return nil
	})
	if err != nil {
		err = translateStockError(err)
		if errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrNotFound) {
			logger.Info("Stock operation rejected", zap.Error(err))
		} else {
			logger.Error("Stock operation failed, rolled back", zap.Error(err))
		}
		return nil, err
	}

	logger.Info("Stock operation committed", zap.Int("current_quantity", result.Item.CurrentQuantity))
	s.publish(ctx, "transaction_created", &result, req.UserID)
	return &result, nil
}

func (s *stockService) CreateItemWithInitialStock(ctx context.Context, req *CreateItemRequest, userID uuid.UUID) (*StockResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	logger := s.logger.With(
		zap.String("operation", "create_item"),
		zap.String("sku", req.SKU),
		zap.String("user_id", userID.String()),
		zap.Int("initial_quantity", req.InitialQuantity),
	)

	sku := strings.TrimSpace(req.SKU)

	var result StockResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.CategoryID != nil {
			if _, err := s.categoryRepo.FindByIDTx(tx, *req.CategoryID); err != nil {
				if isNotFound(err) {
					return ErrCategoryNotFound
				}
				return err
			}
		}

		// The unique index is the real guard, this only yields a friendlier error
		if _, err := s.itemRepo.FindBySKUTx(tx, sku); err == nil {
			return ErrDuplicateSKU
		} else if !isNotFound(err) {
			return err
		}

		item := &model.Item{
			SKU:               sku,
			Name:              strings.TrimSpace(req.Name),
			Description:       req.Description,
			CategoryID:        req.CategoryID,
			CurrentQuantity:   req.InitialQuantity,
			LowStockThreshold: req.LowStockThreshold,
			UnitOfMeasurement: strings.TrimSpace(req.UnitOfMeasurement),
		}
		item.CreatedBy = userID.String()
		item.UpdatedBy = userID.String()
		if err := s.itemRepo.Create(tx, item); err != nil {
			if isDuplicate(err) {
				return ErrDuplicateSKU
			}
			return err
		}
		result.Item = item

		if req.InitialQuantity > 0 {
			entry := &model.Transaction{
				ItemID:          item.ID,
				UserID:          userID,
				TransactionType: model.TxStockIn,
				QuantityChange:  req.InitialQuantity,
				Details:         model.Details{"note": "Initial stock"},
			}
			if err := s.txRepo.Create(tx, entry); err != nil {
				return err
			}
			result.Transaction = entry
		}
		return nil
	})
	if err != nil {
		err = translateStockError(err)
		logger.Warn("Item creation rolled back", zap.Error(err))
		return nil, err
	}

	logger.Info("Item created", zap.String("item_id", result.Item.ID.String()))
	s.publish(ctx, "item_created", &result, userID)
	return &result, nil
}

// publish runs only after commit, so clients never see a rolled back change
func (s *stockService) publish(ctx context.Context, action string, result *StockResult, userID uuid.UUID) {
	if s.events == nil {
		return
	}
	message := fmt.Sprintf("%s '%s' now at %d %s", action, result.Item.Name, result.Item.CurrentQuantity, result.Item.UnitOfMeasurement)
	s.events.Publish(context.WithoutCancel(ctx), ws.Event{
		Type:        ws.EventStockUpdate,
		Action:      action,
		Item:        result.Item,
		Transaction: result.Transaction,
		UserID:      userID.String(),
		Message:     message,
	})
}

// translateStockError keeps taxonomy errors and maps store constraint errors onto it
func translateStockError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict),
		errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrValidation):
		return err
	case isDuplicate(err):
		return ErrDuplicateSKU
	case isForeignKey(err):
		// item and category were verified inside the transaction, so the acting user is the dangling reference
		return fmt.Errorf("acting %w", ErrUserNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("stock operation failed: %w", err)
}
