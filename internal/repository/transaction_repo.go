package repository

import (
	"context"
	"time"

	"go-office-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	// Create appends a log row on the caller's transaction handle
	Create(tx *gorm.DB, t *model.Transaction) error
	CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error)
	List(ctx context.Context, filter TransactionFilter) ([]model.TransactionLogRow, int64, error)
	ListForReport(ctx context.Context, filter TransactionFilter) ([]model.TransactionLogRow, error)
}

// TransactionFilter narrows the log. Zero values mean "no constraint".
type TransactionFilter struct {
	Type   model.TransactionType
	Types  []model.TransactionType
	ItemID *uuid.UUID
	UserID *uuid.UUID
	From   *time.Time
	Before *time.Time
	Limit  int
	Offset int
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(tx *gorm.DB, t *model.Transaction) error {
	return tx.Create(t).Error
}

func (r *transactionRepo) CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).Where("item_id = ?", itemID).Count(&count).Error
	return count, err
}

func (r *transactionRepo) filtered(ctx context.Context, f TransactionFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Table("transactions AS t")
	if f.Type != "" {
		q = q.Where("t.transaction_type = ?", f.Type)
	}
	if len(f.Types) > 0 {
		q = q.Where("t.transaction_type IN ?", f.Types)
	}
	if f.ItemID != nil {
		q = q.Where("t.item_id = ?", *f.ItemID)
	}
	if f.UserID != nil {
		q = q.Where("t.user_id = ?", *f.UserID)
	}
	if f.From != nil {
		q = q.Where("t.created_at >= ?", *f.From)
	}
	if f.Before != nil {
		q = q.Where("t.created_at < ?", *f.Before)
	}
	return q
}

func (r *transactionRepo) selectLog(q *gorm.DB) *gorm.DB {
	return q.Select(`t.id, t.item_id, t.user_id, t.transaction_type, t.quantity_change, t.details, t.created_at,
			i.name AS item_name, u.full_name AS user_name`).
		Joins("JOIN items i ON t.item_id = i.id").
		Joins("JOIN users u ON t.user_id = u.id").
		Order("t.created_at DESC, t.id DESC")
}

func (r *transactionRepo) List(ctx context.Context, f TransactionFilter) ([]model.TransactionLogRow, int64, error) {
	base := r.filtered(ctx, f)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []model.TransactionLogRow{}
	q := r.selectLog(base.Session(&gorm.Session{}))
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *transactionRepo) ListForReport(ctx context.Context, f TransactionFilter) ([]model.TransactionLogRow, error) {
	rows := []model.TransactionLogRow{}
	err := r.selectLog(r.filtered(ctx, f)).Scan(&rows).Error
	return rows, err
}
