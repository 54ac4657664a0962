package service

import (
	"context"
	"strings"

	"go-office-inventory/internal/model"
	"go-office-inventory/internal/repository"

	"github.com/google/uuid"
)

const historyLimit = 50

// TransactionService is the read side of the stock log
type TransactionService interface {
	List(ctx context.Context, q TransactionQuery) (*TransactionPage, error)
	MyHistory(ctx context.Context, userID uuid.UUID) ([]model.TransactionLogRow, error)
}

type TransactionQuery struct {
	Page   int
	Limit  int
	Type   string
	ItemID *uuid.UUID
}

type TransactionPage struct {
	Transactions []model.TransactionLogRow `json:"transactions"`
	TotalItems   int64                     `json:"total_items"`
	TotalPages   int                       `json:"total_pages"`
	CurrentPage  int                       `json:"current_page"`
}

type transactionService struct {
	repo repository.TransactionRepository
}

func NewTransactionService(repo repository.TransactionRepository) TransactionService {
	return &transactionService{repo: repo}
}

// parseTransactionType accepts an empty string as "any type"
func parseTransactionType(raw string) (model.TransactionType, error) {
	if raw == "" {
		return "", nil
	}
	t := model.TransactionType(strings.ToUpper(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", validationError("unknown transaction type '%s'", raw)
	}
	return t, nil
}

func (s *transactionService) List(ctx context.Context, q TransactionQuery) (*TransactionPage, error) {
	txType, err := parseTransactionType(q.Type)
	if err != nil {
		return nil, err
	}
	page, limit, offset := normalizePage(q.Page, q.Limit)

	rows, total, err := s.repo.List(ctx, repository.TransactionFilter{
		Type:   txType,
		ItemID: q.ItemID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	return &TransactionPage{
		Transactions: rows,
		TotalItems:   total,
		TotalPages:   totalPages(total, limit),
		CurrentPage:  page,
	}, nil
}

func (s *transactionService) MyHistory(ctx context.Context, userID uuid.UUID) ([]model.TransactionLogRow, error) {
	rows, _, err := s.repo.List(ctx, repository.TransactionFilter{
		UserID: &userID,
		Limit:  historyLimit,
	})
	return rows, err
}
