package handler

import (
	"context"

	"go-office-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TransactionHandler struct {
	stockService service.StockService
	txService    service.TransactionService
}

func NewTransactionHandler(stockService service.StockService, txService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{stockService: stockService, txService: txService}
}

type stockOp func(ctx context.Context, req service.StockRequest) (*service.StockResult, error)

func (h *TransactionHandler) handleStock(c *fiber.Ctx, op stockOp, message string) error {
	var req service.StockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	req.UserID = userID

	result, err := op(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": message, "data": result})
}

// StockIn records received goods
// POST /api/transactions/stock-in
func (h *TransactionHandler) StockIn(c *fiber.Ctx) error {
	return h.handleStock(c, h.stockService.StockIn, "Stock added")
}

// Distribute hands goods out
// POST /api/transactions/distribute
func (h *TransactionHandler) Distribute(c *fiber.Ctx) error {
	return h.handleStock(c, h.stockService.Distribute, "Stock distributed")
}

// Return takes goods back
// POST /api/transactions/return
func (h *TransactionHandler) Return(c *fiber.Ctx) error {
	return h.handleStock(c, h.stockService.Return, "Stock returned")
}

// ListTransactions returns the log, newest first
// GET /api/transactions?page=1&limit=10&type=DISTRIBUTION&item_id=
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	q := service.TransactionQuery{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 10),
		Type:  c.Query("type"),
	}
	if raw := c.Query("item_id"); raw != "" {
		itemID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
		}
		q.ItemID = &itemID
	}

	page, err := h.txService.List(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// MyHistory returns the caller's own transactions
// GET /api/transactions/my-history
func (h *TransactionHandler) MyHistory(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	rows, err := h.txService.MyHistory(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}
