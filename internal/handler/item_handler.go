package handler

import (
	"go-office-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ItemHandler struct {
	itemService  service.ItemService
	stockService service.StockService
}

func NewItemHandler(itemService service.ItemService, stockService service.StockService) *ItemHandler {
	return &ItemHandler{itemService: itemService, stockService: stockService}
}

// CreateItem creates an item and, for a positive quantity, its opening STOCK_IN
// POST /api/items
func (h *ItemHandler) CreateItem(c *fiber.Ctx) error {
	var req service.CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	result, err := h.stockService.CreateItemWithInitialStock(c.UserContext(), &req, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Item created", "data": result})
}

// ListItems returns a page of items
// GET /api/items?page=1&limit=10&search=
func (h *ItemHandler) ListItems(c *fiber.Ctx) error {
	page, err := h.itemService.List(c.UserContext(), service.ItemQuery{
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 10),
		Search: c.Query("search"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// GetItem returns a single item
// GET /api/items/:id
func (h *ItemHandler) GetItem(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	item, err := h.itemService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// GetItemBySKU resolves a scanned code
// GET /api/items/sku/:sku
func (h *ItemHandler) GetItemBySKU(c *fiber.Ctx) error {
	item, err := h.itemService.GetBySKU(c.UserContext(), c.Params("sku"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// UpdateItem edits descriptive fields
// PUT /api/items/:id
func (h *ItemHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var req service.UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	item, err := h.itemService.Update(c.UserContext(), id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item updated", "data": item})
}

// DeleteItem removes an item that has never been moved
// DELETE /api/items/:id
func (h *ItemHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	if err := h.itemService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item deleted"})
}
