package handler

import (
	"github.com/shinerking/nexusflow/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	products service.ProductService
	stock    service.StockService
}

func NewInventoryHandler(products service.ProductService, stock service.StockService) *InventoryHandler {
	return &InventoryHandler{products: products, stock: stock}
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.products.Create(a, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	var req service.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.products.Update(a, id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.products.Delete(a, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	products, err := h.products.List(a)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

func (h *InventoryHandler) ImportProducts(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req struct {
		Rows []service.ImportProductRow `json:"rows"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	count, err := h.products.Import(a, req.Rows)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Products imported", "count": count})
}

func (h *InventoryHandler) ResetInventory(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.products.ResetInventory(a); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Inventory reset"})
}

func (h *InventoryHandler) CreateStockAdjustment(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req service.CreateAdjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.stock.CreateAdjustment(a, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(result)
}

func (h *InventoryHandler) GetStockLogs(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	logs, err := h.stock.ListLogs(a)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(logs)
}

func (h *InventoryHandler) GetStaffHistory(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	history, err := h.stock.StaffHistory(a)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(history)
}
