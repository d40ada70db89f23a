package handler

import (
	"strings"

	"github.com/nig3l/OPTACOMP-InventorySystems/internal/repository"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	categories service.CategoryService
	service    service.InventoryService
}

func NewInventoryHandler(categories service.CategoryService, s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{categories: categories, service: s}
}

// ── Categories ────────────────────────────────────────────────────────────────

func (h *InventoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req service.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	category, err := h.categories.Create(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *InventoryHandler) GetCategories(c *fiber.Ctx) error {
	skip, limit, err := page(c)
	if err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	categories, err := h.categories.List(c.UserContext(), skip, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(categories)
}

func (h *InventoryHandler) GetCategory(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return detail(c, fiber.StatusNotFound, "Category not found")
	}

	category, err := h.categories.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(category)
}

func (h *InventoryHandler) UpdateCategory(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return detail(c, fiber.StatusNotFound, "Category not found")
	}

	var req service.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	category, err := h.categories.Update(c.UserContext(), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(category)
}

func (h *InventoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return detail(c, fiber.StatusNotFound, "Category not found")
	}

	if err := h.categories.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}

// ── Products ──────────────────────────────────────────────────────────────────

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	product, err := h.service.CreateProduct(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// GetProducts lists products with their stock.
// Query params: search, category_id, skip, limit
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	skip, limit, err := page(c)
	if err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	filter := repository.ProductFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Skip:   skip,
		Limit:  limit,
	}
	if raw := c.Query("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			return detail(c, fiber.StatusUnprocessableEntity, "category_id must be a UUID")
		}
		filter.CategoryID = &categoryID
	}

	products, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return detail(c, fiber.StatusNotFound, "Product not found")
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return detail(c, fiber.StatusNotFound, "Product not found")
	}

	var req service.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return detail(c, fiber.StatusNotFound, "Product not found")
	}

	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// ── Inventory ─────────────────────────────────────────────────────────────────

// UpdateInventory sets quantity, location or status of a product's stock row
// PUT /inventory/inventory/:product_id
func (h *InventoryHandler) UpdateInventory(c *fiber.Ctx) error {
	productID, ok := paramUUID(c, "product_id")
	if !ok {
		return detail(c, fiber.StatusNotFound, "Product not found")
	}

	var req service.UpdateInventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	item, err := h.service.UpdateInventory(c.UserContext(), productID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(item)
}
