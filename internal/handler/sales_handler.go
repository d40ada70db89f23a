package handler

import (
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/middleware"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SalesHandler struct {
	service service.SalesService
}

func NewSalesHandler(s service.SalesService) *SalesHandler {
	return &SalesHandler{service: s}
}

// CreateSale records a sale for the caller
// POST /sales/
func (h *SalesHandler) CreateSale(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return detail(c, fiber.StatusUnauthorized, "Not authenticated")
	}

	var req service.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	sale, err := h.service.CreateSale(c.UserContext(), userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// GetSales lists sales, newest first.
// Query params: start_date, end_date (YYYY-MM-DD, inclusive), skip, limit
func (h *SalesHandler) GetSales(c *fiber.Ctx) error {
	skip, limit, err := page(c)
	if err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	start, err := queryDate(c, "start_date")
	if err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, "start_date must be YYYY-MM-DD")
	}
	end, err := queryDate(c, "end_date")
	if err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, "end_date must be YYYY-MM-DD")
	}

	sales, err := h.service.ListSales(c.UserContext(), service.SaleQuery{
		StartDate: start,
		EndDate:   end,
		Skip:      skip,
		Limit:     limit,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sales)
}

func (h *SalesHandler) GetSale(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return detail(c, fiber.StatusNotFound, "Sale not found")
	}

	sale, err := h.service.GetSale(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sale)
}
