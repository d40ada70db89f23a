package handler

import (
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/middleware"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register creates an account
// POST /auth/register (superadmin)
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	user, err := h.userService.Register(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user.ToResponse())
}

// Me returns the caller's own account
// GET /auth/users/me
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return detail(c, fiber.StatusUnauthorized, "Not authenticated")
	}

	user, err := h.userService.GetByID(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user.ToResponse())
}

// ListUsers pages through all accounts
// GET /auth/users (superadmin)
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	skip, limit, err := page(c)
	if err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	users, err := h.userService.List(c.UserContext(), skip, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}

// UpdateUser applies a partial update
// PUT /auth/users/:id (superadmin)
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	userID, ok := paramUUID(c, "id")
	if !ok {
		return detail(c, fiber.StatusNotFound, "User not found")
	}

	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	user, err := h.userService.Update(c.UserContext(), userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user.ToResponse())
}
