package handler

import (
	"strings"

	"github.com/nig3l/OPTACOMP-InventorySystems/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest accepts the OAuth2 password form (username/password) or the
// same fields as JSON. The username is the account email.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Login exchanges credentials for a bearer token
// POST /auth/token
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return detail(c, fiber.StatusUnprocessableEntity, "username and password are required")
	}

	response, err := h.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if status, _ := statusFor(err); status == fiber.StatusUnauthorized {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}
		return fail(c, err)
	}

	return c.JSON(response)
}
