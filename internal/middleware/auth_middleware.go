package middleware

import (
	"strings"

	"github.com/nig3l/OPTACOMP-InventorySystems/internal/model"
	"github.com/nig3l/OPTACOMP-InventorySystems/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys set by RequireAuth.
const (
	LocalUserID = "user_id"
	LocalRole   = "user_role"
)

// RequireAuth validates the bearer token and stores the caller's identity in
// the request locals. Roles come from the token; the database is not consulted.
func RequireAuth(tokens *jwt.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Not authenticated")
		}

		// Expect "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return unauthorized(c, "Invalid authorization format. Use: Bearer <token>")
		}

		claims, err := tokens.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			return unauthorized(c, "Could not validate credentials")
		}

		role := model.Role(claims.Role)
		if !role.Valid() {
			return unauthorized(c, "Could not validate credentials")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, role)

		return c.Next()
	}
}

// RequireRole lets the request through when the caller holds one of roles.
// It must run after RequireAuth.
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(model.Role)
		if !ok {
			return unauthorized(c, "Not authenticated")
		}

		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"detail": "Not enough permissions",
		})
	}
}

// UserID returns the authenticated caller's id.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(LocalUserID).(uuid.UUID)
	return id, ok
}

func unauthorized(c *fiber.Ctx, detail string) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": detail})
}
