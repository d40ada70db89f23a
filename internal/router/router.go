package router

import (
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/handler"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/middleware"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/model"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/ws"
	"github.com/nig3l/OPTACOMP-InventorySystems/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Tokens *jwt.Manager
	Hub    *ws.Hub

	// LoginLimiter may be nil to disable login throttling.
	LoginLimiter   middleware.Counter
	LoginRateLimit int

	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	Inventory *handler.InventoryHandler
	Sales     *handler.SalesHandler
	Dashboard *handler.DashboardHandler
}

// New builds the fiber app with every route registered.
func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "OPTACOMP ERP",
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.Logger())
	app.Use(cors.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to OPTACOMP ERP API"})
	})

	requireAuth := middleware.RequireAuth(d.Tokens)
	superadmin := middleware.RequireRole(model.RoleSuperadmin)

	// ============ AUTH ============
	auth := app.Group("/auth")
	auth.Post("/token", middleware.LoginRateLimiter(d.LoginLimiter, d.LoginRateLimit), d.Auth.Login)
	auth.Post("/register", requireAuth, superadmin, d.Users.Register)
	auth.Get("/users/me", requireAuth, d.Users.Me)
	auth.Get("/users", requireAuth, superadmin, d.Users.ListUsers)
	auth.Put("/users/:id", requireAuth, superadmin, d.Users.UpdateUser)

	// ============ INVENTORY ============
	inv := app.Group("/inventory", requireAuth)
	inv.Post("/categories", d.Inventory.CreateCategory)
	inv.Get("/categories", d.Inventory.GetCategories)
	inv.Get("/categories/:id", d.Inventory.GetCategory)
	inv.Put("/categories/:id", d.Inventory.UpdateCategory)
	inv.Delete("/categories/:id", d.Inventory.DeleteCategory)

	inv.Post("/products", d.Inventory.CreateProduct)
	inv.Get("/products", d.Inventory.GetProducts)
	inv.Get("/products/:id", d.Inventory.GetProduct)
	inv.Put("/products/:id", d.Inventory.UpdateProduct)
	inv.Delete("/products/:id", d.Inventory.DeleteProduct)

	inv.Put("/inventory/:product_id", d.Inventory.UpdateInventory)

	// ============ SALES ============
	sales := app.Group("/sales", requireAuth)
	sales.Post("/", d.Sales.CreateSale)
	sales.Get("/", d.Sales.GetSales)
	sales.Get("/:id", d.Sales.GetSale)

	// ============ DASHBOARD ============
	dash := app.Group("/dashboard", requireAuth)
	dash.Get("/stats", d.Dashboard.GetDashboardStats)
	dash.Get("/sales-summary", d.Dashboard.GetSalesSummary)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(d.Hub.Serve))

	return app
}
