package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/baisoft/marketplace-api/internal/application/auth"
	"github.com/baisoft/marketplace-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC  *usecase.ProductUseCase
	UserUC     *usecase.UserUseCase
	BusinessUC *usecase.BusinessUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	productHandler := NewProductHandler(deps.ProductUC)

	// Catálogo público: única superficie de lectura cross-tenant.
	api.Get("/products/public", productHandler.ListPublic)

	// Rutas protegidas (requieren Bearer Token; la identidad se relee de la DB)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.AuthUC))

	protected.Get("/auth/me", authHandler.Me)

	// Business (protegido)
	businessHandler := NewBusinessHandler(deps.BusinessUC)
	protected.Get("/business/me", businessHandler.Me)

	// Gestión de usuarios de la empresa (solo admin)
	users := protected.Group("/business/users", RequireRole("admin"))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Products (protegido). Las rutas fijas van antes que las de :id.
	products := protected.Group("/products")
	products.Get("/internal", productHandler.ListInternal)
	products.Post("/internal", productHandler.Create)
	products.Post("/bulk-approve", productHandler.BulkApprove)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Patch("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Post("/:id/approve", productHandler.Approve)
	products.Post("/:id/restore", productHandler.Restore)
}
