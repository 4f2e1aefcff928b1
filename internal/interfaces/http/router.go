package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cafeto/storefront-api/internal/application/auth"
	"github.com/cafeto/storefront-api/internal/application/cart"
	"github.com/cafeto/storefront-api/internal/application/chat"
	"github.com/cafeto/storefront-api/internal/application/checkout"
	"github.com/cafeto/storefront-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	UserUC     *usecase.UserUseCase
	BrandUC    *usecase.BrandUseCase
	CategoryUC *usecase.CategoryUseCase
	ProductUC  *usecase.ProductUseCase
	AddressUC  *usecase.AddressUseCase
	OrderUC    *usecase.OrderUseCase
	CartUC     *cart.CartUseCase
	CheckoutUC *checkout.CheckoutUseCase
	ReceiptUC  *checkout.ReceiptUseCase
	ChatUC     *chat.ChatUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/verify-otp", authHandler.VerifyOTP)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)

	// Vitrina (público): catálogo, marcas y categorías
	productHandler := NewProductHandler(deps.ProductUC)
	brandHandler := NewBrandHandler(deps.BrandUC)
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	api.Get("/products", productHandler.List)
	api.Get("/products/:id", productHandler.GetByID)
	api.Get("/brands", brandHandler.List)
	api.Get("/brands/:id", brandHandler.GetByID)
	api.Get("/categories", categoryHandler.List)
	api.Get("/categories/:id", categoryHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)

	// Carrito (protegido)
	cartGroup := protected.Group("/cart")
	cartHandler := NewCartHandler(deps.CartUC)
	cartGroup.Get("/", cartHandler.Get)
	cartGroup.Post("/items", cartHandler.AddItem)
	cartGroup.Put("/items/:id/quantity", cartHandler.UpdateQuantity)
	cartGroup.Put("/items/:id/selected", cartHandler.UpdateSelected)
	cartGroup.Put("/select-all", cartHandler.SelectAll)
	cartGroup.Delete("/items/:id", cartHandler.DeleteLine)

	// Direcciones (protegido)
	addresses := protected.Group("/addresses")
	addressHandler := NewAddressHandler(deps.AddressUC)
	addresses.Post("/", addressHandler.Create)
	addresses.Get("/", addressHandler.List)
	addresses.Delete("/:id", addressHandler.Delete)

	// Checkout y pedidos del usuario (protegido)
	checkoutHandler := NewCheckoutHandler(deps.CheckoutUC, deps.ReceiptUC)
	protected.Get("/checkout/summary", checkoutHandler.Summary)
	protected.Post("/checkout", checkoutHandler.Submit)

	orderHandler := NewOrderHandler(deps.OrderUC)
	protected.Get("/orders", orderHandler.ListMine)
	protected.Get("/orders/:id", orderHandler.GetByID)
	protected.Get("/orders/:id/receipt", checkoutHandler.Receipt)

	// Chat REST (protegido)
	chatGroup := protected.Group("/chat")
	chatHandler := NewChatHandler(deps.ChatUC)
	chatGroup.Get("/conversations", chatHandler.List)
	chatGroup.Post("/conversations/:id/messages", chatHandler.Send)
	chatGroup.Put("/conversations/:id/read", chatHandler.MarkRead)

	// Panel de administración (protegido + rol admin/staff → 403)
	admin := protected.Group("/admin", RequireStaff())

	users := admin.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	brands := admin.Group("/brands")
	brands.Post("/", brandHandler.Create)
	brands.Get("/", brandHandler.List)
	brands.Get("/:id", brandHandler.GetByID)
	brands.Put("/:id", brandHandler.Update)
	brands.Delete("/:id", brandHandler.Delete)

	categories := admin.Group("/categories")
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	adminProducts := admin.Group("/products")
	adminProducts.Post("/", productHandler.Create)
	adminProducts.Put("/:id", productHandler.Update)
	adminProducts.Delete("/variants/:variantId", productHandler.DeleteVariant)
	adminProducts.Delete("/:id", productHandler.Delete)

	adminOrders := admin.Group("/orders")
	adminOrders.Get("/", orderHandler.ListAll)
	adminOrders.Put("/:id/status", orderHandler.UpdateStatus)

	// Panel de mensajes (protegido + rol admin/staff → 401: el cliente vuelve al login)
	adminMessages := protected.Group("/admin-messages", RequireStaffSession())
	adminMessages.Get("/conversations", chatHandler.List)
	adminMessages.Post("/conversations/:id/messages", chatHandler.Send)
	adminMessages.Put("/conversations/:id/read", chatHandler.MarkRead)
}
