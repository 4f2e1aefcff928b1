package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/cafeto/storefront-api/internal/application/auth"
	"github.com/cafeto/storefront-api/internal/application/cart"
	"github.com/cafeto/storefront-api/internal/application/chat"
	"github.com/cafeto/storefront-api/internal/application/checkout"
	"github.com/cafeto/storefront-api/internal/application/usecase"
	"github.com/cafeto/storefront-api/internal/infrastructure/notify"
	"github.com/cafeto/storefront-api/internal/infrastructure/payment"
	infrapdf "github.com/cafeto/storefront-api/internal/infrastructure/pdf"
	"github.com/cafeto/storefront-api/internal/infrastructure/postgres"
	infraredis "github.com/cafeto/storefront-api/internal/infrastructure/redis"
	httpRouter "github.com/cafeto/storefront-api/internal/interfaces/http"
	"github.com/cafeto/storefront-api/internal/interfaces/ws"
	"github.com/cafeto/storefront-api/pkg/config"
	"github.com/cafeto/storefront-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	redisClient, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer redisClient.Close()

	// Repositorios
	userRepo := postgres.NewUserRepository(pool)
	brandRepo := postgres.NewBrandRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	addressRepo := postgres.NewAddressRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	conversationRepo := postgres.NewConversationRepository(pool)

	// Adaptadores Redis
	otpStore := infraredis.NewOTPStore(redisClient)
	refreshStore := infraredis.NewRefreshStore(redisClient)
	staging := infraredis.NewCheckoutStaging(redisClient)
	broker := infraredis.NewBroker(redisClient)

	// Casos de uso
	authUC := auth.NewAuthUseCase(userRepo, otpStore, refreshStore,
		notify.NewConsoleSender(log),
		auth.JWTConfig{
			Secret:      cfg.JWT.Secret,
			ExpMinutes:  cfg.JWT.Expiration,
			RefreshDays: cfg.JWT.RefreshDays,
			Issuer:      cfg.JWT.Issuer,
		},
		time.Duration(cfg.OTP.TTLMinutes)*time.Minute,
	)
	userUC := usecase.NewUserUseCase(userRepo)
	brandUC := usecase.NewBrandUseCase(brandRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	addressUC := usecase.NewAddressUseCase(addressRepo)
	orderUC := usecase.NewOrderUseCase(orderRepo)
	cartUC := cart.NewCartUseCase(cartRepo, productRepo)

	gateway := payment.NewGatewayClient(cfg.Payment)
	checkoutUC := checkout.NewCheckoutUseCase(cartUC, addressRepo, orderRepo, staging, gateway,
		checkout.Config{
			ShippingFee: cfg.Checkout.ShippingFee,
			StagingTTL:  time.Duration(cfg.Checkout.StagingTTLMinutes) * time.Minute,
		}, log)
	receiptUC := checkout.NewReceiptUseCase(orderRepo, infrapdf.NewReceiptGenerator(cfg.App.Name))

	chatUC := chat.NewChatUseCase(conversationRepo, userRepo, broker, log)

	// Dispatcher del chat: persiste los mensajes publicados y rebota las
	// actualizaciones a staff y cliente. Uno por proceso.
	dispatcher := chat.NewDispatcher(conversationRepo, broker, log)
	if err := dispatcher.Start(); err != nil {
		log.Fatal().Err(err).Msg("iniciar dispatcher de chat")
	}
	defer dispatcher.Close()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		UserUC:     userUC,
		BrandUC:    brandUC,
		CategoryUC: categoryUC,
		ProductUC:  productUC,
		AddressUC:  addressUC,
		OrderUC:    orderUC,
		CartUC:     cartUC,
		CheckoutUC: checkoutUC,
		ReceiptUC:  receiptUC,
		ChatUC:     chatUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	// Canal en vivo del chat
	wsHandler := ws.NewChatHandler(conversationRepo, broker, log, cfg.JWT, cfg.Chat.PageSize)
	app.Get("/ws/chat", wsHandler.Upgrade, wsHandler.Handler())

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
