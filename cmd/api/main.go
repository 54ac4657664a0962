package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-office-inventory/internal/config"
	"go-office-inventory/internal/handler"
	"go-office-inventory/internal/middleware"
	"go-office-inventory/internal/repository"
	"go-office-inventory/internal/service"
	"go-office-inventory/internal/ws"
	"go-office-inventory/pkg/database"
	"go-office-inventory/pkg/jwt"
	"go-office-inventory/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.Logging.Level, cfg.Logging.Encoding)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 2. Setup Database
	db, err := database.Connect(cfg.Database, zl)
	if err != nil {
		zl.Fatal("Database unavailable", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("Migration failed", zap.Error(err))
	}

	// 3. Setup WebSocket Hub (Redis fan-out when configured)
	var relay *ws.RedisRelay
	if cfg.Redis.Enabled() {
		client, err := ws.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			zl.Fatal("Redis unavailable", zap.Error(err))
		}
		defer client.Close()
		relay = ws.NewRedisRelay(client, cfg.Redis.Channel, zl)
	}

	var wsHub *ws.Hub
	var healthRedis handler.Pinger
	if relay != nil {
		wsHub = ws.NewHub(relay, zl)
		healthRedis = relay
	} else {
		wsHub = ws.NewHub(nil, zl)
	}
	go wsHub.Run(ctx)

	// 4. Dependency Injection (Wiring Layers)
	itemRepo := repository.NewItemRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)
	dashboardRepo := repository.NewDashboardRepo(db)

	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry)
	authService := service.NewAuthService(userRepo, tokens, zl)
	userService := service.NewUserService(userRepo, zl)
	stockService := service.NewStockService(db, itemRepo, txRepo, categoryRepo, wsHub, zl)
	itemService := service.NewItemService(itemRepo, categoryRepo, txRepo, zl)
	categoryService := service.NewCategoryService(categoryRepo)
	txService := service.NewTransactionService(txRepo)
	dashService := service.NewDashboardService(dashboardRepo, txRepo)
	reportService := service.NewReportService(dashboardRepo, txRepo, zl)

	// 5. Seed the admin account
	if err := userService.SeedAdmin(ctx, cfg.Admin); err != nil {
		zl.Fatal("Failed to seed admin", zap.Error(err))
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.Server.AppName,
	})

	app.Use(recover.New())                // Panic recovery
	app.Use(requestid.New())              // X-Request-ID
	app.Use(middleware.RequestLogger(zl)) // Logging request
	app.Use(cors.New())                   // CORS

	// 7. Routes
	handler.RegisterRoutes(app.Group("/api"), handler.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Item:        handler.NewItemHandler(itemService, stockService),
		Transaction: handler.NewTransactionHandler(stockService, txService),
		Category:    handler.NewCategoryHandler(categoryService),
		User:        handler.NewUserHandler(userService),
		Dashboard:   handler.NewDashboardHandler(dashService),
		Report:      handler.NewReportHandler(reportService),
	}, authService)

	app.Get("/health", handler.NewHealthHandler(db, healthRedis, wsHub.ClientCount).Check)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		zl.Info("HTTP server listening", zap.String("port", cfg.Server.Port))
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			zl.Panic("HTTP server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zl.Error("Server forced to shutdown", zap.Error(err))
	}
	stop()

	if err := database.Close(db); err != nil {
		zl.Error("Failed to close database", zap.Error(err))
	}
	zl.Info("Server exited")
}
