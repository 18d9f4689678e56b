package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-bakery-trace/internal/bootstrap"
	"go-bakery-trace/internal/handler"
	"go-bakery-trace/internal/middleware"
	"go-bakery-trace/internal/repository"
	"go-bakery-trace/internal/service"
	"go-bakery-trace/internal/ws"
	"go-bakery-trace/pkg/config"
	"go-bakery-trace/pkg/database"
	"go-bakery-trace/pkg/jwt"
	"go-bakery-trace/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// 1. Config + logger
	cfg := config.Load()
	log := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment: cfg.IsDevelopment(),
		Encoding:      cfg.Logger.Encoding,
		Level:         cfg.Logger.Level,
	})
	defer log.Sync()

	// 2. Database
	db, err := database.ConnectDB(cfg.Postgres, cfg.IsDevelopment())
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	// 3. Seed privileges, roles and the admin user
	admin := bootstrap.Admin{Email: cfg.Admin.Email, FullName: cfg.Admin.FullName, Password: cfg.Admin.Password}
	if err := bootstrap.SeedAccess(db, admin, log); err != nil {
		log.Warn("seeding access control failed", zap.Error(err))
	}

	// 4. WebSocket hub
	wsHub := ws.NewHub(log.Named("ws"))
	go wsHub.Run()

	// 5. Wiring
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TTL)

	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	catalogRepo := repository.NewCatalogRepo(db)
	lotRepo := repository.NewLotRepo(db)
	runRepo := repository.NewProductionRepo(db)
	palletRepo := repository.NewPalletRepo(db)
	recallRepo := repository.NewRecallRepo(db)
	traceRepo := repository.NewTraceRepo(db)

	authService := service.NewAuthService(userRepo, tokens, cfg.JWT.TTL, log)
	catalogService := service.NewCatalogService(catalogRepo)
	lotService := service.NewLotService(db, lotRepo, catalogRepo, wsHub, log)
	productionService := service.NewProductionService(db, runRepo, lotRepo, palletRepo, catalogRepo, wsHub, log)
	palletService := service.NewPalletService(db, palletRepo, runRepo, wsHub, log)
	traceService := service.NewTraceService(traceRepo, cfg.Trace, log)
	recallService := service.NewRecallService(db, lotRepo, runRepo, palletRepo, recallRepo, cfg.Trace, wsHub, log)

	handlers := handler.Handlers{
		Auth:       handler.NewAuthHandler(authService, log),
		Role:       handler.NewRoleHandler(roleRepo, log),
		Catalog:    handler.NewCatalogHandler(catalogService, log),
		Lot:        handler.NewLotHandler(lotService, log),
		Production: handler.NewProductionHandler(productionService, log),
		Pallet:     handler.NewPalletHandler(palletService, log),
		Trace:      handler.NewTraceHandler(traceService, log),
		Recall:     handler.NewRecallHandler(recallService, log),
	}

	// 6. Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.Server.AppName,
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// 7. Routes
	api := app.Group("/api/v1", limiter.New(limiter.Config{
		Max:        cfg.Server.RateLimitMax,
		Expiration: time.Minute,
	}))
	handler.RegisterRoutes(api, handlers, middleware.RequireAuth(tokens, userRepo))

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(wsHub.Serve))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Panic("server stopped", zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.AppEnv))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info("server exited")
}
