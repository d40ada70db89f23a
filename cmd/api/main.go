package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nig3l/OPTACOMP-InventorySystems/internal/config"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/handler"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/middleware"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/repository"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/router"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/service"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/ws"
	"github.com/nig3l/OPTACOMP-InventorySystems/pkg/database"
	"github.com/nig3l/OPTACOMP-InventorySystems/pkg/jwt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// 1. Config + logger (dev: pretty, prod: JSON)
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	// 2. Database
	db, err := database.Connect(cfg.DSN(), !cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Redis (optional, only used for login throttling)
	var limiter middleware.Counter
	if cfg.RedisURL != "" {
		rdb, err := database.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, login rate limiting disabled")
		} else {
			defer rdb.Close()
			limiter = rdb
		}
	}

	// 4. WebSocket hub
	hub := ws.NewHub()
	go hub.Run(ctx)

	// 5. Dependency injection
	tokens := jwt.NewManager(cfg.JWTSecret, cfg.TokenTTL(), cfg.JWTIssuer)
	tx := repository.NewTransactor(db)

	userRepo := repository.NewUserRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	productRepo := repository.NewProductRepo(db)
	inventoryRepo := repository.NewInventoryRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	reportRepo := repository.NewReportRepo(db)

	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	invService := service.NewInventoryService(categoryRepo, productRepo, inventoryRepo, tx, hub)
	salesService := service.NewSalesService(saleRepo, productRepo, inventoryRepo, tx, hub)
	dashService := service.NewDashboardService(reportRepo)

	// 6. Seed the bootstrap superadmin
	created, err := userService.EnsureSuperadmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed superadmin")
	}
	if created {
		log.Info().Str("email", cfg.AdminEmail).Msg("superadmin created")
	}

	// 7. HTTP
	app := router.New(router.Deps{
		Tokens:         tokens,
		Hub:            hub,
		LoginLimiter:   limiter,
		LoginRateLimit: cfg.LoginRateLimit,
		Auth:           handler.NewAuthHandler(authService),
		Users:          handler.NewUserHandler(userService),
		Inventory:      handler.NewInventoryHandler(categoryService, invService),
		Sales:          handler.NewSalesHandler(salesService),
		Dashboard:      handler.NewDashboardHandler(dashService),
	})

	// 8. Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	cancel()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info().Msg("server exited")
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLvl)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
