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
	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/application/workflow"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
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

	ledgerRepo := postgres.NewStockLedgerRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	discrepancyRepo := postgres.NewDiscrepancyRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	barcodeRepo := postgres.NewBarcodeRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	chariotRepo := postgres.NewChariotRepository(pool)

	txRunner := postgres.NewTxRunner(pool, cfg.Ledger.LockTimeoutMS)
	ledgerUC := ledger.NewStockLedgerUseCase(txRunner, ledgerRepo, log)

	operationUC := workflow.NewOperationUseCase(
		taskRepo, productRepo, barcodeRepo, locationRepo,
		userRepo, chariotRepo, discrepancyRepo, ledgerUC, log,
	)
	taskUC := usecase.NewTaskUseCase(taskRepo, productRepo, locationRepo, userRepo, chariotRepo, log)
	inventoryUC := usecase.NewInventoryUseCase(ledgerUC, ledgerRepo, taskRepo, productRepo, locationRepo, userRepo, log)
	discrepancyUC := usecase.NewDiscrepancyUseCase(discrepancyRepo, userRepo, log)
	productUC := usecase.NewProductUseCase(productRepo, barcodeRepo, log)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo, log)
	locationUC := usecase.NewLocationUseCase(locationRepo, warehouseRepo, log)
	userUC := usecase.NewUserUseCase(userRepo, log)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "Almacén API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		OperationUC:   operationUC,
		TaskUC:        taskUC,
		InventoryUC:   inventoryUC,
		DiscrepancyUC: discrepancyUC,
		ProductUC:     productUC,
		WarehouseUC:   warehouseUC,
		LocationUC:    locationUC,
		UserUC:        userUC,
		AuthUC:        authUC,
		JWTSecret:     cfg.JWT.Secret,
	})

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
