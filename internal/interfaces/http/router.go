package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/application/workflow"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	OperationUC   *workflow.OperationUseCase
	TaskUC        *usecase.TaskUseCase
	InventoryUC   *usecase.InventoryUseCase
	DiscrepancyUC *usecase.DiscrepancyUseCase
	ProductUC     *usecase.ProductUseCase
	WarehouseUC   *usecase.WarehouseUseCase
	LocationUC    *usecase.LocationUseCase
	UserUC        *usecase.UserUseCase
	AuthUC        *auth.AuthUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	supervisor := RequireRole(entity.RoleAdmin, entity.RoleSupervisor)
	admin := RequireRole(entity.RoleAdmin)

	// Operaciones de piso (cualquier rol autenticado)
	operations := protected.Group("/operations")
	operationHandler := NewOperationHandler(deps.OperationUC)
	operations.Post("/start", operationHandler.Start)
	operations.Post("/execute-line", operationHandler.ExecuteLine)
	operations.Post("/report-issue", operationHandler.ReportIssue)
	operations.Post("/:id/complete", operationHandler.Complete)
	operations.Get("/my-tasks", operationHandler.MyTasks)
	operations.Get("/tasks/:id", operationHandler.TaskDetails)

	// Tareas (supervisor/admin)
	tasks := protected.Group("/tasks", supervisor)
	taskHandler := NewTaskHandler(deps.TaskUC)
	tasks.Post("/", taskHandler.Create)
	tasks.Get("/", taskHandler.List)
	tasks.Get("/:id", taskHandler.GetByID)
	tasks.Put("/:id", taskHandler.Update)
	tasks.Put("/:id/assign", taskHandler.Assign)
	tasks.Post("/:id/cancel", taskHandler.Cancel)

	// Incidencias (supervisor/admin)
	discrepancies := protected.Group("/discrepancies", supervisor)
	discrepancyHandler := NewDiscrepancyHandler(deps.DiscrepancyUC)
	discrepancies.Get("/", discrepancyHandler.List)
	discrepancies.Put("/:id/resolve", discrepancyHandler.Resolve)
	tasks.Get("/:id/discrepancies", discrepancyHandler.ListByTask)

	// Inventario (consultas supervisor/admin; ajustes solo admin)
	inventory := protected.Group("/inventory", supervisor)
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	inventory.Get("/balance", inventoryHandler.GetBalance)
	inventory.Get("/alerts", inventoryHandler.GetAlerts)
	inventory.Get("/products/:id", inventoryHandler.GetProductInventory)
	inventory.Get("/products/:id/movements", inventoryHandler.ListMovements)
	inventory.Get("/tasks/:id/movements", inventoryHandler.ListTaskMovements)
	inventory.Post("/adjustments", admin, inventoryHandler.ApplyAdjustment)

	// Productos (supervisor/admin)
	products := protected.Group("/products", supervisor)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Deactivate)
	products.Post("/:id/barcodes", productHandler.AddBarcode)
	products.Get("/:id/barcodes", productHandler.ListBarcodes)

	// Almacenes y emplazamientos (supervisor/admin)
	warehouses := protected.Group("/warehouses", supervisor)
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC, deps.LocationUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Get("/:id/locations", warehouseHandler.ListLocations)

	locations := protected.Group("/locations", supervisor)
	locations.Post("/", warehouseHandler.CreateLocation)
	locations.Get("/:id", warehouseHandler.GetLocation)
	locations.Put("/:id", warehouseHandler.UpdateLocation)
	locations.Delete("/:id", warehouseHandler.DeactivateLocation)

	// Usuarios (solo admin)
	users := protected.Group("/users", admin)
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
}
