package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// InventoryUseCase consultas de inventario y ajustes administrativos. Todas las
// cifras salen del ledger: no hay tabla de stock aparte que pueda desalinearse.
type InventoryUseCase struct {
	ledgerUC     *ledger.StockLedgerUseCase
	ledgerRepo   repository.StockLedgerRepository
	taskRepo     repository.TaskRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	userRepo     repository.UserRepository
	log          *logger.Logger
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(
	ledgerUC *ledger.StockLedgerUseCase,
	ledgerRepo repository.StockLedgerRepository,
	taskRepo repository.TaskRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	userRepo repository.UserRepository,
	log *logger.Logger,
) *InventoryUseCase {
	return &InventoryUseCase{
		ledgerUC:     ledgerUC,
		ledgerRepo:   ledgerRepo,
		taskRepo:     taskRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		userRepo:     userRepo,
		log:          log,
	}
}

// GetBalance saldo vigente de un par (producto, emplazamiento). Par sin
// historial responde 0, no error.
func (uc *InventoryUseCase) GetBalance(productID, locationID string) (*dto.BalanceResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	location, err := uc.locationRepo.GetByID(locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	balance, err := uc.ledgerUC.GetCurrentBalance(productID, locationID)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{ProductID: productID, LocationID: locationID, Balance: balance}, nil
}

// GetProductInventory stock de un producto desglosado por emplazamiento, con
// total y bandera de alerta bajo mínimo.
func (uc *InventoryUseCase) GetProductInventory(productID string) (*dto.ProductInventoryResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	balances, err := uc.ledgerRepo.ListPairBalances(productID)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductInventoryResponse{
		ProductID:      product.ID,
		SKU:            product.SKU,
		Name:           product.Name,
		MinStock:       product.MinStock,
		MaxStock:       product.MaxStock,
		StockLocations: make([]dto.LocationStock, 0, len(balances)),
	}
	for _, b := range balances {
		if b.Balance == 0 {
			continue
		}
		code := b.LocationID
		if loc, err := uc.locationRepo.GetByID(b.LocationID); err == nil && loc != nil {
			code = loc.Code
		}
		resp.TotalStock += b.Balance
		resp.StockLocations = append(resp.StockLocations, dto.LocationStock{
			LocationID:   b.LocationID,
			LocationCode: code,
			Quantity:     b.Balance,
		})
	}
	resp.StockAlert = product.MinStock != nil && resp.TotalStock < *product.MinStock
	return resp, nil
}

// ListMovementsByProduct historial de movimientos de un producto, con rango de
// fechas opcional, más reciente primero.
func (uc *InventoryUseCase) ListMovementsByProduct(productID string, from, to *time.Time, limit, offset int) (*dto.MovementListResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	entries, err := uc.ledgerRepo.ListByProduct(productID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	return toMovementList(entries, limit, offset), nil
}

// ListMovementsByPair historial de un par concreto, más reciente primero.
func (uc *InventoryUseCase) ListMovementsByPair(productID, locationID string, limit, offset int) (*dto.MovementListResponse, error) {
	entries, err := uc.ledgerRepo.ListByPair(productID, locationID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toMovementList(entries, limit, offset), nil
}

// ListMovementsByTask movimientos generados por una tarea.
func (uc *InventoryUseCase) ListMovementsByTask(taskID string) ([]dto.MovementResponse, error) {
	task, err := uc.taskRepo.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrNotFound
	}
	entries, err := uc.ledgerRepo.ListByTask(taskID)
	if err != nil {
		return nil, err
	}
	return toMovementList(entries, 0, 0).Items, nil
}

// GetStockAlerts productos activos cuyo stock total está bajo su mínimo.
func (uc *InventoryUseCase) GetStockAlerts(limit, offset int) ([]dto.StockAlert, error) {
	products, err := uc.productRepo.List(true, "", limit, offset)
	if err != nil {
		return nil, err
	}
	alerts := make([]dto.StockAlert, 0)
	for _, p := range products {
		if p.MinStock == nil {
			continue
		}
		balances, err := uc.ledgerRepo.ListPairBalances(p.ID)
		if err != nil {
			return nil, err
		}
		total := 0
		for _, b := range balances {
			total += b.Balance
		}
		if total < *p.MinStock {
			alerts = append(alerts, dto.StockAlert{
				ProductID:    p.ID,
				SKU:          p.SKU,
				Name:         p.Name,
				CurrentStock: total,
				MinStock:     *p.MinStock,
				Deficit:      *p.MinStock - total,
			})
		}
	}
	return alerts, nil
}

// ApplyAdjustment aplica una corrección administrativa de stock: registra el
// delta con signo en el ledger y deja una tarea ADJUSTMENT ya completada como
// rastro auditable. El ledger se escribe primero; si rechaza el ajuste
// (ErrInsufficientStock, delta cero) no queda tarea huérfana.
func (uc *InventoryUseCase) ApplyAdjustment(ctx context.Context, adminUsername string, in dto.StockAdjustmentRequest) (*dto.StockAdjustmentResponse, error) {
	if in.Quantity == 0 || strings.TrimSpace(in.Reason) == "" {
		return nil, domain.ErrInvalidInput
	}
	admin, err := uc.userRepo.GetByUsername(adminUsername)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	location, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	notes := in.Reason
	if in.Notes != "" {
		notes = in.Reason + " / " + in.Notes
	}
	quantity := in.Quantity
	if quantity < 0 {
		quantity = -quantity
	}
	task := &entity.Task{
		ID:          uuid.New().String(),
		Type:        entity.TaskTypeAdjustment,
		Reference:   NewTaskReference(entity.TaskTypeAdjustment),
		Status:      entity.TaskStatusCompleted,
		Priority:    entity.PriorityMedium,
		CreatedBy:   admin.ID,
		AssignedTo:  admin.ID,
		Notes:       notes,
		CreatedAt:   now,
		AssignedAt:  &now,
		StartedAt:   &now,
		CompletedAt: &now,
	}
	line := &entity.TaskLine{
		ID:         uuid.New().String(),
		TaskID:     task.ID,
		LineNumber: 1,
		ProductID:  in.ProductID,
		Quantity:   quantity,
		CreatedAt:  now,
	}
	if in.Quantity > 0 {
		line.DestinationLocationID = in.LocationID
	} else {
		line.SourceLocationID = in.LocationID
	}
	task.Lines = []*entity.TaskLine{line}

	entry, err := uc.ledgerUC.RecordAdjustment(ctx, ledger.MovementInput{
		ProductID:   in.ProductID,
		LocationID:  in.LocationID,
		Quantity:    in.Quantity,
		TaskID:      task.ID,
		TaskLineID:  line.ID,
		PerformedBy: admin.ID,
	})
	if err != nil {
		return nil, err
	}
	if err := uc.taskRepo.Create(task); err != nil {
		// El movimiento ya quedó en el ledger; la referencia de tarea se pierde
		// pero el saldo es correcto.
		uc.log.Error().Err(err).Str("task_id", task.ID).Msg("ajuste registrado pero la tarea de rastro no se pudo crear")
		return nil, err
	}
	uc.log.Info().
		Str("reference", task.Reference).
		Str("product_id", in.ProductID).
		Str("location_id", in.LocationID).
		Int("delta", in.Quantity).
		Int("balance", entry.RunningBalance).
		Msg("ajuste de stock aplicado")
	return &dto.StockAdjustmentResponse{
		TaskID:     task.ID,
		Reference:  task.Reference,
		NewBalance: entry.RunningBalance,
	}, nil
}

func toMovementList(entries []*entity.StockLedgerEntry, limit, offset int) *dto.MovementListResponse {
	items := make([]dto.MovementResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.MovementResponse{
			ID:             e.ID,
			ProductID:      e.ProductID,
			LocationID:     e.LocationID,
			TaskID:         e.TaskID,
			MovementType:   e.MovementType,
			Quantity:       e.Quantity,
			RunningBalance: e.RunningBalance,
			PerformedBy:    e.PerformedBy,
			PerformedAt:    e.PerformedAt,
		})
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
}
