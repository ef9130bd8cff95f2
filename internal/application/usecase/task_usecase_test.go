package usecase_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

type adminFixture struct {
	store       *memory.Store
	ledgerUC    *ledger.StockLedgerUseCase
	taskRepo    *memory.TaskRepo
	taskUC      *usecase.TaskUseCase
	inventoryUC *usecase.InventoryUseCase
}

const (
	admUser       = "admin1"
	admUserID     = "user-admin-1"
	admOperarioID = "user-op-1"
	admProductID  = "prod-1"
	admLocSrc     = "loc-rack-a1"
	admLocDst     = "loc-rack-b2"
)

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	store := memory.NewStore()
	txRunner := memory.NewTxRunner(store, 2*time.Second)
	reader := memory.NewLedgerRepository(store)
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	ledgerUC := ledger.NewStockLedgerUseCase(txRunner, reader, log)

	taskRepo := memory.NewTaskRepository(store)
	productRepo := memory.NewProductRepository(store)
	locationRepo := memory.NewLocationRepository(store)
	userRepo := memory.NewUserRepository(store)
	chariotRepo := memory.NewChariotRepository(store)

	require.NoError(t, userRepo.Create(&entity.User{
		ID: admUserID, Username: admUser, Role: entity.RoleAdmin, Active: true,
	}))
	require.NoError(t, userRepo.Create(&entity.User{
		ID: admOperarioID, Username: "operario1", Role: entity.RoleOperario, Active: true,
	}))
	require.NoError(t, productRepo.Create(&entity.Product{
		ID: admProductID, SKU: "SKU-TE-100", Name: "Té verde 100g", Active: true,
	}))
	require.NoError(t, locationRepo.Create(&entity.Location{
		ID: admLocSrc, Code: "RACK-A1", WarehouseID: "wh-1", Type: entity.LocationTypeStorage, Active: true,
	}))
	require.NoError(t, locationRepo.Create(&entity.Location{
		ID: admLocDst, Code: "RACK-B2", WarehouseID: "wh-1", Type: entity.LocationTypeStorage, Active: true,
	}))

	return &adminFixture{
		store:       store,
		ledgerUC:    ledgerUC,
		taskRepo:    taskRepo,
		taskUC:      usecase.NewTaskUseCase(taskRepo, productRepo, locationRepo, userRepo, chariotRepo, log),
		inventoryUC: usecase.NewInventoryUseCase(ledgerUC, reader, taskRepo, productRepo, locationRepo, userRepo, log),
	}
}

func transferRequest() dto.CreateTaskRequest {
	return dto.CreateTaskRequest{
		Type: entity.TaskTypeTransfer,
		Lines: []dto.CreateTaskLine{
			{ProductID: admProductID, Quantity: 5, SourceLocationID: admLocSrc, DestinationLocationID: admLocDst},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Referencias
// ──────────────────────────────────────────────────────────────────────────────

func TestNewTaskReference_PrefijoPorTipo(t *testing.T) {
	pattern := regexp.MustCompile(`^(RCV|TRF|PCK|DLV|ADJ)-[0-9A-F]{8}$`)
	for taskType, prefix := range map[string]string{
		entity.TaskTypeReceipt:    "RCV",
		entity.TaskTypeTransfer:   "TRF",
		entity.TaskTypePicking:    "PCK",
		entity.TaskTypeDelivery:   "DLV",
		entity.TaskTypeAdjustment: "ADJ",
	} {
		ref := usecase.NewTaskReference(taskType)
		assert.Regexp(t, pattern, ref)
		assert.Equal(t, prefix, ref[:3], "tipo %s", taskType)
	}
}

func TestNewTaskReference_Unicas(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := usecase.NewTaskReference(entity.TaskTypeTransfer)
		assert.False(t, seen[ref], "referencia repetida: %s", ref)
		seen[ref] = true
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación de tareas
// ──────────────────────────────────────────────────────────────────────────────

func TestTaskCreate_SinAsignar_NaceDraft(t *testing.T) {
	f := newAdminFixture(t)

	resp, err := f.taskUC.Create(admUserID, transferRequest())
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusDraft, resp.Status)
	assert.Equal(t, entity.PriorityMedium, resp.Priority, "prioridad por defecto")
	assert.Equal(t, 1, resp.LinesCount)
	assert.Regexp(t, `^TRF-`, resp.Reference)
}

func TestTaskCreate_Asignada_NacePending(t *testing.T) {
	f := newAdminFixture(t)

	in := transferRequest()
	in.AssignedToID = admOperarioID
	resp, err := f.taskUC.Create(admUserID, in)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusPending, resp.Status)
	require.NotNil(t, resp.AssignedAt)
}

func TestTaskCreate_SinLineas_Rechazada(t *testing.T) {
	f := newAdminFixture(t)

	in := transferRequest()
	in.Lines = nil
	_, err := f.taskUC.Create(admUserID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Las tareas ADJUSTMENT no se crean por aquí: nacen del ajuste administrativo.
func TestTaskCreate_TipoAjuste_Rechazado(t *testing.T) {
	f := newAdminFixture(t)

	in := transferRequest()
	in.Type = entity.TaskTypeAdjustment
	_, err := f.taskUC.Create(admUserID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Emplazamientos requeridos según el tipo: un traslado sin origen no es válido.
func TestTaskCreate_TrasladoSinOrigen_Rechazado(t *testing.T) {
	f := newAdminFixture(t)

	in := transferRequest()
	in.Lines[0].SourceLocationID = ""
	_, err := f.taskUC.Create(admUserID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTaskCreate_ProductoInexistente_Rechazado(t *testing.T) {
	f := newAdminFixture(t)

	in := transferRequest()
	in.Lines[0].ProductID = "no-existe"
	_, err := f.taskUC.Create(admUserID, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskAssign_SoloAntesDeIniciar(t *testing.T) {
	f := newAdminFixture(t)
	resp, err := f.taskUC.Create(admUserID, transferRequest())
	require.NoError(t, err)

	assigned, err := f.taskUC.Assign(resp.ID, dto.AssignTaskRequest{AssignedToID: admOperarioID})
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusPending, assigned.Status)

	task, err := f.taskRepo.GetByID(resp.ID)
	require.NoError(t, err)
	task.Status = entity.TaskStatusInProgress
	require.NoError(t, f.taskRepo.Update(task))

	_, err = f.taskUC.Assign(resp.ID, dto.AssignTaskRequest{AssignedToID: admOperarioID})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestTaskCancel_TerminalNoSeCancela(t *testing.T) {
	f := newAdminFixture(t)
	resp, err := f.taskUC.Create(admUserID, transferRequest())
	require.NoError(t, err)

	cancelled, err := f.taskUC.Cancel(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusCancelled, cancelled.Status)

	_, err = f.taskUC.Cancel(resp.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajuste administrativo de inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyAdjustment_PositivoCreaSaldoYTareaTraza(t *testing.T) {
	f := newAdminFixture(t)

	resp, err := f.inventoryUC.ApplyAdjustment(context.Background(), admUser, dto.StockAdjustmentRequest{
		ProductID: admProductID, LocationID: admLocSrc, Quantity: 25, Reason: "conteo inicial",
	})
	require.NoError(t, err)
	assert.Equal(t, 25, resp.NewBalance)
	assert.Regexp(t, `^ADJ-`, resp.Reference)

	// La tarea traza nace ya COMPLETED y referencia el movimiento.
	task, err := f.taskRepo.GetByID(resp.TaskID)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, entity.TaskTypeAdjustment, task.Type)
	assert.Equal(t, entity.TaskStatusCompleted, task.Status)
}

func TestApplyAdjustment_NegativoDescuenta(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.inventoryUC.ApplyAdjustment(context.Background(), admUser, dto.StockAdjustmentRequest{
		ProductID: admProductID, LocationID: admLocSrc, Quantity: 10, Reason: "conteo inicial",
	})
	require.NoError(t, err)

	resp, err := f.inventoryUC.ApplyAdjustment(context.Background(), admUser, dto.StockAdjustmentRequest{
		ProductID: admProductID, LocationID: admLocSrc, Quantity: -4, Reason: "merma detectada",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, resp.NewBalance)
}

// Un ajuste que dejaría el saldo bajo cero se rechaza y no deja tarea huérfana.
func TestApplyAdjustment_BajoCero_SinTareaHuerfana(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.inventoryUC.ApplyAdjustment(context.Background(), admUser, dto.StockAdjustmentRequest{
		ProductID: admProductID, LocationID: admLocSrc, Quantity: -5, Reason: "merma",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	tasks, err := f.taskRepo.List("", entity.TaskTypeAdjustment, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, tasks, "el rechazo no debe dejar tarea de ajuste")

	balance, err := f.ledgerUC.GetCurrentBalance(admProductID, admLocSrc)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestApplyAdjustment_SinMotivo_Rechazado(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.inventoryUC.ApplyAdjustment(context.Background(), admUser, dto.StockAdjustmentRequest{
		ProductID: admProductID, LocationID: admLocSrc, Quantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.inventoryUC.ApplyAdjustment(context.Background(), admUser, dto.StockAdjustmentRequest{
		ProductID: admProductID, LocationID: admLocSrc, Quantity: 0, Reason: "nada",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
