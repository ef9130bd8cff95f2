package workflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/workflow"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

// fixture entorno de workflow completo sobre adaptadores en memoria.
type fixture struct {
	store    *memory.Store
	txRunner *memory.TxRunner
	ledgerUC *ledger.StockLedgerUseCase
	taskRepo *memory.TaskRepo
	uc       *workflow.OperationUseCase
}

const (
	fxOperario   = "operario1"
	fxOperarioID = "user-op-1"
	fxOtroID     = "user-op-2"
	fxProductID  = "prod-1"
	fxSKU        = "SKU-CAFE-500"
	fxBarcode    = "7701234567890"
	fxLocRecep   = "loc-recepcion"
	fxLocRack    = "loc-rack-a1"
	fxLocExp     = "loc-expedicion"
	fxChariotID  = "chariot-1"
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	txRunner := memory.NewTxRunner(store, 2*time.Second)
	reader := memory.NewLedgerRepository(store)
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	ledgerUC := ledger.NewStockLedgerUseCase(txRunner, reader, log)

	taskRepo := memory.NewTaskRepository(store)
	productRepo := memory.NewProductRepository(store)
	barcodeRepo := memory.NewBarcodeRepository(store)
	locationRepo := memory.NewLocationRepository(store)
	userRepo := memory.NewUserRepository(store)
	chariotRepo := memory.NewChariotRepository(store)
	discrepancyRepo := memory.NewDiscrepancyRepository(store)

	require.NoError(t, userRepo.Create(&entity.User{
		ID: fxOperarioID, Username: fxOperario, Role: entity.RoleOperario, Active: true,
	}))
	require.NoError(t, userRepo.Create(&entity.User{
		ID: fxOtroID, Username: "operario2", Role: entity.RoleOperario, Active: true,
	}))
	require.NoError(t, productRepo.Create(&entity.Product{
		ID: fxProductID, SKU: fxSKU, Name: "Café molido 500g", UnitOfMeasure: "UN", Active: true,
	}))
	require.NoError(t, barcodeRepo.Create(&entity.ProductBarcode{
		ID: "bc-1", ProductID: fxProductID, Barcode: fxBarcode,
	}))
	for _, loc := range []*entity.Location{
		{ID: fxLocRecep, Code: "REC-01", WarehouseID: "wh-1", Type: entity.LocationTypeReceiving, Active: true},
		{ID: fxLocRack, Code: "RACK-A1", WarehouseID: "wh-1", Type: entity.LocationTypeStorage, Active: true},
		{ID: fxLocExp, Code: "EXP-01", WarehouseID: "wh-1", Type: entity.LocationTypeExpedition, Active: true},
	} {
		require.NoError(t, locationRepo.Create(loc))
	}
	require.NoError(t, chariotRepo.Create(&entity.Chariot{
		ID: fxChariotID, Code: "CAR-01", Available: true,
	}))

	uc := workflow.NewOperationUseCase(
		taskRepo, productRepo, barcodeRepo, locationRepo,
		userRepo, chariotRepo, discrepancyRepo, ledgerUC, log,
	)
	return &fixture{store: store, txRunner: txRunner, ledgerUC: ledgerUC, taskRepo: taskRepo, uc: uc}
}

// seedTask crea una tarea PENDING asignada al operario del fixture.
func (f *fixture) seedTask(t *testing.T, taskType string, lines ...*entity.TaskLine) *entity.Task {
	t.Helper()
	task := &entity.Task{
		ID:         "task-" + taskType,
		Type:       taskType,
		Reference:  taskType + "-TEST01",
		Status:     entity.TaskStatusPending,
		Priority:   entity.PriorityMedium,
		CreatedBy:  "user-supervisor",
		AssignedTo: fxOperarioID,
		Lines:      lines,
		CreatedAt:  time.Now(),
	}
	for i, line := range lines {
		line.ID = task.ID + "-line-" + string(rune('1'+i))
		line.TaskID = task.ID
	}
	require.NoError(t, f.taskRepo.Create(task))
	return task
}

// startTask lleva la tarea a IN_PROGRESS vía el propio motor.
func (f *fixture) startTask(t *testing.T, taskID string) {
	t.Helper()
	_, err := f.uc.StartOperation(context.Background(), fxOperario, dto.StartOperationRequest{TaskID: taskID})
	require.NoError(t, err)
}

// seedStock deposita saldo inicial en un par vía el ledger.
func (f *fixture) seedStock(t *testing.T, locationID string, qty int) {
	t.Helper()
	_, err := f.ledgerUC.RecordIn(context.Background(), ledger.MovementInput{
		ProductID: fxProductID, LocationID: locationID, Quantity: qty,
		TaskID: "task-seed", PerformedBy: "user-supervisor",
	})
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, locationID string) int {
	t.Helper()
	balance, err := f.ledgerUC.GetCurrentBalance(fxProductID, locationID)
	require.NoError(t, err)
	return balance
}

func receiptLine(qty int) *entity.TaskLine {
	return &entity.TaskLine{LineNumber: 1, ProductID: fxProductID, Quantity: qty, DestinationLocationID: fxLocRecep}
}

func transferLine(qty int) *entity.TaskLine {
	return &entity.TaskLine{LineNumber: 1, ProductID: fxProductID, Quantity: qty, SourceLocationID: fxLocRecep, DestinationLocationID: fxLocRack}
}

func deliveryLine(qty int) *entity.TaskLine {
	return &entity.TaskLine{LineNumber: 1, ProductID: fxProductID, Quantity: qty, SourceLocationID: fxLocExp}
}

func execReq(taskID string, qty int) dto.ExecuteLineRequest {
	return dto.ExecuteLineRequest{TaskID: taskID, LineNumber: 1, Barcode: fxSKU, Quantity: qty}
}

// ──────────────────────────────────────────────────────────────────────────────
// StartOperation
// ──────────────────────────────────────────────────────────────────────────────

func TestStartOperation_PendingPasaAInProgress(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t, entity.TaskTypeReceipt, receiptLine(5))

	resp, err := f.uc.StartOperation(context.Background(), fxOperario, dto.StartOperationRequest{TaskID: task.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusInProgress, resp.Status)
	assert.False(t, resp.StartedAt.IsZero())

	stored, err := f.taskRepo.GetByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusInProgress, stored.Status)
	require.NotNil(t, stored.StartedAt)
}

// Doble start: la tarea ya IN_PROGRESS no se re-inicia.
func TestStartOperation_DobleStart_Rechazado(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t, entity.TaskTypeReceipt, receiptLine(5))
	f.startTask(t, task.ID)

	_, err := f.uc.StartOperation(context.Background(), fxOperario, dto.StartOperationRequest{TaskID: task.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestStartOperation_TareaDeOtroOperario_ErrNotAssigned(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t, entity.TaskTypeReceipt, receiptLine(5))
	task.AssignedTo = fxOtroID
	require.NoError(t, f.taskRepo.Update(task))

	_, err := f.uc.StartOperation(context.Background(), fxOperario, dto.StartOperationRequest{TaskID: task.ID})
	assert.ErrorIs(t, err, domain.ErrNotAssigned)
}

func TestStartOperation_TareaSinAsignar_ErrNotAssigned(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t, entity.TaskTypeReceipt, receiptLine(5))
	task.AssignedTo = ""
	require.NoError(t, f.taskRepo.Update(task))

	_, err := f.uc.StartOperation(context.Background(), fxOperario, dto.StartOperationRequest{TaskID: task.ID})
	assert.ErrorIs(t, err, domain.ErrNotAssigned)
}

func TestStartOperation_TareaInexistente_ErrNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.StartOperation(context.Background(), fxOperario, dto.StartOperationRequest{TaskID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStartOperation_ConChariot(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t, entity.TaskTypeReceipt, receiptLine(5))

	_, err := f.uc.StartOperation(context.Background(), fxOperario, dto.StartOperationRequest{
		TaskID: task.ID, ChariotID: fxChariotID,
	})
	require.NoError(t, err)

	stored, err := f.taskRepo.GetByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, fxChariotID, stored.ChariotID)
}

func TestStartOperation_ChariotInexistente_ErrNotFound(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t, entity.TaskTypeReceipt, receiptLine(5))

	_, err := f.uc.StartOperation(context.Background(), fxOperario, dto.StartOperationRequest{
		TaskID: task.ID, ChariotID: "no-existe",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stored, err := f.taskRepo.GetByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusPending, stored.Status, "el estado no debe cambiar en fallo")
}

// ──────────────────────────────────────────────────────────────────────────────
// ExecuteLine: validaciones previas al movimiento
// ──────────────────────────────────────────────────────────────────────────────

func TestExecuteLine_TareaNoIniciada_Rechazada(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t, entity.TaskTypeReceipt, receiptLine(5))

	_, err := f.uc.ExecuteLine(context.Background(), fxOperario, execReq(task.ID, 5))
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.Equal(t, 0, f.balance(t, fxLocRecep), "no debe haber movimiento en el ledger")
}

func TestExecuteLine_LineaInexistente_ErrNotFound(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t, entity.TaskTypeReceipt, receiptLine(5))
	f.startTask(t, task.ID)

	in := execReq(task.ID, 5)
	in.LineNumber = 99
	_, err := f.uc.ExecuteLine(context.Background(), fxOperario, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// El escaneo acepta el SKU principal (case-insensitive) o un código alterno
// registrado; cualquier otro código es ErrWrongProduct sin movimiento.
func TestExecuteLine_ValidacionDeEscaneo(t *testing.T) {
	cases := []struct {
		name    string
		barcode string
		wantErr error
	}{
		{"sku principal", fxSKU, nil},
		{"sku en minúsculas", "sku-cafe-500", nil},
		{"código alterno", fxBarcode, nil},
		{"código de otro producto", "0000000000000", domain.ErrWrongProduct},
		{"escaneo vacío", "", domain.ErrWrongProduct},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			task := f.seedTask(t, entity.TaskTypeReceipt, receiptLine(5))
			f.startTask(t, task.ID)

			in := execReq(task.ID, 5)
			in.Barcode = tc.barcode
			_, err := f.uc.ExecuteLine(context.Background(), fxOperario, in)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, 0, f.balance(t, fxLocRecep))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 5, f.balance(t, fxLocRecep))
		})
	}
}

// La cantidad confirmada debe coincidir exacta con la instruida; una diferencia
// se reporta como incidencia, nunca se ejecuta parcial.
func TestExecuteLine_CantidadDistinta_Rechazada(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t, entity.TaskTypeReceipt, receiptLine(5))
	f.startTask(t, task.ID)

	for _, qty := range []int{0, -1, 4, 6} {
		_, err := f.uc.ExecuteLine(context.Background(), fxOperario, execReq(task.ID, qty))
		assert.ErrorIs(t, err, domain.ErrInvalidOperation, "cantidad %d", qty)
	}
	assert.Equal(t, 0, f.balance(t, fxLocRecep))
}

// ──────────────────────────────────────────────────────────────────────────────
// Políticas de movimiento
// ──────────────────────────────────────────────────────────────────────────────

func TestExecuteLine_Recepcion_INEnDestino(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t, entity.TaskTypeReceipt, receiptLine(12))
	f.startTask(t, task.ID)

	resp, err := f.uc.ExecuteLine(context.Background(), fxOperario, execReq(task.ID, 12))
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", resp.Status)
	assert.Equal(t, fxSKU, resp.Product.SKU)
	assert.Equal(t, 12, f.balance(t, fxLocRecep))
}

func TestExecuteLine_Recepcion_SinDestino_Rechazada(t *testing.T) {
	f := newFixture(t)
	line := &entity.TaskLine{LineNumber: 1, ProductID: fxProductID, Quantity: 5}
	task := f.seedTask(t, entity.TaskTypeReceipt, line)
	f.startTask(t, task.ID)

	_, err := f.uc.ExecuteLine(context.Background(), fxOperario, execReq(task.ID, 5))
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestExecuteLine_Traslado_OUTOrigenINDestino(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, fxLocRecep, 20)
	task := f.seedTask(t, entity.TaskTypeTransfer, transferLine(8))
	f.startTask(t, task.ID)

	_, err := f.uc.ExecuteLine(context.Background(), fxOperario, execReq(task.ID, 8))
	require.NoError(t, err)
	assert.Equal(t, 12, f.balance(t, fxLocRecep))
	assert.Equal(t, 8, f.balance(t, fxLocRack))

	// El ledger debe atar ambos movimientos a la tarea.
	reader := memory.NewLedgerRepository(f.store)
	entries, err := reader.ListByTask(task.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "OUT", entries[0].MovementType)
	assert.Equal(t, "IN", entries[1].MovementType)
}

func TestExecuteLine_Traslado_SinStock_Rechazado(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, fxLocRecep, 3)
	task := f.seedTask(t, entity.TaskTypeTransfer, transferLine(8))
	f.startTask(t, task.ID)

	_, err := f.uc.ExecuteLine(context.Background(), fxOperario, execReq(task.ID, 8))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 3, f.balance(t, fxLocRecep), "el origen no debe tocarse")
	assert.Equal(t, 0, f.balance(t, fxLocRack))
}

// Picking emite el mismo par OUT/IN que el traslado.
func TestExecuteLine_Picking_MueveAlRack(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, fxLocRecep, 10)
	line := &entity.TaskLine{LineNumber: 1, ProductID: fxProductID, Quantity: 4, SourceLocationID: fxLocRecep, DestinationLocationID: fxLocRack}
	task := f.seedTask(t, entity.TaskTypePicking, line)
	f.startTask(t, task.ID)

	_, err := f.uc.ExecuteLine(context.Background(), fxOperario, execReq(task.ID, 4))
	require.NoError(t, err)
	assert.Equal(t, 6, f.balance(t, fxLocRecep))
	assert.Equal(t, 4, f.balance(t, fxLocRack))
}

func TestExecuteLine_Expedicion_OUTDelOrigen(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, fxLocExp, 15)
	task := f.seedTask(t, entity.TaskTypeDelivery, deliveryLine(15))
	f.startTask(t, task.ID)

	_, err := f.uc.ExecuteLine(context.Background(), fxOperario, execReq(task.ID, 15))
	require.NoError(t, err)
	assert.Equal(t, 0, f.balance(t, fxLocExp))
}

func TestExecuteLine_Expedicion_SinStock_Rechazada(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, fxLocExp, 2)
	task := f.seedTask(t, entity.TaskTypeDelivery, deliveryLine(15))
	f.startTask(t, task.ID)

	_, err := f.uc.ExecuteLine(context.Background(), fxOperario, execReq(task.ID, 15))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, f.balance(t, fxLocExp))
}

// Una tarea ADJUSTMENT nunca se ejecuta línea a línea: los ajustes van solo por
// la ruta administrativa.
func TestExecuteLine_TareaAjuste_Rechazada(t *testing.T) {
	f := newFixture(t)
	line := &entity.TaskLine{LineNumber: 1, ProductID: fxProductID, Quantity: 5, DestinationLocationID: fxLocRack}
	task := f.seedTask(t, entity.TaskTypeAdjustment, line)
	f.startTask(t, task.ID)

	_, err := f.uc.ExecuteLine(context.Background(), fxOperario, execReq(task.ID, 5))
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.Equal(t, 0, f.balance(t, fxLocRack))
}

// Override de emplazamiento por código: el operario escanea otro rack destino.
func TestExecuteLine_OverrideDestinoPorCodigo(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t, entity.TaskTypeReceipt, receiptLine(5))
	f.startTask(t, task.ID)

	in := execReq(task.ID, 5)
	in.DestinationLocationCode = "RACK-A1"
	_, err := f.uc.ExecuteLine(context.Background(), fxOperario, in)
	require.NoError(t, err)
	assert.Equal(t, 5, f.balance(t, fxLocRack), "el IN debe caer en el rack del override")
	assert.Equal(t, 0, f.balance(t, fxLocRecep))
}

func TestExecuteLine_OverrideCodigoInexistente_ErrNotFound(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t, entity.TaskTypeReceipt, receiptLine(5))
	f.startTask(t, task.ID)

	in := execReq(task.ID, 5)
	in.DestinationLocationCode = "NO-EXISTE"
	_, err := f.uc.ExecuteLine(context.Background(), fxOperario, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Compensación de traslado
// ──────────────────────────────────────────────────────────────────────────────

// Si el IN en destino falla después del OUT confirmado, el motor emite un IN
// compensatorio sobre el origen: el saldo del origen queda restaurado y el
// error original se propaga. Se fuerza el fallo reteniendo el lock del par
// destino hasta superar el timeout.
func TestExecuteLine_Traslado_CompensaElOrigenSiFallaElDestino(t *testing.T) {
	store := memory.NewStore()
	txRunner := memory.NewTxRunner(store, 150*time.Millisecond)
	reader := memory.NewLedgerRepository(store)
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	ledgerUC := ledger.NewStockLedgerUseCase(txRunner, reader, log)

	f := &fixture{store: store, txRunner: txRunner, ledgerUC: ledgerUC, taskRepo: memory.NewTaskRepository(store)}
	productRepo := memory.NewProductRepository(store)
	barcodeRepo := memory.NewBarcodeRepository(store)
	locationRepo := memory.NewLocationRepository(store)
	userRepo := memory.NewUserRepository(store)
	chariotRepo := memory.NewChariotRepository(store)
	discrepancyRepo := memory.NewDiscrepancyRepository(store)

	require.NoError(t, userRepo.Create(&entity.User{ID: fxOperarioID, Username: fxOperario, Role: entity.RoleOperario, Active: true}))
	require.NoError(t, productRepo.Create(&entity.Product{ID: fxProductID, SKU: fxSKU, Name: "Café molido 500g", Active: true}))
	require.NoError(t, locationRepo.Create(&entity.Location{ID: fxLocRecep, Code: "REC-01", WarehouseID: "wh-1", Type: entity.LocationTypeReceiving, Active: true}))
	require.NoError(t, locationRepo.Create(&entity.Location{ID: fxLocRack, Code: "RACK-A1", WarehouseID: "wh-1", Type: entity.LocationTypeStorage, Active: true}))

	f.uc = workflow.NewOperationUseCase(
		f.taskRepo, productRepo, barcodeRepo, locationRepo,
		userRepo, chariotRepo, discrepancyRepo, ledgerUC, log,
	)

	f.seedStock(t, fxLocRecep, 10)
	task := f.seedTask(t, entity.TaskTypeTransfer, transferLine(6))
	f.startTask(t, task.ID)

	// Retener el lock del par destino para que el IN del traslado expire.
	blocked := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = txRunner.Run(context.Background(), func(repo repository.StockLedgerRepository) error {
			_, err := repo.GetLatestForUpdate(fxProductID, fxLocRack)
			close(blocked)
			<-release
			return err
		})
	}()
	<-blocked
	defer close(release)

	_, err := f.uc.ExecuteLine(context.Background(), fxOperario, execReq(task.ID, 6))
	assert.ErrorIs(t, err, domain.ErrContention)

	assert.Equal(t, 10, f.balance(t, fxLocRecep), "la compensación debe restaurar el origen")
	assert.Equal(t, 0, f.balance(t, fxLocRack))

	// El historial conserva la evidencia: OUT y el IN compensatorio.
	entries, err := reader.ListByTask(task.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "OUT", entries[0].MovementType)
	assert.Equal(t, "IN", entries[1].MovementType)
	assert.Equal(t, fxLocRecep, entries[1].LocationID)
}

// ──────────────────────────────────────────────────────────────────────────────
// ReportIssue
// ──────────────────────────────────────────────────────────────────────────────

func TestReportIssue_CreaIncidencia(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t, entity.TaskTypePicking, transferLine(5))
	f.startTask(t, task.ID)

	lineNumber := 1
	expected, actual := 5, 3
	resp, err := f.uc.ReportIssue(fxOperario, dto.ReportIssueRequest{
		TaskID:           task.ID,
		LineNumber:       &lineNumber,
		ProductID:        fxProductID,
		IssueType:        "missing",
		ExpectedQuantity: &expected,
		ActualQuantity:   &actual,
		Notes:            "faltan 2 unidades en el rack",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.DiscrepancyID)

	repo := memory.NewDiscrepancyRepository(f.store)
	list, err := repo.ListByTask(task.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.IssueTypeMissing, list[0].IssueType, "el tipo se normaliza a mayúsculas")
	assert.Equal(t, task.Lines[0].ID, list[0].TaskLineID)
	assert.Equal(t, fxOperarioID, list[0].ReportedBy)
}

// Reportar funciona en cualquier estado de la tarea: también en PENDING.
func TestReportIssue_TareaSinIniciar_Permitido(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t, entity.TaskTypeReceipt, receiptLine(5))

	_, err := f.uc.ReportIssue(fxOperario, dto.ReportIssueRequest{
		TaskID: task.ID, ProductID: fxProductID, IssueType: entity.IssueTypeDamaged,
	})
	assert.NoError(t, err)
}

func TestReportIssue_TipoInvalido_ErrInvalidInput(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t, entity.TaskTypeReceipt, receiptLine(5))

	_, err := f.uc.ReportIssue(fxOperario, dto.ReportIssueRequest{
		TaskID: task.ID, ProductID: fxProductID, IssueType: "ROTO",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Una incidencia nunca toca el ledger.
func TestReportIssue_NoTocaElLedger(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, fxLocRack, 7)
	task := f.seedTask(t, entity.TaskTypeReceipt, receiptLine(5))

	_, err := f.uc.ReportIssue(fxOperario, dto.ReportIssueRequest{
		TaskID: task.ID, ProductID: fxProductID, IssueType: entity.IssueTypeExcess,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, f.balance(t, fxLocRack))
}

// ──────────────────────────────────────────────────────────────────────────────
// CompleteOperation
// ──────────────────────────────────────────────────────────────────────────────

func TestCompleteOperation_CierraConCompleted(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t, entity.TaskTypeReceipt, receiptLine(5))
	f.startTask(t, task.ID)

	resp, err := f.uc.CompleteOperation(fxOperario, task.ID, dto.CompleteOperationRequest{
		Status: "completed", Notes: "todo recibido",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusCompleted, resp.Status, "el estado se normaliza a mayúsculas")

	stored, err := f.taskRepo.GetByID(task.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CompletedAt)
	assert.Equal(t, "todo recibido", stored.Notes)
}

func TestCompleteOperation_CierraConFailed(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t, entity.TaskTypeReceipt, receiptLine(5))
	f.startTask(t, task.ID)

	resp, err := f.uc.CompleteOperation(fxOperario, task.ID, dto.CompleteOperationRequest{Status: entity.TaskStatusFailed})
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusFailed, resp.Status)
}

func TestCompleteOperation_EstadoInvalido_Rechazado(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t, entity.TaskTypeReceipt, receiptLine(5))
	f.startTask(t, task.ID)

	for _, status := range []string{"", "CANCELLED", "PENDING", "DONE"} {
		_, err := f.uc.CompleteOperation(fxOperario, task.ID, dto.CompleteOperationRequest{Status: status})
		assert.ErrorIs(t, err, domain.ErrInvalidOperation, "status %q", status)
	}
}

// Una tarea terminal no se re-cierra.
func TestCompleteOperation_TareaTerminal_Rechazada(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t, entity.TaskTypeReceipt, receiptLine(5))
	f.startTask(t, task.ID)

	_, err := f.uc.CompleteOperation(fxOperario, task.ID, dto.CompleteOperationRequest{Status: entity.TaskStatusCompleted})
	require.NoError(t, err)

	_, err = f.uc.CompleteOperation(fxOperario, task.ID, dto.CompleteOperationRequest{Status: entity.TaskStatusFailed})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Bandeja y detalle
// ──────────────────────────────────────────────────────────────────────────────

func TestGetMyTasks_SoloLasDelOperario(t *testing.T) {
	f := newFixture(t)
	f.seedTask(t, entity.TaskTypeReceipt, receiptLine(5))

	otra := &entity.Task{
		ID: "task-ajena", Type: entity.TaskTypePicking, Reference: "PCK-AJENA01",
		Status: entity.TaskStatusPending, Priority: entity.PriorityHigh,
		AssignedTo: fxOtroID, CreatedAt: time.Now(),
	}
	require.NoError(t, f.taskRepo.Create(otra))

	cards, err := f.uc.GetMyTasks(fxOperario, "", 50, 0)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "task-RECEIPT", cards[0].ID)
	assert.Equal(t, 1, cards[0].LinesCount)
}

func TestGetMyTasks_FiltraPorEstado(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t, entity.TaskTypeReceipt, receiptLine(5))
	f.startTask(t, task.ID)

	cards, err := f.uc.GetMyTasks(fxOperario, "pending", 50, 0)
	require.NoError(t, err)
	assert.Empty(t, cards)

	cards, err = f.uc.GetMyTasks(fxOperario, "in_progress", 50, 0)
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestGetTaskDetails_ResuelveProductoYEmplazamientos(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t, entity.TaskTypeTransfer, transferLine(8))

	details, err := f.uc.GetTaskDetails(fxOperario, task.ID)
	require.NoError(t, err)
	require.Len(t, details.Lines, 1)
	line := details.Lines[0]
	assert.Equal(t, fxSKU, line.Product.SKU)
	require.NotNil(t, line.SourceLocation)
	assert.Equal(t, "REC-01", line.SourceLocation.Code)
	require.NotNil(t, line.DestinationLocation)
	assert.Equal(t, "RACK-A1", line.DestinationLocation.Code)
}

func TestGetTaskDetails_TareaAjena_ErrNotAssigned(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t, entity.TaskTypeReceipt, receiptLine(5))
	task.AssignedTo = fxOtroID
	require.NoError(t, f.taskRepo.Update(task))

	_, err := f.uc.GetTaskDetails(fxOperario, task.ID)
	assert.ErrorIs(t, err, domain.ErrNotAssigned)
}
