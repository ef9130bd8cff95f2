package workflow

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

// OperationUseCase es el motor de workflow de operaciones: lleva una tarea
// asignada por su ciclo de vida (inicio → ejecución línea a línea → cierre),
// valida identidad escaneada y estado, despacha cada línea a su política de
// movimiento y registra incidencias. Es el único que muta tareas; el ledger lo
// muta solo el StockLedgerUseCase.
type OperationUseCase struct {
	taskRepo        repository.TaskRepository
	productRepo     repository.ProductRepository
	barcodeRepo     repository.BarcodeRepository
	locationRepo    repository.LocationRepository
	userRepo        repository.UserRepository
	chariotRepo     repository.ChariotRepository
	discrepancyRepo repository.DiscrepancyRepository
	ledgerUC        *ledger.StockLedgerUseCase
	log             *logger.Logger
}

// NewOperationUseCase construye el motor de workflow.
func NewOperationUseCase(
	taskRepo repository.TaskRepository,
	productRepo repository.ProductRepository,
	barcodeRepo repository.BarcodeRepository,
	locationRepo repository.LocationRepository,
	userRepo repository.UserRepository,
	chariotRepo repository.ChariotRepository,
	discrepancyRepo repository.DiscrepancyRepository,
	ledgerUC *ledger.StockLedgerUseCase,
	log *logger.Logger,
) *OperationUseCase {
	return &OperationUseCase{
		taskRepo:        taskRepo,
		productRepo:     productRepo,
		barcodeRepo:     barcodeRepo,
		locationRepo:    locationRepo,
		userRepo:        userRepo,
		chariotRepo:     chariotRepo,
		discrepancyRepo: discrepancyRepo,
		ledgerUC:        ledgerUC,
		log:             log,
	}
}

// StartOperation pasa una tarea PENDING asignada al operario a IN_PROGRESS y
// registra el inicio. Una tarea ya iniciada o terminal no se re-inicia: el
// doble start es ErrInvalidOperation, no un reinicio silencioso.
func (uc *OperationUseCase) StartOperation(ctx context.Context, username string, in dto.StartOperationRequest) (*dto.StartOperationResponse, error) {
	task, _, err := uc.assignedTask(username, in.TaskID)
	if err != nil {
		return nil, err
	}
	if task.Status != entity.TaskStatusPending {
		return nil, domain.ErrInvalidOperation
	}
	if in.ChariotID != "" {
		chariot, err := uc.chariotRepo.GetByID(in.ChariotID)
		if err != nil {
			return nil, err
		}
		if chariot == nil {
			return nil, domain.ErrNotFound
		}
		task.ChariotID = chariot.ID
	}
	now := time.Now()
	task.Status = entity.TaskStatusInProgress
	task.StartedAt = &now
	if err := uc.taskRepo.Update(task); err != nil {
		return nil, err
	}
	uc.log.Info().Str("task_id", task.ID).Str("type", task.Type).Str("worker", username).Msg("operación iniciada")
	return &dto.StartOperationResponse{
		TaskID:    task.ID,
		Type:      task.Type,
		Status:    task.Status,
		StartedAt: now,
	}, nil
}

// ExecuteLine ejecuta una línea escaneada: exige tarea IN_PROGRESS, resuelve la
// línea por número, valida la identidad escaneada contra el producto esperado y
// despacha a la política del tipo de tarea. En fallo no queda ningún cambio en
// la tarea ni en la línea; el efecto sobre el ledger es el de las llamadas que
// alcanzaron a confirmar (ver compensación en policies.go).
func (uc *OperationUseCase) ExecuteLine(ctx context.Context, username string, in dto.ExecuteLineRequest) (*dto.ExecuteLineResponse, error) {
	task, user, err := uc.assignedTask(username, in.TaskID)
	if err != nil {
		return nil, err
	}
	if task.Status != entity.TaskStatusInProgress {
		return nil, domain.ErrInvalidOperation
	}
	line := task.LineByNumber(in.LineNumber)
	if line == nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(line.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.validateScannedBarcode(product, in.Barcode); err != nil {
		return nil, err
	}
	// La cantidad confirmada debe coincidir con la instruida; una diferencia
	// física se reporta como incidencia, no se ejecuta parcial.
	if in.Quantity <= 0 || in.Quantity != line.Quantity {
		return nil, domain.ErrInvalidOperation
	}
	execLine, err := uc.lineWithOverrides(line, in)
	if err != nil {
		return nil, err
	}
	policy, err := policyForType(uc.ledgerUC, task.Type)
	if err != nil {
		return nil, err
	}
	if err := policy.apply(ctx, task, execLine, user.ID); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("task_id", task.ID).
		Int("line", line.LineNumber).
		Str("sku", product.SKU).
		Int("quantity", line.Quantity).
		Msg("línea ejecutada")
	return &dto.ExecuteLineResponse{
		LineNumber: line.LineNumber,
		Status:     "COMPLETED",
		Product:    toProductSummary(product),
		Message:    "línea procesada y stock actualizado",
	}, nil
}

// ReportIssue registra una incidencia contra la tarea. Funciona en cualquier
// estado de la tarea y nunca toca el ledger: es la ruta de recuperación.
func (uc *OperationUseCase) ReportIssue(username string, in dto.ReportIssueRequest) (*dto.ReportIssueResponse, error) {
	task, user, err := uc.assignedTask(username, in.TaskID)
	if err != nil {
		return nil, err
	}
	if !entity.ValidIssueType(strings.ToUpper(strings.TrimSpace(in.IssueType))) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	var lineID string
	if in.LineNumber != nil {
		if line := task.LineByNumber(*in.LineNumber); line != nil {
			lineID = line.ID
		}
	}
	d := &entity.TaskDiscrepancy{
		ID:               uuid.New().String(),
		TaskID:           task.ID,
		TaskLineID:       lineID,
		ProductID:        product.ID,
		IssueType:        strings.ToUpper(strings.TrimSpace(in.IssueType)),
		ExpectedQuantity: in.ExpectedQuantity,
		ActualQuantity:   in.ActualQuantity,
		ReportedBy:       user.ID,
		ReportedAt:       time.Now(),
		Notes:            in.Notes,
	}
	if err := uc.discrepancyRepo.Create(d); err != nil {
		return nil, err
	}
	uc.log.Warn().
		Str("task_id", task.ID).
		Str("issue", d.IssueType).
		Str("product_id", d.ProductID).
		Msg("incidencia reportada")
	return &dto.ReportIssueResponse{DiscrepancyID: d.ID, ReportedAt: d.ReportedAt}, nil
}

// CompleteOperation cierra la tarea con COMPLETED o FAILED. Cualquier otro
// estado destino es ErrInvalidOperation; una tarea ya terminal no se re-cierra.
// O se actualiza todo (estado + timestamp + notas) o nada.
func (uc *OperationUseCase) CompleteOperation(username, taskID string, in dto.CompleteOperationRequest) (*dto.CompleteOperationResponse, error) {
	task, _, err := uc.assignedTask(username, taskID)
	if err != nil {
		return nil, err
	}
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if status != entity.TaskStatusCompleted && status != entity.TaskStatusFailed {
		return nil, domain.ErrInvalidOperation
	}
	if task.IsTerminal() {
		return nil, domain.ErrInvalidOperation
	}
	now := time.Now()
	task.Status = status
	task.CompletedAt = &now
	if in.Notes != "" {
		task.Notes = in.Notes
	}
	if err := uc.taskRepo.Update(task); err != nil {
		return nil, err
	}
	uc.log.Info().Str("task_id", task.ID).Str("status", status).Str("worker", username).Msg("operación cerrada")
	return &dto.CompleteOperationResponse{TaskID: task.ID, Status: task.Status, CompletedAt: now}, nil
}

// GetMyTasks lista las tareas asignadas al operario, opcionalmente filtradas
// por estado, más recientes primero.
func (uc *OperationUseCase) GetMyTasks(username, statusFilter string, limit, offset int) ([]dto.TaskCard, error) {
	user, err := uc.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	status := strings.ToUpper(strings.TrimSpace(statusFilter))
	tasks, err := uc.taskRepo.ListByAssignee(user.ID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	cards := make([]dto.TaskCard, 0, len(tasks))
	for _, t := range tasks {
		cards = append(cards, dto.TaskCard{
			ID:         t.ID,
			Type:       t.Type,
			Reference:  t.Reference,
			Status:     t.Status,
			Priority:   t.Priority,
			LinesCount: len(t.Lines),
			AssignedAt: t.AssignedAt,
		})
	}
	return cards, nil
}

// GetTaskDetails devuelve el detalle de una tarea asignada al operario,
// incluyendo sus líneas con producto y emplazamientos resueltos.
func (uc *OperationUseCase) GetTaskDetails(username, taskID string) (*dto.TaskDetails, error) {
	task, _, err := uc.assignedTask(username, taskID)
	if err != nil {
		return nil, err
	}
	details := &dto.TaskDetails{
		ID:        task.ID,
		Type:      task.Type,
		Reference: task.Reference,
		Status:    task.Status,
		Priority:  task.Priority,
		Notes:     task.Notes,
		Lines:     make([]dto.TaskLineDetail, 0, len(task.Lines)),
	}
	for _, line := range task.Lines {
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		item := dto.TaskLineDetail{
			LineNumber: line.LineNumber,
			Quantity:   line.Quantity,
		}
		if product != nil {
			item.Product = toProductSummary(product)
		}
		if line.SourceLocationID != "" {
			if loc, err := uc.locationRepo.GetByID(line.SourceLocationID); err == nil && loc != nil {
				item.SourceLocation = &dto.LocationSummary{ID: loc.ID, Code: loc.Code, Type: loc.Type}
			}
		}
		if line.DestinationLocationID != "" {
			if loc, err := uc.locationRepo.GetByID(line.DestinationLocationID); err == nil && loc != nil {
				item.DestinationLocation = &dto.LocationSummary{ID: loc.ID, Code: loc.Code, Type: loc.Type}
			}
		}
		details.Lines = append(details.Lines, item)
	}
	return details, nil
}

// assignedTask resuelve la tarea y verifica que esté asignada al operario que
// llama. Tarea inexistente es ErrNotFound; asignada a otro (o a nadie) es
// ErrNotAssigned.
func (uc *OperationUseCase) assignedTask(username, taskID string) (*entity.Task, *entity.User, error) {
	user, err := uc.userRepo.GetByUsername(username)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, domain.ErrNotFound
	}
	task, err := uc.taskRepo.GetByID(taskID)
	if err != nil {
		return nil, nil, err
	}
	if task == nil {
		return nil, nil, domain.ErrNotFound
	}
	if task.AssignedTo == "" || task.AssignedTo != user.ID {
		return nil, nil, domain.ErrNotAssigned
	}
	return task, user, nil
}

// validateScannedBarcode acepta el SKU principal (sin distinguir mayúsculas) o
// cualquier código alterno registrado del producto esperado. Cualquier otra
// cosa es ErrWrongProduct y no se muta nada.
func (uc *OperationUseCase) validateScannedBarcode(product *entity.Product, scanned string) error {
	code := strings.TrimSpace(scanned)
	if code == "" {
		return domain.ErrWrongProduct
	}
	if strings.EqualFold(product.SKU, code) {
		return nil
	}
	barcode, err := uc.barcodeRepo.GetByCode(code)
	if err != nil {
		return err
	}
	if barcode == nil || barcode.ProductID != product.ID {
		return domain.ErrWrongProduct
	}
	return nil
}

// lineWithOverrides aplica los overrides de emplazamiento del request (por
// código) sobre una copia de la línea; la línea persistida nunca se muta.
func (uc *OperationUseCase) lineWithOverrides(line *entity.TaskLine, in dto.ExecuteLineRequest) (*entity.TaskLine, error) {
	if in.SourceLocationCode == "" && in.DestinationLocationCode == "" {
		return line, nil
	}
	copied := *line
	if in.SourceLocationCode != "" {
		loc, err := uc.locationRepo.GetByCode(in.SourceLocationCode)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, domain.ErrNotFound
		}
		copied.SourceLocationID = loc.ID
	}
	if in.DestinationLocationCode != "" {
		loc, err := uc.locationRepo.GetByCode(in.DestinationLocationCode)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, domain.ErrNotFound
		}
		copied.DestinationLocationID = loc.ID
	}
	return &copied, nil
}

func toProductSummary(p *entity.Product) dto.ProductSummary {
	return dto.ProductSummary{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		UnitOfMeasure: p.UnitOfMeasure,
	}
}
