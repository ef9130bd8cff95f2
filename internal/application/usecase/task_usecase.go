package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// Prefijos de referencia por tipo de tarea.
var taskReferencePrefix = map[string]string{
	entity.TaskTypeReceipt:    "RCV",
	entity.TaskTypeTransfer:   "TRF",
	entity.TaskTypePicking:    "PCK",
	entity.TaskTypeDelivery:   "DLV",
	entity.TaskTypeAdjustment: "ADJ",
}

// NewTaskReference genera una referencia legible y única, ej. TRF-4F2A91BC.
func NewTaskReference(taskType string) string {
	prefix, ok := taskReferencePrefix[taskType]
	if !ok {
		prefix = "TSK"
	}
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return prefix + "-" + raw[:8]
}

// TaskUseCase casos de uso administrativos de tareas: creación, asignación,
// actualización y cancelación. El ciclo de vida operativo (start/execute/
// complete) es del motor de workflow, no de aquí.
type TaskUseCase struct {
	taskRepo     repository.TaskRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	userRepo     repository.UserRepository
	chariotRepo  repository.ChariotRepository
	log          *logger.Logger
}

// NewTaskUseCase construye el caso de uso.
func NewTaskUseCase(
	taskRepo repository.TaskRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	userRepo repository.UserRepository,
	chariotRepo repository.ChariotRepository,
	log *logger.Logger,
) *TaskUseCase {
	return &TaskUseCase{
		taskRepo:     taskRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		userRepo:     userRepo,
		chariotRepo:  chariotRepo,
		log:          log,
	}
}

// Create crea una tarea con sus líneas. Las tareas de ajuste no se crean por
// aquí: nacen ya completadas desde el ajuste administrativo de inventario.
// Nace DRAFT sin asignar o PENDING si trae operario.
func (uc *TaskUseCase) Create(createdBy string, in dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	taskType := strings.ToUpper(strings.TrimSpace(in.Type))
	switch taskType {
	case entity.TaskTypeReceipt, entity.TaskTypeTransfer, entity.TaskTypePicking, entity.TaskTypeDelivery:
	default:
		return nil, domain.ErrInvalidInput
	}
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	priority := strings.ToUpper(strings.TrimSpace(in.Priority))
	if priority == "" {
		priority = entity.PriorityMedium
	}
	if !validPriority(priority) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	task := &entity.Task{
		ID:        uuid.New().String(),
		Type:      taskType,
		Reference: NewTaskReference(taskType),
		Status:    entity.TaskStatusDraft,
		Priority:  priority,
		CreatedBy: createdBy,
		Notes:     in.Notes,
		CreatedAt: now,
	}

	for i, lineIn := range in.Lines {
		if lineIn.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(lineIn.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.Active {
			return nil, domain.ErrNotFound
		}
		if err := uc.validateLineLocations(taskType, lineIn); err != nil {
			return nil, err
		}
		task.Lines = append(task.Lines, &entity.TaskLine{
			ID:                    uuid.New().String(),
			TaskID:                task.ID,
			LineNumber:            i + 1,
			ProductID:             lineIn.ProductID,
			Quantity:              lineIn.Quantity,
			SourceLocationID:      lineIn.SourceLocationID,
			DestinationLocationID: lineIn.DestinationLocationID,
			CreatedAt:             now,
		})
	}

	if in.AssignedToID != "" {
		operator, err := uc.userRepo.GetByID(in.AssignedToID)
		if err != nil {
			return nil, err
		}
		if operator == nil {
			return nil, domain.ErrNotFound
		}
		task.AssignedTo = operator.ID
		task.AssignedAt = &now
		task.Status = entity.TaskStatusPending
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

	if err := uc.taskRepo.Create(task); err != nil {
		return nil, err
	}
	uc.log.Info().Str("task_id", task.ID).Str("reference", task.Reference).Str("type", task.Type).Msg("tarea creada")
	return toTaskResponse(task), nil
}

// GetByID obtiene una tarea por ID.
func (uc *TaskUseCase) GetByID(id string) (*dto.TaskResponse, error) {
	task, err := uc.taskRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrNotFound
	}
	return toTaskResponse(task), nil
}

// Assign asigna o reasigna el operario. Solo antes de iniciar (DRAFT o
// PENDING); la asignación nunca cambia una tarea en curso ni terminal.
func (uc *TaskUseCase) Assign(taskID string, in dto.AssignTaskRequest) (*dto.TaskResponse, error) {
	task, err := uc.taskRepo.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrNotFound
	}
	if task.Status != entity.TaskStatusDraft && task.Status != entity.TaskStatusPending {
		return nil, domain.ErrInvalidOperation
	}
	operator, err := uc.userRepo.GetByID(in.AssignedToID)
	if err != nil {
		return nil, err
	}
	if operator == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	task.AssignedTo = operator.ID
	task.AssignedAt = &now
	task.Status = entity.TaskStatusPending
	if err := uc.taskRepo.Update(task); err != nil {
		return nil, err
	}
	uc.log.Info().Str("task_id", task.ID).Str("assigned_to", operator.ID).Msg("tarea asignada")
	return toTaskResponse(task), nil
}

// Update actualiza prioridad y notas de una tarea no terminal.
func (uc *TaskUseCase) Update(taskID string, in dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	task, err := uc.taskRepo.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrNotFound
	}
	if task.IsTerminal() {
		return nil, domain.ErrInvalidOperation
	}
	if in.Priority != nil {
		priority := strings.ToUpper(strings.TrimSpace(*in.Priority))
		if !validPriority(priority) {
			return nil, domain.ErrInvalidInput
		}
		task.Priority = priority
	}
	if in.Notes != nil {
		task.Notes = *in.Notes
	}
	if err := uc.taskRepo.Update(task); err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

// Cancel cancela una tarea no terminal. Los movimientos de ledger ya
// registrados por líneas ejecutadas no se revierten aquí.
func (uc *TaskUseCase) Cancel(taskID string) (*dto.TaskResponse, error) {
	task, err := uc.taskRepo.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrNotFound
	}
	if task.IsTerminal() {
		return nil, domain.ErrInvalidOperation
	}
	now := time.Now()
	task.Status = entity.TaskStatusCancelled
	task.CompletedAt = &now
	if err := uc.taskRepo.Update(task); err != nil {
		return nil, err
	}
	uc.log.Info().Str("task_id", task.ID).Msg("tarea cancelada")
	return toTaskResponse(task), nil
}

// List lista tareas con filtros opcionales de estado y tipo.
func (uc *TaskUseCase) List(status, taskType string, limit, offset int) (*dto.TaskListResponse, error) {
	list, err := uc.taskRepo.List(strings.ToUpper(status), strings.ToUpper(taskType), limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TaskResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTaskResponse(t))
	}
	return &dto.TaskListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// validateLineLocations verifica que la línea traiga los emplazamientos que su
// tipo de tarea exige y que existan y estén activos.
func (uc *TaskUseCase) validateLineLocations(taskType string, line dto.CreateTaskLine) error {
	needSource := taskType == entity.TaskTypeTransfer || taskType == entity.TaskTypePicking || taskType == entity.TaskTypeDelivery
	needDestination := taskType == entity.TaskTypeReceipt || taskType == entity.TaskTypeTransfer || taskType == entity.TaskTypePicking
	if needSource && line.SourceLocationID == "" {
		return domain.ErrInvalidInput
	}
	if needDestination && line.DestinationLocationID == "" {
		return domain.ErrInvalidInput
	}
	for _, locID := range []string{line.SourceLocationID, line.DestinationLocationID} {
		if locID == "" {
			continue
		}
		loc, err := uc.locationRepo.GetByID(locID)
		if err != nil {
			return err
		}
		if loc == nil || !loc.Active {
			return domain.ErrNotFound
		}
	}
	return nil
}

func validPriority(p string) bool {
	switch p {
	case entity.PriorityLow, entity.PriorityMedium, entity.PriorityHigh, entity.PriorityUrgent:
		return true
	}
	return false
}

func toTaskResponse(t *entity.Task) *dto.TaskResponse {
	if t == nil {
		return nil
	}
	return &dto.TaskResponse{
		ID:          t.ID,
		Type:        t.Type,
		Reference:   t.Reference,
		Status:      t.Status,
		Priority:    t.Priority,
		CreatedBy:   t.CreatedBy,
		AssignedTo:  t.AssignedTo,
		ChariotID:   t.ChariotID,
		Notes:       t.Notes,
		LinesCount:  len(t.Lines),
		CreatedAt:   t.CreatedAt,
		AssignedAt:  t.AssignedAt,
		StartedAt:   t.StartedAt,
		CompletedAt: t.CompletedAt,
	}
}
