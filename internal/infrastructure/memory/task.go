package memory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.TaskRepository = (*TaskRepo)(nil)

// TaskRepo implementación en memoria de TaskRepository.
type TaskRepo struct {
	store *Store
}

// NewTaskRepository construye el repo.
func NewTaskRepository(store *Store) *TaskRepo {
	return &TaskRepo{store: store}
}

// Create persiste la tarea y sus líneas.
func (r *TaskRepo) Create(task *entity.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.tasks[task.ID]; exists {
		return domain.ErrDuplicate
	}
	for _, t := range r.store.tasks {
		if t.Reference == task.Reference {
			return domain.ErrDuplicate
		}
	}
	r.store.tasks[task.ID] = copyTask(task)
	return nil
}

// GetByID obtiene una tarea con sus líneas.
func (r *TaskRepo) GetByID(id string) (*entity.Task, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	task, ok := r.store.tasks[id]
	if !ok {
		return nil, nil
	}
	return copyTask(task), nil
}

// GetByReference obtiene una tarea por referencia.
func (r *TaskRepo) GetByReference(reference string) (*entity.Task, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, task := range r.store.tasks {
		if task.Reference == reference {
			return copyTask(task), nil
		}
	}
	return nil, nil
}

// Update persiste estado y timestamps; las líneas almacenadas no se tocan.
func (r *TaskRepo) Update(task *entity.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.tasks[task.ID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := copyTask(task)
	updated.Lines = stored.Lines
	r.store.tasks[task.ID] = updated
	return nil
}

// ListByAssignee tareas asignadas a un operario, más recientes primero.
func (r *TaskRepo) ListByAssignee(userID string, status string, limit, offset int) ([]*entity.Task, error) {
	return r.list(func(t *entity.Task) bool {
		if t.AssignedTo != userID {
			return false
		}
		return status == "" || t.Status == status
	}, limit, offset), nil
}

// List tareas con filtros opcionales, más recientes primero.
func (r *TaskRepo) List(status string, taskType string, limit, offset int) ([]*entity.Task, error) {
	return r.list(func(t *entity.Task) bool {
		if status != "" && t.Status != status {
			return false
		}
		return taskType == "" || t.Type == taskType
	}, limit, offset), nil
}

func (r *TaskRepo) list(keep func(*entity.Task) bool, limit, offset int) []*entity.Task {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var matches []*entity.Task
	for _, task := range r.store.tasks {
		if keep(task) {
			matches = append(matches, copyTask(task))
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	if offset >= len(matches) {
		return nil
	}
	matches = matches[offset:]
	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	return matches
}

func copyTask(task *entity.Task) *entity.Task {
	copied := *task
	copied.Lines = make([]*entity.TaskLine, len(task.Lines))
	for i, line := range task.Lines {
		lineCopy := *line
		copied.Lines[i] = &lineCopy
	}
	return &copied
}
