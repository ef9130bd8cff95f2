package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// TaskRepository define el puerto de persistencia para tareas y sus líneas.
// Las líneas se cargan siempre con la tarea, ordenadas por número.
type TaskRepository interface {
	Create(task *entity.Task) error
	GetByID(id string) (*entity.Task, error)
	GetByReference(reference string) (*entity.Task, error)
	// Update persiste estado, asignación, equipo, notas y timestamps de ciclo de
	// vida. Las líneas son inmutables: nunca se tocan aquí.
	Update(task *entity.Task) error
	ListByAssignee(userID string, status string, limit, offset int) ([]*entity.Task, error)
	List(status string, taskType string, limit, offset int) ([]*entity.Task, error)
}
