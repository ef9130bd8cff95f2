package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// DiscrepancyRepository define el puerto de persistencia para incidencias de tarea.
type DiscrepancyRepository interface {
	Create(d *entity.TaskDiscrepancy) error
	GetByID(id string) (*entity.TaskDiscrepancy, error)
	// Update solo adjunta la resolución (ResolvedBy/ResolvedAt/Resolution).
	Update(d *entity.TaskDiscrepancy) error
	List(onlyUnresolved bool, limit, offset int) ([]*entity.TaskDiscrepancy, error)
	ListByTask(taskID string) ([]*entity.TaskDiscrepancy, error)
}
