package memory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.DiscrepancyRepository = (*DiscrepancyRepo)(nil)

// DiscrepancyRepo implementación en memoria de DiscrepancyRepository.
type DiscrepancyRepo struct {
	store *Store
}

// NewDiscrepancyRepository construye el repo.
func NewDiscrepancyRepository(store *Store) *DiscrepancyRepo {
	return &DiscrepancyRepo{store: store}
}

// Create persiste una incidencia.
func (r *DiscrepancyRepo) Create(d *entity.TaskDiscrepancy) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *d
	r.store.discrepancies[d.ID] = &copied
	return nil
}

// GetByID obtiene una incidencia por ID.
func (r *DiscrepancyRepo) GetByID(id string) (*entity.TaskDiscrepancy, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	d, ok := r.store.discrepancies[id]
	if !ok {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

// Update adjunta la resolución.
func (r *DiscrepancyRepo) Update(d *entity.TaskDiscrepancy) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.discrepancies[d.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *d
	r.store.discrepancies[d.ID] = &copied
	return nil
}

// List lista incidencias, más recientes primero.
func (r *DiscrepancyRepo) List(onlyUnresolved bool, limit, offset int) ([]*entity.TaskDiscrepancy, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var matches []*entity.TaskDiscrepancy
	for _, d := range r.store.discrepancies {
		if onlyUnresolved && d.ResolvedBy != "" {
			continue
		}
		copied := *d
		matches = append(matches, &copied)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].ReportedAt.After(matches[j].ReportedAt)
	})
	if offset >= len(matches) {
		return nil, nil
	}
	matches = matches[offset:]
	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, nil
}

// ListByTask incidencias de una tarea, en orden de reporte.
func (r *DiscrepancyRepo) ListByTask(taskID string) ([]*entity.TaskDiscrepancy, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var matches []*entity.TaskDiscrepancy
	for _, d := range r.store.discrepancies {
		if d.TaskID == taskID {
			copied := *d
			matches = append(matches, &copied)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].ReportedAt.Before(matches[j].ReportedAt)
	})
	return matches, nil
}
