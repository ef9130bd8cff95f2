package memory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)
var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// LocationRepo implementación en memoria de LocationRepository.
type LocationRepo struct {
	store *Store
}

// NewLocationRepository construye el repo.
func NewLocationRepository(store *Store) *LocationRepo {
	return &LocationRepo{store: store}
}

// Create persiste un emplazamiento. El código es único.
func (r *LocationRepo) Create(location *entity.Location) error {
	if location.ID == "" {
		location.ID = uuid.New().String()
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, l := range r.store.locations {
		if l.Code == location.Code {
			return domain.ErrDuplicate
		}
	}
	copied := *location
	r.store.locations[location.ID] = &copied
	return nil
}

// GetByID obtiene un emplazamiento por ID.
func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	l, ok := r.store.locations[id]
	if !ok {
		return nil, nil
	}
	copied := *l
	return &copied, nil
}

// GetByCode obtiene un emplazamiento por código.
func (r *LocationRepo) GetByCode(code string) (*entity.Location, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, l := range r.store.locations {
		if l.Code == code {
			copied := *l
			return &copied, nil
		}
	}
	return nil, nil
}

// Update actualiza zona y tipo.
func (r *LocationRepo) Update(location *entity.Location) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.locations[location.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *location
	r.store.locations[location.ID] = &copied
	return nil
}

// ListByWarehouse emplazamientos de un almacén, por código.
func (r *LocationRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.Location, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var matches []*entity.Location
	for _, l := range r.store.locations {
		if l.WarehouseID == warehouseID {
			copied := *l
			matches = append(matches, &copied)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Code < matches[j].Code })
	if offset >= len(matches) {
		return nil, nil
	}
	matches = matches[offset:]
	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, nil
}

// Deactivate baja lógica del emplazamiento.
func (r *LocationRepo) Deactivate(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	l, ok := r.store.locations[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Active = false
	return nil
}

// WarehouseRepo implementación en memoria de WarehouseRepository.
type WarehouseRepo struct {
	store *Store
}

// NewWarehouseRepository construye el repo.
func NewWarehouseRepository(store *Store) *WarehouseRepo {
	return &WarehouseRepo{store: store}
}

// Create persiste un almacén.
func (r *WarehouseRepo) Create(warehouse *entity.Warehouse) error {
	if warehouse.ID == "" {
		warehouse.ID = uuid.New().String()
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, w := range r.store.warehouses {
		if w.Code == warehouse.Code {
			return domain.ErrDuplicate
		}
	}
	copied := *warehouse
	r.store.warehouses[warehouse.ID] = &copied
	return nil
}

// GetByID obtiene un almacén por ID.
func (r *WarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	w, ok := r.store.warehouses[id]
	if !ok {
		return nil, nil
	}
	copied := *w
	return &copied, nil
}

// Update actualiza nombre y dirección.
func (r *WarehouseRepo) Update(warehouse *entity.Warehouse) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.warehouses[warehouse.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *warehouse
	r.store.warehouses[warehouse.ID] = &copied
	return nil
}

// List lista almacenes por código.
func (r *WarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var matches []*entity.Warehouse
	for _, w := range r.store.warehouses {
		copied := *w
		matches = append(matches, &copied)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Code < matches[j].Code })
	if offset >= len(matches) {
		return nil, nil
	}
	matches = matches[offset:]
	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, nil
}
