package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// LocationRepository define el puerto de persistencia para emplazamientos.
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	GetByCode(code string) (*entity.Location, error)
	Update(location *entity.Location) error
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.Location, error)
	Deactivate(id string) error
}
