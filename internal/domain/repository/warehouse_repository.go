package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// WarehouseRepository define el puerto de persistencia para almacenes.
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	Update(warehouse *entity.Warehouse) error
	List(limit, offset int) ([]*entity.Warehouse, error)
}
