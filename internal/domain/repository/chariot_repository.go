package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// ChariotRepository define el puerto de persistencia para equipos de manutención.
type ChariotRepository interface {
	Create(chariot *entity.Chariot) error
	GetByID(id string) (*entity.Chariot, error)
	Update(chariot *entity.Chariot) error
	List(limit, offset int) ([]*entity.Chariot, error)
}
