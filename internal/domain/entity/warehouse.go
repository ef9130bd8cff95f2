package entity

import "time"

// Warehouse representa un almacén físico que agrupa emplazamientos.
type Warehouse struct {
	ID        string
	Code      string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
