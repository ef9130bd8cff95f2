package entity

import "time"

// Tipos de emplazamiento dentro de un almacén.
const (
	LocationTypeStorage     = "STORAGE"
	LocationTypeReceiving   = "RECEIVING"
	LocationTypePickingRack = "PICKING_RACK"
	LocationTypeExpedition  = "EXPEDITION"
)

// Location representa un emplazamiento físico. El código es inmutable y único;
// pertenece a exactamente un almacén. Se desactiva, nunca se borra.
type Location struct {
	ID          string
	Code        string
	WarehouseID string
	Zone        string
	Type        string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
