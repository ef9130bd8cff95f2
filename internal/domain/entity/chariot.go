package entity

import "time"

// Chariot representa un equipo de manutención (carro, transpaleta) que un
// operario puede tomar al iniciar una operación.
type Chariot struct {
	ID        string
	Code      string
	Available bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
