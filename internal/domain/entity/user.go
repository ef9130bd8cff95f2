package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleOperario   = "operario"
)

// User representa un usuario del sistema de almacén.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FullName     string
	Role         string // admin, supervisor, operario
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
