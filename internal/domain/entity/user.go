package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleCustomer = "customer"
)

// IsStaffRole indica si el rol puede atender el panel de mensajes (admin o staff).
func IsStaffRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}

// User representa un usuario del sistema (cliente de la tienda o personal del panel).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	AvatarURL    string
	Role         string // admin, staff, customer
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
