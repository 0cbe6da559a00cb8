package users

import "time"

// Role determina la zona a la que accede el usuario.
// @Enum admin, veterinarian, receptionist, client
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleVeterinarian Role = "veterinarian"
	RoleReceptionist Role = "receptionist"
	RoleClient       Role = "client"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleVeterinarian, RoleReceptionist, RoleClient:
		return true
	}
	return false
}

// IsStaff: roles de la consola clínica.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleVeterinarian || r == RoleReceptionist
}

// Home es la zona por defecto del rol.
func (r Role) Home() string {
	if r.IsStaff() {
		return "/admin"
	}
	return "/client"
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	Role         Role
	Avatar       string
	CreatedAt    time.Time
}

// Identity es el registro de sesión: el usuario sin credenciales.
type Identity struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar"`
}

func (u User) Identity() Identity {
	return Identity{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Avatar: u.Avatar,
	}
}
