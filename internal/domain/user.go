package domain

import (
	"slices"
	"time"
)

type Role string

const (
	RoleFattorino Role = "FATTORINO"
	RoleCucina    Role = "CUCINA"
	RoleSala      Role = "SALA"
	RolePizzaiolo Role = "PIZZAIOLO"
	// RoleAdmin è un livello di autorizzazione, non una mansione
	// assegnabile a un turno.
	RoleAdmin Role = "ADMIN"
)

// SchedulableRoles sono le mansioni che possono comparire su un turno.
var SchedulableRoles = []Role{RoleFattorino, RoleCucina, RoleSala, RolePizzaiolo}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PrimaryRole  Role      `json:"primaryRole"`
	Roles        []Role    `json:"roles"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}

func (u *User) HasRole(role Role) bool {
	return slices.Contains(u.Roles, role)
}

func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}
