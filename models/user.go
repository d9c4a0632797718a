package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. Every authenticated request resolves to one of these profiles.
const (
	RoleVendedor      = "vendedor"
	RoleGestor        = "gestor"
	RoleProducao      = "producao"
	RoleArteFinalista = "arte_finalista"
)

// User represents a system user (salesperson, manager, production operator or designer)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Auth0ID   string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	Nome      string         `gorm:"not null" json:"nome"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Perfil    string         `gorm:"not null;default:'vendedor'" json:"perfil"` // vendedor, gestor, producao, arte_finalista
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "usuarios"
}

// IsGestor reports whether the user carries the manager profile.
func (u *User) IsGestor() bool {
	return u.Perfil == RoleGestor
}

// ValidRole reports whether perfil is one of the known profiles.
func ValidRole(perfil string) bool {
	switch perfil {
	case RoleVendedor, RoleGestor, RoleProducao, RoleArteFinalista:
		return true
	}
	return false
}
