package models

import (
	"time"

	"github.com/google/uuid"
)

// Mensajero is a courier in the delivery fleet.
type Mensajero struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Nombre    string    `gorm:"column:nombre;not null" json:"nombre"`
	Telefono  *string   `gorm:"column:telefono" json:"telefono,omitempty"`
	Activo    bool      `gorm:"column:activo;not null;default:true" json:"activo"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName overrides the default gorm pluralization.
func (Mensajero) TableName() string {
	return "mensajeros"
}
