package models

import (
	"time"

	"github.com/google/uuid"
)

// Tienda is a store whose pedidos flow through the platform.
type Tienda struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Nombre    string    `gorm:"column:nombre;uniqueIndex;not null" json:"nombre"`
	Activa    bool      `gorm:"column:activa;not null;default:true" json:"activa"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName overrides the default gorm pluralization.
func (Tienda) TableName() string {
	return "tiendas"
}
