package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductoInventario is an inventory product. nombre_normalizado holds the
// lower-cased, accent-stripped form so lookups stay case/accent-insensitive.
type ProductoInventario struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Nombre            string    `gorm:"column:nombre;not null" json:"nombre"`
	NombreNormalizado string    `gorm:"column:nombre_normalizado;uniqueIndex;not null" json:"-"`
	Cantidad          int       `gorm:"column:cantidad;not null;default:0" json:"cantidad"`
	Tienda            string    `gorm:"column:tienda;not null" json:"tienda"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName overrides the default gorm pluralization.
func (ProductoInventario) TableName() string {
	return "productos_inventario"
}
