package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/enums"
)

// Pedido is the central order record. The id is server-assigned and immutable;
// estado_entrega is the single source of truth for delivery state.
type Pedido struct {
	ID                  string               `gorm:"column:id;primaryKey" json:"id"`
	NombreCliente       *string              `gorm:"column:nombre_cliente" json:"nombre_cliente,omitempty"`
	Telefono            *string              `gorm:"column:telefono" json:"telefono,omitempty"`
	Direccion           *string              `gorm:"column:direccion" json:"direccion,omitempty"`
	Provincia           *string              `gorm:"column:provincia" json:"provincia,omitempty"`
	Canton              *string              `gorm:"column:canton" json:"canton,omitempty"`
	Distrito            *string              `gorm:"column:distrito" json:"distrito,omitempty"`
	ValorTotal          decimal.Decimal      `gorm:"column:valor_total;type:numeric(12,2);not null;default:0" json:"valor_total"`
	Productos           string               `gorm:"column:productos" json:"productos"`
	MetodoPago          string               `gorm:"column:metodo_pago" json:"metodo_pago"`
	MontoEfectivo       *decimal.Decimal     `gorm:"column:monto_efectivo;type:numeric(12,2)" json:"monto_efectivo,omitempty"`
	MontoSinpe          *decimal.Decimal     `gorm:"column:monto_sinpe;type:numeric(12,2)" json:"monto_sinpe,omitempty"`
	MensajeroAsignado   *string              `gorm:"column:mensajero_asignado" json:"mensajero_asignado,omitempty"`
	MensajeroConcretado *string              `gorm:"column:mensajero_concretado" json:"mensajero_concretado,omitempty"`
	EstadoEntrega       enums.DeliveryStatus `gorm:"column:estado_entrega;not null;default:'pendiente'" json:"estado_entrega"`
	FechaEntrega        *time.Time           `gorm:"column:fecha_entrega" json:"fecha_entrega,omitempty"`
	FechaCreacion       time.Time            `gorm:"column:fecha_creacion;not null" json:"fecha_creacion"`
	Tienda              string               `gorm:"column:tienda;not null" json:"tienda"`
	NotaCliente         *string              `gorm:"column:nota_cliente" json:"nota_cliente,omitempty"`
	NotaAsesor          *string              `gorm:"column:nota_asesor" json:"nota_asesor,omitempty"`
	LinkUbicacion       *string              `gorm:"column:link_ubicacion" json:"link_ubicacion,omitempty"`
	Confirmado          bool                 `gorm:"column:confirmado;not null;default:false" json:"confirmado"`
	CreatedAt           time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName overrides the default gorm pluralization.
func (Pedido) TableName() string {
	return "pedidos"
}

// TieneMensajero reports whether a courier is assigned.
func (p Pedido) TieneMensajero() bool {
	return p.MensajeroAsignado != nil && strings.TrimSpace(*p.MensajeroAsignado) != ""
}

// Concretado reports whether a courier concretized the delivery.
func (p Pedido) Concretado() bool {
	return p.MensajeroConcretado != nil && strings.TrimSpace(*p.MensajeroConcretado) != ""
}
