package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/enums"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/pagination"
)

// Actor identifies who triggered a mutation, for auditing and fallbacks.
type Actor struct {
	Usuario string
	Role    enums.MemberRole
}

// PedidoPatch is a merge patch: nil fields are left untouched, set fields
// replace the stored value. The id is never patchable.
type PedidoPatch struct {
	NombreCliente       *string               `json:"nombre_cliente,omitempty"`
	Telefono            *string               `json:"telefono,omitempty"`
	Direccion           *string               `json:"direccion,omitempty"`
	Provincia           *string               `json:"provincia,omitempty"`
	Canton              *string               `json:"canton,omitempty"`
	Distrito            *string               `json:"distrito,omitempty"`
	ValorTotal          *decimal.Decimal      `json:"valor_total,omitempty"`
	Productos           *string               `json:"productos,omitempty"`
	MetodoPago          *string               `json:"metodo_pago,omitempty"`
	MontoEfectivo       *decimal.Decimal      `json:"monto_efectivo,omitempty"`
	MontoSinpe          *decimal.Decimal      `json:"monto_sinpe,omitempty"`
	MensajeroAsignado   *string               `json:"mensajero_asignado,omitempty"`
	MensajeroConcretado *string               `json:"mensajero_concretado,omitempty"`
	EstadoEntrega       *enums.DeliveryStatus `json:"estado_entrega,omitempty"`
	FechaEntrega        *time.Time            `json:"fecha_entrega,omitempty"`
	NotaCliente         *string               `json:"nota_cliente,omitempty"`
	NotaAsesor          *string               `json:"nota_asesor,omitempty"`
	LinkUbicacion       *string               `json:"link_ubicacion,omitempty"`
	Confirmado          *bool                 `json:"confirmado,omitempty"`
}

// IsEmpty reports whether no field is set.
func (p PedidoPatch) IsEmpty() bool {
	return len(p.Updates()) == 0
}

// Apply merges the patch into the pedido in place.
func (p PedidoPatch) Apply(pedido *models.Pedido) {
	if p.NombreCliente != nil {
		pedido.NombreCliente = p.NombreCliente
	}
	if p.Telefono != nil {
		pedido.Telefono = p.Telefono
	}
	if p.Direccion != nil {
		pedido.Direccion = p.Direccion
	}
	if p.Provincia != nil {
		pedido.Provincia = p.Provincia
	}
	if p.Canton != nil {
		pedido.Canton = p.Canton
	}
	if p.Distrito != nil {
		pedido.Distrito = p.Distrito
	}
	if p.ValorTotal != nil {
		pedido.ValorTotal = *p.ValorTotal
	}
	if p.Productos != nil {
		pedido.Productos = *p.Productos
	}
	if p.MetodoPago != nil {
		pedido.MetodoPago = *p.MetodoPago
	}
	if p.MontoEfectivo != nil {
		pedido.MontoEfectivo = p.MontoEfectivo
	}
	if p.MontoSinpe != nil {
		pedido.MontoSinpe = p.MontoSinpe
	}
	if p.MensajeroAsignado != nil {
		pedido.MensajeroAsignado = p.MensajeroAsignado
	}
	if p.MensajeroConcretado != nil {
		pedido.MensajeroConcretado = p.MensajeroConcretado
	}
	if p.EstadoEntrega != nil {
		pedido.EstadoEntrega = *p.EstadoEntrega
	}
	if p.FechaEntrega != nil {
		pedido.FechaEntrega = p.FechaEntrega
	}
	if p.NotaCliente != nil {
		pedido.NotaCliente = p.NotaCliente
	}
	if p.NotaAsesor != nil {
		pedido.NotaAsesor = p.NotaAsesor
	}
	if p.LinkUbicacion != nil {
		pedido.LinkUbicacion = p.LinkUbicacion
	}
	if p.Confirmado != nil {
		pedido.Confirmado = *p.Confirmado
	}
}

// Updates returns the gorm column map for the set fields only.
func (p PedidoPatch) Updates() map[string]any {
	updates := make(map[string]any)
	if p.NombreCliente != nil {
		updates["nombre_cliente"] = *p.NombreCliente
	}
	if p.Telefono != nil {
		updates["telefono"] = *p.Telefono
	}
	if p.Direccion != nil {
		updates["direccion"] = *p.Direccion
	}
	if p.Provincia != nil {
		updates["provincia"] = *p.Provincia
	}
	if p.Canton != nil {
		updates["canton"] = *p.Canton
	}
	if p.Distrito != nil {
		updates["distrito"] = *p.Distrito
	}
	if p.ValorTotal != nil {
		updates["valor_total"] = *p.ValorTotal
	}
	if p.Productos != nil {
		updates["productos"] = *p.Productos
	}
	if p.MetodoPago != nil {
		updates["metodo_pago"] = *p.MetodoPago
	}
	if p.MontoEfectivo != nil {
		updates["monto_efectivo"] = *p.MontoEfectivo
	}
	if p.MontoSinpe != nil {
		updates["monto_sinpe"] = *p.MontoSinpe
	}
	if p.MensajeroAsignado != nil {
		updates["mensajero_asignado"] = *p.MensajeroAsignado
	}
	if p.MensajeroConcretado != nil {
		updates["mensajero_concretado"] = *p.MensajeroConcretado
	}
	if p.EstadoEntrega != nil {
		updates["estado_entrega"] = *p.EstadoEntrega
	}
	if p.FechaEntrega != nil {
		updates["fecha_entrega"] = *p.FechaEntrega
	}
	if p.NotaCliente != nil {
		updates["nota_cliente"] = *p.NotaCliente
	}
	if p.NotaAsesor != nil {
		updates["nota_asesor"] = *p.NotaAsesor
	}
	if p.LinkUbicacion != nil {
		updates["link_ubicacion"] = *p.LinkUbicacion
	}
	if p.Confirmado != nil {
		updates["confirmado"] = *p.Confirmado
	}
	return updates
}

// ListInput carries the dashboard query: a role scope, filters, and a page
// request. Scope is set from the caller's token, never from query params.
type ListInput struct {
	Scope  Scope
	Filter FilterOptions
	Page   pagination.Params
}

// ListResult is one dashboard page: the rows, page metadata, and stats over
// the whole filtered set (not just the visible page).
type ListResult struct {
	Pedidos []models.Pedido `json:"pedidos"`
	Meta    pagination.Meta `json:"meta"`
	Stats   Stats           `json:"stats"`
}

// CreateInput carries the fields accepted at creation time.
type CreateInput struct {
	ID            string
	NombreCliente *string
	Telefono      *string
	Direccion     *string
	Provincia     *string
	Canton        *string
	Distrito      *string
	ValorTotal    decimal.Decimal
	Productos     string
	MetodoPago    string
	Tienda        string
	FechaCreacion time.Time
	NotaCliente   *string
	NotaAsesor    *string
	LinkUbicacion *string
}

// QuickStatusInput is the quick status transition from the dashboard table.
type QuickStatusInput struct {
	ID            string
	Estado        enums.DeliveryStatus
	MetodoPago    string
	MontoEfectivo *decimal.Decimal
	MontoSinpe    *decimal.Decimal
	Nota          *string
}

// BulkItem pairs a pedido id with its pending patch in bulk edit mode.
type BulkItem struct {
	ID    string
	Patch PedidoPatch
}

// BulkItemResult reports the outcome for one bulk item.
type BulkItemResult struct {
	ID    string  `json:"id"`
	OK    bool    `json:"ok"`
	Error *string `json:"error,omitempty"`
}

// BulkResult summarizes a bulk save. Applied patches stay applied even when
// later items fail.
type BulkResult struct {
	Results []BulkItemResult `json:"results"`
	Applied int              `json:"applied"`
	Failed  int              `json:"failed"`
}
