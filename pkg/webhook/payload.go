package webhook

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
)

// PedidoPayload is the flattened pedido snapshot forwarded to the sink.
// Field names match the sheet columns the sink consumers already expect.
type PedidoPayload struct {
	IDPedido            string           `json:"id_pedido"`
	NombreCliente       string           `json:"nombre_cliente,omitempty"`
	Telefono            string           `json:"telefono,omitempty"`
	Direccion           string           `json:"direccion,omitempty"`
	Provincia           string           `json:"provincia,omitempty"`
	Canton              string           `json:"canton,omitempty"`
	Distrito            string           `json:"distrito,omitempty"`
	ValorTotal          decimal.Decimal  `json:"valor_total"`
	Productos           string           `json:"productos"`
	MetodoPago          string           `json:"metodo_pago,omitempty"`
	MontoEfectivo       *decimal.Decimal `json:"monto_efectivo,omitempty"`
	MontoSinpe          *decimal.Decimal `json:"monto_sinpe,omitempty"`
	MensajeroAsignado   string           `json:"mensajero_asignado,omitempty"`
	MensajeroConcretado string           `json:"mensajero_concretado,omitempty"`
	EstadoEntrega       string           `json:"estado_entrega"`
	FechaEntrega        *time.Time       `json:"fecha_entrega,omitempty"`
	FechaCreacion       time.Time        `json:"fecha_creacion"`
	Tienda              string           `json:"tienda"`
	NotaCliente         string           `json:"nota_cliente,omitempty"`
	NotaAsesor          string           `json:"nota_asesor,omitempty"`
	LinkUbicacion       string           `json:"link_ubicacion,omitempty"`
	Confirmado          bool             `json:"confirmado"`
	Usuario             string           `json:"usuario"`
	Cambio              string           `json:"cambio,omitempty"`
}

// NewPedidoPayload flattens a pedido row for delivery. usuario is the actor
// that triggered the change and cambio is a short human-readable description.
func NewPedidoPayload(pedido models.Pedido, usuario, cambio string) PedidoPayload {
	return PedidoPayload{
		IDPedido:            pedido.ID,
		NombreCliente:       deref(pedido.NombreCliente),
		Telefono:            deref(pedido.Telefono),
		Direccion:           deref(pedido.Direccion),
		Provincia:           deref(pedido.Provincia),
		Canton:              deref(pedido.Canton),
		Distrito:            deref(pedido.Distrito),
		ValorTotal:          pedido.ValorTotal,
		Productos:           pedido.Productos,
		MetodoPago:          pedido.MetodoPago,
		MontoEfectivo:       pedido.MontoEfectivo,
		MontoSinpe:          pedido.MontoSinpe,
		MensajeroAsignado:   deref(pedido.MensajeroAsignado),
		MensajeroConcretado: deref(pedido.MensajeroConcretado),
		EstadoEntrega:       string(pedido.EstadoEntrega),
		FechaEntrega:        pedido.FechaEntrega,
		FechaCreacion:       pedido.FechaCreacion,
		Tienda:              pedido.Tienda,
		NotaCliente:         deref(pedido.NotaCliente),
		NotaAsesor:          deref(pedido.NotaAsesor),
		LinkUbicacion:       deref(pedido.LinkUbicacion),
		Confirmado:          pedido.Confirmado,
		Usuario:             usuario,
		Cambio:              cambio,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
