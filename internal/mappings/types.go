package mappings

import "time"

// ComboTargetPrefix marks a mapping whose target is a combo, not a plain
// inventory product.
const ComboTargetPrefix = "COMBO:"

// Mapping resolves an unmapped free-text product name. Target is either an
// inventory product name or "COMBO:<combo name>".
type Mapping struct {
	NombreNormalizado string    `json:"nombre_normalizado"`
	NombreOriginal    string    `json:"nombre_original"`
	Target            string    `json:"target"`
	Cantidad          int       `json:"cantidad,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// IsCombo reports whether the mapping points at a combo.
func (m Mapping) IsCombo() bool {
	return len(m.Target) > len(ComboTargetPrefix) && m.Target[:len(ComboTargetPrefix)] == ComboTargetPrefix
}

// ComboItem is one (product, quantity) pair inside a combo.
type ComboItem struct {
	Producto string `json:"producto"`
	Cantidad int    `json:"cantidad"`
}

// Combo is a synthetic bundle resolving one free-text line to several real
// inventory products.
type Combo struct {
	ID        string      `json:"id"`
	Nombre    string      `json:"nombre"`
	Items     []ComboItem `json:"items"`
	CreatedAt time.Time   `json:"created_at"`
}

// UnmappedCandidate accumulates the sightings of a product name that matches
// neither inventory nor a saved mapping. Nombre keeps the first-seen spelling.
type UnmappedCandidate struct {
	Nombre            string    `json:"nombre"`
	NombreNormalizado string    `json:"nombre_normalizado"`
	PedidoIDs         []string  `json:"pedido_ids"`
	Ocurrencias       int       `json:"ocurrencias"`
	UltimaVez         time.Time `json:"ultima_vez"`
}
