package mappings

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
	pkgerrors "github.com/Magic-Stars-CR/magicstars-backend/pkg/errors"
)

// InventoryCatalog is the slice of the inventory layer the resolver needs.
type InventoryCatalog interface {
	ListNombresNormalizados(ctx context.Context) ([]string, error)
	FindByNombreNormalizado(ctx context.Context, nombre string) (*models.ProductoInventario, error)
	Create(ctx context.Context, producto *models.ProductoInventario) error
}

// ResolveAction selects how an unmapped name gets resolved.
type ResolveAction string

const (
	ResolveActionMapExisting   ResolveAction = "map_existing"
	ResolveActionCreateProduct ResolveAction = "create_product"
	ResolveActionCreateCombo   ResolveAction = "create_combo"
)

// NuevoProducto describes an inventory product created on the fly.
type NuevoProducto struct {
	Nombre   string
	Cantidad int
	Tienda   string
}

// ComboSpec describes a multi-item combo to create during resolution.
type ComboSpec struct {
	Nombre string
	Items  []ComboItem
}

// ResolveInput carries one resolution decision for an unmapped name.
type ResolveInput struct {
	Nombre        string
	Action        ResolveAction
	Producto      string
	Cantidad      int
	NuevoProducto *NuevoProducto
	Combo         *ComboSpec
}

// Service implements unmapped-product detection and resolution.
type Service interface {
	DetectUnmapped(ctx context.Context, pedidos []models.Pedido) ([]UnmappedCandidate, error)
	Resolve(ctx context.Context, input ResolveInput) (*Mapping, error)
	ListMappings(ctx context.Context) ([]Mapping, error)
	ListCombos(ctx context.Context) ([]Combo, error)
	CreateCombo(ctx context.Context, spec ComboSpec) (*Combo, error)
}

type service struct {
	repo      Repository
	inventory InventoryCatalog
}

// NewService builds a mappings service with the required dependencies.
func NewService(repo Repository, inventory InventoryCatalog) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("mappings repository required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory catalog required")
	}
	return &service{repo: repo, inventory: inventory}, nil
}

// DetectUnmapped scans the pedidos' product lines for names covered by
// neither inventory nor a saved mapping. Detection is deterministic: the same
// (pedidos, inventory, mappings) input always yields the same candidates in
// first-seen order, and nothing is mutated along the way.
func (s *service) DetectUnmapped(ctx context.Context, pedidos []models.Pedido) ([]UnmappedCandidate, error) {
	nombres, err := s.inventory.ListNombresNormalizados(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	known := make(map[string]struct{}, len(nombres))
	for _, nombre := range nombres {
		known[nombre] = struct{}{}
	}
	saved, err := s.repo.ListMappings(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list mappings")
	}
	for _, mapping := range saved {
		known[mapping.NombreNormalizado] = struct{}{}
	}

	index := make(map[string]int)
	var candidates []UnmappedCandidate
	for _, pedido := range pedidos {
		for _, token := range ParseProductos(pedido.Productos) {
			normalized := Normalize(token.Nombre)
			if normalized == "" {
				continue
			}
			if _, ok := known[normalized]; ok {
				continue
			}
			pos, seen := index[normalized]
			if !seen {
				index[normalized] = len(candidates)
				candidates = append(candidates, UnmappedCandidate{
					Nombre:            token.Nombre,
					NombreNormalizado: normalized,
				})
				pos = len(candidates) - 1
			}
			candidate := &candidates[pos]
			candidate.Ocurrencias++
			if !containsString(candidate.PedidoIDs, pedido.ID) {
				candidate.PedidoIDs = append(candidate.PedidoIDs, pedido.ID)
			}
			if pedido.FechaCreacion.After(candidate.UltimaVez) {
				candidate.UltimaVez = pedido.FechaCreacion
			}
		}
	}
	return candidates, nil
}

// Resolve persists one resolution decision. Once saved, the name stops
// showing up as unmapped.
func (s *service) Resolve(ctx context.Context, input ResolveInput) (*Mapping, error) {
	nombre := strings.TrimSpace(input.Nombre)
	if nombre == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nombre required")
	}
	normalized := Normalize(nombre)

	switch input.Action {
	case ResolveActionMapExisting:
		return s.resolveToExisting(ctx, nombre, normalized, input.Producto, input.Cantidad)
	case ResolveActionCreateProduct:
		return s.resolveToNewProduct(ctx, nombre, normalized, input.NuevoProducto)
	case ResolveActionCreateCombo:
		return s.resolveToCombo(ctx, nombre, normalized, input.Combo)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown action %q", input.Action))
	}
}

func (s *service) resolveToExisting(ctx context.Context, nombre, normalized, producto string, cantidad int) (*Mapping, error) {
	if strings.TrimSpace(producto) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "producto required")
	}
	if cantidad < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cantidad must be non-negative")
	}
	existing, err := s.inventory.FindByNombreNormalizado(ctx, Normalize(producto))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("producto %q not in inventory", producto))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load producto")
	}

	target := existing.Nombre
	if cantidad > 1 {
		// A multiplier resolves through a synthetic single-item combo.
		comboNombre := fmt.Sprintf("%s x%d", existing.Nombre, cantidad)
		combo := Combo{
			ID:     uuid.NewString(),
			Nombre: comboNombre,
			Items:  []ComboItem{{Producto: existing.Nombre, Cantidad: cantidad}},
		}
		if err := s.repo.SaveCombo(ctx, combo); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save combo")
		}
		target = ComboTargetPrefix + comboNombre
	}

	mapping := Mapping{
		NombreNormalizado: normalized,
		NombreOriginal:    nombre,
		Target:            target,
		Cantidad:          cantidad,
	}
	if err := s.repo.SaveMapping(ctx, mapping); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save mapping")
	}
	return &mapping, nil
}

func (s *service) resolveToNewProduct(ctx context.Context, nombre, normalized string, nuevo *NuevoProducto) (*Mapping, error) {
	if nuevo == nil || strings.TrimSpace(nuevo.Nombre) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nuevo producto required")
	}
	if nuevo.Cantidad < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cantidad must be non-negative")
	}
	producto := &models.ProductoInventario{
		Nombre:            strings.TrimSpace(nuevo.Nombre),
		NombreNormalizado: Normalize(nuevo.Nombre),
		Cantidad:          nuevo.Cantidad,
		Tienda:            nuevo.Tienda,
	}
	if err := s.inventory.Create(ctx, producto); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create producto")
	}

	mapping := Mapping{
		NombreNormalizado: normalized,
		NombreOriginal:    nombre,
		Target:            producto.Nombre,
	}
	if err := s.repo.SaveMapping(ctx, mapping); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save mapping")
	}
	return &mapping, nil
}

func (s *service) resolveToCombo(ctx context.Context, nombre, normalized string, spec *ComboSpec) (*Mapping, error) {
	if spec == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "combo spec required")
	}
	combo, err := s.CreateCombo(ctx, *spec)
	if err != nil {
		return nil, err
	}

	mapping := Mapping{
		NombreNormalizado: normalized,
		NombreOriginal:    nombre,
		Target:            ComboTargetPrefix + combo.Nombre,
	}
	if err := s.repo.SaveMapping(ctx, mapping); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save mapping")
	}
	return &mapping, nil
}

func (s *service) ListMappings(ctx context.Context) ([]Mapping, error) {
	mappings, err := s.repo.ListMappings(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list mappings")
	}
	return mappings, nil
}

func (s *service) ListCombos(ctx context.Context) ([]Combo, error) {
	combos, err := s.repo.ListCombos(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list combos")
	}
	return combos, nil
}

func (s *service) CreateCombo(ctx context.Context, spec ComboSpec) (*Combo, error) {
	if strings.TrimSpace(spec.Nombre) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "combo nombre required")
	}
	if len(spec.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "combo needs at least one item")
	}
	for _, item := range spec.Items {
		if strings.TrimSpace(item.Producto) == "" || item.Cantidad <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "combo items need a producto and a positive cantidad")
		}
	}
	combo := Combo{
		ID:     uuid.NewString(),
		Nombre: strings.TrimSpace(spec.Nombre),
		Items:  spec.Items,
	}
	if err := s.repo.SaveCombo(ctx, combo); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save combo")
	}
	return &combo, nil
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
