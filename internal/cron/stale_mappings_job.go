package cron

import (
	"context"
	"fmt"
	"strings"

	"github.com/Magic-Stars-CR/magicstars-backend/internal/mappings"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/logger"
)

// mappingStore is the slice of the mappings repository the cleanup needs.
type mappingStore interface {
	ListMappings(ctx context.Context) ([]mappings.Mapping, error)
	ListCombos(ctx context.Context) ([]mappings.Combo, error)
	DeleteMapping(ctx context.Context, nombreNormalizado string) error
}

// catalogNames lists the normalized product names currently in inventory.
type catalogNames interface {
	ListNombresNormalizados(ctx context.Context) ([]string, error)
}

// StaleMappingsJobParams configure the stale-mapping cleanup job.
type StaleMappingsJobParams struct {
	Logger    *logger.Logger
	Mappings  mappingStore
	Inventory catalogNames
}

type staleMappingsJob struct {
	logg      *logger.Logger
	mappings  mappingStore
	inventory catalogNames
}

// NewStaleMappingsJob builds the job that removes saved mappings whose target
// no longer resolves: product targets deleted from inventory, or combo
// targets whose combo definition is gone. Their names then reappear as
// unmapped candidates instead of resolving to nothing.
func NewStaleMappingsJob(params StaleMappingsJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Mappings == nil {
		return nil, fmt.Errorf("mappings repository required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &staleMappingsJob{
		logg:      params.Logger,
		mappings:  params.Mappings,
		inventory: params.Inventory,
	}, nil
}

func (j *staleMappingsJob) Name() string { return "stale-mappings" }

func (j *staleMappingsJob) Run(ctx context.Context) error {
	saved, err := j.mappings.ListMappings(ctx)
	if err != nil {
		return fmt.Errorf("stale mappings: list mappings: %w", err)
	}
	if len(saved) == 0 {
		return nil
	}

	nombres, err := j.inventory.ListNombresNormalizados(ctx)
	if err != nil {
		return fmt.Errorf("stale mappings: list inventory: %w", err)
	}
	inventario := make(map[string]struct{}, len(nombres))
	for _, nombre := range nombres {
		inventario[nombre] = struct{}{}
	}

	combos, err := j.mappings.ListCombos(ctx)
	if err != nil {
		return fmt.Errorf("stale mappings: list combos: %w", err)
	}
	comboNombres := make(map[string]struct{}, len(combos))
	for _, combo := range combos {
		comboNombres[combo.Nombre] = struct{}{}
	}

	var removed int64
	for _, mapping := range saved {
		if !j.isStale(mapping, inventario, comboNombres) {
			continue
		}
		if err := j.mappings.DeleteMapping(ctx, mapping.NombreNormalizado); err != nil {
			return fmt.Errorf("stale mappings: delete %q: %w", mapping.NombreNormalizado, err)
		}
		removed++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"mappings_checked": len(saved),
		"mappings_removed": removed,
	})
	j.logg.Info(logCtx, "stale mapping cleanup complete")
	return nil
}

func (j *staleMappingsJob) isStale(mapping mappings.Mapping, inventario, comboNombres map[string]struct{}) bool {
	if mapping.IsCombo() {
		nombre := strings.TrimPrefix(mapping.Target, mappings.ComboTargetPrefix)
		_, ok := comboNombres[nombre]
		return !ok
	}
	_, ok := inventario[mappings.Normalize(mapping.Target)]
	return !ok
}
