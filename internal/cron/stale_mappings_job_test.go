package cron

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Magic-Stars-CR/magicstars-backend/internal/mappings"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/logger"
)

func TestStaleMappingsJobRemovesOrphanedTargets(t *testing.T) {
	store := &fakeMappingStore{
		mappings: []mappings.Mapping{
			{NombreNormalizado: "omega 3", Target: "Omega-3 Fish Oil"},
			{NombreNormalizado: "proteina whey", Target: "Producto Borrado"},
			{NombreNormalizado: "pack omega", Target: "COMBO:Omega-3 Fish Oil x3"},
			{NombreNormalizado: "pack fantasma", Target: "COMBO:Combo Borrado"},
		},
		combos: []mappings.Combo{
			{ID: "c1", Nombre: "Omega-3 Fish Oil x3"},
		},
	}
	catalog := &fakeCatalog{nombres: []string{"omega-3 fish oil"}}
	job := newStaleMappingsJob(t, store, catalog)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if got := len(store.deleted); got != 2 {
		t.Fatalf("expected 2 deletions, got %d: %v", got, store.deleted)
	}
	if store.deleted[0] != "proteina whey" || store.deleted[1] != "pack fantasma" {
		t.Fatalf("wrong mappings deleted: %v", store.deleted)
	}
}

func TestStaleMappingsJobKeepsResolvableMappings(t *testing.T) {
	store := &fakeMappingStore{
		mappings: []mappings.Mapping{
			{NombreNormalizado: "omega 3", Target: "Omega-3 Fish Oil"},
		},
	}
	catalog := &fakeCatalog{nombres: []string{"omega-3 fish oil"}}
	job := newStaleMappingsJob(t, store, catalog)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if len(store.deleted) != 0 {
		t.Fatalf("resolvable mapping was deleted: %v", store.deleted)
	}
}

func TestStaleMappingsJobEmptyTableSkipsInventory(t *testing.T) {
	store := &fakeMappingStore{}
	catalog := &fakeCatalog{err: errors.New("should not be called")}
	job := newStaleMappingsJob(t, store, catalog)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
}

func TestStaleMappingsJobSurfacesInventoryError(t *testing.T) {
	store := &fakeMappingStore{
		mappings: []mappings.Mapping{
			{NombreNormalizado: "omega 3", Target: "Omega-3 Fish Oil"},
		},
	}
	catalog := &fakeCatalog{err: errors.New("db down")}
	job := newStaleMappingsJob(t, store, catalog)

	if err := job.Run(context.Background()); err == nil {
		t.Fatalf("expected inventory error to surface")
	}
	if len(store.deleted) != 0 {
		t.Fatalf("no mapping should be deleted on error: %v", store.deleted)
	}
}

func newStaleMappingsJob(t *testing.T, store *fakeMappingStore, catalog *fakeCatalog) Job {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard})
	job, err := NewStaleMappingsJob(StaleMappingsJobParams{
		Logger:    logg,
		Mappings:  store,
		Inventory: catalog,
	})
	if err != nil {
		t.Fatalf("failed to construct job: %v", err)
	}
	return job
}

type fakeMappingStore struct {
	mappings []mappings.Mapping
	combos   []mappings.Combo
	deleted  []string
}

func (f *fakeMappingStore) ListMappings(context.Context) ([]mappings.Mapping, error) {
	return f.mappings, nil
}

func (f *fakeMappingStore) ListCombos(context.Context) ([]mappings.Combo, error) {
	return f.combos, nil
}

func (f *fakeMappingStore) DeleteMapping(_ context.Context, nombreNormalizado string) error {
	f.deleted = append(f.deleted, nombreNormalizado)
	return nil
}

type fakeCatalog struct {
	nombres []string
	err     error
}

func (f *fakeCatalog) ListNombresNormalizados(context.Context) ([]string, error) {
	return f.nombres, f.err
}
