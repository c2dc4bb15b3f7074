package mappings

import (
	"context"
	"fmt"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockHashStore struct {
	hashes map[string]map[string]string
}

func newMockHashStore() *mockHashStore {
	return &mockHashStore{hashes: make(map[string]map[string]string)}
}

func (m *mockHashStore) HSet(ctx context.Context, key, field string, value any) error {
	if m.hashes[key] == nil {
		m.hashes[key] = make(map[string]string)
	}
	m.hashes[key][field] = fmt.Sprint(value)
	return nil
}

func (m *mockHashStore) HGet(ctx context.Context, key, field string) (string, error) {
	value, ok := m.hashes[key][field]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (m *mockHashStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	out := make(map[string]string, len(m.hashes[key]))
	for field, value := range m.hashes[key] {
		out[field] = value
	}
	return out, nil
}

func (m *mockHashStore) HDel(ctx context.Context, key string, fields ...string) error {
	for _, field := range fields {
		delete(m.hashes[key], field)
	}
	return nil
}

func (m *mockHashStore) MappingKey(schemaVersion int) string {
	return fmt.Sprintf("ms:mapping:v%d", schemaVersion)
}

func (m *mockHashStore) ComboKey(schemaVersion int) string {
	return fmt.Sprintf("ms:combo:v%d", schemaVersion)
}

func TestRedisRepositoryMappingLifecycle(t *testing.T) {
	store := newMockHashStore()
	repo := NewRedisRepository(store)
	ctx := context.Background()

	mapping := Mapping{
		NombreNormalizado: "omega 3",
		NombreOriginal:    "Omega 3",
		Target:            "Omega-3 Fish Oil",
	}
	require.NoError(t, repo.SaveMapping(ctx, mapping))

	got, err := repo.GetMapping(ctx, "omega 3")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, mapping.Target, got.Target)
	assert.Equal(t, mapping.NombreOriginal, got.NombreOriginal)

	missing, err := repo.GetMapping(ctx, "no existe")
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := repo.ListMappings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.DeleteMapping(ctx, "omega 3"))
	gone, err := repo.GetMapping(ctx, "omega 3")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestRedisRepositoryRejectsEmptyKeys(t *testing.T) {
	repo := NewRedisRepository(newMockHashStore())
	ctx := context.Background()

	assert.Error(t, repo.SaveMapping(ctx, Mapping{}))
	assert.Error(t, repo.SaveCombo(ctx, Combo{Nombre: "Pack"}))
}

func TestRedisRepositoryComboLifecycle(t *testing.T) {
	store := newMockHashStore()
	repo := NewRedisRepository(store)
	ctx := context.Background()

	combos := []Combo{
		{ID: "c2", Nombre: "Pack B", Items: []ComboItem{{Producto: "Magnesio", Cantidad: 1}}},
		{ID: "c1", Nombre: "Pack A", Items: []ComboItem{{Producto: "Creatina", Cantidad: 2}}},
	}
	for _, combo := range combos {
		require.NoError(t, repo.SaveCombo(ctx, combo))
	}

	got, err := repo.GetCombo(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Pack A", got.Nombre)

	all, err := repo.ListCombos(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Listing is sorted by nombre for stable output.
	assert.Equal(t, "Pack A", all[0].Nombre)
	assert.Equal(t, "Pack B", all[1].Nombre)
}

func TestRedisRepositoryMappingsAreSchemaVersioned(t *testing.T) {
	store := newMockHashStore()
	repo := NewRedisRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.SaveMapping(ctx, Mapping{NombreNormalizado: "omega 3", Target: "X"}))
	_, ok := store.hashes["ms:mapping:v1"]
	assert.True(t, ok, "mappings must live under the versioned key")
}
