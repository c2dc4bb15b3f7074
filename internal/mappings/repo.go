package mappings

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	redispkg "github.com/Magic-Stars-CR/magicstars-backend/pkg/redis"
)

// schemaVersion is baked into the hash keys so a future format change can
// migrate by writing to a fresh key.
const schemaVersion = 1

// Repository is the durable resolution table. The Redis implementation is the
// default; call sites only see this interface.
type Repository interface {
	SaveMapping(ctx context.Context, mapping Mapping) error
	GetMapping(ctx context.Context, nombreNormalizado string) (*Mapping, error)
	ListMappings(ctx context.Context) ([]Mapping, error)
	DeleteMapping(ctx context.Context, nombreNormalizado string) error
	SaveCombo(ctx context.Context, combo Combo) error
	GetCombo(ctx context.Context, id string) (*Combo, error)
	ListCombos(ctx context.Context) ([]Combo, error)
}

type hashStore interface {
	HSet(ctx context.Context, key, field string, value any) error
	HGet(ctx context.Context, key, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error
	MappingKey(schemaVersion int) string
	ComboKey(schemaVersion int) string
}

type redisRepository struct {
	store hashStore
}

// NewRedisRepository builds the Redis-backed mapping/combo repository.
func NewRedisRepository(store hashStore) Repository {
	return &redisRepository{store: store}
}

func (r *redisRepository) SaveMapping(ctx context.Context, mapping Mapping) error {
	if mapping.NombreNormalizado == "" {
		return fmt.Errorf("mapping key required")
	}
	raw, err := json.Marshal(mapping)
	if err != nil {
		return err
	}
	return r.store.HSet(ctx, r.store.MappingKey(schemaVersion), mapping.NombreNormalizado, string(raw))
}

func (r *redisRepository) GetMapping(ctx context.Context, nombreNormalizado string) (*Mapping, error) {
	raw, err := r.store.HGet(ctx, r.store.MappingKey(schemaVersion), nombreNormalizado)
	if err != nil {
		if redispkg.IsNil(err) {
			return nil, nil
		}
		return nil, err
	}
	var mapping Mapping
	if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
		return nil, fmt.Errorf("decode mapping %q: %w", nombreNormalizado, err)
	}
	return &mapping, nil
}

func (r *redisRepository) ListMappings(ctx context.Context) ([]Mapping, error) {
	entries, err := r.store.HGetAll(ctx, r.store.MappingKey(schemaVersion))
	if err != nil {
		return nil, err
	}
	mappings := make([]Mapping, 0, len(entries))
	for field, raw := range entries {
		var mapping Mapping
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			return nil, fmt.Errorf("decode mapping %q: %w", field, err)
		}
		mappings = append(mappings, mapping)
	}
	sort.Slice(mappings, func(i, j int) bool {
		return mappings[i].NombreNormalizado < mappings[j].NombreNormalizado
	})
	return mappings, nil
}

func (r *redisRepository) DeleteMapping(ctx context.Context, nombreNormalizado string) error {
	return r.store.HDel(ctx, r.store.MappingKey(schemaVersion), nombreNormalizado)
}

func (r *redisRepository) SaveCombo(ctx context.Context, combo Combo) error {
	if combo.ID == "" {
		return fmt.Errorf("combo id required")
	}
	raw, err := json.Marshal(combo)
	if err != nil {
		return err
	}
	return r.store.HSet(ctx, r.store.ComboKey(schemaVersion), combo.ID, string(raw))
}

func (r *redisRepository) GetCombo(ctx context.Context, id string) (*Combo, error) {
	raw, err := r.store.HGet(ctx, r.store.ComboKey(schemaVersion), id)
	if err != nil {
		if redispkg.IsNil(err) {
			return nil, nil
		}
		return nil, err
	}
	var combo Combo
	if err := json.Unmarshal([]byte(raw), &combo); err != nil {
		return nil, fmt.Errorf("decode combo %q: %w", id, err)
	}
	return &combo, nil
}

func (r *redisRepository) ListCombos(ctx context.Context) ([]Combo, error) {
	entries, err := r.store.HGetAll(ctx, r.store.ComboKey(schemaVersion))
	if err != nil {
		return nil, err
	}
	combos := make([]Combo, 0, len(entries))
	for field, raw := range entries {
		var combo Combo
		if err := json.Unmarshal([]byte(raw), &combo); err != nil {
			return nil, fmt.Errorf("decode combo %q: %w", field, err)
		}
		combos = append(combos, combo)
	}
	sort.Slice(combos, func(i, j int) bool { return combos[i].Nombre < combos[j].Nombre })
	return combos, nil
}
