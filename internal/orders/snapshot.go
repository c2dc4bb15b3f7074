package orders

import (
	"sync"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
)

// Snapshot holds the most recently loaded pedido set together with the
// generation that produced it. Refreshes race freely; only the newest
// generation wins.
type Snapshot struct {
	mu         sync.RWMutex
	generation uint64
	applied    uint64
	pedidos    []models.Pedido
}

// NewSnapshot returns an empty snapshot at generation zero.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Begin reserves the next generation for a refresh. The caller loads data and
// hands the token back to Complete.
func (s *Snapshot) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// Complete installs the loaded pedidos if the generation is still the newest
// applied one. Stale completions are discarded and reported as false.
func (s *Snapshot) Complete(generation uint64, pedidos []models.Pedido) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation <= s.applied {
		return false
	}
	s.applied = generation
	s.pedidos = pedidos
	return true
}

// Pedidos returns the current pedido set. The returned slice is a copy so
// callers can filter and patch without holding the lock.
func (s *Snapshot) Pedidos() []models.Pedido {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Pedido, len(s.pedidos))
	copy(out, s.pedidos)
	return out
}

// Patch merges the updated pedido into the snapshot by id, leaving every other
// row untouched. Unknown ids are ignored; the next refresh will pick them up.
func (s *Snapshot) Patch(updated models.Pedido) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.pedidos {
		if s.pedidos[i].ID == updated.ID {
			s.pedidos[i] = updated
			return
		}
	}
}

// Remove drops the pedido with the given id, if present.
func (s *Snapshot) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.pedidos {
		if s.pedidos[i].ID == id {
			s.pedidos = append(s.pedidos[:i], s.pedidos[i+1:]...)
			return
		}
	}
}

// Generation reports the newest applied generation, for observability.
func (s *Snapshot) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.applied
}

// SnapshotSet keeps one Snapshot per list scope. Rows loaded for one tienda
// or mensajero are never served to a request scoped differently.
type SnapshotSet struct {
	mu     sync.Mutex
	scopes map[string]*Snapshot
}

// NewSnapshotSet returns an empty set.
func NewSnapshotSet() *SnapshotSet {
	return &SnapshotSet{scopes: make(map[string]*Snapshot)}
}

// For returns the snapshot for the given scope key, creating it on first use.
func (s *SnapshotSet) For(key string) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.scopes[key]
	if !ok {
		snap = NewSnapshot()
		s.scopes[key] = snap
	}
	return snap
}

// Patch merges the updated pedido into every scope that holds it.
func (s *SnapshotSet) Patch(updated models.Pedido) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snap := range s.scopes {
		snap.Patch(updated)
	}
}

// Remove drops the pedido from every scope that holds it.
func (s *SnapshotSet) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snap := range s.scopes {
		snap.Remove(id)
	}
}
