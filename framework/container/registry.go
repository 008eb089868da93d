package container

import (
	"sort"
	"sync"
)

// binding holds a registered factory and whether it is wrapped as a singleton.
type binding struct {
	factory Factory
	shared  bool
}

// BindingInfo describes one registry entry (for inspection / debugging).
type BindingInfo struct {
	ID     string `json:"id"`
	Shared bool   `json:"shared"`
}

// registry maps ids to bindings. Factories are never invoked under its lock.
type registry struct {
	mu       sync.RWMutex
	bindings map[string]*binding
}

func newRegistry() *registry {
	return &registry{bindings: make(map[string]*binding)}
}

func (r *registry) put(id string, b *binding) (replaced bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, replaced = r.bindings[id]
	r.bindings[id] = b
	return replaced
}

func (r *registry) lookup(id string) (*binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[id]
	return b, ok
}

func (r *registry) info(id string) (BindingInfo, bool) {
	b, ok := r.lookup(id)
	if !ok {
		return BindingInfo{}, false
	}
	return BindingInfo{ID: id, Shared: b.shared}, true
}

func (r *registry) has(id string) bool {
	_, ok := r.lookup(id)
	return ok
}

func (r *registry) delete(id string) (removed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bindings[id]; !ok {
		return false
	}
	delete(r.bindings, id)
	return true
}

// snapshot returns every entry sorted by id.
func (r *registry) snapshot() []BindingInfo {
	r.mu.RLock()
	out := make([]BindingInfo, 0, len(r.bindings))
	for id, b := range r.bindings {
		out = append(out, BindingInfo{ID: id, Shared: b.shared})
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
