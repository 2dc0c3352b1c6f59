package keymap

import (
	"sort"
	"sync"

	"github.com/dshills/keymap/internal/input/key"
)

// Registry holds one Config per mode ("normal", "insert", ...).
// It is safe for concurrent use; Swap replaces every mode at once so that
// readers never observe a half-reloaded set.
type Registry[T any] struct {
	mu    sync.RWMutex
	modes map[string]*Config[T]
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		modes: make(map[string]*Config[T]),
	}
}

// Set registers cfg for mode, replacing any previous config.
func (r *Registry[T]) Set(mode string, cfg *Config[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modes[mode] = cfg
}

// Get returns the config for mode.
func (r *Registry[T]) Get(mode string) (*Config[T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.modes[mode]
	return cfg, ok
}

// Remove unregisters mode.
func (r *Registry[T]) Remove(mode string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.modes, mode)
}

// Modes returns the registered mode names, sorted.
func (r *Registry[T]) Modes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modes))
	for name := range r.modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Swap replaces all modes and returns the previous set.
func (r *Registry[T]) Swap(modes map[string]*Config[T]) map[string]*Config[T] {
	next := make(map[string]*Config[T], len(modes))
	for name, cfg := range modes {
		next[name] = cfg
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.modes
	r.modes = next
	return prev
}

// Lookup resolves a key sequence in mode.
func (r *Registry[T]) Lookup(mode string, nodes key.Sequence) (Resolution[T], bool) {
	cfg, ok := r.Get(mode)
	if !ok {
		return Resolution[T]{}, false
	}
	return cfg.Resolve(nodes)
}

// HasPrefix reports whether nodes is a prefix of a longer binding in mode.
func (r *Registry[T]) HasPrefix(mode string, nodes key.Sequence) bool {
	cfg, ok := r.Get(mode)
	if !ok {
		return false
	}
	return cfg.HasPrefix(nodes)
}
