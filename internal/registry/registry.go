// Package registry coordinates popup pickers so that at most one instance is
// open at a time. Registries are plain values; create one per program (or
// per test) and inject it.
package registry

import (
	"sync"

	"github.com/rs/xid"
)

// Registry maps instance ids to their deactivate callbacks and tracks the
// single active id.
type Registry struct {
	mu        sync.Mutex
	instances map[string]func()
	active    string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{instances: make(map[string]func())}
}

// Register adds an instance and returns its id. onDeactivate runs when
// another instance takes over the active slot.
func (r *Registry) Register(onDeactivate func()) string {
	id := xid.New().String()
	r.mu.Lock()
	r.instances[id] = onDeactivate
	r.mu.Unlock()
	return id
}

// Unregister removes an instance, clearing the active slot if it held it.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	delete(r.instances, id)
	if r.active == id {
		r.active = ""
	}
	r.mu.Unlock()
}

// Activate makes id the only active instance. The previous holder's
// callback runs after the lock is released.
func (r *Registry) Activate(id string) bool {
	r.mu.Lock()
	if _, ok := r.instances[id]; !ok {
		r.mu.Unlock()
		return false
	}
	prev := r.active
	r.active = id
	var notify func()
	if prev != "" && prev != id {
		notify = r.instances[prev]
	}
	r.mu.Unlock()

	if notify != nil {
		notify()
	}
	return true
}

// Deactivate clears the active slot if id holds it.
func (r *Registry) Deactivate(id string) {
	r.mu.Lock()
	if r.active == id {
		r.active = ""
	}
	r.mu.Unlock()
}

// Active returns the active id.
func (r *Registry) Active() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active, r.active != ""
}

// IsActive reports whether id holds the active slot.
func (r *Registry) IsActive(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return id != "" && r.active == id
}
