// internal/app/system/modalflow/registry.go
package modalflow

import "sync"

// Registry hands out one Orchestrator per session key, so each signed
// in operator gets an independent modal lifecycle over the same
// gateway and cache.
type Registry[T any] struct {
	mu        sync.Mutex
	cfg       Config[T]
	customize func(sessionID string, cfg Config[T]) Config[T]
	byID      map[string]*Orchestrator[T]
}

// NewRegistry creates a registry that builds orchestrators from cfg.
func NewRegistry[T any](cfg Config[T]) *Registry[T] {
	return &Registry[T]{cfg: cfg, byID: make(map[string]*Orchestrator[T])}
}

// Customize installs a hook that adjusts the base config for each new
// session's orchestrator. The console uses it to give every session its
// own notification buffer.
func (r *Registry[T]) Customize(fn func(sessionID string, cfg Config[T]) Config[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customize = fn
}

// For returns the session's orchestrator, creating it on first use.
func (r *Registry[T]) For(sessionID string) *Orchestrator[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.byID[sessionID]; ok {
		return o
	}
	cfg := r.cfg
	if r.customize != nil {
		cfg = r.customize(sessionID, cfg)
	}
	o := New(cfg)
	r.byID[sessionID] = o
	return o
}

// Drop discards a session's orchestrator (sign-out, session expiry).
func (r *Registry[T]) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, sessionID)
}
