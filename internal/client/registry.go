package client

import "sync"

// Registry holds one App per user key, created on first use
type Registry struct {
	factory func(key string) *App

	mu   sync.Mutex
	apps map[string]*App
}

func NewRegistry(factory func(key string) *App) *Registry {
	return &Registry{
		factory: factory,
		apps:    make(map[string]*App),
	}
}

// Get returns the App for key, creating it if needed
func (r *Registry) Get(key string) *App {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.apps[key]
	if !ok {
		app = r.factory(key)
		r.apps[key] = app
	}
	return app
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.apps)
}
