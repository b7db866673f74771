package orchestrator

import (
	"context"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Registry holds the App of every recent visitor. The least recently seen
// visitor is dropped once the registry is full; their persisted sign-in
// survives and is restored on their next request.
type Registry struct {
	deps  Deps
	mu    sync.Mutex
	cache *lru.Cache[string, *App]
}

func NewRegistry(size int, deps Deps) (*Registry, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	cache, err := lru.NewWithEvict[string, *App](size, func(visitorID string, app *App) {
		app.Close()
	})
	if err != nil {
		return nil, err
	}
	return &Registry{deps: deps, cache: cache}, nil
}

// NewVisitorID returns a fresh opaque visitor id.
func NewVisitorID() string {
	return uuid.NewString()
}

// Get returns the visitor's App, creating it and restoring any persisted
// sign-in on first use.
func (r *Registry) Get(ctx context.Context, visitorID string) *App {
	r.mu.Lock()
	app, ok := r.cache.Get(visitorID)
	if !ok {
		app = NewApp(visitorID, r.deps)
		r.cache.Add(visitorID, app)
		r.deps.Logger.Debug("New visitor", zap.String("visitor", visitorID))
	}
	r.mu.Unlock()

	app.Start(ctx)
	return app
}

func (r *Registry) Len() int {
	return r.cache.Len()
}
