package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/wonny/astro/internal/contracts"
	"github.com/wonny/astro/internal/natal"
	"github.com/wonny/astro/pkg/logger"
)

// Registry process-wide set of engines keyed by chart ID
type Registry struct {
	mu      sync.RWMutex
	engines map[uuid.UUID]*Engine
	builder *natal.Builder
	deps    Deps
	logger  *logger.Logger
}

// NewRegistry creates an empty registry; charts are built from deps.Provider
func NewRegistry(deps Deps) *Registry {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
		deps.Logger = log
	}
	return &Registry{
		engines: make(map[uuid.UUID]*Engine),
		builder: natal.NewBuilder(deps.Provider, log),
		deps:    deps,
		logger:  log.Component("engine.registry"),
	}
}

// Create builds the chart of birth and registers its engine
func (r *Registry) Create(ctx context.Context, birth natal.BirthData) (*Engine, error) {
	chart, err := r.builder.Build(ctx, birth)
	if err != nil {
		return nil, err
	}
	return r.Add(chart), nil
}

// Add registers an engine for an already built chart
func (r *Registry) Add(chart *natal.Chart) *Engine {
	e := New(chart, r.deps)

	r.mu.Lock()
	r.engines[chart.ID()] = e
	total := len(r.engines)
	r.mu.Unlock()

	r.logger.WithFields(map[string]interface{}{
		"chart_id": chart.ID().String(),
		"total":    total,
	}).Info("Chart registered")
	return e
}

// Get returns the engine of a chart
func (r *Registry) Get(id uuid.UUID) (*Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.engines[id]
	if !ok {
		return nil, fmt.Errorf("%w: chart %s", contracts.ErrNotFound, id)
	}
	return e, nil
}

// Remove drops a chart; unknown IDs are ignored
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.engines, id)
}

// IDs returns registered chart IDs in a stable order
func (r *Registry) IDs() []uuid.UUID {
	r.mu.RLock()
	ids := make([]uuid.UUID, 0, len(r.engines))
	for id := range r.engines {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// Len returns the number of registered charts
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.engines)
}
