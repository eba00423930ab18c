package postprocessors

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// BuilderFunc creates a PostProcessor from the chunking settings.
type BuilderFunc func(s domain.ChunkerSettings) (driven.PostProcessor, error)

// Registry maps processor names to their builders and remembers the
// order they were registered in, which is the order a pipeline runs them.
type Registry struct {
	builders map[string]BuilderFunc
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]BuilderFunc)}
}

// Register adds a builder. Registering a name again replaces its builder
// and keeps its position.
func (r *Registry) Register(name string, builder BuilderFunc) {
	if _, exists := r.builders[name]; !exists {
		r.order = append(r.order, name)
	}
	r.builders[name] = builder
}

// Build creates the named processor.
func (r *Registry) Build(name string, s domain.ChunkerSettings) (driven.PostProcessor, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown processor %q", domain.ErrConfiguration, name)
	}
	return builder(s)
}

// BuildAll creates every registered processor in registration order.
func (r *Registry) BuildAll(s domain.ChunkerSettings) ([]driven.PostProcessor, error) {
	procs := make([]driven.PostProcessor, 0, len(r.order))
	for _, name := range r.order {
		proc, err := r.Build(name, s)
		if err != nil {
			return nil, err
		}
		procs = append(procs, proc)
	}
	return procs, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	sort.Strings(names)
	return names
}
