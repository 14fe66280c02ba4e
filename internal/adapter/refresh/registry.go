package refresh

import "github.com/cwygoda/tipwatch/internal/domain"

// Registry holds registered refreshers. The scheduler invokes whichever
// refresher the config names, so downstream collaborators stay pluggable.
type Registry struct {
	refreshers []domain.Refresher
}

// NewRegistry creates a new refresher registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a refresher to the registry.
func (r *Registry) Register(ref domain.Refresher) {
	r.refreshers = append(r.refreshers, ref)
}

// Lookup returns the refresher with the given name, or nil. An empty name
// selects the first registered refresher.
func (r *Registry) Lookup(name string) domain.Refresher {
	if name == "" {
		if len(r.refreshers) > 0 {
			return r.refreshers[0]
		}
		return nil
	}
	for _, ref := range r.refreshers {
		if ref.Name() == name {
			return ref
		}
	}
	return nil
}

// Refreshers returns all registered refreshers.
func (r *Registry) Refreshers() []domain.Refresher {
	return r.refreshers
}
