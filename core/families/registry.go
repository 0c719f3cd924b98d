package families

import (
	"fmt"
	"sync"
)

// Registry stores family adaptors keyed by tag.
type Registry struct {
	mu       sync.RWMutex
	families map[string]Family
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{families: make(map[string]Family)}
}

// Register adds a family adaptor. Registering a duplicate tag is an error.
func (r *Registry) Register(f Family) error {
	if f == nil {
		return fmt.Errorf("nil family")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.families[f.Tag()]; ok {
		return fmt.Errorf("family already registered for %s", f.Tag())
	}
	r.families[f.Tag()] = f
	return nil
}

// Lookup returns the adaptor for the tag.
func (r *Registry) Lookup(tag string) (Family, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.families[tag]
	return f, ok
}

// Default returns a registry with all built-in families registered.
func Default() *Registry {
	r := NewRegistry()
	for _, f := range []Family{Gaussian{}, Binomial{}, Poisson{}, Mixed{}, Additive{}, Bayes{}} {
		if err := r.Register(f); err != nil {
			panic(err)
		}
	}
	return r
}
