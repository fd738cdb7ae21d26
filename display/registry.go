package display

import (
	"errors"
	"regexp"
	"sync"

	"github.com/brubcam/GEOG-464-Lab-8/metrics"
)

var ErrInvalidSurfaceName = errors.New("surface name must be 1-64 characters of [A-Za-z0-9_-]")

var surfaceNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Registry creates surfaces lazily by name, one per browser tab or client.
type Registry struct {
	mu       sync.Mutex
	surfaces map[string]*Surface
}

func NewRegistry() *Registry {
	return &Registry{surfaces: make(map[string]*Surface)}
}

// Surface returns the surface called name, creating it on first use.
func (r *Registry) Surface(name string) (*Surface, error) {
	if !surfaceNamePattern.MatchString(name) {
		return nil, ErrInvalidSurfaceName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.surfaces[name]; ok {
		return s, nil
	}
	s := NewSurface(name)
	r.surfaces[name] = s
	metrics.SurfacesActive.Set(float64(len(r.surfaces)))
	return s, nil
}

// Lookup returns an existing surface without creating one.
func (r *Registry) Lookup(name string) (*Surface, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.surfaces[name]
	return s, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.surfaces)
}

// Close closes every surface and empties the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	surfaces := r.surfaces
	r.surfaces = make(map[string]*Surface)
	r.mu.Unlock()

	for _, s := range surfaces {
		s.Close()
	}
	metrics.SurfacesActive.Set(0)
}
