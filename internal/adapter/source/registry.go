package source

import (
	"fmt"
	"sort"

	"socialpulse/internal/domain/pulse"
)

// Registry resolves an upstream fetcher by platform name
type Registry struct {
	fetchers    map[string]pulse.PageFetcher
	defaultName string
}

// NewRegistry creates a registry whose default is the first fetcher given
func NewRegistry(fetchers ...pulse.PageFetcher) *Registry {
	r := &Registry{fetchers: make(map[string]pulse.PageFetcher, len(fetchers))}
	for _, f := range fetchers {
		if r.defaultName == "" {
			r.defaultName = f.Name()
		}
		r.fetchers[f.Name()] = f
	}
	return r
}

// Get returns the fetcher registered under name, or the default for ""
func (r *Registry) Get(name string) (pulse.PageFetcher, error) {
	if name == "" {
		name = r.defaultName
	}
	f, ok := r.fetchers[name]
	if !ok {
		return nil, fmt.Errorf("source %q is not configured (available: %v): %w", name, r.Names(), pulse.ErrUnknownSource)
	}
	return f, nil
}

// Names lists the registered platforms in alphabetical order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fetchers))
	for name := range r.fetchers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
