package oauth

// Registry holds all configured providers and allows lookup by name.
//
// It is a plain value constructed once at startup and passed in wherever providers are needed.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry registers the given providers by name. Later entries win on duplicate names.
func NewRegistry(providers ...Provider) *Registry {
	m := make(map[string]Provider, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

// Get returns the provider with the given name, or nil if it is not registered.
func (r *Registry) Get(name string) Provider {
	return r.providers[name]
}

// Names returns the names of all registered providers.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
