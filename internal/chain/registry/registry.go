package registry

import "sort"

// Registry is the in-memory table of network descriptors. It is populated once
// at startup and read-only afterwards, so lookups need no locking.
type Registry struct {
	networks map[string]NetworkDescriptor
}

// New returns a registry seeded with the built-in network table.
func New() *Registry {
	networks := make(map[string]NetworkDescriptor, len(builtinNetworks))
	for name, desc := range builtinNetworks {
		networks[name] = desc
	}
	return &Registry{networks: networks}
}

// Register merges user-supplied descriptors over the current table, user
// entries winning on name collision. No validation beyond structural shape;
// a bad RPC URL surfaces downstream when the connection pool dials it.
func (r *Registry) Register(descriptors map[string]NetworkDescriptor) {
	for name, desc := range descriptors {
		if desc.Name == "" {
			desc.Name = name
		}
		if desc.CurrencyDecimals == 0 {
			desc.CurrencyDecimals = defaultDecimals
		}
		r.networks[name] = desc
	}
}

// OverrideRPC replaces the RPC URL of a registered network, or registers a
// bare descriptor when the name is unknown so user-configured networks outside
// the built-in table still get a connection.
func (r *Registry) OverrideRPC(name string, rpcURL string) {
	desc, ok := r.networks[name]
	if !ok {
		desc = NetworkDescriptor{Name: name, CurrencyDecimals: defaultDecimals}
	}
	desc.RPCURL = rpcURL
	r.networks[name] = desc
}

// Get returns the descriptor for name.
func (r *Registry) Get(name string) (NetworkDescriptor, bool) {
	desc, ok := r.networks[name]
	return desc, ok
}

// Names returns all registered network names, sorted for stable output.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.networks))
	for name := range r.networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every registered descriptor keyed by name. The returned map is a
// copy; mutating it does not touch the registry.
func (r *Registry) All() map[string]NetworkDescriptor {
	out := make(map[string]NetworkDescriptor, len(r.networks))
	for name, desc := range r.networks {
		out[name] = desc
	}
	return out
}
