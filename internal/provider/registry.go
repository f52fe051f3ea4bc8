package provider

import "fmt"

// Registry holds all configured identity providers and allows lookup by
// provider key. It performs no auth logic itself.
type Registry struct {
	drivers map[string]Driver
	order   []string
}

// NewRegistry registers the given drivers by key. A later driver with the
// same key replaces the earlier one.
func NewRegistry(list ...Driver) *Registry {
	r := &Registry{drivers: make(map[string]Driver)}
	for _, d := range list {
		key := d.Config().Key
		if _, exists := r.drivers[key]; !exists {
			r.order = append(r.order, key)
		}
		r.drivers[key] = d
	}
	return r
}

// Get returns the driver for key, or ErrUnknownProvider if not registered.
func (r *Registry) Get(key string) (Driver, error) {
	d, ok := r.drivers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, key)
	}
	return d, nil
}

// Has reports whether a driver is registered under key.
func (r *Registry) Has(key string) bool {
	_, ok := r.drivers[key]
	return ok
}

// Configs returns the configs of all registered drivers in registration order.
func (r *Registry) Configs() []Config {
	configs := make([]Config, 0, len(r.order))
	for _, key := range r.order {
		configs = append(configs, r.drivers[key].Config())
	}
	return configs
}
