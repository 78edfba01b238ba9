package container

import "sync"

// DefaultName is the container name used when none is given.
const DefaultName = "default"

var (
	containersMu sync.Mutex
	containers   = map[string]*Registry{}
)

// Named returns the process-wide Registry registered under name, creating it
// on first use. opts only apply when this call creates the Registry. An
// empty name selects DefaultName.
//
// Registries returned for different names share no state.
//
//	c := container.Named("app")
//	c.Set("db.dsn", dsn)
func Named(name string, opts ...Option) *Registry {
	if name == "" {
		name = DefaultName
	}

	containersMu.Lock()
	defer containersMu.Unlock()

	if r, ok := containers[name]; ok {
		return r
	}
	r := New(append(append([]Option(nil), opts...), WithName(name))...)
	containers[name] = r
	return r
}

// Default returns the Registry named DefaultName.
func Default() *Registry { return Named(DefaultName) }
