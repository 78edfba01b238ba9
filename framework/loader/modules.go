package loader

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/km-arc/dico/framework/container"
)

// ModuleResolver turns a module identifier from a declaration into the
// factory it names.
type ModuleResolver interface {
	Resolve(id string) (container.Factory, bool)
}

// ModuleResolverFunc adapts a function into a ModuleResolver.
type ModuleResolverFunc func(id string) (container.Factory, bool)

// Resolve implements ModuleResolver.
func (f ModuleResolverFunc) Resolve(id string) (container.Factory, bool) { return f(id) }

// Modules is an in-memory table of loadable units.
//
// Factories are registered under the identifier declarations use: a bare
// name ("mailer") or a path. Path-like identifiers are cleaned so that
// "/srv/app/./services/mailer" and "/srv/app/services/mailer" match.
//
//	mods := loader.NewModules()
//	mods.Register(filepath.Join(dir, "services/mailer"), mailerFactory)
//	mods.Register("clock", clockFactory)
type Modules struct {
	mu    sync.RWMutex
	units map[string]container.Factory
}

// NewModules creates an empty module table.
func NewModules() *Modules {
	return &Modules{units: make(map[string]container.Factory)}
}

// Register adds or replaces the factory for id and returns m for chaining.
func (m *Modules) Register(id string, f container.Factory) *Modules {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.units[normalizeID(id)] = f
	return m
}

// Resolve implements ModuleResolver.
func (m *Modules) Resolve(id string) (container.Factory, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.units[normalizeID(id)]
	return f, ok && f != nil
}

// IDs returns the registered identifiers in lexicographic order.
func (m *Modules) IDs() []string {
	m.mu.RLock()
	ids := make([]string, 0, len(m.units))
	for id := range m.units {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// ResolveID maps a declared module identifier to a lookup identifier.
// Identifiers starting with "." are joined to baseDir; anything else
// (absolute paths, bare names) is used as-is.
func ResolveID(id, baseDir string) string {
	if strings.HasPrefix(id, ".") {
		return filepath.Join(baseDir, id)
	}
	return id
}

func normalizeID(id string) string {
	if strings.ContainsRune(id, '/') || strings.ContainsRune(id, filepath.Separator) {
		return filepath.Clean(id)
	}
	return id
}
