package container

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// ── Entry types ───────────────────────────────────────────────────────────────

// Sigil is the leading marker that turns a requested name into a service
// request. Without it the name is a value request.
const Sigil = '@'

// GlobalNamespace is the namespace of a Registry's root scope.
const GlobalNamespace = "global"

// Callback receives the outcome of a service request. Exactly one of value
// and err is meaningful: err != nil means the request failed.
type Callback func(value any, err error)

// Factory builds a service. It runs with a scope namespaced to the key it is
// being instantiated for and must call done exactly once.
//
//	c.Set("mailer", container.Factory(func(s *container.Scope, done container.Callback) {
//	    done(&Mailer{Host: s.Param("host").(string)}, nil)
//	}))
type Factory func(s *Scope, done Callback)

// Sync adapts a synchronous constructor into a Factory.
//
//	c.Set("clock", container.Sync(func(s *container.Scope) (any, error) {
//	    return time.Now, nil
//	}))
func Sync(fn func(s *Scope) (any, error)) Factory {
	return func(s *Scope, done Callback) {
		done(fn(s))
	}
}

// IsFactory reports whether a service request for v would run it.
func IsFactory(v any) bool {
	_, ok := asFactory(v)
	return ok
}

// asFactory reports whether v is callable as a Factory.
func asFactory(v any) (Factory, bool) {
	switch f := v.(type) {
	case Factory:
		return f, f != nil
	case func(*Scope, Callback):
		return f, f != nil
	case *placeholder:
		return f.run, f != nil
	}
	return nil, false
}

// ── Registry ──────────────────────────────────────────────────────────────────

// Registry holds the parameters and memoized instances of one container.
//
// Every Scope derived from a Registry reads and writes the same two maps:
//   - parameters: qualified name → literal value or Factory
//   - instances:  qualified name → value produced by a Factory
//
// Instances are never replaced once stored. The maps are guarded by a mutex,
// but no lock is held while a factory runs, so concurrent first requests for
// the same key each run the factory.
type Registry struct {
	mu sync.RWMutex

	name       string
	parameters map[string]any
	instances  map[string]any

	// resolved callbacks: fired after a fresh instance is memoized
	afterResolving []func(key string, instance any)

	log  *zap.Logger
	root *Scope
}

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithLogger sets the logger used for resolution tracing.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithName labels the registry. Named sets it automatically.
func WithName(name string) Option {
	return func(r *Registry) { r.name = name }
}

// New creates an empty Registry. Most callers want Named instead.
func New(opts ...Option) *Registry {
	r := &Registry{
		parameters: make(map[string]any),
		instances:  make(map[string]any),
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With(zap.String("container", r.name))
	r.root = &Scope{registry: r, namespace: GlobalNamespace}
	return r
}

// Name returns the label given at construction.
func (r *Registry) Name() string { return r.name }

// Root returns the scope whose namespace is GlobalNamespace.
func (r *Registry) Root() *Scope { return r.root }

// Set writes parameters[name] = value, replacing any previous entry.
// No namespace is prepended.
//
//	c.Set("db.dsn", "postgres://localhost/app")
//	c.Set("db", dbFactory)
func (r *Registry) Set(name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parameters[name] = value
}

// Get performs a request against the root scope. See Scope.Get.
func (r *Registry) Get(name string, cb Callback) any {
	return r.root.Get(name, cb)
}

// Param returns the raw parameter stored for name in the root scope.
func (r *Registry) Param(name string) any {
	return r.root.Param(name)
}

// Service requests the service name from the root scope.
func (r *Registry) Service(name string, cb Callback) {
	r.root.Service(name, cb)
}

// Resolve requests the service name from the root scope and returns its
// result when the factory chain completes synchronously.
func (r *Registry) Resolve(name string) (any, error) {
	return r.root.Resolve(name)
}

// ── Introspection ─────────────────────────────────────────────────────────────

// Has reports whether a parameter is stored under the exact key.
func (r *Registry) Has(key string) bool {
	_, ok := r.parameter(key)
	return ok
}

// Resolved reports whether an instance has been memoized under the exact key.
func (r *Registry) Resolved(key string) bool {
	_, ok := r.instance(key)
	return ok
}

// Keys returns all parameter keys in lexicographic order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	keys := make([]string, 0, len(r.parameters))
	for k := range r.parameters {
		keys = append(keys, k)
	}
	r.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired each time a factory result is
// memoized. Cache hits do not fire it.
func (r *Registry) AfterResolving(cb func(key string, instance any)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterResolving = append(r.afterResolving, cb)
}

func (r *Registry) fireAfterResolving(key string, instance any) {
	r.mu.RLock()
	cbs := r.afterResolving
	r.mu.RUnlock()
	for _, cb := range cbs {
		cb(key, instance)
	}
}

// ── Map access ────────────────────────────────────────────────────────────────

// parameter treats a stored nil like a missing entry.
func (r *Registry) parameter(key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.parameters[key]
	return v, ok && v != nil
}

// unsetIf removes every parameter for which match reports true. Memoized
// instances are kept.
func (r *Registry) unsetIf(match func(key string, value any) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range r.parameters {
		if match(k, v) {
			delete(r.parameters, k)
		}
	}
}

func (r *Registry) instance(key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.instances[key]
	return v, ok
}

// memoize stores value under key unless an instance already exists, and
// returns the stored instance along with whether this call stored it.
func (r *Registry) memoize(key string, value any) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.instances[key]; ok {
		return existing, false
	}
	r.instances[key] = value
	return value, true
}
