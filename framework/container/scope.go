package container

import (
	"sync"

	"go.uber.org/zap"
)

// Scope is a namespaced view over a Registry.
//
// The root scope of a Registry has namespace GlobalNamespace. A factory
// receives a child scope whose namespace is the key being instantiated, so
// its lookups see "<key>.<name>" parameters ahead of the bare "<name>".
// Scopes are immutable and own no state besides the namespace.
type Scope struct {
	registry  *Registry
	namespace string
}

// Namespace returns the scope's namespace tag.
func (s *Scope) Namespace() string { return s.namespace }

// Registry returns the Registry shared by all scopes derived from it.
func (s *Scope) Registry() *Registry { return s.registry }

// IsRoot reports whether s is the Registry's root scope.
func (s *Scope) IsRoot() bool { return s == s.registry.root }

// child returns a scope over the same Registry tagged with namespace.
func (s *Scope) child(namespace string) *Scope {
	return &Scope{registry: s.registry, namespace: namespace}
}

// Set stores a parameter. On the root scope the key is used as-is; on a
// factory's scope it is stored under "<namespace>.<name>", so entries a
// factory declares stay local to the service that declared them.
//
//	c.Set("globalService", container.Sync(func(s *container.Scope) (any, error) {
//	    s.Set("localParam", "x")  // stored as "globalService.localParam"
//	    return &Global{}, nil
//	}))
func (s *Scope) Set(name string, value any) {
	if !s.IsRoot() {
		name = s.qualify(name)
	}
	s.registry.Set(name, value)
}

// Get resolves name within this scope.
//
// A name starting with Sigil is a service request: the sigil is stripped,
// the result is delivered through cb and Get returns nil. Any other name is
// a value request: the stored parameter is returned directly, cb is never
// called and factories are never run.
//
// In both cases "<namespace>.<name>" is used when such a parameter exists,
// otherwise the bare name.
//
// A service request then proceeds as follows:
//   - a memoized instance is delivered as-is
//   - a missing parameter delivers (nil, nil)
//   - a string parameter starting with Sigil is requested again in this scope
//   - any other non-factory parameter is delivered as the result
//   - a factory runs in a child scope namespaced to the effective key; a
//     successful result is memoized, an error is delivered and not cached
//
// Requests that re-enter a key while it is still being built are not
// detected.
func (s *Scope) Get(name string, cb Callback) any {
	service := len(name) > 0 && name[0] == Sigil
	if service {
		name = name[1:]
	}

	key := s.effectiveKey(name)
	log := s.registry.log.With(zap.String("key", key), zap.String("namespace", s.namespace))

	if !service {
		log.Debug("value requested")
		v, _ := s.registry.parameter(key)
		return v
	}

	if cb == nil {
		cb = func(any, error) {}
	}

	log.Debug("service requested")

	if inst, ok := s.registry.instance(key); ok {
		cb(inst, nil)
		return nil
	}

	param, ok := s.registry.parameter(key)
	if !ok {
		cb(nil, nil)
		return nil
	}

	factory, ok := asFactory(param)
	if !ok {
		if target, isRef := serviceRef(param); isRef {
			log.Debug("following alias", zap.String("target", target))
			return s.Get(target, cb)
		}
		cb(param, nil)
		return nil
	}

	log.Debug("instantiating service")
	factory(s.child(key), s.registry.once(key, func(value any, err error) {
		if err != nil {
			log.Debug("service instantiation failed", zap.Error(err))
			cb(nil, err)
			return
		}
		if value != nil {
			stored, fresh := s.registry.memoize(key, value)
			if fresh {
				s.registry.fireAfterResolving(key, stored)
			}
			value = stored
		}
		cb(value, nil)
	}))
	return nil
}

// Param performs a value request for name.
func (s *Scope) Param(name string) any {
	if len(name) > 0 && name[0] == Sigil {
		name = name[1:]
	}
	return s.Get(name, nil)
}

// Service performs a service request for name. The sigil is optional.
//
//	s.Service("mailer", func(v any, err error) { ... })
func (s *Scope) Service(name string, cb Callback) {
	s.Get(Ref(name), cb)
}

// Resolve performs a service request and returns its outcome. It returns
// ErrPending when the factory chain has not called back by the time the
// request returns; the late result is still memoized but not reported here.
//
//	db, err := s.Resolve("db")
func (s *Scope) Resolve(name string) (any, error) {
	var (
		mu    sync.Mutex
		value any
		err   error
		done  bool
	)
	s.Service(name, func(v any, e error) {
		mu.Lock()
		defer mu.Unlock()
		if done {
			return
		}
		value, err, done = v, e, true
	})

	mu.Lock()
	defer mu.Unlock()
	if !done {
		done = true
		return nil, &PendingError{Name: name}
	}
	return value, err
}

// qualify prefixes name with the scope's namespace.
func (s *Scope) qualify(name string) string {
	return s.namespace + "." + name
}

// effectiveKey prefers the namespace-qualified key when it holds a parameter.
func (s *Scope) effectiveKey(name string) string {
	if q := s.qualify(name); s.registry.Has(q) {
		return q
	}
	return name
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Ref returns name as a service request, adding the sigil if missing.
//
//	container.Ref("db")  // "@db"
func Ref(name string) string {
	if len(name) > 0 && name[0] == Sigil {
		return name
	}
	return string(Sigil) + name
}

// serviceRef reports whether v is a string naming another service.
func serviceRef(v any) (string, bool) {
	str, ok := v.(string)
	if !ok || len(str) < 2 || str[0] != Sigil {
		return "", false
	}
	return str, true
}

// once guards a factory's callback so only its first invocation counts.
func (r *Registry) once(key string, cb Callback) Callback {
	var o sync.Once
	return func(value any, err error) {
		called := false
		o.Do(func() {
			called = true
			cb(value, err)
		})
		if !called {
			r.log.Warn("factory called back more than once", zap.String("key", key))
		}
	}
}
