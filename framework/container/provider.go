package container

import "sync"

// ── Provider interface ────────────────────────────────────────────────────────

// Provider bundles related registrations.
//
// Register is called when the provider is added (or, for deferred providers,
// on the first service request for one of its Provides names). Boot is
// called once all eager providers are registered, so it may resolve
// services other providers declared.
//
//	type MailProvider struct{ container.BaseProvider }
//
//	func (p *MailProvider) Register(c *container.Registry) {
//	    c.Set("mailer", container.Sync(func(s *container.Scope) (any, error) {
//	        return mail.New(s.Param("host").(string)), nil
//	    }))
//	}
type Provider interface {
	// Register stores parameters and factories. Do not resolve services here.
	Register(c *Registry)

	// Boot runs after every eager provider has been registered.
	Boot(c *Registry)

	// Provides lists the service keys a deferred provider registers.
	Provides() []string

	// IsDeferred reports whether registration waits for the first service
	// request of a Provides key.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider supplies no-op Boot, Provides and IsDeferred.
// Embed it and implement Register.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Registry)   {}
func (p *BaseProvider) Provides() []string { return nil }
func (p *BaseProvider) IsDeferred() bool   { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots Providers against one Registry.
// It is safe for concurrent use; provider callbacks run without its lock held.
type ProviderRegistry struct {
	mu sync.Mutex

	app        *Registry
	eager      []Provider
	deferred   map[string]Provider     // service key → provider
	loads      map[Provider]*sync.Once // deferred provider → its one registration
	booted     bool
	registered map[Provider]bool
}

// NewProviderRegistry creates a provider registry bound to app.
func NewProviderRegistry(app *Registry) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		deferred:   make(map[string]Provider),
		loads:      make(map[Provider]*sync.Once),
		registered: make(map[Provider]bool),
	}
}

// Register adds a provider. Eager providers are registered immediately (and
// booted if Boot already ran); deferred ones install placeholders.
// Adding the same provider twice is a no-op.
func (r *ProviderRegistry) Register(provider Provider) {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		for _, key := range provider.Provides() {
			r.deferred[key] = provider
		}
		r.loads[provider] = new(sync.Once)
		r.mu.Unlock()
		r.interceptDeferred(provider)
		return
	}

	r.eager = append(r.eager, provider)
	booted := r.booted
	r.mu.Unlock()

	provider.Register(r.app)
	if booted {
		provider.Boot(r.app)
	}
}

// placeholder stands in for a deferred provider's key until the provider
// is registered. It resolves like a Factory.
type placeholder struct {
	providers *ProviderRegistry
	provider  Provider
	key       string
}

func (ph *placeholder) run(_ *Scope, done Callback) {
	ph.providers.loadDeferred(ph.provider)
	ph.providers.app.Service(ph.key, done)
}

// interceptDeferred stores a placeholder for each provided key. The first
// service request registers the provider for real, then resolves the key
// again from the root scope so the real factory's result is what gets
// memoized. Requests racing the first one wait for that registration.
func (r *ProviderRegistry) interceptDeferred(provider Provider) {
	for _, key := range provider.Provides() {
		r.app.Set(key, &placeholder{providers: r, provider: provider, key: key})
	}
}

// loadDeferred registers provider exactly once. Placeholders the provider
// did not replace are removed afterwards, so such keys resolve as missing.
func (r *ProviderRegistry) loadDeferred(provider Provider) {
	r.mu.Lock()
	once := r.loads[provider]
	r.mu.Unlock()

	once.Do(func() {
		r.mu.Lock()
		for key, p := range r.deferred {
			if p == provider {
				delete(r.deferred, key)
			}
		}
		booted := r.booted
		r.mu.Unlock()

		provider.Register(r.app)
		r.app.unsetIf(func(_ string, v any) bool {
			ph, ok := v.(*placeholder)
			return ok && ph.providers == r && ph.provider == provider
		})
		if booted {
			provider.Boot(r.app)
		}
	})
}

// Boot calls Boot on every eager provider. Later calls are no-ops.
func (r *ProviderRegistry) Boot() {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return
	}
	r.booted = true
	eager := append([]Provider(nil), r.eager...)
	r.mu.Unlock()

	for _, provider := range eager {
		provider.Boot(r.app)
	}
}

// Booted reports whether Boot has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns the eager providers in registration order.
func (r *ProviderRegistry) Providers() []Provider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Provider(nil), r.eager...)
}
