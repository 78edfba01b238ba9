// Package container provides a lazy service and parameter registry.
//
// # Overview
//
// A Registry stores named parameters (plain values) and named factories.
// Callers later ask for either the raw value behind a name or the lazily
// built, memoized service behind it. The intent is encoded in the name:
//
//	c.Get("dsn", nil)        // value request: returns the stored value
//	c.Get("@db", callback)   // service request: result delivered to callback
//
// # Registering
//
//	c := container.Named("app")   // process-wide, created on first use
//
//	c.Set("dsn", "postgres://localhost/app")
//	c.Set("db", container.Sync(func(s *container.Scope) (any, error) {
//	    return sql.Open("pgx", s.Param("dsn").(string))
//	}))
//
// Factories with asynchronous work take a callback instead:
//
//	c.Set("cache", container.Factory(func(s *container.Scope, done container.Callback) {
//	    go func() { done(dialCache()) }()
//	}))
//
// # Resolving
//
//	c.Service("db", func(v any, err error) { ... })
//	db, err := container.ResolveAs[*sql.DB](c.Root(), "db")
//
// A service is built at most once per key; later requests receive the same
// instance. A failed build is not cached and is retried on the next request.
// Requesting something that was never registered is not an error: values
// resolve to nil and services to (nil, nil).
//
// # Aliases
//
// A parameter whose value is a string starting with "@" points at another
// service:
//
//	c.Set("primary", "@db")
//	c.Service("primary", cb)   // resolves "db"
//
// # Namespaces
//
// A factory runs with a Scope whose namespace is its own key. Lookups from
// that scope prefer "<key>.<name>" over "<name>", which is how per-service
// parameters override globals:
//
//	c.Set("host", "global.example")
//	c.When("mailer").Needs("host").Give("smtp.internal")   // "mailer.host"
//	// inside mailer's factory, s.Param("host") == "smtp.internal"
//
// Parameters a factory sets on its scope are stored under its namespace too.
//
// # Providers
//
//	type MailProvider struct{ container.BaseProvider }
//	func (p *MailProvider) Register(c *container.Registry) { c.Set("mailer", mailerFactory) }
//
//	providers := container.NewProviderRegistry(c)
//	providers.Register(&MailProvider{})
//	providers.Boot()
//
// Deferred providers only register once one of their Provides keys is first
// requested as a service.
package container
