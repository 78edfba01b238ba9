package container

// ContextualBuilder declares parameters local to one service.
//
//	// Same as c.Set("mailer.host", "smtp.internal")
//	c.When("mailer").Needs("host").Give("smtp.internal")
//
//	// Point the mailer's "logger" at another service
//	c.When("mailer").Needs("logger").GiveService("auditLogger")
type ContextualBuilder struct {
	registry *Registry
	service  string
	needs    string
}

// When starts a contextual declaration for service.
func (r *Registry) When(service string) *ContextualBuilder {
	return &ContextualBuilder{registry: r, service: service}
}

// Needs names the parameter the service looks up.
func (b *ContextualBuilder) Needs(name string) *ContextualBuilder {
	b.needs = name
	return b
}

// Give stores value under "<service>.<name>", where the service's factory
// scope finds it ahead of a global parameter of the same name.
func (b *ContextualBuilder) Give(value any) {
	b.registry.Set(b.service+"."+b.needs, value)
}

// GiveService aliases the parameter to another service, so a service
// request for it from the factory resolves that service.
func (b *ContextualBuilder) GiveService(name string) {
	b.Give(Ref(name))
}
