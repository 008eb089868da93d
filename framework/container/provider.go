package container

import (
	"fmt"
	"sync"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related bindings.
//
// Register only binds; Boot runs after every provider has been registered, so
// it is safe to resolve other bindings there.
//
//	type MailProvider struct{ container.BaseProvider }
//
//	func (p *MailProvider) Register(app *container.Container) {
//	    app.Share("mailer", func(c *container.Container) any {
//	        return mail.NewSMTP(container.MustResolve[*config.Config](c, "config"))
//	    })
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	Register(app *Container)

	// Boot is called after all providers are registered.
	Boot(app *Container)

	// Provides lists the ids a deferred provider registers.
	Provides() []string

	// IsDeferred reports whether Register should wait until one of the
	// Provides() ids is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op Boot, Provides and IsDeferred.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container)  {}
func (p *BaseProvider) Provides() []string { return nil }
func (p *BaseProvider) IsDeferred() bool   { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred providers.
type ProviderRegistry struct {
	app *Container

	mu         sync.Mutex
	eager      []ServiceProvider
	registered map[ServiceProvider]bool
	deferred   map[ServiceProvider]*sync.Once // runs each deferred Register once
	booted     bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
		deferred:   make(map[ServiceProvider]*sync.Once),
	}
}

// Register adds a provider and calls its Register() method unless it is
// deferred. Registering the same provider twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		once := new(sync.Once)
		r.deferred[provider] = once
		r.mu.Unlock()
		r.interceptDeferred(provider, once)
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

// interceptDeferred binds a placeholder for each deferred id. The first Get
// of any of them runs the provider's Register (which replaces the
// placeholders) and then builds the real binding. Concurrent first Gets wait
// for Register to finish.
func (r *ProviderRegistry) interceptDeferred(provider ServiceProvider, once *sync.Once) {
	for _, id := range provider.Provides() {
		placeholder := &binding{}
		placeholder.factory = func(c *Container) any {
			once.Do(func() { r.load(provider) })
			cur, ok := c.registry.lookup(id)
			if !ok || cur == placeholder {
				panic(notFound(id, fmt.Errorf("deferred provider %T did not register it", provider)))
			}
			return cur.factory(c)
		}
		r.app.registry.put(id, placeholder)
	}
}

// load registers a deferred provider and boots it if Boot already ran.
// Otherwise Boot() reaches it with the eager providers.
func (r *ProviderRegistry) load(provider ServiceProvider) {
	provider.Register(r.app)

	r.mu.Lock()
	booted := r.booted
	if !booted {
		r.eager = append(r.eager, provider)
	}
	r.mu.Unlock()

	if booted {
		provider.Boot(r.app)
	}
}

// Boot calls Boot() on all eager providers. Later calls are no-ops.
func (r *ProviderRegistry) Boot() {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return
	}
	r.booted = true
	providers := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	for _, provider := range providers {
		provider.Boot(r.app)
	}
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns the eager providers plus deferred ones already loaded.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}
