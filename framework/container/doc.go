// Package container provides a small service-location container for Go.
//
// # Overview
//
// The container maps string ids to factory functions. Every factory receives
// the container itself, so it can resolve its own dependencies. Ids that have
// no binding are autowired: the container asks a TypeIntrospector for the
// type's constructor parameters, resolves each of them through the same
// container and calls the constructor.
//
// # Bindings
//
//	c := container.New()
//
//	// Transient — the factory runs on every Get
//	c.Set("clock", func(c *container.Container) any { return time.Now })
//
//	// Shared — built once, reused
//	c.Share("db", func(c *container.Container) any { return openDB() })
//
//	// Factories resolve other bindings from the container they receive
//	c.Set("greet", func(c *container.Container) any {
//	    return "Hello " + container.MustResolve[string](c, "name") + "!"
//	})
//
//	c.Has("db")    // true
//	c.Remove("db") // no-op when absent
//
// # Resolving
//
//	raw, err := c.Get("db")
//	db, err := container.Resolve[*sql.DB](c, "db")
//
// A failed Get returns a *NotFoundError naming the id that was asked for, even
// when the failure is several dependencies deep (the nested error is kept as
// its Cause). Resolution that loops back on an id still being built, through
// autowiring or through factories, returns a *CycleError.
//
// # Autowiring
//
// Go has no runtime lookup of types by name, so autowireable types are
// registered once with the default ReflectIntrospector:
//
//	c.RegisterType(NewUserService)     // func(UserRepository, *Mailer) *UserService
//	c.RegisterType(&Mailer{})          // no constructor: built as new(Mailer)
//	c.RegisterType((*UserRepository)(nil)) // interface: needs an explicit binding
//
//	c.Share(container.TypeKey((*UserRepository)(nil)), func(c *container.Container) any {
//	    return &sqlUserRepository{}
//	})
//
//	svc, err := container.Make[*UserService](c)
//
// Explicit bindings always win, so any type in the graph can be replaced by
// binding its type key.
//
// # Contextual Binding
//
//	c.When(container.TypeKey((*PhotoController)(nil))).
//	    Needs(container.TypeKey((*Filesystem)(nil))).
//	    Give(func(c *container.Container) any { return &S3Filesystem{} })
//
// # Service Providers
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
package container
