package container

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory is a function that builds a value from the container.
type Factory func(c *Container) any

// ── Container ─────────────────────────────────────────────────────────────────

// Container maps string ids to factories and autowires everything else.
//
// It supports:
//   - Set / Share / Has / Get / Remove
//   - Offset* accessors (array-style sugar over the same operations)
//   - Autowiring of registered types through a TypeIntrospector
//   - Contextual binding (when A needs B, give it C)
//   - Resolved / failed callbacks
//
// Factories receive a *Container that shares every binding with the one Get
// was called on. That handle also remembers which ids are still being built,
// so a factory that asks for one of them gets a *CycleError instead of
// recursing forever.
type Container struct {
	*state

	frame *frame
}

// state is everything the handles of one container share.
type state struct {
	id       string
	registry *registry
	types    TypeIntrospector
	logger   *zap.Logger

	mu sync.RWMutex

	// contextual: when[concrete][dependency] = factory
	contextual map[string]map[string]Factory

	afterResolving []func(id string, instance any)
	onResolveError []func(id string, err error)
}

// frame is the resolution chain visible to one factory call. It goes stale
// once the factory returns, so handles kept by built services resolve from
// an empty chain.
type frame struct {
	chain []string
	done  atomic.Bool
}

func (c *Container) activeChain() []string {
	if c.frame == nil || c.frame.done.Load() {
		return nil
	}
	return c.frame.chain
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for debug output. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithIntrospector replaces the default ReflectIntrospector.
func WithIntrospector(ti TypeIntrospector) Option {
	return func(c *Container) {
		if ti != nil {
			c.types = ti
		}
	}
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{state: &state{
		id:         uuid.NewString(),
		registry:   newRegistry(),
		types:      NewReflectIntrospector(),
		logger:     zap.NewNop(),
		contextual: make(map[string]map[string]Factory),
	}}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("container", c.id))
	return c
}

// ID returns the random id assigned to this container.
func (c *Container) ID() string { return c.id }

// Introspector returns the TypeIntrospector used for autowiring.
func (c *Container) Introspector() TypeIntrospector { return c.types }

// ── Registration ──────────────────────────────────────────────────────────────

// Set registers a transient factory, replacing any earlier binding for id.
//
//	c.Set("mailer", func(c *container.Container) any {
//	    return mail.NewSMTP(container.MustResolve[*config.Config](c, "config").Mail)
//	})
func (c *Container) Set(id string, factory Factory) {
	replaced := c.registry.put(id, &binding{factory: factory})
	c.logger.Debug("binding registered",
		zap.String("id", id), zap.Bool("shared", false), zap.Bool("replaced", replaced))
}

// Share registers a factory whose result is built once and reused by every
// later Get of id. Sharing the same id again starts over with a new cache.
//
//	c.Share("db", func(c *container.Container) any { return openDB() })
func (c *Container) Share(id string, factory Factory) {
	replaced := c.registry.put(id, &binding{factory: newSingleton(factory).wrap(), shared: true})
	c.logger.Debug("binding registered",
		zap.String("id", id), zap.Bool("shared", true), zap.Bool("replaced", replaced))
}

// Has reports whether id has an explicit binding. Autowireable types that were
// never bound report false.
func (c *Container) Has(id string) bool {
	return c.registry.has(id)
}

// Remove deletes the binding for id. Removing an unknown id is a no-op.
func (c *Container) Remove(id string) {
	if c.registry.delete(id) {
		c.logger.Debug("binding removed", zap.String("id", id))
	}
}

// Binding describes the explicit binding for id, if there is one.
func (c *Container) Binding(id string) (BindingInfo, bool) {
	return c.registry.info(id)
}

// Bindings returns a sorted snapshot of every explicit binding.
func (c *Container) Bindings() []BindingInfo {
	return c.registry.snapshot()
}

// RegisterType makes a type autowireable through the default ReflectIntrospector.
// See ReflectIntrospector.Register for the accepted forms.
func (c *Container) RegisterType(v any) (string, error) {
	ri, ok := c.types.(*ReflectIntrospector)
	if !ok {
		return "", fmt.Errorf("container: introspector %T does not accept type registrations", c.types)
	}
	return ri.Register(v)
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get resolves id: an explicit binding wins, otherwise the type is autowired.
// Failures are *NotFoundError (naming id) or *CycleError.
func (c *Container) Get(id string) (any, error) {
	instance, err := c.resolve(id, c.activeChain())
	if err != nil {
		c.logger.Debug("resolution failed", zap.String("id", id), zap.Error(err))
		c.fireResolveError(id, err)
		return nil, err
	}
	return instance, nil
}

// MustGet is like Get but panics with the resolution error. Factories use it
// to pull their own dependencies; the panic is turned back into an error by
// the enclosing Get.
func (c *Container) MustGet(id string) any {
	instance, err := c.Get(id)
	if err != nil {
		panic(err)
	}
	return instance
}

// ── Array-style access ────────────────────────────────────────────────────────

// OffsetExists is Has.
func (c *Container) OffsetExists(id string) bool { return c.Has(id) }

// OffsetGet is Get.
func (c *Container) OffsetGet(id string) (any, error) { return c.Get(id) }

// OffsetSet is Set.
func (c *Container) OffsetSet(id string, factory Factory) { c.Set(id, factory) }

// OffsetUnset is Remove.
func (c *Container) OffsetUnset(id string) { c.Remove(id) }

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired after every successful resolution,
// including dependencies resolved while autowiring.
func (c *Container) AfterResolving(cb func(id string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

// OnResolveError registers a callback fired once per failed Get.
func (c *Container) OnResolveError(cb func(id string, err error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onResolveError = append(c.onResolveError, cb)
}

func (c *Container) fireAfterResolving(id string, instance any) {
	c.mu.RLock()
	cbs := c.afterResolving
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(id, instance)
	}
}

func (c *Container) fireResolveError(id string, err error) {
	c.mu.RLock()
	cbs := c.onResolveError
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(id, err)
	}
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Resolve calls Get and type-asserts the result.
//
//	db, err := container.Resolve[*sql.DB](c, "db")
func Resolve[T any](c *Container, id string) (T, error) {
	var zero T
	instance, err := c.Get(id)
	if err != nil {
		return zero, err
	}
	if instance == nil {
		return zero, nil
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("container: Resolve[%v]: %q resolved to %T", reflect.TypeFor[T](), id, instance)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](c *Container, id string) T {
	typed, err := Resolve[T](c, id)
	if err != nil {
		panic(err)
	}
	return typed
}

// Make resolves T by its type key, so T must either be bound under
// KeyOf(T) or be registered for autowiring.
//
//	svc, err := container.Make[*UserService](c)
func Make[T any](c *Container) (T, error) {
	return Resolve[T](c, KeyOf(reflect.TypeFor[T]()))
}
