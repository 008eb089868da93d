package container

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// TypeIntrospector is what the resolver knows about types it has no binding for.
//
// ConstructorParameterTypes returns one entry per constructor parameter in
// declaration order; an empty string marks a parameter with no class-like
// type (a scalar the container cannot guess).
type TypeIntrospector interface {
	IsInstantiable(id string) bool
	ConstructorParameterTypes(id string) ([]string, error)
	Instantiate(id string, args []any) (any, error)
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// ── Type keys ─────────────────────────────────────────────────────────────────

// KeyOf returns the id used for t when autowiring: the package-qualified type
// name with any pointer indirection removed. Unnamed types use t.String().
func KeyOf(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// TypeKey returns the package-qualified type name of v, useful as a stable
// id when binding interfaces explicitly.
//
//	key := container.TypeKey((*UserRepository)(nil))  // "example.com/app.UserRepository"
//	c.Share(key, factory)
//	repo, err := container.Resolve[UserRepository](c, key)
func TypeKey(v any) string {
	return KeyOf(reflect.TypeOf(v))
}

// classLike reports whether a parameter of type t can be resolved by id.
func classLike(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Struct:
		return true
	case reflect.Ptr:
		return t.Elem().Kind() == reflect.Struct
	default:
		return false
	}
}

// ── ReflectIntrospector ───────────────────────────────────────────────────────

// constructor holds metadata about a registered constructor function.
type constructor struct {
	fn           reflect.Value
	params       []reflect.Type
	returnsError bool
}

// typeInfo is what ReflectIntrospector remembers about one id.
type typeInfo struct {
	typ      reflect.Type // the type handed out by Instantiate
	abstract bool
	ctor     *constructor // nil: implicit zero-argument constructor
}

// ReflectIntrospector implements TypeIntrospector with package reflect.
//
// Go cannot look a type up by name at runtime, so every type that should be
// autowireable is registered once, either through its constructor function or
// through a sample value.
type ReflectIntrospector struct {
	mu    sync.RWMutex
	types map[string]*typeInfo
}

// NewReflectIntrospector creates an empty introspector.
func NewReflectIntrospector() *ReflectIntrospector {
	return &ReflectIntrospector{types: make(map[string]*typeInfo)}
}

// Register makes a type known and returns its id.
//
// Supported forms:
//   - func(Dep1, Dep2, ...) T or func(...) (T, error): a constructor for T
//   - (*Iface)(nil): a known interface, never instantiable
//   - &T{} or (*T)(nil): struct T built as *T with no constructor
//   - T{}: struct T built as a zero T
//
// Registering the same id again replaces the earlier entry.
func (r *ReflectIntrospector) Register(v any) (string, error) {
	if v == nil {
		return "", errors.New("container: cannot register nil type")
	}

	info, err := inspect(reflect.TypeOf(v), reflect.ValueOf(v))
	if err != nil {
		return "", err
	}

	id := KeyOf(info.typ)
	r.mu.Lock()
	r.types[id] = info
	r.mu.Unlock()
	return id, nil
}

// MustRegister is like Register but panics on error.
func (r *ReflectIntrospector) MustRegister(v any) string {
	id, err := r.Register(v)
	if err != nil {
		panic(err)
	}
	return id
}

func inspect(t reflect.Type, v reflect.Value) (*typeInfo, error) {
	switch {
	case t.Kind() == reflect.Func:
		ctor, out, err := parseConstructor(t, v)
		if err != nil {
			return nil, err
		}
		return &typeInfo{typ: out, ctor: ctor}, nil

	case t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Interface:
		return &typeInfo{typ: t.Elem(), abstract: true}, nil

	case t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct,
		t.Kind() == reflect.Struct:
		return &typeInfo{typ: t}, nil

	default:
		return nil, fmt.Errorf("container: cannot register %v: want a constructor, struct or interface pointer", t)
	}
}

// parseConstructor validates a constructor signature.
func parseConstructor(t reflect.Type, v reflect.Value) (*constructor, reflect.Type, error) {
	if v.IsNil() {
		return nil, nil, errors.New("container: constructor cannot be nil")
	}
	if t.IsVariadic() {
		return nil, nil, fmt.Errorf("container: variadic constructor %v is not supported", t)
	}

	numOut := t.NumOut()
	if numOut == 0 || numOut > 2 {
		return nil, nil, fmt.Errorf("container: constructor must return (T) or (T, error), got %d return values", numOut)
	}
	out := t.Out(0)
	if out == errorType {
		return nil, nil, fmt.Errorf("container: constructor %v only returns an error", t)
	}
	if numOut == 2 && t.Out(1) != errorType {
		return nil, nil, fmt.Errorf("container: constructor's second return value must be error, got %v", t.Out(1))
	}

	params := make([]reflect.Type, t.NumIn())
	for i := range params {
		params[i] = t.In(i)
	}

	return &constructor{fn: v, params: params, returnsError: numOut == 2}, out, nil
}

func (r *ReflectIntrospector) lookup(id string) (*typeInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.types[id]
	return info, ok
}

// Known reports whether id was registered at all (concrete or abstract).
func (r *ReflectIntrospector) Known(id string) bool {
	_, ok := r.lookup(id)
	return ok
}

// IsInstantiable implements TypeIntrospector.
func (r *ReflectIntrospector) IsInstantiable(id string) bool {
	info, ok := r.lookup(id)
	return ok && !info.abstract
}

// ConstructorParameterTypes implements TypeIntrospector.
func (r *ReflectIntrospector) ConstructorParameterTypes(id string) ([]string, error) {
	info, ok := r.lookup(id)
	if !ok {
		return nil, fmt.Errorf("container: unknown type %q", id)
	}
	if info.ctor == nil {
		return nil, nil
	}

	ids := make([]string, len(info.ctor.params))
	for i, p := range info.ctor.params {
		if classLike(p) {
			ids[i] = KeyOf(p)
		}
	}
	return ids, nil
}

// Instantiate implements TypeIntrospector.
func (r *ReflectIntrospector) Instantiate(id string, args []any) (any, error) {
	info, ok := r.lookup(id)
	switch {
	case !ok:
		return nil, fmt.Errorf("container: unknown type %q", id)
	case info.abstract:
		return nil, fmt.Errorf("container: %q is not instantiable", id)
	}

	if info.ctor == nil {
		if len(args) != 0 {
			return nil, fmt.Errorf("container: %q takes no arguments, got %d", id, len(args))
		}
		if info.typ.Kind() == reflect.Ptr {
			return reflect.New(info.typ.Elem()).Interface(), nil
		}
		return reflect.New(info.typ).Elem().Interface(), nil
	}

	return info.ctor.call(args)
}

func (c *constructor) call(args []any) (any, error) {
	if len(args) != len(c.params) {
		return nil, fmt.Errorf("container: constructor wants %d arguments, got %d", len(c.params), len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		p := c.params[i]
		if arg == nil {
			in[i] = reflect.Zero(p)
			continue
		}
		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(p) {
			return nil, fmt.Errorf("container: argument %d: %T is not assignable to %v", i, arg, p)
		}
		in[i] = v
	}

	results := c.fn.Call(in)
	if c.returnsError {
		if err, _ := results[1].Interface().(error); err != nil {
			return nil, fmt.Errorf("container: constructor returned error: %w", err)
		}
	}
	return results[0].Interface(), nil
}
