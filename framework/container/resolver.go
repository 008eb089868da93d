package container

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// resolve is the internal resolver. chain lists the ids currently being
// built by this call tree, outermost first.
func (c *Container) resolve(id string, chain []string) (any, error) {
	if slices.Contains(chain, id) {
		return nil, &CycleError{Path: append(slices.Clone(chain), id)}
	}

	// Explicit bindings always take precedence over autowiring.
	if b, ok := c.registry.lookup(id); ok {
		instance, err := c.invoke(b.factory, append(slices.Clip(chain), id))
		if err != nil {
			return nil, wrapFailure(id, err)
		}
		c.fireAfterResolving(id, instance)
		return instance, nil
	}

	instance, err := c.autowire(id, chain)
	if err != nil {
		return nil, err
	}
	c.fireAfterResolving(id, instance)
	return instance, nil
}

// autowire builds id from its constructor, resolving every parameter
// through resolve in declaration order.
func (c *Container) autowire(id string, chain []string) (any, error) {
	if !c.types.IsInstantiable(id) {
		return nil, notFound(id, nil)
	}

	params, err := c.types.ConstructorParameterTypes(id)
	if err != nil {
		return nil, notFound(id, err)
	}
	c.logger.Debug("autowiring", zap.String("id", id), zap.Strings("params", params))

	chain = append(slices.Clip(chain), id)
	args := make([]any, len(params))
	for i, dep := range params {
		if dep == "" {
			return nil, notFound(id, fmt.Errorf("parameter %d has no resolvable type", i))
		}

		var arg any
		if f := c.contextualFactory(id, dep); f != nil {
			arg, err = c.invoke(f, chain)
		} else {
			arg, err = c.resolve(dep, chain)
		}
		if err != nil {
			return nil, wrapFailure(id, err)
		}
		args[i] = arg
	}

	instance, err := c.types.Instantiate(id, args)
	if err != nil {
		return nil, notFound(id, err)
	}
	return instance, nil
}

// invoke runs a factory with a handle that carries chain. A factory that
// panics with a resolution error (for example from MustGet) has that error
// returned instead; any other panic propagates.
func (c *Container) invoke(f Factory, chain []string) (instance any, err error) {
	fr := &frame{chain: chain}
	defer fr.done.Store(true)
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && (errors.Is(e, ErrNotFound) || errors.Is(e, ErrCycle)) {
				instance, err = nil, e
				return
			}
			panic(r)
		}
	}()
	return f(&Container{state: c.state, frame: fr}), nil
}

// wrapFailure attaches id to a nested failure. Cycle errors keep their path.
func wrapFailure(id string, err error) error {
	var cycle *CycleError
	if errors.As(err, &cycle) {
		return cycle
	}
	return notFound(id, err)
}
