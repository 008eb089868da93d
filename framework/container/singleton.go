package container

import (
	"sync"
	"sync/atomic"
)

// singleton memoizes the first result of a factory.
//
// Every Share call builds its own singleton, so replacing a shared binding
// starts from an empty cell. A nil result is cached like any other value.
// If the factory panics the cell stays empty and the next call retries.
type singleton struct {
	factory Factory

	done  atomic.Bool
	mu    sync.Mutex
	value any
}

func newSingleton(factory Factory) *singleton {
	return &singleton{factory: factory}
}

func (s *singleton) resolve(c *Container) any {
	if s.done.Load() {
		return s.value
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.done.Load() {
		s.value = s.factory(c)
		s.done.Store(true)
	}
	return s.value
}

// wrap returns the memoizing factory stored in the registry.
func (s *singleton) wrap() Factory {
	return s.resolve
}
