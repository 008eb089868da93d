package container

// ContextualBuilder implements the fluent contextual binding API.
//
//	// when PhotoController is autowired and needs a Filesystem, give it S3
//	c.When(container.TypeKey((*PhotoController)(nil))).
//	    Needs(container.TypeKey((*Filesystem)(nil))).
//	    Give(func(c *container.Container) any { return filesystem.NewS3() })
type ContextualBuilder struct {
	container *Container
	concrete  string
	needs     string
}

// When starts a contextual binding chain for the autowired type concrete.
func (c *Container) When(concrete string) *ContextualBuilder {
	return &ContextualBuilder{container: c, concrete: concrete}
}

// Needs specifies which dependency id of the concrete type is overridden.
func (b *ContextualBuilder) Needs(dependency string) *ContextualBuilder {
	b.needs = dependency
	return b
}

// Give provides the factory used when the concrete type resolves the
// dependency named in Needs. It does not affect any other type.
func (b *ContextualBuilder) Give(factory Factory) {
	b.container.mu.Lock()
	defer b.container.mu.Unlock()

	if _, ok := b.container.contextual[b.concrete]; !ok {
		b.container.contextual[b.concrete] = make(map[string]Factory)
	}
	b.container.contextual[b.concrete][b.needs] = factory
}

// GiveValue is a shorthand for Give with a pre-built instance.
func (b *ContextualBuilder) GiveValue(value any) {
	b.Give(func(_ *Container) any { return value })
}

// contextualFactory returns the contextual factory for (concrete, dependency), or nil.
func (c *Container) contextualFactory(concrete, dependency string) Factory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if m, ok := c.contextual[concrete]; ok {
		return m[dependency]
	}
	return nil
}
