// Package catalogtest provides an in-memory containers.Catalog for tests.
package catalogtest

import (
	"context"
	"slices"
	"sync"
)

type Catalog struct {
	NamespacesErr error
	ObjectsErr    error

	mu              sync.Mutex
	entries         map[string][]string
	namespacesCalls int
	objectsCalls    []string
}

func New() *Catalog {
	return &Catalog{
		entries: make(map[string][]string),
	}
}

func (c *Catalog) With(namespace string, objects ...string) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[namespace] = append(c.entries[namespace], objects...)

	return c
}

func (c *Catalog) Namespaces(context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.namespacesCalls++

	if c.NamespacesErr != nil {
		return nil, c.NamespacesErr
	}

	namespaces := make([]string, 0, len(c.entries))
	for namespace := range c.entries {
		namespaces = append(namespaces, namespace)
	}

	slices.Sort(namespaces)

	return namespaces, nil
}

func (c *Catalog) Objects(_ context.Context, namespace string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.objectsCalls = append(c.objectsCalls, namespace)

	if c.ObjectsErr != nil {
		return nil, c.ObjectsErr
	}

	return slices.Clone(c.entries[namespace]), nil
}

func (c *Catalog) NamespacesCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.namespacesCalls
}

// ObjectsCalls returns the namespaces Objects was called with, in order.
func (c *Catalog) ObjectsCalls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.objectsCalls)
}
