package ecs

import (
	"iter"
	"reflect"
)

// componentColumn is a type-erased column of component values inside an archetype.
type componentColumn interface {
	Append(item any) int
	Delete(index int)
	Get(index int) any
	Has(index int) bool
	Len() int
	Iter() iter.Seq[int]
	Reset()
}

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage has its own registry, so independent worlds (a game and a headless
// soak run, say) never share column factories.
type ComponentRegistry struct {
	factories map[reflect.Type]func() componentColumn
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() componentColumn),
	}
}

// RegisterComponent registers a component type with the given registry.
// This must be called for each component type before it can be spawned.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	r.factories[t] = func() componentColumn {
		return &blockColumn[T]{}
	}
}

// Registered reports whether the component type has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

func (r *ComponentRegistry) getFactory(t reflect.Type) func() componentColumn {
	return r.factories[t]
}

const blockSize = 64

type block[T any] struct {
	items  [blockSize]T
	filled [blockSize]bool
}

// blockColumn stores components of type T in fixed-size blocks. Blocks are held by
// pointer so a *T handed out by Get stays valid while later blocks are allocated.
type blockColumn[T any] struct {
	blocks    []*block[T]
	freeSlots []int
	nextIndex int
	live      int
}

// Append adds a component and returns its slot. Freed slots are reused LIFO, which
// keeps every column of an archetype on the same slot sequence.
func (c *blockColumn[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case T:
		value = v
	case *T:
		value = *v
	default:
		return -1
	}

	var index int
	if n := len(c.freeSlots); n > 0 {
		index = c.freeSlots[n-1]
		c.freeSlots = c.freeSlots[:n-1]
	} else {
		index = c.nextIndex
		c.nextIndex++
		if index/blockSize >= len(c.blocks) {
			c.blocks = append(c.blocks, &block[T]{})
		}
	}

	b := c.blocks[index/blockSize]
	b.items[index%blockSize] = value
	b.filled[index%blockSize] = true
	c.live++
	return index
}

// Get returns a *T for the slot, or nil if the slot is empty.
func (c *blockColumn[T]) Get(index int) any {
	if !c.Has(index) {
		return nil
	}
	return &c.blocks[index/blockSize].items[index%blockSize]
}

// Delete zeroes the slot and queues it for reuse.
func (c *blockColumn[T]) Delete(index int) {
	if !c.Has(index) {
		return
	}
	b := c.blocks[index/blockSize]
	var zero T
	b.items[index%blockSize] = zero
	b.filled[index%blockSize] = false
	c.freeSlots = append(c.freeSlots, index)
	c.live--
}

func (c *blockColumn[T]) Has(index int) bool {
	if index < 0 || index >= c.nextIndex {
		return false
	}
	return c.blocks[index/blockSize].filled[index%blockSize]
}

func (c *blockColumn[T]) Len() int {
	return c.live
}

func (c *blockColumn[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < c.nextIndex; i++ {
			if !c.blocks[i/blockSize].filled[i%blockSize] {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}

// Reset drops every component but keeps the first block allocated.
func (c *blockColumn[T]) Reset() {
	if len(c.blocks) > 1 {
		c.blocks = c.blocks[:1]
	}
	if len(c.blocks) == 1 {
		*c.blocks[0] = block[T]{}
	}
	c.freeSlots = c.freeSlots[:0]
	c.nextIndex = 0
	c.live = 0
}
