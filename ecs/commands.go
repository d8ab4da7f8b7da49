package ecs

import (
	"reflect"

	"github.com/kamstrup/intmap"
)

// Commands buffers structural ECS operations until the end of a frame, so systems
// never invalidate the rows another system is iterating.
type Commands struct {
	spawns  []spawnCommand
	deletes []EntityId
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []func()
	pending *intmap.Map[EntityId, struct{}]
}

// NewCommands creates an empty command buffer.
func NewCommands() *Commands {
	return &Commands{
		pending: intmap.New[EntityId, struct{}](64),
	}
}

type spawnCommand struct {
	components []any
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

type removeComponentCommand struct {
	entity   EntityId
	compType reflect.Type
}

// Defer queues a function to run after all structural changes are applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues an entity spawn operation with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// Delete queues an entity deletion. Deleting the same entity twice in a frame is a no-op.
func (c *Commands) Delete(entity EntityId) {
	if _, ok := c.pending.Get(entity); ok {
		return
	}
	c.pending.Put(entity, struct{}{})
	c.deletes = append(c.deletes, entity)
}

// Deleted reports whether entity has a deletion queued this frame.
func (c *Commands) Deleted(entity EntityId) bool {
	_, ok := c.pending.Get(entity)
	return ok
}

// PendingSpawns returns how many spawns are queued this frame.
func (c *Commands) PendingSpawns() int {
	return len(c.spawns)
}

// AddComponent queues a component addition operation.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addComponentCommand{entity: entity, component: component})
}

// RemoveComponent queues a component removal operation.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{entity: entity, compType: compType})
}

// Flush applies all queued commands to storage in the order deletes, removes, adds,
// spawns, defers, and resets the buffer.
func (c *Commands) Flush(storage *Storage) {
	for _, id := range c.deletes {
		storage.Delete(id)
	}

	for _, cmd := range c.removes {
		if !c.Deleted(cmd.entity) {
			storage.RemoveComponent(cmd.entity, cmd.compType)
		}
	}

	for _, cmd := range c.adds {
		if !c.Deleted(cmd.entity) {
			storage.AddComponent(cmd.entity, cmd.component)
		}
	}

	for _, cmd := range c.spawns {
		storage.Spawn(cmd.components...)
	}

	for _, fn := range c.defers {
		fn()
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
	c.pending.Clear()
}
