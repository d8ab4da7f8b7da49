package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/alien-defense/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands(t *testing.T) {
	t.Run("nothing applies before flush", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		commands := ecs.NewCommands()
		id := storage.Spawn(Position{})

		commands.Spawn(Position{X: 1})
		commands.Delete(id)
		assert.Equal(t, 1, commands.PendingSpawns())
		assert.True(t, commands.Deleted(id))
		assert.True(t, storage.Alive(id))
		assert.Equal(t, 1, storage.Count())

		commands.Flush(storage)
		assert.False(t, storage.Alive(id))
		assert.Equal(t, 1, storage.Count())
		assert.Equal(t, 0, commands.PendingSpawns())
		assert.False(t, commands.Deleted(id))
	})

	t.Run("double delete is deduplicated", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		commands := ecs.NewCommands()
		victim := storage.Spawn(Position{})

		commands.Delete(victim)
		commands.Delete(victim)
		// slot reuse by a spawn in the same flush must not be hit by the second delete
		commands.Spawn(Position{X: 5})
		commands.Flush(storage)

		assert.Equal(t, 1, storage.Count())
	})

	t.Run("add and remove skip deleted entities", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		commands := ecs.NewCommands()
		kept := storage.Spawn(Position{}, Velocity{})
		gone := storage.Spawn(Name{Value: "x"})

		commands.RemoveComponent(kept, reflect.TypeFor[Velocity]())
		commands.Delete(gone)
		commands.AddComponent(gone, Health{})
		commands.Flush(storage)

		assert.Equal(t, 1, storage.Count())
	})

	t.Run("defers run after structural changes", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		commands := ecs.NewCommands()

		var seen int
		commands.Defer(func() { seen = storage.Count() })
		commands.Spawn(Position{})
		commands.Spawn(Position{})
		commands.Flush(storage)

		require.Equal(t, 2, seen)
	})
}
