package ecs_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/plus3/alien-defense/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIdEncoding(t *testing.T) {
	tests := []struct {
		archetypeId uint32
		generation  uint32
		index       uint32
	}{
		{0, 0, 0},
		{0xFFFFF, 0xFFF, 0xFFFFFFFF},
		{1, 0, 0},
		{0x12345, 0x678, 0x9ABCDEF0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("archetype=%d,generation=%d,index=%d", tt.archetypeId, tt.generation, tt.index), func(t *testing.T) {
			id := ecs.NewEntityId(tt.archetypeId, tt.generation, tt.index)
			assert.Equal(t, tt.archetypeId, id.ArchetypeId())
			assert.Equal(t, tt.generation, id.Generation())
			assert.Equal(t, tt.index, id.Index())
		})
	}

	t.Run("generation wraps inside its field", func(t *testing.T) {
		id := ecs.NewEntityId(3, 0x1001, 9)
		assert.Equal(t, uint32(3), id.ArchetypeId())
		assert.Equal(t, uint32(1), id.Generation())
		assert.Equal(t, uint32(9), id.Index())
	})
}

func TestSpawnAndGet(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 3, Y: 4}, Name{Value: "ship"})
	assert.NotEqual(t, ecs.EntityId(0), id)
	assert.True(t, storage.Alive(id))

	pos := ecs.ReadComponent[Position](storage, id)
	require.NotNil(t, pos)
	assert.Equal(t, float32(3), pos.X)
	assert.Equal(t, float32(4), pos.Y)

	name := ecs.ReadComponent[Name](storage, id)
	require.NotNil(t, name)
	assert.Equal(t, "ship", name.Value)

	assert.Nil(t, ecs.ReadComponent[Velocity](storage, id))
	assert.True(t, storage.HasComponent(id, reflect.TypeFor[Position]()))
	assert.False(t, storage.HasComponent(id, reflect.TypeFor[Velocity]()))
}

func TestSpawnPanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	t.Run("no components", func(t *testing.T) {
		assert.Panics(t, func() { storage.Spawn() })
	})

	t.Run("unregistered component", func(t *testing.T) {
		assert.Panics(t, func() { storage.Spawn(Counter{}) })
	})

	t.Run("duplicate component", func(t *testing.T) {
		assert.Panics(t, func() { storage.Spawn(Position{}, Position{}) })
	})
}

func TestComponentRegistry(t *testing.T) {
	registry := newTestRegistry()
	assert.True(t, registry.Registered(reflect.TypeFor[Position]()))
	assert.False(t, registry.Registered(reflect.TypeFor[Counter]()))

	ecs.RegisterComponent[Counter](registry)
	assert.True(t, registry.Registered(reflect.TypeFor[Counter]()))
}

func TestComponentOrderIsIrrelevant(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Position{}, Velocity{})
	b := storage.Spawn(Velocity{}, Position{})
	assert.Equal(t, a.ArchetypeId(), b.ArchetypeId())
	assert.NotNil(t, storage.GetArchetype(Velocity{}, Position{}))
	assert.Nil(t, storage.GetArchetype(Health{}))
}

func TestDelete(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	first := storage.Spawn(Position{X: 1})
	second := storage.Spawn(Position{X: 2})
	assert.Equal(t, 2, storage.Count())

	storage.Delete(first)
	assert.False(t, storage.Alive(first))
	assert.True(t, storage.Alive(second))
	assert.Equal(t, 1, storage.Count())
	assert.Nil(t, storage.GetComponent(first, reflect.TypeFor[Position]()))

	// deleting twice is harmless
	storage.Delete(first)
	assert.Equal(t, 1, storage.Count())
}

func TestStaleIdAfterSlotReuse(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	old := storage.Spawn(Position{X: 1})
	storage.Delete(old)
	fresh := storage.Spawn(Position{X: 2})

	assert.Equal(t, old.Index(), fresh.Index(), "slot is reused")
	assert.NotEqual(t, old, fresh)
	assert.False(t, storage.Alive(old))
	assert.True(t, storage.Alive(fresh))
	assert.Nil(t, ecs.ReadComponent[Position](storage, old))
	assert.False(t, storage.HasComponent(old, reflect.TypeFor[Position]()))
	assert.Equal(t, float32(2), ecs.ReadComponent[Position](storage, fresh).X)

	// a stale delete must not reach the new occupant
	storage.Delete(old)
	assert.True(t, storage.Alive(fresh))
	assert.Equal(t, 1, storage.Count())

	// nor may stale structural edits
	assert.Equal(t, ecs.EntityId(0), storage.AddComponent(old, Velocity{}))
	assert.Equal(t, old, storage.RemoveComponent(old, reflect.TypeFor[Position]()))
	assert.True(t, storage.Alive(fresh))

	type posView struct {
		*Position
	}
	view := ecs.NewView[posView](storage)
	assert.Nil(t, view.Get(old))
	require.NotNil(t, view.Get(fresh))
	for id := range view.Iter() {
		assert.Equal(t, fresh, id)
	}
}

func TestStaleIdAfterClear(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	old := storage.Spawn(Position{X: 1})
	storage.Clear()
	fresh := storage.Spawn(Position{X: 2})

	assert.NotEqual(t, old, fresh)
	assert.False(t, storage.Alive(old))
	assert.Nil(t, ecs.ReadComponent[Position](storage, old))
}

func TestPointersSurviveGrowth(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 7})
	pos := ecs.ReadComponent[Position](storage, id)
	for i := 0; i < 500; i++ {
		storage.Spawn(Position{X: float32(i)})
	}

	pos.X = 42
	assert.Equal(t, float32(42), ecs.ReadComponent[Position](storage, id).X)
}

func TestSpawnOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Position{})
	b := storage.Spawn(Position{}, Velocity{})
	orderA, ok := storage.SpawnOrder(a)
	require.True(t, ok)
	orderB, ok := storage.SpawnOrder(b)
	require.True(t, ok)
	assert.Less(t, orderA, orderB)

	t.Run("reused slot gets a newer number", func(t *testing.T) {
		storage.Delete(a)
		c := storage.Spawn(Position{})
		assert.Equal(t, a.Index(), c.Index())
		assert.NotEqual(t, a, c)
		orderC, _ := storage.SpawnOrder(c)
		assert.Greater(t, orderC, orderB)
	})

	t.Run("moved entity keeps its number", func(t *testing.T) {
		moved := storage.AddComponent(b, Health{Current: 1})
		assert.NotEqual(t, b, moved)
		orderMoved, _ := storage.SpawnOrder(moved)
		assert.Equal(t, orderB, orderMoved)
	})
}

func TestAddRemoveComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 5})

	t.Run("add moves to a new archetype", func(t *testing.T) {
		id = storage.AddComponent(id, &Velocity{DX: 2})
		assert.Equal(t, float32(5), ecs.ReadComponent[Position](storage, id).X)
		assert.Equal(t, float32(2), ecs.ReadComponent[Velocity](storage, id).DX)
		assert.Equal(t, 1, storage.Count())
	})

	t.Run("add existing replaces value", func(t *testing.T) {
		same := storage.AddComponent(id, Velocity{DX: 9})
		assert.Equal(t, id, same)
		assert.Equal(t, float32(9), ecs.ReadComponent[Velocity](storage, id).DX)
	})

	t.Run("remove", func(t *testing.T) {
		id = storage.RemoveComponent(id, reflect.TypeFor[Velocity]())
		assert.Nil(t, ecs.ReadComponent[Velocity](storage, id))
		assert.Equal(t, float32(5), ecs.ReadComponent[Position](storage, id).X)
	})

	t.Run("remove last component deletes", func(t *testing.T) {
		gone := storage.RemoveComponent(id, reflect.TypeFor[Position]())
		assert.Equal(t, ecs.EntityId(0), gone)
		assert.Equal(t, 0, storage.Count())
	})
}

func TestClear(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.AddSingleton(Score(3))

	storage.Spawn(Position{})
	storage.Spawn(Position{}, Velocity{})
	storage.Clear()

	assert.Equal(t, 0, storage.Count())
	var score *Score
	require.True(t, storage.ReadSingleton(&score))
	assert.Equal(t, Score(3), *score)

	id := storage.Spawn(Position{X: 1})
	assert.True(t, storage.Alive(id))
}

func TestSingletons(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	var health *Health
	assert.False(t, storage.ReadSingleton(&health))
	assert.Nil(t, health)

	storage.AddSingleton(Health{Current: 10, Max: 10})
	require.True(t, storage.ReadSingleton(&health))
	assert.Equal(t, 10, health.Current)

	storage.AddSingleton(&Health{Current: 4, Max: 10})
	assert.Equal(t, 4, health.Current, "replacement is visible through earlier pointers")

	assert.Panics(t, func() { storage.ReadSingleton(health) })
}

func TestCollectStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.AddSingleton(Score(0))
	storage.Spawn(Position{})
	storage.Spawn(Position{})
	storage.Spawn(Position{}, Velocity{})

	stats := storage.CollectStats()
	assert.Equal(t, 3, stats.TotalEntityCount)
	assert.Equal(t, 2, stats.ArchetypeCount)
	assert.Equal(t, 1, stats.SingletonCount)
	require.Len(t, stats.ArchetypeBreakdown, 2)
	assert.Equal(t, 2, stats.ArchetypeBreakdown[0].EntityCount)
	assert.Equal(t, []string{"ecs_test.Position"}, stats.ArchetypeBreakdown[0].ComponentTypes)
	assert.Equal(t, []string{"ecs_test.Score"}, stats.SingletonTypes)
}
