package ecs_test

import (
	"testing"

	"github.com/plus3/alien-defense/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type movingView struct {
	*Position
	*Velocity
}

type namedView struct {
	Id     ecs.EntityId
	Pos    *Position
	Health *Health `ecs:"optional"`
}

func TestViewIterSpawnOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	// interleave archetypes so slot order and archetype order disagree with spawn order
	storage.Spawn(Position{X: 0}, Velocity{})
	storage.Spawn(Position{X: 1}, Velocity{}, Health{})
	storage.Spawn(Position{X: 2}, Velocity{})
	storage.Spawn(Position{X: 3}, Velocity{}, Health{})

	view := ecs.NewView[movingView](storage)
	var xs []float32
	for _, row := range view.Iter() {
		xs = append(xs, row.Position.X)
	}
	assert.Equal(t, []float32{0, 1, 2, 3}, xs)
}

func TestViewOptionalAndId(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	bare := storage.Spawn(Position{X: 1})
	healthy := storage.Spawn(Position{X: 2}, Health{Current: 5})

	view := ecs.NewView[namedView](storage)

	row := view.Get(bare)
	require.NotNil(t, row)
	assert.Equal(t, bare, row.Id)
	assert.Nil(t, row.Health)

	row = view.Get(healthy)
	require.NotNil(t, row)
	assert.Equal(t, healthy, row.Id)
	require.NotNil(t, row.Health)
	assert.Equal(t, 5, row.Health.Current)

	storage.Delete(bare)
	assert.Nil(t, view.Get(bare))
}

func TestViewFill(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[movingView](storage)

	mover := storage.Spawn(Position{X: 1}, Velocity{DX: 2})
	still := storage.Spawn(Position{X: 3})

	var row movingView
	require.True(t, view.Fill(mover, &row))
	assert.Equal(t, float32(1), row.Position.X)
	assert.Equal(t, float32(2), row.Velocity.DX)

	// writes through the filled pointers land in storage
	row.Position.X = 10
	assert.Equal(t, float32(10), ecs.ReadComponent[Position](storage, mover).X)

	assert.False(t, view.Fill(still, &row), "missing required component")
	assert.Nil(t, view.Get(still))

	storage.Delete(mover)
	assert.False(t, view.Fill(mover, &row), "dead entity")
	assert.False(t, view.Fill(ecs.EntityId(0), &row), "zero id")
}

func TestViewValues(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[movingView](storage)

	for i := range 4 {
		storage.Spawn(Position{X: float32(i)}, Velocity{})
	}
	storage.Spawn(Position{X: 99})

	var xs []float32
	for row := range view.Values() {
		xs = append(xs, row.Position.X)
		if len(xs) == 3 {
			break
		}
	}
	assert.Equal(t, []float32{0, 1, 2}, xs)
}

func TestViewPanicsOnBadShape(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { ecs.NewView[int](storage) })
	assert.Panics(t, func() { ecs.NewView[struct{ Pos Position }](storage) })
	assert.Panics(t, func() {
		ecs.NewView[struct {
			Pos *Position `ecs:"sometimes"`
		}](storage)
	})
}

func TestViewSpawn(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[namedView](storage)

	id := view.Spawn(namedView{Pos: &Position{X: 9}})
	assert.Equal(t, float32(9), ecs.ReadComponent[Position](storage, id).X)
	assert.Nil(t, ecs.ReadComponent[Health](storage, id))

	assert.Panics(t, func() { view.Spawn(namedView{}) })
}

func TestQuery(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	query := ecs.NewQuery[movingView](storage)

	t.Run("iterating before execute panics", func(t *testing.T) {
		assert.Panics(t, func() { query.Iter() })
	})

	t.Run("empty", func(t *testing.T) {
		query.Execute()
		assert.Equal(t, 0, query.Len())
		_, ok := query.First()
		assert.False(t, ok)
	})

	t.Run("sees archetypes created after init", func(t *testing.T) {
		storage.Spawn(Position{X: 1}, Velocity{DX: 1})
		storage.Spawn(Position{X: 2}, Velocity{DX: 1}, Marker{})
		query.Execute()
		assert.Equal(t, 2, query.Len())

		first, ok := query.First()
		require.True(t, ok)
		assert.Equal(t, float32(1), first.Position.X)
	})

	t.Run("mutations write through", func(t *testing.T) {
		for row := range query.Iter() {
			row.Position.X += row.Velocity.DX
		}
		query.Execute()
		var xs []float32
		for _, row := range query.Entities() {
			xs = append(xs, row.Position.X)
		}
		assert.Equal(t, []float32{2, 3}, xs)
	})
}
