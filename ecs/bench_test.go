package ecs_test

import (
	"testing"

	"github.com/plus3/alien-defense/ecs"
)

func BenchmarkSpawn(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}
}

// Churn mimics bullets: spawn a handful, delete them, repeat.
func BenchmarkSpawnDeleteChurn(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	ids := make([]ecs.EntityId, 0, 8)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ids = ids[:0]
		for j := 0; j < 8; j++ {
			ids = append(ids, storage.Spawn(Position{}, Velocity{DX: 5}, Marker{}))
		}
		for _, id := range ids {
			storage.Delete(id)
		}
	}
}

func BenchmarkQueryIter(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := 0; i < 500; i++ {
		storage.Spawn(Position{X: float32(i)}, Velocity{DX: -1.5})
	}
	q := ecs.NewQuery[struct {
		*Position
		*Velocity
	}](storage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.Execute()
		for row := range q.Iter() {
			row.Position.X += row.Velocity.DX
		}
	}
}

func BenchmarkCommandsFlush(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	commands := ecs.NewCommands()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := storage.Spawn(Position{}, Marker{})
		commands.Delete(id)
		commands.Spawn(Position{}, Velocity{})
		commands.Flush(storage)
	}
}
