package ecs

import "iter"

// Query wraps a View with caching for repeated iteration inside a system.
// The Scheduler calls Execute before the owning system runs, so Iter always
// reflects the storage as of the start of that system, in spawn order.
type Query[T any] struct {
	view    *View[T]
	storage *Storage

	archetypes []*Archetype
	epoch      uint64
	rows       []viewRow[T]
	valid      bool
}

// NewQuery creates a new Query bound to storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init initializes or re-initializes the Query with a storage.
// Called by the Scheduler during system registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.archetypes = nil
	q.rows = q.rows[:0]
	q.valid = false
}

// Execute rebuilds the cached rows.
func (q *Query[T]) Execute() {
	if q.archetypes == nil || q.epoch != q.storage.structEpoch {
		q.archetypes = q.view.matchingArchetypes()
		if q.archetypes == nil {
			q.archetypes = []*Archetype{}
		}
		q.epoch = q.storage.structEpoch
	}

	q.rows = q.view.collect(q.archetypes, q.rows)
	q.valid = true
}

// Iter returns an iterator over component data, oldest entity first.
// Panics if Execute() has not been called.
func (q *Query[T]) Iter() iter.Seq[T] {
	if !q.valid {
		panic("Query.Iter() called before Query.Execute()")
	}

	return func(yield func(T) bool) {
		for i := range q.rows {
			if !yield(q.rows[i].value) {
				return
			}
		}
	}
}

// Entities returns an iterator over entity IDs and component data.
func (q *Query[T]) Entities() iter.Seq2[EntityId, T] {
	if !q.valid {
		panic("Query.Entities() called before Query.Execute()")
	}

	return func(yield func(EntityId, T) bool) {
		for i := range q.rows {
			if !yield(q.rows[i].id, q.rows[i].value) {
				return
			}
		}
	}
}

// Len returns the number of cached rows.
func (q *Query[T]) Len() int {
	return len(q.rows)
}

// First returns the oldest matching entity, if any.
func (q *Query[T]) First() (T, bool) {
	if !q.valid || len(q.rows) == 0 {
		var zero T
		return zero, false
	}
	return q.rows[0].value, true
}
