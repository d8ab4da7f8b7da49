package ecs

import (
	"iter"
	"reflect"
	"slices"
	"unsafe"
)

var entityIdType = reflect.TypeFor[EntityId]()

// View represents a query for entities with a specific combination of components.
// T must be a struct whose fields are pointers to component types, plus at most one
// EntityId field which receives the entity's ID. Embedded pointer fields are always
// required; named fields can be marked optional with the `ecs:"optional"` struct tag,
// in which case they are nil for entities without that component.
type View[T any] struct {
	storage     *Storage
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr
	idOffset    uintptr
	hasId       bool
}

type viewRow[T any] struct {
	id    EntityId
	order uint64
	value T
}

// NewView creates a new view for the given struct type
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{storage: storage}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Type == entityIdType {
			if v.hasId {
				panic("View struct may hold only one EntityId field")
			}
			v.hasId = true
			v.idOffset = field.Offset
			continue
		}

		if field.Type.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types or EntityId")
		}

		isOptional := false
		if tag := field.Tag.Get("ecs"); tag != "" {
			if tag != "optional" || field.Anonymous {
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" on named fields is supported)")
			}
			isOptional = true
		}

		v.types = append(v.types, field.Type.Elem())
		v.optional = append(v.optional, isOptional)
		v.fieldOffset = append(v.fieldOffset, field.Offset)
	}

	return v
}

// matchesArchetype checks if an archetype contains all the required component types for this view
func (v *View[T]) matchesArchetype(archetype *Archetype) bool {
	for i, t := range v.types {
		if !v.optional[i] && !archetype.HasComponent(t) {
			return false
		}
	}
	return true
}

func (v *View[T]) columnIndices(archetype *Archetype) []int {
	indices := make([]int, len(v.types))
	for i, t := range v.types {
		indices[i] = archetype.columnIndex(t)
	}
	return indices
}

// populate writes component pointers for slot into the struct at dst.
func (v *View[T]) populate(dst unsafe.Pointer, archetype *Archetype, slot int, indices []int) bool {
	for i, columnIdx := range indices {
		fieldPtr := unsafe.Add(dst, v.fieldOffset[i])

		var component any
		if columnIdx != -1 {
			component = archetype.columns[columnIdx].Get(slot)
		}
		if component == nil {
			if !v.optional[i] {
				return false
			}
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}
		*(*unsafe.Pointer)(fieldPtr) = dataPointer(component)
	}

	if v.hasId {
		*(*EntityId)(unsafe.Add(dst, v.idOffset)) = archetype.entityId(uint32(slot))
	}
	return true
}

// Fill populates the provided struct pointer with component data for the given entity.
// Returns false if the entity is dead or missing any required component.
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	archetype, ok := v.storage.archetypes[id.ArchetypeId()]
	if !ok || !archetype.live(id) || !v.matchesArchetype(archetype) {
		return false
	}
	return v.populate(unsafe.Pointer(ptr), archetype, int(id.Index()), v.columnIndices(archetype))
}

// Get returns a populated view struct for the given entity, or nil
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

// collect gathers every matching entity from archetypes, sorted by spawn order.
func (v *View[T]) collect(archetypes []*Archetype, rows []viewRow[T]) []viewRow[T] {
	rows = rows[:0]
	for _, archetype := range archetypes {
		if archetype.Len() == 0 {
			continue
		}
		indices := v.columnIndices(archetype)
		for slot := range archetype.columns[0].Iter() {
			var row viewRow[T]
			if !v.populate(unsafe.Pointer(&row.value), archetype, slot, indices) {
				continue
			}
			row.id = archetype.entityId(uint32(slot))
			row.order, _ = v.storage.spawnOrder.Get(row.id)
			rows = append(rows, row)
		}
	}

	slices.SortFunc(rows, func(a, b viewRow[T]) int {
		switch {
		case a.order < b.order:
			return -1
		case a.order > b.order:
			return 1
		}
		return 0
	})
	return rows
}

func (v *View[T]) matchingArchetypes() []*Archetype {
	var matched []*Archetype
	for _, archetype := range v.storage.sortedArchetypes() {
		if v.matchesArchetype(archetype) {
			matched = append(matched, archetype)
		}
	}
	return matched
}

// Iter returns an iterator over (EntityId, T) pairs for every matching entity, oldest first.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, row := range v.collect(v.matchingArchetypes(), nil) {
			if !yield(row.id, row.value) {
				return
			}
		}
	}
}

// Values returns an iterator over just the view structs (without entity IDs)
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Spawn creates a new entity from the non-nil component pointers in data.
func (v *View[T]) Spawn(data T) EntityId {
	base := unsafe.Pointer(&data)

	components := make([]any, 0, len(v.types))
	for i, t := range v.types {
		ptr := *(*unsafe.Pointer)(unsafe.Add(base, v.fieldOffset[i]))
		if ptr == nil {
			if !v.optional[i] {
				panic("required component is nil in View.Spawn")
			}
			continue
		}
		components = append(components, reflect.NewAt(t, ptr).Elem().Interface())
	}

	return v.storage.Spawn(components...)
}
