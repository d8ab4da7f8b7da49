package ecs

import (
	"reflect"
	"slices"
	"strings"
)

// Archetype represents a unique combination of component types
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []componentColumn
	// generations[slot] is bumped whenever slot is freed.
	generations []uint32
}

func newArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]componentColumn, len(types)),
	}

	for idx, typ := range types {
		factory := registry.getFactory(typ)
		if factory == nil {
			panic("component type " + typ.String() + " not registered")
		}
		a.columns[idx] = factory()
	}

	return a
}

// spawn appends components (one per archetype type, in any order) and returns the slot.
func (a *Archetype) spawn(components []any) uint32 {
	slot := -1
	for _, comp := range components {
		idx := a.columnIndex(componentType(comp))
		if idx == -1 {
			panic("component " + componentType(comp).String() + " does not belong to archetype")
		}
		pos := a.columns[idx].Append(comp)
		if slot != -1 && pos != slot {
			panic("archetype columns out of step")
		}
		slot = pos
	}
	for len(a.generations) <= slot {
		a.generations = append(a.generations, 0)
	}
	return uint32(slot)
}

// entityId returns the ID of the entity currently occupying slot.
func (a *Archetype) entityId(slot uint32) EntityId {
	var generation uint32
	if int(slot) < len(a.generations) {
		generation = a.generations[slot]
	}
	return NewEntityId(a.id, generation, slot)
}

// live reports whether id names the entity occupying its slot right now.
func (a *Archetype) live(id EntityId) bool {
	slot := id.Index()
	return a.has(slot) && a.generations[slot]&generationMask == id.Generation()
}

func (a *Archetype) columnIndex(t reflect.Type) int {
	for i, typ := range a.types {
		if typ == t {
			return i
		}
	}
	return -1
}

// GetComponent returns a pointer to the component of the given type at slot, or nil.
func (a *Archetype) GetComponent(slot uint32, compType reflect.Type) any {
	idx := a.columnIndex(compType)
	if idx == -1 {
		return nil
	}
	return a.columns[idx].Get(int(slot))
}

func (a *Archetype) delete(slot uint32) bool {
	if len(a.columns) == 0 || !a.columns[0].Has(int(slot)) {
		return false
	}
	for _, column := range a.columns {
		column.Delete(int(slot))
	}
	a.generations[slot]++
	return true
}

func (a *Archetype) has(slot uint32) bool {
	return len(a.columns) > 0 && a.columns[0].Has(int(slot))
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return slices.Contains(a.types, compType)
}

// ID returns the archetype's unique identifier
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types for this archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities in the archetype.
func (a *Archetype) Len() int {
	if len(a.columns) == 0 {
		return 0
	}
	return a.columns[0].Len()
}

// Iter returns an iterator over all live EntityIds in this archetype, in slot order.
func (a *Archetype) Iter() func(yield func(EntityId) bool) {
	return func(yield func(EntityId) bool) {
		if len(a.columns) == 0 {
			return
		}
		for slot := range a.columns[0].Iter() {
			if !yield(a.entityId(uint32(slot))) {
				return
			}
		}
	}
}

func (a *Archetype) reset() {
	if len(a.columns) > 0 {
		for slot := range a.columns[0].Iter() {
			a.generations[slot]++
		}
	}
	for _, column := range a.columns {
		column.Reset()
	}
}

// componentType returns the value type of a component passed as T or *T.
func componentType(comp any) reflect.Type {
	t := reflect.TypeOf(comp)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// componentValue dereferences a component passed as *T.
func componentValue(comp any) any {
	v := reflect.ValueOf(comp)
	if v.Kind() == reflect.Ptr {
		return v.Elem().Interface()
	}
	return comp
}

// signature returns the sorted component types of a component set and its lookup key.
func signature(types []reflect.Type) ([]reflect.Type, string) {
	sorted := slices.Clone(types)
	slices.SortFunc(sorted, func(a, b reflect.Type) int {
		return strings.Compare(a.String(), b.String())
	})

	names := make([]string, len(sorted))
	for i, t := range sorted {
		names[i] = t.PkgPath() + "." + t.String()
	}
	return sorted, strings.Join(names, "|")
}
