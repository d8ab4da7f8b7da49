package ecs

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// Storage is the main ECS storage interface
type Storage struct {
	archetypes  map[uint32]*Archetype
	signatures  map[string]uint32
	registry    *ComponentRegistry
	singletons  map[reflect.Type]*singletonEntry
	spawnOrder  *intmap.Map[EntityId, uint64]
	nextSpawn   uint64
	nextArchId  uint32
	structEpoch uint64
}

type singletonEntry struct {
	typ     reflect.Type
	dataPtr unsafe.Pointer
	value   reflect.Value
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: make(map[uint32]*Archetype),
		signatures: make(map[string]uint32),
		registry:   registry,
		singletons: make(map[reflect.Type]*singletonEntry),
		spawnOrder: intmap.New[EntityId, uint64](256),
		nextArchId: 1,
	}
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	sorted, key := signature(types)
	if id, ok := s.signatures[key]; ok {
		return s.archetypes[id]
	}

	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			panic("duplicate component type " + sorted[i].String())
		}
	}

	id := s.nextArchId
	if id > maxArchetypeId {
		panic("too many archetypes")
	}
	s.nextArchId++
	archetype := newArchetype(id, sorted, s.registry)
	s.archetypes[id] = archetype
	s.signatures[key] = id
	s.structEpoch++
	return archetype
}

// GetArchetype returns the archetype holding exactly the given component set, or nil.
func (s *Storage) GetArchetype(components ...any) *Archetype {
	types := make([]reflect.Type, len(components))
	for i, comp := range components {
		types[i] = componentType(comp)
	}
	_, key := signature(types)
	if id, ok := s.signatures[key]; ok {
		return s.archetypes[id]
	}
	return nil
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	types := make([]reflect.Type, len(components))
	for i, comp := range components {
		t := componentType(comp)
		switch t.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
			panic("components cannot be pointers, maps, channels, or functions")
		}
		types[i] = t
	}

	archetype := s.archetypeFor(types)
	id := archetype.entityId(archetype.spawn(components))
	s.spawnOrder.Put(id, s.nextSpawn)
	s.nextSpawn++
	return id
}

// Delete removes all data related to the entity ID. Deleting a dead entity is a no-op.
func (s *Storage) Delete(id EntityId) {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !archetype.live(id) {
		return
	}
	if archetype.delete(id.Index()) {
		s.spawnOrder.Del(id)
	}
}

// Alive reports whether the entity ID names a live entity. An ID whose slot has
// since been reused by another entity is not alive.
func (s *Storage) Alive(id EntityId) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	return ok && archetype.live(id)
}

// SpawnOrder returns the global spawn sequence number of a live entity.
// Entities moved between archetypes by Add/RemoveComponent keep their number.
func (s *Storage) SpawnOrder(id EntityId) (uint64, bool) {
	return s.spawnOrder.Get(id)
}

// Count returns the number of live entities.
func (s *Storage) Count() int {
	return s.spawnOrder.Len()
}

// AddComponent moves the entity to the archetype that also holds component and returns its new ID.
func (s *Storage) AddComponent(id EntityId, component any) EntityId {
	old, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !old.live(id) {
		return 0
	}

	compType := componentType(component)
	if old.HasComponent(compType) {
		ptr := old.GetComponent(id.Index(), compType)
		reflect.ValueOf(ptr).Elem().Set(reflect.ValueOf(componentValue(component)))
		return id
	}

	components := make([]any, 0, len(old.types)+1)
	for _, typ := range old.types {
		components = append(components, old.GetComponent(id.Index(), typ))
	}
	components = append(components, component)
	return s.move(id, old, components)
}

// RemoveComponent moves the entity to the archetype without compType and returns its new ID.
// Removing the last component deletes the entity and returns 0.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) EntityId {
	old, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !old.live(id) || !old.HasComponent(compType) {
		return id
	}

	components := make([]any, 0, len(old.types)-1)
	for _, typ := range old.types {
		if typ != compType {
			components = append(components, old.GetComponent(id.Index(), typ))
		}
	}

	if len(components) == 0 {
		s.Delete(id)
		return 0
	}
	return s.move(id, old, components)
}

func (s *Storage) move(id EntityId, old *Archetype, components []any) EntityId {
	types := make([]reflect.Type, len(components))
	for i, comp := range components {
		types[i] = componentType(comp)
	}

	// Values must be copied out before the old slot is zeroed.
	values := make([]any, len(components))
	for i, comp := range components {
		values[i] = componentValue(comp)
	}

	target := s.archetypeFor(types)
	newId := target.entityId(target.spawn(values))

	order, _ := s.spawnOrder.Get(id)
	old.delete(id.Index())
	s.spawnOrder.Del(id)
	s.spawnOrder.Put(newId, order)
	return newId
}

// GetComponent returns the component for the given entity ID and component type
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !archetype.live(id) {
		return nil
	}
	return archetype.GetComponent(id.Index(), compType)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	return ok && archetype.live(id) && archetype.HasComponent(compType)
}

// Clear deletes every entity. Archetypes, singletons and spawn numbering survive.
func (s *Storage) Clear() {
	for _, archetype := range s.archetypes {
		archetype.reset()
	}
	s.spawnOrder.Clear()
}

// sortedArchetypes returns archetypes in creation order so iteration is reproducible.
func (s *Storage) sortedArchetypes() []*Archetype {
	list := make([]*Archetype, 0, len(s.archetypes))
	for _, a := range s.archetypes {
		list = append(list, a)
	}
	slices.SortFunc(list, func(a, b *Archetype) int {
		return int(a.id) - int(b.id)
	})
	return list
}

// AddSingleton stores value as the singleton of its type, replacing any previous value
// in place so pointers returned earlier keep observing it.
func (s *Storage) AddSingleton(value any) {
	t := reflect.TypeOf(value)
	if t == nil {
		panic("cannot add nil singleton")
	}
	if t.Kind() == reflect.Ptr {
		value = componentValue(value)
		t = t.Elem()
	}

	if entry, ok := s.singletons[t]; ok {
		entry.value.Elem().Set(reflect.ValueOf(value))
		return
	}

	v := reflect.New(t)
	v.Elem().Set(reflect.ValueOf(value))
	s.singletons[t] = &singletonEntry{
		typ:     t,
		dataPtr: v.UnsafePointer(),
		value:   v,
	}
}

// ReadSingleton sets *target (a **T) to the stored singleton of type T.
// It returns false and leaves target untouched when no such singleton exists.
func (s *Storage) ReadSingleton(target any) bool {
	tv := reflect.ValueOf(target)
	if tv.Kind() != reflect.Ptr || tv.Elem().Kind() != reflect.Ptr {
		panic(fmt.Sprintf("ReadSingleton needs a **T, got %T", target))
	}

	entry := s.getSingletonEntry(tv.Elem().Type().Elem())
	if entry == nil {
		return false
	}
	tv.Elem().Set(entry.value)
	return true
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	return s.singletons[t]
}

// StorageStats is a snapshot of storage occupancy.
type StorageStats struct {
	TotalEntityCount   int
	ArchetypeCount     int
	SingletonCount     int
	ArchetypeBreakdown []ArchetypeStats
	SingletonTypes     []string
}

// ArchetypeStats describes a single archetype in a StorageStats snapshot.
type ArchetypeStats struct {
	ID             uint32
	ComponentTypes []string
	EntityCount    int
}

// CollectStats walks the storage and summarises archetype and singleton usage.
func (s *Storage) CollectStats() *StorageStats {
	stats := &StorageStats{
		ArchetypeCount: len(s.archetypes),
		SingletonCount: len(s.singletons),
	}

	for _, archetype := range s.sortedArchetypes() {
		names := make([]string, len(archetype.types))
		for i, t := range archetype.types {
			names[i] = t.String()
		}
		count := archetype.Len()
		stats.TotalEntityCount += count
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:             archetype.id,
			ComponentTypes: names,
			EntityCount:    count,
		})
	}

	for t := range s.singletons {
		stats.SingletonTypes = append(stats.SingletonTypes, t.String())
	}
	sort.Strings(stats.SingletonTypes)

	return stats
}

// ComponentReader is implemented by anything that can look up a component by entity.
type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns a pointer to the entity's T component, or nil if it has none.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp := reader.GetComponent(entityId, reflect.TypeFor[T]())
	if comp == nil {
		return nil
	}
	return comp.(*T)
}
