package ecs

// EntityId packs an archetype ID (upper 20 bits), a slot generation (next 12 bits)
// and the slot index (lower 32 bits). A slot's generation advances every time the
// slot is freed, so an ID held past its entity's deletion never names the entity
// that later reuses the slot. Archetype IDs start at 1, so the zero EntityId never
// names a live entity.
type EntityId uint64

const (
	generationBits = 12
	generationMask = 1<<generationBits - 1
	archetypeBits  = 32 - generationBits
	maxArchetypeId = 1<<archetypeBits - 1
)

// NewEntityId creates an EntityId from an archetype ID, slot generation and slot index.
// Bits of archetypeId and generation beyond their fields are dropped.
func NewEntityId(archetypeId, generation, index uint32) EntityId {
	high := (archetypeId&maxArchetypeId)<<generationBits | generation&generationMask
	return EntityId(uint64(high)<<32 | uint64(index))
}

// ArchetypeId extracts the archetype ID from the entity ID
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> (32 + generationBits))
}

// Generation extracts the slot generation the ID was issued under.
func (e EntityId) Generation() uint32 {
	return uint32(e>>32) & generationMask
}

// Index extracts the slot index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}
