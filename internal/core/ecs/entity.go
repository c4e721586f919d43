package ecs

import "fmt"

// EntityID packs a slot index (low 32 bits) and the slot's generation (high
// 32 bits). A slot's generation moves on every destroy, so ids held past
// their entity's death never resolve again.
type EntityID uint64

// NilEntity is never issued: generations start at 1.
const NilEntity EntityID = 0

func NewEntityID(index, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }

func (id EntityID) String() string {
	return fmt.Sprintf("%d.%d", id.Index(), id.Generation())
}

// EntityPool hands out ids, recycling destroyed slots LIFO.
type EntityPool struct {
	gen  []uint32 // current generation per slot
	free []uint32
	live int
}

func NewEntityPool() *EntityPool {
	return &EntityPool{gen: make([]uint32, 0, 256)}
}

func (p *EntityPool) Create() EntityID {
	p.live++
	if n := len(p.free); n > 0 {
		slot := p.free[n-1]
		p.free = p.free[:n-1]
		return NewEntityID(slot, p.gen[slot])
	}
	p.gen = append(p.gen, 1)
	return NewEntityID(uint32(len(p.gen)-1), 1)
}

func (p *EntityPool) Alive(id EntityID) bool {
	slot := int(id.Index())
	return slot < len(p.gen) && p.gen[slot] == id.Generation()
}

// Destroy retires id and frees its slot. It reports false for ids that were
// already dead.
func (p *EntityPool) Destroy(id EntityID) bool {
	if !p.Alive(id) {
		return false
	}
	slot := id.Index()
	if p.gen[slot]++; p.gen[slot] == 0 {
		p.gen[slot] = 1
	}
	p.free = append(p.free, slot)
	p.live--
	return true
}

// Len is the number of live entities.
func (p *EntityPool) Len() int { return p.live }
