package ecs

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// joinable is the view of a store used by joins.
type joinable interface {
	presence() *bitset
	idAt(idx uint32) EntityID
	attach(hidden *bitset)
	hiddenSet() *bitset
}

// ComponentStore is a dense, slot-indexed table for one component type.
// Presence is tracked in a bitset so joins reduce to word-wise intersection.
// Pointers returned by Get stay valid until the store grows, which only
// happens when a component is set on a slot beyond the current length.
type ComponentStore[T any] struct {
	data    []T
	ids     []EntityID
	present bitset
	hidden  *bitset
	n       int
}

func NewComponentStore[T any]() *ComponentStore[T] {
	return &ComponentStore[T]{
		data: make([]T, 0, 256),
		ids:  make([]EntityID, 0, 256),
	}
}

func (s *ComponentStore[T]) Set(id EntityID, c T) {
	idx := id.Index()
	for int(idx) >= len(s.data) {
		var zero T
		s.data = append(s.data, zero)
		s.ids = append(s.ids, NilEntity)
	}
	if !s.present.test(idx) {
		s.n++
	}
	s.data[idx] = c
	s.ids[idx] = id
	s.present.set(idx)
}

func (s *ComponentStore[T]) Get(id EntityID) (*T, bool) {
	idx := id.Index()
	if !s.present.test(idx) || s.ids[idx] != id {
		return nil, false
	}
	return &s.data[idx], true
}

func (s *ComponentStore[T]) Remove(id EntityID) {
	idx := id.Index()
	if !s.present.test(idx) || s.ids[idx] != id {
		return
	}
	var zero T
	s.data[idx] = zero
	s.ids[idx] = NilEntity
	s.present.clear(idx)
	s.n--
}

func (s *ComponentStore[T]) Has(id EntityID) bool {
	_, ok := s.Get(id)
	return ok
}

// Len counts stored components, including those of entities queued for destruction.
func (s *ComponentStore[T]) Len() int {
	return s.n
}

// Each visits every visible component in ascending slot order.
func (s *ComponentStore[T]) Each(fn func(EntityID, *T)) {
	join([]joinable{s}, func(idx uint32) {
		fn(s.ids[idx], &s.data[idx])
	})
}

func (s *ComponentStore[T]) presence() *bitset        { return &s.present }
func (s *ComponentStore[T]) idAt(idx uint32) EntityID { return s.ids[idx] }
func (s *ComponentStore[T]) attach(hidden *bitset)    { s.hidden = hidden }
func (s *ComponentStore[T]) hiddenSet() *bitset       { return s.hidden }
