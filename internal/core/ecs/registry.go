package ecs

// Registry tracks all component stores and supports bulk cleanup on entity destroy.
type Registry struct {
	stores []Removable
	hidden *bitset
}

func NewRegistry(hidden *bitset) *Registry {
	return &Registry{
		stores: make([]Removable, 0, 16),
		hidden: hidden,
	}
}

// Register adds a component store to the registry. Stores that take part in
// joins start honouring the world's pending destructions.
func (r *Registry) Register(store Removable) {
	if j, ok := store.(joinable); ok {
		j.attach(r.hidden)
	}
	r.stores = append(r.stores, store)
}

// RemoveAll clears the given entity from every registered component store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}
