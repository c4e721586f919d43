package ecs

import "math/bits"

// join calls fn with every slot index present in all stores, in ascending
// order. Slots hidden by a queued destruction are skipped; the hidden set is
// checked per slot so entities destroyed mid-iteration are not visited.
func join(stores []joinable, fn func(idx uint32)) {
	if len(stores) == 0 {
		return
	}
	var hidden *bitset
	words := len(stores[0].presence().words)
	for _, s := range stores {
		if n := len(s.presence().words); n < words {
			words = n
		}
		if hidden == nil {
			hidden = s.hiddenSet()
		}
	}
	for w := 0; w < words; w++ {
		mask := ^uint64(0)
		for _, s := range stores {
			mask &= s.presence().word(w)
		}
		for mask != 0 {
			bit := bits.TrailingZeros64(mask)
			mask &^= 1 << bit
			idx := uint32(w<<6 | bit)
			if hidden != nil && hidden.test(idx) {
				continue
			}
			fn(idx)
		}
	}
}

// Each2 iterates over entities that have both component A and B.
func Each2[A, B any](sa *ComponentStore[A], sb *ComponentStore[B], fn func(EntityID, *A, *B)) {
	join([]joinable{sa, sb}, func(idx uint32) {
		fn(sa.ids[idx], &sa.data[idx], &sb.data[idx])
	})
}

// Each3 iterates over entities that have components A, B, and C.
func Each3[A, B, C any](sa *ComponentStore[A], sb *ComponentStore[B], sc *ComponentStore[C], fn func(EntityID, *A, *B, *C)) {
	join([]joinable{sa, sb, sc}, func(idx uint32) {
		fn(sa.ids[idx], &sa.data[idx], &sb.data[idx], &sc.data[idx])
	})
}

// Join returns the ids of entities present in every store, in ascending slot
// order. Pairwise systems use the snapshot to walk unordered pairs.
func Join(stores ...joinable) []EntityID {
	var out []EntityID
	join(stores, func(idx uint32) {
		out = append(out, stores[0].idAt(idx))
	})
	return out
}
