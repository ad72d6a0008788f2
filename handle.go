package potion

// Handle identifies an entity slot inside an EntityList. The lower 32 bits
// hold the slot index and the upper 32 bits its generation. Releasing a slot
// bumps the generation, so copies of an old Handle stop resolving.
type Handle uint64

func newHandle(index, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

func (h Handle) Index() uint32      { return uint32(h) }
func (h Handle) Generation() uint32 { return uint32(h >> 32) }

// IsZero reports whether h was never assigned. Generations start at 1, so a
// live handle is never zero.
func (h Handle) IsZero() bool { return h == 0 }

// handlePool allocates generational slot indices with a free list.
type handlePool struct {
	generations []uint32
	freeList    []uint32
}

func (p *handlePool) create() Handle {
	if n := len(p.freeList); n > 0 {
		idx := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		return newHandle(idx, p.generations[idx])
	}
	idx := uint32(len(p.generations))
	p.generations = append(p.generations, 1)
	return newHandle(idx, 1)
}

func (p *handlePool) alive(h Handle) bool {
	idx := h.Index()
	if h.IsZero() || int(idx) >= len(p.generations) {
		return false
	}
	return p.generations[idx] == h.Generation()
}

func (p *handlePool) release(h Handle) {
	if !p.alive(h) {
		return // stale
	}
	idx := h.Index()
	p.generations[idx]++
	if p.generations[idx] == 0 {
		p.generations[idx] = 1
	}
	p.freeList = append(p.freeList, idx)
}
