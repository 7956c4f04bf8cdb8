package component

import "github.com/zjrosen/vellum/internal/log"

// Handle is the opaque integer identity of a definition. Zero is never valid.
type Handle uint32

// MaxHandle bounds the definition table.
const MaxHandle Handle = 1 << 20

// Valid reports whether h can address a definition.
func (h Handle) Valid() bool {
	return h != 0 && h <= MaxHandle
}

// HandleAllocator hands out handles that are unique among live definitions.
// Released handles are reused most-recent-first.
type HandleAllocator struct {
	next     Handle
	freeList []Handle
	live     map[Handle]struct{}
}

// NewHandleAllocator returns an allocator whose first handle is 1.
func NewHandleAllocator() *HandleAllocator {
	return &HandleAllocator{
		freeList: make([]Handle, 0, 16),
		live:     make(map[Handle]struct{}),
	}
}

// Allocate returns a handle not currently live.
func (a *HandleAllocator) Allocate() (Handle, error) {
	if n := len(a.freeList); n > 0 {
		h := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		a.live[h] = struct{}{}
		return h, nil
	}
	if a.next >= MaxHandle {
		return 0, ErrHandleSpaceExhausted
	}
	a.next++
	a.live[a.next] = struct{}{}
	return a.next, nil
}

// Release returns h to the free list. Releasing a handle that is not live
// is a no-op and reports false.
func (a *HandleAllocator) Release(h Handle) bool {
	if _, ok := a.live[h]; !ok {
		return false
	}
	delete(a.live, h)
	a.freeList = append(a.freeList, h)
	log.Debug(log.CatRegistry, "Handle released", "handle", h)
	return true
}

// Live reports whether h is currently allocated.
func (a *HandleAllocator) Live(h Handle) bool {
	_, ok := a.live[h]
	return ok
}

// InUse returns the number of live handles.
func (a *HandleAllocator) InUse() int {
	return len(a.live)
}
