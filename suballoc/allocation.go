package suballoc

import "github.com/bnclabs/gpualloc/api"

// Allocation is a placement inside one backing heap, returned by Alloc
// and the sole key to the matching Free. Treat returned values as
// immutable, using an Allocation after it is freed is undefined.
type Allocation struct {
	Size    int64
	Offset  int64
	Class   api.HeapClass
	Heapidx int
	Heap    api.Heap
}

// IsEmpty report the zero Allocation, returned for zero sized requests
// and on out-of-memory.
func (alloc Allocation) IsEmpty() bool {
	return alloc.Size == 0
}

// allockey identity of a live allocation, (size, offset, heapidx).
type allockey struct {
	size    int64
	offset  int64
	heapidx int
}

func (alloc Allocation) key() allockey {
	return allockey{alloc.Size, alloc.Offset, alloc.Heapidx}
}
