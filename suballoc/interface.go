package suballoc

import "github.com/bnclabs/gpualloc/api"

// Suballocator interface to place many small GPU resources inside a few
// coarse backing heaps. Implemented by Allocator.
type Suballocator interface {
	// Alloc place size bytes on a backing heap of class, size rounded
	// up to align when align is non zero.
	Alloc(size int64, class api.HeapClass, align int64) (Allocation, error)

	// Free return alloc's interval to the free list, merging with
	// contiguous neighbours on the same heap.
	Free(alloc Allocation)

	// Freeblocks number of intervals in the free list.
	Freeblocks() int64

	// Heapcount number of backing heaps obtained from the device.
	Heapcount() int64

	// Heaps backing heaps obtained so far, indexed by heap index.
	Heaps() []api.Heap

	// Allocated bytes currently live across all heaps.
	Allocated() int64

	// Available remaining capacity with this allocator.
	Available() int64

	// Release every backing heap to the device, reporting leaks when
	// tracking is enabled.
	Release()
}

var _ Suballocator = (*Allocator)(nil)
