// Package api define the contracts between the sub-allocator and the
// device layer that supplies backing heaps and placed resources.
package api

import "unsafe"

// Device capability consumed by the sub-allocator. The device object is
// not owned by the allocator and must stay valid for the allocator's
// lifetime.
type Device interface {
	// CreateHeap obtain a backing heap of exactly `capacity` bytes in
	// `class` memory. A failed creation must return a nil heap and a
	// non-nil error.
	CreateHeap(capacity int64, class HeapClass) (Heap, error)

	// CreatePlacedResource create a resource bound at `offset` bytes
	// into heap. desc is an opaque, device specific descriptor passed
	// through untouched.
	CreatePlacedResource(heap Heap, offset int64, desc interface{}) (Resource, error)
}

// Heap is a coarse block of device memory sub-divided by the allocator.
// Heaps are never resized or moved, placements into a heap stay valid
// until the owning allocation is freed.
type Heap interface {
	// Capacity of this heap in bytes, fixed at creation.
	Capacity() int64

	// Class of memory backing this heap.
	Class() HeapClass

	// Release the heap back to the device.
	Release()
}

// Resource is an opaque resource object placed inside a backing heap.
type Resource interface {
	// Map the resource for CPU access.
	Map() (unsafe.Pointer, error)

	// Unmap release the CPU mapping.
	Unmap()

	// Release the resource object back to the device.
	Release()
}
