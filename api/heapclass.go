package api

// HeapClass partitions device memory by visibility and performance
// characteristics. Allocations and free intervals of different classes
// never satisfy each other's requests, they live on distinct physical
// memory pools.
type HeapClass byte

const (
	// HeapDefault GPU local memory, not visible to the CPU.
	HeapDefault HeapClass = iota

	// HeapUpload CPU visible memory, optimized for CPU to GPU transfer.
	HeapUpload

	// HeapReadback CPU visible memory, optimized for GPU to CPU transfer.
	HeapReadback
)

// Heapclasses list of supported heap classes, for iteration.
var Heapclasses = []HeapClass{HeapDefault, HeapUpload, HeapReadback}

func (class HeapClass) String() string {
	switch class {
	case HeapDefault:
		return "default"
	case HeapUpload:
		return "upload"
	case HeapReadback:
		return "readback"
	}
	panic("unexpected heap class") // should never reach here
}
