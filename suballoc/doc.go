// Package suballoc supplies placement management for many small GPU
// resources inside a few coarse backing heaps, with a limited scope:
//
//  * Types and Functions exported by this package are not thread safe.
//  * Backing heaps are obtained from the device lazily, as allocations
//    demand, and returned to the device only when the allocator is
//    Released.
//  * Free intervals across all heaps are kept in a single list, ordered
//    by (heap index, offset) and searched first-fit. There are no size
//    class buckets and no best-fit search.
//  * Contiguous intervals on the same heap merge when freed. There is no
//    compaction and no pointer re-write, a placement stays valid for the
//    entire lifetime of its allocation.
//  * Heap classes are a hard partition, an interval of one class never
//    satisfies a request of another class.
//
// Allocations placed by this package are byte exact, the returned offset
// is the byte offset into the backing heap at which the external
// placement API must bind the resource.
package suballoc
