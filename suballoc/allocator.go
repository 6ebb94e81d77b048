package suballoc

import "github.com/cockroachdb/errors"
import s "github.com/prataprc/gosettings"

import "github.com/bnclabs/gpualloc/api"

// Allocator sub-divides coarse backing heaps obtained from the device
// into many small placements. A single free list is shared by every
// heap and heap class. Allocator is not thread safe, wrap it with a
// mutex when sharing across goroutines.
type Allocator struct {
	name   string
	device api.Device

	heaps     []api.Heap
	heapalloc []int64 // live bytes per heap
	flist     freelist
	tracker   *tracker

	// configuration
	blocksize int64
	capacity  int64
	fatalfree bool

	// statistics
	n_allocs   int64
	n_frees    int64
	n_grows    int64
	heapmemory int64 // total bytes obtained from the device
}

// New create a sub-allocator over device. Heaps are created lazily as
// allocations demand and held until Release. Settings as per
// Defaultsettings().
func New(name string, device api.Device, setts s.Settings) *Allocator {
	if device == nil {
		panicerr("%v nil device", name)
	}
	malc := &Allocator{
		name:      name,
		device:    device,
		flist:     newfreelist(),
		blocksize: setts.Int64("blocksize"),
		capacity:  setts.Int64("capacity"),
	}
	if malc.blocksize <= 0 {
		panicerr("%v invalid blocksize %v", name, malc.blocksize)
	}
	switch policy := setts.String("freepolicy"); policy {
	case "fatal":
		malc.fatalfree = true
	case "ignore":
	default:
		panicerr("%v invalid freepolicy %q", name, policy)
	}
	if setts.Bool("tracking") {
		malc.tracker = newtracker(name)
	}
	if malc.capacity < malc.blocksize {
		warnf("%v capacity %v below blocksize %v\n",
			name, malc.capacity, malc.blocksize)
	}
	infof("%v new allocator blocksize:%v capacity:%v\n",
		name, malc.blocksize, malc.capacity)
	return malc
}

//---- operations

// Alloc place size bytes on a backing heap of class. size is rounded up
// to align when align is non zero, align must be a power of 2. A zero
// sized request returns the zero Allocation without touching any state.
// When no free interval fits and the device cannot supply another heap,
// returns the zero Allocation and an error wrapping
// api.ErrorOutofmemory.
func (malc *Allocator) Alloc(
	size int64, class api.HeapClass, align int64) (Allocation, error) {

	if malc.device == nil {
		panic(errors.Wrapf(api.ErrorReleased, "%v", malc.name))
	}
	if size < 0 {
		panicerr("%v negative size %v", malc.name, size)
	} else if size == 0 {
		return Allocation{}, nil
	}
	size = alignup(size, align)

	if alloc, ok := malc.flist.search(size, class); ok {
		malc.heapalloc[alloc.Heapidx] += size
		malc.n_allocs++
		if malc.tracker != nil {
			malc.tracker.insert(alloc)
		}
		return alloc, nil
	}
	return malc.grow(size, class)
}

// grow obtain a fresh backing heap sized to satisfy the pending request
// in one step. The heap's first size bytes become the returned
// Allocation, the remainder seeds the free list.
func (malc *Allocator) grow(
	size int64, class api.HeapClass) (Allocation, error) {

	newcap := malc.blocksize
	if newcap <= size {
		newcap = 4 * size
	}
	if malc.heapmemory+newcap > malc.capacity {
		err := errors.Wrapf(
			api.ErrorOutofmemory,
			"%v heap memory %v + %v exceeds capacity %v",
			malc.name, malc.heapmemory, newcap, malc.capacity)
		errorf("%v\n", err)
		return Allocation{}, err
	}
	heap, err := malc.device.CreateHeap(newcap, class)
	if err != nil {
		err = errors.Wrapf(
			api.ErrorOutofmemory, "%v CreateHeap(%v, %v): %v",
			malc.name, newcap, class, err)
		errorf("%v\n", err)
		return Allocation{}, err
	}
	heapidx := len(malc.heaps)
	malc.heaps = append(malc.heaps, heap)
	malc.heapalloc = append(malc.heapalloc, size)
	malc.heapmemory += newcap
	malc.n_grows++
	malc.flist.insert(newcap-size, size, class, heapidx, heap)

	alloc := Allocation{
		Size: size, Offset: 0, Class: class, Heapidx: heapidx, Heap: heap,
	}
	malc.n_allocs++
	if malc.tracker != nil {
		malc.tracker.insert(alloc)
	}
	debugf("%v grew heap %v %v bytes of %v for %v byte request\n",
		malc.name, heapidx, newcap, class, size)
	return alloc, nil
}

// Free return alloc's interval to the free list, merging with
// contiguous neighbours on the same heap. Freeing the zero Allocation,
// a foreign allocation or an already freed allocation is a caller bug,
// dispatched per the "freepolicy" setting.
func (malc *Allocator) Free(alloc Allocation) {
	if malc.device == nil {
		panic(errors.Wrapf(api.ErrorReleased, "%v", malc.name))
	}
	if alloc.Size <= 0 || alloc.Heap == nil ||
		alloc.Heapidx < 0 || alloc.Heapidx >= len(malc.heaps) {
		malc.invalidfree("%v free of invalid allocation %+v", malc.name, alloc)
		return
	}
	if malc.tracker != nil && malc.tracker.remove(alloc) == false {
		malc.invalidfree(
			"%v double or foreign free of %v bytes at %v on heap %v",
			malc.name, alloc.Size, alloc.Offset, alloc.Heapidx)
		return
	}
	malc.flist.insert(alloc.Size, alloc.Offset, alloc.Class, alloc.Heapidx, alloc.Heap)
	malc.heapalloc[alloc.Heapidx] -= alloc.Size
	malc.n_frees++
}

func (malc *Allocator) invalidfree(fmsg string, args ...interface{}) {
	if malc.fatalfree {
		panic(errors.Wrapf(api.ErrorInvalidfree, fmsg, args...))
	}
	errorf(fmsg+"\n", args...)
}

// Release every backing heap to the device. Live allocations still
// tracked are reported as leaks before the heaps go away. The allocator
// cannot be used after Release.
func (malc *Allocator) Release() {
	if malc.device == nil {
		panic(errors.Wrapf(api.ErrorReleased, "%v", malc.name))
	}
	if malc.tracker != nil {
		if leaked := malc.tracker.dump(); leaked > 0 {
			errorf("%v released with %v live allocations\n", malc.name, leaked)
		}
	}
	for _, heap := range malc.heaps {
		heap.Release()
	}
	infof("%v released %v heaps after %v allocs, %v frees\n",
		malc.name, len(malc.heaps), malc.n_allocs, malc.n_frees)
	malc.heaps, malc.heapalloc, malc.device = nil, nil, nil
	malc.flist = newfreelist()
	malc.tracker = nil
}

//---- introspection, no side effects

// Freeblocks number of intervals in the free list.
func (malc *Allocator) Freeblocks() int64 {
	return malc.flist.count()
}

// Heapcount number of backing heaps obtained from the device so far.
func (malc *Allocator) Heapcount() int64 {
	return int64(len(malc.heaps))
}

// Heaps backing heaps obtained so far, indexed by heap index.
func (malc *Allocator) Heaps() []api.Heap {
	heaps := make([]api.Heap, len(malc.heaps))
	copy(heaps, malc.heaps)
	return heaps
}

// Allocated bytes currently live across all heaps.
func (malc *Allocator) Allocated() int64 {
	allocated := int64(0)
	for _, n := range malc.heapalloc {
		allocated += n
	}
	return allocated
}

// Available remaining capacity, configured capacity less heap memory
// already obtained, plus free bytes inside obtained heaps.
func (malc *Allocator) Available() int64 {
	return malc.capacity - malc.Allocated()
}

// Capacity configured limit on total heap memory.
func (malc *Allocator) Capacity() int64 {
	return malc.capacity
}

// Validate walk the free list asserting the sorted-order, merge and
// capacity conservation invariants, panic on violation. Meant for tests
// and diagnostics.
func (malc *Allocator) Validate() {
	freeon := make([]int64, len(malc.heaps))
	lastidx, lastend, lastok := 0, int64(0), false
	for idx := malc.flist.head; idx != -1; idx = malc.flist.slots[idx].next {
		fb := &malc.flist.slots[idx]
		if fb.inuse == false {
			panicerr("%v free slot %v linked in list", malc.name, idx)
		} else if fb.size <= 0 {
			panicerr("%v zero sized block at offset %v", malc.name, fb.offset)
		} else if fb.offset+fb.size > malc.heaps[fb.heapidx].Capacity() {
			panicerr("%v block [%v,%v) past end of heap %v",
				malc.name, fb.offset, fb.offset+fb.size, fb.heapidx)
		}
		if lastok {
			if fb.heapidx < lastidx ||
				(fb.heapidx == lastidx && fb.offset < lastend) {
				panicerr("%v list unordered at heap %v offset %v",
					malc.name, fb.heapidx, fb.offset)
			} else if fb.heapidx == lastidx && fb.offset == lastend {
				panicerr("%v unmerged adjacency at heap %v offset %v",
					malc.name, fb.heapidx, fb.offset)
			}
		}
		lastidx, lastend, lastok = fb.heapidx, fb.offset+fb.size, true
		freeon[fb.heapidx] += fb.size
	}
	for i, heap := range malc.heaps {
		if freeon[i]+malc.heapalloc[i] != heap.Capacity() {
			panicerr("%v conservation broken on heap %v: %v free, %v live, %v capacity",
				malc.name, i, freeon[i], malc.heapalloc[i], heap.Capacity())
		}
	}
}
