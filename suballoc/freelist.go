package suballoc

import "github.com/bnclabs/gpualloc/api"

// freeblock describes one free interval of a backing heap. Blocks live
// as slots inside freelist's slab, linked to the next block by slot
// index. Slots are recycled through freelist.freeslots, list nodes are
// never individually heap allocated.
type freeblock struct {
	size    int64
	offset  int64
	class   api.HeapClass
	heapidx int
	heap    api.Heap
	next    int // slot index of next block, -1 terminates the list
	inuse   bool
}

// before ordering over (heapidx, offset).
func (fb *freeblock) before(heapidx int, offset int64) bool {
	if fb.heapidx != heapidx {
		return fb.heapidx < heapidx
	}
	return fb.offset < offset
}

// freelist singly linked list of free intervals across all backing
// heaps and heap classes, ordered by (heapidx, offset). Two invariants
// hold between calls: the list is sorted, and no two entries on the
// same heap are mutually contiguous.
type freelist struct {
	slots     []freeblock
	head      int // slot index of first block, -1 when list is empty
	freeslots []int
}

func newfreelist() freelist {
	return freelist{head: -1}
}

func (fl *freelist) newslot(
	size, offset int64, class api.HeapClass,
	heapidx int, heap api.Heap, next int) int {

	idx := -1
	if n := len(fl.freeslots); n > 0 {
		idx = fl.freeslots[n-1]
		fl.freeslots = fl.freeslots[:n-1]
	} else {
		fl.slots = append(fl.slots, freeblock{})
		idx = len(fl.slots) - 1
	}
	fl.slots[idx] = freeblock{
		size: size, offset: offset, class: class,
		heapidx: heapidx, heap: heap, next: next, inuse: true,
	}
	return idx
}

func (fl *freelist) relslot(idx int) {
	fl.slots[idx].inuse, fl.slots[idx].heap = false, nil
	fl.freeslots = append(fl.freeslots, idx)
}

// search find the first block whose class matches and whose size covers
// n bytes. An exact fit unlinks the block, a larger fit consumes the
// block's prefix in place, the block keeps its slot. Returns the
// placement described by the consumed bytes.
func (fl *freelist) search(n int64, class api.HeapClass) (Allocation, bool) {
	prev, idx := -1, fl.head
	for idx != -1 {
		fb := &fl.slots[idx]
		if fb.class == class && fb.size >= n {
			alloc := Allocation{
				Size: n, Offset: fb.offset, Class: class,
				Heapidx: fb.heapidx, Heap: fb.heap,
			}
			if fb.size == n { // exact fit, unlink the block
				if prev == -1 {
					fl.head = fb.next
				} else {
					fl.slots[prev].next = fb.next
				}
				fl.relslot(idx)
			} else {
				fb.size -= n
				fb.offset += n
			}
			return alloc, true
		}
		prev, idx = idx, fb.next
	}
	return Allocation{}, false
}

// insert return a free interval to the list in sorted position, merging
// with contiguous neighbours on the same heap. Backward and forward
// merges apply independently, a freed interval flanked on both sides
// collapses three blocks into one.
func (fl *freelist) insert(
	size, offset int64, class api.HeapClass, heapidx int, heap api.Heap) {

	if fl.head == -1 {
		fl.head = fl.newslot(size, offset, class, heapidx, heap, -1)
		return
	}

	prev, curr := -1, fl.head
	for curr != -1 && fl.slots[curr].before(heapidx, offset) {
		prev, curr = curr, fl.slots[curr].next
	}

	working := -1
	if prev != -1 && fl.slots[prev].heapidx == heapidx &&
		fl.slots[prev].offset+fl.slots[prev].size == offset {
		fl.slots[prev].size += size // merge into the previous block
		working = prev
	} else {
		working = fl.newslot(size, offset, class, heapidx, heap, curr)
		if prev == -1 {
			fl.head = working
		} else {
			fl.slots[prev].next = working
		}
	}
	if curr != -1 && fl.slots[curr].heapidx == heapidx &&
		fl.slots[working].offset+fl.slots[working].size == fl.slots[curr].offset {
		fl.slots[working].size += fl.slots[curr].size // absorb the next block
		fl.slots[working].next = fl.slots[curr].next
		fl.relslot(curr)
	}
}

// count number of blocks in the list.
func (fl *freelist) count() int64 {
	n := int64(0)
	for idx := fl.head; idx != -1; idx = fl.slots[idx].next {
		n++
	}
	return n
}

// freeon sum of free bytes belonging to one heap.
func (fl *freelist) freeon(heapidx int) int64 {
	free := int64(0)
	for idx := fl.head; idx != -1; idx = fl.slots[idx].next {
		if fl.slots[idx].heapidx == heapidx {
			free += fl.slots[idx].size
		}
	}
	return free
}
