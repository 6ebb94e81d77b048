package suballoc

import gohumanize "github.com/dustin/go-humanize"

// tracker records live allocations when the "tracking" setting is
// enabled. Free consults it to detect double-free and foreign handles,
// Release dumps whatever is still live as leaked memory. Unlike a build
// flag, the tracker can be switched per allocator instance at runtime.
type tracker struct {
	name string
	live map[allockey]Allocation
}

func newtracker(name string) *tracker {
	return &tracker{name: name, live: make(map[allockey]Allocation)}
}

func (t *tracker) insert(alloc Allocation) {
	t.live[alloc.key()] = alloc
}

// remove report false when alloc is not tracked as live.
func (t *tracker) remove(alloc Allocation) bool {
	key := alloc.key()
	if _, ok := t.live[key]; ok == false {
		return false
	}
	delete(t.live, key)
	return true
}

func (t *tracker) count() int64 {
	return int64(len(t.live))
}

// dump log every allocation still live and return the leaked count.
func (t *tracker) dump() int64 {
	for _, alloc := range t.live {
		errorf("%v leaked %v at offset %v on heap %v/%v\n",
			t.name, gohumanize.Bytes(uint64(alloc.Size)), alloc.Offset,
			alloc.Class, alloc.Heapidx)
	}
	return int64(len(t.live))
}
