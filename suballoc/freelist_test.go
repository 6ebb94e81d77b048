package suballoc

import "testing"

import "github.com/bnclabs/gpualloc/api"

func TestFreelistInsert(t *testing.T) {
	heap := &testheap{capacity: 65536, class: api.HeapUpload}
	fl := newfreelist()
	if fl.count() != 0 {
		t.Errorf("expected %v, got %v", 0, fl.count())
	}

	// sole block
	fl.insert(256, 512, api.HeapUpload, 0, heap)
	if fl.count() != 1 {
		t.Errorf("expected %v, got %v", 1, fl.count())
	}
	// disjoint block before it
	fl.insert(128, 0, api.HeapUpload, 0, heap)
	if fl.count() != 2 {
		t.Errorf("expected %v, got %v", 2, fl.count())
	} else if fb := &fl.slots[fl.head]; fb.offset != 0 {
		t.Errorf("expected offset %v at head, got %v", 0, fb.offset)
	}
	// disjoint block after it
	fl.insert(256, 1024, api.HeapUpload, 0, heap)
	if fl.count() != 3 {
		t.Errorf("expected %v, got %v", 3, fl.count())
	}

	// backward merge, [512,768) grows by [768,832)
	fl.insert(64, 768, api.HeapUpload, 0, heap)
	if fl.count() != 3 {
		t.Errorf("expected %v, got %v", 3, fl.count())
	}
	// forward merge, [960,1024) absorbed into [1024,1280)
	fl.insert(64, 960, api.HeapUpload, 0, heap)
	if fl.count() != 3 {
		t.Errorf("expected %v, got %v", 3, fl.count())
	}
	// three way collapse, [832,960) bridges the last two blocks
	fl.insert(128, 832, api.HeapUpload, 0, heap)
	if fl.count() != 2 {
		t.Errorf("expected %v, got %v", 2, fl.count())
	}
	// [0,128) and [512,1280) remain
	first := &fl.slots[fl.head]
	second := &fl.slots[first.next]
	if first.offset != 0 || first.size != 128 {
		t.Errorf("unexpected first block [%v,%v)",
			first.offset, first.offset+first.size)
	} else if second.offset != 512 || second.size != 768 {
		t.Errorf("unexpected second block [%v,%v)",
			second.offset, second.offset+second.size)
	} else if second.next != -1 {
		t.Errorf("expected list to end, got %v", second.next)
	}
}

func TestFreelistHeapisolation(t *testing.T) {
	heap0 := &testheap{capacity: 65536, class: api.HeapUpload}
	heap1 := &testheap{capacity: 65536, class: api.HeapDefault}
	fl := newfreelist()

	// numerically contiguous, but on different heaps, never merged
	fl.insert(256, 0, api.HeapUpload, 0, heap0)
	fl.insert(256, 256, api.HeapDefault, 1, heap1)
	if fl.count() != 2 {
		t.Errorf("expected %v, got %v", 2, fl.count())
	}
	// list ordered by (heapidx, offset)
	fl.insert(128, 1024, api.HeapUpload, 0, heap0)
	first := &fl.slots[fl.head]
	second := &fl.slots[first.next]
	third := &fl.slots[second.next]
	if first.heapidx != 0 || first.offset != 0 {
		t.Errorf("unexpected first block %v/%v", first.heapidx, first.offset)
	} else if second.heapidx != 0 || second.offset != 1024 {
		t.Errorf("unexpected second block %v/%v", second.heapidx, second.offset)
	} else if third.heapidx != 1 || third.offset != 256 {
		t.Errorf("unexpected third block %v/%v", third.heapidx, third.offset)
	}
}

func TestFreelistSearch(t *testing.T) {
	heap0 := &testheap{capacity: 65536, class: api.HeapUpload}
	heap1 := &testheap{capacity: 65536, class: api.HeapDefault}
	fl := newfreelist()
	fl.insert(512, 0, api.HeapUpload, 0, heap0)
	fl.insert(512, 0, api.HeapDefault, 1, heap1)

	// class mismatch skips the first block even though it fits
	alloc, ok := fl.search(256, api.HeapDefault)
	if ok == false {
		t.Errorf("expected a hit")
	} else if alloc.Heapidx != 1 || alloc.Offset != 0 {
		t.Errorf("unexpected placement %v/%v", alloc.Heapidx, alloc.Offset)
	}
	// the hit block was split in place, not unlinked
	if fl.count() != 2 {
		t.Errorf("expected %v, got %v", 2, fl.count())
	} else if free := fl.freeon(1); free != 256 {
		t.Errorf("expected %v, got %v", 256, free)
	}

	// exact fit unlinks the block
	if alloc, ok = fl.search(512, api.HeapUpload); ok == false {
		t.Errorf("expected a hit")
	} else if alloc.Offset != 0 {
		t.Errorf("expected offset %v, got %v", 0, alloc.Offset)
	} else if fl.count() != 1 {
		t.Errorf("expected %v, got %v", 1, fl.count())
	}

	// no block large enough
	if _, ok = fl.search(1024, api.HeapDefault); ok {
		t.Errorf("expected a miss")
	}
	// no block of that class at all
	if _, ok = fl.search(16, api.HeapReadback); ok {
		t.Errorf("expected a miss")
	}
}

func TestFreelistSlotreuse(t *testing.T) {
	heap := &testheap{capacity: 65536, class: api.HeapUpload}
	fl := newfreelist()
	fl.insert(256, 0, api.HeapUpload, 0, heap)
	fl.insert(256, 1024, api.HeapUpload, 0, heap)
	fl.insert(256, 2048, api.HeapUpload, 0, heap)
	nslots := len(fl.slots)

	// bridge the first two blocks, one slot goes back to the recycler
	fl.insert(768, 256, api.HeapUpload, 0, heap)
	if fl.count() != 2 {
		t.Errorf("expected %v, got %v", 2, fl.count())
	} else if len(fl.freeslots) != 1 {
		t.Errorf("expected %v recycled slot, got %v", 1, len(fl.freeslots))
	}
	// a fresh insert reuses the recycled slot instead of growing
	fl.insert(16, 4096, api.HeapUpload, 0, heap)
	if len(fl.slots) != nslots {
		t.Errorf("expected %v slots, got %v", nslots, len(fl.slots))
	} else if len(fl.freeslots) != 0 {
		t.Errorf("expected no recycled slots, got %v", len(fl.freeslots))
	}
}
