package suballoc

import "strconv"

import gohumanize "github.com/dustin/go-humanize"
import "github.com/launchdarkly/go-jsonstream/v3/jwriter"

import "github.com/bnclabs/gpualloc/api"

// Stats return accounting for this allocator as a flat map.
func (malc *Allocator) Stats() map[string]interface{} {
	stats := map[string]interface{}{
		"n_allocs":   malc.n_allocs,
		"n_frees":    malc.n_frees,
		"n_grows":    malc.n_grows,
		"heapmemory": malc.heapmemory,
		"allocated":  malc.Allocated(),
		"available":  malc.Available(),
		"freeblocks": malc.flist.count(),
		"heapcount":  int64(len(malc.heaps)),
	}
	if malc.tracker != nil {
		stats["tracked"] = malc.tracker.count()
	}
	return stats
}

// Utilization per heap class, ratio of live bytes to heap memory
// obtained from the device for that class. Classes without heaps are
// skipped.
func (malc *Allocator) Utilization() ([]api.HeapClass, []float64) {
	capacities := make(map[api.HeapClass]int64)
	allocated := make(map[api.HeapClass]int64)
	for i, heap := range malc.heaps {
		capacities[heap.Class()] += heap.Capacity()
		allocated[heap.Class()] += malc.heapalloc[i]
	}
	classes, utilz := []api.HeapClass{}, []float64{}
	for _, class := range api.Heapclasses {
		if capacity := capacities[class]; capacity > 0 {
			classes = append(classes, class)
			utilz = append(utilz, (float64(allocated[class])/float64(capacity))*100)
		}
	}
	return classes, utilz
}

// Logstats log accounting at info level, humanize byte counts when
// asked to.
func (malc *Allocator) Logstats(humanize bool) {
	stats := malc.Stats()
	dohumanize := func(val interface{}) interface{} {
		if humanize {
			return gohumanize.Bytes(uint64(val.(int64)))
		}
		return val.(int64)
	}
	heapmem := dohumanize(stats["heapmemory"])
	alloc := dohumanize(stats["allocated"])
	avail := dohumanize(stats["available"])
	fmsg := "%v heapmemory %v in %v heaps, allocated %v avail %v, " +
		"%v freeblocks, %v allocs %v frees\n"
	infof(fmsg, malc.name, heapmem, stats["heapcount"], alloc, avail,
		stats["freeblocks"], stats["n_allocs"], stats["n_frees"])

	classes, utilz := malc.Utilization()
	for i, class := range classes {
		infof("%v   %v utilization: %2.2f%%\n", malc.name, class, utilz[i])
	}
}

// Statsjson detailed dump of heaps and free intervals as a JSON
// document, diagnostic aid with no side effects. Byte counts and
// offsets are emitted as decimal strings, they stay exact where a
// platform int would truncate.
func (malc *Allocator) Statsjson() []byte {
	w := jwriter.NewWriter()
	obj := w.Object()
	obj.Name("name").String(malc.name)
	obj.Name("heapcount").Int(len(malc.heaps))
	obj.Name("heapmemory").String(strconv.FormatInt(malc.heapmemory, 10))

	heaps := obj.Name("heaps").Array()
	for i, heap := range malc.heaps {
		hobj := heaps.Object()
		hobj.Name("heapidx").Int(i)
		hobj.Name("class").String(heap.Class().String())
		hobj.Name("capacity").String(strconv.FormatInt(heap.Capacity(), 10))
		hobj.Name("allocated").String(strconv.FormatInt(malc.heapalloc[i], 10))
		hobj.End()
	}
	heaps.End()

	blocks := obj.Name("freeblocks").Array()
	for idx := malc.flist.head; idx != -1; idx = malc.flist.slots[idx].next {
		fb := &malc.flist.slots[idx]
		bobj := blocks.Object()
		bobj.Name("heapidx").Int(fb.heapidx)
		bobj.Name("class").String(fb.class.String())
		bobj.Name("offset").String(strconv.FormatInt(fb.offset, 10))
		bobj.Name("size").String(strconv.FormatInt(fb.size, 10))
		bobj.End()
	}
	blocks.End()
	obj.End()
	return w.Bytes()
}
