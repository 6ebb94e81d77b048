package suballoc

import s "github.com/prataprc/gosettings"
import "github.com/cloudfoundry/gosigar"

import "github.com/bnclabs/gpualloc/api"

// Suballocator configurable parameters and default settings.
//
// "blocksize" (int64, default: api.Heapblocksize)
//		Capacity of a freshly created backing heap. A request larger
//		than blocksize gets a dedicated heap of four times the
//		request.
//
// "capacity" (int64, default: half of free system RAM)
//		Maximum total bytes obtained from the device across all
//		heaps. Applications sub-dividing GPU local memory should set
//		this to the budget reported by the device.
//
// "tracking" (bool, default: true)
//		Track live allocations, to detect double-free on Free and to
//		report leaks at Release.
//
// "freepolicy" (string, default: "fatal")
//		Response to an invalid Free, "fatal" to panic, "ignore" to
//		silently drop the call.
func Defaultsettings() s.Settings {
	_, _, free := getsysmem()
	capacity := int64(free / 2)
	if capacity < api.Heapblocksize*16 {
		capacity = api.Maxcapacity
	}
	return s.Settings{
		"blocksize":  api.Heapblocksize,
		"capacity":   capacity,
		"tracking":   true,
		"freepolicy": "fatal",
	}
}

func getsysmem() (total, used, free uint64) {
	mem := sigar.Mem{}
	mem.Get()
	return mem.Total, mem.Used, mem.Free
}
