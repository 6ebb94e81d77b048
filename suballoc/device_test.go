package suballoc

import "fmt"
import "unsafe"

import s "github.com/prataprc/gosettings"

import "github.com/bnclabs/gpualloc/api"

// testdevice hands out fake heaps and resources, with switches to fail
// heap creation, resource creation or mapping.
type testdevice struct {
	heaps        []*testheap
	failheap     bool
	failresource bool
	failmap      bool
}

type testheap struct {
	capacity int64
	class    api.HeapClass
	released bool
}

type testresource struct {
	device   *testdevice
	heap     api.Heap
	offset   int64
	data     []byte
	nmaps    int
	nunmaps  int
	released bool
}

func newtestdevice() *testdevice {
	return &testdevice{}
}

func (tdev *testdevice) CreateHeap(
	capacity int64, class api.HeapClass) (api.Heap, error) {

	if tdev.failheap {
		return nil, fmt.Errorf("testdevice: no device memory")
	}
	heap := &testheap{capacity: capacity, class: class}
	tdev.heaps = append(tdev.heaps, heap)
	return heap, nil
}

func (tdev *testdevice) CreatePlacedResource(
	heap api.Heap, offset int64, desc interface{}) (api.Resource, error) {

	if tdev.failresource {
		return nil, fmt.Errorf("testdevice: resource creation failed")
	}
	res := &testresource{
		device: tdev, heap: heap, offset: offset, data: make([]byte, 8),
	}
	return res, nil
}

func (th *testheap) Capacity() int64 {
	return th.capacity
}

func (th *testheap) Class() api.HeapClass {
	return th.class
}

func (th *testheap) Release() {
	th.released = true
}

func (tr *testresource) Map() (unsafe.Pointer, error) {
	if tr.device.failmap {
		return nil, fmt.Errorf("testdevice: map failed")
	}
	tr.nmaps++
	return unsafe.Pointer(&tr.data[0]), nil
}

func (tr *testresource) Unmap() {
	tr.nunmaps++
}

func (tr *testresource) Release() {
	tr.released = true
}

func testsettings() s.Settings {
	setts := Defaultsettings()
	setts["capacity"] = int64(64 * 1024 * 1024)
	return setts
}
