package suballoc

import "unsafe"

import "github.com/cockroachdb/errors"

import "github.com/bnclabs/gpualloc/api"

// Resource pairs an allocation with the resource object placed at its
// offset and manages idempotent CPU mapping. Releasing the wrapper
// always returns the memory interval to the allocator, the attached
// resource object is released only when owned.
type Resource struct {
	mallocator *Allocator
	alloc      Allocation
	res        api.Resource
	owns       bool
	mapped     bool
	data       unsafe.Pointer
}

// NewResource create a resource placed at alloc's offset on alloc's
// heap and attach it owned. desc is passed through to the device
// untouched. On failure the allocation is left untouched and remains
// the caller's to free.
func (malc *Allocator) NewResource(
	alloc Allocation, desc interface{}) (*Resource, error) {

	if alloc.IsEmpty() {
		panicerr("%v placed resource on empty allocation", malc.name)
	}
	res, err := malc.device.CreatePlacedResource(alloc.Heap, alloc.Offset, desc)
	if err != nil {
		return nil, errors.Wrapf(err, "%v CreatePlacedResource at %v on heap %v",
			malc.name, alloc.Offset, alloc.Heapidx)
	}
	wrap := &Resource{mallocator: malc, alloc: alloc}
	wrap.Attach(res, true /*owns*/)
	return wrap, nil
}

// Wrap associate alloc with a wrapper carrying no resource yet, use
// Attach to bind an externally created resource object.
func (malc *Allocator) Wrap(alloc Allocation) *Resource {
	if alloc.IsEmpty() {
		panicerr("%v wrapping empty allocation", malc.name)
	}
	return &Resource{mallocator: malc, alloc: alloc}
}

// Attach bind a resource object to this wrapper, at most one resource
// per wrapper. owns decides whether Release also releases res.
func (r *Resource) Attach(res api.Resource, owns bool) {
	if r.res != nil {
		panicerr("resource already attached")
	}
	r.res, r.owns = res, owns
}

// Map acquire a CPU pointer for the attached resource. Idempotent, a
// mapped wrapper or a wrapper without a resource returns the current
// pointer straight away. On device failure the mapped state is left
// unchanged and the error wraps api.ErrorMapfailed.
func (r *Resource) Map() (unsafe.Pointer, error) {
	if r.mapped || r.res == nil {
		return r.data, nil
	}
	data, err := r.res.Map()
	if err != nil {
		return nil, errors.Wrapf(api.ErrorMapfailed, "%v", err)
	}
	r.data, r.mapped = data, true
	return r.data, nil
}

// Unmap release the CPU mapping, no-op unless currently mapped with a
// resource attached.
func (r *Resource) Unmap() {
	if r.mapped == false || r.res == nil {
		return
	}
	r.res.Unmap()
	r.data, r.mapped = nil, false
}

// Memory the mapped CPU pointer, nil when not mapped.
func (r *Resource) Memory() unsafe.Pointer {
	return r.data
}

// Handle the attached resource object, nil when none attached.
func (r *Resource) Handle() api.Resource {
	return r.res
}

// Allocation the placement backing this wrapper.
func (r *Resource) Allocation() Allocation {
	return r.alloc
}

// Release tear the wrapper down: unmap if still mapped, release the
// resource object if owned, and always free the memory interval. The
// wrapper is dead afterwards, further Release calls are no-ops.
func (r *Resource) Release() {
	if r.mallocator == nil {
		return
	}
	if r.res != nil {
		if r.mapped {
			r.Unmap()
		}
		if r.owns {
			r.res.Release()
		}
	}
	r.mallocator.Free(r.alloc)
	r.mallocator, r.res = nil, nil
}
