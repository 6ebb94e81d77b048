package api

import "github.com/cockroachdb/errors"

// ErrorOutofmemory device cannot supply another backing heap, or the
// configured capacity is exhausted. Never retried by the allocator.
var ErrorOutofmemory = errors.New("gpualloc.outofmemory")

// ErrorInvalidfree Free called with an empty allocation, or with an
// allocation that is not tracked as live.
var ErrorInvalidfree = errors.New("gpualloc.invalidfree")

// ErrorMapfailed device failed to supply a CPU pointer for a resource.
var ErrorMapfailed = errors.New("gpualloc.mapfailed")

// ErrorReleased operation attempted on an allocator that has already
// been released.
var ErrorReleased = errors.New("gpualloc.released")
