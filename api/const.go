package api

// Heapblocksize default capacity, in bytes, for a freshly created
// backing heap. Requests larger than the configured block size get a
// dedicated heap of four times the request.
const Heapblocksize = int64(64 * 65535)

// Maxcapacity fallback limit on total heap memory obtained from the
// device, used when free system memory cannot be detected.
const Maxcapacity = int64(32 * 1024 * 1024 * 1024)
