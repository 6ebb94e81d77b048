package suballoc

import "fmt"

// alignup round size up to the power-of-two align. align 0 leaves size
// untouched.
func alignup(size, align int64) int64 {
	if align == 0 {
		return size
	} else if align&(align-1) != 0 {
		panicerr("alignment %v is not a power of 2", align)
	}
	return (size + align - 1) &^ (align - 1)
}

func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}
