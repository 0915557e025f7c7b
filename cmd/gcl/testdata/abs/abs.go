package abs

import (
	"github.com/benbjohnson/gcl"
)

func Abs(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

func Never(x uint8) uint8 {
	gcl.Assert(x > 200)
	gcl.Assert(x < 100)
	return x
}

func Sum(n uint8) uint8 {
	var s uint8
	for i := uint8(0); i < n; i++ {
		s += i
	}
	return s
}
