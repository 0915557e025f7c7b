package branch

import (
	"github.com/benbjohnson/gcl"
)

// Abs overflows for the minimum value.
func Abs(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

func Max(x, y uint8) uint8 {
	z := x
	if y > x {
		z = y
	}
	return z
}

func Sign(x int16) int8 {
	var s int8
	if x > 0 {
		s = 1
	} else if x < 0 {
		s = -1
	}
	return s
}

func Both(a, b bool) bool {
	if a && b {
		return true
	}
	return false
}

func Check(x uint8) uint8 {
	gcl.Assert(x != 3)
	return x + 1
}

func Div(x, y int32) int32 {
	return x / y
}

func Must(x uint8) uint8 {
	if x == 0 {
		panic("zero")
	}
	return x
}

func Shl(x uint8, n uint16) uint8 {
	return x << n
}

func Clear(x, y uint8) uint8 {
	return x &^ y
}
