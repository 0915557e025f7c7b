package unsupported

func Sum(n uint8) uint8 {
	var s uint8
	for i := uint8(0); i < n; i++ {
		s += i
	}
	return s
}

func Half(x float64) float64 {
	return x / 2
}

func Call(x uint8) bool {
	return Sum(x) == 0
}
