package memory

type T struct {
	A    int8
	B, C int
	D    int32
}

func Struct(b int) bool {
	var t T
	t.A = 5
	t.B = b
	t.C = 7
	t.D = 8
	return int(t.A)+t.B == t.C
}

func Index(i uint8) byte {
	var a [4]byte
	a[1] = 7
	if i < 4 {
		a[i] = 9
	}
	return a[1]
}
