package gcl

import (
	"fmt"
	"strings"
)

// Array represents a memory object: a fixed-size byte array with a chain of
// byte stores on top of a base. The base is the initial contents of the
// memory variable Root, or all zero bytes when Root is nil.
//
// Arrays are persistent. Store returns a new array and never modifies the
// receiver.
type Array struct {
	Root    *Var         // memory variable, nil for a zeroed base
	Size    uint         // width, in bytes
	Updates *ArrayUpdate // linked list of updates, newest first
}

// NewArray returns a new Array of the given size rooted at a memory variable.
func NewArray(root *Var, size uint) *Array {
	return &Array{
		Root: root,
		Size: size,
	}
}

// NewZeroArray returns a new zero-initialized Array of the given size.
func NewZeroArray(size uint) *Array {
	return &Array{Size: size}
}

// String returns a string representation of the array.
func (a *Array) String() string {
	var s string
	if a.Root != nil {
		s = fmt.Sprintf("(array %s %d)", a.Root, a.Size)
	} else {
		s = fmt.Sprintf("(array %d)", a.Size)
	}

	updates := a.updates()
	var buf strings.Builder
	for range updates {
		buf.WriteString("(store ")
	}
	buf.WriteString(s)
	for i := len(updates) - 1; i >= 0; i-- {
		fmt.Fprintf(&buf, " %s %s)", updates[i].Index, updates[i].Value)
	}
	return buf.String()
}

// Clone returns a copy of the array.
func (a *Array) Clone() *Array {
	return &Array{
		Root:    a.Root,
		Size:    a.Size,
		Updates: a.Updates,
	}
}

// Base returns the array without any updates.
func (a *Array) Base() *Array {
	return &Array{Root: a.Root, Size: a.Size}
}

// updates returns the update chain as a slice, newest first.
func (a *Array) updates() []*ArrayUpdate {
	var updates []*ArrayUpdate
	for upd := a.Updates; upd != nil; upd = upd.Next {
		updates = append(updates, upd)
	}
	return updates
}

// Rebase returns a copy of a with its updates replayed, oldest first, on top
// of base instead of a's own base.
func (a *Array) Rebase(base *Array) *Array {
	assert(a.Size == base.Size, "rebase: size mismatch: %d != %d", a.Size, base.Size)

	other := base.Clone()
	updates := a.updates()
	for i := len(updates) - 1; i >= 0; i-- {
		other.storeByte(updates[i].Index, updates[i].Value)
	}
	return other
}

// Select reads a value from the array.
func (a *Array) Select(offset Expr, width uint, isLittleEndian bool) Expr {
	assert(width > 0, "select: invalid width")

	offset = NewCastExpr(offset, Width64, false)

	if width == WidthBool {
		return NewExtractExpr(a.selectByte(offset), 0, WidthBool)
	}

	// Handle read byte-by-byte.
	var result Expr
	for i, n := uint64(0), uint64(width)/8; i != n; i++ {
		byteOffset := i
		if !isLittleEndian {
			byteOffset = (n - i - 1)
		}

		value := a.selectByte(NewBinaryExpr(ADD, offset, NewConstantExpr64(byteOffset)))
		if i == 0 {
			result = value
		} else {
			result = NewConcatExpr(value, result)
		}
	}
	return result
}

// selectByte reads a single byte from the array.
//
// Walks the update chain looking for a store to the same index. A symbolic
// index on either side stops the walk and yields a select expression.
func (a *Array) selectByte(index Expr) Expr {
	assert(ExprWidth(index) == Width64, "selectByte: invalid array index width: %d", ExprWidth(index))
	for upd := a.Updates; upd != nil; upd = upd.Next {
		cond, ok := NewBinaryExpr(EQ, index, upd.Index).(*ConstantExpr)
		if !ok {
			return NewSelectExpr(&Array{Root: a.Root, Size: a.Size, Updates: upd}, index)
		} else if cond.IsTrue() {
			return upd.Value
		}
	}

	// No store matched so the byte comes from the base.
	if a.Root == nil && IsConstantExpr(index) {
		return NewConstantExpr8(0)
	}
	return NewSelectExpr(a.Base(), index)
}

// Store writes a value at an offset. Returns a new copy of the array.
func (a *Array) Store(offset, value Expr, isLittleEndian bool) *Array {
	other := a.Clone()

	offset = NewCastExpr(offset, Width64, false)

	// Treat bool specially, it is the only non-byte sized write we allow.
	width := ExprWidth(value)
	assert(width > 0, "store: invalid width")
	if width == WidthBool {
		other.storeByte(offset, value)
		return other
	}

	for i, n := uint64(0), uint64(width)/8; i != n; i++ {
		byteOffset := i
		if !isLittleEndian {
			byteOffset = (n - i - 1)
		}
		other.storeByte(NewBinaryExpr(ADD, offset, NewConstantExpr64(byteOffset)), NewExtractExpr(value, uint(i*8), Width8))
	}
	return other
}

// storeByte writes a single byte to the array in-place.
func (a *Array) storeByte(index, value Expr) {
	index = NewCastExpr(index, Width64, false)
	if index, ok := index.(*ConstantExpr); ok {
		assert(index.Value < uint64(a.Size), "storeByte: index out of bounds: %d >= %d", index.Value, a.Size)
	}

	// Stores to a constant index shadow earlier stores to the same index up
	// to the first symbolic index. Those are dropped from the new chain.
	next := a.Updates
	if k, ok := index.(*ConstantExpr); ok {
		next = dropUpdates(a.Updates, k.Value)
	}
	a.Updates = NewArrayUpdate(index, value, next)
}

// dropUpdates returns a copy of the chain without constant stores to index
// that precede the first symbolic store.
func dropUpdates(upd *ArrayUpdate, index uint64) *ArrayUpdate {
	if upd == nil {
		return nil
	}
	k, ok := upd.Index.(*ConstantExpr)
	if !ok {
		return upd
	} else if k.Value == index {
		return dropUpdates(upd.Next, index)
	}
	next := dropUpdates(upd.Next, index)
	if next == upd.Next {
		return upd
	}
	return &ArrayUpdate{Index: upd.Index, Value: upd.Value, Next: next}
}

// IsSymbolic returns true if any bytes in the array are symbolic.
func (a *Array) IsSymbolic() bool {
	if a.Root == nil && a.Updates == nil {
		return false
	}

	// Track which bytes have been overwritten, newest store first.
	seen := make([]bool, a.Size)
	for upd := a.Updates; upd != nil; upd = upd.Next {
		index, ok := upd.Index.(*ConstantExpr)
		if !ok {
			return true
		} else if seen[index.Value] {
			continue
		} else if !IsConstantExpr(upd.Value) {
			return true
		}
		seen[index.Value] = true
	}

	if a.Root == nil {
		return false
	}
	for _, ok := range seen {
		if !ok {
			return true
		}
	}
	return false
}

// Bytes returns the contents of a concrete array.
// Returns false if any byte is symbolic.
func (a *Array) Bytes() ([]byte, bool) {
	if a.IsSymbolic() {
		return nil, false
	}
	buf := make([]byte, a.Size)
	for i := range buf {
		b, ok := a.selectByte(NewConstantExpr64(uint64(i))).(*ConstantExpr)
		if !ok {
			return nil, false
		}
		buf[i] = byte(b.Value)
	}
	return buf, true
}

// Equal returns a boolean expression stating if a is equal to other.
func (a *Array) Equal(other *Array) Expr {
	if a.Size != other.Size {
		return NewBoolConstantExpr(false)
	}

	// Check equality for every byte.
	// Exit early if any concrete byte is unequal.
	var cond Expr = NewBoolConstantExpr(true)
	for i := uint(0); i < a.Size; i++ {
		index := NewConstantExpr64(uint64(i))
		x, y := a.selectByte(index), other.selectByte(index)

		expr := newEqExpr(x, y)
		if IsConstantFalse(expr) {
			return expr
		}
		cond = newAndExpr(cond, expr)
	}
	return cond
}

// CompareArray returns an integer comparing two arrays.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
func CompareArray(a, b *Array) int {
	if a == nil && b != nil {
		return -1
	} else if a != nil && b == nil {
		return 1
	} else if a == nil && b == nil {
		return 0
	}

	if cmp := CompareVar(a.Root, b.Root); cmp != 0 {
		return cmp
	} else if cmp := compareUint(uint64(a.Size), uint64(b.Size)); cmp != 0 {
		return cmp
	}
	return CompareArrayUpdate(a.Updates, b.Updates)
}

// ArrayUpdate represents a byte store to an array.
type ArrayUpdate struct {
	Index Expr // byte index of update
	Value Expr // byte value to update

	Next *ArrayUpdate // linked list of next update
}

// NewArrayUpdate returns a new instance of ArrayUpdate.
func NewArrayUpdate(index, value Expr, next *ArrayUpdate) *ArrayUpdate {
	return &ArrayUpdate{
		Index: NewCastExpr(index, Width64, false),
		Value: NewCastExpr(value, Width8, false),
		Next:  next,
	}
}

// CompareArrayUpdate returns an integer comparing two array updates.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
func CompareArrayUpdate(a, b *ArrayUpdate) int {
	if a == nil && b != nil {
		return -1
	} else if a != nil && b == nil {
		return 1
	} else if a == nil && b == nil {
		return 0
	}

	if cmp := CompareExpr(a.Index, b.Index); cmp != 0 {
		return cmp
	} else if cmp := CompareExpr(a.Value, b.Value); cmp != 0 {
		return cmp
	}
	return CompareArrayUpdate(a.Next, b.Next)
}
