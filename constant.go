package gcl

import (
	"fmt"
)

// ConstantExpr represents a fixed-width integer of up to 64 bits.
type ConstantExpr struct {
	Value uint64
	Width uint
}

// NewConstantExpr returns a new instance of ConstantExpr. The value is
// truncated to width bits.
func NewConstantExpr(value uint64, width uint) *ConstantExpr {
	assert(width > 0 && width <= Width64, "invalid constant width: %d", width)
	return &ConstantExpr{
		Value: value & bitmask(width),
		Width: width,
	}
}

// NewConstantExpr8 returns a 8-bit constant expression.
func NewConstantExpr8(value uint64) *ConstantExpr {
	return NewConstantExpr(value, Width8)
}

// NewConstantExpr16 returns a 16-bit constant expression.
func NewConstantExpr16(value uint64) *ConstantExpr {
	return NewConstantExpr(value, Width16)
}

// NewConstantExpr32 returns a 32-bit constant expression.
func NewConstantExpr32(value uint64) *ConstantExpr {
	return NewConstantExpr(value, Width32)
}

// NewConstantExpr64 returns a 64-bit constant expression.
func NewConstantExpr64(value uint64) *ConstantExpr {
	return NewConstantExpr(value, Width64)
}

// NewBoolConstantExpr is an ease of use function for creating constant boolean expressions.
func NewBoolConstantExpr(value bool) *ConstantExpr {
	if value {
		return &ConstantExpr{Value: 1, Width: WidthBool}
	}
	return &ConstantExpr{Value: 0, Width: WidthBool}
}

// String returns the string representation of the expression.
func (e *ConstantExpr) String() string {
	return fmt.Sprintf("(const %d %d)", e.Value, e.Width)
}

// IsTrue returns true if this is a boolean true expression.
func (e *ConstantExpr) IsTrue() bool {
	return e.Width == WidthBool && e.Value != 0
}

// IsFalse returns true if this is a boolean false expression.
func (e *ConstantExpr) IsFalse() bool {
	return e.Width == WidthBool && e.Value == 0
}

// IsAllOnes returns true if all bits in the value are one.
func (e *ConstantExpr) IsAllOnes() bool {
	return e.Value == bitmask(e.Width)
}

// Int returns the value interpreted as a two's complement signed integer.
func (e *ConstantExpr) Int() int64 {
	return signExtend(e.Value, e.Width)
}

// isNegative returns true if the sign bit is set.
func (e *ConstantExpr) isNegative() bool {
	return e.Value>>(e.Width-1)&1 == 1
}

// Neg returns the two's complement negation of e.
func (e *ConstantExpr) Neg() *ConstantExpr {
	return NewConstantExpr(-e.Value, e.Width)
}

// Add returns the sum of e and other.
func (e *ConstantExpr) Add(other *ConstantExpr) *ConstantExpr {
	e.mustMatch("add", other)
	return NewConstantExpr(e.Value+other.Value, e.Width)
}

// Sub returns the difference of e and other.
func (e *ConstantExpr) Sub(other *ConstantExpr) *ConstantExpr {
	e.mustMatch("sub", other)
	return NewConstantExpr(e.Value-other.Value, e.Width)
}

// Mul returns the product of e and other.
func (e *ConstantExpr) Mul(other *ConstantExpr) *ConstantExpr {
	e.mustMatch("mul", other)
	return NewConstantExpr(e.Value*other.Value, e.Width)
}

// UDiv returns the quotient of unsigned division of e and other.
// Division by zero returns all ones.
func (e *ConstantExpr) UDiv(other *ConstantExpr) *ConstantExpr {
	e.mustMatch("udiv", other)
	if other.Value == 0 {
		return NewConstantExpr(bitmask(e.Width), e.Width)
	}
	return NewConstantExpr(e.Value/other.Value, e.Width)
}

// URem returns the remainder of unsigned division of e and other.
// The remainder of division by zero is e.
func (e *ConstantExpr) URem(other *ConstantExpr) *ConstantExpr {
	e.mustMatch("urem", other)
	if other.Value == 0 {
		return e
	}
	return NewConstantExpr(e.Value%other.Value, e.Width)
}

// SDiv returns the quotient of signed division of e and other. It is derived
// from unsigned division on magnitudes so division by zero and overflow wrap
// the same way a bit-vector solver does.
func (e *ConstantExpr) SDiv(other *ConstantExpr) *ConstantExpr {
	e.mustMatch("sdiv", other)
	x, y := e, other
	if x.isNegative() {
		x = x.Neg()
	}
	if y.isNegative() {
		y = y.Neg()
	}
	q := x.UDiv(y)
	if e.isNegative() != other.isNegative() {
		return q.Neg()
	}
	return q
}

// SRem returns the remainder of signed division of e and other. The result
// takes the sign of e.
func (e *ConstantExpr) SRem(other *ConstantExpr) *ConstantExpr {
	e.mustMatch("srem", other)
	x, y := e, other
	if x.isNegative() {
		x = x.Neg()
	}
	if y.isNegative() {
		y = y.Neg()
	}
	r := x.URem(y)
	if e.isNegative() {
		return r.Neg()
	}
	return r
}

// And returns the bitwise AND of e and other.
func (e *ConstantExpr) And(other *ConstantExpr) *ConstantExpr {
	e.mustMatch("and", other)
	return NewConstantExpr(e.Value&other.Value, e.Width)
}

// Or returns the bitwise OR of e and other.
func (e *ConstantExpr) Or(other *ConstantExpr) *ConstantExpr {
	e.mustMatch("or", other)
	return NewConstantExpr(e.Value|other.Value, e.Width)
}

// Xor returns the bitwise XOR of e and other.
func (e *ConstantExpr) Xor(other *ConstantExpr) *ConstantExpr {
	e.mustMatch("xor", other)
	return NewConstantExpr(e.Value^other.Value, e.Width)
}

// Shl returns the value of e shifted left by other number of bits.
func (e *ConstantExpr) Shl(other *ConstantExpr) *ConstantExpr {
	if other.Value >= uint64(e.Width) {
		return NewConstantExpr(0, e.Width)
	}
	return NewConstantExpr(e.Value<<other.Value, e.Width)
}

// LShr returns the value of e logically shifted right by other number of bits.
func (e *ConstantExpr) LShr(other *ConstantExpr) *ConstantExpr {
	if other.Value >= uint64(e.Width) {
		return NewConstantExpr(0, e.Width)
	}
	return NewConstantExpr(e.Value>>other.Value, e.Width)
}

// AShr returns the value of e arithmetically shifted right by other number of bits.
func (e *ConstantExpr) AShr(other *ConstantExpr) *ConstantExpr {
	n := other.Value
	if n >= uint64(e.Width) {
		n = uint64(e.Width) - 1
	}
	return NewConstantExpr(uint64(e.Int()>>n), e.Width)
}

// Eq returns the equality of e and other.
func (e *ConstantExpr) Eq(other *ConstantExpr) *ConstantExpr {
	e.mustMatch("eq", other)
	return NewBoolConstantExpr(e.Value == other.Value)
}

// Ult returns the unsigned less than comparison of e to other.
func (e *ConstantExpr) Ult(other *ConstantExpr) *ConstantExpr {
	e.mustMatch("ult", other)
	return NewBoolConstantExpr(e.Value < other.Value)
}

// Ule returns the unsigned less than or equal to comparison of e to other.
func (e *ConstantExpr) Ule(other *ConstantExpr) *ConstantExpr {
	e.mustMatch("ule", other)
	return NewBoolConstantExpr(e.Value <= other.Value)
}

// Slt returns the signed less than comparison of e to other.
func (e *ConstantExpr) Slt(other *ConstantExpr) *ConstantExpr {
	e.mustMatch("slt", other)
	return NewBoolConstantExpr(e.Int() < other.Int())
}

// Sle returns the signed less than or equal to comparison of e to other.
func (e *ConstantExpr) Sle(other *ConstantExpr) *ConstantExpr {
	e.mustMatch("sle", other)
	return NewBoolConstantExpr(e.Int() <= other.Int())
}

// ZExt returns the zero-extension of e to a wider width.
func (e *ConstantExpr) ZExt(width uint) *ConstantExpr {
	assert(width >= e.Width, "zext: narrowing from %d to %d", e.Width, width)
	if e.Width == width {
		return e
	}
	return NewConstantExpr(e.Value, width)
}

// SExt returns the sign-extension of e to a wider width.
func (e *ConstantExpr) SExt(width uint) *ConstantExpr {
	assert(width >= e.Width, "sext: narrowing from %d to %d", e.Width, width)
	if e.Width == width {
		return e
	}
	return NewConstantExpr(uint64(e.Int()), width)
}

// Not returns the bitwise NOT of the expression.
func (e *ConstantExpr) Not() *ConstantExpr {
	return NewConstantExpr(^e.Value, e.Width)
}

// Extract returns width number of bits starting at offset.
func (e *ConstantExpr) Extract(offset, width uint) *ConstantExpr {
	assert(offset+width <= e.Width, "extract out of bounds: %d+%d > %d", offset, width, e.Width)
	return NewConstantExpr(e.Value>>offset, width)
}

// Concat returns the concatenation of e and lsb.
func (e *ConstantExpr) Concat(lsb *ConstantExpr) *ConstantExpr {
	return NewConstantExpr((e.Value<<lsb.Width)|lsb.Value, e.Width+lsb.Width)
}

// mustMatch panics if the operand widths differ.
func (e *ConstantExpr) mustMatch(op string, other *ConstantExpr) {
	assert(e.Width == other.Width, "%s: width mismatch: %d != %d", op, e.Width, other.Width)
}

func bitmask(width uint) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (1 << width) - 1
}

// signExtend interprets the low width bits of v as a signed integer.
func signExtend(v uint64, width uint) int64 {
	shift := 64 - width
	return int64(v<<shift) >> shift
}

// minBytes returns smallest number of bytes in which the w fits.
func minBytes(bits uint) uint {
	return (bits + 7) / 8
}
