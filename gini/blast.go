package gini

import (
	"fmt"

	"github.com/benbjohnson/gcl"
	"github.com/go-air/gini/z"
)

// blast returns the circuit bits for expr.
func (s *Solver) blast(expr gcl.Expr) (bits, error) {
	if b, ok := s.nodes[expr]; ok {
		return b, nil
	}

	b, err := s.blastExpr(expr)
	if err != nil {
		return nil, err
	}
	s.nodes[expr] = b
	return b, nil
}

func (s *Solver) blastExpr(expr gcl.Expr) (bits, error) {
	switch expr := expr.(type) {
	case *gcl.ConstantExpr:
		return s.constant(expr.Value, expr.Width), nil

	case *gcl.VarExpr:
		return s.varBits(expr.Var), nil

	case *gcl.NotExpr:
		src, err := s.blast(expr.Expr)
		if err != nil {
			return nil, err
		}
		return not(src), nil

	case *gcl.CastExpr:
		return s.blastCast(expr)

	case *gcl.ExtractExpr:
		src, err := s.blast(expr.Expr)
		if err != nil {
			return nil, err
		}
		return append(bits(nil), src[expr.Offset:expr.Offset+expr.Width]...), nil

	case *gcl.ConcatExpr:
		msb, err := s.blast(expr.MSB)
		if err != nil {
			return nil, err
		}
		lsb, err := s.blast(expr.LSB)
		if err != nil {
			return nil, err
		}
		out := make(bits, 0, len(msb)+len(lsb))
		return append(append(out, lsb...), msb...), nil

	case *gcl.SelectExpr:
		return s.blastSelect(expr)

	case *gcl.BinaryExpr:
		return s.blastBinary(expr)

	default:
		return nil, fmt.Errorf("%w: gini: expression %T", gcl.ErrUnsupported, expr)
	}
}

func (s *Solver) blastCast(expr *gcl.CastExpr) (bits, error) {
	src, err := s.blast(expr.Src)
	if err != nil {
		return nil, err
	}

	fill := s.c.F
	if expr.Signed {
		fill = src[len(src)-1]
	}
	out := make(bits, expr.Width)
	for i := range out {
		if i < len(src) {
			out[i] = src[i]
		} else {
			out[i] = fill
		}
	}
	return out, nil
}

func (s *Solver) blastBinary(expr *gcl.BinaryExpr) (bits, error) {
	x, err := s.blast(expr.LHS)
	if err != nil {
		return nil, err
	}
	y, err := s.blast(expr.RHS)
	if err != nil {
		return nil, err
	}

	switch expr.Op {
	case gcl.ADD:
		return s.add(x, y, s.c.F), nil
	case gcl.SUB:
		return s.sub(x, y), nil
	case gcl.MUL:
		return s.mul(x, y), nil
	case gcl.UDIV:
		q, _ := s.udivrem(x, y)
		return q, nil
	case gcl.UREM:
		_, r := s.udivrem(x, y)
		return r, nil
	case gcl.SDIV:
		q, _ := s.sdivrem(x, y)
		return q, nil
	case gcl.SREM:
		_, r := s.sdivrem(x, y)
		return r, nil
	case gcl.AND:
		return s.bitwise(x, y, s.c.And), nil
	case gcl.OR:
		return s.bitwise(x, y, s.c.Or), nil
	case gcl.XOR:
		return s.bitwise(x, y, s.c.Xor), nil
	case gcl.SHL, gcl.LSHR, gcl.ASHR:
		return s.shift(expr.Op, x, y), nil
	case gcl.EQ:
		return bits{s.eq(x, y)}, nil
	case gcl.NE:
		return bits{s.eq(x, y).Not()}, nil
	case gcl.ULT:
		return bits{s.ult(x, y)}, nil
	case gcl.ULE:
		return bits{s.ult(y, x).Not()}, nil
	case gcl.UGT:
		return bits{s.ult(y, x)}, nil
	case gcl.UGE:
		return bits{s.ult(x, y).Not()}, nil
	case gcl.SLT:
		return bits{s.slt(x, y)}, nil
	case gcl.SLE:
		return bits{s.slt(y, x).Not()}, nil
	case gcl.SGT:
		return bits{s.slt(y, x)}, nil
	case gcl.SGE:
		return bits{s.slt(x, y).Not()}, nil
	default:
		return nil, fmt.Errorf("%w: gini: binary op %s", gcl.ErrUnsupported, expr.Op)
	}
}

// blastSelect reads one byte from an array. The base byte is read first and
// then every store is applied oldest first as a conditional overwrite.
// Structurally equal reads share one circuit.
func (s *Solver) blastSelect(expr *gcl.SelectExpr) (bits, error) {
	h := gcl.HashBinding(expr)
	for _, r := range s.reads[h] {
		if gcl.CompareExpr(r.expr, expr) == 0 {
			s.stats.CacheHits++
			return r.bits, nil
		}
	}

	index, err := s.blast(expr.Index)
	if err != nil {
		return nil, err
	}

	var updates []*gcl.ArrayUpdate
	for upd := expr.Array.Updates; upd != nil; upd = upd.Next {
		updates = append(updates, upd)
	}

	out := s.baseByte(expr.Array.Root, expr.Array.Size, index)
	for i := len(updates) - 1; i >= 0; i-- {
		ui, err := s.blast(updates[i].Index)
		if err != nil {
			return nil, err
		}
		uv, err := s.blast(updates[i].Value)
		if err != nil {
			return nil, err
		}
		out = s.mux(s.eq(index, ui), uv, out)
	}

	s.reads[h] = append(s.reads[h], read{expr: expr, bits: out})
	return out, nil
}

// baseByte reads the initial contents of a memory variable. A nil root is a
// zeroed array. Out of bounds reads yield zero.
func (s *Solver) baseByte(root *gcl.Var, size uint, index bits) bits {
	zero := s.constant(0, gcl.Width8)
	if root == nil {
		return zero
	}
	mem := s.memBits(root)

	if k, ok := s.constValue(index); ok {
		if k < uint64(size) {
			return mem[k]
		}
		return zero
	}

	out := zero
	for k := uint(0); k < size; k++ {
		hit := s.eq(index, s.constant(uint64(k), uint(len(index))))
		out = s.mux(hit, mem[k], out)
	}
	return out
}

func (s *Solver) varBits(v *gcl.Var) bits {
	if b, ok := s.vars[v.ID]; ok {
		return b
	}
	b := s.fresh(v.Width)
	s.vars[v.ID] = b
	return b
}

func (s *Solver) memBits(v *gcl.Var) []bits {
	if mem, ok := s.mems[v.ID]; ok {
		return mem
	}
	mem := make([]bits, v.Size)
	for i := range mem {
		mem[i] = s.fresh(gcl.Width8)
	}
	s.mems[v.ID] = mem
	return mem
}

func (s *Solver) fresh(width uint) bits {
	b := make(bits, width)
	for i := range b {
		b[i] = s.c.Lit()
	}
	return b
}

func (s *Solver) constant(value uint64, width uint) bits {
	b := make(bits, width)
	for i := range b {
		if value&(1<<uint(i)) != 0 {
			b[i] = s.c.T
		} else {
			b[i] = s.c.F
		}
	}
	return b
}

// constValue returns the value of b if every bit is a constant literal.
func (s *Solver) constValue(b bits) (uint64, bool) {
	var x uint64
	for i, m := range b {
		switch m {
		case s.c.T:
			x |= 1 << uint(i)
		case s.c.F:
		default:
			return 0, false
		}
	}
	return x, true
}

func not(a bits) bits {
	out := make(bits, len(a))
	for i, m := range a {
		out[i] = m.Not()
	}
	return out
}

func (s *Solver) bitwise(a, b bits, fn func(x, y z.Lit) z.Lit) bits {
	out := make(bits, len(a))
	for i := range a {
		out[i] = fn(a[i], b[i])
	}
	return out
}

func (s *Solver) mux(cond z.Lit, t, e bits) bits {
	out := make(bits, len(t))
	for i := range t {
		out[i] = s.c.Choice(cond, t[i], e[i])
	}
	return out
}

// add is a ripple-carry adder.
func (s *Solver) add(a, b bits, carry z.Lit) bits {
	out := make(bits, len(a))
	for i := range a {
		x := s.c.Xor(a[i], b[i])
		out[i] = s.c.Xor(x, carry)
		carry = s.c.Or(s.c.And(a[i], b[i]), s.c.And(carry, x))
	}
	return out
}

func (s *Solver) sub(a, b bits) bits {
	return s.add(a, not(b), s.c.T)
}

func (s *Solver) neg(a bits) bits {
	return s.add(not(a), s.constant(0, uint(len(a))), s.c.T)
}

// mul is a shift-and-add multiplier truncated to the operand width.
func (s *Solver) mul(a, b bits) bits {
	w := len(a)
	out := s.constant(0, uint(w))
	for i := 0; i < w; i++ {
		partial := make(bits, w)
		for k := range partial {
			if k < i {
				partial[k] = s.c.F
			} else {
				partial[k] = s.c.And(a[k-i], b[i])
			}
		}
		out = s.add(out, partial, s.c.F)
	}
	return out
}

// udivrem is a restoring divider. Division by zero yields an all ones
// quotient and a remainder equal to the dividend.
func (s *Solver) udivrem(a, b bits) (q, r bits) {
	w := len(a)
	q, r = make(bits, w), s.constant(0, uint(w))

	divisor := append(append(bits(nil), b...), s.c.F)
	for i := w - 1; i >= 0; i-- {
		shifted := append(bits{a[i]}, r...)
		ge := s.ult(shifted, divisor).Not()
		r = s.mux(ge, s.sub(shifted, divisor), shifted)[:w]
		q[i] = ge
	}
	return q, r
}

// sdivrem divides magnitudes and fixes up signs. The quotient is negated when
// operand signs differ and the remainder takes the sign of the dividend.
func (s *Solver) sdivrem(a, b bits) (q, r bits) {
	sa, sb := a[len(a)-1], b[len(b)-1]
	q, r = s.udivrem(s.mux(sa, s.neg(a), a), s.mux(sb, s.neg(b), b))
	return s.mux(s.c.Xor(sa, sb), s.neg(q), q), s.mux(sa, s.neg(r), r)
}

// shift is a barrel shifter. Amounts of at least the operand width shift
// every bit out.
func (s *Solver) shift(op gcl.BinaryOp, a, amount bits) bits {
	w := len(a)
	fill := s.c.F
	if op == gcl.ASHR {
		fill = a[w-1]
	}

	out, over := a, s.c.F
	for j := range amount {
		if 1<<uint(j) >= w {
			over = s.c.Or(over, amount[j])
			continue
		}
		out = s.mux(amount[j], shiftConst(op, out, 1<<uint(j), fill), out)
	}

	filled := make(bits, w)
	for i := range filled {
		filled[i] = fill
	}
	return s.mux(over, filled, out)
}

// shiftConst shifts a by a fixed amount, filling vacated bits with fill.
func shiftConst(op gcl.BinaryOp, a bits, n int, fill z.Lit) bits {
	w := len(a)
	out := make(bits, w)
	for i := range out {
		var src int
		if op == gcl.SHL {
			src = i - n
		} else {
			src = i + n
		}
		if src >= 0 && src < w {
			out[i] = a[src]
		} else {
			out[i] = fill
		}
	}
	return out
}

func (s *Solver) eq(a, b bits) z.Lit {
	ms := make([]z.Lit, len(a))
	for i := range a {
		ms[i] = s.c.Xor(a[i], b[i]).Not()
	}
	return s.c.Ands(ms...)
}

// ult compares from the least significant bit up so higher bits decide.
func (s *Solver) ult(a, b bits) z.Lit {
	lt := s.c.F
	for i := range a {
		lower := s.c.And(a[i].Not(), b[i])
		same := s.c.Xor(a[i], b[i]).Not()
		lt = s.c.Or(lower, s.c.And(same, lt))
	}
	return lt
}

// slt is an unsigned comparison with the sign bits flipped.
func (s *Solver) slt(a, b bits) z.Lit {
	n := len(a) - 1
	x, y := append(bits(nil), a...), append(bits(nil), b...)
	x[n], y[n] = x[n].Not(), y[n].Not()
	return s.ult(x, y)
}
