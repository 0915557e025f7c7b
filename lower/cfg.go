package lower

import (
	"github.com/benbjohnson/gcl"
	"github.com/pkg/errors"
	"golang.org/x/tools/go/ssa"
)

// postdominators returns the immediate post-dominator of every block
// reachable from entry. Blocks whose paths only meet at function exit map
// to nil. Returns ErrUnsupported if the graph contains a cycle.
func postdominators(entry *ssa.BasicBlock) (map[*ssa.BasicBlock]*ssa.BasicBlock, error) {
	const (
		white = iota
		gray
		black
	)

	// Depth-first postorder places every block after its successors.
	color := make(map[*ssa.BasicBlock]int)
	var order []*ssa.BasicBlock
	var visit func(b *ssa.BasicBlock) error
	visit = func(b *ssa.BasicBlock) error {
		color[b] = gray
		for _, succ := range b.Succs {
			switch color[succ] {
			case gray:
				return errors.Wrapf(gcl.ErrUnsupported, "loop: block %d jumps back to block %d", b.Index, succ.Index)
			case white:
				if err := visit(succ); err != nil {
					return err
				}
			}
		}
		color[b] = black
		order = append(order, b)
		return nil
	}
	if err := visit(entry); err != nil {
		return nil, err
	}

	// Strict post-dominator sets. These form a chain, so the immediate
	// post-dominator is the member with the largest set of its own.
	pdoms := make(map[*ssa.BasicBlock]map[*ssa.BasicBlock]struct{}, len(order))
	ipdom := make(map[*ssa.BasicBlock]*ssa.BasicBlock, len(order))
	for _, b := range order {
		var set map[*ssa.BasicBlock]struct{}
		for i, succ := range b.Succs {
			other := map[*ssa.BasicBlock]struct{}{succ: {}}
			for d := range pdoms[succ] {
				other[d] = struct{}{}
			}

			if i == 0 {
				set = other
				continue
			}
			for d := range set {
				if _, ok := other[d]; !ok {
					delete(set, d)
				}
			}
		}
		pdoms[b] = set

		var best *ssa.BasicBlock
		for d := range set {
			if best == nil || len(pdoms[d]) > len(pdoms[best]) {
				best = d
			}
		}
		ipdom[b] = best
	}
	return ipdom, nil
}
