package zodmini

import "golang.org/x/sync/errgroup"

// slotResult is one sibling subtree's outcome, kept slot-indexed so the merge
// loops rebuild the deterministic pre-order issue sequence regardless of
// wall-clock completion order.
type slotResult struct {
	val any
	iss Issues
}

// each evaluates n sibling subtrees. On the synchronous path, or when the
// subtree carries no asynchronous effects, evaluation is plain sequential
// recursion. On the asynchronous path with async effects below, siblings run
// concurrently under an errgroup; a sibling's failure never aborts the others
// (every violation must be collected), so the group carries no errors and
// Wait is used purely as a join.
//
// Parent effects are layered above this call in walkEffects, which gives the
// required ordering: a node's own refinements and transforms start only after
// all of its children have fully resolved.
func (w *walker) each(n int, concurrent bool, fn func(i int) (any, Issues)) []slotResult {
	res := make([]slotResult, n)
	if w.mode != modeAsync || !concurrent || n < 2 {
		for i := 0; i < n; i++ {
			res[i].val, res[i].iss = fn(i)
		}
		return res
	}
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			res[i].val, res[i].iss = fn(i)
			return nil
		})
	}
	_ = g.Wait()
	return res
}
