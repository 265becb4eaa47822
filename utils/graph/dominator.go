package graph

import "fmt"

// Dominance answers dominator queries for the nodes reachable from a root.
// Computed with the iterative algorithm of Cooper, Harvey and Kennedy:
// https://www.cs.rice.edu/~keith/EMBED/dom.pdf
type Dominance[T any] struct {
	// postorder maps nodes to their DFS post-order number.
	postorder Mapper[T]
	// order lists nodes by post-order number.
	order []T
	// idoms maps post-order numbers to that of the immediate dominator.
	idoms []int
}

// Dominators computes the dominator tree of the graph rooted at root.
func (G Graph[T]) Dominators(root T) *Dominance[T] {
	d := &Dominance[T]{postorder: G.mapFactory()}
	preds := G.mapFactory()

	var dfs func(T)
	dfs = func(node T) {
		if _, seen := d.postorder.Get(node); seen {
			return
		}
		d.postorder.Set(node, -1)

		for _, e := range G.Edges(node) {
			var ps []T
			if itf, found := preds.Get(e); found {
				ps = itf.([]T)
			}
			preds.Set(e, append(ps, node))
			dfs(e)
		}

		d.postorder.Set(node, len(d.order))
		d.order = append(d.order, node)
	}
	dfs(root)

	n := len(d.order)
	d.idoms = make([]int, n)
	for i := range d.idoms {
		d.idoms[i] = -1
	}
	d.idoms[n-1] = n - 1

	for changed := true; changed; {
		changed = false

		// Reverse post-order, skipping the root.
		for i := n - 2; i >= 0; i-- {
			idom := -1
			itf, _ := preds.Get(d.order[i])
			for _, p := range itf.([]T) {
				j := d.number(p)
				if d.idoms[j] == -1 {
					continue
				}
				if idom == -1 {
					idom = j
				} else {
					idom = d.intersect(j, idom)
				}
			}

			if idom != d.idoms[i] {
				d.idoms[i] = idom
				changed = true
			}
		}
	}

	return d
}

func (d *Dominance[T]) number(node T) int {
	itf, found := d.postorder.Get(node)
	if !found {
		panic(fmt.Errorf("%v was not reachable when computing the dominator tree", node))
	}
	return itf.(int)
}

func (d *Dominance[T]) intersect(a, b int) int {
	for a != b {
		if a < b {
			a = d.idoms[a]
		} else {
			b = d.idoms[b]
		}
	}
	return a
}

// Reachable reports whether node was reached from the root.
func (d *Dominance[T]) Reachable(node T) bool {
	_, found := d.postorder.Get(node)
	return found
}

// Idom returns the immediate dominator of node. The root is its own
// immediate dominator.
func (d *Dominance[T]) Idom(node T) T {
	return d.order[d.idoms[d.number(node)]]
}

// Common returns the closest node dominating all the given nodes.
func (d *Dominance[T]) Common(nodes ...T) T {
	if len(nodes) == 0 {
		panic("Empty list of nodes for dominator computation")
	}

	dom := d.number(nodes[0])
	for _, node := range nodes[1:] {
		dom = d.intersect(d.number(node), dom)
	}
	return d.order[dom]
}

// Dominates reports whether every path from the root to b passes through a.
func (d *Dominance[T]) Dominates(a, b T) bool {
	i, j := d.number(a), d.number(b)
	return d.intersect(i, j) == i
}
