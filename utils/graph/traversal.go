package graph

import W "github.com/cs-au-dk/jnames/utils/worklist"

// traversalFunc visits a node and returns true to end the search.
type traversalFunc[T any] func(node T) (stop bool)

// BFSV visits every node reachable from starts in breadth-first order and
// reports whether f ended the search early.
func (G Graph[T]) BFSV(f traversalFunc[T], starts ...T) (stopped bool) {
	seen := G.mapFactory()
	for _, start := range starts {
		seen.Set(start, true)
	}

	W.StartV(starts, func(node T, add func(T)) {
		if stopped {
			return
		}
		if stopped = f(node); stopped {
			return
		}
		for _, next := range G.Edges(node) {
			if _, found := seen.Get(next); !found {
				seen.Set(next, true)
				add(next)
			}
		}
	})
	return
}

// BFS is BFSV from a single start node.
func (G Graph[T]) BFS(start T, f traversalFunc[T]) bool {
	return G.BFSV(f, start)
}
