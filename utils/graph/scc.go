package graph

// SCCDecomposition partitions the nodes reachable from a set of start nodes
// into strongly connected components. Components are listed in reverse
// topological order: edges leaving component i only reach components j <= i.
type SCCDecomposition[T any] struct {
	Components [][]T
	comp       Mapper[T]
	graph      Graph[T]
}

// SCC is the index of a component.
type SCC = int

// ComponentOf returns the component of node, or -1 if node was not reached.
func (scc SCCDecomposition[T]) ComponentOf(node T) SCC {
	if comp, hasComp := scc.comp.Get(node); hasComp {
		return comp.(int)
	}
	return -1
}

// Cyclic reports whether component i contains a cycle: it has several nodes,
// or its single node has an edge to itself.
func (scc SCCDecomposition[T]) Cyclic(i SCC) bool {
	nodes := scc.Components[i]
	if len(nodes) > 1 {
		return true
	}
	for _, e := range scc.graph.Edges(nodes[0]) {
		if scc.ComponentOf(e) == i {
			return true
		}
	}
	return false
}

// SCC computes the strongly connected components of the subgraph reachable
// from the start nodes with Tarjan's algorithm.
func (G Graph[T]) SCC(startNodes []T) SCCDecomposition[T] {
	// Source:
	// https://github.com/kth-competitive-programming/kactl/blob/main/content/graph/SCC.h

	val, comp := G.mapFactory(), G.mapFactory()
	time := 0
	var z, cont []T
	var components [][]T

	var rec func(T)
	rec = func(node T) {
		time++
		low := time
		val.Set(node, low)
		stackH := len(z)
		z = append(z, node)

		for _, e := range G.Edges(node) {
			if _, hasComp := comp.Get(e); hasComp {
				continue
			}
			if _, visited := val.Get(e); !visited {
				rec(e)
			}
			if eLow, _ := val.Get(e); eLow.(int) < low {
				low = eLow.(int)
			}
		}

		if oldLow, _ := val.Get(node); low == oldLow.(int) {
			for len(z) > stackH {
				x := z[len(z)-1]
				z = z[:len(z)-1]
				comp.Set(x, len(components))
				cont = append(cont, x)
			}

			components = append(components, cont)
			cont = nil
		}

		val.Set(node, low)
	}

	for _, node := range startNodes {
		if _, hasComp := comp.Get(node); !hasComp {
			rec(node)
		}
	}

	return SCCDecomposition[T]{
		Components: components,
		comp:       comp,
		graph:      G,
	}
}
