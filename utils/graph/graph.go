// Package graph provides generic graph algorithms over an edge function:
// traversal, strongly connected components, dominators and DOT conversion.
// Control flow graphs over instruction indices are the main client.
package graph

// Mapper stores per-node bookkeeping for the algorithms.
type Mapper[K any] interface {
	Get(key K) (any, bool)
	Set(key K, value any)
}

type mapFactory[K any] func() Mapper[K]
type edgesOf[T any] func(node T) []T

// Graph is a lazily explored graph. The successors of a node are computed on
// first request and cached.
type Graph[T any] struct {
	mapFactory  mapFactory[T]
	edgesOf     edgesOf[T]
	cachedEdges Mapper[T]
}

// Edges returns the successors of node.
func (G Graph[T]) Edges(node T) []T {
	if cached, found := G.cachedEdges.Get(node); found {
		return cached.([]T)
	}

	es := G.edgesOf(node)
	G.cachedEdges.Set(node, es)
	return es
}

// Of builds a graph whose bookkeeping maps are produced by mapFactory.
func Of[T any](mapFactory mapFactory[T], edgesOf edgesOf[T]) Graph[T] {
	return Graph[T]{mapFactory, edgesOf, mapFactory()}
}

type mapMapper[K comparable] map[K]any

func (m mapMapper[K]) Get(key K) (any, bool) {
	value, ok := m[key]
	return value, ok
}

func (m mapMapper[K]) Set(key K, value any) {
	m[key] = value
}

// OfHashable builds a graph over nodes usable as Go map keys.
func OfHashable[K comparable](edgesOf edgesOf[K]) Graph[K] {
	return Of(func() Mapper[K] { return mapMapper[K]{} }, edgesOf)
}
