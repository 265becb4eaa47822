package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Control flow of a method over instruction indices:
//
//	0: ILOAD 0
//	1: IFLE 6
//	2: INVOKESTATIC step   (protected, handler 7)
//	3: IINC 0 -1
//	4: GOTO 0
//	5: NOP                 (unreachable)
//	6: RETURN
//	7: ASTORE 1            (handler)
//	8: GOTO 8              (self loop)
var methodEdges = map[int][]int{
	0: {1},
	1: {2, 6},
	2: {3, 7},
	3: {4},
	4: {0},
	5: {6},
	6: {},
	7: {8},
	8: {8},
}

var methodGraph = OfHashable(func(i int) []int {
	return methodEdges[i]
})

func TestEdgesCached(t *testing.T) {
	calls := 0
	G := OfHashable(func(i int) []int {
		calls++
		return methodEdges[i]
	})
	G.Edges(1)
	if diff := cmp.Diff([]int{2, 6}, G.Edges(1)); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
	if calls != 1 {
		t.Errorf("edge function called %d times, expected 1", calls)
	}
}

func TestBFS(t *testing.T) {
	var visited []int
	methodGraph.BFS(0, func(i int) bool {
		visited = append(visited, i)
		return false
	})
	if diff := cmp.Diff([]int{0, 1, 2, 6, 3, 7, 4, 8}, visited); diff != "" {
		t.Errorf("visit order mismatch (-want +got):\n%s", diff)
	}

	stopped := methodGraph.BFS(0, func(i int) bool { return i == 7 })
	if !stopped {
		t.Error("search did not report stopping at the handler")
	}
}
