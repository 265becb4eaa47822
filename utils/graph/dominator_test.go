package graph

import "testing"

func TestDominators(t *testing.T) {
	// 0 -> 1 -> {2, 3} -> 4 -> 1, with 5 unreachable.
	G := OfHashable(func(i int) []int {
		return map[int][]int{
			0: {1},
			1: {2, 3},
			2: {4},
			3: {4},
			4: {1},
			5: {4},
		}[i]
	})
	dom := G.Dominators(0)

	idoms := map[int]int{0: 0, 1: 0, 2: 1, 3: 1, 4: 1}
	for node, expected := range idoms {
		if res := dom.Idom(node); res != expected {
			t.Errorf("idom(%d) = %d, expected %d", node, res, expected)
		}
	}

	if res := dom.Common(2, 3); res != 1 {
		t.Errorf("common dominator of 2 and 3 is %d, expected 1", res)
	}
	if !dom.Dominates(1, 4) || dom.Dominates(2, 4) || !dom.Dominates(4, 4) {
		t.Error("dominance relation does not match the immediate dominators")
	}
	if dom.Reachable(5) {
		t.Error("5 is reported reachable")
	}
}
