package worklist

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIndices(t *testing.T) {
	var w Indices
	w.Add(3)
	w.Add(1)
	w.Add(3)

	if w.Len() != 2 {
		t.Fatalf("worklist holds %d entries, expected 2", w.Len())
	}
	if !w.Has(3) || w.Has(2) {
		t.Error("pending set does not match the queued entries")
	}

	var order []int
	w.Process(func(i int, add func(int)) {
		order = append(order, i)
		// Re-adding a processed index queues it again, once.
		if i == 3 && len(order) == 1 {
			add(3)
			add(3)
		}
	})
	if diff := cmp.Diff([]int{3, 1, 3}, order); diff != "" {
		t.Errorf("processing order mismatch (-want +got):\n%s", diff)
	}
	if !w.IsEmpty() {
		t.Error("worklist is not empty after processing")
	}
}

func TestStart(t *testing.T) {
	var visited []int
	Start(0, func(i int, add func(int)) {
		visited = append(visited, i)
		if i < 3 {
			add(i + 1)
		}
	})
	if diff := cmp.Diff([]int{0, 1, 2, 3}, visited); diff != "" {
		t.Errorf("visit order mismatch (-want +got):\n%s", diff)
	}
}
