package worklist

import "golang.org/x/tools/container/intsets"

type Worklist[T any] struct {
	list []T
}

// Start worklist execution with provided `starting` element and an iteration
// function. The iteration function exposes the next element and a function with
// which to add more elements to the worklist.
func Start[T any](start T, do func(next T, add func(el T))) {
	StartV([]T{start}, do)
}

// Start worklist execution with a preloaded queue and an iteration
// function. The iteration function exposes the next element and a function with
// which to add more elements to the worklist.
func StartV[T any](start []T, do func(next T, add func(el T))) {
	W := Empty[T]()
	for _, e := range start {
		W.Add(e)
	}

	W.Process(do)
}

func Empty[T any]() Worklist[T] {
	return Worklist[T]{}
}

func (w *Worklist[T]) GetNext() (ret T) {
	if len(w.list) == 0 {
		return
	}
	next := w.list[0]
	w.list = w.list[1:]
	return next
}

func (w *Worklist[T]) IsEmpty() bool {
	return len(w.list) == 0
}

func (w *Worklist[T]) Len() int {
	return len(w.list)
}

func (w *Worklist[T]) Process(
	do func(
		next T,
		add func(element T))) {
	for !w.IsEmpty() {
		do(w.GetNext(), w.Add)
	}
}

func (w *Worklist[T]) Add(el T) {
	w.list = append(w.list, el)
}

// Indices is a FIFO worklist of non-negative integers in which an index is
// queued at most once at any time. Re-adding an index that is still pending
// is a no-op.
type Indices struct {
	Worklist[int]
	pending intsets.Sparse
}

func (w *Indices) Add(i int) {
	if w.pending.Insert(i) {
		w.Worklist.Add(i)
	}
}

func (w *Indices) GetNext() int {
	i := w.Worklist.GetNext()
	w.pending.Remove(i)
	return i
}

// Has reports whether i is pending.
func (w *Indices) Has(i int) bool {
	return w.pending.Has(i)
}

func (w *Indices) Process(do func(next int, add func(element int))) {
	for !w.IsEmpty() {
		do(w.GetNext(), w.Add)
	}
}
