package lattice

import (
	"strconv"
	"strings"

	"golang.org/x/tools/container/intsets"
)

// SourceValue records which instructions may have produced a value. Sets are
// never mutated once a SourceValue is constructed.
type SourceValue struct {
	size  int
	insns *intsets.Sparse
}

// NewSource creates a value produced by the given instruction indices.
func NewSource(size int, insns ...int) SourceValue {
	s := &intsets.Sparse{}
	for _, i := range insns {
		s.Insert(i)
	}
	return SourceValue{size: size, insns: s}
}

var emptySet = &intsets.Sparse{}

func (v SourceValue) set() *intsets.Sparse {
	if v.insns == nil {
		return emptySet
	}
	return v.insns
}

func (v SourceValue) Size() int { return v.size }

// Insns returns the producing instruction indices in ascending order.
func (v SourceValue) Insns() []int {
	return v.set().AppendTo(nil)
}

func (v SourceValue) Has(insn int) bool {
	return v.set().Has(insn)
}

func (v SourceValue) Eq(o SourceValue) bool {
	if v.size != o.size {
		return false
	}
	return v.set().Equals(o.set())
}

// MergeSources joins two source values. a is returned unchanged when it
// already covers b.
func MergeSources(a, b SourceValue) SourceValue {
	size := a.size
	if b.size < size {
		size = b.size
	}
	if size == a.size && b.set().SubsetOf(a.set()) {
		return a
	}
	s := &intsets.Sparse{}
	s.Union(a.set(), b.set())
	return SourceValue{size: size, insns: s}
}

func (v SourceValue) String() string {
	insns := v.Insns()
	strs := make([]string, 0, len(insns))
	for _, i := range insns {
		strs = append(strs, colorize.Insn(strconv.Itoa(i)))
	}
	return "{" + strings.Join(strs, ",") + "}" + colorize.Sep(":") + colorize.Const(v.size)
}
