// Package constfields proposes names for static fields from the string
// literals passed to the factory calls that initialize them.
package constfields

import (
	bc "github.com/cs-au-dk/jnames/bytecode"
)

// Initializers are the static initializer bodies of one class.
type Initializers struct {
	Class   string
	Methods []*bc.Method
}

// Index records static initializers in the order their classes are visited.
type Index struct {
	order []string
	inits map[string][]*bc.Method
}

func NewIndex() *Index {
	return &Index{inits: make(map[string][]*bc.Method)}
}

func (idx *Index) Reset() {
	idx.order = nil
	idx.inits = make(map[string][]*bc.Method)
}

// VisitClass records the static initializer of the class, if it has one
// with code.
func (idx *Index) VisitClass(class *bc.Class) {
	for _, m := range class.Methods {
		if m.Name != bc.StaticInitName || len(m.Insns) == 0 {
			continue
		}
		if _, found := idx.inits[class.Name]; !found {
			idx.order = append(idx.order, class.Name)
		}
		idx.inits[class.Name] = append(idx.inits[class.Name], m)
	}
}

// Len is the number of classes with a static initializer.
func (idx *Index) Len() int {
	return len(idx.order)
}

// StaticInitializers lists the recorded initializers, grouped by class in
// visit order.
func (idx *Index) StaticInitializers() []Initializers {
	res := make([]Initializers, 0, len(idx.order))
	for _, c := range idx.order {
		res = append(res, Initializers{Class: c, Methods: idx.inits[c]})
	}
	return res
}
