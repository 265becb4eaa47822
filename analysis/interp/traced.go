package interp

import (
	"fmt"
	"log"
	"strings"

	L "github.com/cs-au-dk/jnames/analysis/lattice"
	bc "github.com/cs-au-dk/jnames/bytecode"
)

type traced[V L.Sized] struct {
	Domain[V]
	logger *log.Logger
}

// Traced wraps a domain so that every rule producing a value from an
// instruction is logged together with its inputs and result.
func Traced[V L.Sized](d Domain[V], logger *log.Logger) Domain[V] {
	return traced[V]{d, logger}
}

func (t traced[V]) trace(s Site, res V, args ...V) V {
	strs := make([]string, len(args))
	for i, a := range args {
		strs[i] = a.String()
	}
	t.logger.Output(3, fmt.Sprintf("%4d %-32s (%s) -> %s",
		s.Index, s.Insn, strings.Join(strs, ", "), res))
	return res
}

func (t traced[V]) NewParameter(instance bool, local int, ty bc.Type) V {
	v := t.Domain.NewParameter(instance, local, ty)
	t.logger.Output(2, fmt.Sprintf("param %d %s -> %s", local, ty, v))
	return v
}

func (t traced[V]) NewOperation(s Site) V {
	return t.trace(s, t.Domain.NewOperation(s))
}

func (t traced[V]) CopyOperation(s Site, v V) V {
	return t.trace(s, t.Domain.CopyOperation(s, v), v)
}

func (t traced[V]) UnaryOperation(s Site, v V) V {
	return t.trace(s, t.Domain.UnaryOperation(s, v), v)
}

func (t traced[V]) BinaryOperation(s Site, v1, v2 V) V {
	return t.trace(s, t.Domain.BinaryOperation(s, v1, v2), v1, v2)
}

func (t traced[V]) TernaryOperation(s Site, v1, v2, v3 V) V {
	return t.trace(s, t.Domain.TernaryOperation(s, v1, v2, v3), v1, v2, v3)
}

func (t traced[V]) NaryOperation(s Site, vs []V) V {
	return t.trace(s, t.Domain.NaryOperation(s, vs), vs...)
}

func (t traced[V]) ReturnOperation(s Site, v V) {
	t.Domain.ReturnOperation(s, v)
	t.logger.Output(2, fmt.Sprintf("%4d %-32s returns %s", s.Index, s.Insn, v))
}
