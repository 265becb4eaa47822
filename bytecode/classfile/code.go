package classfile

import (
	"github.com/cs-au-dk/jnames/bytecode"

	"github.com/pkg/errors"
)

// rawBranch remembers byte offsets of branch targets until every instruction
// has an index.
type rawBranch struct {
	insn    int
	target  int
	dflt    int
	targets []int
}

// decodeCode translates a Code attribute into instructions. Branch targets
// and handler ranges are rewritten from byte offsets to instruction indices.
func decodeCode(cp *constantPool, pc pendingCode) error {
	code := pc.code
	r := &reader{buf: code}
	indexOf := make(map[int]int, len(code)+1)
	var insns []bytecode.Insn
	var branches []rawBranch

	for r.pos < len(code) && r.err == nil {
		offset := r.pos
		indexOf[offset] = len(insns)

		op := bytecode.Opcode(r.u1())
		if !op.Valid() || op == bytecode.WIDE && r.pos >= len(code) {
			return errors.Errorf("invalid opcode %#x at offset %d", uint8(op), offset)
		}

		wide := false
		if op == bytecode.WIDE {
			wide = true
			op = bytecode.Opcode(r.u1())
		}

		norm, slot := op.Normalize()
		insn := bytecode.Insn{Op: norm}
		if slot >= 0 {
			insn.Var = slot
		}

		switch op {
		case bytecode.BIPUSH:
			insn.Operand = r.s1()
		case bytecode.SIPUSH:
			insn.Operand = r.s2()
		case bytecode.NEWARRAY:
			insn.Operand = int(r.u1())
		case bytecode.LDC, bytecode.LDC_W, bytecode.LDC2_W:
			idx := uint16(r.u1())
			if op != bytecode.LDC {
				idx = idx<<8 | uint16(r.u1())
			}
			c, err := cp.loadable(idx)
			if err != nil {
				return errors.Wrapf(err, "ldc at offset %d", offset)
			}
			insn.Const = c
		case bytecode.ILOAD, bytecode.LLOAD, bytecode.FLOAD, bytecode.DLOAD, bytecode.ALOAD,
			bytecode.ISTORE, bytecode.LSTORE, bytecode.FSTORE, bytecode.DSTORE, bytecode.ASTORE,
			bytecode.RET:
			if wide {
				insn.Var = int(r.u2())
			} else {
				insn.Var = int(r.u1())
			}
		case bytecode.IINC:
			if wide {
				insn.Var, insn.Incr = int(r.u2()), r.s2()
			} else {
				insn.Var, insn.Incr = int(r.u1()), r.s1()
			}
		case bytecode.GOTO_W, bytecode.JSR_W:
			branches = append(branches, rawBranch{insn: len(insns), target: offset + r.s4()})
		case bytecode.TABLESWITCH, bytecode.LOOKUPSWITCH:
			// Operands are aligned to a multiple of four from the start of the code.
			for r.pos%4 != 0 {
				r.u1()
			}
			b := rawBranch{insn: len(insns), dflt: offset + r.s4()}
			if op == bytecode.TABLESWITCH {
				low, high := r.s4(), r.s4()
				if high < low || high-low >= len(code) {
					return errors.Errorf("bad tableswitch bounds [%d, %d] at offset %d", low, high, offset)
				}
				for k := low; k <= high && r.err == nil; k++ {
					insn.Keys = append(insn.Keys, int32(k))
					b.targets = append(b.targets, offset+r.s4())
				}
			} else {
				n := r.s4()
				if n < 0 || n > len(code) {
					return errors.Errorf("bad lookupswitch size %d at offset %d", n, offset)
				}
				for ; n > 0 && r.err == nil; n-- {
					insn.Keys = append(insn.Keys, int32(r.s4()))
					b.targets = append(b.targets, offset+r.s4())
				}
			}
			insn.Targets = make([]int, len(b.targets))
			branches = append(branches, b)
		case bytecode.GETSTATIC, bytecode.PUTSTATIC, bytecode.GETFIELD, bytecode.PUTFIELD,
			bytecode.INVOKEVIRTUAL, bytecode.INVOKESPECIAL, bytecode.INVOKESTATIC, bytecode.INVOKEINTERFACE:
			owner, name, desc, itf, err := cp.memberRef(r.u2())
			if err != nil {
				return errors.Wrapf(err, "%s at offset %d", op, offset)
			}
			insn.Owner, insn.Name, insn.Desc, insn.Interface = owner, name, desc, itf
			if op == bytecode.INVOKEINTERFACE {
				r.u1() // count
				r.u1() // 0
			}
		case bytecode.INVOKEDYNAMIC:
			e, err := cp.entry(r.u2(), tagInvokeDynamic)
			if err != nil {
				return errors.Wrapf(err, "invokedynamic at offset %d", offset)
			}
			r.u2()
			if insn.Name, insn.Desc, err = cp.nameAndType(e.b); err != nil {
				return errors.Wrapf(err, "invokedynamic at offset %d", offset)
			}
			if insn.Bootstrap, insn.BootstrapArgs, err = cp.bootstrapMethod(e.a); err != nil {
				return errors.Wrapf(err, "invokedynamic at offset %d", offset)
			}
		case bytecode.NEW, bytecode.ANEWARRAY, bytecode.CHECKCAST, bytecode.INSTANCEOF, bytecode.MULTIANEWARRAY:
			name, err := cp.className(r.u2())
			if err != nil {
				return errors.Wrapf(err, "%s at offset %d", op, offset)
			}
			insn.Owner = name
			if op == bytecode.MULTIANEWARRAY {
				insn.Operand = int(r.u1())
			}
		default:
			if op.Kind() == bytecode.KindJump || op == bytecode.JSR {
				branches = append(branches, rawBranch{insn: len(insns), target: offset + r.s2()})
			}
		}
		insns = append(insns, insn)
	}
	if r.err != nil {
		return r.err
	}
	indexOf[len(code)] = len(insns)

	resolve := func(offset int) (int, error) {
		idx, ok := indexOf[offset]
		if !ok || idx == len(insns) {
			return 0, errors.Errorf("branch target %d is not an instruction boundary", offset)
		}
		return idx, nil
	}

	var err error
	for _, b := range branches {
		insn := &insns[b.insn]
		if insn.Kind() == bytecode.KindSwitch {
			if insn.Default, err = resolve(b.dflt); err != nil {
				return err
			}
			for k, t := range b.targets {
				if insn.Targets[k], err = resolve(t); err != nil {
					return err
				}
			}
			continue
		}
		if insn.Target, err = resolve(b.target); err != nil {
			return err
		}
	}

	m := pc.method
	m.Insns = insns
	for _, h := range pc.table {
		start, ok1 := indexOf[int(h.start)]
		end, ok2 := indexOf[int(h.end)]
		handler, err := resolve(int(h.handler))
		if !ok1 || !ok2 || err != nil {
			return errors.Errorf("bad exception table entry [%d, %d) -> %d", h.start, h.end, h.handler)
		}
		var typ string
		if h.catchType != 0 {
			if typ, err = cp.className(h.catchType); err != nil {
				return errors.Wrap(err, "exception table catch type")
			}
		}
		m.Handlers = append(m.Handlers, bytecode.Handler{Start: start, End: end, Handler: handler, Type: typ})
	}
	return nil
}
