package bytecode

import "fmt"

// Label is a position in a method under construction.
type Label struct {
	id int
}

type labelUse struct {
	insn  int
	slot  int // -1 for Target, -2 for Default, otherwise index into Targets
	label Label
}

type handlerUse struct {
	start, end, handler Label
	typ                 string
}

// MethodBuilder assembles a Method from instructions and labels.
// Labels may be used before they are marked.
type MethodBuilder struct {
	m        *Method
	labels   []int
	uses     []labelUse
	handlers []handlerUse
}

// NewMethod starts building a method body.
func NewMethod(owner, name, desc string, access uint16) *MethodBuilder {
	return &MethodBuilder{m: &Method{
		Owner:  owner,
		Name:   name,
		Desc:   desc,
		Access: access,
	}}
}

func (b *MethodBuilder) NewLabel() Label {
	b.labels = append(b.labels, -1)
	return Label{len(b.labels) - 1}
}

// Mark binds the label to the index of the next emitted instruction.
func (b *MethodBuilder) Mark(l Label) *MethodBuilder {
	b.labels[l.id] = len(b.m.Insns)
	return b
}

func (b *MethodBuilder) emit(insn Insn) *MethodBuilder {
	b.m.Insns = append(b.m.Insns, insn)
	return b
}

// Op emits an instruction without operands.
func (b *MethodBuilder) Op(op Opcode) *MethodBuilder {
	return b.emit(Insn{Op: op})
}

// Var emits a load, store or ret of a local slot.
func (b *MethodBuilder) Var(op Opcode, slot int) *MethodBuilder {
	return b.emit(Insn{Op: op, Var: slot})
}

func (b *MethodBuilder) Iinc(slot, incr int) *MethodBuilder {
	return b.emit(Insn{Op: IINC, Var: slot, Incr: incr})
}

// Int emits bipush, sipush or newarray.
func (b *MethodBuilder) Int(op Opcode, operand int) *MethodBuilder {
	return b.emit(Insn{Op: op, Operand: operand})
}

func (b *MethodBuilder) Ldc(c any) *MethodBuilder {
	return b.emit(Insn{Op: LDC, Const: c})
}

func (b *MethodBuilder) Field(op Opcode, owner, name, desc string) *MethodBuilder {
	return b.emit(Insn{Op: op, Owner: owner, Name: name, Desc: desc})
}

func (b *MethodBuilder) Invoke(op Opcode, owner, name, desc string) *MethodBuilder {
	return b.emit(Insn{Op: op, Owner: owner, Name: name, Desc: desc, Interface: op == INVOKEINTERFACE})
}

func (b *MethodBuilder) InvokeDynamic(name, desc string, bootstrap MethodHandle, args ...any) *MethodBuilder {
	return b.emit(Insn{Op: INVOKEDYNAMIC, Name: name, Desc: desc, Bootstrap: bootstrap, BootstrapArgs: args})
}

// Type emits new, anewarray, checkcast or instanceof.
func (b *MethodBuilder) Type(op Opcode, internalName string) *MethodBuilder {
	return b.emit(Insn{Op: op, Owner: internalName})
}

func (b *MethodBuilder) MultiANewArray(desc string, dims int) *MethodBuilder {
	return b.emit(Insn{Op: MULTIANEWARRAY, Owner: desc, Operand: dims})
}

func (b *MethodBuilder) Jump(op Opcode, target Label) *MethodBuilder {
	b.uses = append(b.uses, labelUse{len(b.m.Insns), -1, target})
	return b.emit(Insn{Op: op})
}

// TableSwitch emits a tableswitch covering keys low..low+len(targets)-1.
func (b *MethodBuilder) TableSwitch(low int32, dflt Label, targets ...Label) *MethodBuilder {
	keys := make([]int32, len(targets))
	for i := range targets {
		keys[i] = low + int32(i)
	}
	return b.switchInsn(TABLESWITCH, dflt, keys, targets)
}

func (b *MethodBuilder) LookupSwitch(dflt Label, keys []int32, targets ...Label) *MethodBuilder {
	return b.switchInsn(LOOKUPSWITCH, dflt, keys, targets)
}

func (b *MethodBuilder) switchInsn(op Opcode, dflt Label, keys []int32, targets []Label) *MethodBuilder {
	idx := len(b.m.Insns)
	b.uses = append(b.uses, labelUse{idx, -2, dflt})
	for i, t := range targets {
		b.uses = append(b.uses, labelUse{idx, i, t})
	}
	return b.emit(Insn{Op: op, Keys: keys, Targets: make([]int, len(targets))})
}

// TryCatch protects the instructions in [start, end) with a handler.
// typ is the internal name of the caught class, empty for any.
func (b *MethodBuilder) TryCatch(start, end, handler Label, typ string) *MethodBuilder {
	b.handlers = append(b.handlers, handlerUse{start, end, handler, typ})
	return b
}

func (b *MethodBuilder) MaxLocals(n int) *MethodBuilder {
	b.m.MaxLocals = n
	return b
}

func (b *MethodBuilder) resolve(l Label) (int, error) {
	if l.id < 0 || l.id >= len(b.labels) || b.labels[l.id] < 0 {
		return 0, fmt.Errorf("label %d of %s is never marked", l.id, b.m)
	}
	return b.labels[l.id], nil
}

// Build resolves labels and returns the finished method.
func (b *MethodBuilder) Build() (*Method, error) {
	for _, use := range b.uses {
		idx, err := b.resolve(use.label)
		if err != nil {
			return nil, err
		}
		insn := &b.m.Insns[use.insn]
		switch use.slot {
		case -1:
			insn.Target = idx
		case -2:
			insn.Default = idx
		default:
			insn.Targets[use.slot] = idx
		}
	}
	for _, h := range b.handlers {
		var handler Handler
		var err error
		if handler.Start, err = b.resolve(h.start); err != nil {
			return nil, err
		}
		if handler.End, err = b.resolve(h.end); err != nil {
			return nil, err
		}
		if handler.Handler, err = b.resolve(h.handler); err != nil {
			return nil, err
		}
		handler.Type = h.typ
		b.m.Handlers = append(b.m.Handlers, handler)
	}
	return b.m, nil
}

// MustBuild is Build for statically known method bodies.
func (b *MethodBuilder) MustBuild() *Method {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}
