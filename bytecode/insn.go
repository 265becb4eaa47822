package bytecode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cs-au-dk/jnames/utils/slices"
)

// Access flags used by the analyses.
const (
	AccPublic    = 0x0001
	AccPrivate   = 0x0002
	AccProtected = 0x0004
	AccStatic    = 0x0008
	AccFinal     = 0x0010
	AccInterface = 0x0200
	AccAbstract  = 0x0400
	AccSynthetic = 0x1000
	AccEnum      = 0x4000
)

const (
	ConstructorName = "<init>"
	StaticInitName  = "<clinit>"
)

type (
	// ClassRef is a class literal pushed by ldc.
	ClassRef string
	// MethodTypeRef is a method type constant pushed by ldc.
	MethodTypeRef string
	// MethodHandle is a method handle constant.
	MethodHandle struct {
		Kind      uint8
		Owner     string
		Name      string
		Desc      string
		Interface bool
	}
	// ConstantDynamic is a dynamically computed constant.
	ConstantDynamic struct {
		Name      string
		Desc      string
		Bootstrap MethodHandle
	}
)

// ConstSize is the slot size of an ldc operand.
func ConstSize(c any) int {
	switch c := c.(type) {
	case int64, float64:
		return 2
	case ConstantDynamic:
		return SizeOf(c.Desc)
	}
	return 1
}

// Insn is a single instruction with its static operands already resolved.
// Jump targets are indices into the owning method's instruction slice.
type Insn struct {
	Op Opcode

	// Field, method and type instructions.
	Owner     string
	Name      string
	Desc      string
	Interface bool

	// Const is the ldc operand: int32, int64, float32, float64, string,
	// ClassRef, MethodTypeRef, MethodHandle or ConstantDynamic.
	Const any
	// Bootstrap and BootstrapArgs describe an invokedynamic call site.
	Bootstrap     MethodHandle
	BootstrapArgs []any

	// Var is the local slot of loads, stores, iinc and ret.
	Var  int
	Incr int
	// Operand holds bipush/sipush values, the newarray element type code and
	// the multianewarray dimension count.
	Operand int

	Target  int
	Default int
	Keys    []int32
	Targets []int
}

// Kind is the category of the instruction's opcode.
func (i *Insn) Kind() Kind {
	return i.Op.Kind()
}

// IsStaticInvoke reports whether the instruction invokes without a receiver.
func (i *Insn) IsStaticInvoke() bool {
	return slices.OneOf(i.Op, INVOKESTATIC, INVOKEDYNAMIC)
}

// IsConstructorCall reports whether the instruction is an invokespecial of <init>.
func (i *Insn) IsConstructorCall() bool {
	return i.Op == INVOKESPECIAL && i.Name == ConstructorName
}

// String renders the instruction the way a disassembler listing would.
func (i *Insn) String() string {
	var sb strings.Builder
	sb.WriteString(strings.ToUpper(i.Op.String()))

	switch i.Kind() {
	case KindLoad, KindStore:
		fmt.Fprintf(&sb, " %d", i.Var)
	case KindIinc:
		fmt.Fprintf(&sb, " %d %d", i.Var, i.Incr)
	case KindSubroutine:
		if i.Op == RET {
			fmt.Fprintf(&sb, " %d", i.Var)
		} else {
			fmt.Fprintf(&sb, " L%d", i.Target)
		}
	case KindJump:
		fmt.Fprintf(&sb, " L%d", i.Target)
	case KindSwitch:
		sb.WriteString(" ")
		for k, t := range i.Targets {
			if k < len(i.Keys) {
				fmt.Fprintf(&sb, "%d: L%d, ", i.Keys[k], t)
			} else {
				fmt.Fprintf(&sb, "L%d, ", t)
			}
		}
		fmt.Fprintf(&sb, "default: L%d", i.Default)
	case KindFieldRead, KindFieldWrite:
		fmt.Fprintf(&sb, " %s.%s : %s", i.Owner, i.Name, i.Desc)
	case KindInvoke:
		fmt.Fprintf(&sb, " %s.%s %s", i.Owner, i.Name, i.Desc)
		if i.Interface && i.Op != INVOKEINTERFACE {
			sb.WriteString(" (itf)")
		}
	case KindInvokeDynamic:
		fmt.Fprintf(&sb, " %s%s", i.Name, i.Desc)
	case KindNew, KindCast:
		fmt.Fprintf(&sb, " %s", i.Owner)
	case KindArray:
		switch i.Op {
		case ANEWARRAY:
			fmt.Fprintf(&sb, " %s", i.Owner)
		case NEWARRAY:
			fmt.Fprintf(&sb, " %d", i.Operand)
		case MULTIANEWARRAY:
			fmt.Fprintf(&sb, " %s %d", i.Owner, i.Operand)
		}
	case KindConst:
		switch i.Op {
		case BIPUSH, SIPUSH:
			fmt.Fprintf(&sb, " %d", i.Operand)
		case LDC, LDC_W, LDC2_W:
			sb.WriteString(" ")
			sb.WriteString(constString(i.Const))
		}
	}
	return sb.String()
}

func constString(c any) string {
	switch c := c.(type) {
	case string:
		return strconv.Quote(c)
	case int64:
		return strconv.FormatInt(c, 10) + "L"
	case float32:
		return strconv.FormatFloat(float64(c), 'g', -1, 32) + "F"
	case float64:
		return strconv.FormatFloat(c, 'g', -1, 64) + "D"
	case ClassRef:
		return string(ObjectType(string(c))) + ".class"
	case MethodHandle:
		return fmt.Sprintf("%s.%s%s (%d)", c.Owner, c.Name, c.Desc, c.Kind)
	case ConstantDynamic:
		return fmt.Sprintf("%s : %s", c.Name, c.Desc)
	}
	return fmt.Sprint(c)
}

// Handler is an exception table entry. Start and End delimit the half-open
// range of protected instruction indices.
type Handler struct {
	Start   int
	End     int
	Handler int
	// Type is the internal name of the caught class, empty for finally blocks.
	Type string
}

// Covers reports whether the instruction at index is protected by the handler.
func (h Handler) Covers(index int) bool {
	return h.Start <= index && index < h.End
}

// Method is a method body as a sequence of instructions.
type Method struct {
	Owner     string
	Name      string
	Desc      string
	Access    uint16
	MaxStack  int
	MaxLocals int
	Insns     []Insn
	Handlers  []Handler
	// LocalNames maps the slots of locals live on entry, the receiver and
	// parameters, to their names in the debug information, if present.
	LocalNames map[int]string
}

func (m *Method) IsStatic() bool {
	return m.Access&AccStatic != 0
}

func (m *Method) Entry() MethodEntry {
	return MethodEntry{Owner: m.Owner, Name: m.Name, Desc: m.Desc}
}

func (m *Method) String() string {
	return m.Owner + "." + m.Name + m.Desc
}

// Field is a field declaration.
type Field struct {
	Name   string
	Desc   string
	Access uint16
}

// Class is a class definition with its members.
type Class struct {
	Name       string
	Super      string
	Interfaces []string
	Access     uint16
	Fields     []Field
	Methods    []*Method
}

// Method looks up a declared method by name and descriptor.
func (c *Class) Method(name, desc string) *Method {
	m, _ := slices.Find(c.Methods, func(m *Method) bool {
		return m.Name == name && m.Desc == desc
	})
	return m
}

// StaticInitializer returns the <clinit> body of the class, if any.
func (c *Class) StaticInitializer() *Method {
	m, _ := slices.Find(c.Methods, func(m *Method) bool { return m.Name == StaticInitName })
	return m
}
