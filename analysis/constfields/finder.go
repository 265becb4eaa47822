package constfields

import (
	"log"
	"strings"

	"github.com/cs-au-dk/jnames/analysis/dataflow"
	"github.com/cs-au-dk/jnames/analysis/interp"
	L "github.com/cs-au-dk/jnames/analysis/lattice"
	bc "github.com/cs-au-dk/jnames/bytecode"
	"github.com/cs-au-dk/jnames/utils"
)

// Finder names static fields assigned from factory calls in static
// initializers:
//
//	INVOKESTATIC C.create(Ljava/lang/String;)LC;   or   INVOKESPECIAL C.<init>
//	PUTSTATIC    C.X : LC;
//
// The name comes from the first non-blank string literal on the operand
// stack of the call. Without a literal, a static field of another class read
// for the call links X to that field, and X later inherits its name.
type Finder struct {
	opts     dataflow.Options
	ctx      *NamingContext
	failures []error
}

func NewFinder(opts dataflow.Options) *Finder {
	return &Finder{opts: opts, ctx: NewNamingContext()}
}

// Context exposes the state of the last run.
func (f *Finder) Context() *NamingContext {
	return f.ctx
}

// Failures are the analysis errors of the initializers skipped in the last
// run.
func (f *Finder) Failures() []error {
	return f.failures
}

// FindNames runs over every static initializer of the index, in order, and
// returns the proposed field names. Links are resolved once all initializers
// are done. The finder starts from a clean state on every call.
func (f *Finder) FindNames(idx *Index) map[Field]string {
	f.ctx.Reset()
	f.failures = nil

	names := make(map[Field]string)
	for _, inits := range idx.StaticInitializers() {
		for _, m := range inits.Methods {
			if err := f.findNamesIn(inits.Class, m, names); err != nil {
				log.Printf("Skipping %s: %v", m, err)
				f.failures = append(f.failures, err)
			}
		}
	}

	f.ctx.resolveLinks(names)
	return names
}

func (f *Finder) findNamesIn(class string, m *bc.Method, names map[Field]string) error {
	res, err := dataflow.Analyze[L.SourceValue](m, interp.Sources{}, f.opts)
	if err != nil {
		return err
	}

	for i := 1; i < len(m.Insns); i++ {
		put := &m.Insns[i]
		if put.Op != bc.PUTSTATIC || put.Owner != class {
			continue
		}

		call := &m.Insns[i-1]
		if call.Kind() != bc.KindInvoke || call.Owner != class {
			continue
		}
		if call.Op != bc.INVOKESTATIC && !call.IsConstructorCall() {
			continue
		}

		frame := res.Frame(i - 1)
		if frame == nil {
			continue
		}

		field := bc.FieldFromInsn(put)
		literal, found := findLiteral(m, frame)
		if !found {
			if other, found := findForeignField(m, frame, i-1, class); found {
				utils.VerbosePrint("Linking %s to %s\n", field, other)
				f.ctx.Link(field, other)
			}
			continue
		}

		name, ok := NormalizeName(literal)
		if !ok {
			continue
		}
		f.ctx.Claim(class, name, field, names)
	}
	return nil
}

// findLiteral looks for a non-blank string literal among the instructions
// that produced the stack values. A deeper slot's literal is superseded by
// one found in a slot above it.
func findLiteral(m *bc.Method, frame *L.Frame[L.SourceValue]) (literal string, found bool) {
	for j := 0; j < frame.StackSize(); j++ {
		for _, k := range frame.Stack(j).Insns() {
			insn := &m.Insns[k]
			if insn.Kind() != bc.KindConst {
				continue
			}
			if s, ok := insn.Const.(string); ok && strings.TrimSpace(s) != "" {
				literal, found = s, true
				break
			}
		}
	}
	return
}

func isForeignGetStatic(insn *bc.Insn, class string) bool {
	return insn.Op == bc.GETSTATIC && insn.Owner != class
}

// findForeignField looks for a read of another class's static field that
// feeds the call at index call. Besides the producers of the stack values,
// the instructions between the last producer of a slot and the call are
// scanned, which covers arguments of nested constructor calls:
//
//	NEW D
//	DUP
//	GETSTATIC E.F     <- not a producer of any stack value at the call
//	INVOKESPECIAL D.<init>
//	INVOKESPECIAL C.<init>
func findForeignField(m *bc.Method, frame *L.Frame[L.SourceValue], call int, class string) (Field, bool) {
	other := -1
	for j := 0; j < frame.StackSize(); j++ {
		last := -1
		for _, k := range frame.Stack(j).Insns() {
			last = k
			if isForeignGetStatic(&m.Insns[k], class) {
				other = k
				break
			}
		}

		if other < 0 && last >= 0 {
			for k := last + 1; k < call; k++ {
				if isForeignGetStatic(&m.Insns[k], class) {
					other = k
					break
				}
			}
		}
	}

	if other < 0 {
		return Field{}, false
	}
	return bc.FieldFromInsn(&m.Insns[other]), true
}
