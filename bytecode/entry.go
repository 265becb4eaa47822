package bytecode

import "fmt"

// Entry identifies something a name can be proposed for.
type Entry interface {
	fmt.Stringer
	// Class is the internal name of the class that owns the entry.
	Class() string
}

// ClassEntry identifies a class by internal name.
type ClassEntry struct {
	Name string
}

func (c ClassEntry) Class() string  { return c.Name }
func (c ClassEntry) String() string { return c.Name }

// MethodEntry identifies a method by owner, name and descriptor.
type MethodEntry struct {
	Owner string
	Name  string
	Desc  string
}

func (m MethodEntry) Class() string  { return m.Owner }
func (m MethodEntry) String() string { return m.Owner + "." + m.Name + m.Desc }

// FieldEntry identifies a field by owner, name and descriptor.
type FieldEntry struct {
	Owner string
	Name  string
	Desc  string
}

func (f FieldEntry) Class() string  { return f.Owner }
func (f FieldEntry) String() string { return f.Owner + "." + f.Name + ":" + f.Desc }

// FieldFromInsn builds the entry referenced by a field instruction.
func FieldFromInsn(insn *Insn) FieldEntry {
	return FieldEntry{Owner: insn.Owner, Name: insn.Name, Desc: insn.Desc}
}

// MethodFromInsn builds the entry referenced by an invoke instruction.
func MethodFromInsn(insn *Insn) MethodEntry {
	return MethodEntry{Owner: insn.Owner, Name: insn.Name, Desc: insn.Desc}
}

// LocalVariableEntry identifies a local variable slot of a method.
type LocalVariableEntry struct {
	Method MethodEntry
	Index  int
}

func (l LocalVariableEntry) Class() string { return l.Method.Owner }
func (l LocalVariableEntry) String() string {
	return fmt.Sprintf("%s#%d", l.Method, l.Index)
}

// Less orders local variable entries by method, then slot.
func (l LocalVariableEntry) Less(o LocalVariableEntry) bool {
	if a, b := l.Method.String(), o.Method.String(); a != b {
		return a < b
	}
	return l.Index < o.Index
}
