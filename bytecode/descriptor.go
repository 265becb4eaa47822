package bytecode

import (
	"fmt"
	"strings"
)

// Type is a JVM field type descriptor, e.g. "I", "[J" or "Ljava/lang/String;".
type Type string

const (
	Void   Type = "V"
	Int    Type = "I"
	Long   Type = "J"
	Float  Type = "F"
	Double Type = "D"
)

// Size is the number of stack or local slots a value of the type occupies.
// Void occupies none, long and double occupy two.
func (t Type) Size() int {
	return SizeOf(string(t))
}

// IsReference reports whether the type is a class or array type.
func (t Type) IsReference() bool {
	return len(t) > 0 && (t[0] == 'L' || t[0] == '[')
}

// InternalName returns the internal class name of an object type, or the
// descriptor itself for arrays and primitives.
func (t Type) InternalName() string {
	if len(t) > 2 && t[0] == 'L' {
		return string(t[1 : len(t)-1])
	}
	return string(t)
}

// ObjectType returns the descriptor of the class with the given internal name.
func ObjectType(internalName string) Type {
	if strings.HasPrefix(internalName, "[") {
		return Type(internalName)
	}
	return Type("L" + internalName + ";")
}

// SizeOf computes the slot size of the value described by the descriptor
// from its first character. Method descriptors are not accepted.
func SizeOf(desc string) int {
	if desc == "" {
		return 1
	}
	switch desc[0] {
	case 'V':
		return 0
	case 'J', 'D':
		return 2
	}
	return 1
}

// ReturnSize computes the slot size of the return type of a method descriptor.
func ReturnSize(methodDesc string) int {
	i := strings.LastIndexByte(methodDesc, ')')
	return SizeOf(methodDesc[i+1:])
}

// parseType reads one field type starting at offset and advances offset past it.
func parseType(desc string, offset *int, allowVoid bool) (Type, error) {
	if *offset >= len(desc) {
		return "", fmt.Errorf("unexpected end of descriptor %q", desc)
	}
	start := *offset
	r := desc[*offset]
	*offset++
	switch r {
	case 'V':
		if !allowVoid {
			return "", fmt.Errorf("void is not a field type in %q", desc)
		}
		return Void, nil
	case 'Z', 'B', 'C', 'S', 'I', 'J', 'F', 'D':
		return Type(desc[start:*offset]), nil
	case 'L':
		end := strings.IndexByte(desc[*offset:], ';')
		if end <= 0 {
			return "", fmt.Errorf("class type missing terminating ';' in %q", desc)
		}
		*offset += end + 1
		return Type(desc[start:*offset]), nil
	case '[':
		if _, err := parseType(desc, offset, false); err != nil {
			return "", err
		}
		return Type(desc[start:*offset]), nil
	default:
		return "", fmt.Errorf("unknown type tag '%c' in %q", r, desc)
	}
}

// ParseType validates a complete field descriptor.
func ParseType(desc string) (Type, error) {
	offset := 0
	t, err := parseType(desc, &offset, true)
	if err != nil {
		return "", err
	}
	if offset != len(desc) {
		return "", fmt.Errorf("trailing characters in descriptor %q", desc)
	}
	return t, nil
}

// MethodType is a parsed method descriptor.
type MethodType struct {
	Args   []Type
	Return Type
}

// ParseMethodType parses a method descriptor such as "(IJLjava/lang/String;)V".
func ParseMethodType(desc string) (MethodType, error) {
	if !strings.HasPrefix(desc, "(") {
		return MethodType{}, fmt.Errorf("method descriptor %q must start with '('", desc)
	}
	var mt MethodType
	offset := 1
	for {
		if offset >= len(desc) {
			return MethodType{}, fmt.Errorf("method descriptor %q missing ')'", desc)
		}
		if desc[offset] == ')' {
			offset++
			break
		}
		arg, err := parseType(desc, &offset, false)
		if err != nil {
			return MethodType{}, err
		}
		mt.Args = append(mt.Args, arg)
	}
	ret, err := parseType(desc, &offset, true)
	if err != nil {
		return MethodType{}, err
	}
	if offset != len(desc) {
		return MethodType{}, fmt.Errorf("trailing characters in method descriptor %q", desc)
	}
	mt.Return = ret
	return mt, nil
}

// ArgumentsSize is the number of local slots taken by the arguments, not
// counting a receiver.
func (m MethodType) ArgumentsSize() int {
	size := 0
	for _, arg := range m.Args {
		size += arg.Size()
	}
	return size
}

func (m MethodType) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, arg := range m.Args {
		sb.WriteString(string(arg))
	}
	sb.WriteByte(')')
	sb.WriteString(string(m.Return))
	return sb.String()
}
