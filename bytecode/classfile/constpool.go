package classfile

import (
	"github.com/cs-au-dk/jnames/bytecode"

	"github.com/pkg/errors"
)

// Constant pool tags.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

// cpEntry is one constant pool slot. a and b hold the referenced indices of
// structured entries, value holds decoded literals.
type cpEntry struct {
	tag   uint8
	a, b  uint16
	kind  uint8
	value any
}

type constantPool struct {
	entries []cpEntry
	// bootstraps is filled from the BootstrapMethods attribute once the class
	// attributes have been read.
	bootstraps []bootstrap
}

type bootstrap struct {
	handle uint16
	args   []uint16
}

func readConstantPool(r *reader) (*constantPool, error) {
	count := int(r.u2())
	cp := &constantPool{entries: make([]cpEntry, count)}
	for i := 1; i < count; i++ {
		e := cpEntry{tag: r.u1()}
		switch e.tag {
		case tagUtf8:
			s, err := decodeModifiedUTF8(r.take(int(r.u2())))
			if err != nil {
				return nil, errors.Wrapf(err, "constant pool entry %d", i)
			}
			e.value = s
		case tagInteger:
			e.value = int32(r.u4())
		case tagFloat:
			e.value = r.f4()
		case tagLong:
			e.value = int64(r.u8())
		case tagDouble:
			e.value = r.f8()
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			e.a = r.u2()
		case tagFieldref, tagMethodref, tagInterfaceMethodref, tagNameAndType, tagDynamic, tagInvokeDynamic:
			e.a, e.b = r.u2(), r.u2()
		case tagMethodHandle:
			e.kind, e.a = r.u1(), r.u2()
		default:
			if r.err != nil {
				return nil, r.err
			}
			return nil, errors.Errorf("unknown constant pool tag %d at entry %d", e.tag, i)
		}
		cp.entries[i] = e
		// Long and double constants take two slots.
		if e.tag == tagLong || e.tag == tagDouble {
			i++
		}
	}
	return cp, r.err
}

func (cp *constantPool) entry(i uint16, tags ...uint8) (cpEntry, error) {
	if int(i) <= 0 || int(i) >= len(cp.entries) {
		return cpEntry{}, errors.Errorf("constant pool index %d out of range", i)
	}
	e := cp.entries[i]
	for _, t := range tags {
		if e.tag == t {
			return e, nil
		}
	}
	return cpEntry{}, errors.Errorf("constant pool entry %d has tag %d, expected one of %v", i, e.tag, tags)
}

func (cp *constantPool) utf8(i uint16) (string, error) {
	e, err := cp.entry(i, tagUtf8)
	if err != nil {
		return "", err
	}
	return e.value.(string), nil
}

func (cp *constantPool) className(i uint16) (string, error) {
	e, err := cp.entry(i, tagClass)
	if err != nil {
		return "", err
	}
	return cp.utf8(e.a)
}

func (cp *constantPool) nameAndType(i uint16) (name, desc string, err error) {
	e, err := cp.entry(i, tagNameAndType)
	if err != nil {
		return "", "", err
	}
	if name, err = cp.utf8(e.a); err != nil {
		return "", "", err
	}
	desc, err = cp.utf8(e.b)
	return name, desc, err
}

// memberRef resolves a field or method reference.
func (cp *constantPool) memberRef(i uint16) (owner, name, desc string, itf bool, err error) {
	e, err := cp.entry(i, tagFieldref, tagMethodref, tagInterfaceMethodref)
	if err != nil {
		return "", "", "", false, err
	}
	if owner, err = cp.className(e.a); err != nil {
		return "", "", "", false, err
	}
	name, desc, err = cp.nameAndType(e.b)
	return owner, name, desc, e.tag == tagInterfaceMethodref, err
}

func (cp *constantPool) methodHandle(i uint16) (bytecode.MethodHandle, error) {
	e, err := cp.entry(i, tagMethodHandle)
	if err != nil {
		return bytecode.MethodHandle{}, err
	}
	owner, name, desc, itf, err := cp.memberRef(e.a)
	if err != nil {
		return bytecode.MethodHandle{}, err
	}
	return bytecode.MethodHandle{Kind: e.kind, Owner: owner, Name: name, Desc: desc, Interface: itf}, nil
}

func (cp *constantPool) bootstrapMethod(i uint16) (bytecode.MethodHandle, []any, error) {
	if int(i) >= len(cp.bootstraps) {
		return bytecode.MethodHandle{}, nil, errors.Errorf("bootstrap method %d out of range", i)
	}
	bsm := cp.bootstraps[i]
	handle, err := cp.methodHandle(bsm.handle)
	if err != nil {
		return bytecode.MethodHandle{}, nil, err
	}
	args := make([]any, 0, len(bsm.args))
	for _, a := range bsm.args {
		c, err := cp.loadable(a)
		if err != nil {
			return bytecode.MethodHandle{}, nil, err
		}
		args = append(args, c)
	}
	return handle, args, nil
}

// loadable resolves an ldc operand or bootstrap argument.
func (cp *constantPool) loadable(i uint16) (any, error) {
	e, err := cp.entry(i, tagInteger, tagFloat, tagLong, tagDouble, tagString, tagClass,
		tagMethodType, tagMethodHandle, tagDynamic)
	if err != nil {
		return nil, err
	}
	switch e.tag {
	case tagString:
		return cp.utf8(e.a)
	case tagClass:
		name, err := cp.utf8(e.a)
		return bytecode.ClassRef(name), err
	case tagMethodType:
		desc, err := cp.utf8(e.a)
		return bytecode.MethodTypeRef(desc), err
	case tagMethodHandle:
		return cp.methodHandle(i)
	case tagDynamic:
		name, desc, err := cp.nameAndType(e.b)
		if err != nil {
			return nil, err
		}
		handle, _, err := cp.bootstrapMethod(e.a)
		return bytecode.ConstantDynamic{Name: name, Desc: desc, Bootstrap: handle}, err
	}
	return e.value, nil
}
