// Package classfile decodes JVM class files into the bytecode instruction model.
package classfile

import (
	"io"

	"github.com/cs-au-dk/jnames/bytecode"

	"github.com/pkg/errors"
)

const magic = 0xCAFEBABE

// pendingCode is a Code attribute whose instructions are decoded after the
// class attributes, since invokedynamic needs the BootstrapMethods table.
type pendingCode struct {
	method *bytecode.Method
	code   []byte
	table  []rawHandler
}

type rawHandler struct {
	start, end, handler, catchType uint16
}

// Parse decodes one class file.
func Parse(in io.Reader) (*bytecode.Class, error) {
	buf, err := io.ReadAll(in)
	if err != nil {
		return nil, errors.Wrap(err, "reading class file")
	}
	return ParseBytes(buf)
}

// ParseBytes decodes one class file image.
func ParseBytes(buf []byte) (*bytecode.Class, error) {
	r := &reader{buf: buf}
	if m := r.u4(); m != magic {
		if r.err != nil {
			return nil, r.err
		}
		return nil, errors.Errorf("bad magic %#x", m)
	}
	r.u2() // minor
	r.u2() // major

	cp, err := readConstantPool(r)
	if err != nil {
		return nil, err
	}

	class := &bytecode.Class{Access: r.u2()}
	if class.Name, err = cp.className(r.u2()); err != nil {
		return nil, errors.Wrap(err, "this_class")
	}
	if super := r.u2(); super != 0 {
		if class.Super, err = cp.className(super); err != nil {
			return nil, errors.Wrap(err, "super_class")
		}
	}
	for n := r.u2(); n > 0 && r.err == nil; n-- {
		itf, err := cp.className(r.u2())
		if err != nil {
			return nil, errors.Wrap(err, "interfaces")
		}
		class.Interfaces = append(class.Interfaces, itf)
	}

	for n := r.u2(); n > 0 && r.err == nil; n-- {
		access := r.u2()
		name, err := cp.utf8(r.u2())
		if err != nil {
			return nil, errors.Wrap(err, "field name")
		}
		desc, err := cp.utf8(r.u2())
		if err != nil {
			return nil, errors.Wrapf(err, "descriptor of field %s", name)
		}
		if err := skipAttributes(r); err != nil {
			return nil, err
		}
		class.Fields = append(class.Fields, bytecode.Field{Name: name, Desc: desc, Access: access})
	}

	var pending []pendingCode
	for n := r.u2(); n > 0 && r.err == nil; n-- {
		m := &bytecode.Method{Owner: class.Name, Access: r.u2()}
		if m.Name, err = cp.utf8(r.u2()); err != nil {
			return nil, errors.Wrap(err, "method name")
		}
		if m.Desc, err = cp.utf8(r.u2()); err != nil {
			return nil, errors.Wrapf(err, "descriptor of method %s", m.Name)
		}
		for a := r.u2(); a > 0 && r.err == nil; a-- {
			attr, err := cp.utf8(r.u2())
			if err != nil {
				return nil, errors.Wrapf(err, "attribute of method %s", m)
			}
			body := r.take(int(r.u4()))
			if attr != "Code" || body == nil {
				continue
			}
			pc, err := readCode(cp, m, body)
			if err != nil {
				return nil, errors.Wrapf(err, "code of method %s", m)
			}
			pending = append(pending, pc)
		}
		class.Methods = append(class.Methods, m)
	}

	for a := r.u2(); a > 0 && r.err == nil; a-- {
		attr, err := cp.utf8(r.u2())
		if err != nil {
			return nil, errors.Wrap(err, "class attribute")
		}
		body := r.take(int(r.u4()))
		if attr == "BootstrapMethods" && body != nil {
			if cp.bootstraps, err = readBootstraps(body); err != nil {
				return nil, err
			}
		}
	}
	if r.err != nil {
		return nil, r.err
	}

	for _, pc := range pending {
		if err := decodeCode(cp, pc); err != nil {
			return nil, errors.Wrapf(err, "code of method %s", pc.method)
		}
	}
	return class, nil
}

func skipAttributes(r *reader) error {
	for n := r.u2(); n > 0 && r.err == nil; n-- {
		r.u2()
		r.take(int(r.u4()))
	}
	return r.err
}

func readCode(cp *constantPool, m *bytecode.Method, body []byte) (pendingCode, error) {
	r := &reader{buf: body}
	m.MaxStack = int(r.u2())
	m.MaxLocals = int(r.u2())
	pc := pendingCode{method: m, code: r.take(int(r.u4()))}
	for n := r.u2(); n > 0 && r.err == nil; n-- {
		pc.table = append(pc.table, rawHandler{r.u2(), r.u2(), r.u2(), r.u2()})
	}
	for n := r.u2(); n > 0 && r.err == nil; n-- {
		attr, err := cp.utf8(r.u2())
		if err != nil {
			return pc, errors.Wrap(err, "code attribute")
		}
		body := r.take(int(r.u4()))
		if attr == "LocalVariableTable" && body != nil {
			if err := readLocalNames(cp, m, body); err != nil {
				return pc, err
			}
		}
	}
	return pc, r.err
}

// readLocalNames records the names of locals whose range starts at the first
// instruction.
func readLocalNames(cp *constantPool, m *bytecode.Method, body []byte) error {
	r := &reader{buf: body}
	for n := r.u2(); n > 0 && r.err == nil; n-- {
		start, _, nameIdx, _, slot := r.u2(), r.u2(), r.u2(), r.u2(), r.u2()
		if start != 0 {
			continue
		}
		name, err := cp.utf8(nameIdx)
		if err != nil {
			return errors.Wrap(err, "LocalVariableTable")
		}
		if m.LocalNames == nil {
			m.LocalNames = make(map[int]string)
		}
		m.LocalNames[int(slot)] = name
	}
	return errors.Wrap(r.err, "LocalVariableTable")
}

func readBootstraps(body []byte) ([]bootstrap, error) {
	r := &reader{buf: body}
	n := int(r.u2())
	bsms := make([]bootstrap, 0, n)
	for ; n > 0 && r.err == nil; n-- {
		bsm := bootstrap{handle: r.u2()}
		for a := r.u2(); a > 0 && r.err == nil; a-- {
			bsm.args = append(bsm.args, r.u2())
		}
		bsms = append(bsms, bsm)
	}
	return bsms, errors.Wrap(r.err, "BootstrapMethods")
}
