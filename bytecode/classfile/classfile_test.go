package classfile

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cs-au-dk/jnames/bytecode"

	"github.com/google/go-cmp/cmp"
)

func u2(v int) []byte { return []byte{byte(v >> 8), byte(v)} }
func u4(v int) []byte { return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)} }

// classWriter assembles class file images for the decoder tests.
type classWriter struct {
	pool  [][]byte
	index map[string]int
}

func newClassWriter() *classWriter {
	return &classWriter{index: make(map[string]int)}
}

func (w *classWriter) add(key string, entry []byte) int {
	if i, found := w.index[key]; found {
		return i
	}
	w.pool = append(w.pool, entry)
	w.index[key] = len(w.pool)
	return len(w.pool)
}

func (w *classWriter) utf8(s string) int {
	return w.add("utf8:"+s, append(append([]byte{tagUtf8}, u2(len(s))...), s...))
}

func (w *classWriter) class(name string) int {
	n := w.utf8(name)
	return w.add("class:"+name, append([]byte{tagClass}, u2(n)...))
}

func (w *classWriter) str(s string) int {
	n := w.utf8(s)
	return w.add("string:"+s, append([]byte{tagString}, u2(n)...))
}

func (w *classWriter) member(tag byte, owner, name, desc string) int {
	c := w.class(owner)
	n, d := w.utf8(name), w.utf8(desc)
	nt := w.add("nat:"+name+desc, append(append([]byte{tagNameAndType}, u2(n)...), u2(d)...))
	return w.add("member:"+owner+name+desc, append(append([]byte{tag}, u2(c)...), u2(nt)...))
}

type handlerSpec struct{ start, end, handler, catchType int }

type localSpec struct {
	start, length int
	name, desc    string
	slot          int
}

func (w *classWriter) code(maxStack, maxLocals int, code []byte, handlers []handlerSpec, locals []localSpec) []byte {
	var b bytes.Buffer
	b.Write(u2(maxStack))
	b.Write(u2(maxLocals))
	b.Write(u4(len(code)))
	b.Write(code)
	b.Write(u2(len(handlers)))
	for _, h := range handlers {
		b.Write(u2(h.start))
		b.Write(u2(h.end))
		b.Write(u2(h.handler))
		b.Write(u2(h.catchType))
	}

	if len(locals) == 0 {
		b.Write(u2(0))
		return b.Bytes()
	}

	var lvt bytes.Buffer
	lvt.Write(u2(len(locals)))
	for _, l := range locals {
		lvt.Write(u2(l.start))
		lvt.Write(u2(l.length))
		lvt.Write(u2(w.utf8(l.name)))
		lvt.Write(u2(w.utf8(l.desc)))
		lvt.Write(u2(l.slot))
	}
	b.Write(u2(1))
	b.Write(u2(w.utf8("LocalVariableTable")))
	b.Write(u4(lvt.Len()))
	b.Write(lvt.Bytes())
	return b.Bytes()
}

type methodSpec struct {
	access     int
	name, desc string
	code       []byte
}

type fieldSpec struct {
	access     int
	name, desc string
}

func (w *classWriter) bytes(name string, fields []fieldSpec, methods []methodSpec) []byte {
	this, super := w.class(name), w.class("java/lang/Object")
	codeAttr := w.utf8("Code")
	for _, f := range fields {
		w.utf8(f.name)
		w.utf8(f.desc)
	}
	for _, m := range methods {
		w.utf8(m.name)
		w.utf8(m.desc)
	}

	var b bytes.Buffer
	b.Write(u4(magic))
	b.Write(u2(0))
	b.Write(u2(52))
	b.Write(u2(len(w.pool) + 1))
	for _, e := range w.pool {
		b.Write(e)
	}
	b.Write(u2(bytecode.AccPublic | 0x20))
	b.Write(u2(this))
	b.Write(u2(super))
	b.Write(u2(0))

	b.Write(u2(len(fields)))
	for _, f := range fields {
		b.Write(u2(f.access))
		b.Write(u2(w.utf8(f.name)))
		b.Write(u2(w.utf8(f.desc)))
		b.Write(u2(0))
	}

	b.Write(u2(len(methods)))
	for _, m := range methods {
		b.Write(u2(m.access))
		b.Write(u2(w.utf8(m.name)))
		b.Write(u2(w.utf8(m.desc)))
		b.Write(u2(1))
		b.Write(u2(codeAttr))
		b.Write(u4(len(m.code)))
		b.Write(m.code)
	}
	b.Write(u2(0))
	return b.Bytes()
}

const colors = "demo/Colors"

// colorsClass assembles:
//
//	class Colors {
//	    static final Colors RED = create("items/red");
//	    static int pick(int n) {
//	        try { if (n > 0) return n - 1; } catch (Exception e) { return -1; }
//	        return 0;
//	    }
//	}
func colorsClass() []byte {
	w := newClassWriter()

	red := w.str("items/red")
	create := w.member(tagMethodref, colors, "create", "(Ljava/lang/String;)Ldemo/Colors;")
	field := w.member(tagFieldref, colors, "RED", "Ldemo/Colors;")
	clinit := []byte{
		0x12, byte(red), // ldc
		0xb8, byte(create >> 8), byte(create), // invokestatic
		0xb3, byte(field >> 8), byte(field), // putstatic
		0xb1, // return
	}

	pick := []byte{
		0x1a,             // 0: iload_0
		0x9e, 0x00, 0x07, // 1: ifle 8
		0x1a, // 4: iload_0
		0x04, // 5: iconst_1
		0x64, // 6: isub
		0xac, // 7: ireturn
		0x03, // 8: iconst_0
		0xac, // 9: ireturn
		0x4c, // 10: astore_1
		0x02, // 11: iconst_m1
		0xac, // 12: ireturn
	}
	exception := w.class("java/lang/Exception")

	return w.bytes(colors,
		[]fieldSpec{{bytecode.AccStatic | bytecode.AccFinal, "RED", "Ldemo/Colors;"}},
		[]methodSpec{
			{bytecode.AccStatic, bytecode.StaticInitName, "()V", w.code(1, 0, clinit, nil, nil)},
			{bytecode.AccStatic, "pick", "(I)I", w.code(2, 2, pick,
				[]handlerSpec{{4, 8, 10, exception}},
				[]localSpec{
					{0, 13, "n", "I", 0},
					{11, 2, "e", "Ljava/lang/Exception;", 1},
				})},
		})
}

func TestParseClass(t *testing.T) {
	class, err := ParseBytes(colorsClass())
	if err != nil {
		t.Fatal(err)
	}

	if class.Name != colors || class.Super != "java/lang/Object" {
		t.Errorf("decoded class %s extends %s", class.Name, class.Super)
	}
	if diff := cmp.Diff([]bytecode.Field{{Name: "RED", Desc: "Ldemo/Colors;", Access: bytecode.AccStatic | bytecode.AccFinal}}, class.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	if n := len(class.Methods); n != 2 {
		t.Fatalf("decoded %d methods, expected 2", n)
	}

	clinit := class.StaticInitializer()
	if clinit == nil {
		t.Fatal("no static initializer")
	}
	expected := []bytecode.Insn{
		{Op: bytecode.LDC, Const: "items/red"},
		{Op: bytecode.INVOKESTATIC, Owner: colors, Name: "create", Desc: "(Ljava/lang/String;)Ldemo/Colors;"},
		{Op: bytecode.PUTSTATIC, Owner: colors, Name: "RED", Desc: "Ldemo/Colors;"},
		{Op: bytecode.RETURN},
	}
	if diff := cmp.Diff(expected, clinit.Insns); diff != "" {
		t.Errorf("<clinit> mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBranchesAndHandlers(t *testing.T) {
	class, err := ParseBytes(colorsClass())
	if err != nil {
		t.Fatal(err)
	}

	m := class.Method("pick", "(I)I")
	if m == nil {
		t.Fatal("pick(I)I not found")
	}
	if m.MaxStack != 2 || m.MaxLocals != 2 {
		t.Errorf("max stack %d, max locals %d", m.MaxStack, m.MaxLocals)
	}

	ops := make([]bytecode.Opcode, len(m.Insns))
	for i, insn := range m.Insns {
		ops[i] = insn.Op
	}
	expectedOps := []bytecode.Opcode{
		bytecode.ILOAD, bytecode.IFLE, bytecode.ILOAD, bytecode.ICONST_1, bytecode.ISUB, bytecode.IRETURN,
		bytecode.ICONST_0, bytecode.IRETURN, bytecode.ASTORE, bytecode.ICONST_M1, bytecode.IRETURN,
	}
	if diff := cmp.Diff(expectedOps, ops); diff != "" {
		t.Fatalf("opcodes mismatch (-want +got):\n%s", diff)
	}

	if target := m.Insns[1].Target; target != 6 {
		t.Errorf("IFLE targets instruction %d, expected 6", target)
	}
	if v := m.Insns[8].Var; v != 1 {
		t.Errorf("ASTORE stores to %d, expected 1", v)
	}

	expectedHandlers := []bytecode.Handler{{Start: 2, End: 6, Handler: 8, Type: "java/lang/Exception"}}
	if diff := cmp.Diff(expectedHandlers, m.Handlers); diff != "" {
		t.Errorf("handlers mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(map[int]string{0: "n"}, m.LocalNames); diff != "" {
		t.Errorf("local names mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	valid := colorsClass()

	badMagic := append([]byte{}, valid...)
	badMagic[0] = 0

	tests := map[string][]byte{
		"empty":     nil,
		"bad magic": badMagic,
		"truncated": valid[:len(valid)/2],
	}
	for name, buf := range tests {
		if _, err := ParseBytes(buf); err == nil {
			t.Errorf("%s: decoding succeeded, expected an error", name)
		}
	}
}

func TestReadPath(t *testing.T) {
	dir := t.TempDir()
	classDir := filepath.Join(dir, "classes", "demo")
	if err := os.MkdirAll(classDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(classDir, "Colors.class"), colorsClass(), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(classDir, "Broken.class"), []byte{0xca, 0xfe}, 0o644); err != nil {
		t.Fatal(err)
	}

	jar := filepath.Join(dir, "colors.jar")
	f, err := os.Create(jar)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for _, name := range []string{"META-INF/MANIFEST.MF", "demo/Colors.class"} {
		entry, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		content := []byte("Manifest-Version: 1.0\n")
		if name != "META-INF/MANIFEST.MF" {
			content = colorsClass()
		}
		if _, err := entry.Write(content); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{
		filepath.Join(dir, "classes"),
		filepath.Join(classDir, "Colors.class"),
		jar,
	} {
		classes, err := ReadPath(path)
		if err != nil {
			t.Errorf("ReadPath(%s): %v", path, err)
			continue
		}
		if len(classes) != 1 || classes[0].Name != colors {
			t.Errorf("ReadPath(%s) decoded %d classes, expected only %s", path, len(classes), colors)
		}
	}

	if _, err := ReadPath(filepath.Join(dir, "missing")); err == nil {
		t.Error("ReadPath of a missing file succeeded")
	}
}
