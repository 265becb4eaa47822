package delegation

import (
	"testing"

	"github.com/cs-au-dk/jnames/analysis/dataflow"
	bc "github.com/cs-au-dk/jnames/bytecode"
	T "github.com/cs-au-dk/jnames/testutil"

	"github.com/google/go-cmp/cmp"
)

const (
	writeDesc = "(Ljava/lang/String;)V"
	helloDesc = "(IJLjava/lang/String;)V"
)

var (
	greet0  = T.Slot(T.Greeter, "greet", writeDesc, 0)
	print0  = T.Slot(T.Greeter, "print", writeDesc, 0)
	write0  = T.Slot(T.Out, "write", writeDesc, 0)
	hello1  = T.Slot(T.Greeter, "hello", helloDesc, 1)
	hello2  = T.Slot(T.Greeter, "hello", helloDesc, 2)
	hello4  = T.Slot(T.Greeter, "hello", helloDesc, 4)
	say1    = T.Slot(T.Greeter, "say", helloDesc, 1)
	say2    = T.Slot(T.Greeter, "say", helloDesc, 2)
	say3    = T.Slot(T.Greeter, "say", helloDesc, 3)
	same1   = T.Slot(T.Greeter, "same", "(ZLjava/lang/String;)V", 1)
	widen0  = T.Slot(T.Greeter, "widen", "(I)V", 0)
	wide0   = T.Slot(T.Out, "wide", "(J)V", 0)
	ping0   = T.Slot("demo/Ping", "ping", "(I)V", 0)
	pong0   = T.Slot("demo/Ping", "pong", "(I)V", 0)
	twice0  = T.Slot(T.Greeter, "twice", "(I)I", 0)
	pick1   = T.Slot(T.Greeter, "pick", "(ZLjava/lang/String;Ljava/lang/String;)V", 1)
	pick2   = T.Slot(T.Greeter, "pick", "(ZLjava/lang/String;Ljava/lang/String;)V", 2)
	noLinks = []Entry{twice0, pick1, pick2, write0, say1, wide0}
)

func visitAll(t *testing.T, idx *Index, classes []*bc.Class) {
	t.Helper()
	for _, class := range classes {
		if errs := idx.VisitClass(class); len(errs) > 0 {
			t.Fatalf("visiting %s: %v", class.Name, errs)
		}
	}
}

func TestDelegationLinks(t *testing.T) {
	idx := NewIndex(dataflow.Options{})
	visitAll(t, idx, T.DelegationProgram())

	expected := map[Entry]Entry{
		greet0: print0,
		print0: write0,
		hello1: say1,
		hello2: say2,
		hello4: say3,
		same1:  write0,
		widen0: wide0,
	}
	if diff := cmp.Diff(expected, idx.Links()); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
	if idx.Len() != len(expected) {
		t.Errorf("index has %d links, expected %d", idx.Len(), len(expected))
	}

	for _, e := range noLinks {
		if to, found := idx.Resolve(e); found {
			t.Errorf("%s is linked to %s", e, to)
		}
	}

	slots := idx.LinkedParameterSlots()
	if diff := cmp.Diff([]Entry{greet0, hello1, hello2, hello4, print0, same1, widen0}, slots); diff != "" {
		t.Errorf("linked slots mismatch (-want +got):\n%s", diff)
	}
}

func TestDelegationGroups(t *testing.T) {
	idx := NewIndex(dataflow.Options{})
	visitAll(t, idx, T.DelegationProgram())

	expected := [][]Entry{
		{greet0, print0, same1, write0},
		{hello1, say1},
		{hello2, say2},
		{hello4, say3},
		{widen0, wide0},
	}
	if diff := cmp.Diff(expected, idx.Groups()); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestDelegationChain(t *testing.T) {
	idx := NewIndex(dataflow.Options{})
	visitAll(t, idx, T.DelegationProgram())

	if diff := cmp.Diff([]Entry{greet0, print0, write0}, idx.Chain(greet0)); diff != "" {
		t.Errorf("chain of %s mismatch (-want +got):\n%s", greet0, diff)
	}
	if diff := cmp.Diff([]Entry{write0}, idx.Chain(write0)); diff != "" {
		t.Errorf("chain of %s mismatch (-want +got):\n%s", write0, diff)
	}

	idx.Reset()
	if idx.Len() != 0 || len(idx.Groups()) != 0 {
		t.Errorf("index still has %d links after a reset", idx.Len())
	}

	visitAll(t, idx, T.CycleProgram())
	if diff := cmp.Diff([]Entry{ping0, pong0}, idx.Chain(ping0)); diff != "" {
		t.Errorf("cyclic chain mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]Entry{{ping0, pong0}}, idx.Groups()); diff != "" {
		t.Errorf("cyclic groups mismatch (-want +got):\n%s", diff)
	}
}

func TestDelegationSkipsFailures(t *testing.T) {
	broken := T.StaticMethod("demo/Broken", "broken", writeDesc).
		Op(bc.POP).
		Op(bc.RETURN).
		MustBuild()
	forward := T.StaticMethod("demo/Broken", "forward", writeDesc).
		Var(bc.ALOAD, 0).
		Invoke(bc.INVOKESTATIC, T.Out, "write", writeDesc).
		Op(bc.RETURN).
		MaxLocals(1).
		MustBuild()
	abstract := &bc.Method{Owner: "demo/Broken", Name: "todo", Desc: "()V", Access: bc.AccAbstract}

	idx := NewIndex(dataflow.Options{})
	errs := idx.VisitClass(T.Class("demo/Broken", broken, abstract, forward))
	if len(errs) != 1 {
		t.Fatalf("got errors %v, expected one failure", errs)
	}

	from := T.Slot("demo/Broken", "forward", writeDesc, 0)
	if to, found := idx.Resolve(from); !found || to != write0 {
		t.Errorf("%s resolved to %s, %v", from, to, found)
	}
	if idx.Len() != 1 {
		t.Errorf("index has %d links, expected 1", idx.Len())
	}
}

func TestDelegationIgnoresInvokeDynamic(t *testing.T) {
	m := T.StaticMethod("demo/Lambda", "bind", "(Ljava/lang/String;)Ljava/lang/Runnable;").
		Var(bc.ALOAD, 0).
		InvokeDynamic("run", "(Ljava/lang/String;)Ljava/lang/Runnable;", bc.MethodHandle{}).
		Op(bc.ARETURN).
		MaxLocals(1).
		MustBuild()

	idx := NewIndex(dataflow.Options{})
	if err := idx.VisitMethod(m); err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 0 {
		t.Errorf("invokedynamic produced links %v", idx.Links())
	}
}

func TestDelegationLastCallWins(t *testing.T) {
	const fan = "demo/Fan"
	m := T.StaticMethod(fan, "spread", "(I)V").
		Var(bc.ILOAD, 0).
		Invoke(bc.INVOKESTATIC, fan, "use", "(I)V").
		Op(bc.ICONST_0).
		Var(bc.ILOAD, 0).
		Invoke(bc.INVOKESTATIC, fan, "useBoth", "(II)V").
		Op(bc.RETURN).
		MaxLocals(1).
		MustBuild()

	idx := NewIndex(dataflow.Options{})
	if err := idx.VisitMethod(m); err != nil {
		t.Fatal(err)
	}

	from := T.Slot(fan, "spread", "(I)V", 0)
	expected := T.Slot(fan, "useBoth", "(II)V", 1)
	if to, found := idx.Resolve(from); !found || to != expected {
		t.Errorf("%s resolved to %s, %v, expected %s", from, to, found, expected)
	}
	if idx.Len() != 1 {
		t.Errorf("index has %d links, expected 1", idx.Len())
	}
}
