package testutil

import (
	bc "github.com/cs-au-dk/jnames/bytecode"
)

const (
	Greeter = "demo/Greeter"
	Out     = "demo/Out"
)

func named(m *bc.Method, names map[int]string) *bc.Method {
	m.LocalNames = names
	return m
}

// DelegationProgram is a pair of classes that pass their parameters on in
// several ways:
//
//	greet(message)       -> print(message) -> Out.write(line)
//	hello(count, stamp, text) -> this.say(count, stamp, text)
//	twice(n)             -> square(n + n)
//	pick(flag, a, b)     -> Out.write(flag ? a : b)
//	same(flag, s)        -> Out.write(flag ? s : s)
//	widen(n)             -> Out.wide((long) n)
func DelegationProgram() []*bc.Class {
	writeDesc := "(Ljava/lang/String;)V"

	greet := StaticMethod(Greeter, "greet", writeDesc).
		Var(bc.ALOAD, 0).
		Invoke(bc.INVOKESTATIC, Greeter, "print", writeDesc).
		Op(bc.RETURN).
		MaxLocals(1).
		MustBuild()

	printer := StaticMethod(Greeter, "print", writeDesc).
		Var(bc.ALOAD, 0).
		Invoke(bc.INVOKESTATIC, Out, "write", writeDesc).
		Op(bc.RETURN).
		MaxLocals(1).
		MustBuild()

	hello := InstanceMethod(Greeter, "hello", "(IJLjava/lang/String;)V").
		Var(bc.ALOAD, 0).
		Var(bc.ILOAD, 1).
		Var(bc.LLOAD, 2).
		Var(bc.ALOAD, 4).
		Invoke(bc.INVOKEVIRTUAL, Greeter, "say", "(IJLjava/lang/String;)V").
		Op(bc.RETURN).
		MaxLocals(5).
		MustBuild()

	say := InstanceMethod(Greeter, "say", "(IJLjava/lang/String;)V").
		Op(bc.RETURN).
		MaxLocals(5).
		MustBuild()

	twice := StaticMethod(Greeter, "twice", "(I)I").
		Var(bc.ILOAD, 0).
		Var(bc.ILOAD, 0).
		Op(bc.IADD).
		Invoke(bc.INVOKESTATIC, Greeter, "square", "(I)I").
		Op(bc.IRETURN).
		MaxLocals(1).
		MustBuild()

	b := StaticMethod(Greeter, "pick", "(ZLjava/lang/String;Ljava/lang/String;)V")
	elseL, join := b.NewLabel(), b.NewLabel()
	pick := b.Var(bc.ILOAD, 0).
		Jump(bc.IFEQ, elseL).
		Var(bc.ALOAD, 1).
		Jump(bc.GOTO, join).
		Mark(elseL).
		Var(bc.ALOAD, 2).
		Mark(join).
		Invoke(bc.INVOKESTATIC, Out, "write", writeDesc).
		Op(bc.RETURN).
		MaxLocals(3).
		MustBuild()

	b = StaticMethod(Greeter, "same", "(ZLjava/lang/String;)V")
	elseL, join = b.NewLabel(), b.NewLabel()
	same := b.Var(bc.ILOAD, 0).
		Jump(bc.IFEQ, elseL).
		Var(bc.ALOAD, 1).
		Jump(bc.GOTO, join).
		Mark(elseL).
		Var(bc.ALOAD, 1).
		Mark(join).
		Invoke(bc.INVOKESTATIC, Out, "write", writeDesc).
		Op(bc.RETURN).
		MaxLocals(2).
		MustBuild()

	widen := StaticMethod(Greeter, "widen", "(I)V").
		Var(bc.ILOAD, 0).
		Op(bc.I2L).
		Invoke(bc.INVOKESTATIC, Out, "wide", "(J)V").
		Op(bc.RETURN).
		MaxLocals(1).
		MustBuild()

	write := StaticMethod(Out, "write", writeDesc).
		Op(bc.RETURN).
		MaxLocals(1).
		MustBuild()

	wide := StaticMethod(Out, "wide", "(J)V").
		Op(bc.RETURN).
		MaxLocals(2).
		MustBuild()

	return []*bc.Class{
		Class(Greeter,
			named(greet, map[int]string{0: "message"}),
			printer,
			named(hello, map[int]string{0: "this", 1: "count", 2: "stamp", 4: "text"}),
			say, twice, pick, same, widen),
		Class(Out,
			named(write, map[int]string{0: "line"}),
			wide),
	}
}

// CycleProgram is two methods passing their parameter to each other.
func CycleProgram() []*bc.Class {
	const owner = "demo/Ping"
	ping := StaticMethod(owner, "ping", "(I)V").
		Var(bc.ILOAD, 0).
		Invoke(bc.INVOKESTATIC, owner, "pong", "(I)V").
		Op(bc.RETURN).
		MaxLocals(1).
		MustBuild()
	pong := StaticMethod(owner, "pong", "(I)V").
		Var(bc.ILOAD, 0).
		Invoke(bc.INVOKESTATIC, owner, "ping", "(I)V").
		Op(bc.RETURN).
		MaxLocals(1).
		MustBuild()

	return []*bc.Class{Class(owner, named(ping, map[int]string{0: "count"}), pong)}
}

// Slot is the local variable entry of a slot of the given method.
func Slot(owner, name, desc string, index int) bc.LocalVariableEntry {
	return bc.LocalVariableEntry{
		Method: bc.MethodEntry{Owner: owner, Name: name, Desc: desc},
		Index:  index,
	}
}
