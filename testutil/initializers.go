package testutil

import (
	bc "github.com/cs-au-dk/jnames/bytecode"
)

// Emit appends instructions to a method under construction.
type Emit func(b *bc.MethodBuilder)

func factoryDesc(owner string, args string) string {
	return "(" + args + ")" + string(bc.ObjectType(owner))
}

// Create emits the assignment of a factory call result:
//
//	LDC       literal
//	INVOKESTATIC owner.create(Ljava/lang/String;)Lowner;
//	PUTSTATIC owner.field
func Create(owner, field, literal string) Emit {
	return func(b *bc.MethodBuilder) {
		b.Ldc(literal).
			Invoke(bc.INVOKESTATIC, owner, "create", factoryDesc(owner, "Ljava/lang/String;")).
			Field(bc.PUTSTATIC, owner, field, string(bc.ObjectType(owner)))
	}
}

// Construct emits the assignment of a new instance built from the literal
// and an int:
//
//	NEW owner; DUP; LDC literal; ICONST_1
//	INVOKESPECIAL owner.<init>(Ljava/lang/String;I)V
//	PUTSTATIC owner.field
func Construct(owner, field, literal string) Emit {
	return func(b *bc.MethodBuilder) {
		b.Type(bc.NEW, owner).
			Op(bc.DUP).
			Ldc(literal).
			Op(bc.ICONST_1).
			Invoke(bc.INVOKESPECIAL, owner, bc.ConstructorName, "(Ljava/lang/String;I)V").
			Field(bc.PUTSTATIC, owner, field, string(bc.ObjectType(owner)))
	}
}

// Wrap emits the assignment of a factory call taking another class's static
// field:
//
//	GETSTATIC from
//	INVOKESTATIC owner.wrap(Lfrom;)Lowner;
//	PUTSTATIC owner.field
func Wrap(owner, field string, from bc.FieldEntry) Emit {
	return func(b *bc.MethodBuilder) {
		b.Field(bc.GETSTATIC, from.Owner, from.Name, from.Desc).
			Invoke(bc.INVOKESTATIC, owner, "wrap", factoryDesc(owner, from.Desc)).
			Field(bc.PUTSTATIC, owner, field, string(bc.ObjectType(owner)))
	}
}

// WrapNested emits a constructor call whose argument is itself constructed
// from another class's static field:
//
//	NEW owner; DUP
//	NEW helper; DUP; GETSTATIC from; INVOKESPECIAL helper.<init>(Lfrom;)V
//	INVOKESPECIAL owner.<init>(Lhelper;)V
//	PUTSTATIC owner.field
func WrapNested(owner, field, helper string, from bc.FieldEntry) Emit {
	return func(b *bc.MethodBuilder) {
		b.Type(bc.NEW, owner).
			Op(bc.DUP).
			Type(bc.NEW, helper).
			Op(bc.DUP).
			Field(bc.GETSTATIC, from.Owner, from.Name, from.Desc).
			Invoke(bc.INVOKESPECIAL, helper, bc.ConstructorName, "("+from.Desc+")V").
			Invoke(bc.INVOKESPECIAL, owner, bc.ConstructorName, "("+string(bc.ObjectType(helper))+")V").
			Field(bc.PUTSTATIC, owner, field, string(bc.ObjectType(owner)))
	}
}

// StaticInitializer builds a <clinit> from the emitted statements, followed
// by a return.
func StaticInitializer(owner string, stmts ...Emit) *bc.Method {
	b := bc.NewMethod(owner, bc.StaticInitName, "()V", bc.AccStatic)
	for _, emit := range stmts {
		emit(b)
	}
	return b.Op(bc.RETURN).MustBuild()
}

// StaticField is the entry of a static field typed by its own class.
func StaticField(owner, name string) bc.FieldEntry {
	return bc.FieldEntry{Owner: owner, Name: name, Desc: string(bc.ObjectType(owner))}
}
