// Package testutil builds the classes and methods used by the tests, and
// wraps golden file assertions.
package testutil

import (
	"testing"

	bc "github.com/cs-au-dk/jnames/bytecode"

	"github.com/fatih/color"
	"github.com/sebdah/goldie/v2"
)

// StaticMethod starts a public static method body.
func StaticMethod(owner, name, desc string) *bc.MethodBuilder {
	return bc.NewMethod(owner, name, desc, bc.AccPublic|bc.AccStatic)
}

// InstanceMethod starts a public instance method body.
func InstanceMethod(owner, name, desc string) *bc.MethodBuilder {
	return bc.NewMethod(owner, name, desc, bc.AccPublic)
}

// Class assembles a class from built methods. The owner of every method
// must be name.
func Class(name string, methods ...*bc.Method) *bc.Class {
	class := &bc.Class{
		Name:    name,
		Super:   "java/lang/Object",
		Access:  bc.AccPublic,
		Methods: methods,
	}
	for _, m := range methods {
		if m.Owner != name {
			panic("method " + m.String() + " does not belong to " + name)
		}
	}
	return class
}

// Build finishes a method body, failing the test on unresolved labels.
func Build(t *testing.T, b *bc.MethodBuilder) *bc.Method {
	t.Helper()
	m, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// AssertGolden compares data with the golden file named after the test.
// Run the tests with -update to rewrite the golden files.
func AssertGolden(t *testing.T, data []byte) {
	t.Helper()
	goldie.New(t).Assert(t, t.Name(), data)
}

// NoColor disables colored output for the rest of the test.
func NoColor(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })
}
