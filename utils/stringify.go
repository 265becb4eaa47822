package utils

import (
	"github.com/fatih/color"
)

var pkgColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgBlue).SprintFunc())(is...)
}
var nameColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgHiGreen).SprintFunc())(is...)
}
var insColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgHiWhite, color.Faint).SprintFunc())(is...)
}

// ClassString colors an internal class name.
func ClassString(name string) string {
	return pkgColor(name)
}

// NameString colors a proposed name.
func NameString(name string) string {
	return nameColor(name)
}

// InsnString colors the textual rendering of an instruction.
func InsnString(insn string) string {
	return insColor(insn)
}
