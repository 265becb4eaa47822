package constfields

import (
	"strings"
	"unicode"
)

// NormalizeName turns a literal into a constant name. A namespace prefix
// ending in ':' is dropped, and a path "first/last.ext" becomes "last_first"
// with a plural 's' removed from first. The result is in upper snake case.
// It fails if no letter is left.
func NormalizeName(literal string) (string, bool) {
	name := literal
	if k := strings.LastIndex(name, ":"); k >= 0 {
		name = name[k+1:]
	}

	if sep := strings.Index(name, "/"); sep >= 0 {
		first := strings.TrimSuffix(name[:sep], "s")
		last := name[sep+1:]
		if dot := strings.Index(name, "."); dot > sep {
			last = name[sep+1 : dot]
		}
		name = last + "_" + first
	}

	return upperSnakeCase(name)
}

func isUsable(c rune) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func upperSnakeCase(s string) (string, bool) {
	rs := []rune(s)
	var sb strings.Builder
	alphabetic := false

	for j, c := range rs {
		if !isUsable(c) {
			sb.WriteByte('_')
			continue
		}
		if unicode.IsLetter(c) {
			alphabetic = true
		}
		// Word boundary: "camelCase" and the "S" of "HTTPServer".
		if j > 0 && unicode.IsUpper(c) && j < len(rs)-1 && unicode.IsLower(rs[j+1]) {
			sb.WriteByte('_')
		}
		sb.WriteRune(c)
	}

	if !alphabetic {
		return "", false
	}
	return strings.ToUpper(sb.String()), true
}
