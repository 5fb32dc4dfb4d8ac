package expr

import "strings"

// Globals are identifiers the scoper leaves untouched: they resolve
// against the evaluator's builtin table, never against the data context.
var Globals = map[string]bool{
	"true":  true,
	"false": true,
	"null":  true,
	"len":   true,
}

// Scope rewrites every free identifier in src so that it reads from the
// runtime data context: `count + 1` becomes `$.count + 1`. It is a pure
// text transform; spacing and everything that is not a free identifier
// pass through verbatim. Member accesses (`a.b` past the first segment),
// string literals, numbers, and Globals are never rewritten.
func Scope(src string) string {
	var b strings.Builder
	b.Grow(len(src) + 8)

	i := 0
	afterDot := false
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\'' || c == '"':
			// string literal, copied through including the quotes
			j := i + 1
			for j < len(src) && src[j] != c {
				if src[j] == '\\' && j+1 < len(src) {
					j++
				}
				j++
			}
			if j < len(src) {
				j++
			}
			b.WriteString(src[i:j])
			i = j
			afterDot = false
		case isIdentStart(c):
			j := i + 1
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			word := src[i:j]
			if !afterDot && !Globals[word] && word[0] != '$' {
				b.WriteString("$.")
			}
			b.WriteString(word)
			i = j
			afterDot = false
		case c == '.':
			b.WriteByte(c)
			i++
			afterDot = true
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			b.WriteByte(c)
			i++
		default:
			b.WriteByte(c)
			i++
			afterDot = false
		}
	}
	return b.String()
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
