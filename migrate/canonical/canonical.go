// Package canonical normalizes DDL statements into a comparable form.
//
// Two CREATE TABLE or CREATE INDEX statements are considered the same schema
// object definition iff their canonical forms are byte-equal. The canonical
// form is only ever compared, never executed.
package canonical

import "regexp"

var (
	lineComment  = regexp.MustCompile(`--[^\n]*`)
	whitespace   = regexp.MustCompile(`\s+`)
	beforePunct  = regexp.MustCompile(`\s+([(),])`)
	afterPunct   = regexp.MustCompile(`([(),])\s+`)
	quotedSimple = regexp.MustCompile(`"(\w+)"`)
)

// Normalize strips -- comments, collapses whitespace runs to a single space,
// removes whitespace adjacent to parentheses and commas, and drops double
// quotes around identifiers made of plain word characters. Quoting survives
// only where the quoted text needs it (embedded spaces, punctuation).
func Normalize(sql string) string {
	s := lineComment.ReplaceAllString(sql, "")
	s = whitespace.ReplaceAllString(s, " ")
	s = beforePunct.ReplaceAllString(s, "$1")
	s = afterPunct.ReplaceAllString(s, "$1")
	s = quotedSimple.ReplaceAllString(s, "$1")
	if len(s) > 0 && s[0] == ' ' {
		s = s[1:]
	}
	if len(s) > 0 && s[len(s)-1] == ' ' {
		s = s[:len(s)-1]
	}
	return s
}

// Equal reports whether two DDL statements define the same object.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
