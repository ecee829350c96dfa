// Package pattern implements SQL LIKE name patterns used by metadata listings.
//
// A pattern uses `_` for exactly one character, `%` for any sequence of
// characters and `\` to escape either wildcard. An empty pattern matches
// every name. Patterns are translated to regular expressions and always
// matched against the whole name.
//
// Characters other than the wildcards are passed to the regular expression
// unchanged, so a pattern containing regular expression metacharacters such
// as `.` or `(` behaves as that expression would.
package pattern

import (
	"regexp"
	"strings"
)

// MatchAll is the pattern used when none is supplied.
const MatchAll = "%"

// Matcher is a compiled LIKE pattern. It is immutable and safe for concurrent use.
type Matcher struct {
	expr string
	re   *regexp.Regexp
}

// Compile converts a LIKE pattern into a Matcher. It never fails: if the
// translated expression is not a valid regular expression, the pattern is
// compiled with every non-wildcard character taken literally.
func Compile(pattern string) *Matcher {
	expr := ToRegexp(pattern)
	re, err := regexp.Compile(anchor(expr))
	if err != nil {
		expr = literalRegexp(pattern)
		re = regexp.MustCompile(anchor(expr))
	}
	return &Matcher{expr: expr, re: re}
}

// Match reports whether name matches the pattern in full.
func (m *Matcher) Match(name string) bool {
	return m.re.MatchString(name)
}

// String returns the unanchored regular expression the pattern translated to.
func (m *Matcher) String() string {
	return m.expr
}

// ToRegexp translates a LIKE pattern into an unanchored regular expression.
// Unescaped `%` becomes `.*`, unescaped `_` becomes `.`, and `\%` / `\_`
// become the literal wildcard character. Every other byte, including a
// backslash not followed by a wildcard, is copied through.
func ToRegexp(pattern string) string {
	if pattern == "" {
		pattern = MatchAll
	}
	var sb strings.Builder
	sb.Grow(len(pattern) + 8)
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern) && isWildcard(pattern[i+1]):
			sb.WriteByte(pattern[i+1])
			i++
		case c == '%':
			sb.WriteString(".*")
		case c == '_':
			sb.WriteByte('.')
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func isWildcard(c byte) bool {
	return c == '%' || c == '_'
}

// literalRegexp translates pattern treating everything except wildcards literally.
func literalRegexp(pattern string) string {
	var sb strings.Builder
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			sb.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '%':
			sb.WriteString(".*")
		case r == '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	if escaped {
		sb.WriteString(regexp.QuoteMeta(`\`))
	}
	return sb.String()
}

func anchor(expr string) string {
	return `^(?:` + expr + `)$`
}
