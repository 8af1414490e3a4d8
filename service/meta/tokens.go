package meta

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	openCode = iota
	scopeCode
	dotCode
	nameCode
	colonCode
	fallbackCode
	closeCode
)

// Token definitions for the ${env.NAME} / ${env.NAME:default} placeholder
// grammar.
var (
	openToken     = parsly.NewToken(openCode, "${", matcher.NewFragment("${"))
	scopeToken    = parsly.NewToken(scopeCode, "env", matcher.NewFragment("env"))
	dotToken      = parsly.NewToken(dotCode, ".", matcher.NewByte('.'))
	nameToken     = parsly.NewToken(nameCode, "Name", newNameMatcher())
	colonToken    = parsly.NewToken(colonCode, ":", matcher.NewByte(':'))
	fallbackToken = parsly.NewToken(fallbackCode, "Fallback", newFallbackMatcher())
	closeToken    = parsly.NewToken(closeCode, "}", matcher.NewByte('}'))
)

func newNameMatcher() parsly.Matcher {
	return &nameMatcher{}
}

func newFallbackMatcher() parsly.Matcher {
	return &fallbackMatcher{}
}

// nameMatcher matches environment variable names
type nameMatcher struct{}

func (m *nameMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}
	if !isLetter(input[pos]) && input[pos] != '_' {
		return 0
	}
	matched := 1
	for i := pos + 1; i < size; i++ {
		if isLetter(input[i]) || isDigit(input[i]) || input[i] == '_' {
			matched++
			continue
		}
		break
	}
	return matched
}

// fallbackMatcher matches any run of characters up to the closing brace
type fallbackMatcher struct{}

func (m *fallbackMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	matched := 0
	for i := pos; i < size; i++ {
		if input[i] == '}' || input[i] == '\n' {
			break
		}
		matched++
	}
	return matched
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
