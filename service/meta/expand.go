package meta

import (
	"bytes"
	"os"

	"github.com/viant/parsly"
)

// Expand replaces every ${env.NAME} and ${env.NAME:default} placeholder in
// input with the value of the corresponding environment variable. An unset
// variable resolves to its default, or to an empty string when no default
// was given. Text that merely looks like a placeholder but does not parse is
// left untouched.
func Expand(input []byte) []byte {
	var out []byte
	for i := 0; i < len(input); {
		index := bytes.Index(input[i:], []byte("${"))
		if index == -1 {
			out = append(out, input[i:]...)
			break
		}
		pos := i + index
		out = append(out, input[i:pos]...)
		value, next, err := parsePlaceholder(input, pos)
		if err != nil {
			out = append(out, input[pos:pos+2]...)
			i = pos + 2
			continue
		}
		out = append(out, value...)
		i = next
	}
	return out
}

// parsePlaceholder parses a single placeholder starting at offset and
// returns its resolved value together with the position just past it.
func parsePlaceholder(input []byte, offset int) (string, int, error) {
	cursor := parsly.NewCursor("", input, offset)

	matched := cursor.MatchOne(openToken)
	if matched.Code != openToken.Code {
		return "", 0, cursor.NewError(openToken)
	}
	matched = cursor.MatchOne(scopeToken)
	if matched.Code != scopeToken.Code {
		return "", 0, cursor.NewError(scopeToken)
	}
	matched = cursor.MatchOne(dotToken)
	if matched.Code != dotToken.Code {
		return "", 0, cursor.NewError(dotToken)
	}
	matched = cursor.MatchOne(nameToken)
	if matched.Code != nameToken.Code {
		return "", 0, cursor.NewError(nameToken)
	}
	name := matched.Text(cursor)

	fallback := ""
	matched = cursor.MatchAny(colonToken, closeToken)
	switch matched.Code {
	case closeToken.Code:
	case colonToken.Code:
		matched = cursor.MatchOne(fallbackToken)
		if matched.Code == fallbackToken.Code {
			fallback = matched.Text(cursor)
		}
		matched = cursor.MatchOne(closeToken)
		if matched.Code != closeToken.Code {
			return "", 0, cursor.NewError(closeToken)
		}
	default:
		return "", 0, cursor.NewError(closeToken)
	}

	value, ok := os.LookupEnv(name)
	if !ok {
		value = fallback
	}
	return value, cursor.Pos, nil
}
