package pyast

import (
	"strconv"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/unicode/runenames"
)

// stringLiteral decodes the source text of a single Python string literal.
// It reports false for literals whose value is not a plain str known at
// parse time: f-strings, t-strings and bytes.
func stringLiteral(src string) (string, bool) {
	quote := strings.IndexAny(src, `'"`)
	if quote < 0 {
		return "", false
	}

	prefix := strings.ToLower(src[:quote])
	if strings.ContainsAny(prefix, "fbt") {
		return "", false
	}

	body := src[quote:]

	delim := body[:1]
	if strings.HasPrefix(body, strings.Repeat(delim, 3)) && len(body) >= 6 {
		delim = strings.Repeat(delim, 3)
	}

	if len(body) < 2*len(delim) || !strings.HasSuffix(body, delim) {
		return "", false
	}

	body = body[len(delim) : len(body)-len(delim)]

	if strings.Contains(prefix, "r") {
		return body, true
	}

	return unescape(body)
}

// unescape applies Python str escape sequences. Unknown escapes are kept
// verbatim, as Python does. It reports false when a \N{...} escape names no
// known character.
func unescape(s string) (string, bool) {
	if !strings.Contains(s, `\`) {
		return s, true
	}

	var sb strings.Builder

	sb.Grow(len(s))

	for len(s) > 0 {
		i := strings.IndexByte(s, '\\')
		if i < 0 || i == len(s)-1 {
			sb.WriteString(s)
			break
		}

		sb.WriteString(s[:i])
		s = s[i:]

		switch c := s[1]; {
		case c == '\n':
			s = s[2:]
		case c == '\r':
			s = strings.TrimPrefix(s[2:], "\n")
		case c == '\\' || c == '\'' || c == '"':
			sb.WriteByte(c)
			s = s[2:]
		case c >= '0' && c <= '7':
			n, value := 1, rune(c-'0')
			for n < 3 && n+1 < len(s) && s[n+1] >= '0' && s[n+1] <= '7' {
				value = value*8 + rune(s[n+1]-'0')
				n++
			}

			sb.WriteRune(value)
			s = s[n+1:]
		case c == 'N':
			end := strings.IndexByte(s, '}')
			if len(s) < 3 || s[2] != '{' || end < 0 {
				return "", false
			}

			value, ok := lookupRune(s[3:end])
			if !ok {
				return "", false
			}

			sb.WriteRune(value)
			s = s[end+1:]
		case strings.IndexByte("abfnrtvxuU", c) >= 0:
			value, _, tail, err := strconv.UnquoteChar(s, 0)
			if err != nil {
				sb.WriteString(s[:2])
				s = s[2:]

				continue
			}

			sb.WriteRune(value)
			s = tail
		default:
			sb.WriteString(s[:2])
			s = s[2:]
		}
	}

	return sb.String(), true
}

// runesByName indexes every named character by its upper-case name.
var runesByName = sync.OnceValue(func() map[string]rune {
	names := make(map[string]rune)
	for r := rune(0); r <= unicode.MaxRune; r++ {
		name := runenames.Name(r)
		if name == "" || strings.HasPrefix(name, "<") {
			continue
		}
		names[name] = r
	}
	return names
})

// lookupRune resolves the name of a \N{...} escape. Names match
// case-insensitively.
func lookupRune(name string) (rune, bool) {
	r, ok := runesByName()[strings.ToUpper(name)]
	return r, ok
}
