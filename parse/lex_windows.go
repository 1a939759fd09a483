package parse

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Split splits s into arguments using Windows command-line quoting rules:
// double quotes group words, and backslashes are literal except when they
// precede a quote (pairs collapse, an odd trailing backslash escapes it).
func Split(s string) ([]string, error) {
	var tokens []string
	var argBuilder strings.Builder
	inQuotes := false

	i := 0
	length := len(s)

	for i < length {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError {
			return nil, fmt.Errorf("invalid UTF-8 encoding at position %d", i)
		}

		if r == '\n' || r == '\r' {
			r = ' '
		}

		if r == '"' {
			inQuotes = !inQuotes
			i += size
			continue
		}

		if r == '\\' {
			numBackslashes := 0
			for i < length && s[i] == '\\' {
				numBackslashes++
				i++
			}

			if i < length && s[i] == '"' {
				argBuilder.WriteString(strings.Repeat("\\", numBackslashes/2))
				if numBackslashes%2 == 0 {
					inQuotes = !inQuotes
				} else {
					argBuilder.WriteRune('"')
				}
				i++
			} else {
				argBuilder.WriteString(strings.Repeat("\\", numBackslashes))
			}
			continue
		}

		if !inQuotes && (r == ' ' || r == '\t') {
			if argBuilder.Len() > 0 {
				tokens = append(tokens, argBuilder.String())
				argBuilder.Reset()
			}
			i += size
			continue
		}

		argBuilder.WriteRune(r)
		i += size
	}

	if argBuilder.Len() > 0 {
		tokens = append(tokens, argBuilder.String())
	}

	return tokens, nil
}
