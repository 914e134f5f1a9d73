package command

import (
	"strings"
	"unicode"
)

// tokenize splits the input string into tokens, respecting double quotes
// and backslash escapes. Escaped quotes are unescaped in the resulting
// token (`\"` becomes `"`).
func tokenize(input string) []string {
	var tokens []string
	var currentToken strings.Builder
	inQuotes := false
	escaped := false

	for _, r := range input {
		if escaped {
			// Previous character was a backslash; take this one literally.
			currentToken.WriteRune(r)
			escaped = false
			continue
		}

		if r == '\\' {
			escaped = true
			continue
		}

		if r == '"' {
			inQuotes = !inQuotes
			continue
		}

		if unicode.IsSpace(r) && !inQuotes {
			// Space outside quotes finishes the current token.
			if currentToken.Len() > 0 {
				tokens = append(tokens, currentToken.String())
				currentToken.Reset()
			}
			continue
		}

		currentToken.WriteRune(r)
	}

	if currentToken.Len() > 0 {
		tokens = append(tokens, currentToken.String())
	}

	return tokens
}
