package cluster

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// minTokenRunes drops single character tokens, matching the usual \w\w+ token
// pattern of TF-IDF vectorizers.
const minTokenRunes = 2

// Tokenize normalizes text (NFKC, case folded) and splits it into word tokens
func Tokenize(text string) []string {
	folded := cases.Fold().String(norm.NFKC.String(text))

	var tokens []string
	start := -1
	for i, r := range folded {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = appendToken(tokens, folded[start:i])
			start = -1
		}
	}
	if start >= 0 {
		tokens = appendToken(tokens, folded[start:])
	}
	return tokens
}

func appendToken(tokens []string, tok string) []string {
	if utf8.RuneCountInString(tok) < minTokenRunes {
		return tokens
	}
	return append(tokens, tok)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
