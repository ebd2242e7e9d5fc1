package entity

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// function words that are capitalized only because they start a sentence or a
// title, never entities on their own
var skipWords = map[string]struct{}{
	"A": {}, "An": {}, "And": {}, "Are": {}, "As": {}, "At": {}, "But": {}, "By": {},
	"Can": {}, "Do": {}, "Does": {}, "For": {}, "From": {}, "He": {}, "Her": {}, "His": {},
	"How": {}, "I": {}, "If": {}, "In": {}, "Is": {}, "It": {}, "Its": {}, "My": {},
	"No": {}, "Not": {}, "Of": {}, "On": {}, "Or": {}, "Our": {}, "She": {}, "So": {},
	"That": {}, "The": {}, "Their": {}, "They": {}, "This": {}, "To": {}, "Was": {},
	"We": {}, "What": {}, "When": {}, "Where": {}, "Which": {}, "Who": {}, "Why": {},
	"Will": {}, "With": {}, "You": {}, "Your": {},
}

// CapitalizedExtractor treats maximal runs of capitalized words as entity
// mentions. "Elon Musk buys Twitter" yields ["Elon Musk", "Twitter"].
type CapitalizedExtractor struct{}

// NewCapitalizedExtractor creates a new extractor
func NewCapitalizedExtractor() *CapitalizedExtractor {
	return &CapitalizedExtractor{}
}

// Extract returns entity mentions in order of appearance, repeats included
func (CapitalizedExtractor) Extract(text string) []string {
	var (
		entities []string
		run      []string
	)

	flush := func() {
		if len(run) > 0 {
			entities = append(entities, strings.Join(run, " "))
			run = run[:0]
		}
	}

	for _, field := range strings.Fields(norm.NFC.String(text)) {
		word := strings.TrimFunc(field, isEdgePunct)
		breaksAfter := word != field && endsClause(field)

		if isCapitalized(word) {
			if _, skip := skipWords[word]; skip && len(run) == 0 {
				continue
			}
			run = append(run, word)
		} else {
			flush()
		}

		if breaksAfter {
			flush()
		}
	}
	flush()

	return entities
}

func isCapitalized(word string) bool {
	for _, r := range word {
		return unicode.IsUpper(r)
	}
	return false
}

func isEdgePunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func endsClause(field string) bool {
	return strings.ContainsAny(field[len(field)-1:], ".,;:!?)\"'")
}
