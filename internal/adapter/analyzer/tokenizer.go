package analyzer

import (
	"strings"
	"unicode"
)

// Tokenizer turns raw text into lower-cased terms. Every maximal run of
// letters and digits is one term; everything else separates terms. There is
// no stop-word list and no stemming, so "cats" and "cat" stay distinct.
type Tokenizer struct{}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize splits text into terms in order of appearance.
func (t *Tokenizer) Tokenize(text string) []string {
	return splitWords(text)
}

// splitWords splits text on any rune that is not a letter or digit and
// lower-cases rune by rune, so a term never gains runes its source lacked.
func splitWords(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(unicode.ToLower(r))
		} else {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}
