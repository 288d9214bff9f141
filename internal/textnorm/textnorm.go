// Package textnorm normalizes Turkish utterances before training, rule
// matching and inference. The same normalization must be applied on every
// path, otherwise the classifier and the rule matcher disagree on tokens.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize lowercases with Turkish casing rules (İ→i, I→ı, cedilla and
// breve letters preserved), replaces every non-alphanumeric rune with a
// space, then collapses whitespace runs and trims. Pure and idempotent.
func Normalize(s string) string {
	// cases.Caser is stateful, so a fresh one per call.
	folded := cases.Lower(language.Turkish).String(s)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens returns the normalized words of s in order.
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}

// WordSet returns the set of normalized words of s.
func WordSet(s string) map[string]struct{} {
	tokens := Tokens(s)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}
